// Copyright Dialcraft and each contributor.
// SPDX-License-Identifier: MIT

package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signBody(secret string, body []byte, timestamp string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(fmt.Sprintf("v0:%s:%s", timestamp, string(body))))
	return "v0=" + hex.EncodeToString(mac.Sum(nil))
}

func unixTimestamp(offset time.Duration) string {
	return fmt.Sprintf("%d", time.Now().Add(offset).Unix())
}

func TestNewValidatorRequiresSecret(t *testing.T) {
	_, err := NewValidator("")
	assert.Error(t, err)
}

func TestValidateSignature(t *testing.T) {
	validator, err := NewValidator("test-secret")
	require.NoError(t, err)

	body := []byte(`{"id":"abc123"}`)
	timestamp := unixTimestamp(0)
	signature := signBody("test-secret", body, timestamp)

	assert.NoError(t, validator.ValidateSignature(body, signature, timestamp))
	// Surrounding whitespace on the header is tolerated.
	assert.NoError(t, validator.ValidateSignature(body, "  "+signature+"\n", timestamp))
}

func TestValidateSignatureMismatch(t *testing.T) {
	validator, err := NewValidator("test-secret")
	require.NoError(t, err)

	body := []byte(`{"id":"abc123"}`)
	timestamp := unixTimestamp(0)

	tests := []struct {
		name      string
		body      []byte
		signature string
		timestamp string
	}{
		{"wrong secret", body, signBody("other-secret", body, timestamp), timestamp},
		{"tampered body", []byte(`{"id":"tampered"}`), signBody("test-secret", body, timestamp), timestamp},
		{"wrong timestamp", body, signBody("test-secret", body, timestamp), unixTimestamp(time.Second)},
		{"missing signature", body, "", timestamp},
		{"missing timestamp", body, signBody("test-secret", body, timestamp), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, validator.ValidateSignature(tt.body, tt.signature, tt.timestamp))
		})
	}
}

func TestValidateSignatureRejectsReplay(t *testing.T) {
	validator, err := NewValidator("test-secret")
	require.NoError(t, err)

	body := []byte(`{"id":"abc123"}`)

	// A correctly signed delivery older than the freshness window is rejected.
	stale := unixTimestamp(-10 * time.Minute)
	err = validator.ValidateSignature(body, signBody("test-secret", body, stale), stale)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too old")

	// The edge of the window still passes.
	recent := unixTimestamp(-maxTimestampAge + time.Minute)
	assert.NoError(t, validator.ValidateSignature(body, signBody("test-secret", body, recent), recent))
}

func TestValidateSignatureRejectsNonNumericTimestamp(t *testing.T) {
	validator, err := NewValidator("test-secret")
	require.NoError(t, err)

	body := []byte(`{"id":"abc123"}`)
	assert.Error(t, validator.ValidateSignature(body, signBody("test-secret", body, "yesterday"), "yesterday"))
}
