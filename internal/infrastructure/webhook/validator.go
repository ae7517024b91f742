// Copyright Dialcraft and each contributor.
// SPDX-License-Identifier: MIT

// Package webhook verifies the authenticity of inbound webhook requests.
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dialcraft/call-insight-service/internal/domain"
)

// maxTimestampAge bounds how old a signed delivery may be. Anything older is
// treated as a replay.
const maxTimestampAge = 5 * time.Minute

// Validator verifies webhook signatures using HMAC-SHA256 over a
// version-prefixed timestamp and body.
type Validator struct {
	secretToken string
}

// NewValidator creates a new webhook signature validator.
func NewValidator(secretToken string) (*Validator, error) {
	if secretToken == "" {
		return nil, domain.NewValidationError("webhook secret token is required")
	}

	return &Validator{secretToken: secretToken}, nil
}

// ValidateSignature checks the signature header against the expected HMAC of
// the request. The signed message is "v0:<timestamp>:<body>" and the header
// carries the hex digest prefixed with "v0=".
func (v *Validator) ValidateSignature(body []byte, signature, timestamp string) error {
	if signature == "" {
		return domain.NewValidationError("webhook signature header is missing")
	}
	if timestamp == "" {
		return domain.NewValidationError("webhook timestamp header is missing")
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return domain.NewValidationError("webhook timestamp is not a unix timestamp", err)
	}
	if time.Now().Unix()-ts > int64(maxTimestampAge.Seconds()) {
		return domain.NewValidationError("webhook timestamp is too old")
	}

	message := fmt.Sprintf("v0:%s:%s", timestamp, string(body))

	mac := hmac.New(sha256.New, []byte(v.secretToken))
	mac.Write([]byte(message))
	expected := "v0=" + hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(strings.TrimSpace(signature)), []byte(expected)) {
		return domain.NewValidationError("webhook signature mismatch")
	}

	return nil
}

// GetSecretToken returns the configured secret token.
func (v *Validator) GetSecretToken() string {
	return v.secretToken
}
