// Copyright Dialcraft and each contributor.
// SPDX-License-Identifier: MIT

package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeKeyRoundTrip(t *testing.T) {
	kb := NewKeyBuilder()

	tests := []string{
		"index/external-id/zoom/user-1/simple-id",
		// Zoom meeting UUIDs carry base64 characters that are invalid in raw
		// NATS KV keys.
		"index/external-id/zoom/user-1/abc+def/ghi==",
		"index/external-id/meetgeek/user-2/abc123",
	}

	for _, key := range tests {
		encoded, err := kb.EncodeKey(key)
		require.NoError(t, err)
		assert.NotContains(t, encoded, "+")

		decoded, err := kb.DecodeKey(encoded)
		require.NoError(t, err)
		assert.Equal(t, key, decoded)
	}
}

func TestExternalIDIndexKey(t *testing.T) {
	kb := NewKeyBuilder()

	key, err := kb.ExternalIDIndexKey("user-1", "zoom", "zoom-uuid-1")
	require.NoError(t, err)
	assert.True(t, kb.IsIndexKey(key))

	decoded, err := kb.DecodeKey(key)
	require.NoError(t, err)
	assert.Equal(t, "index/external-id/zoom/user-1/zoom-uuid-1", decoded)
}

func TestIsIndexKey(t *testing.T) {
	kb := NewKeyBuilder()

	assert.False(t, kb.IsIndexKey("8e2c3f9a-7c2b-4f34-9a61-1f2d3c4b5a69"))
	assert.False(t, kb.IsIndexKey("call_processing/rec-1"))

	encoded, err := kb.ExternalIDIndexKey("user-1", "fireflies", "ff-1")
	require.NoError(t, err)
	assert.True(t, kb.IsIndexKey(encoded))
}

func TestRunKey(t *testing.T) {
	kb := NewKeyBuilder()
	assert.Equal(t, "call_processing/rec-1", kb.RunKey("call_processing", "rec-1"))
}
