// Copyright Dialcraft and each contributor.
// SPDX-License-Identifier: MIT

package store

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/nats-io/nats.go"
)

// Key prefixes used inside the KV buckets.
const (
	// KeyPrefixIndex marks index entries that map a lookup value to an
	// entity UID.
	KeyPrefixIndex = "index"

	// KeyIndexExternalID is the index type for the owner-scoped provider
	// external ID, the idempotency key of a call record.
	KeyIndexExternalID = "external-id"
)

// KeyBuilder provides utilities for building consistent NATS KV keys.
type KeyBuilder struct{}

// NewKeyBuilder creates a new key builder.
func NewKeyBuilder() *KeyBuilder {
	return &KeyBuilder{}
}

// ExternalIDIndexKey builds the encoded index key for a call record's
// idempotency key. The external ID segment can contain characters that are
// invalid in NATS KV keys (Zoom meeting UUIDs carry '=', '+' and '/'), so the
// whole key is encoded.
func (kb *KeyBuilder) ExternalIDIndexKey(ownerUID, provider, externalID string) (string, error) {
	key := fmt.Sprintf("%s/%s/%s/%s/%s", KeyPrefixIndex, KeyIndexExternalID, provider, ownerUID, externalID)
	return kb.EncodeKey(key)
}

// RunKey builds the key for a workflow run, scoped by run kind.
func (kb *KeyBuilder) RunKey(kind, subjectUID string) string {
	return fmt.Sprintf("%s/%s", kind, subjectUID)
}

// IsIndexKey reports whether a stored key is an encoded index entry rather
// than an entity. Encoded keys join base64 segments with dots; entity keys
// are UUIDs or kind/uid pairs and never contain one.
func (kb *KeyBuilder) IsIndexKey(key string) bool {
	return strings.Contains(key, ".")
}

// EncodeKey encodes a key for the NATS KV store.
// From https://github.com/ripienaar/encodedkv
//
// NATS limitations: https://docs.nats.io/nats-concepts/jetstream/key-value-store#notes
func (kb *KeyBuilder) EncodeKey(key string) (string, error) {
	res := []string{}
	for _, part := range strings.Split(strings.TrimPrefix(key, "/"), "/") {
		if part == ">" || part == "*" {
			res = append(res, part)
			continue
		}

		dst := make([]byte, base64.StdEncoding.EncodedLen(len(part)))
		base64.StdEncoding.Encode(dst, []byte(part))
		res = append(res, string(dst))
	}

	if len(res) == 0 {
		return "", nats.ErrInvalidKey
	}

	return strings.Join(res, "."), nil
}

// DecodeKey decodes a key from the NATS KV store.
// From https://github.com/ripienaar/encodedkv
func (kb *KeyBuilder) DecodeKey(key string) (string, error) {
	res := []string{}
	for _, part := range strings.Split(key, ".") {
		k, err := base64.StdEncoding.DecodeString(part)
		if err != nil {
			return "", err
		}

		res = append(res, string(k))
	}

	if len(res) == 0 {
		return "", nats.ErrInvalidKey
	}

	return strings.Join(res, "/"), nil
}
