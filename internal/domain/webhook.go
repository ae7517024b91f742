// Copyright Dialcraft and each contributor.
// SPDX-License-Identifier: MIT

package domain

// WebhookValidator verifies the HMAC signature of an inbound webhook request.
type WebhookValidator interface {
	// ValidateSignature checks the signature over the raw request body.
	ValidateSignature(body []byte, signature, timestamp string) error
	// GetSecretToken returns the configured shared secret.
	GetSecretToken() string
}
