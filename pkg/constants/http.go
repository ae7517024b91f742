// Copyright Dialcraft and each contributor.
// SPDX-License-Identifier: MIT

// Package constants holds shared HTTP header names and context keys.
package constants

// Constants for the HTTP request headers
const (
	// RequestIDHeader is the header name for the request ID
	RequestIDHeader string = "X-REQUEST-ID"

	// SignatureHeader is the header name carrying the webhook HMAC signature
	SignatureHeader string = "X-Webhook-Signature"

	// SignatureTimestampHeader is the header name carrying the webhook signature timestamp
	SignatureTimestampHeader string = "X-Webhook-Timestamp"
)

// contextRequestID is the type for the request ID context key
type contextRequestID string

// RequestIDContextID is the context ID for the request ID
const RequestIDContextID contextRequestID = "X-REQUEST-ID"
