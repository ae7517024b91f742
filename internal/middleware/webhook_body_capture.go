// Copyright Dialcraft and each contributor.
// SPDX-License-Identifier: MIT

package middleware

import (
	"bytes"
	"context"
	"io"
	"net/http"
)

// maxWebhookBodyBytes caps webhook bodies at 8 MiB.
const maxWebhookBodyBytes = 8 << 20

type bodyCtxKey struct{}

// WebhookBodyCaptureMiddleware reads the request body once and stashes the
// raw bytes in the context, so signature verification and payload parsing
// operate on the same bytes.
func WebhookBodyCaptureMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBodyBytes+1))
		if err != nil {
			http.Error(w, "failed to read request body", http.StatusBadRequest)
			return
		}
		if len(body) > maxWebhookBodyBytes {
			http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		ctx := context.WithValue(r.Context(), bodyCtxKey{}, body)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// BodyFromContext returns the raw request body captured by
// WebhookBodyCaptureMiddleware.
func BodyFromContext(ctx context.Context) ([]byte, bool) {
	body, ok := ctx.Value(bodyCtxKey{}).([]byte)
	return body, ok
}
