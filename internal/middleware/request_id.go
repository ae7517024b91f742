// Copyright Dialcraft and each contributor.
// SPDX-License-Identifier: MIT

// Package middleware contains the HTTP middleware of the call insight service.
package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/dialcraft/call-insight-service/internal/logging"
	"github.com/dialcraft/call-insight-service/pkg/constants"
)

// RequestIDMiddleware ensures every request carries a request ID, propagates
// it on the response and attaches it to the request-scoped log context.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(constants.RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		ctx := context.WithValue(r.Context(), constants.RequestIDContextID, requestID)
		ctx = logging.AppendCtx(ctx, slog.String("request_id", requestID))

		w.Header().Set(constants.RequestIDHeader, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
