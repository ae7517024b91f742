// Copyright Dialcraft and each contributor.
// SPDX-License-Identifier: MIT

package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/dialcraft/call-insight-service/internal/handlers"
	"github.com/dialcraft/call-insight-service/internal/middleware"
)

// newRouter assembles the HTTP routes. Webhook paths only accept POST; chi
// answers other methods with 405.
func newRouter(webhookHandler *handlers.WebhookHandler, ready func() bool) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.RequestLoggerMiddleware)

	r.Get("/livez", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		if !ready() {
			http.Error(w, "service not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Route("/webhooks", func(r chi.Router) {
		r.Use(middleware.WebhookBodyCaptureMiddleware)
		r.Post("/billing", webhookHandler.HandleBillingWebhook)
		r.Post("/{provider:zoom|fireflies|meetgeek}", webhookHandler.HandleProviderWebhook)
	})

	return otelhttp.NewHandler(r, "call-insight-api")
}
