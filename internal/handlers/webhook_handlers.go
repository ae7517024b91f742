// Copyright Dialcraft and each contributor.
// SPDX-License-Identifier: MIT

// Package handlers contains the HTTP and NATS entry points of the call
// insight service.
package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dialcraft/call-insight-service/internal/domain"
	"github.com/dialcraft/call-insight-service/internal/logging"
	"github.com/dialcraft/call-insight-service/internal/middleware"
	"github.com/dialcraft/call-insight-service/internal/service"
	"github.com/dialcraft/call-insight-service/pkg/constants"
)

// WebhookHandler serves the inbound provider and billing webhook endpoints.
type WebhookHandler struct {
	ingestionService   *service.IngestionService
	entitlementService *service.EntitlementService
	// providerValidator verifies provider deliveries that carry signatures
	// (Zoom); nil means unsigned deliveries are accepted.
	providerValidator domain.WebhookValidator
	// billingValidator is mandatory for the billing webhook.
	billingValidator domain.WebhookValidator
	// defaultOrganizationID scopes deliveries whose URL carries no org
	// parameter.
	defaultOrganizationID string
}

// NewWebhookHandler creates a new webhook HTTP handler.
func NewWebhookHandler(
	ingestionService *service.IngestionService,
	entitlementService *service.EntitlementService,
	providerValidator domain.WebhookValidator,
	billingValidator domain.WebhookValidator,
	defaultOrganizationID string,
) *WebhookHandler {
	return &WebhookHandler{
		ingestionService:      ingestionService,
		entitlementService:    entitlementService,
		providerValidator:     providerValidator,
		billingValidator:      billingValidator,
		defaultOrganizationID: defaultOrganizationID,
	}
}

// HandleProviderWebhook processes a recording webhook delivery. The body may
// be a single JSON object or an array; the response always carries one result
// per item with HTTP 200, so providers do not retry items that were handled.
// Only structurally invalid bodies and failed signatures get a 400.
func (h *WebhookHandler) HandleProviderWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	provider := chi.URLParam(r, "provider")

	body, err := h.requestBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	if h.providerValidator != nil && r.Header.Get(constants.SignatureHeader) != "" {
		if err := h.providerValidator.ValidateSignature(body,
			r.Header.Get(constants.SignatureHeader),
			r.Header.Get(constants.SignatureTimestampHeader)); err != nil {
			slog.WarnContext(ctx, "provider webhook signature verification failed",
				logging.ErrKey, err, "provider", provider)
			writeError(w, http.StatusBadRequest, "signature verification failed")
			return
		}
	}

	items, err := splitItems(body)
	if err != nil {
		slog.WarnContext(ctx, "structurally invalid webhook body",
			logging.ErrKey, err, "provider", provider)
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	organizationID := r.URL.Query().Get("org")
	if organizationID == "" {
		organizationID = h.defaultOrganizationID
	}

	results := make([]service.IngestResult, 0, len(items))
	for _, item := range items {
		results = append(results, h.ingestionService.Ingest(ctx, organizationID, provider, item))
	}

	writeJSON(w, http.StatusOK, results)
}

// HandleBillingWebhook processes a signed entitlement update. Signature
// verification happens before any parsing; failure rejects the whole request.
func (h *WebhookHandler) HandleBillingWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := h.requestBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	if h.billingValidator == nil {
		writeError(w, http.StatusServiceUnavailable, "billing webhook is not configured")
		return
	}

	if err := h.billingValidator.ValidateSignature(body,
		r.Header.Get(constants.SignatureHeader),
		r.Header.Get(constants.SignatureTimestampHeader)); err != nil {
		slog.WarnContext(ctx, "billing webhook signature verification failed", logging.ErrKey, err)
		writeError(w, http.StatusBadRequest, "signature verification failed")
		return
	}

	if err := h.entitlementService.HandleBillingEvent(ctx, body); err != nil {
		switch domain.GetErrorType(err) {
		case domain.ErrorTypeValidation:
			writeError(w, http.StatusBadRequest, err.Error())
		case domain.ErrorTypeNotFound:
			// Billing events for users this service does not know about are
			// acknowledged so the billing system does not retry them.
			slog.WarnContext(ctx, "billing event matched no user", logging.ErrKey, err)
			writeJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		default:
			slog.ErrorContext(ctx, "failed to process billing event", logging.ErrKey, err)
			writeError(w, http.StatusInternalServerError, "failed to process billing event")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *WebhookHandler) requestBody(r *http.Request) ([]byte, error) {
	if body, ok := middleware.BodyFromContext(r.Context()); ok {
		return body, nil
	}
	return io.ReadAll(r.Body)
}

// splitItems accepts either a single JSON object or an array of objects and
// returns the individual raw items.
func splitItems(body []byte) ([][]byte, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, domain.NewValidationError("empty body")
	}

	if trimmed[0] == '[' {
		var raw []json.RawMessage
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return nil, domain.NewValidationError("invalid JSON array", err)
		}
		items := make([][]byte, 0, len(raw))
		for _, item := range raw {
			items = append(items, item)
		}
		return items, nil
	}

	if !json.Valid(trimmed) {
		return nil, domain.NewValidationError("invalid JSON object")
	}
	return [][]byte{trimmed}, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", logging.ErrKey, err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
