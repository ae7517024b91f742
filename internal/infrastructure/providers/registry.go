// Copyright Dialcraft and each contributor.
// SPDX-License-Identifier: MIT

// Package providers normalizes recording provider webhook payloads into the
// canonical ingested recording shape.
package providers

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dialcraft/call-insight-service/internal/domain"
	"github.com/dialcraft/call-insight-service/internal/domain/models"
)

// Registry holds one adapter per supported recording provider.
type Registry struct {
	adapters map[string]domain.ProviderAdapter
}

// NewRegistry creates a registry with all supported provider adapters.
func NewRegistry(transcripts domain.TranscriptFetcher) *Registry {
	registry := &Registry{
		adapters: make(map[string]domain.ProviderAdapter),
	}

	for _, adapter := range []domain.ProviderAdapter{
		NewZoomAdapter(transcripts),
		NewFirefliesAdapter(transcripts),
		NewMeetGeekAdapter(),
	} {
		registry.adapters[adapter.Provider()] = adapter
	}

	return registry
}

// Get returns the adapter for the given provider name.
func (r *Registry) Get(provider string) (domain.ProviderAdapter, error) {
	adapter, ok := r.adapters[provider]
	if !ok {
		return nil, domain.NewValidationError(fmt.Sprintf("unsupported provider '%s'", provider))
	}
	return adapter, nil
}

// Providers returns the names of all registered providers.
func (r *Registry) Providers() []string {
	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}
	return names
}

// emailDomain returns the lowercased domain part of an email address.
func emailDomain(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return ""
	}
	return strings.ToLower(email[at+1:])
}

// markExternal fills the external-domain flag for invitees that the provider
// did not classify, comparing against the owner's email domain. An invitee
// with no email stays internal.
func markExternal(invitees []models.Invitee, ownerEmail string) []models.Invitee {
	ownerDomain := emailDomain(ownerEmail)
	for i := range invitees {
		if invitees[i].Email == "" || ownerDomain == "" {
			continue
		}
		invitees[i].External = emailDomain(invitees[i].Email) != ownerDomain
	}
	return invitees
}

// rawMetadata decodes the payload into a generic map preserved on the
// recording for later inspection.
func rawMetadata(payload []byte) map[string]any {
	var meta map[string]any
	if err := json.Unmarshal(payload, &meta); err != nil {
		return nil
	}
	return meta
}
