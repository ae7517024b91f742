// Copyright Dialcraft and each contributor.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"github.com/dialcraft/call-insight-service/internal/domain/models"
)

// ProviderAdapter converts one provider's webhook payload into the canonical
// IngestedRecording. Adapters are pure transformations apart from at most one
// outbound transcript fetch.
type ProviderAdapter interface {
	// Provider returns the provider name the adapter handles.
	Provider() string
	// Normalize parses a single payload item. It returns a validation error
	// when the payload lacks both an external ID and owner identity.
	Normalize(ctx context.Context, payload []byte) (*models.IngestedRecording, error)
}

// TranscriptFetcher retrieves a transcript from a provider-supplied URL.
// Failures are non-fatal to ingestion; the recording proceeds with an empty
// transcript.
type TranscriptFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}
