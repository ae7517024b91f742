// Copyright Dialcraft and each contributor.
// SPDX-License-Identifier: MIT

package providers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/dialcraft/call-insight-service/internal/domain"
)

const (
	transcriptFetchTimeout = 10 * time.Second
	// maxTranscriptBytes caps transcript downloads at 4 MiB.
	maxTranscriptBytes = 4 << 20
)

// HTTPTranscriptFetcher downloads transcripts from provider-supplied URLs.
// The short timeout keeps a slow provider from stalling webhook ingestion.
type HTTPTranscriptFetcher struct {
	client *http.Client
}

// NewHTTPTranscriptFetcher creates a transcript fetcher with a traced HTTP client.
func NewHTTPTranscriptFetcher() *HTTPTranscriptFetcher {
	return &HTTPTranscriptFetcher{
		client: &http.Client{
			Timeout:   transcriptFetchTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// Fetch downloads the transcript at the given URL.
func (f *HTTPTranscriptFetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", domain.NewValidationError("invalid transcript URL", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", domain.NewUnavailableError("transcript fetch failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", domain.NewUnavailableError(
			fmt.Sprintf("transcript fetch returned status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTranscriptBytes))
	if err != nil {
		return "", domain.NewUnavailableError("failed to read transcript body", err)
	}

	return string(body), nil
}
