// Copyright Dialcraft and each contributor.
// SPDX-License-Identifier: MIT

// Package oracle is the HTTP client for the external call analysis oracle.
package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/dialcraft/call-insight-service/internal/domain"
	"github.com/dialcraft/call-insight-service/internal/logging"
)

const defaultTimeout = 60 * time.Second

// Client calls the analysis oracle over HTTP. The oracle is consumed as an
// opaque collaborator: one request in, one structured result out.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new oracle client.
func NewClient(baseURL, apiKey string) (*Client, error) {
	if baseURL == "" {
		return nil, domain.NewValidationError("oracle base URL is required")
	}

	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout:   defaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}, nil
}

type analyzeRequest struct {
	Prompt     string `json:"prompt"`
	Transcript string `json:"transcript"`
}

type analyzeResponse struct {
	Summary    string   `json:"summary"`
	NextSteps  string   `json:"next_steps"`
	Objections []string `json:"objections"`
	BuySignals []string `json:"buy_signals"`
	Sentiment  string   `json:"sentiment"`
}

// Analyze submits a prompt and transcript for analysis. Timeouts, rate limits
// and 5xx responses surface as unavailable errors so the workflow retries
// them; 4xx responses are permanent.
func (c *Client) Analyze(ctx context.Context, req domain.OracleRequest) (*domain.OracleResult, error) {
	body, err := json.Marshal(analyzeRequest{
		Prompt:     req.Prompt,
		Transcript: req.Transcript,
	})
	if err != nil {
		return nil, domain.NewInternalError("failed to marshal oracle request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/analyze", bytes.NewReader(body))
	if err != nil {
		return nil, domain.NewInternalError("failed to build oracle request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, domain.NewUnavailableError("oracle request timed out", err)
		}
		return nil, domain.NewUnavailableError("oracle request failed", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.NewUnavailableError("failed to read oracle response", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to decoding
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		slog.WarnContext(ctx, "oracle returned transient error", "status", resp.StatusCode)
		return nil, domain.NewUnavailableError(
			fmt.Sprintf("oracle returned status %d", resp.StatusCode))
	default:
		return nil, domain.NewInternalError(
			fmt.Sprintf("oracle rejected request with status %d", resp.StatusCode))
	}

	var decoded analyzeResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		slog.ErrorContext(ctx, "error decoding oracle response", logging.ErrKey, err)
		return nil, domain.NewInternalError("failed to decode oracle response", err)
	}

	return &domain.OracleResult{
		Summary:     decoded.Summary,
		NextSteps:   decoded.NextSteps,
		Objections:  decoded.Objections,
		BuySignals:  decoded.BuySignals,
		Sentiment:   decoded.Sentiment,
		RawResponse: string(raw),
	}, nil
}
