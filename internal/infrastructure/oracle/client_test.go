// Copyright Dialcraft and each contributor.
// SPDX-License-Identifier: MIT

package oracle

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dialcraft/call-insight-service/internal/domain"
)

func TestNewClientRequiresBaseURL(t *testing.T) {
	_, err := NewClient("", "key")
	assert.Error(t, err)
}

func TestAnalyze(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/analyze", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req analyzeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "coach prompt", req.Prompt)
		assert.Equal(t, "Pat: sounds good.", req.Transcript)

		_ = json.NewEncoder(w).Encode(analyzeResponse{
			Summary:    "Positive call",
			NextSteps:  "Send the proposal",
			Objections: []string{"pricing"},
			BuySignals: []string{"sounds good"},
			Sentiment:  "positive",
		})
	}))
	defer server.Close()

	client, err := NewClient(server.URL, "test-key")
	require.NoError(t, err)

	result, err := client.Analyze(context.Background(), domain.OracleRequest{
		Prompt:     "coach prompt",
		Transcript: "Pat: sounds good.",
	})
	require.NoError(t, err)

	assert.Equal(t, "Positive call", result.Summary)
	assert.Equal(t, "Send the proposal", result.NextSteps)
	assert.Equal(t, []string{"pricing"}, result.Objections)
	assert.NotEmpty(t, result.RawResponse)
}

func TestAnalyzeTransientStatusesAreUnavailable(t *testing.T) {
	for _, status := range []int{http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(status)
		}))

		client, err := NewClient(server.URL, "")
		require.NoError(t, err)

		_, err = client.Analyze(context.Background(), domain.OracleRequest{Prompt: "p"})
		require.Error(t, err)
		assert.Equal(t, domain.ErrorTypeUnavailable, domain.GetErrorType(err), "status %d", status)

		server.Close()
	}
}

func TestAnalyzeClientErrorIsPermanent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client, err := NewClient(server.URL, "")
	require.NoError(t, err)

	_, err = client.Analyze(context.Background(), domain.OracleRequest{Prompt: "p"})
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeInternal, domain.GetErrorType(err))
}

func TestAnalyzeConnectionFailureIsUnavailable(t *testing.T) {
	client, err := NewClient("http://127.0.0.1:1", "")
	require.NoError(t, err)

	_, err = client.Analyze(context.Background(), domain.OracleRequest{Prompt: "p"})
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeUnavailable, domain.GetErrorType(err))
}
