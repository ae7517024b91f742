// Copyright Dialcraft and each contributor.
// SPDX-License-Identifier: MIT

package domain

import "context"

// OracleRequest is the input to the analysis oracle: an instruction prompt
// plus the call transcript. The transcript may be empty, in which case the
// oracle runs in degraded mode.
type OracleRequest struct {
	Prompt     string `json:"prompt"`
	Transcript string `json:"transcript"`
}

// OracleResult is the structured output of the analysis oracle.
type OracleResult struct {
	Summary     string   `json:"summary"`
	NextSteps   string   `json:"next_steps"`
	Objections  []string `json:"objections"`
	BuySignals  []string `json:"buy_signals"`
	Sentiment   string   `json:"sentiment"`
	RawResponse string   `json:"-"`
}

// AnalysisOracle is the external scoring oracle consumed as an opaque
// collaborator. Transient failures (timeouts, rate limits) are reported as
// unavailable errors so callers can retry them; permanent failures are not.
type AnalysisOracle interface {
	Analyze(ctx context.Context, req OracleRequest) (*OracleResult, error)
}
