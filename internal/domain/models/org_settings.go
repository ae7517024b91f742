// Copyright Dialcraft and each contributor.
// SPDX-License-Identifier: MIT

package models

import "time"

// Default tuning values used when an organization has no stored settings.
// The window and thresholds are hand-tuned product constants, so they are
// configuration rather than code.
const (
	DefaultScheduleWindowMinutes  = 30
	DefaultNoShowThresholdMinutes = 2
	DefaultWonCallMinimumMinutes  = 15
)

// DefaultAnalysisPrompt is the instruction prompt sent to the analysis oracle
// when the organization has not configured its own.
const DefaultAnalysisPrompt = "You are a sales coach. Review the call transcript and summarize " +
	"the prospect's objections, buying signals, and concrete next steps."

// OrgSettings holds the per-organization analysis configuration.
type OrgSettings struct {
	OrganizationID string `json:"organization_id"`
	// AnalysisPrompt is the instruction prompt passed to the analysis oracle.
	AnalysisPrompt string `json:"analysis_prompt"`
	// Criteria is the weighted criteria set used by the evaluation engine.
	Criteria []Criterion `json:"criteria"`
	// PositiveSignals and NegativeSignals are the phrase sets scanned for in
	// transcripts when classifying the call outcome.
	PositiveSignals []string `json:"positive_signals"`
	NegativeSignals []string `json:"negative_signals"`
	// ScheduleWindowMinutes is the tolerance for fuzzy duplicate matching.
	ScheduleWindowMinutes int `json:"schedule_window_minutes"`
	// NoShowThresholdMinutes is the duration at or below which a call with no
	// external invitees counts as a no-show.
	NoShowThresholdMinutes int `json:"no_show_threshold_minutes"`
	// WonCallMinimumMinutes is the minimum duration for a positive-signal
	// call to classify as closed-won.
	WonCallMinimumMinutes int `json:"won_call_minimum_minutes"`
	// FallbackOwnerUID is the account that registered the webhook endpoints;
	// used when a provider payload carries no per-recording owner identity.
	FallbackOwnerUID string    `json:"fallback_owner_uid,omitempty"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// DefaultOrgSettings returns the settings used for organizations that have
// not configured any.
func DefaultOrgSettings(organizationID string) *OrgSettings {
	return &OrgSettings{
		OrganizationID: organizationID,
		AnalysisPrompt: DefaultAnalysisPrompt,
		PositiveSignals: []string{
			"sounds good",
			"let's move forward",
			"send over the contract",
			"we have budget",
			"when can we start",
		},
		NegativeSignals: []string{
			"not interested",
			"too expensive",
			"we went with",
			"no budget",
			"maybe next year",
		},
		ScheduleWindowMinutes:  DefaultScheduleWindowMinutes,
		NoShowThresholdMinutes: DefaultNoShowThresholdMinutes,
		WonCallMinimumMinutes:  DefaultWonCallMinimumMinutes,
	}
}

// ScheduleWindow returns the fuzzy duplicate window as a duration.
func (s *OrgSettings) ScheduleWindow() time.Duration {
	minutes := s.ScheduleWindowMinutes
	if minutes <= 0 {
		minutes = DefaultScheduleWindowMinutes
	}
	return time.Duration(minutes) * time.Minute
}
