// Copyright Dialcraft and each contributor.
// SPDX-License-Identifier: MIT

package models

import "time"

// CallOutcome is the heuristic classification of a call.
type CallOutcome string

const (
	OutcomeClosedWon        CallOutcome = "closed_won"
	OutcomeClosedLost       CallOutcome = "closed_lost"
	OutcomeFollowUpRequired CallOutcome = "follow_up_required"
	OutcomeNoShow           CallOutcome = "no_show"
	OutcomeCancelled        CallOutcome = "cancelled"
)

// Criterion is a weighted, scorable dimension of call quality configured per
// organization.
type Criterion struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Weight int    `json:"weight"` // 1-10
	// MaxScore is the upper bound for numeric raw scores on this criterion.
	MaxScore float64 `json:"max_score,omitempty"`
}

// RawScore is the unnormalized score for one criterion. Exactly one of the
// value fields is set: a boolean, a numeric value on the criterion's scale,
// or free text.
type RawScore struct {
	Bool   *bool    `json:"bool,omitempty"`
	Number *float64 `json:"number,omitempty"`
	Text   string   `json:"text,omitempty"`
}

// CriterionScore is one scored criterion inside an evaluation.
type CriterionScore struct {
	CriterionID string   `json:"criterion_id"`
	Weight      int      `json:"weight"`
	Raw         RawScore `json:"raw"`
	// Normalized is the raw score mapped into [0,1].
	Normalized float64 `json:"normalized"`
}

// CallEvaluation is the derived scoring result for a call record. It is
// created once per record and only replaced wholesale by a re-run, never
// mutated in place.
type CallEvaluation struct {
	UID           string           `json:"uid"`
	CallRecordUID string           `json:"call_record_uid"`
	Outcome       CallOutcome      `json:"outcome"`
	Scores        []CriterionScore `json:"scores"`
	// TotalScore is the unweighted mean of normalized scores scaled to 0-100.
	TotalScore float64 `json:"total_score"`
	// WeightedScore is the weight-proportional sum scaled to 0-100.
	WeightedScore float64    `json:"weighted_score"`
	NextSteps     string     `json:"next_steps,omitempty"`
	FollowUpDate  *time.Time `json:"follow_up_date,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}
