// Copyright Dialcraft and each contributor.
// SPDX-License-Identifier: MIT

package service

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dialcraft/call-insight-service/internal/domain/models"
	"github.com/dialcraft/call-insight-service/pkg/utils"
)

// followUpLeadTime is how far out the suggested follow-up date is set for
// calls that need one.
const followUpLeadTime = 3 * 24 * time.Hour

// EvaluationService scores a call against the organization's weighted
// criteria and classifies its outcome. The classification is a hand-tuned
// heuristic, not a guarantee; its thresholds live in OrgSettings.
type EvaluationService struct{}

// NewEvaluationService creates a new evaluation engine.
func NewEvaluationService() *EvaluationService {
	return &EvaluationService{}
}

// Evaluate produces the evaluation for a call record. The analysis result may
// be nil when the oracle ran in degraded mode.
func (s *EvaluationService) Evaluate(record *models.CallRecord, settings *models.OrgSettings, analysis *models.AnalysisResult) *models.CallEvaluation {
	outcome := s.ClassifyOutcome(record, settings)

	raws := s.generateRawScores(settings.Criteria, outcome, record)
	scores, total, weighted := s.ComputeScores(settings.Criteria, raws)

	evaluation := &models.CallEvaluation{
		UID:           uuid.New().String(),
		CallRecordUID: record.UID,
		Outcome:       outcome,
		Scores:        scores,
		TotalScore:    total,
		WeightedScore: weighted,
		CreatedAt:     time.Now().UTC(),
	}

	if analysis != nil {
		evaluation.NextSteps = analysis.NextSteps
	}

	if outcome == models.OutcomeFollowUpRequired {
		base := record.EndTime
		if base.IsZero() {
			base = time.Now().UTC()
		}
		evaluation.FollowUpDate = utils.TimePtr(base.Add(followUpLeadTime))
	}

	return evaluation
}

// ClassifyOutcome applies the heuristic outcome rules: a call that never
// started is cancelled; a very short call with no external invitees is a
// no-show; otherwise the transcript signal counts and duration thresholds
// decide between won, lost and follow-up.
func (s *EvaluationService) ClassifyOutcome(record *models.CallRecord, settings *models.OrgSettings) models.CallOutcome {
	noShowThreshold := settings.NoShowThresholdMinutes
	if noShowThreshold <= 0 {
		noShowThreshold = models.DefaultNoShowThresholdMinutes
	}
	wonMinimum := settings.WonCallMinimumMinutes
	if wonMinimum <= 0 {
		wonMinimum = models.DefaultWonCallMinimumMinutes
	}

	if record.DurationMinutes == 0 && record.StartTime.IsZero() {
		return models.OutcomeCancelled
	}

	if record.DurationMinutes <= noShowThreshold && record.ExternalInviteeCount() == 0 {
		return models.OutcomeNoShow
	}

	positive := CountSignals(record.Transcript, settings.PositiveSignals)
	negative := CountSignals(record.Transcript, settings.NegativeSignals)

	switch {
	case positive > negative:
		if record.DurationMinutes > wonMinimum {
			return models.OutcomeClosedWon
		}
		return models.OutcomeFollowUpRequired
	case negative > positive:
		return models.OutcomeClosedLost
	default:
		if record.DurationMinutes > noShowThreshold {
			return models.OutcomeFollowUpRequired
		}
		return models.OutcomeClosedLost
	}
}

// CountSignals counts case-insensitive occurrences of the configured phrases
// in the transcript.
func CountSignals(transcript string, phrases []string) int {
	if transcript == "" {
		return 0
	}

	lowered := strings.ToLower(transcript)
	count := 0
	for _, phrase := range phrases {
		phrase = strings.ToLower(strings.TrimSpace(phrase))
		if phrase == "" {
			continue
		}
		count += strings.Count(lowered, phrase)
	}
	return count
}

// NormalizeRawScore maps a raw score into [0,1]: booleans to {0,1}, numbers
// to score/maxScore, and free text to a fixed 0.5 midpoint since text cannot
// be objectively ranked.
func (s *EvaluationService) NormalizeRawScore(criterion models.Criterion, raw models.RawScore) float64 {
	switch {
	case raw.Bool != nil:
		if *raw.Bool {
			return 1
		}
		return 0
	case raw.Number != nil:
		maxScore := criterion.MaxScore
		if maxScore <= 0 {
			maxScore = 1
		}
		return clamp01(*raw.Number / maxScore)
	case raw.Text != "":
		return 0.5
	default:
		return 0
	}
}

// ComputeScores normalizes each raw score and aggregates the total (unweighted
// mean x 100) and weighted (weight-proportional sum x 100) scores, both
// clamped to [0,100]. Raw scores beyond the criteria list are ignored;
// missing ones score zero.
func (s *EvaluationService) ComputeScores(criteria []models.Criterion, raws []models.RawScore) ([]models.CriterionScore, float64, float64) {
	if len(criteria) == 0 {
		return nil, 0, 0
	}

	scores := make([]models.CriterionScore, 0, len(criteria))
	var sum, weightedSum float64
	var weightTotal int

	for i, criterion := range criteria {
		var raw models.RawScore
		if i < len(raws) {
			raw = raws[i]
		}

		weight := criterion.Weight
		if weight < 1 {
			weight = 1
		} else if weight > 10 {
			weight = 10
		}

		normalized := s.NormalizeRawScore(criterion, raw)
		scores = append(scores, models.CriterionScore{
			CriterionID: criterion.ID,
			Weight:      weight,
			Raw:         raw,
			Normalized:  normalized,
		})

		sum += normalized
		weightedSum += float64(weight) * normalized
		weightTotal += weight
	}

	total := clamp01(sum/float64(len(criteria))) * 100
	weighted := 0.0
	if weightTotal > 0 {
		weighted = clamp01(weightedSum/float64(weightTotal)) * 100
	}

	return scores, total, weighted
}

// generateRawScores derives a deterministic raw score per criterion from the
// classified outcome and call shape.
func (s *EvaluationService) generateRawScores(criteria []models.Criterion, outcome models.CallOutcome, record *models.CallRecord) []models.RawScore {
	engagement := outcomeEngagement(outcome)
	if record.Transcript == "" {
		// Without a transcript the scoring has nothing to go on beyond
		// metadata, so the signal is discounted.
		engagement /= 2
	}

	raws := make([]models.RawScore, len(criteria))
	for i, criterion := range criteria {
		if criterion.MaxScore > 0 {
			raws[i] = models.RawScore{Number: utils.Float64Ptr(engagement * criterion.MaxScore)}
		} else {
			raws[i] = models.RawScore{Bool: utils.BoolPtr(engagement >= 0.5)}
		}
	}
	return raws
}

func outcomeEngagement(outcome models.CallOutcome) float64 {
	switch outcome {
	case models.OutcomeClosedWon:
		return 0.9
	case models.OutcomeFollowUpRequired:
		return 0.6
	case models.OutcomeClosedLost:
		return 0.25
	default: // no_show, cancelled
		return 0
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
