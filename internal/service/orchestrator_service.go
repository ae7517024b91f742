// Copyright Dialcraft and each contributor.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/dialcraft/call-insight-service/internal/domain"
	"github.com/dialcraft/call-insight-service/internal/domain/models"
	"github.com/dialcraft/call-insight-service/internal/logging"
)

// Retry budget for the retryable workflow steps.
const (
	maxStepAttempts    = 3
	maxStepBackoff     = 30 * time.Second
	initialStepBackoff = 500 * time.Millisecond
)

// OrchestratorService drives the durable call processing workflow: verify
// access, analyze, evaluate, notify. Each step is marked complete in the
// persisted WorkflowRun, so a redelivered or retried trigger resumes at the
// first incomplete step instead of restarting.
type OrchestratorService struct {
	callRecordService     *CallRecordService
	evaluationService     *EvaluationService
	callRecordRepository  domain.CallRecordRepository
	workflowRunRepository domain.WorkflowRunRepository
	userRepository        domain.UserRepository
	orgSettingsRepository domain.OrgSettingsRepository
	oracle                domain.AnalysisOracle
	notificationService   domain.NotificationService
}

// NewOrchestratorService creates a new processing orchestrator.
func NewOrchestratorService(
	callRecordService *CallRecordService,
	evaluationService *EvaluationService,
	callRecordRepository domain.CallRecordRepository,
	workflowRunRepository domain.WorkflowRunRepository,
	userRepository domain.UserRepository,
	orgSettingsRepository domain.OrgSettingsRepository,
	oracle domain.AnalysisOracle,
	notificationService domain.NotificationService,
) *OrchestratorService {
	return &OrchestratorService{
		callRecordService:     callRecordService,
		evaluationService:     evaluationService,
		callRecordRepository:  callRecordRepository,
		workflowRunRepository: workflowRunRepository,
		userRepository:        userRepository,
		orgSettingsRepository: orgSettingsRepository,
		oracle:                oracle,
		notificationService:   notificationService,
	}
}

// ServiceReady checks if the orchestrator is ready to process workflows.
func (s *OrchestratorService) ServiceReady() bool {
	return s.callRecordService != nil &&
		s.evaluationService != nil &&
		s.callRecordRepository != nil &&
		s.workflowRunRepository != nil &&
		s.userRepository != nil &&
		s.orgSettingsRepository != nil &&
		s.oracle != nil &&
		s.notificationService != nil
}

// ProcessCall runs the call processing workflow for a trigger event. It is
// safe to invoke repeatedly for the same record: completed runs return
// immediately unless the trigger forces reanalysis.
func (s *OrchestratorService) ProcessCall(ctx context.Context, message models.CallProcessingMessage) error {
	if !s.ServiceReady() {
		return domain.NewUnavailableError("orchestrator is not ready")
	}

	ctx = logging.AppendCtx(ctx, slog.String("call_record_uid", message.CallRecordUID))

	record, err := s.callRecordRepository.Get(ctx, message.CallRecordUID)
	if err != nil {
		return err
	}

	run, revision, err := s.loadOrCreateRun(ctx, record.UID)
	if err != nil {
		return err
	}

	if run.Status == models.WorkflowRunStatusCompleted || run.Status == models.WorkflowRunStatusFailed {
		if !message.ForceReanalysis {
			slog.DebugContext(ctx, "workflow run already finished, ignoring trigger",
				"run_status", string(run.Status))
			return nil
		}
		if revision, err = s.resetForReanalysis(ctx, run, revision); err != nil {
			return err
		}
		// The record goes back to pending so the evaluate step can transition
		// it again.
		if err := s.callRecordService.ResetForReanalysis(ctx, record.UID); err != nil {
			return err
		}
		if record, err = s.callRecordRepository.Get(ctx, record.UID); err != nil {
			return err
		}
	}

	owner, err := s.userRepository.Get(ctx, record.OwnerUID)
	if err != nil {
		return err
	}

	settings, err := s.orgSettingsRepository.Get(ctx, record.OrganizationID)
	if err != nil {
		return err
	}

	for _, step := range models.CallProcessingSteps() {
		if run.StepCompleted(step) {
			continue
		}

		proceed, err := s.executeStep(ctx, step, run, record, owner, settings)
		if err != nil {
			return s.failWorkflow(ctx, run, revision, record, owner, step, err)
		}

		run.MarkStepCompleted(step, time.Now().UTC())
		if revision, err = s.saveRun(ctx, run, revision); err != nil {
			return err
		}

		if !proceed {
			// Terminal short-circuit (missing entitlement). The notification
			// goes out only after the run state is committed, so a concurrent
			// trigger that loses the revision race never sends a second one.
			run.Status = models.WorkflowRunStatusCompleted
			if _, err = s.saveRun(ctx, run, revision); err != nil {
				return err
			}
			s.sendEntitlementRequired(ctx, record, owner)
			return nil
		}
	}

	run.Status = models.WorkflowRunStatusCompleted
	_, err = s.saveRun(ctx, run, revision)
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "call processing workflow completed")
	return nil
}

// executeStep runs one workflow step. It returns false with a nil error when
// the workflow should stop without being a failure.
func (s *OrchestratorService) executeStep(
	ctx context.Context,
	step models.WorkflowStep,
	run *models.WorkflowRun,
	record *models.CallRecord,
	owner *models.User,
	settings *models.OrgSettings,
) (bool, error) {
	switch step {
	case models.StepVerifyAccess:
		return s.verifyAccess(ctx, run, record, owner)
	case models.StepAnalyze:
		return true, s.analyze(ctx, run, record, settings)
	case models.StepEvaluate:
		return true, s.evaluate(ctx, run, record, settings)
	case models.StepNotify:
		s.notify(ctx, record, owner)
		return true, nil
	default:
		return false, domain.NewInternalError(fmt.Sprintf("unknown workflow step '%s'", step))
	}
}

// verifyAccess checks the owner's entitlement. A missing entitlement is a
// business rule, not a transient failure: the workflow short-circuits and
// never retries. The notification is sent by ProcessCall once the
// short-circuit is persisted.
func (s *OrchestratorService) verifyAccess(ctx context.Context, run *models.WorkflowRun, record *models.CallRecord, owner *models.User) (bool, error) {
	run.RecordStepAttempt(models.StepVerifyAccess, nil)

	if owner.Entitled {
		return true, nil
	}

	slog.InfoContext(ctx, "owner is not entitled, short-circuiting workflow",
		"owner_uid", owner.UID)
	return false, nil
}

func (s *OrchestratorService) sendEntitlementRequired(ctx context.Context, record *models.CallRecord, owner *models.User) {
	if err := s.notificationService.SendEntitlementRequired(ctx, domain.EntitlementNotification{
		RecipientEmail: owner.Email,
		RecipientName:  owner.FullName(),
		CallTitle:      record.Title,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to send entitlement notification", logging.ErrKey, err)
	}
}

// analyze invokes the analysis oracle, retrying transient failures with
// bounded exponential backoff, and persists the result on the run.
func (s *OrchestratorService) analyze(ctx context.Context, run *models.WorkflowRun, record *models.CallRecord, settings *models.OrgSettings) error {
	prompt := settings.AnalysisPrompt
	if prompt == "" {
		prompt = models.DefaultAnalysisPrompt
	}

	value, err := s.withRetries(ctx, run, models.StepAnalyze, func() (any, error) {
		return s.oracle.Analyze(ctx, domain.OracleRequest{
			Prompt:     prompt,
			Transcript: record.Transcript,
		})
	})
	if err != nil {
		return err
	}
	result := value.(*domain.OracleResult)

	run.Analysis = &models.AnalysisResult{
		Summary:    result.Summary,
		NextSteps:  result.NextSteps,
		Objections: result.Objections,
		BuySignals: result.BuySignals,
		Sentiment:  result.Sentiment,
	}
	return nil
}

// evaluate runs the evaluation engine and attaches the result to the record.
func (s *OrchestratorService) evaluate(ctx context.Context, run *models.WorkflowRun, record *models.CallRecord, settings *models.OrgSettings) error {
	_, err := s.withRetries(ctx, run, models.StepEvaluate, func() (any, error) {
		evaluation := s.evaluationService.Evaluate(record, settings, run.Analysis)
		if err := s.callRecordService.AttachEvaluation(ctx, record.UID, evaluation); err != nil {
			return nil, err
		}
		return evaluation, nil
	})
	return err
}

// notify sends the completion notification. Failures are logged but never
// fail the workflow: the durable state is already committed and re-running
// earlier steps would duplicate analysis cost.
func (s *OrchestratorService) notify(ctx context.Context, record *models.CallRecord, owner *models.User) {
	evaluation, err := s.evaluationForRecord(ctx, record)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load evaluation for notification", logging.ErrKey, err)
		return
	}

	notification := domain.AnalysisCompleteNotification{
		RecipientEmail: owner.Email,
		RecipientName:  owner.FullName(),
		CallTitle:      record.Title,
		CallTime:       record.StartTime,
		Outcome:        string(evaluation.Outcome),
		WeightedScore:  evaluation.WeightedScore,
		NextSteps:      evaluation.NextSteps,
		ShareURL:       record.ShareURL,
	}

	if err := s.notificationService.SendAnalysisComplete(ctx, notification); err != nil {
		slog.ErrorContext(ctx, "failed to send completion notification", logging.ErrKey, err)
	}
}

func (s *OrchestratorService) evaluationForRecord(ctx context.Context, record *models.CallRecord) (*models.CallEvaluation, error) {
	// The record in hand may predate the evaluate step's update.
	fresh, err := s.callRecordRepository.Get(ctx, record.UID)
	if err != nil {
		return nil, err
	}
	if fresh.EvaluationUID == "" {
		return nil, domain.NewNotFoundError("record has no evaluation attached")
	}
	return s.callRecordService.callEvaluationRepository.Get(ctx, fresh.EvaluationUID)
}

// withRetries runs a step operation with bounded exponential backoff. Only
// unavailable errors are retried; everything else is permanent. Attempts are
// recorded on the run for observability.
func withRetryBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = initialStepBackoff
	b.MaxInterval = maxStepBackoff
	return b
}

func (s *OrchestratorService) withRetries(ctx context.Context, run *models.WorkflowRun, step models.WorkflowStep, operation func() (any, error)) (any, error) {
	return backoff.Retry(ctx, func() (any, error) {
		result, err := operation()
		if err != nil {
			run.RecordStepAttempt(step, err)
			slog.WarnContext(ctx, "workflow step attempt failed",
				logging.ErrKey, err, "step", string(step), "attempts", run.StepAttempts(step))
			if domain.GetErrorType(err) != domain.ErrorTypeUnavailable {
				return nil, backoff.Permanent(err)
			}
			return nil, err
		}
		run.RecordStepAttempt(step, nil)
		return result, nil
	}, backoff.WithBackOff(withRetryBackOff()), backoff.WithMaxTries(maxStepAttempts))
}

// failWorkflow marks the run and record failed after retry exhaustion and
// sends the failure notification. The run does not auto-resume; an explicit
// reprocessing trigger is required.
func (s *OrchestratorService) failWorkflow(
	ctx context.Context,
	run *models.WorkflowRun,
	revision uint64,
	record *models.CallRecord,
	owner *models.User,
	step models.WorkflowStep,
	stepErr error,
) error {
	slog.ErrorContext(ctx, "workflow step exhausted retries, failing run",
		logging.ErrKey, stepErr, "step", string(step))

	run.Status = models.WorkflowRunStatusFailed
	if _, err := s.saveRun(ctx, run, revision); err != nil {
		return err
	}

	if err := s.callRecordService.MarkFailed(ctx, record.UID); err != nil {
		slog.ErrorContext(ctx, "failed to mark call record failed", logging.ErrKey, err)
	}

	if err := s.notificationService.SendAnalysisFailed(ctx, domain.AnalysisFailedNotification{
		RecipientEmail: owner.Email,
		RecipientName:  owner.FullName(),
		CallTitle:      record.Title,
		CallTime:       record.StartTime,
		Reason:         stepErr.Error(),
	}); err != nil {
		slog.ErrorContext(ctx, "failed to send failure notification", logging.ErrKey, err)
	}

	return nil
}

func (s *OrchestratorService) loadOrCreateRun(ctx context.Context, callRecordUID string) (*models.WorkflowRun, uint64, error) {
	key := models.WorkflowRunKey(models.WorkflowKindCallProcessing, callRecordUID)

	run, revision, err := s.workflowRunRepository.GetWithRevision(ctx, key)
	if err == nil {
		return run, revision, nil
	}
	if domain.GetErrorType(err) != domain.ErrorTypeNotFound {
		return nil, 0, err
	}

	now := time.Now().UTC()
	run = &models.WorkflowRun{
		UID:        key,
		Kind:       models.WorkflowKindCallProcessing,
		Status:     models.WorkflowRunStatusRunning,
		SubjectUID: callRecordUID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.workflowRunRepository.Create(ctx, run); err != nil {
		if domain.GetErrorType(err) == domain.ErrorTypeConflict {
			// A concurrent trigger created it first.
			return s.workflowRunRepository.GetWithRevision(ctx, key)
		}
		return nil, 0, err
	}

	return s.workflowRunRepository.GetWithRevision(ctx, key)
}

// resetForReanalysis clears the analyze step and everything after it so a
// forced run re-analyzes without repeating access verification.
func (s *OrchestratorService) resetForReanalysis(ctx context.Context, run *models.WorkflowRun, revision uint64) (uint64, error) {
	for i := range run.Steps {
		if run.Steps[i].Step == models.StepVerifyAccess {
			continue
		}
		run.Steps[i].Completed = false
		run.Steps[i].Attempts = 0
		run.Steps[i].LastError = ""
		run.Steps[i].CompletedAt = nil
	}
	run.Analysis = nil
	run.Status = models.WorkflowRunStatusRunning
	run.UpdatedAt = time.Now().UTC()

	return s.saveRun(ctx, run, revision)
}

// saveRun persists the run and returns the new revision.
func (s *OrchestratorService) saveRun(ctx context.Context, run *models.WorkflowRun, revision uint64) (uint64, error) {
	run.UpdatedAt = time.Now().UTC()
	if err := s.workflowRunRepository.Update(ctx, run, revision); err != nil {
		return revision, err
	}

	key := models.WorkflowRunKey(run.Kind, run.SubjectUID)
	_, newRevision, err := s.workflowRunRepository.GetWithRevision(ctx, key)
	if err != nil {
		return revision, err
	}
	return newRevision, nil
}
