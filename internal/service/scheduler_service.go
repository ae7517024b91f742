// Copyright Dialcraft and each contributor.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/dialcraft/call-insight-service/internal/domain"
	"github.com/dialcraft/call-insight-service/internal/domain/models"
	"github.com/dialcraft/call-insight-service/internal/logging"
	"github.com/dialcraft/call-insight-service/pkg/concurrent"
)

// defaultSchedulerInterval is how often the scheduler scans for due runs.
const defaultSchedulerInterval = time.Minute

// SchedulerService resumes suspended workflow runs. Suspension is a persisted
// resume timestamp, not a held goroutine; this scan-and-republish loop is
// what wakes the runs back up.
type SchedulerService struct {
	workflowRunRepository domain.WorkflowRunRepository
	eventSender           domain.CallEventSender
	interval              time.Duration
	pool                  *concurrent.WorkerPool
}

// NewSchedulerService creates a new workflow resumption scheduler.
func NewSchedulerService(
	workflowRunRepository domain.WorkflowRunRepository,
	eventSender domain.CallEventSender,
) *SchedulerService {
	return &SchedulerService{
		workflowRunRepository: workflowRunRepository,
		eventSender:           eventSender,
		interval:              defaultSchedulerInterval,
		pool:                  concurrent.NewWorkerPool(4),
	}
}

// ServiceReady checks if the scheduler is ready to run.
func (s *SchedulerService) ServiceReady() bool {
	return s.workflowRunRepository != nil && s.eventSender != nil
}

// Run scans for due runs on the configured interval until the context is
// cancelled.
func (s *SchedulerService) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.ResumeDue(ctx); err != nil {
				slog.ErrorContext(ctx, "scheduler pass failed", logging.ErrKey, err)
			}
		}
	}
}

// ResumeDue republishes the trigger event for every suspended run whose
// resume time has passed.
func (s *SchedulerService) ResumeDue(ctx context.Context) error {
	due, err := s.workflowRunRepository.ListDue(ctx, time.Now().UTC())
	if err != nil {
		return err
	}
	if len(due) == 0 {
		return nil
	}

	slog.DebugContext(ctx, "resuming due workflow runs", "count", len(due))

	functions := make([]func() error, 0, len(due))
	for _, run := range due {
		functions = append(functions, func() error {
			return s.resume(ctx, run)
		})
	}

	errs := s.pool.RunAll(ctx, functions...)
	for _, err := range errs {
		if err != nil {
			slog.ErrorContext(ctx, "failed to resume workflow run", logging.ErrKey, err)
		}
	}
	return nil
}

func (s *SchedulerService) resume(ctx context.Context, run *models.WorkflowRun) error {
	switch run.Kind {
	case models.WorkflowKindCallProcessing:
		return s.eventSender.PublishCallProcessing(ctx, models.CallProcessingMessage{
			CallRecordUID: run.SubjectUID,
		})
	case models.WorkflowKindUserReminder:
		return s.eventSender.PublishUserReminder(ctx, models.UserReminderMessage{
			UserUID: run.SubjectUID,
		})
	default:
		slog.WarnContext(ctx, "due run has unknown kind, skipping",
			"kind", string(run.Kind), "subject_uid", run.SubjectUID)
		return nil
	}
}
