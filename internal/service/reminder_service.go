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
)

// Reminder workflow tuning. The run suspends between reminders instead of
// holding a goroutine; the scheduler republishes the trigger once the resume
// time passes.
const (
	maxReminders     = 3
	reminderInterval = 72 * time.Hour
)

// ReminderService drives the entitlement reminder workflow: triggered on user
// invitation, it nudges the user until they gain entitlement or the reminder
// budget runs out.
type ReminderService struct {
	workflowRunRepository domain.WorkflowRunRepository
	userRepository        domain.UserRepository
	notificationService   domain.NotificationService
}

// NewReminderService creates a new entitlement reminder service.
func NewReminderService(
	workflowRunRepository domain.WorkflowRunRepository,
	userRepository domain.UserRepository,
	notificationService domain.NotificationService,
) *ReminderService {
	return &ReminderService{
		workflowRunRepository: workflowRunRepository,
		userRepository:        userRepository,
		notificationService:   notificationService,
	}
}

// ServiceReady checks if the service is ready to process reminders.
func (s *ReminderService) ServiceReady() bool {
	return s.workflowRunRepository != nil &&
		s.userRepository != nil &&
		s.notificationService != nil
}

// ProcessReminder handles one reminder trigger: re-check the entitlement
// condition, then either stop, send the next reminder and suspend, or finish
// after the last reminder.
func (s *ReminderService) ProcessReminder(ctx context.Context, message models.UserReminderMessage) error {
	if !s.ServiceReady() {
		return domain.NewUnavailableError("reminder service is not ready")
	}

	ctx = logging.AppendCtx(ctx, slog.String("user_uid", message.UserUID))

	user, err := s.userRepository.Get(ctx, message.UserUID)
	if err != nil {
		if domain.GetErrorType(err) == domain.ErrorTypeNotFound {
			slog.WarnContext(ctx, "reminder trigger for unknown user, dropping")
			return nil
		}
		return err
	}

	run, revision, err := s.loadOrCreateRun(ctx, user.UID)
	if err != nil {
		return err
	}

	if run.Status == models.WorkflowRunStatusCompleted {
		return nil
	}

	if user.Entitled {
		slog.InfoContext(ctx, "user gained entitlement, stopping reminders")
		return s.finishRun(ctx, run, revision)
	}

	// A redelivered trigger while the run is suspended must not send the next
	// reminder early; the scheduler republishes once the resume time passes.
	if run.Status == models.WorkflowRunStatusSuspended &&
		run.ResumeAt != nil && run.ResumeAt.After(time.Now().UTC()) {
		slog.DebugContext(ctx, "reminder run suspended until resume time, ignoring trigger",
			"resume_at", *run.ResumeAt)
		return nil
	}

	if run.ReminderCount >= maxReminders {
		slog.InfoContext(ctx, "reminder budget exhausted, stopping",
			"reminders_sent", run.ReminderCount)
		return s.finishRun(ctx, run, revision)
	}

	email := user.Email
	name := user.FullName()
	if email == "" {
		email = message.Email
	}
	if name == "" {
		name = message.Name
	}

	if err := s.notificationService.SendEntitlementReminder(ctx, domain.EntitlementNotification{
		RecipientEmail: email,
		RecipientName:  name,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to send entitlement reminder", logging.ErrKey, err)
		return err
	}

	now := time.Now().UTC()
	resumeAt := now.Add(reminderInterval)
	run.ReminderCount++
	run.Status = models.WorkflowRunStatusSuspended
	run.ResumeAt = &resumeAt
	run.UpdatedAt = now

	if err := s.workflowRunRepository.Update(ctx, run, revision); err != nil {
		return err
	}

	slog.InfoContext(ctx, "sent entitlement reminder, suspended until next interval",
		"reminders_sent", run.ReminderCount, "resume_at", resumeAt)
	return nil
}

func (s *ReminderService) finishRun(ctx context.Context, run *models.WorkflowRun, revision uint64) error {
	run.Status = models.WorkflowRunStatusCompleted
	run.ResumeAt = nil
	run.UpdatedAt = time.Now().UTC()
	return s.workflowRunRepository.Update(ctx, run, revision)
}

func (s *ReminderService) loadOrCreateRun(ctx context.Context, userUID string) (*models.WorkflowRun, uint64, error) {
	key := models.WorkflowRunKey(models.WorkflowKindUserReminder, userUID)

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
		Kind:       models.WorkflowKindUserReminder,
		Status:     models.WorkflowRunStatusRunning,
		SubjectUID: userUID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.workflowRunRepository.Create(ctx, run); err != nil {
		if domain.GetErrorType(err) == domain.ErrorTypeConflict {
			return s.workflowRunRepository.GetWithRevision(ctx, key)
		}
		return nil, 0, err
	}

	return s.workflowRunRepository.GetWithRevision(ctx, key)
}
