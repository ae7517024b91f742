// Copyright Dialcraft and each contributor.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dialcraft/call-insight-service/internal/domain"
	"github.com/dialcraft/call-insight-service/internal/domain/mocks"
	"github.com/dialcraft/call-insight-service/internal/domain/models"
)

type reminderFixture struct {
	service       *ReminderService
	workflowRuns  *fakeWorkflowRunRepo
	users         *mocks.MockUserRepository
	notifications *mocks.MockNotificationService
}

func newReminderFixture() *reminderFixture {
	workflowRuns := newFakeWorkflowRunRepo()
	users := &mocks.MockUserRepository{}
	notifications := &mocks.MockNotificationService{}

	return &reminderFixture{
		service:       NewReminderService(workflowRuns, users, notifications),
		workflowRuns:  workflowRuns,
		users:         users,
		notifications: notifications,
	}
}

func (f *reminderFixture) withUser(entitled bool) {
	f.users.On("Get", mock.Anything, "user-1").Return(&models.User{
		UID:            "user-1",
		OrganizationID: "org-1",
		Email:          "rep@acme.com",
		FirstName:      "Riley",
		LastName:       "Reyes",
		Active:         true,
		Entitled:       entitled,
	}, nil)
}

func reminderRunKey() string {
	return models.WorkflowRunKey(models.WorkflowKindUserReminder, "user-1")
}

func TestProcessReminderSendsAndSuspends(t *testing.T) {
	f := newReminderFixture()
	f.withUser(false)
	f.notifications.On("SendEntitlementReminder", mock.Anything, mock.AnythingOfType("domain.EntitlementNotification")).
		Return(nil)

	before := time.Now().UTC()
	err := f.service.ProcessReminder(context.Background(), models.UserReminderMessage{UserUID: "user-1"})
	require.NoError(t, err)

	run, _, getErr := f.workflowRuns.GetWithRevision(context.Background(), reminderRunKey())
	require.NoError(t, getErr)
	assert.Equal(t, models.WorkflowRunStatusSuspended, run.Status)
	assert.Equal(t, 1, run.ReminderCount)
	require.NotNil(t, run.ResumeAt)
	assert.True(t, run.ResumeAt.After(before.Add(reminderInterval-time.Minute)))
}

func TestProcessReminderRedeliveryDoesNotSendEarly(t *testing.T) {
	f := newReminderFixture()
	f.withUser(false)
	f.notifications.On("SendEntitlementReminder", mock.Anything, mock.AnythingOfType("domain.EntitlementNotification")).
		Return(nil)

	// First trigger sends and suspends the run.
	err := f.service.ProcessReminder(context.Background(), models.UserReminderMessage{UserUID: "user-1"})
	require.NoError(t, err)

	run, _, getErr := f.workflowRuns.GetWithRevision(context.Background(), reminderRunKey())
	require.NoError(t, getErr)
	require.NotNil(t, run.ResumeAt)
	firstResumeAt := *run.ResumeAt

	// The same trigger redelivered while the run is suspended must not send
	// another reminder or consume budget.
	err = f.service.ProcessReminder(context.Background(), models.UserReminderMessage{UserUID: "user-1"})
	require.NoError(t, err)

	f.notifications.AssertNumberOfCalls(t, "SendEntitlementReminder", 1)

	run, _, getErr = f.workflowRuns.GetWithRevision(context.Background(), reminderRunKey())
	require.NoError(t, getErr)
	assert.Equal(t, 1, run.ReminderCount)
	require.NotNil(t, run.ResumeAt)
	assert.Equal(t, firstResumeAt, *run.ResumeAt)
}

func TestProcessReminderResumesAfterInterval(t *testing.T) {
	f := newReminderFixture()
	f.withUser(false)
	f.notifications.On("SendEntitlementReminder", mock.Anything, mock.AnythingOfType("domain.EntitlementNotification")).
		Return(nil)

	resumeAt := time.Now().UTC().Add(-time.Minute)
	f.workflowRuns.seed(&models.WorkflowRun{
		UID:           reminderRunKey(),
		Kind:          models.WorkflowKindUserReminder,
		Status:        models.WorkflowRunStatusSuspended,
		SubjectUID:    "user-1",
		ReminderCount: 1,
		ResumeAt:      &resumeAt,
	})

	err := f.service.ProcessReminder(context.Background(), models.UserReminderMessage{UserUID: "user-1"})
	require.NoError(t, err)

	f.notifications.AssertNumberOfCalls(t, "SendEntitlementReminder", 1)

	run, _, getErr := f.workflowRuns.GetWithRevision(context.Background(), reminderRunKey())
	require.NoError(t, getErr)
	assert.Equal(t, 2, run.ReminderCount)
}

func TestProcessReminderStopsWhenEntitled(t *testing.T) {
	f := newReminderFixture()
	f.withUser(true)

	resumeAt := time.Now().UTC().Add(-time.Hour)
	f.workflowRuns.seed(&models.WorkflowRun{
		UID:           reminderRunKey(),
		Kind:          models.WorkflowKindUserReminder,
		Status:        models.WorkflowRunStatusSuspended,
		SubjectUID:    "user-1",
		ReminderCount: 1,
		ResumeAt:      &resumeAt,
	})

	err := f.service.ProcessReminder(context.Background(), models.UserReminderMessage{UserUID: "user-1"})
	require.NoError(t, err)

	run, _, getErr := f.workflowRuns.GetWithRevision(context.Background(), reminderRunKey())
	require.NoError(t, getErr)
	assert.Equal(t, models.WorkflowRunStatusCompleted, run.Status)
	assert.Nil(t, run.ResumeAt)
	f.notifications.AssertNotCalled(t, "SendEntitlementReminder", mock.Anything, mock.Anything)
}

func TestProcessReminderBudgetExhausted(t *testing.T) {
	f := newReminderFixture()
	f.withUser(false)

	f.workflowRuns.seed(&models.WorkflowRun{
		UID:           reminderRunKey(),
		Kind:          models.WorkflowKindUserReminder,
		Status:        models.WorkflowRunStatusSuspended,
		SubjectUID:    "user-1",
		ReminderCount: maxReminders,
	})

	err := f.service.ProcessReminder(context.Background(), models.UserReminderMessage{UserUID: "user-1"})
	require.NoError(t, err)

	run, _, getErr := f.workflowRuns.GetWithRevision(context.Background(), reminderRunKey())
	require.NoError(t, getErr)
	assert.Equal(t, models.WorkflowRunStatusCompleted, run.Status)
	assert.Equal(t, maxReminders, run.ReminderCount)
	f.notifications.AssertNotCalled(t, "SendEntitlementReminder", mock.Anything, mock.Anything)
}

func TestProcessReminderUnknownUserDropped(t *testing.T) {
	f := newReminderFixture()
	f.users.On("Get", mock.Anything, "ghost").Return(nil, domain.NewNotFoundError("user not found"))

	err := f.service.ProcessReminder(context.Background(), models.UserReminderMessage{UserUID: "ghost"})
	require.NoError(t, err)
	f.notifications.AssertNotCalled(t, "SendEntitlementReminder", mock.Anything, mock.Anything)
}

func TestProcessReminderCompletedRunIsNoop(t *testing.T) {
	f := newReminderFixture()
	f.withUser(false)

	f.workflowRuns.seed(&models.WorkflowRun{
		UID:           reminderRunKey(),
		Kind:          models.WorkflowKindUserReminder,
		Status:        models.WorkflowRunStatusCompleted,
		SubjectUID:    "user-1",
		ReminderCount: 2,
	})

	err := f.service.ProcessReminder(context.Background(), models.UserReminderMessage{UserUID: "user-1"})
	require.NoError(t, err)
	f.notifications.AssertNotCalled(t, "SendEntitlementReminder", mock.Anything, mock.Anything)
}

func TestProcessReminderSendFailurePropagates(t *testing.T) {
	f := newReminderFixture()
	f.withUser(false)
	f.notifications.On("SendEntitlementReminder", mock.Anything, mock.Anything).
		Return(domain.ErrServiceUnavailable)

	err := f.service.ProcessReminder(context.Background(), models.UserReminderMessage{UserUID: "user-1"})
	require.Error(t, err)

	// The reminder budget is only consumed by a successful send.
	run, _, getErr := f.workflowRuns.GetWithRevision(context.Background(), reminderRunKey())
	require.NoError(t, getErr)
	assert.Equal(t, 0, run.ReminderCount)
	assert.NotEqual(t, models.WorkflowRunStatusSuspended, run.Status)
}
