// Copyright Dialcraft and each contributor.
// SPDX-License-Identifier: MIT

package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/dialcraft/call-insight-service/internal/domain"
	"github.com/dialcraft/call-insight-service/internal/domain/mocks"
	"github.com/dialcraft/call-insight-service/internal/service"
)

type fakeMessage struct {
	subject string
	data    []byte
}

func (m *fakeMessage) Subject() string      { return m.subject }
func (m *fakeMessage) Data() []byte         { return m.data }
func (m *fakeMessage) Respond([]byte) error { return nil }
func (m *fakeMessage) HasReply() bool       { return false }

func newEventHandler() (*CallEventHandler, *mocks.MockUserRepository) {
	callRecords := &mocks.MockCallRecordRepository{}
	evaluations := &mocks.MockCallEvaluationRepository{}
	workflowRuns := &mocks.MockWorkflowRunRepository{}
	users := &mocks.MockUserRepository{}
	orgSettings := &mocks.MockOrgSettingsRepository{}
	oracle := &mocks.MockAnalysisOracle{}
	notifications := &mocks.MockNotificationService{}

	orchestrator := service.NewOrchestratorService(
		service.NewCallRecordService(callRecords, evaluations),
		service.NewEvaluationService(),
		callRecords,
		workflowRuns,
		users,
		orgSettings,
		oracle,
		notifications,
	)
	reminder := service.NewReminderService(workflowRuns, users, notifications)

	return NewCallEventHandler(orchestrator, reminder), users
}

func TestHandlerReady(t *testing.T) {
	handler, _ := newEventHandler()
	assert.True(t, handler.HandlerReady())

	assert.False(t, NewCallEventHandler(nil, nil).HandlerReady())
}

func TestHandleMessageUnknownSubject(t *testing.T) {
	handler, users := newEventHandler()

	handler.HandleMessage(context.Background(), &fakeMessage{
		subject: "callinsight.unknown",
		data:    []byte(`{}`),
	})

	users.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestHandleMessageDispatchesReminder(t *testing.T) {
	handler, users := newEventHandler()
	users.On("Get", mock.Anything, "user-1").
		Return(nil, domain.NewNotFoundError("user not found"))

	handler.HandleMessage(context.Background(), &fakeMessage{
		subject: "callinsight.user.reminder",
		data:    []byte(`{"user_uid":"user-1"}`),
	})

	users.AssertCalled(t, "Get", mock.Anything, "user-1")
}

func TestHandleMessageMalformedPayload(t *testing.T) {
	handler, users := newEventHandler()

	handler.HandleMessage(context.Background(), &fakeMessage{
		subject: "callinsight.call.process",
		data:    []byte(`{broken`),
	})

	users.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}
