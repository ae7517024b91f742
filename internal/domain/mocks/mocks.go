// Copyright Dialcraft and each contributor.
// SPDX-License-Identifier: MIT

// Package mocks contains testify mocks for the domain interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/dialcraft/call-insight-service/internal/domain"
	"github.com/dialcraft/call-insight-service/internal/domain/models"
)

// MockCallRecordRepository implements domain.CallRecordRepository for testing
type MockCallRecordRepository struct {
	mock.Mock
}

func (m *MockCallRecordRepository) Create(ctx context.Context, record *models.CallRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockCallRecordRepository) Get(ctx context.Context, uid string) (*models.CallRecord, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CallRecord), args.Error(1)
}

func (m *MockCallRecordRepository) GetWithRevision(ctx context.Context, uid string) (*models.CallRecord, uint64, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Get(1).(uint64), args.Error(2)
	}
	return args.Get(0).(*models.CallRecord), args.Get(1).(uint64), args.Error(2)
}

func (m *MockCallRecordRepository) Update(ctx context.Context, record *models.CallRecord, revision uint64) error {
	args := m.Called(ctx, record, revision)
	return args.Error(0)
}

func (m *MockCallRecordRepository) GetByExternalID(ctx context.Context, ownerUID, provider, externalID string) (*models.CallRecord, error) {
	args := m.Called(ctx, ownerUID, provider, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CallRecord), args.Error(1)
}

func (m *MockCallRecordRepository) ListByOwner(ctx context.Context, ownerUID string) ([]*models.CallRecord, error) {
	args := m.Called(ctx, ownerUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.CallRecord), args.Error(1)
}

// MockCallEvaluationRepository implements domain.CallEvaluationRepository for testing
type MockCallEvaluationRepository struct {
	mock.Mock
}

func (m *MockCallEvaluationRepository) Create(ctx context.Context, evaluation *models.CallEvaluation) error {
	args := m.Called(ctx, evaluation)
	return args.Error(0)
}

func (m *MockCallEvaluationRepository) Get(ctx context.Context, uid string) (*models.CallEvaluation, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CallEvaluation), args.Error(1)
}

func (m *MockCallEvaluationRepository) GetByCallRecordUID(ctx context.Context, callRecordUID string) (*models.CallEvaluation, error) {
	args := m.Called(ctx, callRecordUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CallEvaluation), args.Error(1)
}

// MockWorkflowRunRepository implements domain.WorkflowRunRepository for testing
type MockWorkflowRunRepository struct {
	mock.Mock
}

func (m *MockWorkflowRunRepository) Create(ctx context.Context, run *models.WorkflowRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockWorkflowRunRepository) Get(ctx context.Context, uid string) (*models.WorkflowRun, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WorkflowRun), args.Error(1)
}

func (m *MockWorkflowRunRepository) GetWithRevision(ctx context.Context, uid string) (*models.WorkflowRun, uint64, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Get(1).(uint64), args.Error(2)
	}
	return args.Get(0).(*models.WorkflowRun), args.Get(1).(uint64), args.Error(2)
}

func (m *MockWorkflowRunRepository) Update(ctx context.Context, run *models.WorkflowRun, revision uint64) error {
	args := m.Called(ctx, run, revision)
	return args.Error(0)
}

func (m *MockWorkflowRunRepository) ListDue(ctx context.Context, now time.Time) ([]*models.WorkflowRun, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.WorkflowRun), args.Error(1)
}

// MockUserRepository implements domain.UserRepository for testing
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Get(ctx context.Context, uid string) (*models.User, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetWithRevision(ctx context.Context, uid string) (*models.User, uint64, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Get(1).(uint64), args.Error(2)
	}
	return args.Get(0).(*models.User), args.Get(1).(uint64), args.Error(2)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User, revision uint64) error {
	args := m.Called(ctx, user, revision)
	return args.Error(0)
}

func (m *MockUserRepository) ListByOrganization(ctx context.Context, organizationID string) ([]*models.User, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

// MockOrgSettingsRepository implements domain.OrgSettingsRepository for testing
type MockOrgSettingsRepository struct {
	mock.Mock
}

func (m *MockOrgSettingsRepository) Get(ctx context.Context, organizationID string) (*models.OrgSettings, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OrgSettings), args.Error(1)
}

func (m *MockOrgSettingsRepository) Put(ctx context.Context, settings *models.OrgSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

// MockCallEventSender implements domain.CallEventSender for testing
type MockCallEventSender struct {
	mock.Mock
}

func (m *MockCallEventSender) PublishCallProcessing(ctx context.Context, data models.CallProcessingMessage) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}

func (m *MockCallEventSender) PublishUserReminder(ctx context.Context, data models.UserReminderMessage) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}

// MockAnalysisOracle implements domain.AnalysisOracle for testing
type MockAnalysisOracle struct {
	mock.Mock
}

func (m *MockAnalysisOracle) Analyze(ctx context.Context, req domain.OracleRequest) (*domain.OracleResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OracleResult), args.Error(1)
}

// MockNotificationService implements domain.NotificationService for testing
type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) SendAnalysisComplete(ctx context.Context, notification domain.AnalysisCompleteNotification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *MockNotificationService) SendAnalysisFailed(ctx context.Context, notification domain.AnalysisFailedNotification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *MockNotificationService) SendEntitlementRequired(ctx context.Context, notification domain.EntitlementNotification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *MockNotificationService) SendEntitlementReminder(ctx context.Context, notification domain.EntitlementNotification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

// MockWebhookValidator implements domain.WebhookValidator for testing
type MockWebhookValidator struct {
	mock.Mock
}

func (m *MockWebhookValidator) ValidateSignature(body []byte, signature, timestamp string) error {
	args := m.Called(body, signature, timestamp)
	return args.Error(0)
}

func (m *MockWebhookValidator) GetSecretToken() string {
	args := m.Called()
	return args.String(0)
}

// MockTranscriptFetcher implements domain.TranscriptFetcher for testing
type MockTranscriptFetcher struct {
	mock.Mock
}

func (m *MockTranscriptFetcher) Fetch(ctx context.Context, url string) (string, error) {
	args := m.Called(ctx, url)
	return args.String(0), args.Error(1)
}
