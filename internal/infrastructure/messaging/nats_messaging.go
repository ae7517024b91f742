// Copyright Dialcraft and each contributor.
// SPDX-License-Identifier: MIT

// Package messaging publishes internal processing events over NATS.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/dialcraft/call-insight-service/internal/domain"
	"github.com/dialcraft/call-insight-service/internal/domain/models"
	"github.com/dialcraft/call-insight-service/internal/logging"
)

// INatsConn is the subset of the NATS connection API the publisher needs.
// It matches nats.Conn and allows for mocking in tests.
type INatsConn interface {
	IsConnected() bool
	Publish(subject string, data []byte) error
}

// MessageBuilder publishes trigger events for the async processing pipeline.
type MessageBuilder struct {
	natsConn INatsConn
}

// NewMessageBuilder creates a new message builder for NATS publishing.
func NewMessageBuilder(natsConn INatsConn) *MessageBuilder {
	return &MessageBuilder{
		natsConn: natsConn,
	}
}

func (m *MessageBuilder) publish(ctx context.Context, subject string, payload any) error {
	if m.natsConn == nil || !m.natsConn.IsConnected() {
		return domain.ErrServiceUnavailable
	}

	data, err := json.Marshal(payload)
	if err != nil {
		slog.ErrorContext(ctx, "error marshaling message payload",
			logging.ErrKey, err, "subject", subject)
		return domain.NewInternalError(fmt.Sprintf("failed to marshal message for subject %s", subject), err)
	}

	if err := m.natsConn.Publish(subject, data); err != nil {
		slog.ErrorContext(ctx, "error publishing NATS message",
			logging.ErrKey, err, "subject", subject)
		return domain.NewInternalError(fmt.Sprintf("failed to publish message to subject %s", subject), err)
	}

	slog.DebugContext(ctx, "published NATS message", "subject", subject)
	return nil
}

// PublishCallProcessing publishes a trigger event for the call processing
// workflow of a stored call record.
func (m *MessageBuilder) PublishCallProcessing(ctx context.Context, message models.CallProcessingMessage) error {
	if message.CallRecordUID == "" {
		return domain.NewValidationError("call record UID is required")
	}

	return m.publish(ctx, models.CallProcessingSubject, message)
}

// PublishUserReminder publishes a trigger event for the entitlement reminder
// workflow of a user.
func (m *MessageBuilder) PublishUserReminder(ctx context.Context, message models.UserReminderMessage) error {
	if message.UserUID == "" {
		return domain.NewValidationError("user UID is required")
	}

	return m.publish(ctx, models.UserReminderSubject, message)
}
