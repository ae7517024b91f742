// Copyright Dialcraft and each contributor.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"github.com/dialcraft/call-insight-service/internal/domain/models"
)

// Message represents a domain message interface
type Message interface {
	Subject() string
	Data() []byte
	Respond(data []byte) error
	HasReply() bool
}

// MessageHandler defines how the service handles incoming messages
type MessageHandler interface {
	HandleMessage(ctx context.Context, msg Message)
	HandlerReady() bool
}

// CallEventSender publishes the internal workflow trigger events.
type CallEventSender interface {
	// PublishCallProcessing emits a trigger for the call processing workflow.
	PublishCallProcessing(ctx context.Context, data models.CallProcessingMessage) error
	// PublishUserReminder emits a trigger for the entitlement reminder workflow.
	PublishUserReminder(ctx context.Context, data models.UserReminderMessage) error
}
