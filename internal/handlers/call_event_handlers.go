// Copyright Dialcraft and each contributor.
// SPDX-License-Identifier: MIT

package handlers

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/dialcraft/call-insight-service/internal/domain"
	"github.com/dialcraft/call-insight-service/internal/domain/models"
	"github.com/dialcraft/call-insight-service/internal/logging"
	"github.com/dialcraft/call-insight-service/internal/service"
)

// CallEventHandler dispatches internal NATS trigger events to the workflow
// services.
type CallEventHandler struct {
	orchestratorService *service.OrchestratorService
	reminderService     *service.ReminderService
}

// NewCallEventHandler creates a new NATS message handler for workflow triggers.
func NewCallEventHandler(
	orchestratorService *service.OrchestratorService,
	reminderService *service.ReminderService,
) *CallEventHandler {
	return &CallEventHandler{
		orchestratorService: orchestratorService,
		reminderService:     reminderService,
	}
}

// HandlerReady checks if the handler and its services are ready.
func (h *CallEventHandler) HandlerReady() bool {
	return h.orchestratorService != nil && h.orchestratorService.ServiceReady() &&
		h.reminderService != nil && h.reminderService.ServiceReady()
}

// HandleMessage dispatches a NATS message by subject.
func (h *CallEventHandler) HandleMessage(ctx context.Context, msg domain.Message) {
	subject := msg.Subject()
	ctx = logging.AppendCtx(ctx, slog.String("subject", subject))

	handlers := map[string]func(ctx context.Context, msg domain.Message){
		models.CallProcessingSubject: h.handleCallProcessing,
		models.UserReminderSubject:   h.handleUserReminder,
	}

	handler, ok := handlers[subject]
	if !ok {
		slog.WarnContext(ctx, "unknown message subject")
		return
	}

	handler(ctx, msg)
}

func (h *CallEventHandler) handleCallProcessing(ctx context.Context, msg domain.Message) {
	var message models.CallProcessingMessage
	if err := json.Unmarshal(msg.Data(), &message); err != nil {
		slog.ErrorContext(ctx, "malformed call processing message", logging.ErrKey, err)
		return
	}

	if err := h.orchestratorService.ProcessCall(ctx, message); err != nil {
		slog.ErrorContext(ctx, "call processing workflow failed",
			logging.ErrKey, err, "call_record_uid", message.CallRecordUID)
		return
	}
}

func (h *CallEventHandler) handleUserReminder(ctx context.Context, msg domain.Message) {
	var message models.UserReminderMessage
	if err := json.Unmarshal(msg.Data(), &message); err != nil {
		slog.ErrorContext(ctx, "malformed user reminder message", logging.ErrKey, err)
		return
	}

	if err := h.reminderService.ProcessReminder(ctx, message); err != nil {
		slog.ErrorContext(ctx, "reminder workflow failed",
			logging.ErrKey, err, "user_uid", message.UserUID)
		return
	}
}
