// Copyright Dialcraft and each contributor.
// SPDX-License-Identifier: MIT

package email

import (
	"context"
	"log/slog"

	"github.com/dialcraft/call-insight-service/internal/domain"
)

// NoopService logs notifications instead of sending them. Used when SMTP is
// not configured, typically in local development.
type NoopService struct{}

// NewNoopService creates a notification service that only logs.
func NewNoopService() *NoopService {
	return &NoopService{}
}

func (s *NoopService) SendAnalysisComplete(ctx context.Context, notification domain.AnalysisCompleteNotification) error {
	slog.InfoContext(ctx, "email disabled, skipping analysis complete notification",
		"recipient", notification.RecipientEmail, "call_title", notification.CallTitle)
	return nil
}

func (s *NoopService) SendAnalysisFailed(ctx context.Context, notification domain.AnalysisFailedNotification) error {
	slog.InfoContext(ctx, "email disabled, skipping analysis failed notification",
		"recipient", notification.RecipientEmail, "call_title", notification.CallTitle)
	return nil
}

func (s *NoopService) SendEntitlementRequired(ctx context.Context, notification domain.EntitlementNotification) error {
	slog.InfoContext(ctx, "email disabled, skipping entitlement required notification",
		"recipient", notification.RecipientEmail)
	return nil
}

func (s *NoopService) SendEntitlementReminder(ctx context.Context, notification domain.EntitlementNotification) error {
	slog.InfoContext(ctx, "email disabled, skipping entitlement reminder notification",
		"recipient", notification.RecipientEmail)
	return nil
}
