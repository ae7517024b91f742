// Copyright Dialcraft and each contributor.
// SPDX-License-Identifier: MIT

package email

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"

	"github.com/dialcraft/call-insight-service/internal/domain"
	"github.com/dialcraft/call-insight-service/internal/logging"
)

// Config holds the SMTP delivery settings.
type Config struct {
	Host     string
	Port     int
	From     string
	Username string
	Password string
}

// SMTPService sends notification emails over SMTP.
type SMTPService struct {
	config   Config
	renderer *renderer
	// send is swapped out in tests.
	send func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPService creates a new SMTP-backed notification service.
func NewSMTPService(config Config) (*SMTPService, error) {
	if config.Host == "" || config.From == "" {
		return nil, domain.NewValidationError("SMTP host and from address are required")
	}

	r, err := newRenderer()
	if err != nil {
		return nil, domain.NewInternalError("failed to load email templates", err)
	}

	return &SMTPService{
		config:   config,
		renderer: r,
		send:     smtp.SendMail,
	}, nil
}

func (s *SMTPService) deliver(ctx context.Context, template, recipient, subject string, data any) error {
	htmlBody, textBody, err := s.renderer.render(template, data)
	if err != nil {
		slog.ErrorContext(ctx, "error rendering email template",
			logging.ErrKey, err, "template", template)
		return domain.NewInternalError("failed to render email", err)
	}

	msg := buildMessage(s.config.From, recipient, subject, textBody, htmlBody)
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	var auth smtp.Auth
	if s.config.Username != "" {
		auth = smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	}

	if err := s.send(addr, auth, s.config.From, []string{recipient}, msg); err != nil {
		slog.ErrorContext(ctx, "error sending email",
			logging.ErrKey, err, "template", template, "recipient", recipient)
		return domain.NewUnavailableError("failed to send email", err)
	}

	slog.DebugContext(ctx, "sent notification email", "template", template, "recipient", recipient)
	return nil
}

// SendAnalysisComplete sends the completed-analysis email to the call owner.
func (s *SMTPService) SendAnalysisComplete(ctx context.Context, notification domain.AnalysisCompleteNotification) error {
	subject := fmt.Sprintf("Call analysis ready: %s", notification.CallTitle)
	return s.deliver(ctx, TemplateAnalysisComplete, notification.RecipientEmail, subject, notification)
}

// SendAnalysisFailed sends the failed-analysis email to the call owner.
func (s *SMTPService) SendAnalysisFailed(ctx context.Context, notification domain.AnalysisFailedNotification) error {
	subject := fmt.Sprintf("Call analysis failed: %s", notification.CallTitle)
	return s.deliver(ctx, TemplateAnalysisFailed, notification.RecipientEmail, subject, notification)
}

// SendEntitlementRequired tells an owner that a recording arrived but their
// plan does not cover analysis.
func (s *SMTPService) SendEntitlementRequired(ctx context.Context, notification domain.EntitlementNotification) error {
	return s.deliver(ctx, TemplateEntitlementRequired, notification.RecipientEmail,
		"Upgrade required to analyze your calls", notification)
}

// SendEntitlementReminder nudges an invited user who has not yet gained
// entitlement.
func (s *SMTPService) SendEntitlementReminder(ctx context.Context, notification domain.EntitlementNotification) error {
	return s.deliver(ctx, TemplateEntitlementReminder, notification.RecipientEmail,
		"Reminder: activate call analysis", notification)
}
