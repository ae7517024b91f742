// Copyright Dialcraft and each contributor.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"
	"time"
)

// NotificationService delivers templated emails to call owners. Delivery is
// fire-and-forget from the caller's perspective: failures are logged, never
// propagated into workflow state.
type NotificationService interface {
	SendAnalysisComplete(ctx context.Context, notification AnalysisCompleteNotification) error
	SendAnalysisFailed(ctx context.Context, notification AnalysisFailedNotification) error
	SendEntitlementRequired(ctx context.Context, notification EntitlementNotification) error
	SendEntitlementReminder(ctx context.Context, notification EntitlementNotification) error
}

// AnalysisCompleteNotification carries the data for a completed-analysis email.
type AnalysisCompleteNotification struct {
	RecipientEmail string
	RecipientName  string
	CallTitle      string
	CallTime       time.Time
	Outcome        string
	WeightedScore  float64
	NextSteps      string
	ShareURL       string
}

// AnalysisFailedNotification carries the data for a failed-analysis email.
type AnalysisFailedNotification struct {
	RecipientEmail string
	RecipientName  string
	CallTitle      string
	CallTime       time.Time
	Reason         string
}

// EntitlementNotification carries the data for entitlement-required and
// entitlement-reminder emails.
type EntitlementNotification struct {
	RecipientEmail string
	RecipientName  string
	CallTitle      string // empty for invitation-triggered reminders
	UpgradeURL     string
}
