// Copyright Dialcraft and each contributor.
// SPDX-License-Identifier: MIT

package models

// NATS subjects for internal events of the call insight service.
const (
	// CallProcessingSubject carries triggers for the call processing
	// workflow. The subject is of the form: callinsight.call.process
	CallProcessingSubject = "callinsight.call.process"

	// UserReminderSubject carries triggers for the entitlement reminder
	// workflow. The subject is of the form: callinsight.user.reminder
	UserReminderSubject = "callinsight.user.reminder"
)

// NATS queue group used by all API instances so each event is handled once.
const (
	// CallInsightAPIQueue is the queue group name for the call insight API.
	CallInsightAPIQueue = "callinsight-api-queue"
)

// CallProcessingMessage triggers the processing workflow for a call record.
// It is emitted after a CallRecord is created, and again when an operator
// requests reprocessing.
type CallProcessingMessage struct {
	CallRecordUID string `json:"call_record_uid"`
	Provider      string `json:"provider"`
	// ForceReanalysis re-runs the analyze step and everything after it even
	// when the run previously completed or failed.
	ForceReanalysis bool `json:"force_reanalysis,omitempty"`
}

// UserReminderMessage triggers the entitlement reminder workflow. It is
// emitted on user invitation, independently of call ingestion.
type UserReminderMessage struct {
	UserUID string `json:"user_uid"`
	Email   string `json:"email"`
	Name    string `json:"name"`
}
