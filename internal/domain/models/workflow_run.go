// Copyright Dialcraft and each contributor.
// SPDX-License-Identifier: MIT

package models

import "time"

// WorkflowStep is a named step inside a workflow run.
type WorkflowStep string

// Steps of the call processing workflow, in execution order.
const (
	StepVerifyAccess WorkflowStep = "verify_access"
	StepAnalyze      WorkflowStep = "analyze"
	StepEvaluate     WorkflowStep = "evaluate"
	StepNotify       WorkflowStep = "notify"
)

// CallProcessingSteps returns the ordered steps of the call processing
// workflow.
func CallProcessingSteps() []WorkflowStep {
	return []WorkflowStep{StepVerifyAccess, StepAnalyze, StepEvaluate, StepNotify}
}

// WorkflowRunStatus is the lifecycle status of a workflow run.
type WorkflowRunStatus string

const (
	WorkflowRunStatusRunning   WorkflowRunStatus = "running"
	WorkflowRunStatusSuspended WorkflowRunStatus = "suspended"
	WorkflowRunStatusCompleted WorkflowRunStatus = "completed"
	WorkflowRunStatusFailed    WorkflowRunStatus = "failed"
)

// WorkflowRunKind distinguishes the workflows the engine drives.
type WorkflowRunKind string

const (
	WorkflowKindCallProcessing WorkflowRunKind = "call_processing"
	WorkflowKindUserReminder   WorkflowRunKind = "user_reminder"
)

// AnalysisResult is the oracle output persisted on the run after the analyze
// step, so a resumed run can evaluate without paying for analysis twice.
type AnalysisResult struct {
	Summary    string   `json:"summary,omitempty"`
	NextSteps  string   `json:"next_steps,omitempty"`
	Objections []string `json:"objections,omitempty"`
	BuySignals []string `json:"buy_signals,omitempty"`
	Sentiment  string   `json:"sentiment,omitempty"`
}

// StepState records the execution state of one step.
type StepState struct {
	Step        WorkflowStep `json:"step"`
	Completed   bool         `json:"completed"`
	Attempts    int          `json:"attempts"`
	LastError   string       `json:"last_error,omitempty"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
}

// WorkflowRun is the durable state of one workflow execution. Call processing
// runs are keyed by the call record UID so a redelivered trigger event resumes
// the same run instead of starting a new one.
type WorkflowRun struct {
	UID    string            `json:"uid"`
	Kind   WorkflowRunKind   `json:"kind"`
	Status WorkflowRunStatus `json:"status"`
	Steps  []StepState       `json:"steps"`

	// SubjectUID is the entity the run operates on: a call record UID for
	// call processing, a user UID for reminders.
	SubjectUID string `json:"subject_uid"`

	// ResumeAt is set when the run is suspended; the scheduler republishes
	// the trigger event once it passes.
	ResumeAt *time.Time `json:"resume_at,omitempty"`

	// ReminderCount tracks how many reminders a reminder run has sent.
	ReminderCount int `json:"reminder_count,omitempty"`

	// Analysis is the stored oracle result of the analyze step.
	Analysis *AnalysisResult `json:"analysis,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WorkflowRunKey builds the storage key for a run: one run exists per
// (kind, subject) pair.
func WorkflowRunKey(kind WorkflowRunKind, subjectUID string) string {
	return string(kind) + "/" + subjectUID
}

// StepCompleted reports whether the named step has already completed.
func (w *WorkflowRun) StepCompleted(step WorkflowStep) bool {
	for _, s := range w.Steps {
		if s.Step == step {
			return s.Completed
		}
	}
	return false
}

// MarkStepCompleted records the named step as completed.
func (w *WorkflowRun) MarkStepCompleted(step WorkflowStep, at time.Time) {
	for i := range w.Steps {
		if w.Steps[i].Step == step {
			w.Steps[i].Completed = true
			w.Steps[i].CompletedAt = &at
			w.UpdatedAt = at
			return
		}
	}
	w.Steps = append(w.Steps, StepState{Step: step, Completed: true, CompletedAt: &at})
	w.UpdatedAt = at
}

// RecordStepAttempt increments the attempt count for the named step and
// stores the error message, if any.
func (w *WorkflowRun) RecordStepAttempt(step WorkflowStep, err error) {
	for i := range w.Steps {
		if w.Steps[i].Step == step {
			w.Steps[i].Attempts++
			if err != nil {
				w.Steps[i].LastError = err.Error()
			}
			return
		}
	}
	state := StepState{Step: step, Attempts: 1}
	if err != nil {
		state.LastError = err.Error()
	}
	w.Steps = append(w.Steps, state)
}

// StepAttempts returns the recorded attempt count for the named step.
func (w *WorkflowRun) StepAttempts(step WorkflowStep) int {
	for _, s := range w.Steps {
		if s.Step == step {
			return s.Attempts
		}
	}
	return 0
}
