// Copyright Dialcraft and each contributor.
// SPDX-License-Identifier: MIT

package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWorkflowRunStepState(t *testing.T) {
	run := &WorkflowRun{}

	assert.False(t, run.StepCompleted(StepAnalyze))
	assert.Equal(t, 0, run.StepAttempts(StepAnalyze))

	run.RecordStepAttempt(StepAnalyze, errors.New("oracle timeout"))
	run.RecordStepAttempt(StepAnalyze, nil)
	assert.Equal(t, 2, run.StepAttempts(StepAnalyze))
	assert.False(t, run.StepCompleted(StepAnalyze))

	now := time.Now().UTC()
	run.MarkStepCompleted(StepAnalyze, now)
	assert.True(t, run.StepCompleted(StepAnalyze))
	assert.Equal(t, now, run.UpdatedAt)

	// Marking a step the run has not attempted yet appends it.
	run.MarkStepCompleted(StepNotify, now)
	assert.True(t, run.StepCompleted(StepNotify))
}

func TestWorkflowRunKey(t *testing.T) {
	assert.Equal(t, "call_processing/rec-1",
		WorkflowRunKey(WorkflowKindCallProcessing, "rec-1"))
	assert.Equal(t, "user_reminder/user-1",
		WorkflowRunKey(WorkflowKindUserReminder, "user-1"))
}
