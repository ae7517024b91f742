// Copyright Dialcraft and each contributor.
// SPDX-License-Identifier: MIT

package providers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dialcraft/call-insight-service/internal/domain"
	"github.com/dialcraft/call-insight-service/internal/domain/mocks"
)

func TestFirefliesNormalizeNestedShape(t *testing.T) {
	payload := []byte(`{
		"eventType": "Transcription completed",
		"meeting": {
			"id": "ff-1",
			"title": "Acme demo",
			"date": "2026-08-01T15:00:00Z",
			"scheduled_start": "2026-08-01T15:00:00Z",
			"duration": 40,
			"host_email": "rep@acme.com",
			"host_name": "Riley Reyes",
			"transcript_text": "Pat: we have budget.",
			"meeting_attendees": [
				{"displayName": "Pat Buyer", "email": "pat@prospect.com"}
			]
		}
	}`)

	fetcher := &mocks.MockTranscriptFetcher{}
	adapter := NewFirefliesAdapter(fetcher)

	recording, err := adapter.Normalize(context.Background(), payload)
	require.NoError(t, err)

	assert.Equal(t, "ff-1", recording.ExternalID)
	assert.Equal(t, "rep@acme.com", recording.OwnerEmail)
	assert.Equal(t, "Riley Reyes", recording.OwnerName)
	assert.Equal(t, "Pat: we have budget.", recording.Transcript)
	assert.Equal(t, recording.StartTime.Add(40*time.Minute), recording.EndTime)
	require.Len(t, recording.Invitees, 1)
	assert.True(t, recording.Invitees[0].External)

	// Inline transcript wins; no fetch happens.
	fetcher.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything)
}

func TestFirefliesNormalizeLegacyShapeFetchesTranscript(t *testing.T) {
	payload := []byte(`{
		"meetingId": "ff-2",
		"title": "Pricing call",
		"date": "2026-08-01T10:00:00Z",
		"duration": 25,
		"host_email": "rep@acme.com",
		"transcript_url": "https://app.fireflies.ai/view/ff-2.txt"
	}`)

	fetcher := &mocks.MockTranscriptFetcher{}
	fetcher.On("Fetch", mock.Anything, "https://app.fireflies.ai/view/ff-2.txt").
		Return("Pat: too expensive.", nil)

	adapter := NewFirefliesAdapter(fetcher)
	recording, err := adapter.Normalize(context.Background(), payload)
	require.NoError(t, err)

	assert.Equal(t, "ff-2", recording.ExternalID)
	assert.Equal(t, "Pat: too expensive.", recording.Transcript)
	assert.Equal(t, recording.StartTime, recording.ScheduledStartTime)
}

func TestFirefliesNormalizeMissingMeetingID(t *testing.T) {
	adapter := NewFirefliesAdapter(nil)
	_, err := adapter.Normalize(context.Background(), []byte(`{"host_email":"rep@acme.com"}`))

	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeValidation, domain.GetErrorType(err))
}

func TestFirefliesNormalizeMissingHostIdentity(t *testing.T) {
	adapter := NewFirefliesAdapter(nil)
	_, err := adapter.Normalize(context.Background(), []byte(`{"meetingId":"ff-3"}`))

	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeValidation, domain.GetErrorType(err))
}

func TestFirefliesNormalizeHostNameOnly(t *testing.T) {
	payload := []byte(`{
		"meeting": {
			"id": "ff-4",
			"title": "Intro call",
			"date": "2026-08-01T09:00:00Z",
			"duration": 30,
			"host_name": "Riley Reyes",
			"meeting_attendees": [
				{"displayName": "Pat Buyer", "email": "pat@prospect.com"}
			]
		}
	}`)

	adapter := NewFirefliesAdapter(nil)
	recording, err := adapter.Normalize(context.Background(), payload)
	require.NoError(t, err)

	assert.Equal(t, "ff-4", recording.ExternalID)
	assert.Empty(t, recording.OwnerEmail)
	assert.Equal(t, "Riley Reyes", recording.OwnerName)
	// Without an owner email there is no domain to classify invitees against.
	require.Len(t, recording.Invitees, 1)
	assert.False(t, recording.Invitees[0].External)
}
