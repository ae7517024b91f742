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
	"github.com/dialcraft/call-insight-service/internal/domain/models"
)

const zoomNestedPayload = `{
	"event": "recording.completed",
	"payload": {
		"account_id": "acct-1",
		"object": {
			"uuid": "zoom-uuid-1",
			"host_email": "rep@acme.com",
			"topic": "Acme discovery call",
			"start_time": "2026-08-01T15:00:00Z",
			"duration": 45,
			"share_url": "https://zoom.us/rec/share/xyz",
			"invitees": [
				{"name": "Pat Buyer", "email": "pat@prospect.com"},
				{"name": "Riley Reyes", "email": "rep@acme.com"}
			],
			"recording_files": [
				{"file_type": "MP4", "play_url": "https://zoom.us/rec/play/xyz"},
				{"file_type": "TRANSCRIPT", "download_url": "https://zoom.us/rec/download/vtt"}
			]
		}
	}
}`

func TestZoomNormalizeNestedShape(t *testing.T) {
	fetcher := &mocks.MockTranscriptFetcher{}
	fetcher.On("Fetch", mock.Anything, "https://zoom.us/rec/download/vtt").
		Return("Pat: sounds good.", nil)

	adapter := NewZoomAdapter(fetcher)
	recording, err := adapter.Normalize(context.Background(), []byte(zoomNestedPayload))
	require.NoError(t, err)

	assert.Equal(t, models.ProviderZoom, recording.Provider)
	assert.Equal(t, "zoom-uuid-1", recording.ExternalID)
	assert.Equal(t, "rep@acme.com", recording.OwnerEmail)
	assert.Equal(t, "Acme discovery call", recording.Title)
	assert.Equal(t, 45, recording.DurationMinutes)
	assert.Equal(t, recording.StartTime.Add(45*time.Minute), recording.EndTime)
	assert.Equal(t, "https://zoom.us/rec/play/xyz", recording.RecordingURL)
	assert.Equal(t, "https://zoom.us/rec/share/xyz", recording.ShareURL)
	assert.Equal(t, "Pat: sounds good.", recording.Transcript)

	require.Len(t, recording.Invitees, 2)
	assert.True(t, recording.Invitees[0].External)
	assert.False(t, recording.Invitees[1].External)
}

func TestZoomNormalizeLegacyFlatShape(t *testing.T) {
	payload := []byte(`{
		"uuid": "zoom-uuid-2",
		"topic": "Renewal call",
		"host_email": "rep@acme.com",
		"start_time": "2026-08-01T10:00:00Z",
		"duration": 30
	}`)

	adapter := NewZoomAdapter(nil)
	recording, err := adapter.Normalize(context.Background(), payload)
	require.NoError(t, err)

	assert.Equal(t, "zoom-uuid-2", recording.ExternalID)
	assert.Equal(t, "Renewal call", recording.Title)
	assert.Equal(t, 30, recording.DurationMinutes)
	assert.Equal(t, recording.StartTime.Add(30*time.Minute), recording.EndTime)
}

func TestZoomNormalizeMissingUUID(t *testing.T) {
	adapter := NewZoomAdapter(nil)
	_, err := adapter.Normalize(context.Background(), []byte(`{"topic":"no id","host_email":"rep@acme.com"}`))

	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeValidation, domain.GetErrorType(err))
}

func TestZoomNormalizeMissingHostEmail(t *testing.T) {
	adapter := NewZoomAdapter(nil)
	_, err := adapter.Normalize(context.Background(), []byte(`{"uuid":"zoom-uuid-3"}`))

	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeValidation, domain.GetErrorType(err))
}

func TestZoomTranscriptFetchFailureIsNonFatal(t *testing.T) {
	fetcher := &mocks.MockTranscriptFetcher{}
	fetcher.On("Fetch", mock.Anything, mock.Anything).
		Return("", domain.NewUnavailableError("transcript host is down"))

	adapter := NewZoomAdapter(fetcher)
	recording, err := adapter.Normalize(context.Background(), []byte(zoomNestedPayload))

	require.NoError(t, err)
	assert.Empty(t, recording.Transcript)
}
