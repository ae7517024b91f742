// Copyright Dialcraft and each contributor.
// SPDX-License-Identifier: MIT

package providers

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/dialcraft/call-insight-service/internal/domain"
	"github.com/dialcraft/call-insight-service/internal/domain/models"
	"github.com/dialcraft/call-insight-service/internal/logging"
)

// ZoomAdapter normalizes Zoom recording.completed webhook payloads.
type ZoomAdapter struct {
	transcripts domain.TranscriptFetcher
}

// NewZoomAdapter creates a new Zoom payload adapter.
func NewZoomAdapter(transcripts domain.TranscriptFetcher) *ZoomAdapter {
	return &ZoomAdapter{transcripts: transcripts}
}

// Provider returns the provider name the adapter handles.
func (a *ZoomAdapter) Provider() string {
	return models.ProviderZoom
}

// Normalize parses a Zoom payload, preferring the current nested shape over
// the legacy flat one when both are present.
func (a *ZoomAdapter) Normalize(ctx context.Context, payload []byte) (*models.IngestedRecording, error) {
	var event models.ZoomRecordingEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, domain.NewValidationError("malformed zoom payload", err)
	}

	recording := &models.IngestedRecording{
		Provider:    models.ProviderZoom,
		RawMetadata: rawMetadata(payload),
	}

	object := event.Payload.Object
	if object.UUID != "" {
		recording.ExternalID = object.UUID
		recording.Title = object.Topic
		recording.OwnerEmail = object.HostEmail
		recording.ScheduledStartTime = object.StartTime
		recording.StartTime = object.StartTime
		recording.DurationMinutes = object.Duration
		recording.ShareURL = object.ShareURL

		if object.Duration > 0 {
			recording.EndTime = object.StartTime.Add(time.Duration(object.Duration) * time.Minute)
		}

		invitees := object.Invitees
		if len(invitees) == 0 {
			invitees = object.Participants
		}
		for _, participant := range invitees {
			recording.Invitees = append(recording.Invitees, models.Invitee{
				Name:  participant.Name,
				Email: participant.Email,
			})
		}

		for _, file := range object.RecordingFiles {
			switch file.FileType {
			case "TRANSCRIPT":
				recording.TranscriptURL = file.DownloadURL
			case "MP4":
				if recording.RecordingURL == "" {
					recording.RecordingURL = file.PlayURL
				}
			}
		}
	} else {
		recording.ExternalID = event.UUID
		recording.Title = event.Topic
		recording.OwnerEmail = event.HostEmail
		recording.ScheduledStartTime = event.StartTime
		recording.StartTime = event.StartTime
		recording.DurationMinutes = event.Duration
		recording.ShareURL = event.ShareURL

		if event.Duration > 0 {
			recording.EndTime = event.StartTime.Add(time.Duration(event.Duration) * time.Minute)
		}
	}

	if recording.ExternalID == "" {
		return nil, domain.NewValidationError("zoom payload is missing a meeting UUID")
	}
	if recording.OwnerEmail == "" {
		return nil, domain.NewValidationError("zoom payload is missing a host email")
	}

	recording.Invitees = markExternal(recording.Invitees, recording.OwnerEmail)

	if recording.TranscriptURL != "" && a.transcripts != nil {
		transcript, err := a.transcripts.Fetch(ctx, recording.TranscriptURL)
		if err != nil {
			// Transcript fetch failures are non-fatal; analysis degrades to
			// metadata-only.
			slog.WarnContext(ctx, "failed to fetch zoom transcript",
				logging.ErrKey, err, "external_id", recording.ExternalID)
		} else {
			recording.Transcript = transcript
		}
	}

	return recording, nil
}
