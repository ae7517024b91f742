// Copyright Dialcraft and each contributor.
// SPDX-License-Identifier: MIT

package models

import "time"

// Provider webhook payloads. Every provider has shipped more than one payload
// shape over time, so each struct carries both the current nested shape and
// the legacy flat fields; adapters prefer the nested shape when both are
// present.

// ZoomRecordingEvent is the envelope of a Zoom recording.completed delivery.
type ZoomRecordingEvent struct {
	Event   string `json:"event"`
	EventTS int64  `json:"event_ts"`
	Payload struct {
		AccountID string              `json:"account_id"`
		Object    ZoomRecordingObject `json:"object"`
	} `json:"payload"`

	// Legacy flat shape, used by older Zoom marketplace apps.
	UUID      string    `json:"uuid,omitempty"`
	Topic     string    `json:"topic,omitempty"`
	HostEmail string    `json:"host_email,omitempty"`
	StartTime time.Time `json:"start_time,omitempty"`
	Duration  int       `json:"duration,omitempty"`
	ShareURL  string    `json:"share_url,omitempty"`
}

// ZoomRecordingObject is the nested recording object of the current shape.
type ZoomRecordingObject struct {
	UUID           string              `json:"uuid"`
	ID             int64               `json:"id"`
	HostID         string              `json:"host_id"`
	HostEmail      string              `json:"host_email"`
	Topic          string              `json:"topic"`
	StartTime      time.Time           `json:"start_time"`
	Timezone       string              `json:"timezone"`
	Duration       int                 `json:"duration"`
	ShareURL       string              `json:"share_url"`
	TotalSize      int64               `json:"total_size"`
	RecordingCount int                 `json:"recording_count"`
	RecordingFiles []ZoomRecordingFile `json:"recording_files"`
	Participants   []ZoomParticipant   `json:"participant_audio_files,omitempty"`
	Invitees       []ZoomParticipant   `json:"invitees,omitempty"`
}

// ZoomRecordingFile is one file inside a Zoom recording set.
type ZoomRecordingFile struct {
	ID             string    `json:"id"`
	FileType       string    `json:"file_type"` // "MP4", "M4A", "TRANSCRIPT", ...
	FileSize       int64     `json:"file_size"`
	PlayURL        string    `json:"play_url"`
	DownloadURL    string    `json:"download_url"`
	RecordingStart time.Time `json:"recording_start"`
	RecordingEnd   time.Time `json:"recording_end"`
	Status         string    `json:"status"`
}

// ZoomParticipant is an attendee entry on a Zoom recording payload.
type ZoomParticipant struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// FirefliesEvent is the envelope of a Fireflies transcription webhook. The
// current shape nests the meeting object; the legacy shape is flat.
type FirefliesEvent struct {
	EventType string            `json:"eventType"`
	Meeting   *FirefliesMeeting `json:"meeting,omitempty"`

	// Legacy flat shape.
	MeetingID     string              `json:"meetingId,omitempty"`
	Title         string              `json:"title,omitempty"`
	Date          time.Time           `json:"date,omitempty"`
	DurationMin   int                 `json:"duration,omitempty"`
	HostEmail     string              `json:"host_email,omitempty"`
	TranscriptURL string              `json:"transcript_url,omitempty"`
	Attendees     []FirefliesAttendee `json:"attendees,omitempty"`
}

// FirefliesMeeting is the nested meeting object of the current shape.
type FirefliesMeeting struct {
	ID             string              `json:"id"`
	Title          string              `json:"title"`
	Date           time.Time           `json:"date"`
	ScheduledStart time.Time           `json:"scheduled_start"`
	EndedAt        time.Time           `json:"ended_at"`
	DurationMin    int                 `json:"duration"`
	HostEmail      string              `json:"host_email"`
	HostName       string              `json:"host_name"`
	TranscriptURL  string              `json:"transcript_url"`
	TranscriptText string              `json:"transcript_text"`
	MeetingURL     string              `json:"meeting_url"`
	Attendees      []FirefliesAttendee `json:"meeting_attendees"`
}

// FirefliesAttendee is an attendee entry on a Fireflies payload.
type FirefliesAttendee struct {
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}

// MeetGeekEvent is a MeetGeek recording-ready webhook delivery.
type MeetGeekEvent struct {
	RecordingID string `json:"recording_id"`
	Title       string `json:"title"`
	Host        struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"host"`
	ScheduledStart time.Time          `json:"scheduled_start"`
	StartedAt      time.Time          `json:"started_at"`
	EndedAt        time.Time          `json:"ended_at"`
	Transcript     string             `json:"transcript,omitempty"`
	TranscriptURL  string             `json:"transcript_url,omitempty"`
	RecordingURL   string             `json:"recording_url,omitempty"`
	Attendees      []MeetGeekAttendee `json:"attendees"`

	// Legacy flat shape used the "id" and "owner_email" field names.
	LegacyID         string `json:"id,omitempty"`
	LegacyOwnerEmail string `json:"owner_email,omitempty"`
	LegacyOwnerName  string `json:"owner_name,omitempty"`
	// Legacy deliveries report duration instead of start/end timestamps and
	// list attendees under "invitees".
	LegacyDurationMin int                `json:"duration_min,omitempty"`
	LegacyInvitees    []MeetGeekAttendee `json:"invitees,omitempty"`
}

// MeetGeekAttendee is an attendee entry on a MeetGeek payload. External is a
// pointer because older deliveries omit the flag entirely, in which case the
// normalizer derives it from the owner's email domain.
type MeetGeekAttendee struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	External *bool  `json:"is_external,omitempty"`
}
