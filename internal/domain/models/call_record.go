// Copyright Dialcraft and each contributor.
// SPDX-License-Identifier: MIT

// Package models contains the canonical entities and message schemas of the
// call insight service.
package models

import (
	"strings"
	"time"
)

// Recording provider names. Each maps to one normalizer adapter and one
// webhook endpoint.
const (
	ProviderZoom      = "zoom"
	ProviderFireflies = "fireflies"
	ProviderMeetGeek  = "meetgeek"
)

// CallStatus is the lifecycle status of a call record.
type CallStatus string

const (
	// CallStatusPending means the record is stored but not yet analyzed.
	CallStatusPending CallStatus = "pending"
	// CallStatusEvaluated means analysis and evaluation completed.
	CallStatusEvaluated CallStatus = "evaluated"
	// CallStatusFailed means the processing workflow exhausted its retries.
	CallStatusFailed CallStatus = "failed"
)

// Invitee is a single attendee of a recorded call.
type Invitee struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	External bool   `json:"external"` // outside the owner's email domain
}

// IngestedRecording is the provider-agnostic output of payload normalization.
// It is immutable once produced by an adapter; the ingestion service copies
// its fields onto a CallRecord.
type IngestedRecording struct {
	Provider           string         `json:"provider"`
	ExternalID         string         `json:"external_id"`
	Title              string         `json:"title"`
	ScheduledStartTime time.Time      `json:"scheduled_start_time"`
	StartTime          time.Time      `json:"start_time"`
	EndTime            time.Time      `json:"end_time"`
	DurationMinutes    int            `json:"duration_minutes"`
	Transcript         string         `json:"transcript"`
	TranscriptURL      string         `json:"transcript_url"`
	RecordingURL       string         `json:"recording_url"`
	ShareURL           string         `json:"share_url"`
	Invitees           []Invitee      `json:"invitees"`
	OwnerEmail         string         `json:"owner_email"`
	OwnerName          string         `json:"owner_name"`
	RawMetadata        map[string]any `json:"raw_metadata"`
}

// CallRecord is the persisted canonical representation of a recording for one
// owning sales rep. One record exists per (owner, external ID) pair; the same
// underlying meeting may legitimately yield multiple records when several
// owners were on the call.
type CallRecord struct {
	UID            string     `json:"uid"`
	OrganizationID string     `json:"organization_id"`
	OwnerUID       string     `json:"owner_uid"`
	Status         CallStatus `json:"status"`

	Title              string    `json:"title"`
	ScheduledStartTime time.Time `json:"scheduled_start_time"`
	StartTime          time.Time `json:"start_time"`
	EndTime            time.Time `json:"end_time"`
	DurationMinutes    int       `json:"duration_minutes"`
	Transcript         string    `json:"transcript"`
	RecordingURL       string    `json:"recording_url"`
	ShareURL           string    `json:"share_url"`
	Invitees           []Invitee `json:"invitees"`

	// Provider-specific external IDs. At most one is populated; together with
	// OwnerUID it forms the idempotency key for the record.
	ZoomMeetingUID      string `json:"zoom_meeting_uid,omitempty"`
	FirefliesMeetingID  string `json:"fireflies_meeting_id,omitempty"`
	MeetGeekRecordingID string `json:"meetgeek_recording_id,omitempty"`

	EvaluationUID string `json:"evaluation_uid,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SetExternalID populates the external ID field matching the provider.
func (c *CallRecord) SetExternalID(provider, externalID string) {
	switch provider {
	case ProviderZoom:
		c.ZoomMeetingUID = externalID
	case ProviderFireflies:
		c.FirefliesMeetingID = externalID
	case ProviderMeetGeek:
		c.MeetGeekRecordingID = externalID
	}
}

// ExternalID returns the populated provider external ID and its provider
// name, or empty strings when the record carries none.
func (c *CallRecord) ExternalID() (provider, externalID string) {
	switch {
	case c.ZoomMeetingUID != "":
		return ProviderZoom, c.ZoomMeetingUID
	case c.FirefliesMeetingID != "":
		return ProviderFireflies, c.FirefliesMeetingID
	case c.MeetGeekRecordingID != "":
		return ProviderMeetGeek, c.MeetGeekRecordingID
	}
	return "", ""
}

// Provider returns the provider the record was ingested from.
func (c *CallRecord) Provider() string {
	provider, _ := c.ExternalID()
	return provider
}

// ExternalInviteeCount returns the number of invitees outside the owner's
// email domain.
func (c *CallRecord) ExternalInviteeCount() int {
	count := 0
	for _, invitee := range c.Invitees {
		if invitee.External {
			count++
		}
	}
	return count
}

// SharesInviteeWith reports whether the record has at least one invitee in
// common with the given list, matching by email first and then by
// case-insensitive name substring.
func (c *CallRecord) SharesInviteeWith(invitees []Invitee) bool {
	for _, candidate := range invitees {
		for _, existing := range c.Invitees {
			if candidate.Email != "" && strings.EqualFold(candidate.Email, existing.Email) {
				return true
			}
			if candidate.Name != "" && existing.Name != "" {
				candidateName := strings.ToLower(candidate.Name)
				existingName := strings.ToLower(existing.Name)
				if strings.Contains(existingName, candidateName) || strings.Contains(candidateName, existingName) {
					return true
				}
			}
		}
	}
	return false
}
