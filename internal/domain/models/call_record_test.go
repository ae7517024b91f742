// Copyright Dialcraft and each contributor.
// SPDX-License-Identifier: MIT

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExternalIDRoundTrip(t *testing.T) {
	for _, provider := range []string{ProviderZoom, ProviderFireflies, ProviderMeetGeek} {
		record := &CallRecord{}
		record.SetExternalID(provider, "ext-1")

		gotProvider, gotID := record.ExternalID()
		assert.Equal(t, provider, gotProvider)
		assert.Equal(t, "ext-1", gotID)
		assert.Equal(t, provider, record.Provider())
	}

	provider, id := (&CallRecord{}).ExternalID()
	assert.Empty(t, provider)
	assert.Empty(t, id)
}

func TestSharesInviteeWith(t *testing.T) {
	record := &CallRecord{Invitees: []Invitee{
		{Name: "Pat Buyer", Email: "pat@prospect.com"},
		{Name: "Riley Reyes", Email: "rep@acme.com"},
	}}

	tests := []struct {
		name     string
		invitees []Invitee
		shared   bool
	}{
		{"email match is case-insensitive", []Invitee{{Email: "PAT@prospect.com"}}, true},
		{"name substring matches", []Invitee{{Name: "pat buyer (Prospect Co)"}}, true},
		{"no overlap", []Invitee{{Name: "Sam Other", Email: "sam@elsewhere.com"}}, false},
		{"empty list", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.shared, record.SharesInviteeWith(tt.invitees))
		})
	}
}

func TestExternalInviteeCount(t *testing.T) {
	record := &CallRecord{Invitees: []Invitee{
		{Email: "pat@prospect.com", External: true},
		{Email: "rep@acme.com"},
	}}
	assert.Equal(t, 1, record.ExternalInviteeCount())
	assert.Equal(t, 0, (&CallRecord{}).ExternalInviteeCount())
}
