// Copyright Dialcraft and each contributor.
// SPDX-License-Identifier: MIT

package models

import (
	"strings"
	"time"
)

// User is a sales rep account that can own call records.
type User struct {
	UID            string    `json:"uid"`
	OrganizationID string    `json:"organization_id"`
	Email          string    `json:"email"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Active         bool      `json:"active"`
	// Entitled indicates the user is authorized to receive paid analysis.
	// Updated by the billing webhook, consumed by the orchestrator's access
	// verification step.
	Entitled  bool      `json:"entitled"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FullName returns the concatenated first and last name.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// EmailDomain returns the domain part of the user's email address, lowercased.
func (u *User) EmailDomain() string {
	at := strings.LastIndex(u.Email, "@")
	if at < 0 || at == len(u.Email)-1 {
		return ""
	}
	return strings.ToLower(u.Email[at+1:])
}
