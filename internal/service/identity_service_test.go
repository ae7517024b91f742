// Copyright Dialcraft and each contributor.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dialcraft/call-insight-service/internal/domain"
	"github.com/dialcraft/call-insight-service/internal/domain/mocks"
	"github.com/dialcraft/call-insight-service/internal/domain/models"
)

func orgUsers() []*models.User {
	return []*models.User{
		{UID: "user-1", OrganizationID: "org-1", Email: "ana.silva@acme.com", FirstName: "Ana", LastName: "Silva", Active: true},
		{UID: "user-2", OrganizationID: "org-1", Email: "ben.tan@acme.com", FirstName: "Ben", LastName: "Tan", Active: true},
		{UID: "user-3", OrganizationID: "org-1", Email: "inactive@acme.com", FirstName: "Old", LastName: "Account", Active: false},
	}
}

func TestResolveByEmail(t *testing.T) {
	userRepo := &mocks.MockUserRepository{}
	userRepo.On("ListByOrganization", mock.Anything, "org-1").Return(orgUsers(), nil)

	svc := NewIdentityService(userRepo)
	user, matchedBy, err := svc.Resolve(context.Background(), "org-1", "ANA.SILVA@acme.com", "", "")

	require.NoError(t, err)
	assert.Equal(t, "user-1", user.UID)
	assert.Equal(t, MatchedByEmail, matchedBy)
}

func TestResolveEmailBeatsName(t *testing.T) {
	userRepo := &mocks.MockUserRepository{}
	userRepo.On("ListByOrganization", mock.Anything, "org-1").Return(orgUsers(), nil)

	svc := NewIdentityService(userRepo)

	// Email points at Ben, name points at Ana; email is authoritative.
	user, matchedBy, err := svc.Resolve(context.Background(), "org-1", "ben.tan@acme.com", "Ana Silva", "")

	require.NoError(t, err)
	assert.Equal(t, "user-2", user.UID)
	assert.Equal(t, MatchedByEmail, matchedBy)
}

func TestResolveByExactName(t *testing.T) {
	userRepo := &mocks.MockUserRepository{}
	userRepo.On("ListByOrganization", mock.Anything, "org-1").Return(orgUsers(), nil)

	svc := NewIdentityService(userRepo)
	user, matchedBy, err := svc.Resolve(context.Background(), "org-1", "", "ana silva", "")

	require.NoError(t, err)
	assert.Equal(t, "user-1", user.UID)
	assert.Equal(t, MatchedByName, matchedBy)
}

func TestResolveBySubstringName(t *testing.T) {
	userRepo := &mocks.MockUserRepository{}
	userRepo.On("ListByOrganization", mock.Anything, "org-1").Return(orgUsers(), nil)

	svc := NewIdentityService(userRepo)

	// Provider-formatted name with extra decoration still matches.
	user, matchedBy, err := svc.Resolve(context.Background(), "org-1", "", "Ben Tan (Sales)", "")

	require.NoError(t, err)
	assert.Equal(t, "user-2", user.UID)
	assert.Equal(t, MatchedByName, matchedBy)
}

func TestResolveSkipsInactiveUsers(t *testing.T) {
	userRepo := &mocks.MockUserRepository{}
	userRepo.On("ListByOrganization", mock.Anything, "org-1").Return(orgUsers(), nil)

	svc := NewIdentityService(userRepo)
	_, _, err := svc.Resolve(context.Background(), "org-1", "inactive@acme.com", "", "")

	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeNotFound, domain.GetErrorType(err))
}

func TestResolveFallbackOwner(t *testing.T) {
	userRepo := &mocks.MockUserRepository{}
	userRepo.On("ListByOrganization", mock.Anything, "org-1").Return(orgUsers(), nil)
	userRepo.On("Get", mock.Anything, "user-2").Return(orgUsers()[1], nil)

	svc := NewIdentityService(userRepo)
	user, matchedBy, err := svc.Resolve(context.Background(), "org-1", "stranger@other.com", "Nobody Known", "user-2")

	require.NoError(t, err)
	assert.Equal(t, "user-2", user.UID)
	assert.Equal(t, MatchedByFallback, matchedBy)
}

func TestResolveNotFound(t *testing.T) {
	userRepo := &mocks.MockUserRepository{}
	userRepo.On("ListByOrganization", mock.Anything, "org-1").Return(orgUsers(), nil)

	svc := NewIdentityService(userRepo)
	_, _, err := svc.Resolve(context.Background(), "org-1", "stranger@other.com", "", "")

	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeNotFound, domain.GetErrorType(err))
}
