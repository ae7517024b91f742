// Copyright Dialcraft and each contributor.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dialcraft/call-insight-service/internal/domain"
	"github.com/dialcraft/call-insight-service/internal/domain/models"
)

func TestOrgSettingsGetFallsBackToDefaults(t *testing.T) {
	repo := NewNatsOrgSettingsRepository(newFakeKeyValue())

	settings, err := repo.Get(context.Background(), "org-1")
	require.NoError(t, err)
	assert.Equal(t, "org-1", settings.OrganizationID)
	assert.NotEmpty(t, settings.PositiveSignals)
	assert.NotEmpty(t, settings.NegativeSignals)
}

func TestOrgSettingsPutAndGet(t *testing.T) {
	repo := NewNatsOrgSettingsRepository(newFakeKeyValue())

	custom := models.DefaultOrgSettings("org-1")
	custom.NoShowThresholdMinutes = 5
	require.NoError(t, repo.Put(context.Background(), custom))

	settings, err := repo.Get(context.Background(), "org-1")
	require.NoError(t, err)
	assert.Equal(t, 5, settings.NoShowThresholdMinutes)
}

func TestOrgSettingsPutRequiresOrganizationID(t *testing.T) {
	repo := NewNatsOrgSettingsRepository(newFakeKeyValue())

	err := repo.Put(context.Background(), &models.OrgSettings{})
	assert.Equal(t, domain.ErrorTypeValidation, domain.GetErrorType(err))
}

func TestUserRepositoryListByOrganization(t *testing.T) {
	repo := NewNatsUserRepository(newFakeKeyValue())

	require.NoError(t, repo.Create(context.Background(), &models.User{UID: "user-1", OrganizationID: "org-1"}))
	require.NoError(t, repo.Create(context.Background(), &models.User{UID: "user-2", OrganizationID: "org-1"}))
	require.NoError(t, repo.Create(context.Background(), &models.User{UID: "user-3", OrganizationID: "org-2"}))

	users, err := repo.ListByOrganization(context.Background(), "org-1")
	require.NoError(t, err)
	assert.Len(t, users, 2)
}
