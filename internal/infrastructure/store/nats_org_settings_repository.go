// Copyright Dialcraft and each contributor.
// SPDX-License-Identifier: MIT

package store

import (
	"context"

	"github.com/dialcraft/call-insight-service/internal/domain"
	"github.com/dialcraft/call-insight-service/internal/domain/models"
)

// NatsOrgSettingsRepository is the NATS KV store repository for per-org
// analysis configuration.
type NatsOrgSettingsRepository struct {
	*NatsBaseRepository[models.OrgSettings]
}

// NewNatsOrgSettingsRepository creates a new NATS KV store repository for org settings.
func NewNatsOrgSettingsRepository(kvStore INatsKeyValue) *NatsOrgSettingsRepository {
	return &NatsOrgSettingsRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.OrgSettings](kvStore, "org settings"),
	}
}

// Get returns the stored settings for an organization, falling back to the
// defaults when none exist. Only storage failures surface as errors.
func (r *NatsOrgSettingsRepository) Get(ctx context.Context, organizationID string) (*models.OrgSettings, error) {
	settings, err := r.NatsBaseRepository.Get(ctx, organizationID)
	if err != nil {
		if domain.GetErrorType(err) == domain.ErrorTypeNotFound {
			return models.DefaultOrgSettings(organizationID), nil
		}
		return nil, err
	}

	return settings, nil
}

// Put stores the settings for an organization.
func (r *NatsOrgSettingsRepository) Put(ctx context.Context, settings *models.OrgSettings) error {
	if settings.OrganizationID == "" {
		return domain.NewValidationError("organization ID is required")
	}

	return r.NatsBaseRepository.Put(ctx, settings.OrganizationID, settings)
}
