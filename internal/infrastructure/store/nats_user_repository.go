// Copyright Dialcraft and each contributor.
// SPDX-License-Identifier: MIT

package store

import (
	"context"

	"github.com/dialcraft/call-insight-service/internal/domain"
	"github.com/dialcraft/call-insight-service/internal/domain/models"
)

// NatsUserRepository is the NATS KV store repository for sales rep accounts.
type NatsUserRepository struct {
	*NatsBaseRepository[models.User]
}

// NewNatsUserRepository creates a new NATS KV store repository for users.
func NewNatsUserRepository(kvStore INatsKeyValue) *NatsUserRepository {
	return &NatsUserRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.User](kvStore, "user"),
	}
}

// Create stores a new user
func (r *NatsUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.UID == "" {
		return domain.NewValidationError("user UID is required")
	}

	return r.NatsBaseRepository.CreateExclusive(ctx, user.UID, user)
}

// Get retrieves a user by UID
func (r *NatsUserRepository) Get(ctx context.Context, uid string) (*models.User, error) {
	return r.NatsBaseRepository.Get(ctx, uid)
}

// GetWithRevision retrieves a user with its revision by UID
func (r *NatsUserRepository) GetWithRevision(ctx context.Context, uid string) (*models.User, uint64, error) {
	return r.NatsBaseRepository.GetWithRevision(ctx, uid)
}

// Update updates an existing user
func (r *NatsUserRepository) Update(ctx context.Context, user *models.User, revision uint64) error {
	return r.NatsBaseRepository.Update(ctx, user.UID, user, revision)
}

// ListByOrganization returns all users belonging to the given organization.
func (r *NatsUserRepository) ListByOrganization(ctx context.Context, organizationID string) ([]*models.User, error) {
	users, err := r.ListEntities(ctx, "")
	if err != nil {
		return nil, err
	}

	var matching []*models.User
	for _, user := range users {
		if user.OrganizationID == organizationID {
			matching = append(matching, user)
		}
	}

	return matching, nil
}
