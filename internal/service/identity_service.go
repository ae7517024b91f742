// Copyright Dialcraft and each contributor.
// SPDX-License-Identifier: MIT

// Package service contains the business logic of the call insight service.
package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/dialcraft/call-insight-service/internal/domain"
	"github.com/dialcraft/call-insight-service/internal/domain/models"
	"github.com/dialcraft/call-insight-service/internal/logging"
)

// How a recording owner was resolved.
const (
	MatchedByEmail    = "email"
	MatchedByName     = "name"
	MatchedByFallback = "fallback"
)

// IdentityService resolves the internal user that owns a recording when the
// provider payload does not identify them reliably.
type IdentityService struct {
	userRepository domain.UserRepository
}

// NewIdentityService creates a new identity resolution service.
func NewIdentityService(userRepository domain.UserRepository) *IdentityService {
	return &IdentityService{
		userRepository: userRepository,
	}
}

// ServiceReady checks if the service is ready to resolve identities.
func (s *IdentityService) ServiceReady() bool {
	return s.userRepository != nil
}

// Resolve determines the owning user for a recording. Resolution order:
// case-insensitive email match among active users, exact full-name match,
// substring full-name match, then the caller-supplied fallback owner. Email
// is authoritative; names are a soft fallback because providers format them
// inconsistently.
func (s *IdentityService) Resolve(ctx context.Context, organizationID, claimedEmail, claimedName, fallbackOwnerUID string) (*models.User, string, error) {
	if !s.ServiceReady() {
		return nil, "", domain.NewUnavailableError("identity service is not ready")
	}

	users, err := s.userRepository.ListByOrganization(ctx, organizationID)
	if err != nil {
		return nil, "", err
	}

	var active []*models.User
	for _, user := range users {
		if user.Active {
			active = append(active, user)
		}
	}

	if claimedEmail != "" {
		for _, user := range active {
			if strings.EqualFold(user.Email, claimedEmail) {
				return user, MatchedByEmail, nil
			}
		}
	}

	if claimedName != "" {
		if user := matchByName(active, claimedName); user != nil {
			return user, MatchedByName, nil
		}
	}

	if fallbackOwnerUID != "" {
		user, err := s.userRepository.Get(ctx, fallbackOwnerUID)
		if err != nil {
			slog.WarnContext(ctx, "fallback owner lookup failed",
				logging.ErrKey, err, "fallback_owner_uid", fallbackOwnerUID)
		} else if user.Active {
			return user, MatchedByFallback, nil
		}
	}

	return nil, "", domain.NewNotFoundError("no matching owner for recording")
}

// matchByName tries an exact full-name match first and falls back to a
// case-insensitive substring match in either direction.
func matchByName(users []*models.User, claimedName string) *models.User {
	claimed := strings.ToLower(strings.TrimSpace(claimedName))
	if claimed == "" {
		return nil
	}

	for _, user := range users {
		if strings.ToLower(user.FullName()) == claimed {
			return user
		}
	}

	for _, user := range users {
		full := strings.ToLower(user.FullName())
		if full == "" {
			continue
		}
		if strings.Contains(full, claimed) || strings.Contains(claimed, full) {
			return user
		}
	}

	return nil
}
