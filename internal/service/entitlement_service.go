// Copyright Dialcraft and each contributor.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/dialcraft/call-insight-service/internal/domain"
	"github.com/dialcraft/call-insight-service/internal/domain/models"
	"github.com/dialcraft/call-insight-service/internal/logging"
)

// BillingEvent is the payload of the signed billing/entitlement webhook.
// Either the user UID or the (organization, email) pair identifies the user.
type BillingEvent struct {
	Event          string `json:"event"`
	UserUID        string `json:"user_uid,omitempty"`
	OrganizationID string `json:"organization_id,omitempty"`
	Email          string `json:"email,omitempty"`
	Entitled       bool   `json:"entitled"`
}

// EntitlementService applies billing webhook events to the entitlement flag
// consumed by the orchestrator's access verification step.
type EntitlementService struct {
	userRepository domain.UserRepository
}

// NewEntitlementService creates a new entitlement service.
func NewEntitlementService(userRepository domain.UserRepository) *EntitlementService {
	return &EntitlementService{
		userRepository: userRepository,
	}
}

// ServiceReady checks if the service is ready to process billing events.
func (s *EntitlementService) ServiceReady() bool {
	return s.userRepository != nil
}

// HandleBillingEvent parses one billing webhook body and updates the
// entitlement flag of the referenced user. The caller verifies the request
// signature before this runs.
func (s *EntitlementService) HandleBillingEvent(ctx context.Context, body []byte) error {
	if !s.ServiceReady() {
		return domain.NewUnavailableError("entitlement service is not ready")
	}

	var event BillingEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return domain.NewValidationError("malformed billing event", err)
	}

	user, revision, err := s.findUser(ctx, &event)
	if err != nil {
		return err
	}

	ctx = logging.AppendCtx(ctx, slog.String("user_uid", user.UID))

	if user.Entitled == event.Entitled {
		slog.DebugContext(ctx, "entitlement unchanged, ignoring billing event",
			"entitled", event.Entitled)
		return nil
	}

	user.Entitled = event.Entitled
	user.UpdatedAt = time.Now().UTC()

	if err := s.userRepository.Update(ctx, user, revision); err != nil {
		return err
	}

	slog.InfoContext(ctx, "updated user entitlement", "entitled", event.Entitled)
	return nil
}

func (s *EntitlementService) findUser(ctx context.Context, event *BillingEvent) (*models.User, uint64, error) {
	if event.UserUID != "" {
		return s.userRepository.GetWithRevision(ctx, event.UserUID)
	}

	if event.OrganizationID == "" || event.Email == "" {
		return nil, 0, domain.NewValidationError("billing event must carry a user UID or an organization and email")
	}

	users, err := s.userRepository.ListByOrganization(ctx, event.OrganizationID)
	if err != nil {
		return nil, 0, err
	}

	for _, user := range users {
		if strings.EqualFold(user.Email, event.Email) {
			return s.userRepository.GetWithRevision(ctx, user.UID)
		}
	}

	return nil, 0, domain.NewNotFoundError("no user matches the billing event")
}
