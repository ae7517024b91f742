// Copyright Dialcraft and each contributor.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"errors"
	"log/slog"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/dialcraft/call-insight-service/internal/domain"
	"github.com/dialcraft/call-insight-service/internal/domain/models"
	"github.com/dialcraft/call-insight-service/internal/logging"
)

// NatsCallRecordRepository is the NATS KV store repository for call records.
//
// Records are stored under their UID. Each record additionally owns an
// encoded index entry mapping (provider, owner, external ID) to the record
// UID; reserving that entry with an exclusive create is the atomic
// idempotency gate for duplicate webhook deliveries.
type NatsCallRecordRepository struct {
	*NatsBaseRepository[models.CallRecord]
	keyBuilder *KeyBuilder
}

// NewNatsCallRecordRepository creates a new NATS KV store repository for call records.
func NewNatsCallRecordRepository(kvStore INatsKeyValue) *NatsCallRecordRepository {
	return &NatsCallRecordRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.CallRecord](kvStore, "call record"),
		keyBuilder:         NewKeyBuilder(),
	}
}

// Create stores a new call record. When the record carries a provider
// external ID, the index entry is reserved first; a conflict error means a
// record for the same (owner, external ID) pair already exists and the caller
// should treat the recording as already handled.
func (r *NatsCallRecordRepository) Create(ctx context.Context, record *models.CallRecord) error {
	if record.UID == "" {
		return domain.NewValidationError("call record UID is required")
	}
	if record.OwnerUID == "" {
		return domain.NewValidationError("call record owner UID is required")
	}

	provider, externalID := record.ExternalID()
	if externalID != "" {
		indexKey, err := r.keyBuilder.ExternalIDIndexKey(record.OwnerUID, provider, externalID)
		if err != nil {
			return domain.NewInternalError("failed to build external ID index key", err)
		}

		if _, err := r.kvStore.Create(ctx, indexKey, []byte(record.UID)); err != nil {
			if errors.Is(err, jetstream.ErrKeyExists) {
				return domain.NewConflictError("call record already exists for external ID", err)
			}
			slog.ErrorContext(ctx, "error reserving call record index", logging.ErrKey, err)
			return domain.NewInternalError("failed to reserve call record index", err)
		}
	}

	return r.NatsBaseRepository.CreateExclusive(ctx, record.UID, record)
}

// Get retrieves a call record by UID
func (r *NatsCallRecordRepository) Get(ctx context.Context, uid string) (*models.CallRecord, error) {
	return r.NatsBaseRepository.Get(ctx, uid)
}

// GetWithRevision retrieves a call record with its revision by UID
func (r *NatsCallRecordRepository) GetWithRevision(ctx context.Context, uid string) (*models.CallRecord, uint64, error) {
	return r.NatsBaseRepository.GetWithRevision(ctx, uid)
}

// Update updates an existing call record
func (r *NatsCallRecordRepository) Update(ctx context.Context, record *models.CallRecord, revision uint64) error {
	return r.NatsBaseRepository.Update(ctx, record.UID, record, revision)
}

// GetByExternalID looks up a call record by its owner-scoped idempotency key.
func (r *NatsCallRecordRepository) GetByExternalID(ctx context.Context, ownerUID, provider, externalID string) (*models.CallRecord, error) {
	indexKey, err := r.keyBuilder.ExternalIDIndexKey(ownerUID, provider, externalID)
	if err != nil {
		return nil, domain.NewInternalError("failed to build external ID index key", err)
	}

	entry, err := r.GetRaw(ctx, indexKey)
	if err != nil {
		return nil, err
	}

	return r.NatsBaseRepository.Get(ctx, string(entry.Value()))
}

// ListByOwner returns all call records owned by the given user.
func (r *NatsCallRecordRepository) ListByOwner(ctx context.Context, ownerUID string) ([]*models.CallRecord, error) {
	keys, err := r.ListKeys(ctx)
	if err != nil {
		return nil, err
	}

	var records []*models.CallRecord
	for _, key := range keys {
		if r.keyBuilder.IsIndexKey(key) {
			continue
		}

		record, err := r.NatsBaseRepository.Get(ctx, key)
		if err != nil {
			slog.WarnContext(ctx, "failed to get call record, skipping", "key", key, logging.ErrKey, err)
			continue
		}

		if record.OwnerUID == ownerUID {
			records = append(records, record)
		}
	}

	return records, nil
}
