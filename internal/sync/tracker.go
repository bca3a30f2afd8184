package sync

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/mrnobugz/PosApp-Api/internal/model"
	"github.com/mrnobugz/PosApp-Api/internal/repository"

	"gorm.io/gorm"
)

// ProductHash digests the canonical field list so any field change
// invalidates the stored hash. Field order is part of the contract.
func ProductHash(p *model.Product) string {
	return digest(
		p.Name,
		p.Price.String(),
		strconv.Itoa(p.Stock),
		strVal(p.SKU),
		strVal(p.Description),
		strVal(p.Barcode),
		p.BuyingPrice.String(),
		strconv.Itoa(p.LowStockThreshold),
		uintVal(p.CategoryID),
	)
}

func CategoryHash(c *model.Category) string {
	return digest(c.Name)
}

func SupplierHash(s *model.Supplier) string {
	return digest(s.Name, strVal(s.ContactPerson), strVal(s.Phone))
}

func digest(fields ...string) string {
	sum := md5.Sum([]byte(strings.Join(fields, "|")))
	return hex.EncodeToString(sum[:])
}

func strVal(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func uintVal(u *uint) string {
	if u == nil {
		return ""
	}
	return strconv.FormatUint(uint64(*u), 10)
}

// Tracker maintains the per-entity sync state table and the audit trail.
type Tracker struct {
	repo repository.SyncRepository
}

func NewTracker(repo repository.SyncRepository) *Tracker {
	return &Tracker{repo: repo}
}

// Track upserts a tracking row keyed by (entityType, entityID).
func (t *Tracker) Track(ctx context.Context, entityType string, entityID uint, externalID *string, status, hash string) error {
	return t.repo.UpsertTracking(ctx, &model.SyncTracking{
		EntityType: entityType,
		EntityID:   entityID,
		ExternalID: externalID,
		SyncStatus: status,
		SyncHash:   hash,
	})
}

// markChanged flags a local mutation. A never-tracked entity becomes pending,
// a synced one becomes updated, and an unchanged hash on a synced row is a
// no-op so clean entities never re-enter the push queue.
func (t *Tracker) markChanged(ctx context.Context, entityType string, entityID uint, hash string) error {
	existing, err := t.repo.FindTracking(ctx, entityType, entityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return t.Track(ctx, entityType, entityID, nil, model.SyncPending, hash)
		}
		return err
	}
	status := existing.SyncStatus
	switch existing.SyncStatus {
	case model.SyncSynced:
		if existing.SyncHash == hash {
			return nil
		}
		status = model.SyncUpdated
	case model.SyncFailed:
		status = model.SyncUpdated
	}
	return t.repo.UpsertTracking(ctx, &model.SyncTracking{
		EntityType: entityType,
		EntityID:   entityID,
		ExternalID: existing.ExternalID,
		SyncStatus: status,
		LastSync:   existing.LastSync,
		SyncHash:   hash,
	})
}

// markDeleted leaves a tombstone for the push phase, or drops the tracking
// row outright when the remote side never knew the entity.
func (t *Tracker) markDeleted(ctx context.Context, entityType string, entityID uint) error {
	existing, err := t.repo.FindTracking(ctx, entityType, entityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if existing.ExternalID == nil {
		return t.repo.DeleteTracking(ctx, entityType, entityID)
	}
	return t.repo.MarkStatus(ctx, entityType, entityID, model.SyncDeleted)
}

func (t *Tracker) ProductChanged(ctx context.Context, p *model.Product) error {
	return t.markChanged(ctx, model.EntityProduct, p.ID, ProductHash(p))
}

func (t *Tracker) ProductDeleted(ctx context.Context, id uint) error {
	return t.markDeleted(ctx, model.EntityProduct, id)
}

func (t *Tracker) CategoryChanged(ctx context.Context, c *model.Category) error {
	return t.markChanged(ctx, model.EntityCategory, c.ID, CategoryHash(c))
}

func (t *Tracker) CategoryDeleted(ctx context.Context, id uint) error {
	return t.markDeleted(ctx, model.EntityCategory, id)
}

func (t *Tracker) SupplierChanged(ctx context.Context, s *model.Supplier) error {
	return t.markChanged(ctx, model.EntitySupplier, s.ID, SupplierHash(s))
}

func (t *Tracker) SupplierDeleted(ctx context.Context, id uint) error {
	return t.markDeleted(ctx, model.EntitySupplier, id)
}

// MarkSynced records a successful push or pull for an entity.
func (t *Tracker) MarkSynced(ctx context.Context, entityType string, entityID uint, externalID, hash string) error {
	_, err := t.repo.FindTracking(ctx, entityType, entityID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		now := time.Now()
		return t.repo.UpsertTracking(ctx, &model.SyncTracking{
			EntityType: entityType,
			EntityID:   entityID,
			ExternalID: &externalID,
			SyncStatus: model.SyncSynced,
			LastSync:   &now,
			SyncHash:   hash,
		})
	}
	if err != nil {
		return err
	}
	return t.repo.MarkSynced(ctx, entityType, entityID, externalID, hash)
}

func (t *Tracker) MarkFailed(ctx context.Context, entityType string, entityID uint) error {
	return t.repo.MarkStatus(ctx, entityType, entityID, model.SyncFailed)
}

func (t *Tracker) RecordHistory(ctx context.Context, h *model.SyncHistory) error {
	return t.repo.AppendHistory(ctx, h)
}

func (t *Tracker) History(ctx context.Context, limit int) ([]model.SyncHistory, error) {
	return t.repo.ListHistory(ctx, limit)
}

// RecordConflict stores both snapshots; a repeated conflict for the same
// entity overwrites the previous unresolved one.
func (t *Tracker) RecordConflict(ctx context.Context, entityType string, entityID uint, externalID *string, localData, remoteData string) error {
	return t.repo.UpsertConflict(ctx, &model.SyncConflict{
		EntityType: entityType,
		EntityID:   entityID,
		ExternalID: externalID,
		LocalData:  &localData,
		RemoteData: &remoteData,
	})
}

func (t *Tracker) OpenConflicts(ctx context.Context) ([]model.SyncConflict, error) {
	return t.repo.OpenConflicts(ctx)
}

func (t *Tracker) Stats(ctx context.Context) ([]repository.SyncStats, error) {
	return t.repo.Stats(ctx)
}

// Cursor reads a sync checkpoint such as the last product pull time.
func (t *Tracker) Cursor(ctx context.Context, key string) (*time.Time, error) {
	raw, err := t.repo.GetConfig(ctx, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, nil
	}
	return &ts, nil
}

func (t *Tracker) SetCursor(ctx context.Context, key string, ts time.Time) error {
	return t.repo.SetConfig(ctx, key, ts.UTC().Format(time.RFC3339))
}
