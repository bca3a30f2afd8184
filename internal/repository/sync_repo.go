package repository

import (
	"context"
	"time"

	"github.com/mrnobugz/PosApp-Api/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PendingProduct is a product joined with its sync tracking row. Tracking
// fields are nil for never-tracked rows, which count as pending.
type PendingProduct struct {
	Product    model.Product `gorm:"embedded"`
	ExternalID *string
	SyncStatus *string
}

type PendingCategory struct {
	Category   model.Category `gorm:"embedded"`
	ExternalID *string
	SyncStatus *string
}

type PendingSupplier struct {
	Supplier   model.Supplier `gorm:"embedded"`
	ExternalID *string
	SyncStatus *string
}

// SyncStats is one (entity_type, sync_status) bucket of the tracking table.
type SyncStats struct {
	EntityType string
	SyncStatus string
	Count      int64
}

type SyncRepository interface {
	FindTracking(ctx context.Context, entityType string, entityID uint) (*model.SyncTracking, error)
	FindTrackingByExternalID(ctx context.Context, entityType, externalID string) (*model.SyncTracking, error)
	UpsertTracking(ctx context.Context, t *model.SyncTracking) error
	MarkStatus(ctx context.Context, entityType string, entityID uint, status string) error
	MarkSynced(ctx context.Context, entityType string, entityID uint, externalID, hash string) error
	DeleteTracking(ctx context.Context, entityType string, entityID uint) error

	DeletedTracking(ctx context.Context, entityType string) ([]model.SyncTracking, error)
	PendingProducts(ctx context.Context, limit int) ([]PendingProduct, error)
	PendingCategories(ctx context.Context, limit int) ([]PendingCategory, error)
	PendingSuppliers(ctx context.Context, limit int) ([]PendingSupplier, error)

	AppendHistory(ctx context.Context, h *model.SyncHistory) error
	ListHistory(ctx context.Context, limit int) ([]model.SyncHistory, error)

	UpsertConflict(ctx context.Context, c *model.SyncConflict) error
	OpenConflicts(ctx context.Context) ([]model.SyncConflict, error)
	FindConflict(ctx context.Context, id uint) (*model.SyncConflict, error)
	ResolveConflict(ctx context.Context, id uint, resolution string) error

	GetConfig(ctx context.Context, key string) (string, error)
	SetConfig(ctx context.Context, key, value string) error

	Stats(ctx context.Context) ([]SyncStats, error)
	DB() *gorm.DB
}

type syncRepo struct{ db *gorm.DB }

func NewSyncRepository(db *gorm.DB) SyncRepository { return &syncRepo{db: db} }

func (r *syncRepo) DB() *gorm.DB { return r.db }

func (r *syncRepo) FindTracking(ctx context.Context, entityType string, entityID uint) (*model.SyncTracking, error) {
	var t model.SyncTracking
	err := r.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		First(&t).Error
	return &t, err
}

func (r *syncRepo) FindTrackingByExternalID(ctx context.Context, entityType, externalID string) (*model.SyncTracking, error) {
	var t model.SyncTracking
	err := r.db.WithContext(ctx).
		Where("entity_type = ? AND external_id = ?", entityType, externalID).
		First(&t).Error
	return &t, err
}

func (r *syncRepo) UpsertTracking(ctx context.Context, t *model.SyncTracking) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "entity_type"}, {Name: "entity_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"external_id", "sync_status", "last_sync", "sync_hash", "updated_at",
		}),
	}).Create(t).Error
}

func (r *syncRepo) MarkStatus(ctx context.Context, entityType string, entityID uint, status string) error {
	return r.db.WithContext(ctx).Model(&model.SyncTracking{}).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Update("sync_status", status).Error
}

func (r *syncRepo) MarkSynced(ctx context.Context, entityType string, entityID uint, externalID, hash string) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&model.SyncTracking{}).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Updates(map[string]interface{}{
			"external_id": externalID,
			"sync_status": model.SyncSynced,
			"last_sync":   now,
			"sync_hash":   hash,
		}).Error
}

func (r *syncRepo) DeleteTracking(ctx context.Context, entityType string, entityID uint) error {
	return r.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Delete(&model.SyncTracking{}).Error
}

// DeletedTracking lists tombstones for entities removed locally. The local
// row is gone, so these cannot come back through the pending joins.
func (r *syncRepo) DeletedTracking(ctx context.Context, entityType string) ([]model.SyncTracking, error) {
	var rows []model.SyncTracking
	err := r.db.WithContext(ctx).
		Where("entity_type = ? AND sync_status = ?", entityType, model.SyncDeleted).
		Order("id").
		Find(&rows).Error
	return rows, err
}

const pendingStatuses = "'pending','updated','deleted'"

func (r *syncRepo) PendingProducts(ctx context.Context, limit int) ([]PendingProduct, error) {
	var rows []PendingProduct
	err := r.db.WithContext(ctx).
		Table("products p").
		Select("p.*, st.external_id, st.sync_status").
		Joins("LEFT JOIN sync_tracking st ON st.entity_type = ? AND st.entity_id = p.id", model.EntityProduct).
		Where("st.sync_status IN (" + pendingStatuses + ") OR st.sync_status IS NULL").
		Order("p.id").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *syncRepo) PendingCategories(ctx context.Context, limit int) ([]PendingCategory, error) {
	var rows []PendingCategory
	err := r.db.WithContext(ctx).
		Table("categories c").
		Select("c.*, st.external_id, st.sync_status").
		Joins("LEFT JOIN sync_tracking st ON st.entity_type = ? AND st.entity_id = c.id", model.EntityCategory).
		Where("st.sync_status IN (" + pendingStatuses + ") OR st.sync_status IS NULL").
		Order("c.id").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *syncRepo) PendingSuppliers(ctx context.Context, limit int) ([]PendingSupplier, error) {
	var rows []PendingSupplier
	err := r.db.WithContext(ctx).
		Table("suppliers s").
		Select("s.*, st.external_id, st.sync_status").
		Joins("LEFT JOIN sync_tracking st ON st.entity_type = ? AND st.entity_id = s.id", model.EntitySupplier).
		Where("st.sync_status IN (" + pendingStatuses + ") OR st.sync_status IS NULL").
		Order("s.id").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *syncRepo) AppendHistory(ctx context.Context, h *model.SyncHistory) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *syncRepo) ListHistory(ctx context.Context, limit int) ([]model.SyncHistory, error) {
	var history []model.SyncHistory
	err := r.db.WithContext(ctx).Order("id DESC").Limit(limit).Find(&history).Error
	return history, err
}

// UpsertConflict keeps at most one open conflict per entity, overwriting the
// snapshots when the same entity conflicts again before resolution.
func (r *syncRepo) UpsertConflict(ctx context.Context, c *model.SyncConflict) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "entity_type"}, {Name: "entity_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"external_id", "local_data", "remote_data", "resolution", "resolved_at",
		}),
	}).Create(c).Error
}

func (r *syncRepo) OpenConflicts(ctx context.Context) ([]model.SyncConflict, error) {
	var conflicts []model.SyncConflict
	err := r.db.WithContext(ctx).Where("resolution IS NULL").Order("id").Find(&conflicts).Error
	return conflicts, err
}

func (r *syncRepo) FindConflict(ctx context.Context, id uint) (*model.SyncConflict, error) {
	var c model.SyncConflict
	err := r.db.WithContext(ctx).First(&c, id).Error
	return &c, err
}

func (r *syncRepo) ResolveConflict(ctx context.Context, id uint, resolution string) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&model.SyncConflict{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"resolution": resolution, "resolved_at": now}).Error
}

func (r *syncRepo) GetConfig(ctx context.Context, key string) (string, error) {
	var cfg model.SyncConfig
	if err := r.db.WithContext(ctx).First(&cfg, "key = ?", key).Error; err != nil {
		return "", err
	}
	return cfg.Value, nil
}

func (r *syncRepo) SetConfig(ctx context.Context, key, value string) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&model.SyncConfig{Key: key, Value: value, UpdatedAt: time.Now()}).Error
}

func (r *syncRepo) Stats(ctx context.Context) ([]SyncStats, error) {
	var stats []SyncStats
	err := r.db.WithContext(ctx).Model(&model.SyncTracking{}).
		Select("entity_type, sync_status, COUNT(*) as count").
		Group("entity_type, sync_status").
		Scan(&stats).Error
	return stats, err
}
