package model

import "time"

// Entity types known to the sync layer.
const (
	EntityProduct  = "product"
	EntityCategory = "category"
	EntitySupplier = "supplier"
)

// Sync status lifecycle for a tracked entity.
const (
	SyncPending = "pending"
	SyncUpdated = "updated"
	SyncDeleted = "deleted"
	SyncSynced  = "synced"
	SyncFailed  = "failed"
)

// SyncTracking holds per-entity sync state: the remote counterpart's id, the
// current lifecycle status and a hash of the canonical local fields used for
// change detection. One row per (entity_type, entity_id).
type SyncTracking struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	EntityType string     `gorm:"type:varchar(20);not null;uniqueIndex:idx_sync_entity,priority:1" json:"entity_type"`
	EntityID   uint       `gorm:"not null;uniqueIndex:idx_sync_entity,priority:2" json:"entity_id"`
	ExternalID *string    `gorm:"index" json:"external_id"`
	SyncStatus string     `gorm:"type:varchar(10);not null;default:'pending'" json:"sync_status"`
	LastSync   *time.Time `json:"last_sync"`
	SyncHash   string     `json:"sync_hash"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (SyncTracking) TableName() string { return "sync_tracking" }

// SyncHistory is an append-only audit log of every sync action.
type SyncHistory struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SyncType   string    `gorm:"type:varchar(20);not null" json:"sync_type"` // pull | push | bidirectional
	EntityType string    `gorm:"type:varchar(20);not null" json:"entity_type"`
	EntityID   *uint     `json:"entity_id"`
	ExternalID *string   `json:"external_id"`
	Action     string    `gorm:"not null" json:"action"` // create | update | delete | sync_all
	Status     string    `gorm:"type:varchar(10);not null" json:"status"`
	Details    *string   `gorm:"type:text" json:"details"`
	CreatedAt  time.Time `json:"created_at"`
}

func (SyncHistory) TableName() string { return "sync_history" }

// SyncConflict stores local and remote snapshots when both sides changed
// since the last sync. At most one open conflict exists per entity; a new
// conflict overwrites any prior unresolved one.
type SyncConflict struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	EntityType string     `gorm:"type:varchar(20);not null;uniqueIndex:idx_conflict_entity,priority:1" json:"entity_type"`
	EntityID   uint       `gorm:"not null;uniqueIndex:idx_conflict_entity,priority:2" json:"entity_id"`
	ExternalID *string    `json:"external_id"`
	LocalData  *string    `gorm:"type:text" json:"local_data"`
	RemoteData *string    `gorm:"type:text" json:"remote_data"`
	Resolution *string    `gorm:"type:varchar(20)" json:"resolution"` // local_wins | remote_wins | manual
	ResolvedAt *time.Time `json:"resolved_at"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (SyncConflict) TableName() string { return "sync_conflicts" }

// SyncConfig is a small key/value store for sync cursors such as the
// last-pull timestamp per entity type.
type SyncConfig struct {
	Key       string    `gorm:"primaryKey" json:"key"`
	Value     string    `gorm:"not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (SyncConfig) TableName() string { return "sync_config" }
