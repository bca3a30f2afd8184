package repository

import (
	"context"
	"time"

	"github.com/mrnobugz/PosApp-Api/internal/model"

	"gorm.io/gorm"
)

type PurchaseRepository interface {
	CreateTx(tx *gorm.DB, p *model.Purchase) error
	FindByID(ctx context.Context, id uint) (*model.Purchase, error)
	List(ctx context.Context, start, end *time.Time, supplierID *uint) ([]model.Purchase, error)
	DB() *gorm.DB
}

type purchaseRepo struct{ db *gorm.DB }

func NewPurchaseRepository(db *gorm.DB) PurchaseRepository { return &purchaseRepo{db: db} }

func (r *purchaseRepo) DB() *gorm.DB { return r.db }

func (r *purchaseRepo) CreateTx(tx *gorm.DB, p *model.Purchase) error {
	return tx.Create(p).Error
}

func (r *purchaseRepo) FindByID(ctx context.Context, id uint) (*model.Purchase, error) {
	var p model.Purchase
	err := r.db.WithContext(ctx).
		Preload("Supplier").
		Preload("Items.Product").
		First(&p, id).Error
	return &p, err
}

func (r *purchaseRepo) List(ctx context.Context, start, end *time.Time, supplierID *uint) ([]model.Purchase, error) {
	q := r.db.WithContext(ctx).Preload("Supplier").Order("purchase_date DESC, id DESC")
	if start != nil {
		q = q.Where("purchase_date >= ?", *start)
	}
	if end != nil {
		q = q.Where("purchase_date <= ?", *end)
	}
	if supplierID != nil {
		q = q.Where("supplier_id = ?", *supplierID)
	}
	var purchases []model.Purchase
	err := q.Find(&purchases).Error
	return purchases, err
}
