package repository

import (
	"context"
	"time"

	"github.com/mrnobugz/PosApp-Api/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SaleRepository interface {
	CreateTx(tx *gorm.DB, s *model.Sale) error
	FindByID(ctx context.Context, id uint) (*model.Sale, error)
	FindByIDTx(tx *gorm.DB, id uint) (*model.Sale, error)
	List(ctx context.Context, start, end *time.Time, customerID *uint) ([]model.Sale, error)
	ListDue(ctx context.Context) ([]model.Sale, error)
	AddItemTx(tx *gorm.DB, item *model.SaleItem) error
	AddPaymentTx(tx *gorm.DB, p *model.SalePayment) error
	SumPaymentsTx(tx *gorm.DB, saleID uint) (decimal.Decimal, error)
	UpdateStatusTx(tx *gorm.DB, saleID uint, status string) error
	ItemsTx(tx *gorm.DB, saleID uint) ([]model.SaleItem, error)
	DeleteTx(tx *gorm.DB, saleID uint) (int64, error)
	DB() *gorm.DB
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) DB() *gorm.DB { return r.db }

func (r *saleRepo) CreateTx(tx *gorm.DB, s *model.Sale) error {
	return tx.Create(s).Error
}

func (r *saleRepo) FindByID(ctx context.Context, id uint) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Items.Product").
		Preload("Payments").
		First(&s, id).Error
	return &s, err
}

func (r *saleRepo) FindByIDTx(tx *gorm.DB, id uint) (*model.Sale, error) {
	var s model.Sale
	err := tx.First(&s, id).Error
	return &s, err
}

func (r *saleRepo) List(ctx context.Context, start, end *time.Time, customerID *uint) ([]model.Sale, error) {
	q := r.db.WithContext(ctx).Preload("Customer").Preload("Payments").Order("sale_date DESC, id DESC")
	if start != nil {
		q = q.Where("sale_date >= ?", *start)
	}
	if end != nil {
		q = q.Where("sale_date <= ?", *end)
	}
	if customerID != nil {
		q = q.Where("customer_id = ?", *customerID)
	}
	var sales []model.Sale
	err := q.Find(&sales).Error
	return sales, err
}

func (r *saleRepo) ListDue(ctx context.Context) ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.WithContext(ctx).
		Preload("Customer").Preload("Payments").
		Where("status IN ?", []string{model.SaleDue, model.SalePartial}).
		Order("due_date NULLS LAST, sale_date").
		Find(&sales).Error
	return sales, err
}

func (r *saleRepo) AddItemTx(tx *gorm.DB, item *model.SaleItem) error {
	return tx.Create(item).Error
}

func (r *saleRepo) AddPaymentTx(tx *gorm.DB, p *model.SalePayment) error {
	return tx.Create(p).Error
}

func (r *saleRepo) SumPaymentsTx(tx *gorm.DB, saleID uint) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	err := tx.Model(&model.SalePayment{}).Where("sale_id = ?", saleID).
		Select("SUM(amount)").Scan(&sum).Error
	if err != nil || !sum.Valid {
		return decimal.Zero, err
	}
	return sum.Decimal, nil
}

func (r *saleRepo) UpdateStatusTx(tx *gorm.DB, saleID uint, status string) error {
	return tx.Model(&model.Sale{}).Where("id = ?", saleID).Update("status", status).Error
}

func (r *saleRepo) ItemsTx(tx *gorm.DB, saleID uint) ([]model.SaleItem, error) {
	var items []model.SaleItem
	err := tx.Where("sale_id = ?", saleID).Find(&items).Error
	return items, err
}

// DeleteTx removes payments, items and the sale header. Journal reversal and
// stock restoration are the caller's responsibility inside the same tx.
func (r *saleRepo) DeleteTx(tx *gorm.DB, saleID uint) (int64, error) {
	if err := tx.Where("sale_id = ?", saleID).Delete(&model.SalePayment{}).Error; err != nil {
		return 0, err
	}
	if err := tx.Where("sale_id = ?", saleID).Delete(&model.SaleItem{}).Error; err != nil {
		return 0, err
	}
	res := tx.Delete(&model.Sale{}, saleID)
	return res.RowsAffected, res.Error
}
