package repository

import (
	"context"
	"time"

	"github.com/mrnobugz/PosApp-Api/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type JournalRepository interface {
	CreateTx(tx *gorm.DB, e *model.JournalEntry) error
	SumDebits(ctx context.Context, accountIDs []uint, start, end *time.Time) (decimal.Decimal, error)
	SumCredits(ctx context.Context, accountIDs []uint, start, end *time.Time) (decimal.Decimal, error)
	DeleteByReferenceTx(tx *gorm.DB, refTypes []string, refID uint) error
	List(ctx context.Context, limit int) ([]model.JournalEntry, error)
}

type journalRepo struct{ db *gorm.DB }

func NewJournalRepository(db *gorm.DB) JournalRepository { return &journalRepo{db: db} }

func (r *journalRepo) CreateTx(tx *gorm.DB, e *model.JournalEntry) error {
	return tx.Create(e).Error
}

func (r *journalRepo) SumDebits(ctx context.Context, accountIDs []uint, start, end *time.Time) (decimal.Decimal, error) {
	return r.sumSide(ctx, "debit_account_id", accountIDs, start, end)
}

func (r *journalRepo) SumCredits(ctx context.Context, accountIDs []uint, start, end *time.Time) (decimal.Decimal, error) {
	return r.sumSide(ctx, "credit_account_id", accountIDs, start, end)
}

func (r *journalRepo) sumSide(ctx context.Context, column string, accountIDs []uint, start, end *time.Time) (decimal.Decimal, error) {
	q := r.db.WithContext(ctx).Model(&model.JournalEntry{}).Where(column+" IN ?", accountIDs)
	if start != nil {
		q = q.Where("date >= ?", *start)
	}
	if end != nil {
		q = q.Where("date <= ?", *end)
	}
	var sum decimal.NullDecimal
	if err := q.Select("SUM(amount)").Scan(&sum).Error; err != nil {
		return decimal.Zero, err
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal, nil
}

// DeleteByReferenceTx removes every posting tagged to one business transaction.
// Only used when the parent record itself is deleted in the same transaction.
func (r *journalRepo) DeleteByReferenceTx(tx *gorm.DB, refTypes []string, refID uint) error {
	return tx.Where("reference_type IN ? AND reference_id = ?", refTypes, refID).
		Delete(&model.JournalEntry{}).Error
}

func (r *journalRepo) List(ctx context.Context, limit int) ([]model.JournalEntry, error) {
	var entries []model.JournalEntry
	err := r.db.WithContext(ctx).
		Preload("DebitAccount").Preload("CreditAccount").
		Order("date DESC, id DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}
