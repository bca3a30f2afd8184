package repository

import (
	"context"
	"time"

	"github.com/mrnobugz/PosApp-Api/internal/model"

	"gorm.io/gorm"
)

type ExpenseRepository interface {
	CreateTx(tx *gorm.DB, e *model.Expense) error
	List(ctx context.Context, start, end *time.Time) ([]model.Expense, error)
	DB() *gorm.DB
}

type expenseRepo struct{ db *gorm.DB }

func NewExpenseRepository(db *gorm.DB) ExpenseRepository { return &expenseRepo{db: db} }

func (r *expenseRepo) DB() *gorm.DB { return r.db }

func (r *expenseRepo) CreateTx(tx *gorm.DB, e *model.Expense) error {
	return tx.Create(e).Error
}

func (r *expenseRepo) List(ctx context.Context, start, end *time.Time) ([]model.Expense, error) {
	q := r.db.WithContext(ctx).
		Preload("ExpenseAccount").Preload("PaymentAccount").
		Order("expense_date DESC, id DESC")
	if start != nil {
		q = q.Where("expense_date >= ?", *start)
	}
	if end != nil {
		q = q.Where("expense_date <= ?", *end)
	}
	var expenses []model.Expense
	err := q.Find(&expenses).Error
	return expenses, err
}
