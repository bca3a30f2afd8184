package service

import (
	"context"
	"errors"
	"time"

	"github.com/mrnobugz/PosApp-Api/internal/model"
	"github.com/mrnobugz/PosApp-Api/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ExpenseInput struct {
	Description    string
	Amount         decimal.Decimal
	ExpenseAccount string
	PaymentAccount string
}

type ExpenseService interface {
	AddExpense(ctx context.Context, in ExpenseInput) (*model.Expense, error)
	ListExpenses(ctx context.Context, start, end *time.Time) ([]model.Expense, error)
}

type expenseService struct {
	expenses repository.ExpenseRepository
	accounts repository.AccountRepository
	journal  JournalService
}

func NewExpenseService(
	expenses repository.ExpenseRepository,
	accounts repository.AccountRepository,
	journal JournalService,
) ExpenseService {
	return &expenseService{expenses: expenses, accounts: accounts, journal: journal}
}

// AddExpense records the expense row and its debit-expense/credit-payment
// posting in one transaction.
func (s *expenseService) AddExpense(ctx context.Context, in ExpenseInput) (*model.Expense, error) {
	if !in.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	var expense *model.Expense
	err := runTx(s.expenses.DB(), func(tx *gorm.DB) error {
		expenseAcc, err := s.accounts.FindByNameTx(tx, in.ExpenseAccount)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAccountNotFound
			}
			return err
		}
		paymentAcc, err := s.accounts.FindByNameTx(tx, in.PaymentAccount)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAccountNotFound
			}
			return err
		}
		expense = &model.Expense{
			Description:      in.Description,
			Amount:           in.Amount,
			ExpenseAccountID: expenseAcc.ID,
			PaymentAccountID: paymentAcc.ID,
			ExpenseDate:      time.Now(),
		}
		if err := s.expenses.CreateTx(tx, expense); err != nil {
			return err
		}
		ref := expense.ID
		return s.journal.PostEntry(tx, EntryInput{
			Description:   in.Description,
			DebitAccount:  in.ExpenseAccount,
			CreditAccount: in.PaymentAccount,
			Amount:        in.Amount,
			ReferenceID:   &ref,
			ReferenceType: model.RefExpense,
		})
	})
	if err != nil {
		return nil, err
	}
	return expense, nil
}

func (s *expenseService) ListExpenses(ctx context.Context, start, end *time.Time) ([]model.Expense, error) {
	return s.expenses.List(ctx, start, end)
}
