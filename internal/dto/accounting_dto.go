package dto

import "github.com/shopspring/decimal"

type ExpenseRequest struct {
	Description    string          `json:"description" validate:"required"`
	Amount         decimal.Decimal `json:"amount" validate:"required,gt=0"`
	ExpenseAccount string          `json:"expense_account" validate:"required"`
	PaymentAccount string          `json:"payment_account" validate:"required"`
}

// DateRangeFilter bounds report queries; empty fields leave the window open.
type DateRangeFilter struct {
	Start string `form:"start"` // YYYY-MM-DD
	End   string `form:"end"`
}
