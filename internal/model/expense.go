package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is an operating expense paid out of an asset account.
type Expense struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	Description      string          `gorm:"not null" json:"description"`
	Amount           decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	ExpenseAccountID uint            `gorm:"not null" json:"expense_account_id"`
	PaymentAccountID uint            `gorm:"not null" json:"payment_account_id"`
	ExpenseDate      time.Time       `gorm:"index;not null" json:"expense_date"`

	ExpenseAccount *Account `gorm:"foreignKey:ExpenseAccountID" json:"expense_account,omitempty"`
	PaymentAccount *Account `gorm:"foreignKey:PaymentAccountID" json:"payment_account,omitempty"`
}
