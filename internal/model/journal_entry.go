package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Reference types tag a journal entry with the business event that produced it.
const (
	RefSale        = "sale"
	RefSalePayment = "sale_payment"
	RefPurchase    = "purchase"
	RefExpense     = "expense"
)

// JournalEntry is one balanced double-entry posting: the same amount is
// debited to one account and credited to another. Entries are immutable once
// written; the only mutation allowed is bulk deletion when the parent
// transaction is deleted.
type JournalEntry struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	Date            time.Time       `gorm:"index;not null" json:"date"`
	Description     string          `gorm:"not null" json:"description"`
	DebitAccountID  uint            `gorm:"index;not null" json:"debit_account_id"`
	CreditAccountID uint            `gorm:"index;not null" json:"credit_account_id"`
	Amount          decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	ReferenceID     *uint           `gorm:"index" json:"reference_id"`
	ReferenceType   string          `gorm:"type:varchar(20);index" json:"reference_type"`

	DebitAccount  *Account `gorm:"foreignKey:DebitAccountID" json:"debit_account,omitempty"`
	CreditAccount *Account `gorm:"foreignKey:CreditAccountID" json:"credit_account,omitempty"`
}
