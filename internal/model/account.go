package model

// AccountType classifies an account in the chart of accounts and determines
// on which side (debit or credit) its normal balance sits.
type AccountType string

const (
	AccountAsset     AccountType = "Asset"
	AccountLiability AccountType = "Liability"
	AccountEquity    AccountType = "Equity"
	AccountRevenue   AccountType = "Revenue"
	AccountExpense   AccountType = "Expense"
)

// Account is one row of the chart of accounts. Accounts are referenced by
// name from the recording services and never deleted once journal entries
// point at them.
type Account struct {
	ID       uint        `gorm:"primaryKey" json:"id"`
	Name     string      `gorm:"uniqueIndex;not null" json:"name"`
	Type     AccountType `gorm:"type:varchar(20);not null" json:"type"`
	ParentID *uint       `gorm:"index" json:"parent_id"`

	Parent *Account `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
}

func (Account) TableName() string { return "chart_of_accounts" }
