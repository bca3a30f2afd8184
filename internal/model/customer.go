package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer can buy on credit; sales recorded against a customer may carry
// status Due or Partial until fully paid.
type Customer struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"uniqueIndex;not null" json:"name"`
	Phone       *string         `json:"phone"`
	Email       *string         `json:"email"`
	CreditLimit decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"credit_limit"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
