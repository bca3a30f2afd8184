package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale status values.
const (
	SalePaid    = "Paid"
	SalePartial = "Partial"
	SaleDue     = "Due"
)

// Sale is the header of a recorded sale. TotalAmount is the final,
// tax-inclusive price after discount.
//
// TaxRate maps to the legacy "tax_amount" column which stores the RATE
// (e.g. 0.18), not a monetary amount. The column name is kept for
// compatibility with existing data; the field name avoids the unit confusion.
type Sale struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	SaleDate       time.Time       `gorm:"index;not null" json:"sale_date"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"discount_amount"`
	TaxRate        decimal.Decimal `gorm:"column:tax_amount;type:decimal(6,4);not null;default:0" json:"tax_rate"`
	CustomerID     *uint           `gorm:"index" json:"customer_id"`
	Status         string          `gorm:"type:varchar(10);not null;default:'Paid'" json:"status"`
	DueDate        *time.Time      `gorm:"type:date" json:"due_date"`

	Customer *Customer     `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Items    []SaleItem    `gorm:"foreignKey:SaleID" json:"items,omitempty"`
	Payments []SalePayment `gorm:"foreignKey:SaleID" json:"payments,omitempty"`
}

// SaleItem is one cart line, priced at the moment of sale.
type SaleItem struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	SaleID      uint            `gorm:"index;not null" json:"sale_id"`
	ProductID   uint            `gorm:"index;not null" json:"product_id"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	PriceAtSale decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price_at_sale"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// SalePayment records one payment against a sale, e.g. "Cash" or "Bank Transfer".
type SalePayment struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	SaleID        uint            `gorm:"index;not null" json:"sale_id"`
	PaymentMethod string          `gorm:"not null" json:"payment_method"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
}
