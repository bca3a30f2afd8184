package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase is a stock replenishment from a supplier.
type Purchase struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	SupplierID   uint            `gorm:"index;not null" json:"supplier_id"`
	TotalCost    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_cost"`
	PurchaseDate time.Time       `gorm:"index;not null" json:"purchase_date"`

	Supplier *Supplier      `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	Items    []PurchaseItem `gorm:"foreignKey:PurchaseID" json:"items,omitempty"`
}

// PurchaseItem is one purchased line. Recording it also overwrites the
// product's selling and buying price with the values supplied on the line
// (last-purchase-wins pricing).
type PurchaseItem struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	PurchaseID     uint            `gorm:"index;not null" json:"purchase_id"`
	ProductID      uint            `gorm:"index;not null" json:"product_id"`
	Quantity       int             `gorm:"not null" json:"quantity"`
	CostAtPurchase decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"cost_at_purchase"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}
