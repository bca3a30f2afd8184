package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a sellable item. Stock is only ever mutated through sale and
// purchase recording, never written directly by the catalog endpoints.
type Product struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	Name              string          `gorm:"uniqueIndex;not null" json:"name"`
	Price             decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	BuyingPrice       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"buying_price"`
	Stock             int             `gorm:"not null;default:0" json:"stock"`
	CategoryID        *uint           `gorm:"index" json:"category_id"`
	SKU               *string         `gorm:"column:sku" json:"sku"`
	Description       *string         `json:"description"`
	Barcode           *string         `gorm:"uniqueIndex" json:"barcode"`
	LowStockThreshold int             `gorm:"not null;default:10" json:"low_stock_threshold"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
