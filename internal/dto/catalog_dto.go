package dto

import "github.com/shopspring/decimal"

type ProductRequest struct {
	Name              string          `json:"name" validate:"required"`
	Price             decimal.Decimal `json:"price" validate:"required,gt=0"`
	BuyingPrice       decimal.Decimal `json:"buying_price" validate:"min=0"`
	Stock             int             `json:"stock" validate:"min=0"`
	CategoryID        *uint           `json:"category_id"`
	SKU               *string         `json:"sku"`
	Description       *string         `json:"description"`
	Barcode           *string         `json:"barcode"`
	LowStockThreshold int             `json:"low_stock_threshold" validate:"min=0"`
}

type CategoryRequest struct {
	Name string `json:"name" validate:"required"`
}

type SupplierRequest struct {
	Name          string  `json:"name" validate:"required"`
	ContactPerson *string `json:"contact_person"`
	Phone         *string `json:"phone"`
}

type CustomerRequest struct {
	Name        string          `json:"name" validate:"required"`
	Phone       *string         `json:"phone"`
	Email       *string         `json:"email" validate:"omitempty,email"`
	CreditLimit decimal.Decimal `json:"credit_limit" validate:"min=0"`
}
