package dto

import "github.com/shopspring/decimal"

type SaleItemRequest struct {
	ProductID uint            `json:"product_id" validate:"required"`
	Quantity  int             `json:"quantity" validate:"required,min=1"`
	Price     decimal.Decimal `json:"price" validate:"required,gt=0"`
}

type PaymentRequest struct {
	Method string          `json:"method" validate:"required"`
	Amount decimal.Decimal `json:"amount" validate:"required,gt=0"`
}

type RecordSaleRequest struct {
	Items          []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
	Payments       []PaymentRequest  `json:"payments" validate:"dive"`
	DiscountAmount decimal.Decimal   `json:"discount_amount" validate:"min=0"`
	TaxRate        decimal.Decimal   `json:"tax_rate" validate:"min=0"`
	CustomerID     *uint             `json:"customer_id"`
	DueDate        *string           `json:"due_date"` // YYYY-MM-DD
}

type SaleFilter struct {
	Start      string `form:"start"` // YYYY-MM-DD
	End        string `form:"end"`
	CustomerID *uint  `form:"customer_id"`
}
