package dto

import "github.com/shopspring/decimal"

type PurchaseItemRequest struct {
	ProductID uint            `json:"product_id" validate:"required"`
	Quantity  int             `json:"quantity" validate:"required,min=1"`
	Cost      decimal.Decimal `json:"cost" validate:"min=0"`
	NewPrice  decimal.Decimal `json:"new_price" validate:"required,gt=0"`
}

type RecordPurchaseRequest struct {
	SupplierID uint                  `json:"supplier_id" validate:"required"`
	Items      []PurchaseItemRequest `json:"items" validate:"required,min=1,dive"`
}

type PurchaseFilter struct {
	Start      string `form:"start"`
	End        string `form:"end"`
	SupplierID *uint  `form:"supplier_id"`
}
