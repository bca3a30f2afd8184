package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mrnobugz/PosApp-Api/internal/model"
	"github.com/mrnobugz/PosApp-Api/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrEmptyPurchase    = errors.New("purchase has no items")
	ErrPurchaseNotFound = errors.New("purchase not found")
	ErrSupplierNotFound = errors.New("supplier not found")
)

type PurchaseLine struct {
	ProductID uint
	Quantity  int
	Cost      decimal.Decimal
	NewPrice  decimal.Decimal
}

type PurchaseService interface {
	RecordPurchase(ctx context.Context, supplierID uint, items []PurchaseLine) (*model.Purchase, error)
	GetPurchase(ctx context.Context, id uint) (*model.Purchase, error)
	ListPurchases(ctx context.Context, start, end *time.Time, supplierID *uint) ([]model.Purchase, error)
}

type purchaseService struct {
	purchases repository.PurchaseRepository
	products  repository.ProductRepository
	suppliers repository.SupplierRepository
	journal   JournalService
}

func NewPurchaseService(
	purchases repository.PurchaseRepository,
	products repository.ProductRepository,
	suppliers repository.SupplierRepository,
	journal JournalService,
) PurchaseService {
	return &purchaseService{purchases: purchases, products: products, suppliers: suppliers, journal: journal}
}

// RecordPurchase receives stock and reprices each product from its purchase
// line: buying price takes the unit cost and the selling price takes the
// supplied new price, last purchase wins. One Inventory/Accounts Payable
// posting covers the whole receipt.
func (s *purchaseService) RecordPurchase(ctx context.Context, supplierID uint, items []PurchaseLine) (*model.Purchase, error) {
	if len(items) == 0 {
		return nil, ErrEmptyPurchase
	}
	if _, err := s.suppliers.FindByID(ctx, supplierID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSupplierNotFound
		}
		return nil, err
	}
	totalCost := decimal.Zero
	for _, it := range items {
		if it.Quantity <= 0 || it.Cost.IsNegative() {
			return nil, ErrInvalidAmount
		}
		totalCost = totalCost.Add(it.Cost.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	purchase := &model.Purchase{
		SupplierID:   supplierID,
		TotalCost:    totalCost,
		PurchaseDate: time.Now(),
	}
	err := runTx(s.purchases.DB(), func(tx *gorm.DB) error {
		for _, it := range items {
			purchase.Items = append(purchase.Items, model.PurchaseItem{
				ProductID:      it.ProductID,
				Quantity:       it.Quantity,
				CostAtPurchase: it.Cost,
			})
		}
		if err := s.purchases.CreateTx(tx, purchase); err != nil {
			return err
		}
		for _, it := range items {
			if err := s.products.ApplyPurchaseTx(tx, it.ProductID, it.Quantity, it.Cost, it.NewPrice); err != nil {
				return err
			}
		}
		if !totalCost.IsPositive() {
			return nil
		}
		ref := purchase.ID
		return s.journal.PostEntry(tx, EntryInput{
			Description:   fmt.Sprintf("Purchase #%d", purchase.ID),
			DebitAccount:  AccInventory,
			CreditAccount: AccPayable,
			Amount:        totalCost,
			ReferenceID:   &ref,
			ReferenceType: model.RefPurchase,
		})
	})
	if err != nil {
		return nil, err
	}
	return purchase, nil
}

func (s *purchaseService) GetPurchase(ctx context.Context, id uint) (*model.Purchase, error) {
	p, err := s.purchases.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPurchaseNotFound
	}
	return p, err
}

func (s *purchaseService) ListPurchases(ctx context.Context, start, end *time.Time, supplierID *uint) ([]model.Purchase, error) {
	return s.purchases.List(ctx, start, end, supplierID)
}
