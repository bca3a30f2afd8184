package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mrnobugz/PosApp-Api/internal/model"
	"github.com/mrnobugz/PosApp-Api/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrEmptyCart    = errors.New("cart is empty")
	ErrSaleNotFound = errors.New("sale not found")
)

// paymentTolerance is the rounding slack when comparing paid totals against
// the sale total.
var paymentTolerance = decimal.NewFromFloat(0.01)

type CartItem struct {
	ProductID uint
	Quantity  int
	Price     decimal.Decimal
}

type PaymentInput struct {
	Method string
	Amount decimal.Decimal
}

type SaleInput struct {
	Items          []CartItem
	Payments       []PaymentInput
	DiscountAmount decimal.Decimal
	TaxRate        decimal.Decimal
	CustomerID     *uint
	DueDate        *time.Time
}

// CustomerBalance is one customer's outstanding credit position.
type CustomerBalance struct {
	CustomerID  uint            `json:"customer_id"`
	Name        string          `json:"name"`
	Total       decimal.Decimal `json:"total"`
	Paid        decimal.Decimal `json:"paid"`
	Outstanding decimal.Decimal `json:"outstanding"`
}

type SaleService interface {
	RecordSale(ctx context.Context, in SaleInput) (*model.Sale, error)
	AddPayment(ctx context.Context, saleID uint, in PaymentInput) (*model.Sale, error)
	DeleteSale(ctx context.Context, saleID uint) (bool, error)
	GetSale(ctx context.Context, saleID uint) (*model.Sale, error)
	ListSales(ctx context.Context, start, end *time.Time, customerID *uint) ([]model.Sale, error)
	CustomerBalances(ctx context.Context) ([]CustomerBalance, error)
}

type saleService struct {
	sales    repository.SaleRepository
	products repository.ProductRepository
	journal  JournalService
	jrepo    repository.JournalRepository
}

func NewSaleService(
	sales repository.SaleRepository,
	products repository.ProductRepository,
	journal JournalService,
	jrepo repository.JournalRepository,
) SaleService {
	return &saleService{sales: sales, products: products, journal: journal, jrepo: jrepo}
}

// RecordSale persists the sale, adjusts stock, and posts the revenue, tax,
// discount, payment and cost entries in one transaction. Sale totals are
// tax-inclusive; revenue and tax are back-calculated from the subtotal.
func (s *saleService) RecordSale(ctx context.Context, in SaleInput) (*model.Sale, error) {
	if len(in.Items) == 0 {
		return nil, ErrEmptyCart
	}
	subtotal := decimal.Zero
	for _, it := range in.Items {
		if it.Quantity <= 0 || !it.Price.IsPositive() {
			return nil, ErrInvalidAmount
		}
		subtotal = subtotal.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	finalTotal := subtotal.Sub(in.DiscountAmount)

	paid := decimal.Zero
	for _, p := range in.Payments {
		paid = paid.Add(p.Amount)
	}
	status := model.SalePaid
	if in.CustomerID != nil {
		switch {
		case finalTotal.Sub(paid).Abs().LessThan(paymentTolerance):
			status = model.SalePaid
		case paid.IsPositive():
			status = model.SalePartial
		default:
			status = model.SaleDue
		}
	}

	sale := &model.Sale{
		TotalAmount:    finalTotal,
		SaleDate:       time.Now(),
		DiscountAmount: in.DiscountAmount,
		TaxRate:        in.TaxRate,
		CustomerID:     in.CustomerID,
		Status:         status,
		DueDate:        in.DueDate,
	}

	err := runTx(s.sales.DB(), func(tx *gorm.DB) error {
		if err := s.sales.CreateTx(tx, sale); err != nil {
			return err
		}
		totalCOGS := decimal.Zero
		for _, it := range in.Items {
			product, err := s.products.FindByIDTx(tx, it.ProductID)
			if err != nil {
				return err
			}
			if err := s.sales.AddItemTx(tx, &model.SaleItem{
				SaleID:      sale.ID,
				ProductID:   it.ProductID,
				Quantity:    it.Quantity,
				PriceAtSale: it.Price,
			}); err != nil {
				return err
			}
			if err := s.products.AdjustStockTx(tx, it.ProductID, -it.Quantity); err != nil {
				return err
			}
			// Cost uses the current buying price, not the historical
			// cost at shelving time.
			totalCOGS = totalCOGS.Add(product.BuyingPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
		}
		for _, p := range in.Payments {
			if err := s.sales.AddPaymentTx(tx, &model.SalePayment{
				SaleID:        sale.ID,
				PaymentMethod: p.Method,
				Amount:        p.Amount,
			}); err != nil {
				return err
			}
		}

		ref := sale.ID
		desc := fmt.Sprintf("Sale #%d", sale.ID)
		grossRevenue := subtotal
		if in.TaxRate.IsPositive() {
			grossRevenue = subtotal.Div(decimal.NewFromInt(1).Add(in.TaxRate)).Round(2)
		}
		grossTax := subtotal.Sub(grossRevenue)

		if err := s.journal.PostEntry(tx, EntryInput{
			Description: desc, DebitAccount: AccReceivable, CreditAccount: AccSalesRevenue,
			Amount: grossRevenue, ReferenceID: &ref, ReferenceType: model.RefSale,
		}); err != nil {
			return err
		}
		if grossTax.IsPositive() {
			if err := s.journal.PostEntry(tx, EntryInput{
				Description: desc + " tax", DebitAccount: AccReceivable, CreditAccount: AccSalesTaxPayable,
				Amount: grossTax, ReferenceID: &ref, ReferenceType: model.RefSale,
			}); err != nil {
				return err
			}
		}
		if in.DiscountAmount.IsPositive() {
			if err := s.journal.PostEntry(tx, EntryInput{
				Description: desc + " discount", DebitAccount: AccSalesDiscounts, CreditAccount: AccReceivable,
				Amount: in.DiscountAmount, ReferenceID: &ref, ReferenceType: model.RefSale,
			}); err != nil {
				return err
			}
		}
		for _, p := range in.Payments {
			if err := s.journal.PostEntry(tx, EntryInput{
				Description: desc + " payment", DebitAccount: settlementAccount(p.Method), CreditAccount: AccReceivable,
				Amount: p.Amount, ReferenceID: &ref, ReferenceType: model.RefSale,
			}); err != nil {
				return err
			}
		}
		if totalCOGS.IsPositive() {
			if err := s.journal.PostEntry(tx, EntryInput{
				Description: desc + " cost", DebitAccount: AccCOGS, CreditAccount: AccInventory,
				Amount: totalCOGS, ReferenceID: &ref, ReferenceType: model.RefSale,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

// Payment methods arrive in whatever casing the till sends ("cash", "Cash").
func settlementAccount(method string) string {
	if strings.EqualFold(method, "cash") {
		return AccCash
	}
	return AccBank
}

// AddPayment appends a payment, recomputes the sale status against the stored
// total and posts the settlement entry.
func (s *saleService) AddPayment(ctx context.Context, saleID uint, in PaymentInput) (*model.Sale, error) {
	if !in.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	err := runTx(s.sales.DB(), func(tx *gorm.DB) error {
		sale, err := s.sales.FindByIDTx(tx, saleID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSaleNotFound
			}
			return err
		}
		if err := s.sales.AddPaymentTx(tx, &model.SalePayment{
			SaleID:        saleID,
			PaymentMethod: in.Method,
			Amount:        in.Amount,
		}); err != nil {
			return err
		}
		paid, err := s.sales.SumPaymentsTx(tx, saleID)
		if err != nil {
			return err
		}
		status := model.SalePartial
		if sale.TotalAmount.Sub(paid).Abs().LessThan(paymentTolerance) {
			status = model.SalePaid
		}
		if err := s.sales.UpdateStatusTx(tx, saleID, status); err != nil {
			return err
		}
		ref := saleID
		return s.journal.PostEntry(tx, EntryInput{
			Description:   fmt.Sprintf("Payment on sale #%d", saleID),
			DebitAccount:  settlementAccount(in.Method),
			CreditAccount: AccReceivable,
			Amount:        in.Amount,
			ReferenceID:   &ref,
			ReferenceType: model.RefSalePayment,
		})
	})
	if err != nil {
		return nil, err
	}
	return s.sales.FindByID(ctx, saleID)
}

// DeleteSale reverts stock, reverses every posting tagged to the sale and
// removes payments, items and the header in one transaction. A missing sale
// is reported as (false, nil), not an error.
func (s *saleService) DeleteSale(ctx context.Context, saleID uint) (bool, error) {
	found := false
	err := runTx(s.sales.DB(), func(tx *gorm.DB) error {
		if _, err := s.sales.FindByIDTx(tx, saleID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		items, err := s.sales.ItemsTx(tx, saleID)
		if err != nil {
			return err
		}
		for _, it := range items {
			if err := s.products.AdjustStockTx(tx, it.ProductID, it.Quantity); err != nil {
				return err
			}
		}
		if err := s.jrepo.DeleteByReferenceTx(tx, []string{model.RefSale, model.RefSalePayment}, saleID); err != nil {
			return err
		}
		n, err := s.sales.DeleteTx(tx, saleID)
		if err != nil {
			return err
		}
		found = n > 0
		return nil
	})
	return found, err
}

func (s *saleService) GetSale(ctx context.Context, saleID uint) (*model.Sale, error) {
	sale, err := s.sales.FindByID(ctx, saleID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSaleNotFound
	}
	return sale, err
}

func (s *saleService) ListSales(ctx context.Context, start, end *time.Time, customerID *uint) ([]model.Sale, error) {
	return s.sales.List(ctx, start, end, customerID)
}

// CustomerBalances summarizes outstanding Due/Partial sales per customer.
func (s *saleService) CustomerBalances(ctx context.Context) ([]CustomerBalance, error) {
	sales, err := s.sales.ListDue(ctx)
	if err != nil {
		return nil, err
	}
	byCustomer := map[uint]*CustomerBalance{}
	var order []uint
	for _, sale := range sales {
		if sale.CustomerID == nil {
			continue
		}
		cb, ok := byCustomer[*sale.CustomerID]
		if !ok {
			cb = &CustomerBalance{CustomerID: *sale.CustomerID, Name: sale.Customer.Name}
			byCustomer[*sale.CustomerID] = cb
			order = append(order, *sale.CustomerID)
		}
		paid := decimal.Zero
		for _, p := range sale.Payments {
			paid = paid.Add(p.Amount)
		}
		cb.Total = cb.Total.Add(sale.TotalAmount)
		cb.Paid = cb.Paid.Add(paid)
		cb.Outstanding = cb.Total.Sub(cb.Paid)
	}
	out := make([]CustomerBalance, 0, len(order))
	for _, id := range order {
		out = append(out, *byCustomer[id])
	}
	return out, nil
}
