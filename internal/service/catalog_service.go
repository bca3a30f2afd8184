package service

import (
	"context"
	"errors"

	"github.com/mrnobugz/PosApp-Api/internal/model"
	"github.com/mrnobugz/PosApp-Api/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrDuplicateName    = errors.New("name already exists")
	ErrRecordInUse      = errors.New("record is referenced by other data")
)

// ChangeTracker receives local catalog mutations so the sync layer can queue
// them for the next push. Implemented by the sync tracker.
type ChangeTracker interface {
	ProductChanged(ctx context.Context, p *model.Product) error
	ProductDeleted(ctx context.Context, id uint) error
	CategoryChanged(ctx context.Context, c *model.Category) error
	CategoryDeleted(ctx context.Context, id uint) error
	SupplierChanged(ctx context.Context, s *model.Supplier) error
	SupplierDeleted(ctx context.Context, id uint) error
}

type ProductInput struct {
	Name              string
	Price             decimal.Decimal
	BuyingPrice       decimal.Decimal
	Stock             int
	CategoryID        *uint
	SKU               *string
	Description       *string
	Barcode           *string
	LowStockThreshold int
}

type SupplierInput struct {
	Name          string
	ContactPerson *string
	Phone         *string
}

type CustomerInput struct {
	Name        string
	Phone       *string
	Email       *string
	CreditLimit decimal.Decimal
}

type CatalogService interface {
	CreateProduct(ctx context.Context, in ProductInput) (*model.Product, error)
	UpdateProduct(ctx context.Context, id uint, in ProductInput) (*model.Product, error)
	DeleteProduct(ctx context.Context, id uint) error
	GetProduct(ctx context.Context, id uint) (*model.Product, error)
	GetProductByBarcode(ctx context.Context, barcode string) (*model.Product, error)
	ListProducts(ctx context.Context, search string, categoryID *uint) ([]model.Product, error)
	LowStockProducts(ctx context.Context) ([]model.Product, error)

	CreateCategory(ctx context.Context, name string) (*model.Category, error)
	UpdateCategory(ctx context.Context, id uint, name string) (*model.Category, error)
	DeleteCategory(ctx context.Context, id uint) error
	ListCategories(ctx context.Context) ([]model.Category, error)

	CreateSupplier(ctx context.Context, in SupplierInput) (*model.Supplier, error)
	UpdateSupplier(ctx context.Context, id uint, in SupplierInput) (*model.Supplier, error)
	DeleteSupplier(ctx context.Context, id uint) error
	ListSuppliers(ctx context.Context) ([]model.Supplier, error)

	CreateCustomer(ctx context.Context, in CustomerInput) (*model.Customer, error)
	UpdateCustomer(ctx context.Context, id uint, in CustomerInput) (*model.Customer, error)
	DeleteCustomer(ctx context.Context, id uint) error
	GetCustomer(ctx context.Context, id uint) (*model.Customer, error)
	ListCustomers(ctx context.Context, search string) ([]model.Customer, error)
}

type catalogService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	suppliers  repository.SupplierRepository
	customers  repository.CustomerRepository
	tracker    ChangeTracker
}

func NewCatalogService(
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	suppliers repository.SupplierRepository,
	customers repository.CustomerRepository,
	tracker ChangeTracker,
) CatalogService {
	return &catalogService{
		products:   products,
		categories: categories,
		suppliers:  suppliers,
		customers:  customers,
		tracker:    tracker,
	}
}

// track failures never fail the local write; the next full sync picks the
// entity up anyway.
func (s *catalogService) trackChange(err error, entity string, id uint) {
	if err != nil {
		log.Warn().Err(err).Str("entity", entity).Uint("id", id).Msg("sync tracking failed")
	}
}

func translateWriteErr(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateName
	}
	return err
}

func (s *catalogService) CreateProduct(ctx context.Context, in ProductInput) (*model.Product, error) {
	p := &model.Product{
		Name:              in.Name,
		Price:             in.Price,
		BuyingPrice:       in.BuyingPrice,
		Stock:             in.Stock,
		CategoryID:        in.CategoryID,
		SKU:               in.SKU,
		Description:       in.Description,
		Barcode:           in.Barcode,
		LowStockThreshold: in.LowStockThreshold,
	}
	if in.CategoryID != nil {
		if _, err := s.categories.FindByID(ctx, *in.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, err
		}
	}
	if err := s.products.Create(ctx, p); err != nil {
		return nil, translateWriteErr(err)
	}
	if s.tracker != nil {
		s.trackChange(s.tracker.ProductChanged(ctx, p), model.EntityProduct, p.ID)
	}
	return p, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, id uint, in ProductInput) (*model.Product, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	p.Name = in.Name
	p.Price = in.Price
	p.BuyingPrice = in.BuyingPrice
	p.Stock = in.Stock
	p.CategoryID = in.CategoryID
	p.SKU = in.SKU
	p.Description = in.Description
	p.Barcode = in.Barcode
	p.LowStockThreshold = in.LowStockThreshold
	if err := s.products.Update(ctx, p); err != nil {
		return nil, translateWriteErr(err)
	}
	if s.tracker != nil {
		s.trackChange(s.tracker.ProductChanged(ctx, p), model.EntityProduct, p.ID)
	}
	return p, nil
}

func (s *catalogService) DeleteProduct(ctx context.Context, id uint) error {
	used, err := s.products.ReferencedInSales(ctx, id)
	if err != nil {
		return err
	}
	if used {
		return ErrRecordInUse
	}
	n, err := s.products.Delete(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrProductNotFound
	}
	if s.tracker != nil {
		s.trackChange(s.tracker.ProductDeleted(ctx, id), model.EntityProduct, id)
	}
	return nil
}

func (s *catalogService) GetProduct(ctx context.Context, id uint) (*model.Product, error) {
	p, err := s.products.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	return p, err
}

func (s *catalogService) GetProductByBarcode(ctx context.Context, barcode string) (*model.Product, error) {
	p, err := s.products.FindByBarcode(ctx, barcode)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	return p, err
}

func (s *catalogService) ListProducts(ctx context.Context, search string, categoryID *uint) ([]model.Product, error) {
	return s.products.List(ctx, search, categoryID)
}

func (s *catalogService) LowStockProducts(ctx context.Context) ([]model.Product, error) {
	return s.products.LowStock(ctx)
}

func (s *catalogService) CreateCategory(ctx context.Context, name string) (*model.Category, error) {
	c := &model.Category{Name: name}
	if err := s.categories.Create(ctx, c); err != nil {
		return nil, translateWriteErr(err)
	}
	if s.tracker != nil {
		s.trackChange(s.tracker.CategoryChanged(ctx, c), model.EntityCategory, c.ID)
	}
	return c, nil
}

func (s *catalogService) UpdateCategory(ctx context.Context, id uint, name string) (*model.Category, error) {
	c, err := s.categories.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	c.Name = name
	if err := s.categories.Update(ctx, c); err != nil {
		return nil, translateWriteErr(err)
	}
	if s.tracker != nil {
		s.trackChange(s.tracker.CategoryChanged(ctx, c), model.EntityCategory, c.ID)
	}
	return c, nil
}

func (s *catalogService) DeleteCategory(ctx context.Context, id uint) error {
	used, err := s.categories.HasProducts(ctx, id)
	if err != nil {
		return err
	}
	if used {
		return ErrRecordInUse
	}
	n, err := s.categories.Delete(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCategoryNotFound
	}
	if s.tracker != nil {
		s.trackChange(s.tracker.CategoryDeleted(ctx, id), model.EntityCategory, id)
	}
	return nil
}

func (s *catalogService) ListCategories(ctx context.Context) ([]model.Category, error) {
	return s.categories.List(ctx)
}

func (s *catalogService) CreateSupplier(ctx context.Context, in SupplierInput) (*model.Supplier, error) {
	sup := &model.Supplier{Name: in.Name, ContactPerson: in.ContactPerson, Phone: in.Phone}
	if err := s.suppliers.Create(ctx, sup); err != nil {
		return nil, translateWriteErr(err)
	}
	if s.tracker != nil {
		s.trackChange(s.tracker.SupplierChanged(ctx, sup), model.EntitySupplier, sup.ID)
	}
	return sup, nil
}

func (s *catalogService) UpdateSupplier(ctx context.Context, id uint, in SupplierInput) (*model.Supplier, error) {
	sup, err := s.suppliers.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSupplierNotFound
		}
		return nil, err
	}
	sup.Name = in.Name
	sup.ContactPerson = in.ContactPerson
	sup.Phone = in.Phone
	if err := s.suppliers.Update(ctx, sup); err != nil {
		return nil, translateWriteErr(err)
	}
	if s.tracker != nil {
		s.trackChange(s.tracker.SupplierChanged(ctx, sup), model.EntitySupplier, sup.ID)
	}
	return sup, nil
}

func (s *catalogService) DeleteSupplier(ctx context.Context, id uint) error {
	used, err := s.suppliers.HasPurchases(ctx, id)
	if err != nil {
		return err
	}
	if used {
		return ErrRecordInUse
	}
	n, err := s.suppliers.Delete(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSupplierNotFound
	}
	if s.tracker != nil {
		s.trackChange(s.tracker.SupplierDeleted(ctx, id), model.EntitySupplier, id)
	}
	return nil
}

func (s *catalogService) ListSuppliers(ctx context.Context) ([]model.Supplier, error) {
	return s.suppliers.List(ctx)
}

func (s *catalogService) CreateCustomer(ctx context.Context, in CustomerInput) (*model.Customer, error) {
	c := &model.Customer{Name: in.Name, Phone: in.Phone, Email: in.Email, CreditLimit: in.CreditLimit}
	if err := s.customers.Create(ctx, c); err != nil {
		return nil, translateWriteErr(err)
	}
	return c, nil
}

func (s *catalogService) UpdateCustomer(ctx context.Context, id uint, in CustomerInput) (*model.Customer, error) {
	c, err := s.customers.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	c.Name = in.Name
	c.Phone = in.Phone
	c.Email = in.Email
	c.CreditLimit = in.CreditLimit
	if err := s.customers.Update(ctx, c); err != nil {
		return nil, translateWriteErr(err)
	}
	return c, nil
}

func (s *catalogService) DeleteCustomer(ctx context.Context, id uint) error {
	used, err := s.customers.HasSales(ctx, id)
	if err != nil {
		return err
	}
	if used {
		return ErrRecordInUse
	}
	n, err := s.customers.Delete(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCustomerNotFound
	}
	return nil
}

func (s *catalogService) GetCustomer(ctx context.Context, id uint) (*model.Customer, error) {
	c, err := s.customers.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCustomerNotFound
	}
	return c, err
}

func (s *catalogService) ListCustomers(ctx context.Context, search string) ([]model.Customer, error) {
	return s.customers.List(ctx, search)
}
