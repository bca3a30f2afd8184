package service

import (
	"context"
	"time"

	"github.com/mrnobugz/PosApp-Api/internal/model"
	"github.com/mrnobugz/PosApp-Api/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

// stubAccountRepo serves a fixed chart of accounts from memory.
type stubAccountRepo struct {
	accounts []model.Account
}

func newStubAccountRepo() *stubAccountRepo {
	names := []struct {
		name string
		typ  model.AccountType
	}{
		{AccCash, model.AccountAsset},
		{AccBank, model.AccountAsset},
		{AccReceivable, model.AccountAsset},
		{AccInventory, model.AccountAsset},
		{AccPayable, model.AccountLiability},
		{AccSalesTaxPayable, model.AccountLiability},
		{AccOwnersEquity, model.AccountEquity},
		{AccRetainedEarning, model.AccountEquity},
		{AccSalesRevenue, model.AccountRevenue},
		{AccSalesDiscounts, model.AccountRevenue},
		{AccCOGS, model.AccountExpense},
		{"Rent", model.AccountExpense},
		{"Utilities", model.AccountExpense},
	}
	r := &stubAccountRepo{}
	for i, n := range names {
		r.accounts = append(r.accounts, model.Account{ID: uint(i + 1), Name: n.name, Type: n.typ})
	}
	return r
}

func (r *stubAccountRepo) find(name string) (*model.Account, error) {
	for i := range r.accounts {
		if r.accounts[i].Name == name {
			return &r.accounts[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubAccountRepo) FindByName(_ context.Context, name string) (*model.Account, error) {
	return r.find(name)
}

func (r *stubAccountRepo) FindByNameTx(_ *gorm.DB, name string) (*model.Account, error) {
	return r.find(name)
}

func (r *stubAccountRepo) FindByNames(_ context.Context, names []string) ([]model.Account, error) {
	var out []model.Account
	for _, n := range names {
		if a, err := r.find(n); err == nil {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *stubAccountRepo) ListByType(_ context.Context, accountType model.AccountType) ([]model.Account, error) {
	var out []model.Account
	for _, a := range r.accounts {
		if a.Type == accountType {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *stubAccountRepo) List(_ context.Context) ([]model.Account, error) {
	return r.accounts, nil
}

func (r *stubAccountRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.accounts)), nil
}

func (r *stubAccountRepo) CreateBatch(_ context.Context, accounts []model.Account) error {
	r.accounts = append(r.accounts, accounts...)
	return nil
}

var _ repository.AccountRepository = (*stubAccountRepo)(nil)

// stubJournalRepo collects postings in memory and sums them like the SQL does.
// accounts, when set, backs the DebitAccount/CreditAccount preloads in List.
type stubJournalRepo struct {
	entries  []model.JournalEntry
	nextID   uint
	accounts *stubAccountRepo
}

func newStubJournalRepo() *stubJournalRepo { return &stubJournalRepo{} }

func (r *stubJournalRepo) CreateTx(_ *gorm.DB, e *model.JournalEntry) error {
	r.nextID++
	e.ID = r.nextID
	r.entries = append(r.entries, *e)
	return nil
}

func (r *stubJournalRepo) sumSide(debit bool, accountIDs []uint, start, end *time.Time) decimal.Decimal {
	ids := map[uint]bool{}
	for _, id := range accountIDs {
		ids[id] = true
	}
	sum := decimal.Zero
	for _, e := range r.entries {
		if start != nil && e.Date.Before(*start) {
			continue
		}
		if end != nil && e.Date.After(*end) {
			continue
		}
		side := e.CreditAccountID
		if debit {
			side = e.DebitAccountID
		}
		if ids[side] {
			sum = sum.Add(e.Amount)
		}
	}
	return sum
}

func (r *stubJournalRepo) SumDebits(_ context.Context, accountIDs []uint, start, end *time.Time) (decimal.Decimal, error) {
	return r.sumSide(true, accountIDs, start, end), nil
}

func (r *stubJournalRepo) SumCredits(_ context.Context, accountIDs []uint, start, end *time.Time) (decimal.Decimal, error) {
	return r.sumSide(false, accountIDs, start, end), nil
}

func (r *stubJournalRepo) DeleteByReferenceTx(_ *gorm.DB, refTypes []string, refID uint) error {
	types := map[string]bool{}
	for _, t := range refTypes {
		types[t] = true
	}
	kept := r.entries[:0]
	for _, e := range r.entries {
		if e.ReferenceID != nil && *e.ReferenceID == refID && types[e.ReferenceType] {
			continue
		}
		kept = append(kept, e)
	}
	r.entries = kept
	return nil
}

func (r *stubJournalRepo) List(_ context.Context, limit int) ([]model.JournalEntry, error) {
	if limit > len(r.entries) {
		limit = len(r.entries)
	}
	out := make([]model.JournalEntry, limit)
	copy(out, r.entries[:limit])
	if r.accounts != nil {
		for i := range out {
			for j := range r.accounts.accounts {
				a := &r.accounts.accounts[j]
				if a.ID == out[i].DebitAccountID {
					out[i].DebitAccount = a
				}
				if a.ID == out[i].CreditAccountID {
					out[i].CreditAccount = a
				}
			}
		}
	}
	return out, nil
}

// byReference returns the postings tagged to one business transaction.
func (r *stubJournalRepo) byReference(refType string, refID uint) []model.JournalEntry {
	var out []model.JournalEntry
	for _, e := range r.entries {
		if e.ReferenceType == refType && e.ReferenceID != nil && *e.ReferenceID == refID {
			out = append(out, e)
		}
	}
	return out
}

var _ repository.JournalRepository = (*stubJournalRepo)(nil)

// stubProductRepo is an in-memory ProductRepository.
type stubProductRepo struct {
	products map[uint]*model.Product
	nextID   uint
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uint]*model.Product)}
}

func (r *stubProductRepo) add(p model.Product) *model.Product {
	if p.ID == 0 {
		r.nextID++
		p.ID = r.nextID
	} else if p.ID > r.nextID {
		r.nextID = p.ID
	}
	cp := p
	r.products[cp.ID] = &cp
	return &cp
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	stored := r.add(*p)
	p.ID = stored.ID
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uint) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductRepo) FindByIDTx(_ *gorm.DB, id uint) (*model.Product, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubProductRepo) FindByName(_ context.Context, name string) (*model.Product, error) {
	for _, p := range r.products {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductRepo) FindByBarcode(_ context.Context, barcode string) (*model.Product, error) {
	for _, p := range r.products {
		if p.Barcode != nil && *p.Barcode == barcode {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductRepo) List(_ context.Context, _ string, _ *uint) ([]model.Product, error) {
	var out []model.Product
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, nil
}

func (r *stubProductRepo) LowStock(_ context.Context) ([]model.Product, error) {
	var out []model.Product
	for _, p := range r.products {
		if p.Stock <= p.LowStockThreshold {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	if _, ok := r.products[p.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *stubProductRepo) Delete(_ context.Context, id uint) (int64, error) {
	if _, ok := r.products[id]; !ok {
		return 0, nil
	}
	delete(r.products, id)
	return 1, nil
}

func (r *stubProductRepo) AdjustStockTx(_ *gorm.DB, id uint, delta int) error {
	p, ok := r.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Stock += delta
	return nil
}

func (r *stubProductRepo) ApplyPurchaseTx(_ *gorm.DB, id uint, qty int, cost, newPrice decimal.Decimal) error {
	p, ok := r.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Stock += qty
	p.BuyingPrice = cost
	p.Price = newPrice
	return nil
}

func (r *stubProductRepo) ReferencedInSales(_ context.Context, _ uint) (bool, error) {
	return false, nil
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

var _ repository.ProductRepository = (*stubProductRepo)(nil)

// stubSaleRepo is an in-memory SaleRepository.
type stubSaleRepo struct {
	sales    map[uint]*model.Sale
	items    []model.SaleItem
	payments []model.SalePayment
	nextID   uint
}

func newStubSaleRepo() *stubSaleRepo {
	return &stubSaleRepo{sales: make(map[uint]*model.Sale)}
}

func (r *stubSaleRepo) CreateTx(_ *gorm.DB, s *model.Sale) error {
	r.nextID++
	s.ID = r.nextID
	cp := *s
	r.sales[s.ID] = &cp
	return nil
}

func (r *stubSaleRepo) FindByID(_ context.Context, id uint) (*model.Sale, error) {
	s, ok := r.sales[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := *s
	for _, it := range r.items {
		if it.SaleID == id {
			out.Items = append(out.Items, it)
		}
	}
	for _, p := range r.payments {
		if p.SaleID == id {
			out.Payments = append(out.Payments, p)
		}
	}
	return &out, nil
}

func (r *stubSaleRepo) FindByIDTx(_ *gorm.DB, id uint) (*model.Sale, error) {
	s, ok := r.sales[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubSaleRepo) List(_ context.Context, _, _ *time.Time, _ *uint) ([]model.Sale, error) {
	var out []model.Sale
	for _, s := range r.sales {
		out = append(out, *s)
	}
	return out, nil
}

func (r *stubSaleRepo) ListDue(_ context.Context) ([]model.Sale, error) {
	var out []model.Sale
	for id, s := range r.sales {
		if s.Status != model.SaleDue && s.Status != model.SalePartial {
			continue
		}
		full, _ := r.FindByID(context.Background(), id)
		out = append(out, *full)
	}
	return out, nil
}

func (r *stubSaleRepo) AddItemTx(_ *gorm.DB, item *model.SaleItem) error {
	item.ID = uint(len(r.items) + 1)
	r.items = append(r.items, *item)
	return nil
}

func (r *stubSaleRepo) AddPaymentTx(_ *gorm.DB, p *model.SalePayment) error {
	p.ID = uint(len(r.payments) + 1)
	r.payments = append(r.payments, *p)
	return nil
}

func (r *stubSaleRepo) SumPaymentsTx(_ *gorm.DB, saleID uint) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, p := range r.payments {
		if p.SaleID == saleID {
			sum = sum.Add(p.Amount)
		}
	}
	return sum, nil
}

func (r *stubSaleRepo) UpdateStatusTx(_ *gorm.DB, saleID uint, status string) error {
	s, ok := r.sales[saleID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.Status = status
	return nil
}

func (r *stubSaleRepo) ItemsTx(_ *gorm.DB, saleID uint) ([]model.SaleItem, error) {
	var out []model.SaleItem
	for _, it := range r.items {
		if it.SaleID == saleID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (r *stubSaleRepo) DeleteTx(_ *gorm.DB, saleID uint) (int64, error) {
	if _, ok := r.sales[saleID]; !ok {
		return 0, nil
	}
	delete(r.sales, saleID)
	kept := r.items[:0]
	for _, it := range r.items {
		if it.SaleID != saleID {
			kept = append(kept, it)
		}
	}
	r.items = kept
	keptP := r.payments[:0]
	for _, p := range r.payments {
		if p.SaleID != saleID {
			keptP = append(keptP, p)
		}
	}
	r.payments = keptP
	return 1, nil
}

func (r *stubSaleRepo) DB() *gorm.DB { return nil }

var _ repository.SaleRepository = (*stubSaleRepo)(nil)

// stubCategoryRepo is an in-memory CategoryRepository.
type stubCategoryRepo struct {
	categories map[uint]*model.Category
	inUse      map[uint]bool
	nextID     uint
}

func newStubCategoryRepo() *stubCategoryRepo {
	return &stubCategoryRepo{categories: make(map[uint]*model.Category), inUse: make(map[uint]bool)}
}

func (r *stubCategoryRepo) Create(_ context.Context, c *model.Category) error {
	for _, existing := range r.categories {
		if existing.Name == c.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	r.nextID++
	c.ID = r.nextID
	cp := *c
	r.categories[c.ID] = &cp
	return nil
}

func (r *stubCategoryRepo) FindByID(_ context.Context, id uint) (*model.Category, error) {
	c, ok := r.categories[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubCategoryRepo) FindByName(_ context.Context, name string) (*model.Category, error) {
	for _, c := range r.categories {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCategoryRepo) List(_ context.Context) ([]model.Category, error) {
	var out []model.Category
	for _, c := range r.categories {
		out = append(out, *c)
	}
	return out, nil
}

func (r *stubCategoryRepo) Update(_ context.Context, c *model.Category) error {
	if _, ok := r.categories[c.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *c
	r.categories[c.ID] = &cp
	return nil
}

func (r *stubCategoryRepo) Delete(_ context.Context, id uint) (int64, error) {
	if _, ok := r.categories[id]; !ok {
		return 0, nil
	}
	delete(r.categories, id)
	return 1, nil
}

func (r *stubCategoryRepo) HasProducts(_ context.Context, id uint) (bool, error) {
	return r.inUse[id], nil
}

var _ repository.CategoryRepository = (*stubCategoryRepo)(nil)

// stubSupplierRepo is an in-memory SupplierRepository.
type stubSupplierRepo struct {
	suppliers map[uint]*model.Supplier
	inUse     map[uint]bool
	nextID    uint
}

func newStubSupplierRepo() *stubSupplierRepo {
	return &stubSupplierRepo{suppliers: make(map[uint]*model.Supplier), inUse: make(map[uint]bool)}
}

func (r *stubSupplierRepo) Create(_ context.Context, s *model.Supplier) error {
	for _, existing := range r.suppliers {
		if existing.Name == s.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	r.nextID++
	s.ID = r.nextID
	cp := *s
	r.suppliers[s.ID] = &cp
	return nil
}

func (r *stubSupplierRepo) FindByID(_ context.Context, id uint) (*model.Supplier, error) {
	s, ok := r.suppliers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubSupplierRepo) FindByName(_ context.Context, name string) (*model.Supplier, error) {
	for _, s := range r.suppliers {
		if s.Name == name {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubSupplierRepo) List(_ context.Context) ([]model.Supplier, error) {
	var out []model.Supplier
	for _, s := range r.suppliers {
		out = append(out, *s)
	}
	return out, nil
}

func (r *stubSupplierRepo) Update(_ context.Context, s *model.Supplier) error {
	if _, ok := r.suppliers[s.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *s
	r.suppliers[s.ID] = &cp
	return nil
}

func (r *stubSupplierRepo) Delete(_ context.Context, id uint) (int64, error) {
	if _, ok := r.suppliers[id]; !ok {
		return 0, nil
	}
	delete(r.suppliers, id)
	return 1, nil
}

func (r *stubSupplierRepo) HasPurchases(_ context.Context, id uint) (bool, error) {
	return r.inUse[id], nil
}

var _ repository.SupplierRepository = (*stubSupplierRepo)(nil)

// stubCustomerRepo is an in-memory CustomerRepository.
type stubCustomerRepo struct {
	customers map[uint]*model.Customer
	inUse     map[uint]bool
	nextID    uint
}

func newStubCustomerRepo() *stubCustomerRepo {
	return &stubCustomerRepo{customers: make(map[uint]*model.Customer), inUse: make(map[uint]bool)}
}

func (r *stubCustomerRepo) Create(_ context.Context, c *model.Customer) error {
	for _, existing := range r.customers {
		if existing.Name == c.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	r.nextID++
	c.ID = r.nextID
	cp := *c
	r.customers[c.ID] = &cp
	return nil
}

func (r *stubCustomerRepo) FindByID(_ context.Context, id uint) (*model.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubCustomerRepo) List(_ context.Context, _ string) ([]model.Customer, error) {
	var out []model.Customer
	for _, c := range r.customers {
		out = append(out, *c)
	}
	return out, nil
}

func (r *stubCustomerRepo) Update(_ context.Context, c *model.Customer) error {
	if _, ok := r.customers[c.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *c
	r.customers[c.ID] = &cp
	return nil
}

func (r *stubCustomerRepo) Delete(_ context.Context, id uint) (int64, error) {
	if _, ok := r.customers[id]; !ok {
		return 0, nil
	}
	delete(r.customers, id)
	return 1, nil
}

func (r *stubCustomerRepo) HasSales(_ context.Context, id uint) (bool, error) {
	return r.inUse[id], nil
}

var _ repository.CustomerRepository = (*stubCustomerRepo)(nil)

// stubPurchaseRepo is an in-memory PurchaseRepository.
type stubPurchaseRepo struct {
	purchases map[uint]*model.Purchase
	nextID    uint
}

func newStubPurchaseRepo() *stubPurchaseRepo {
	return &stubPurchaseRepo{purchases: make(map[uint]*model.Purchase)}
}

func (r *stubPurchaseRepo) CreateTx(_ *gorm.DB, p *model.Purchase) error {
	r.nextID++
	p.ID = r.nextID
	cp := *p
	r.purchases[p.ID] = &cp
	return nil
}

func (r *stubPurchaseRepo) FindByID(_ context.Context, id uint) (*model.Purchase, error) {
	p, ok := r.purchases[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubPurchaseRepo) List(_ context.Context, _, _ *time.Time, _ *uint) ([]model.Purchase, error) {
	var out []model.Purchase
	for _, p := range r.purchases {
		out = append(out, *p)
	}
	return out, nil
}

func (r *stubPurchaseRepo) DB() *gorm.DB { return nil }

var _ repository.PurchaseRepository = (*stubPurchaseRepo)(nil)

// stubExpenseRepo is an in-memory ExpenseRepository.
type stubExpenseRepo struct {
	expenses []model.Expense
}

func (r *stubExpenseRepo) CreateTx(_ *gorm.DB, e *model.Expense) error {
	e.ID = uint(len(r.expenses) + 1)
	r.expenses = append(r.expenses, *e)
	return nil
}

func (r *stubExpenseRepo) List(_ context.Context, _, _ *time.Time) ([]model.Expense, error) {
	return r.expenses, nil
}

func (r *stubExpenseRepo) DB() *gorm.DB { return nil }

var _ repository.ExpenseRepository = (*stubExpenseRepo)(nil)

// stubUserRepo is an in-memory UserRepository.
type stubUserRepo struct {
	users map[string]*model.User
}

func newStubUserRepo() *stubUserRepo { return &stubUserRepo{users: make(map[string]*model.User)} }

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	if _, ok := r.users[u.Username]; ok {
		return gorm.ErrDuplicatedKey
	}
	u.ID = uint(len(r.users) + 1)
	cp := *u
	r.users[u.Username] = &cp
	return nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	u, ok := r.users[username]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

// recordingTracker captures catalog change notifications.
type recordingTracker struct {
	changed []string
	deleted []string
	fail    bool
}

func (r *recordingTracker) note(kind string, fail bool) error {
	if fail {
		return context.DeadlineExceeded
	}
	r.changed = append(r.changed, kind)
	return nil
}

func (r *recordingTracker) ProductChanged(_ context.Context, p *model.Product) error {
	return r.note("product", r.fail)
}

func (r *recordingTracker) ProductDeleted(_ context.Context, _ uint) error {
	r.deleted = append(r.deleted, "product")
	return nil
}

func (r *recordingTracker) CategoryChanged(_ context.Context, _ *model.Category) error {
	return r.note("category", r.fail)
}

func (r *recordingTracker) CategoryDeleted(_ context.Context, _ uint) error {
	r.deleted = append(r.deleted, "category")
	return nil
}

func (r *recordingTracker) SupplierChanged(_ context.Context, _ *model.Supplier) error {
	return r.note("supplier", r.fail)
}

func (r *recordingTracker) SupplierDeleted(_ context.Context, _ uint) error {
	r.deleted = append(r.deleted, "supplier")
	return nil
}

var _ ChangeTracker = (*recordingTracker)(nil)
