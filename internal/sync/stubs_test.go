package sync

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/mrnobugz/PosApp-Api/internal/model"
	"github.com/mrnobugz/PosApp-Api/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

// memSyncRepo is an in-memory SyncRepository. The Pending* joins are emulated
// against the entity stubs wired in via the products/categories/suppliers
// fields.
type memSyncRepo struct {
	tracking   map[string]*model.SyncTracking
	history    []model.SyncHistory
	conflicts  map[string]*model.SyncConflict
	config     map[string]string
	nextID     uint
	products   *memProductRepo
	categories *memCategoryRepo
	suppliers  *memSupplierRepo
}

func newMemSyncRepo() *memSyncRepo {
	return &memSyncRepo{
		tracking:  make(map[string]*model.SyncTracking),
		conflicts: make(map[string]*model.SyncConflict),
		config:    make(map[string]string),
	}
}

func trackingKey(entityType string, entityID uint) string {
	return fmt.Sprintf("%s/%d", entityType, entityID)
}

func (r *memSyncRepo) FindTracking(_ context.Context, entityType string, entityID uint) (*model.SyncTracking, error) {
	t, ok := r.tracking[trackingKey(entityType, entityID)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *memSyncRepo) FindTrackingByExternalID(_ context.Context, entityType, externalID string) (*model.SyncTracking, error) {
	for _, t := range r.tracking {
		if t.EntityType == entityType && t.ExternalID != nil && *t.ExternalID == externalID {
			cp := *t
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memSyncRepo) UpsertTracking(_ context.Context, t *model.SyncTracking) error {
	key := trackingKey(t.EntityType, t.EntityID)
	if existing, ok := r.tracking[key]; ok {
		existing.ExternalID = t.ExternalID
		existing.SyncStatus = t.SyncStatus
		existing.LastSync = t.LastSync
		existing.SyncHash = t.SyncHash
		return nil
	}
	r.nextID++
	cp := *t
	cp.ID = r.nextID
	r.tracking[key] = &cp
	return nil
}

func (r *memSyncRepo) MarkStatus(_ context.Context, entityType string, entityID uint, status string) error {
	if t, ok := r.tracking[trackingKey(entityType, entityID)]; ok {
		t.SyncStatus = status
	}
	return nil
}

func (r *memSyncRepo) MarkSynced(_ context.Context, entityType string, entityID uint, externalID, hash string) error {
	t, ok := r.tracking[trackingKey(entityType, entityID)]
	if !ok {
		return nil
	}
	now := time.Now()
	t.ExternalID = &externalID
	t.SyncStatus = model.SyncSynced
	t.LastSync = &now
	t.SyncHash = hash
	return nil
}

func (r *memSyncRepo) DeleteTracking(_ context.Context, entityType string, entityID uint) error {
	delete(r.tracking, trackingKey(entityType, entityID))
	return nil
}

func (r *memSyncRepo) DeletedTracking(_ context.Context, entityType string) ([]model.SyncTracking, error) {
	var out []model.SyncTracking
	for _, t := range r.tracking {
		if t.EntityType == entityType && t.SyncStatus == model.SyncDeleted {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memSyncRepo) isPending(entityType string, entityID uint) (*model.SyncTracking, bool) {
	t, ok := r.tracking[trackingKey(entityType, entityID)]
	if !ok {
		return nil, true
	}
	switch t.SyncStatus {
	case model.SyncPending, model.SyncUpdated, model.SyncDeleted:
		return t, true
	}
	return nil, false
}

func (r *memSyncRepo) PendingProducts(_ context.Context, limit int) ([]repository.PendingProduct, error) {
	var out []repository.PendingProduct
	for _, p := range r.products.sorted() {
		if len(out) >= limit {
			break
		}
		t, pending := r.isPending(model.EntityProduct, p.ID)
		if !pending {
			continue
		}
		row := repository.PendingProduct{Product: *p}
		if t != nil {
			row.ExternalID = t.ExternalID
			row.SyncStatus = &t.SyncStatus
		}
		out = append(out, row)
	}
	return out, nil
}

func (r *memSyncRepo) PendingCategories(_ context.Context, limit int) ([]repository.PendingCategory, error) {
	var out []repository.PendingCategory
	for _, c := range r.categories.sorted() {
		if len(out) >= limit {
			break
		}
		t, pending := r.isPending(model.EntityCategory, c.ID)
		if !pending {
			continue
		}
		row := repository.PendingCategory{Category: *c}
		if t != nil {
			row.ExternalID = t.ExternalID
			row.SyncStatus = &t.SyncStatus
		}
		out = append(out, row)
	}
	return out, nil
}

func (r *memSyncRepo) PendingSuppliers(_ context.Context, limit int) ([]repository.PendingSupplier, error) {
	var out []repository.PendingSupplier
	for _, s := range r.suppliers.sorted() {
		if len(out) >= limit {
			break
		}
		t, pending := r.isPending(model.EntitySupplier, s.ID)
		if !pending {
			continue
		}
		row := repository.PendingSupplier{Supplier: *s}
		if t != nil {
			row.ExternalID = t.ExternalID
			row.SyncStatus = &t.SyncStatus
		}
		out = append(out, row)
	}
	return out, nil
}

func (r *memSyncRepo) AppendHistory(_ context.Context, h *model.SyncHistory) error {
	h.ID = uint(len(r.history) + 1)
	r.history = append(r.history, *h)
	return nil
}

func (r *memSyncRepo) ListHistory(_ context.Context, limit int) ([]model.SyncHistory, error) {
	if limit > len(r.history) {
		limit = len(r.history)
	}
	return r.history[len(r.history)-limit:], nil
}

func (r *memSyncRepo) UpsertConflict(_ context.Context, c *model.SyncConflict) error {
	key := trackingKey(c.EntityType, c.EntityID)
	if existing, ok := r.conflicts[key]; ok {
		existing.ExternalID = c.ExternalID
		existing.LocalData = c.LocalData
		existing.RemoteData = c.RemoteData
		existing.Resolution = nil
		existing.ResolvedAt = nil
		return nil
	}
	r.nextID++
	cp := *c
	cp.ID = r.nextID
	r.conflicts[key] = &cp
	return nil
}

func (r *memSyncRepo) OpenConflicts(_ context.Context) ([]model.SyncConflict, error) {
	var out []model.SyncConflict
	for _, c := range r.conflicts {
		if c.Resolution == nil {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memSyncRepo) FindConflict(_ context.Context, id uint) (*model.SyncConflict, error) {
	for _, c := range r.conflicts {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memSyncRepo) ResolveConflict(_ context.Context, id uint, resolution string) error {
	for _, c := range r.conflicts {
		if c.ID == id {
			now := time.Now()
			c.Resolution = &resolution
			c.ResolvedAt = &now
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *memSyncRepo) GetConfig(_ context.Context, key string) (string, error) {
	v, ok := r.config[key]
	if !ok {
		return "", gorm.ErrRecordNotFound
	}
	return v, nil
}

func (r *memSyncRepo) SetConfig(_ context.Context, key, value string) error {
	r.config[key] = value
	return nil
}

func (r *memSyncRepo) Stats(_ context.Context) ([]repository.SyncStats, error) {
	counts := map[string]*repository.SyncStats{}
	for _, t := range r.tracking {
		key := t.EntityType + "/" + t.SyncStatus
		if s, ok := counts[key]; ok {
			s.Count++
			continue
		}
		counts[key] = &repository.SyncStats{EntityType: t.EntityType, SyncStatus: t.SyncStatus, Count: 1}
	}
	var out []repository.SyncStats
	for _, s := range counts {
		out = append(out, *s)
	}
	return out, nil
}

func (r *memSyncRepo) DB() *gorm.DB { return nil }

var _ repository.SyncRepository = (*memSyncRepo)(nil)

// memProductRepo is an in-memory ProductRepository.
type memProductRepo struct {
	products map[uint]*model.Product
	nextID   uint
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{products: make(map[uint]*model.Product)}
}

func (r *memProductRepo) sorted() []*model.Product {
	var ids []uint
	for id := range r.products {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]*model.Product, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.products[id])
	}
	return out
}

func (r *memProductRepo) Create(_ context.Context, p *model.Product) error {
	r.nextID++
	p.ID = r.nextID
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *memProductRepo) FindByID(_ context.Context, id uint) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memProductRepo) FindByIDTx(_ *gorm.DB, id uint) (*model.Product, error) {
	return r.FindByID(context.Background(), id)
}

func (r *memProductRepo) FindByName(_ context.Context, name string) (*model.Product, error) {
	for _, p := range r.products {
		if p.Name == name {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memProductRepo) FindByBarcode(_ context.Context, barcode string) (*model.Product, error) {
	for _, p := range r.products {
		if p.Barcode != nil && *p.Barcode == barcode {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memProductRepo) List(_ context.Context, _ string, _ *uint) ([]model.Product, error) {
	var out []model.Product
	for _, p := range r.sorted() {
		out = append(out, *p)
	}
	return out, nil
}

func (r *memProductRepo) LowStock(_ context.Context) ([]model.Product, error) { return nil, nil }

func (r *memProductRepo) Update(_ context.Context, p *model.Product) error {
	if _, ok := r.products[p.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *memProductRepo) Delete(_ context.Context, id uint) (int64, error) {
	if _, ok := r.products[id]; !ok {
		return 0, nil
	}
	delete(r.products, id)
	return 1, nil
}

func (r *memProductRepo) AdjustStockTx(_ *gorm.DB, id uint, delta int) error {
	p, ok := r.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Stock += delta
	return nil
}

func (r *memProductRepo) ApplyPurchaseTx(_ *gorm.DB, id uint, qty int, cost, newPrice decimal.Decimal) error {
	p, ok := r.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Stock += qty
	p.BuyingPrice = cost
	p.Price = newPrice
	return nil
}

func (r *memProductRepo) ReferencedInSales(_ context.Context, _ uint) (bool, error) {
	return false, nil
}

func (r *memProductRepo) DB() *gorm.DB { return nil }

var _ repository.ProductRepository = (*memProductRepo)(nil)

// memCategoryRepo is an in-memory CategoryRepository.
type memCategoryRepo struct {
	categories map[uint]*model.Category
	nextID     uint
}

func newMemCategoryRepo() *memCategoryRepo {
	return &memCategoryRepo{categories: make(map[uint]*model.Category)}
}

func (r *memCategoryRepo) sorted() []*model.Category {
	var ids []uint
	for id := range r.categories {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]*model.Category, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.categories[id])
	}
	return out
}

func (r *memCategoryRepo) Create(_ context.Context, c *model.Category) error {
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

func (r *memCategoryRepo) FindByID(_ context.Context, id uint) (*model.Category, error) {
	c, ok := r.categories[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *memCategoryRepo) FindByName(_ context.Context, name string) (*model.Category, error) {
	for _, c := range r.categories {
		if c.Name == name {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memCategoryRepo) List(_ context.Context) ([]model.Category, error) {
	var out []model.Category
	for _, c := range r.sorted() {
		out = append(out, *c)
	}
	return out, nil
}

func (r *memCategoryRepo) Update(_ context.Context, c *model.Category) error {
	if _, ok := r.categories[c.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *c
	r.categories[c.ID] = &cp
	return nil
}

func (r *memCategoryRepo) Delete(_ context.Context, id uint) (int64, error) {
	if _, ok := r.categories[id]; !ok {
		return 0, nil
	}
	delete(r.categories, id)
	return 1, nil
}

func (r *memCategoryRepo) HasProducts(_ context.Context, _ uint) (bool, error) { return false, nil }

var _ repository.CategoryRepository = (*memCategoryRepo)(nil)

// memSupplierRepo is an in-memory SupplierRepository.
type memSupplierRepo struct {
	suppliers map[uint]*model.Supplier
	nextID    uint
}

func newMemSupplierRepo() *memSupplierRepo {
	return &memSupplierRepo{suppliers: make(map[uint]*model.Supplier)}
}

func (r *memSupplierRepo) sorted() []*model.Supplier {
	var ids []uint
	for id := range r.suppliers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]*model.Supplier, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.suppliers[id])
	}
	return out
}

func (r *memSupplierRepo) Create(_ context.Context, s *model.Supplier) error {
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

func (r *memSupplierRepo) FindByID(_ context.Context, id uint) (*model.Supplier, error) {
	s, ok := r.suppliers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *memSupplierRepo) FindByName(_ context.Context, name string) (*model.Supplier, error) {
	for _, s := range r.suppliers {
		if s.Name == name {
			cp := *s
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memSupplierRepo) List(_ context.Context) ([]model.Supplier, error) {
	var out []model.Supplier
	for _, s := range r.sorted() {
		out = append(out, *s)
	}
	return out, nil
}

func (r *memSupplierRepo) Update(_ context.Context, s *model.Supplier) error {
	if _, ok := r.suppliers[s.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *s
	r.suppliers[s.ID] = &cp
	return nil
}

func (r *memSupplierRepo) Delete(_ context.Context, id uint) (int64, error) {
	if _, ok := r.suppliers[id]; !ok {
		return 0, nil
	}
	delete(r.suppliers, id)
	return 1, nil
}

func (r *memSupplierRepo) HasPurchases(_ context.Context, _ uint) (bool, error) { return false, nil }

var _ repository.SupplierRepository = (*memSupplierRepo)(nil)

// fakeClient is a scripted commerce API client. failNames makes create and
// update calls for entities with those names fail; listErr fails every list.
type fakeClient struct {
	remoteProducts   []RemoteProduct
	remoteCategories []RemoteCategory
	remoteSuppliers  []RemoteSupplier

	created    []string
	updated    []string
	deletedIDs []string

	failNames  map[string]bool
	failIDs    map[string]bool
	listErr    error
	healthErr  error
	createdSeq int
}

func newFakeClient() *fakeClient {
	return &fakeClient{failNames: make(map[string]bool), failIDs: make(map[string]bool)}
}

func (c *fakeClient) Health(_ context.Context) error { return c.healthErr }

func (c *fakeClient) nextID(prefix string) string {
	c.createdSeq++
	return fmt.Sprintf("%s-%d", prefix, c.createdSeq)
}

func (c *fakeClient) ListProducts(_ context.Context, _ *time.Time) ([]RemoteProduct, error) {
	return c.remoteProducts, c.listErr
}

func (c *fakeClient) CreateProduct(_ context.Context, p RemoteProduct) (*RemoteProduct, error) {
	if c.failNames[p.Name] {
		return nil, fmt.Errorf("remote rejected product %q", p.Name)
	}
	p.ID = c.nextID("rp")
	c.created = append(c.created, p.Name)
	return &p, nil
}

func (c *fakeClient) UpdateProduct(_ context.Context, id string, p RemoteProduct) error {
	if c.failNames[p.Name] || c.failIDs[id] {
		return fmt.Errorf("remote rejected product %q", p.Name)
	}
	c.updated = append(c.updated, p.Name)
	return nil
}

func (c *fakeClient) DeleteProduct(_ context.Context, id string) error {
	if c.failIDs[id] {
		return fmt.Errorf("remote rejected delete of %q", id)
	}
	c.deletedIDs = append(c.deletedIDs, id)
	return nil
}

func (c *fakeClient) ListCategories(_ context.Context) ([]RemoteCategory, error) {
	return c.remoteCategories, c.listErr
}

func (c *fakeClient) CreateCategory(_ context.Context, cat RemoteCategory) (*RemoteCategory, error) {
	if c.failNames[cat.Name] {
		return nil, fmt.Errorf("remote rejected category %q", cat.Name)
	}
	cat.ID = c.nextID("rc")
	c.created = append(c.created, cat.Name)
	return &cat, nil
}

func (c *fakeClient) UpdateCategory(_ context.Context, id string, cat RemoteCategory) error {
	if c.failNames[cat.Name] || c.failIDs[id] {
		return fmt.Errorf("remote rejected category %q", cat.Name)
	}
	c.updated = append(c.updated, cat.Name)
	return nil
}

func (c *fakeClient) DeleteCategory(_ context.Context, id string) error {
	if c.failIDs[id] {
		return fmt.Errorf("remote rejected delete of %q", id)
	}
	c.deletedIDs = append(c.deletedIDs, id)
	return nil
}

func (c *fakeClient) ListSuppliers(_ context.Context) ([]RemoteSupplier, error) {
	return c.remoteSuppliers, c.listErr
}

func (c *fakeClient) CreateSupplier(_ context.Context, s RemoteSupplier) (*RemoteSupplier, error) {
	if c.failNames[s.Name] {
		return nil, fmt.Errorf("remote rejected supplier %q", s.Name)
	}
	s.ID = c.nextID("rs")
	c.created = append(c.created, s.Name)
	return &s, nil
}

func (c *fakeClient) UpdateSupplier(_ context.Context, id string, s RemoteSupplier) error {
	if c.failNames[s.Name] || c.failIDs[id] {
		return fmt.Errorf("remote rejected supplier %q", s.Name)
	}
	c.updated = append(c.updated, s.Name)
	return nil
}

func (c *fakeClient) DeleteSupplier(_ context.Context, id string) error {
	if c.failIDs[id] {
		return fmt.Errorf("remote rejected delete of %q", id)
	}
	c.deletedIDs = append(c.deletedIDs, id)
	return nil
}

func (c *fakeClient) CreateSale(_ context.Context, _ RemoteSale) error { return nil }

func (c *fakeClient) CreatePurchase(_ context.Context, _ RemotePurchase) error { return nil }

var _ Client = (*fakeClient)(nil)
