package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mrnobugz/PosApp-Api/internal/model"
	"github.com/mrnobugz/PosApp-Api/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Direction string

const (
	Pull          Direction = "pull"
	Push          Direction = "push"
	Bidirectional Direction = "bidirectional"
)

const productCursorKey = "last_product_sync"

// Conflict resolutions accepted by ResolveConflict.
const (
	ResolutionLocalWins  = "local_wins"
	ResolutionRemoteWins = "remote_wins"
	ResolutionManual     = "manual"
)

var ErrUnknownResolution = errors.New("unknown conflict resolution")

// Result summarizes one entity type's sync run. Success stays true even when
// individual items failed; callers inspect Errors for the item-level outcome.
type Result struct {
	EntityType string   `json:"entity_type"`
	Created    int      `json:"created"`
	Updated    int      `json:"updated"`
	Deleted    int      `json:"deleted"`
	Conflicts  int      `json:"conflicts"`
	Errors     []string `json:"errors,omitempty"`
	Success    bool     `json:"success"`
}

type Orchestrator struct {
	client     Client
	tracker    *Tracker
	repo       repository.SyncRepository
	products   repository.ProductRepository
	categories repository.CategoryRepository
	suppliers  repository.SupplierRepository
	dlq        *DeadLetterQueue
	batchSize  int
}

func NewOrchestrator(
	client Client,
	tracker *Tracker,
	repo repository.SyncRepository,
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	suppliers repository.SupplierRepository,
	dlq *DeadLetterQueue,
	batchSize int,
) *Orchestrator {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &Orchestrator{
		client:     client,
		tracker:    tracker,
		repo:       repo,
		products:   products,
		categories: categories,
		suppliers:  suppliers,
		dlq:        dlq,
		batchSize:  batchSize,
	}
}

// SyncAll runs categories, then suppliers, then products. Categories and
// suppliers are dependency-free; products may reference a category.
func (o *Orchestrator) SyncAll(ctx context.Context, dir Direction) []Result {
	results := []Result{
		o.SyncCategories(ctx, dir),
		o.SyncSuppliers(ctx, dir),
		o.SyncProducts(ctx, dir),
	}
	status := "success"
	for _, r := range results {
		if !r.Success || len(r.Errors) > 0 {
			status = "partial"
			break
		}
	}
	details, _ := json.Marshal(results)
	d := string(details)
	if err := o.tracker.RecordHistory(ctx, &model.SyncHistory{
		SyncType:   string(dir),
		EntityType: "all",
		Action:     "sync_all",
		Status:     status,
		Details:    &d,
	}); err != nil {
		log.Warn().Err(err).Msg("sync history write failed")
	}
	return results
}

func (o *Orchestrator) SyncCategories(ctx context.Context, dir Direction) Result {
	res := Result{EntityType: model.EntityCategory, Success: true}
	if dir == Pull || dir == Bidirectional {
		if err := o.pullCategories(ctx, &res); err != nil {
			res.Success = false
			res.Errors = append(res.Errors, err.Error())
		}
	}
	if dir == Push || dir == Bidirectional {
		if err := o.pushCategories(ctx, &res); err != nil {
			res.Success = false
			res.Errors = append(res.Errors, err.Error())
		}
	}
	return res
}

func (o *Orchestrator) SyncSuppliers(ctx context.Context, dir Direction) Result {
	res := Result{EntityType: model.EntitySupplier, Success: true}
	if dir == Pull || dir == Bidirectional {
		if err := o.pullSuppliers(ctx, &res); err != nil {
			res.Success = false
			res.Errors = append(res.Errors, err.Error())
		}
	}
	if dir == Push || dir == Bidirectional {
		if err := o.pushSuppliers(ctx, &res); err != nil {
			res.Success = false
			res.Errors = append(res.Errors, err.Error())
		}
	}
	return res
}

func (o *Orchestrator) SyncProducts(ctx context.Context, dir Direction) Result {
	res := Result{EntityType: model.EntityProduct, Success: true}
	if dir == Pull || dir == Bidirectional {
		if err := o.pullProducts(ctx, &res); err != nil {
			res.Success = false
			res.Errors = append(res.Errors, err.Error())
		}
	}
	if dir == Push || dir == Bidirectional {
		if err := o.pushProducts(ctx, &res); err != nil {
			res.Success = false
			res.Errors = append(res.Errors, err.Error())
		}
	}
	return res
}

// ── pull ──

func (o *Orchestrator) pullCategories(ctx context.Context, res *Result) error {
	remote, err := o.client.ListCategories(ctx)
	if err != nil {
		return err
	}
	for _, rc := range remote {
		local, err := o.categories.FindByName(ctx, rc.Name)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c := &model.Category{Name: rc.Name}
			if err := o.categories.Create(ctx, c); err != nil {
				res.Errors = append(res.Errors, fmt.Sprintf("category %q: %v", rc.Name, err))
				continue
			}
			if err := o.tracker.MarkSynced(ctx, model.EntityCategory, c.ID, rc.ID, CategoryHash(c)); err != nil {
				res.Errors = append(res.Errors, fmt.Sprintf("category %q: %v", rc.Name, err))
				continue
			}
			res.Created++
			continue
		}
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("category %q: %v", rc.Name, err))
			continue
		}
		if err := o.tracker.MarkSynced(ctx, model.EntityCategory, local.ID, rc.ID, CategoryHash(local)); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("category %q: %v", rc.Name, err))
		}
	}
	return nil
}

func (o *Orchestrator) pullSuppliers(ctx context.Context, res *Result) error {
	remote, err := o.client.ListSuppliers(ctx)
	if err != nil {
		return err
	}
	for _, rs := range remote {
		local, err := o.suppliers.FindByName(ctx, rs.Name)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s := &model.Supplier{Name: rs.Name, ContactPerson: rs.ContactPerson, Phone: rs.Phone}
			if err := o.suppliers.Create(ctx, s); err != nil {
				res.Errors = append(res.Errors, fmt.Sprintf("supplier %q: %v", rs.Name, err))
				continue
			}
			if err := o.tracker.MarkSynced(ctx, model.EntitySupplier, s.ID, rs.ID, SupplierHash(s)); err != nil {
				res.Errors = append(res.Errors, fmt.Sprintf("supplier %q: %v", rs.Name, err))
				continue
			}
			res.Created++
			continue
		}
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("supplier %q: %v", rs.Name, err))
			continue
		}
		incoming := *local
		incoming.ContactPerson = rs.ContactPerson
		incoming.Phone = rs.Phone
		if SupplierHash(&incoming) == SupplierHash(local) {
			// Unchanged payload; just keep the external-id mapping fresh.
			if err := o.tracker.MarkSynced(ctx, model.EntitySupplier, local.ID, rs.ID, SupplierHash(local)); err != nil {
				res.Errors = append(res.Errors, fmt.Sprintf("supplier %q: %v", rs.Name, err))
			}
			continue
		}
		local.ContactPerson = rs.ContactPerson
		local.Phone = rs.Phone
		if err := o.suppliers.Update(ctx, local); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("supplier %q: %v", rs.Name, err))
			continue
		}
		if err := o.tracker.MarkSynced(ctx, model.EntitySupplier, local.ID, rs.ID, SupplierHash(local)); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("supplier %q: %v", rs.Name, err))
			continue
		}
		res.Updated++
	}
	return nil
}

func (o *Orchestrator) pullProducts(ctx context.Context, res *Result) error {
	since, err := o.tracker.Cursor(ctx, productCursorKey)
	if err != nil {
		return err
	}
	remote, err := o.client.ListProducts(ctx, since)
	if err != nil {
		return err
	}
	for _, rp := range remote {
		if err := o.pullOneProduct(ctx, rp, res); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("product %q: %v", rp.Name, err))
		}
	}
	return o.tracker.SetCursor(ctx, productCursorKey, time.Now())
}

func (o *Orchestrator) pullOneProduct(ctx context.Context, rp RemoteProduct, res *Result) error {
	tracking, err := o.repo.FindTrackingByExternalID(ctx, model.EntityProduct, rp.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		p := &model.Product{LowStockThreshold: 10}
		applyRemoteProduct(p, rp)
		// Remote category names are not resolved to local category rows;
		// pulled products arrive uncategorized.
		if err := o.products.Create(ctx, p); err != nil {
			return err
		}
		if err := o.tracker.MarkSynced(ctx, model.EntityProduct, p.ID, rp.ID, ProductHash(p)); err != nil {
			return err
		}
		res.Created++
		return nil
	}
	if err != nil {
		return err
	}

	local, err := o.products.FindByID(ctx, tracking.EntityID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Deleted locally; the tombstone push will reconcile.
		return nil
	}
	if err != nil {
		return err
	}

	remoteCopy := *local
	applyRemoteProduct(&remoteCopy, rp)
	if ProductHash(&remoteCopy) == ProductHash(local) {
		// Identical payload; re-pulling it must not touch the row.
		return nil
	}
	if tracking.SyncStatus == model.SyncUpdated {
		localJSON, _ := json.Marshal(local)
		remoteJSON, _ := json.Marshal(rp)
		if err := o.tracker.RecordConflict(ctx, model.EntityProduct, local.ID, tracking.ExternalID, string(localJSON), string(remoteJSON)); err != nil {
			return err
		}
		res.Conflicts++
		return nil
	}

	applyRemoteProduct(local, rp)
	if err := o.products.Update(ctx, local); err != nil {
		return err
	}
	if err := o.tracker.MarkSynced(ctx, model.EntityProduct, local.ID, rp.ID, ProductHash(local)); err != nil {
		return err
	}
	res.Updated++
	return nil
}

func applyRemoteProduct(p *model.Product, rp RemoteProduct) {
	p.Name = rp.Name
	p.Price = decimal.NewFromFloat(rp.Price)
	p.Stock = rp.Stock
	p.SKU = rp.SKU
	p.Description = rp.Description
	p.Barcode = rp.Barcode
	p.BuyingPrice = decimal.NewFromFloat(rp.BuyingPrice)
	if rp.LowStockThreshold > 0 {
		p.LowStockThreshold = rp.LowStockThreshold
	}
}

// ── push ──

func (o *Orchestrator) pushDeleted(ctx context.Context, entityType string, res *Result, remove func(ctx context.Context, externalID string) error) error {
	tombstones, err := o.repo.DeletedTracking(ctx, entityType)
	if err != nil {
		return err
	}
	for _, t := range tombstones {
		if t.ExternalID == nil {
			if err := o.repo.DeleteTracking(ctx, t.EntityType, t.EntityID); err != nil {
				res.Errors = append(res.Errors, fmt.Sprintf("%s %d: %v", entityType, t.EntityID, err))
			}
			continue
		}
		if err := remove(ctx, *t.ExternalID); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("%s %d: %v", entityType, t.EntityID, err))
			o.deadLetter(ctx, entityType, t.EntityID, err)
			continue
		}
		if err := o.repo.DeleteTracking(ctx, t.EntityType, t.EntityID); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("%s %d: %v", entityType, t.EntityID, err))
			continue
		}
		res.Deleted++
	}
	return nil
}

func (o *Orchestrator) pushProducts(ctx context.Context, res *Result) error {
	if err := o.pushDeleted(ctx, model.EntityProduct, res, o.client.DeleteProduct); err != nil {
		return err
	}
	pending, err := o.repo.PendingProducts(ctx, o.batchSize)
	if err != nil {
		return err
	}
	for _, row := range pending {
		p := row.Product
		rp := RemoteProduct{
			Name:              p.Name,
			Price:             p.Price.InexactFloat64(),
			Stock:             p.Stock,
			SKU:               p.SKU,
			Description:       p.Description,
			Barcode:           p.Barcode,
			BuyingPrice:       p.BuyingPrice.InexactFloat64(),
			LowStockThreshold: p.LowStockThreshold,
		}
		if row.ExternalID != nil {
			if err := o.client.UpdateProduct(ctx, *row.ExternalID, rp); err != nil {
				o.pushItemFailed(ctx, model.EntityProduct, p.ID, err, res)
				continue
			}
			if err := o.tracker.MarkSynced(ctx, model.EntityProduct, p.ID, *row.ExternalID, ProductHash(&p)); err != nil {
				res.Errors = append(res.Errors, fmt.Sprintf("product %d: %v", p.ID, err))
				continue
			}
			res.Updated++
			continue
		}
		created, err := o.client.CreateProduct(ctx, rp)
		if err != nil {
			o.pushItemFailed(ctx, model.EntityProduct, p.ID, err, res)
			continue
		}
		if err := o.tracker.MarkSynced(ctx, model.EntityProduct, p.ID, created.ID, ProductHash(&p)); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("product %d: %v", p.ID, err))
			continue
		}
		res.Created++
	}
	return nil
}

func (o *Orchestrator) pushCategories(ctx context.Context, res *Result) error {
	if err := o.pushDeleted(ctx, model.EntityCategory, res, o.client.DeleteCategory); err != nil {
		return err
	}
	pending, err := o.repo.PendingCategories(ctx, o.batchSize)
	if err != nil {
		return err
	}
	for _, row := range pending {
		c := row.Category
		rc := RemoteCategory{Name: c.Name}
		if row.ExternalID != nil {
			if err := o.client.UpdateCategory(ctx, *row.ExternalID, rc); err != nil {
				o.pushItemFailed(ctx, model.EntityCategory, c.ID, err, res)
				continue
			}
			if err := o.tracker.MarkSynced(ctx, model.EntityCategory, c.ID, *row.ExternalID, CategoryHash(&c)); err != nil {
				res.Errors = append(res.Errors, fmt.Sprintf("category %d: %v", c.ID, err))
				continue
			}
			res.Updated++
			continue
		}
		created, err := o.client.CreateCategory(ctx, rc)
		if err != nil {
			o.pushItemFailed(ctx, model.EntityCategory, c.ID, err, res)
			continue
		}
		if err := o.tracker.MarkSynced(ctx, model.EntityCategory, c.ID, created.ID, CategoryHash(&c)); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("category %d: %v", c.ID, err))
			continue
		}
		res.Created++
	}
	return nil
}

func (o *Orchestrator) pushSuppliers(ctx context.Context, res *Result) error {
	if err := o.pushDeleted(ctx, model.EntitySupplier, res, o.client.DeleteSupplier); err != nil {
		return err
	}
	pending, err := o.repo.PendingSuppliers(ctx, o.batchSize)
	if err != nil {
		return err
	}
	for _, row := range pending {
		s := row.Supplier
		rs := RemoteSupplier{Name: s.Name, ContactPerson: s.ContactPerson, Phone: s.Phone}
		if row.ExternalID != nil {
			if err := o.client.UpdateSupplier(ctx, *row.ExternalID, rs); err != nil {
				o.pushItemFailed(ctx, model.EntitySupplier, s.ID, err, res)
				continue
			}
			if err := o.tracker.MarkSynced(ctx, model.EntitySupplier, s.ID, *row.ExternalID, SupplierHash(&s)); err != nil {
				res.Errors = append(res.Errors, fmt.Sprintf("supplier %d: %v", s.ID, err))
				continue
			}
			res.Updated++
			continue
		}
		created, err := o.client.CreateSupplier(ctx, rs)
		if err != nil {
			o.pushItemFailed(ctx, model.EntitySupplier, s.ID, err, res)
			continue
		}
		if err := o.tracker.MarkSynced(ctx, model.EntitySupplier, s.ID, created.ID, SupplierHash(&s)); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("supplier %d: %v", s.ID, err))
			continue
		}
		res.Created++
	}
	return nil
}

func (o *Orchestrator) pushItemFailed(ctx context.Context, entityType string, id uint, cause error, res *Result) {
	res.Errors = append(res.Errors, fmt.Sprintf("%s %d: %v", entityType, id, cause))
	if err := o.tracker.MarkFailed(ctx, entityType, id); err != nil {
		log.Warn().Err(err).Str("entity", entityType).Uint("id", id).Msg("mark failed")
	}
	o.deadLetter(ctx, entityType, id, cause)
}

func (o *Orchestrator) deadLetter(ctx context.Context, entityType string, id uint, cause error) {
	if o.dlq == nil {
		return
	}
	if err := o.dlq.Push(ctx, entityType, id, cause.Error()); err != nil {
		log.Warn().Err(err).Str("entity", entityType).Uint("id", id).Msg("dead letter push failed")
	}
}

// ── conflicts ──

// ResolveConflict closes an open conflict. local_wins re-queues the local
// copy for push; remote_wins applies the stored remote snapshot locally.
func (o *Orchestrator) ResolveConflict(ctx context.Context, conflictID uint, resolution string) error {
	conflict, err := o.repo.FindConflict(ctx, conflictID)
	if err != nil {
		return err
	}
	switch resolution {
	case ResolutionLocalWins:
		if err := o.repo.MarkStatus(ctx, conflict.EntityType, conflict.EntityID, model.SyncUpdated); err != nil {
			return err
		}
	case ResolutionRemoteWins:
		if err := o.applyRemoteSnapshot(ctx, conflict); err != nil {
			return err
		}
	case ResolutionManual:
		// Operator handled it out of band; just close the conflict.
	default:
		return ErrUnknownResolution
	}
	return o.repo.ResolveConflict(ctx, conflictID, resolution)
}

func (o *Orchestrator) applyRemoteSnapshot(ctx context.Context, conflict *model.SyncConflict) error {
	if conflict.EntityType != model.EntityProduct || conflict.RemoteData == nil {
		return nil
	}
	var rp RemoteProduct
	if err := json.Unmarshal([]byte(*conflict.RemoteData), &rp); err != nil {
		return err
	}
	local, err := o.products.FindByID(ctx, conflict.EntityID)
	if err != nil {
		return err
	}
	applyRemoteProduct(local, rp)
	if err := o.products.Update(ctx, local); err != nil {
		return err
	}
	externalID := ""
	if conflict.ExternalID != nil {
		externalID = *conflict.ExternalID
	}
	return o.tracker.MarkSynced(ctx, model.EntityProduct, local.ID, externalID, ProductHash(local))
}
