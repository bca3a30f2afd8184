package handler

import (
	"net/http"
	"strconv"

	"github.com/mrnobugz/PosApp-Api/internal/apierror"
	"github.com/mrnobugz/PosApp-Api/internal/dto"
	"github.com/mrnobugz/PosApp-Api/internal/infra"
	"github.com/mrnobugz/PosApp-Api/internal/model"
	"github.com/mrnobugz/PosApp-Api/internal/sync"

	"github.com/gin-gonic/gin"
)

type SyncHandler struct {
	orch      *sync.Orchestrator
	tracker   *sync.Tracker
	scheduler *sync.Scheduler
	client    sync.Client
	breaker   *infra.CircuitBreaker
	dlq       *sync.DeadLetterQueue
}

func NewSyncHandler(
	orch *sync.Orchestrator,
	tracker *sync.Tracker,
	scheduler *sync.Scheduler,
	client sync.Client,
	breaker *infra.CircuitBreaker,
	dlq *sync.DeadLetterQueue,
) *SyncHandler {
	return &SyncHandler{
		orch:      orch,
		tracker:   tracker,
		scheduler: scheduler,
		client:    client,
		breaker:   breaker,
		dlq:       dlq,
	}
}

func (h *SyncHandler) Status(c *gin.Context) {
	stats, err := h.tracker.Stats(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	conflicts, err := h.tracker.OpenConflicts(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	remote := "reachable"
	if err := h.client.Health(c.Request.Context()); err != nil {
		remote = "unreachable"
	}
	c.JSON(http.StatusOK, gin.H{
		"tracking":          stats,
		"open_conflicts":    len(conflicts),
		"scheduler_running": h.scheduler.Running(),
		"circuit_breaker":   h.breaker.State().String(),
		"remote":            remote,
	})
}

// Run triggers one sync cycle for an entity type, or everything.
func (h *SyncHandler) Run(c *gin.Context) {
	var req dto.RunSyncRequest
	if !bindAndValidate(c, &req) {
		return
	}
	dir := sync.Direction(req.Direction)
	ctx := c.Request.Context()
	var results []sync.Result
	switch req.EntityType {
	case model.EntityProduct:
		results = []sync.Result{h.orch.SyncProducts(ctx, dir)}
	case model.EntityCategory:
		results = []sync.Result{h.orch.SyncCategories(ctx, dir)}
	case model.EntitySupplier:
		results = []sync.Result{h.orch.SyncSuppliers(ctx, dir)}
	default:
		results = h.orch.SyncAll(ctx, dir)
	}
	c.JSON(http.StatusOK, results)
}

func (h *SyncHandler) History(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= 500 {
			limit = v
		}
	}
	history, err := h.tracker.History(c.Request.Context(), limit)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, history)
}

func (h *SyncHandler) Conflicts(c *gin.Context) {
	conflicts, err := h.tracker.OpenConflicts(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, conflicts)
}

func (h *SyncHandler) ResolveConflict(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req dto.ResolveConflictRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.orch.ResolveConflict(c.Request.Context(), id, req.Resolution); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SyncHandler) StartScheduler(c *gin.Context) {
	h.scheduler.Start()
	c.JSON(http.StatusOK, gin.H{"running": true})
}

func (h *SyncHandler) StopScheduler(c *gin.Context) {
	h.scheduler.Stop()
	c.JSON(http.StatusOK, gin.H{"running": false})
}

// DeadLetters lists parked push failures for one entity type.
func (h *SyncHandler) DeadLetters(c *gin.Context) {
	entity := c.Param("entity")
	items, err := h.dlq.Items(c.Request.Context(), entity, 100)
	if err != nil {
		c.Error(err)
		return
	}
	depth, err := h.dlq.Depth(c.Request.Context(), entity)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"depth": depth, "items": items})
}
