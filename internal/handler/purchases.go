package handler

import (
	"net/http"

	"github.com/mrnobugz/PosApp-Api/internal/apierror"
	"github.com/mrnobugz/PosApp-Api/internal/dto"
	"github.com/mrnobugz/PosApp-Api/internal/service"

	"github.com/gin-gonic/gin"
)

type PurchasesHandler struct{ svc service.PurchaseService }

func NewPurchasesHandler(svc service.PurchaseService) *PurchasesHandler {
	return &PurchasesHandler{svc: svc}
}

func (h *PurchasesHandler) Record(c *gin.Context) {
	var req dto.RecordPurchaseRequest
	if !bindAndValidate(c, &req) {
		return
	}
	items := make([]service.PurchaseLine, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, service.PurchaseLine{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Cost:      it.Cost,
			NewPrice:  it.NewPrice,
		})
	}
	purchase, err := h.svc.RecordPurchase(c.Request.Context(), req.SupplierID, items)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, purchase)
}

func (h *PurchasesHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	purchase, err := h.svc.GetPurchase(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, purchase)
}

func (h *PurchasesHandler) List(c *gin.Context) {
	var filter dto.PurchaseFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	start, err := parseDate(filter.Start, false)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid start date"))
		return
	}
	end, err := parseDate(filter.End, true)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid end date"))
		return
	}
	purchases, err := h.svc.ListPurchases(c.Request.Context(), start, end, filter.SupplierID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, purchases)
}
