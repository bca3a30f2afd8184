package handler

import (
	"net/http"
	"time"

	"github.com/mrnobugz/PosApp-Api/internal/apierror"
	"github.com/mrnobugz/PosApp-Api/internal/dto"
	"github.com/mrnobugz/PosApp-Api/internal/service"

	"github.com/gin-gonic/gin"
)

type SalesHandler struct{ svc service.SaleService }

func NewSalesHandler(svc service.SaleService) *SalesHandler { return &SalesHandler{svc: svc} }

func (h *SalesHandler) Record(c *gin.Context) {
	var req dto.RecordSaleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	in := service.SaleInput{
		DiscountAmount: req.DiscountAmount,
		TaxRate:        req.TaxRate,
		CustomerID:     req.CustomerID,
	}
	for _, it := range req.Items {
		in.Items = append(in.Items, service.CartItem{ProductID: it.ProductID, Quantity: it.Quantity, Price: it.Price})
	}
	for _, p := range req.Payments {
		in.Payments = append(in.Payments, service.PaymentInput{Method: p.Method, Amount: p.Amount})
	}
	if req.DueDate != nil {
		due, err := time.Parse("2006-01-02", *req.DueDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("invalid due_date"))
			return
		}
		in.DueDate = &due
	}
	sale, err := h.svc.RecordSale(c.Request.Context(), in)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sale)
}

func (h *SalesHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	sale, err := h.svc.GetSale(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, sale)
}

func (h *SalesHandler) List(c *gin.Context) {
	var filter dto.SaleFilter
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
	sales, err := h.svc.ListSales(c.Request.Context(), start, end, filter.CustomerID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, sales)
}

func (h *SalesHandler) AddPayment(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req dto.PaymentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	sale, err := h.svc.AddPayment(c.Request.Context(), id, service.PaymentInput{Method: req.Method, Amount: req.Amount})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, sale)
}

func (h *SalesHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	found, err := h.svc.DeleteSale(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, apierror.New("sale not found"))
		return
	}
	c.Status(http.StatusNoContent)
}

// CustomerBalances reports outstanding credit positions.
func (h *SalesHandler) CustomerBalances(c *gin.Context) {
	balances, err := h.svc.CustomerBalances(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, balances)
}
