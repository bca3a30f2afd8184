package handler

import (
	"errors"
	"net/http"

	"github.com/mrnobugz/PosApp-Api/internal/apierror"
	"github.com/mrnobugz/PosApp-Api/internal/service"

	"github.com/gin-gonic/gin"
)

// writeServiceError maps known service errors to HTTP statuses; anything
// unknown goes through the error-handler middleware as a 500.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrCategoryNotFound),
		errors.Is(err, service.ErrSupplierNotFound),
		errors.Is(err, service.ErrCustomerNotFound),
		errors.Is(err, service.ErrSaleNotFound),
		errors.Is(err, service.ErrPurchaseNotFound),
		errors.Is(err, service.ErrAccountNotFound):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.Is(err, service.ErrDuplicateName),
		errors.Is(err, service.ErrRecordInUse),
		errors.Is(err, service.ErrUserExists):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrEmptyPurchase),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrSameAccount):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	default:
		c.Error(err)
	}
}
