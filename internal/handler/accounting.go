package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/mrnobugz/PosApp-Api/internal/apierror"
	"github.com/mrnobugz/PosApp-Api/internal/dto"
	"github.com/mrnobugz/PosApp-Api/internal/model"
	"github.com/mrnobugz/PosApp-Api/internal/service"

	"github.com/gin-gonic/gin"
)

// AccountingHandler serves the chart of accounts, the journal, expenses and
// the financial reports.
type AccountingHandler struct {
	journal   service.JournalService
	expenses  service.ExpenseService
	dashboard service.DashboardService
}

func NewAccountingHandler(
	journal service.JournalService,
	expenses service.ExpenseService,
	dashboard service.DashboardService,
) *AccountingHandler {
	return &AccountingHandler{journal: journal, expenses: expenses, dashboard: dashboard}
}

func (h *AccountingHandler) ChartOfAccounts(c *gin.Context) {
	accounts, err := h.journal.ChartOfAccounts(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, accounts)
}

func (h *AccountingHandler) AccountsByType(c *gin.Context) {
	accounts, err := h.journal.AccountsByType(c.Request.Context(), model.AccountType(c.Param("type")))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, accounts)
}

func (h *AccountingHandler) JournalEntries(c *gin.Context) {
	limit := 100
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= 1000 {
			limit = v
		}
	}
	entries, err := h.journal.Entries(c.Request.Context(), limit)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *AccountingHandler) GeneralLedger(c *gin.Context) {
	limit := 100
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= 1000 {
			limit = v
		}
	}
	lines, err := h.journal.GeneralLedger(c.Request.Context(), limit)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, lines)
}

func (h *AccountingHandler) AddExpense(c *gin.Context) {
	var req dto.ExpenseRequest
	if !bindAndValidate(c, &req) {
		return
	}
	expense, err := h.expenses.AddExpense(c.Request.Context(), service.ExpenseInput{
		Description:    req.Description,
		Amount:         req.Amount,
		ExpenseAccount: req.ExpenseAccount,
		PaymentAccount: req.PaymentAccount,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, expense)
}

func (h *AccountingHandler) ListExpenses(c *gin.Context) {
	start, end, ok := dateRange(c)
	if !ok {
		return
	}
	expenses, err := h.expenses.ListExpenses(c.Request.Context(), start, end)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, expenses)
}

func (h *AccountingHandler) ProfitAndLoss(c *gin.Context) {
	start, end, ok := dateRange(c)
	if !ok {
		return
	}
	report, err := h.journal.ProfitAndLoss(c.Request.Context(), start, end)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *AccountingHandler) BalanceSheet(c *gin.Context) {
	_, end, ok := dateRange(c)
	if !ok {
		return
	}
	report, err := h.journal.BalanceSheet(c.Request.Context(), end)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *AccountingHandler) Dashboard(c *gin.Context) {
	stats, err := h.dashboard.Stats(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// dateRange binds the optional start/end report window. Writes the 400 itself.
func dateRange(c *gin.Context) (*time.Time, *time.Time, bool) {
	var filter dto.DateRangeFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return nil, nil, false
	}
	start, err := parseDate(filter.Start, false)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid start date"))
		return nil, nil, false
	}
	end, err := parseDate(filter.End, true)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid end date"))
		return nil, nil, false
	}
	return start, end, true
}
