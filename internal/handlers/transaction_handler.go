package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "pennyplan/internal/errors"
	"pennyplan/internal/models"
	"pennyplan/internal/pagination"
	"pennyplan/internal/services"
)

// TransactionHandler handles transaction-related requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// CreateTransactionRequest represents the request payload for creating a
// transaction. The amount is sent as amount_cents or as a major-unit
// amount. Date accepts YYYY-MM-DD or RFC3339 and defaults to now.
type CreateTransactionRequest struct {
	PeriodID    string           `json:"period_id" binding:"required,uuid"`
	CategoryID  string           `json:"category_id" binding:"required,uuid"`
	Type        models.EntryType `json:"type" binding:"required,entry_type"`
	AmountCents *int64           `json:"amount_cents" binding:"omitempty,gt=0"`
	Amount      *MajorAmount     `json:"amount"`
	Date        string           `json:"date"`
	Notes       string           `json:"notes" binding:"max=500"`
	LiabilityID *string          `json:"liability_id" binding:"omitempty,uuid"`
}

// UpdateTransactionRequest is a partial update; omitted fields are left
// unchanged.
type UpdateTransactionRequest struct {
	PeriodID    *string           `json:"period_id" binding:"omitempty,uuid"`
	CategoryID  *string           `json:"category_id" binding:"omitempty,uuid"`
	Type        *models.EntryType `json:"type" binding:"omitempty,entry_type"`
	AmountCents *int64            `json:"amount_cents" binding:"omitempty,gt=0"`
	Amount      *MajorAmount      `json:"amount"`
	Date        *string           `json:"date"`
	Notes       *string           `json:"notes" binding:"omitempty,max=500"`
}

// CreateTransaction handles the creation of a new transaction.
// @Summary     Create a transaction
// @Description Record an actual inflow or outflow in an open period
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       budgetID path string                   true "Budget ID"
// @Param       request  body CreateTransactionRequest true "Transaction details"
// @Success     201 {object} models.Transaction "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Period or category not found"
// @Failure     409 {object} ErrorResponse "Period is closed"
// @Router      /budgets/{budgetID}/transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	amount, err := requireCents(req.AmountCents, req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	in := services.TransactionInput{
		PeriodID:    req.PeriodID,
		CategoryID:  req.CategoryID,
		Type:        req.Type,
		AmountCents: amount,
		Notes:       req.Notes,
		LiabilityID: req.LiabilityID,
	}
	date, err := parseOptionalDate("date", req.Date)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if date != nil {
		in.Date = *date
	}

	tx, err := h.transactionService.CreateTransaction(c.Request.Context(), scopedBudget(c).ID, in)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"transaction": tx})
}

// ListTransactions returns a filtered, paginated list of the budget's
// transactions, newest first.
// @Summary     List transactions
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       budgetID     path  string true  "Budget ID"
// @Param       page         query int    false "Page number (default 1)"
// @Param       page_size    query int    false "Items per page (default 20, max 100)"
// @Param       sort         query string false "newest (default) or oldest"
// @Param       period_id    query string false "Filter by period"
// @Param       category_id  query string false "Filter by category"
// @Param       liability_id query string false "Filter by liability"
// @Param       type         query string false "INCOME or EXPENSE"
// @Param       from_date    query string false "Filter by start date (YYYY-MM-DD or RFC3339)"
// @Param       to_date      query string false "Filter by end date (YYYY-MM-DD or RFC3339)"
// @Param       min_amount   query int    false "Filter by minimum amount (cents)"
// @Param       max_amount   query int    false "Filter by maximum amount (cents)"
// @Success     200 {object} pagination.PageResponse[models.Transaction] "Paginated transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /budgets/{budgetID}/transactions [get]
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	filter, err := parseTransactionFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.transactionService.ListTransactions(c.Request.Context(), scopedBudget(c).ID, filter, page)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func parseTransactionFilter(c *gin.Context) (services.TransactionFilter, error) {
	var filter services.TransactionFilter
	var err error

	for param, dst := range map[string]**string{
		"period_id":    &filter.PeriodID,
		"category_id":  &filter.CategoryID,
		"liability_id": &filter.LiabilityID,
	} {
		if v := c.Query(param); v != "" {
			*dst = &v
		}
	}

	if filter.FromDate, err = parseOptionalDate("from_date", c.Query("from_date")); err != nil {
		return filter, err
	}
	if filter.ToDate, err = parseOptionalDate("to_date", c.Query("to_date")); err != nil {
		return filter, err
	}
	if filter.Type, err = parseOptionalEntryType(c.Query("type")); err != nil {
		return filter, err
	}
	if filter.MinAmount, err = parseOptionalInt64("min_amount", c.Query("min_amount")); err != nil {
		return filter, err
	}
	if filter.MaxAmount, err = parseOptionalInt64("max_amount", c.Query("max_amount")); err != nil {
		return filter, err
	}
	if filter.MinAmount != nil && filter.MaxAmount != nil && *filter.MinAmount > *filter.MaxAmount {
		return filter, apperrors.Validation("min_amount", "must not exceed max_amount")
	}

	return filter, nil
}

// GetTransaction handles retrieving a specific transaction.
// @Router /budgets/{budgetID}/transactions/{transactionID} [get]
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	transactionID, err := parsePathID(c, "transactionID")
	if err != nil {
		respondWithError(c, err)
		return
	}
	tx, err := h.transactionService.GetTransaction(c.Request.Context(), scopedBudget(c).ID, transactionID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transaction": tx})
}

// UpdateTransaction patches a transaction. Moving it to another period
// requires both periods to be open.
// @Router /budgets/{budgetID}/transactions/{transactionID} [patch]
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	transactionID, err := parsePathID(c, "transactionID")
	if err != nil {
		respondWithError(c, err)
		return
	}
	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	amount, err := resolveCents(req.AmountCents, req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	patch := services.TransactionPatch{
		PeriodID:    req.PeriodID,
		CategoryID:  req.CategoryID,
		Type:        req.Type,
		AmountCents: amount,
		Notes:       req.Notes,
	}
	if req.Date != nil {
		date, err := parseOptionalDate("date", *req.Date)
		if err != nil {
			respondWithError(c, err)
			return
		}
		patch.Date = date
	}

	tx, err := h.transactionService.UpdateTransaction(c.Request.Context(), scopedBudget(c).ID, transactionID, patch)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transaction": tx})
}

// DeleteTransaction handles deleting a transaction of an open period.
// @Summary     Delete transaction
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       budgetID      path string true "Budget ID"
// @Param       transactionID path string true "Transaction ID"
// @Success     200 {object} MessageResponse "Transaction deleted"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     409 {object} ErrorResponse "Period is closed"
// @Router      /budgets/{budgetID}/transactions/{transactionID} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	transactionID, err := parsePathID(c, "transactionID")
	if err != nil {
		respondWithError(c, err)
		return
	}
	if err := h.transactionService.DeleteTransaction(c.Request.Context(), scopedBudget(c).ID, transactionID); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Transaction deleted successfully"})
}
