package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"pennyplan/internal/logger"
	"pennyplan/internal/models"
	"pennyplan/internal/services"
)

// RecurringHandler handles recurring transaction series.
type RecurringHandler struct {
	recurringService services.RecurringServicer
	now              func() time.Time
}

// NewRecurringHandler creates a new RecurringHandler.
func NewRecurringHandler(recurringService services.RecurringServicer) *RecurringHandler {
	return &RecurringHandler{recurringService: recurringService, now: time.Now}
}

// RecurringRequest describes a series. Dates accept YYYY-MM-DD or RFC3339;
// StartDate defaults to today.
type RecurringRequest struct {
	CategoryID  string           `json:"category_id" binding:"required,uuid"`
	Type        models.EntryType `json:"type" binding:"required,entry_type"`
	AmountCents *int64           `json:"amount_cents" binding:"omitempty,gt=0"`
	Amount      *MajorAmount     `json:"amount"`
	Notes       string           `json:"notes" binding:"max=500"`
	Frequency   models.Frequency `json:"frequency" binding:"required,frequency"`
	Interval    int              `json:"interval" binding:"omitempty,min=1,max=366"`
	StartDate   string           `json:"start_date"`
	EndDate     string           `json:"end_date"`
}

func (r RecurringRequest) input() (services.RecurringInput, error) {
	in := services.RecurringInput{
		CategoryID: r.CategoryID,
		Type:       r.Type,
		Notes:      r.Notes,
		Frequency:  r.Frequency,
		Interval:   r.Interval,
	}
	amount, err := requireCents(r.AmountCents, r.Amount)
	if err != nil {
		return in, err
	}
	in.AmountCents = amount

	start, err := parseOptionalDate("start_date", r.StartDate)
	if err != nil {
		return in, err
	}
	if start != nil {
		in.StartDate = *start
	}
	if in.EndDate, err = parseOptionalDate("end_date", r.EndDate); err != nil {
		return in, err
	}
	return in, nil
}

// CreateSeries handles the creation of a recurring series.
// @Summary     Create a recurring series
// @Tags        recurring
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       budgetID path string           true "Budget ID"
// @Param       request  body RecurringRequest true "Series details"
// @Success     201 {object} models.RecurringTransactionSeries "Series created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /budgets/{budgetID}/recurring [post]
func (h *RecurringHandler) CreateSeries(c *gin.Context) {
	var req RecurringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}
	in, err := req.input()
	if err != nil {
		respondWithError(c, err)
		return
	}

	series, err := h.recurringService.CreateSeries(c.Request.Context(), scopedBudget(c).ID, in)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"series": series})
}

// ListSeries returns the budget's series by next run date.
// @Router /budgets/{budgetID}/recurring [get]
func (h *RecurringHandler) ListSeries(c *gin.Context) {
	series, err := h.recurringService.ListSeries(c.Request.Context(), scopedBudget(c).ID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"series": series})
}

// GetSeries returns one series.
// @Router /budgets/{budgetID}/recurring/{seriesID} [get]
func (h *RecurringHandler) GetSeries(c *gin.Context) {
	seriesID, err := parsePathID(c, "seriesID")
	if err != nil {
		respondWithError(c, err)
		return
	}
	series, err := h.recurringService.GetSeries(c.Request.Context(), scopedBudget(c).ID, seriesID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"series": series})
}

// UpdateSeries replaces a series' schedule and template.
// @Router /budgets/{budgetID}/recurring/{seriesID} [put]
func (h *RecurringHandler) UpdateSeries(c *gin.Context) {
	seriesID, err := parsePathID(c, "seriesID")
	if err != nil {
		respondWithError(c, err)
		return
	}
	var req RecurringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}
	in, err := req.input()
	if err != nil {
		respondWithError(c, err)
		return
	}

	series, err := h.recurringService.UpdateSeries(c.Request.Context(), scopedBudget(c).ID, seriesID, in)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"series": series})
}

// PauseSeries stops a series from materializing.
// @Router /budgets/{budgetID}/recurring/{seriesID}/pause [post]
func (h *RecurringHandler) PauseSeries(c *gin.Context) {
	h.setPaused(c, true)
}

// ResumeSeries restarts a paused series. Runs missed while paused are
// skipped.
// @Router /budgets/{budgetID}/recurring/{seriesID}/resume [post]
func (h *RecurringHandler) ResumeSeries(c *gin.Context) {
	h.setPaused(c, false)
}

func (h *RecurringHandler) setPaused(c *gin.Context, paused bool) {
	seriesID, err := parsePathID(c, "seriesID")
	if err != nil {
		respondWithError(c, err)
		return
	}
	series, err := h.recurringService.SetPaused(c.Request.Context(), scopedBudget(c).ID, seriesID, paused)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"series": series})
}

// DeleteSeries deletes a series. Transactions it created are kept.
// @Router /budgets/{budgetID}/recurring/{seriesID} [delete]
func (h *RecurringHandler) DeleteSeries(c *gin.Context) {
	seriesID, err := parsePathID(c, "seriesID")
	if err != nil {
		respondWithError(c, err)
		return
	}
	if err := h.recurringService.DeleteSeries(c.Request.Context(), scopedBudget(c).ID, seriesID); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Recurring series deleted successfully"})
}

// RunDue materializes every due run of the budget's series up to today.
// @Summary     Materialize due recurring transactions
// @Tags        recurring
// @Produce     json
// @Security    BearerAuth
// @Param       budgetID path string true "Budget ID"
// @Success     200 {object} services.MaterializeResult "Run result"
// @Router      /budgets/{budgetID}/recurring/run [post]
func (h *RecurringHandler) RunDue(c *gin.Context) {
	result, err := h.recurringService.MaterializeDue(c.Request.Context(), scopedBudget(c).ID, h.now())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// RunAllDue materializes due runs across every budget. It is mounted behind
// the maintenance API key.
// @Summary     Materialize due recurring transactions for all budgets
// @Tags        internal
// @Produce     json
// @Param       X-API-Key header string true "Maintenance API key"
// @Success     200 {object} services.MaterializeResult "Run result"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Router      /internal/recurring/run [post]
func (h *RecurringHandler) RunAllDue(c *gin.Context) {
	result, err := h.recurringService.MaterializeAllDue(c.Request.Context(), h.now())
	if err != nil {
		respondWithError(c, err)
		return
	}
	logger.Get().Infow("recurring run finished",
		"created", result.Created,
		"skipped", result.Skipped,
		"failed", result.Failed,
	)
	c.JSON(http.StatusOK, result)
}
