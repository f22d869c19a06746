package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"pennyplan/internal/services"
)

// PeriodHandler handles period lifecycle and rollover requests.
type PeriodHandler struct {
	periodService   services.PeriodServicer
	rolloverService services.RolloverServicer
	now             func() time.Time
}

// NewPeriodHandler creates a new PeriodHandler.
func NewPeriodHandler(periodService services.PeriodServicer, rolloverService services.RolloverServicer) *PeriodHandler {
	return &PeriodHandler{periodService: periodService, rolloverService: rolloverService, now: time.Now}
}

// RolloverRequest asks for the successor of a period. CopyStructure defaults
// to true.
type RolloverRequest struct {
	CopyStructure *bool `json:"copy_structure"`
}

// CopyStructureRequest names the period that receives the copy.
type CopyStructureRequest struct {
	TargetPeriodID string `json:"target_period_id" binding:"required,uuid"`
}

// GetCurrentPeriod returns the period containing today, creating a monthly
// one if none exists.
// @Summary     Get the current period
// @Tags        periods
// @Produce     json
// @Security    BearerAuth
// @Param       budgetID path string true "Budget ID"
// @Success     200 {object} models.Period "Current period"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     409 {object} ErrorResponse "Today falls in a closed period"
// @Router      /budgets/{budgetID}/periods/current [get]
func (h *PeriodHandler) GetCurrentPeriod(c *gin.Context) {
	period, err := h.periodService.GetOrCreateCurrentPeriod(c.Request.Context(), scopedBudget(c).ID, h.now())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"period": period})
}

// ListPeriods returns the budget's periods in sequence order.
// @Router /budgets/{budgetID}/periods [get]
func (h *PeriodHandler) ListPeriods(c *gin.Context) {
	periods, err := h.periodService.ListPeriods(c.Request.Context(), scopedBudget(c).ID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"periods": periods})
}

// GetPeriod returns one period.
// @Router /budgets/{budgetID}/periods/{periodID} [get]
func (h *PeriodHandler) GetPeriod(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"period": scopedPeriod(c)})
}

// NextPeriod navigates forward, creating the successor if needed.
// @Summary     Navigate to the next period
// @Tags        periods
// @Produce     json
// @Security    BearerAuth
// @Param       budgetID path string true "Budget ID"
// @Param       periodID path string true "Period ID"
// @Success     200 {object} services.NavigationResult "Next period"
// @Router      /budgets/{budgetID}/periods/{periodID}/next [post]
func (h *PeriodHandler) NextPeriod(c *gin.Context) {
	result, err := h.periodService.NavigateForward(c.Request.Context(), scopedBudget(c).ID, scopedPeriod(c).ID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// PreviousPeriod navigates backward. It never creates a period.
// @Router /budgets/{budgetID}/periods/{periodID}/previous [get]
func (h *PeriodHandler) PreviousPeriod(c *gin.Context) {
	period, err := h.periodService.NavigateBackward(c.Request.Context(), scopedBudget(c).ID, scopedPeriod(c).ID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"period": period})
}

// ClosePeriod closes a period. A closed period never reopens.
// @Router /budgets/{budgetID}/periods/{periodID}/close [post]
func (h *PeriodHandler) ClosePeriod(c *gin.Context) {
	period, err := h.periodService.ClosePeriod(c.Request.Context(), scopedBudget(c).ID, scopedPeriod(c).ID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"period": period})
}

// Rollover creates the successor of a period, optionally copying its
// sections, mappings and plans.
// @Summary     Roll a period over
// @Tags        periods
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       budgetID path string          true  "Budget ID"
// @Param       periodID path string          true  "Source period ID"
// @Param       request  body RolloverRequest false "Rollover options"
// @Success     201 {object} services.RolloverResult "Rollover result"
// @Failure     409 {object} ErrorResponse "Successor already exists"
// @Router      /budgets/{budgetID}/periods/{periodID}/rollover [post]
func (h *PeriodHandler) Rollover(c *gin.Context) {
	var req RolloverRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, bindError(err))
			return
		}
	}
	copyStructure := req.CopyStructure == nil || *req.CopyStructure

	result, err := h.rolloverService.Rollover(c.Request.Context(), scopedBudget(c).ID, scopedPeriod(c).ID, copyStructure)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// CopyStructure copies a period's structure and plans into an existing
// period of the same budget. Re-running converges.
// @Router /budgets/{budgetID}/periods/{periodID}/copy-structure [post]
func (h *PeriodHandler) CopyStructure(c *gin.Context) {
	var req CopyStructureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	result, err := h.rolloverService.CopyStructure(c.Request.Context(), scopedPeriod(c).ID, req.TargetPeriodID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
