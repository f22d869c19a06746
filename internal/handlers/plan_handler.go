package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pennyplan/internal/models"
	"pennyplan/internal/services"
)

// PlanHandler handles planned amounts of a period.
type PlanHandler struct {
	planService services.PlanServicer
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(planService services.PlanServicer) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// UpsertPlanRequest sets the planned amount of one category, in cents or in
// major units. Zero is a valid amount.
type UpsertPlanRequest struct {
	CategoryID  string           `json:"category_id" binding:"required,uuid"`
	Type        models.EntryType `json:"type" binding:"required,entry_type"`
	AmountCents *int64           `json:"amount_cents"`
	Amount      *MajorAmount     `json:"amount"`
	Notes       string           `json:"notes" binding:"max=500"`
}

// UpsertPlan creates or replaces the plan for (period, category).
// @Summary     Create or update a plan
// @Tags        plans
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       budgetID path string            true "Budget ID"
// @Param       periodID path string            true "Period ID"
// @Param       request  body UpsertPlanRequest true "Plan"
// @Success     200 {object} models.Plan "Plan"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Router      /budgets/{budgetID}/periods/{periodID}/plans [put]
func (h *PlanHandler) UpsertPlan(c *gin.Context) {
	var req UpsertPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	amount, err := requireCents(req.AmountCents, req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	plan, err := h.planService.CreateOrUpdatePlan(c.Request.Context(), services.PlanInput{
		PeriodID:    scopedPeriod(c).ID,
		CategoryID:  req.CategoryID,
		Type:        req.Type,
		AmountCents: amount,
		Notes:       req.Notes,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plan": plan})
}

// ListPlans returns every plan of the period.
// @Router /budgets/{budgetID}/periods/{periodID}/plans [get]
func (h *PlanHandler) ListPlans(c *gin.Context) {
	plans, err := h.planService.ListPlans(c.Request.Context(), scopedPeriod(c).ID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plans": plans})
}

// GetPlan returns one plan.
// @Router /budgets/{budgetID}/periods/{periodID}/plans/{planID} [get]
func (h *PlanHandler) GetPlan(c *gin.Context) {
	planID, err := parsePathID(c, "planID")
	if err != nil {
		respondWithError(c, err)
		return
	}
	plan, err := h.planService.GetPlan(c.Request.Context(), scopedPeriod(c).ID, planID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plan": plan})
}

// DeletePlan removes a plan.
// @Router /budgets/{budgetID}/periods/{periodID}/plans/{planID} [delete]
func (h *PlanHandler) DeletePlan(c *gin.Context) {
	planID, err := parsePathID(c, "planID")
	if err != nil {
		respondWithError(c, err)
		return
	}
	if err := h.planService.DeletePlan(c.Request.Context(), scopedPeriod(c).ID, planID); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Plan deleted successfully"})
}
