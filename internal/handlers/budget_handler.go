package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pennyplan/internal/services"
)

// BudgetHandler handles budget-related requests.
type BudgetHandler struct {
	budgetService services.BudgetServicer
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetService services.BudgetServicer) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

// CreateBudgetRequest represents the request payload for creating a budget.
type CreateBudgetRequest struct {
	Name         string `json:"name" binding:"required,min=1,max=100"`
	Icon         string `json:"icon" binding:"max=50"`
	Color        string `json:"color" binding:"omitempty,hex_color"`
	CurrencyCode string `json:"currency_code" binding:"omitempty,iso4217"`
}

// UpdateBudgetRequest represents the request payload for updating a budget.
// Empty fields are left unchanged.
type UpdateBudgetRequest struct {
	Name         string `json:"name" binding:"omitempty,min=1,max=100"`
	Icon         string `json:"icon" binding:"max=50"`
	Color        string `json:"color" binding:"omitempty,hex_color"`
	CurrencyCode string `json:"currency_code" binding:"omitempty,iso4217"`
}

// CreateBudget handles the creation of a new budget.
// @Summary     Create a budget
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateBudgetRequest true "Budget details"
// @Success     201 {object} models.Budget "Budget created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /budgets [post]
func (h *BudgetHandler) CreateBudget(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	budget, err := h.budgetService.CreateBudget(c.Request.Context(), ownerID, services.BudgetInput{
		Name:         req.Name,
		Icon:         req.Icon,
		Color:        req.Color,
		CurrencyCode: req.CurrencyCode,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"budget": budget})
}

// ListBudgets handles listing the owner's budgets.
// @Summary     List budgets
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array}  models.Budget "Budgets"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /budgets [get]
func (h *BudgetHandler) ListBudgets(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgets, err := h.budgetService.ListBudgets(c.Request.Context(), ownerID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budgets": budgets})
}

// GetDefaultBudget returns the owner's first budget, creating and seeding it
// on first use.
// @Summary     Get the default budget
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} models.Budget "Default budget"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /budgets/default [get]
func (h *BudgetHandler) GetDefaultBudget(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budget, err := h.budgetService.GetOrCreateDefaultBudget(c.Request.Context(), ownerID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// GetBudget handles retrieving a specific budget.
// @Summary     Get budget by ID
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       budgetID path string true "Budget ID"
// @Success     200 {object} models.Budget "Budget details"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Router      /budgets/{budgetID} [get]
func (h *BudgetHandler) GetBudget(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"budget": scopedBudget(c)})
}

// UpdateBudget handles updating an existing budget.
// @Summary     Update budget
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       budgetID path string              true "Budget ID"
// @Param       request  body UpdateBudgetRequest true "Updated budget details"
// @Success     200 {object} models.Budget "Updated budget"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Router      /budgets/{budgetID} [put]
func (h *BudgetHandler) UpdateBudget(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	budget, err := h.budgetService.UpdateBudget(c.Request.Context(), ownerID, scopedBudget(c).ID, services.BudgetInput{
		Name:         req.Name,
		Icon:         req.Icon,
		Color:        req.Color,
		CurrencyCode: req.CurrencyCode,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// DeleteBudget handles deleting a budget. The last budget of an owner
// cannot be deleted.
// @Summary     Delete budget
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       budgetID path string true "Budget ID"
// @Success     200 {object} MessageResponse "Budget deleted"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     409 {object} ErrorResponse "Last budget"
// @Router      /budgets/{budgetID} [delete]
func (h *BudgetHandler) DeleteBudget(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.budgetService.DeleteBudget(c.Request.Context(), ownerID, scopedBudget(c).ID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Budget deleted successfully"})
}
