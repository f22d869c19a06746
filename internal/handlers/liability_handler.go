package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pennyplan/internal/services"
)

// LiabilityHandler handles liabilities of a budget.
type LiabilityHandler struct {
	liabilityService services.LiabilityServicer
}

// NewLiabilityHandler creates a new LiabilityHandler.
func NewLiabilityHandler(liabilityService services.LiabilityServicer) *LiabilityHandler {
	return &LiabilityHandler{liabilityService: liabilityService}
}

// CreateLiabilityRequest represents the request payload for a liability.
type CreateLiabilityRequest struct {
	Name           string `json:"name" binding:"required,min=1,max=100"`
	PrincipalCents int64  `json:"principal_cents" binding:"required,gt=0"`
	Notes          string `json:"notes" binding:"max=500"`
}

// UpdateLiabilityRequest is a partial update.
type UpdateLiabilityRequest struct {
	Name           *string `json:"name" binding:"omitempty,min=1,max=100"`
	PrincipalCents *int64  `json:"principal_cents" binding:"omitempty,gt=0"`
	Notes          *string `json:"notes" binding:"omitempty,max=500"`
}

// CreateLiability handles the creation of a liability.
// @Summary     Create a liability
// @Tags        liabilities
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       budgetID path string                 true "Budget ID"
// @Param       request  body CreateLiabilityRequest true "Liability details"
// @Success     201 {object} models.Liability "Liability created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /budgets/{budgetID}/liabilities [post]
func (h *LiabilityHandler) CreateLiability(c *gin.Context) {
	var req CreateLiabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	liability, err := h.liabilityService.CreateLiability(c.Request.Context(), scopedBudget(c).ID, req.Name, req.PrincipalCents, req.Notes)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"liability": liability})
}

// ListLiabilities returns the budget's liabilities with paid and outstanding
// amounts.
// @Router /budgets/{budgetID}/liabilities [get]
func (h *LiabilityHandler) ListLiabilities(c *gin.Context) {
	liabilities, err := h.liabilityService.ListLiabilities(c.Request.Context(), scopedBudget(c).ID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"liabilities": liabilities})
}

// GetLiability returns one liability with its balance.
// @Router /budgets/{budgetID}/liabilities/{liabilityID} [get]
func (h *LiabilityHandler) GetLiability(c *gin.Context) {
	liabilityID, err := parsePathID(c, "liabilityID")
	if err != nil {
		respondWithError(c, err)
		return
	}
	liability, err := h.liabilityService.GetLiability(c.Request.Context(), scopedBudget(c).ID, liabilityID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"liability": liability})
}

// UpdateLiability patches a liability.
// @Router /budgets/{budgetID}/liabilities/{liabilityID} [patch]
func (h *LiabilityHandler) UpdateLiability(c *gin.Context) {
	liabilityID, err := parsePathID(c, "liabilityID")
	if err != nil {
		respondWithError(c, err)
		return
	}
	var req UpdateLiabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	liability, err := h.liabilityService.UpdateLiability(c.Request.Context(), scopedBudget(c).ID, liabilityID, req.Name, req.PrincipalCents, req.Notes)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"liability": liability})
}

// DeleteLiability deletes a liability. Payments keep their history.
// @Router /budgets/{budgetID}/liabilities/{liabilityID} [delete]
func (h *LiabilityHandler) DeleteLiability(c *gin.Context) {
	liabilityID, err := parsePathID(c, "liabilityID")
	if err != nil {
		respondWithError(c, err)
		return
	}
	if err := h.liabilityService.DeleteLiability(c.Request.Context(), scopedBudget(c).ID, liabilityID); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Liability deleted successfully"})
}
