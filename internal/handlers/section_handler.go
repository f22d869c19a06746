package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pennyplan/internal/models"
	"pennyplan/internal/services"
)

// SectionHandler handles sections of a period and the categories placed in
// them.
type SectionHandler struct {
	sectionService    services.SectionServicer
	assignmentService services.AssignmentServicer
}

// NewSectionHandler creates a new SectionHandler.
func NewSectionHandler(sectionService services.SectionServicer, assignmentService services.AssignmentServicer) *SectionHandler {
	return &SectionHandler{sectionService: sectionService, assignmentService: assignmentService}
}

// ReorderRequest moves the item at From to To. Both are zero-based.
type ReorderRequest struct {
	From *int `json:"from" binding:"required,min=0"`
	To   *int `json:"to" binding:"required,min=0"`
}

// AssignRequest places a category in a section. A nil Position appends.
type AssignRequest struct {
	CategoryID string `json:"category_id" binding:"required,uuid"`
	Position   *int   `json:"position" binding:"omitempty,min=0"`
}

// MoveRequest moves a category between two sections of the same period.
type MoveRequest struct {
	CategoryID    string `json:"category_id" binding:"required,uuid"`
	FromSectionID string `json:"from_section_id" binding:"required,uuid"`
	ToSectionID   string `json:"to_section_id" binding:"required,uuid"`
	Position      *int   `json:"position" binding:"omitempty,min=0"`
}

// section resolves :sectionID within the scoped period.
func (h *SectionHandler) section(c *gin.Context) (*models.Section, error) {
	sectionID, err := parsePathID(c, "sectionID")
	if err != nil {
		return nil, err
	}
	return h.sectionService.GetSection(c.Request.Context(), scopedPeriod(c).ID, sectionID)
}

// ListSections returns the period's sections with their mapped categories.
// @Summary     List sections
// @Tags        sections
// @Produce     json
// @Security    BearerAuth
// @Param       budgetID path string true "Budget ID"
// @Param       periodID path string true "Period ID"
// @Success     200 {array} models.Section "Sections in display order"
// @Router      /budgets/{budgetID}/periods/{periodID}/sections [get]
func (h *SectionHandler) ListSections(c *gin.Context) {
	sections, err := h.sectionService.ListSections(c.Request.Context(), scopedPeriod(c).ID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sections": sections})
}

// CreateSection appends a section to the period.
// @Summary     Create a section
// @Tags        sections
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       budgetID path string        true "Budget ID"
// @Param       periodID path string        true "Period ID"
// @Param       request  body RenameRequest true "Section name"
// @Success     201 {object} models.Section "Section created"
// @Router      /budgets/{budgetID}/periods/{periodID}/sections [post]
func (h *SectionHandler) CreateSection(c *gin.Context) {
	var req RenameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}
	section, err := h.sectionService.CreateSection(c.Request.Context(), scopedPeriod(c).ID, req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"section": section})
}

// GetSection returns one section.
// @Router /budgets/{budgetID}/periods/{periodID}/sections/{sectionID} [get]
func (h *SectionHandler) GetSection(c *gin.Context) {
	section, err := h.section(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"section": section})
}

// RenameSection renames a section.
// @Router /budgets/{budgetID}/periods/{periodID}/sections/{sectionID} [put]
func (h *SectionHandler) RenameSection(c *gin.Context) {
	sectionID, err := parsePathID(c, "sectionID")
	if err != nil {
		respondWithError(c, err)
		return
	}
	var req RenameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}
	section, err := h.sectionService.RenameSection(c.Request.Context(), scopedPeriod(c).ID, sectionID, req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"section": section})
}

// DeleteSection deletes a section and its mappings.
// @Router /budgets/{budgetID}/periods/{periodID}/sections/{sectionID} [delete]
func (h *SectionHandler) DeleteSection(c *gin.Context) {
	sectionID, err := parsePathID(c, "sectionID")
	if err != nil {
		respondWithError(c, err)
		return
	}
	if err := h.sectionService.DeleteSection(c.Request.Context(), scopedPeriod(c).ID, sectionID); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Section deleted successfully"})
}

// ReorderSections moves one section to a new position.
// @Router /budgets/{budgetID}/periods/{periodID}/sections/reorder [post]
func (h *SectionHandler) ReorderSections(c *gin.Context) {
	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}
	sections, err := h.sectionService.ReorderSections(c.Request.Context(), scopedPeriod(c).ID, *req.From, *req.To)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sections": sections})
}

// AssignCategory places a category in a section, replacing any mapping it
// had elsewhere in the period.
// @Summary     Assign a category to a section
// @Tags        sections
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       budgetID  path string        true "Budget ID"
// @Param       periodID  path string        true "Period ID"
// @Param       sectionID path string        true "Section ID"
// @Param       request   body AssignRequest true "Category and position"
// @Success     200 {object} models.CategoryMapping "Mapping"
// @Failure     404 {object} ErrorResponse "Section or category not found"
// @Router      /budgets/{budgetID}/periods/{periodID}/sections/{sectionID}/categories [post]
func (h *SectionHandler) AssignCategory(c *gin.Context) {
	section, err := h.section(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	mapping, err := h.assignmentService.Assign(c.Request.Context(), req.CategoryID, section.ID, req.Position)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"mapping": mapping})
}

// UnassignCategory removes a category from a section.
// @Router /budgets/{budgetID}/periods/{periodID}/sections/{sectionID}/categories/{categoryID} [delete]
func (h *SectionHandler) UnassignCategory(c *gin.Context) {
	section, err := h.section(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	categoryID, err := parsePathID(c, "categoryID")
	if err != nil {
		respondWithError(c, err)
		return
	}
	if err := h.assignmentService.Unassign(c.Request.Context(), categoryID, section.ID); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Category removed from section"})
}

// ReorderCategories moves one category to a new position within a section.
// @Router /budgets/{budgetID}/periods/{periodID}/sections/{sectionID}/categories/reorder [post]
func (h *SectionHandler) ReorderCategories(c *gin.Context) {
	section, err := h.section(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}
	mappings, err := h.assignmentService.Reorder(c.Request.Context(), section.ID, *req.From, *req.To)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"mappings": mappings})
}

// MoveCategory moves a category from one section to another of the same
// period.
// @Router /budgets/{budgetID}/periods/{periodID}/assignments/move [post]
func (h *SectionHandler) MoveCategory(c *gin.Context) {
	var req MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}
	ctx := c.Request.Context()
	periodID := scopedPeriod(c).ID
	for _, id := range []string{req.FromSectionID, req.ToSectionID} {
		if _, err := h.sectionService.GetSection(ctx, periodID, id); err != nil {
			respondWithError(c, err)
			return
		}
	}

	mapping, err := h.assignmentService.Move(ctx, req.CategoryID, req.FromSectionID, req.ToSectionID, req.Position)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"mapping": mapping})
}
