package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pennyplan/internal/models"
	"pennyplan/internal/services"
)

// CategoryHandler handles head categories and categories of a budget.
type CategoryHandler struct {
	categoryService services.CategoryServicer
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(categoryService services.CategoryServicer) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// CreateHeadCategoryRequest represents the request payload for a head category.
type CreateHeadCategoryRequest struct {
	Name       string           `json:"name" binding:"required,min=1,max=100"`
	PreferType models.EntryType `json:"prefer_type" binding:"required,entry_type"`
}

// RenameRequest carries a new display name.
type RenameRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// CategoryRequest represents the request payload for creating or updating a
// category. On update empty fields are left unchanged.
type CategoryRequest struct {
	HeadCategoryID string `json:"head_category_id" binding:"omitempty,uuid"`
	Name           string `json:"name" binding:"max=100"`
	Icon           string `json:"icon" binding:"max=50"`
	Color          string `json:"color" binding:"omitempty,hex_color"`
}

// ArchiveRequest toggles a category's archived flag.
type ArchiveRequest struct {
	Archived *bool `json:"archived" binding:"required"`
}

func (r CategoryRequest) input() services.CategoryInput {
	return services.CategoryInput{HeadCategoryID: r.HeadCategoryID, Name: r.Name, Icon: r.Icon, Color: r.Color}
}

// ListCategories returns the head categories with their categories nested.
// Archived categories are included only with ?include_archived=true.
// @Summary     List categories
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Param       budgetID         path  string true  "Budget ID"
// @Param       include_archived query bool   false "Include archived categories"
// @Success     200 {array}  models.HeadCategory "Head categories"
// @Router      /budgets/{budgetID}/categories [get]
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	heads, err := h.categoryService.ListHeadCategories(c.Request.Context(), scopedBudget(c).ID, c.Query("include_archived") == "true")
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"head_categories": heads})
}

// CreateHeadCategory adds a user-defined head category.
// @Summary     Create a head category
// @Tags        categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       budgetID path string                    true "Budget ID"
// @Param       request  body CreateHeadCategoryRequest true "Head category"
// @Success     201 {object} models.HeadCategory "Head category created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /budgets/{budgetID}/head-categories [post]
func (h *CategoryHandler) CreateHeadCategory(c *gin.Context) {
	var req CreateHeadCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	head, err := h.categoryService.CreateHeadCategory(c.Request.Context(), scopedBudget(c).ID, req.Name, req.PreferType)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"head_category": head})
}

// RenameHeadCategory renames a head category.
// @Router /budgets/{budgetID}/head-categories/{headID} [put]
func (h *CategoryHandler) RenameHeadCategory(c *gin.Context) {
	headID, err := parsePathID(c, "headID")
	if err != nil {
		respondWithError(c, err)
		return
	}
	var req RenameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	head, err := h.categoryService.RenameHeadCategory(c.Request.Context(), scopedBudget(c).ID, headID, req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"head_category": head})
}

// DeleteHeadCategory deletes a user-defined head category and its categories.
// @Router /budgets/{budgetID}/head-categories/{headID} [delete]
func (h *CategoryHandler) DeleteHeadCategory(c *gin.Context) {
	headID, err := parsePathID(c, "headID")
	if err != nil {
		respondWithError(c, err)
		return
	}
	if err := h.categoryService.DeleteHeadCategory(c.Request.Context(), scopedBudget(c).ID, headID); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Head category deleted successfully"})
}

// CreateCategory handles the creation of a new category.
// @Summary     Create a category
// @Tags        categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       budgetID path string          true "Budget ID"
// @Param       request  body CategoryRequest true "Category details"
// @Success     201 {object} models.Category "Category created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Head category not found"
// @Router      /budgets/{budgetID}/categories [post]
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	category, err := h.categoryService.CreateCategory(c.Request.Context(), scopedBudget(c).ID, req.input())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"category": category})
}

// GetCategory handles retrieving a specific category.
// @Router /budgets/{budgetID}/categories/{categoryID} [get]
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	categoryID, err := parsePathID(c, "categoryID")
	if err != nil {
		respondWithError(c, err)
		return
	}
	category, err := h.categoryService.GetCategory(c.Request.Context(), scopedBudget(c).ID, categoryID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": category})
}

// UpdateCategory handles updating a category, including moving it to another
// head category.
// @Router /budgets/{budgetID}/categories/{categoryID} [put]
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	categoryID, err := parsePathID(c, "categoryID")
	if err != nil {
		respondWithError(c, err)
		return
	}
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	category, err := h.categoryService.UpdateCategory(c.Request.Context(), scopedBudget(c).ID, categoryID, req.input())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": category})
}

// ArchiveCategory archives or restores a category.
// @Router /budgets/{budgetID}/categories/{categoryID}/archive [post]
func (h *CategoryHandler) ArchiveCategory(c *gin.Context) {
	categoryID, err := parsePathID(c, "categoryID")
	if err != nil {
		respondWithError(c, err)
		return
	}
	var req ArchiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	category, err := h.categoryService.SetArchived(c.Request.Context(), scopedBudget(c).ID, categoryID, *req.Archived)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": category})
}

// DeleteCategory deletes a category no transaction references.
// @Summary     Delete category
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Param       budgetID   path string true "Budget ID"
// @Param       categoryID path string true "Category ID"
// @Success     200 {object} MessageResponse "Category deleted"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     409 {object} ErrorResponse "Category in use"
// @Router      /budgets/{budgetID}/categories/{categoryID} [delete]
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	categoryID, err := parsePathID(c, "categoryID")
	if err != nil {
		respondWithError(c, err)
		return
	}
	if err := h.categoryService.DeleteCategory(c.Request.Context(), scopedBudget(c).ID, categoryID); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Category deleted successfully"})
}
