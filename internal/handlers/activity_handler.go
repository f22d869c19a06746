package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pennyplan/internal/pagination"
	"pennyplan/internal/services"
)

// ActivityHandler serves the budget's activity feed.
type ActivityHandler struct {
	activityService services.ActivityServicer
}

// NewActivityHandler creates a new ActivityHandler.
func NewActivityHandler(activityService services.ActivityServicer) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

// ListActivity returns the budget's activity, newest first.
// @Summary     List activity
// @Tags        activity
// @Produce     json
// @Security    BearerAuth
// @Param       budgetID  path  string true  "Budget ID"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Param       sort      query string false "newest (default) or oldest"
// @Success     200 {object} pagination.PageResponse[models.ActivityLog] "Paginated activity"
// @Router      /budgets/{budgetID}/activity [get]
func (h *ActivityHandler) ListActivity(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	result, err := h.activityService.List(c.Request.Context(), scopedBudget(c).ID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
