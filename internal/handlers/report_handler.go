package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"pennyplan/internal/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler serves the derived planned-versus-actual figures of a period.
type ReportHandler struct {
	aggregatorService services.AggregatorServicer
	exportService     services.ExportServicer
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(aggregatorService services.AggregatorServicer, exportService services.ExportServicer) *ReportHandler {
	return &ReportHandler{aggregatorService: aggregatorService, exportService: exportService}
}

// GetSummary returns the period's planned and actual totals.
// @Summary     Period summary
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       budgetID path string true "Budget ID"
// @Param       periodID path string true "Period ID"
// @Success     200 {object} services.Summary "Summary"
// @Failure     404 {object} ErrorResponse "Period not found"
// @Router      /budgets/{budgetID}/periods/{periodID}/summary [get]
func (h *ReportHandler) GetSummary(c *gin.Context) {
	summary, err := h.aggregatorService.Summary(c.Request.Context(), scopedPeriod(c).ID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// GetComparison returns one planned-versus-actual row per category.
// @Summary     Planned versus actual per category
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       budgetID path string true "Budget ID"
// @Param       periodID path string true "Period ID"
// @Success     200 {array} services.PlanningComparison "Comparison rows"
// @Router      /budgets/{budgetID}/periods/{periodID}/comparison [get]
func (h *ReportHandler) GetComparison(c *gin.Context) {
	rows, err := h.aggregatorService.Comparison(c.Request.Context(), scopedPeriod(c).ID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comparison": rows})
}

// ExportXLSX downloads the period report as a spreadsheet.
// @Summary     Export a period
// @Tags        reports
// @Produce     application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security    BearerAuth
// @Param       budgetID path string true "Budget ID"
// @Param       periodID path string true "Period ID"
// @Success     200 {file} binary "Workbook"
// @Router      /budgets/{budgetID}/periods/{periodID}/export.xlsx [get]
func (h *ReportHandler) ExportXLSX(c *gin.Context) {
	period := scopedPeriod(c)
	data, err := h.exportService.ExportPeriodXLSX(c.Request.Context(), scopedBudget(c).ID, period.ID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	filename := fmt.Sprintf("pennyplan_%s_%s.xlsx", period.StartDate, period.EndDate)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}
