package handlers

import (
	"github.com/gin-gonic/gin"
)

// Routes bundles every handler mounted under the authenticated API group.
type Routes struct {
	Scope        *Scope
	Budgets      *BudgetHandler
	Categories   *CategoryHandler
	Periods      *PeriodHandler
	Sections     *SectionHandler
	Plans        *PlanHandler
	Transactions *TransactionHandler
	Reports      *ReportHandler
	Recurring    *RecurringHandler
	Liabilities  *LiabilityHandler
	Activity     *ActivityHandler
	Events       *EventsHandler
}

// Register mounts the budget tree on an authenticated group.
func (rt *Routes) Register(protected *gin.RouterGroup) {
	protected.GET("/budgets", rt.Budgets.ListBudgets)
	protected.POST("/budgets", rt.Budgets.CreateBudget)
	protected.GET("/budgets/default", rt.Budgets.GetDefaultBudget)

	budget := protected.Group("/budgets/:budgetID", rt.Scope.Budget())
	budget.GET("", rt.Budgets.GetBudget)
	budget.PUT("", rt.Budgets.UpdateBudget)
	budget.DELETE("", rt.Budgets.DeleteBudget)

	budget.GET("/categories", rt.Categories.ListCategories)
	budget.POST("/categories", rt.Categories.CreateCategory)
	budget.GET("/categories/:categoryID", rt.Categories.GetCategory)
	budget.PUT("/categories/:categoryID", rt.Categories.UpdateCategory)
	budget.POST("/categories/:categoryID/archive", rt.Categories.ArchiveCategory)
	budget.DELETE("/categories/:categoryID", rt.Categories.DeleteCategory)
	budget.POST("/head-categories", rt.Categories.CreateHeadCategory)
	budget.PUT("/head-categories/:headID", rt.Categories.RenameHeadCategory)
	budget.DELETE("/head-categories/:headID", rt.Categories.DeleteHeadCategory)

	budget.GET("/periods", rt.Periods.ListPeriods)
	budget.GET("/periods/current", rt.Periods.GetCurrentPeriod)

	period := budget.Group("/periods/:periodID", rt.Scope.Period())
	period.GET("", rt.Periods.GetPeriod)
	period.POST("/next", rt.Periods.NextPeriod)
	period.GET("/previous", rt.Periods.PreviousPeriod)
	period.POST("/close", rt.Periods.ClosePeriod)
	period.POST("/rollover", rt.Periods.Rollover)
	period.POST("/copy-structure", rt.Periods.CopyStructure)

	period.GET("/sections", rt.Sections.ListSections)
	period.POST("/sections", rt.Sections.CreateSection)
	period.POST("/sections/reorder", rt.Sections.ReorderSections)
	period.GET("/sections/:sectionID", rt.Sections.GetSection)
	period.PUT("/sections/:sectionID", rt.Sections.RenameSection)
	period.DELETE("/sections/:sectionID", rt.Sections.DeleteSection)
	period.POST("/sections/:sectionID/categories", rt.Sections.AssignCategory)
	period.POST("/sections/:sectionID/categories/reorder", rt.Sections.ReorderCategories)
	period.DELETE("/sections/:sectionID/categories/:categoryID", rt.Sections.UnassignCategory)
	period.POST("/assignments/move", rt.Sections.MoveCategory)

	period.GET("/plans", rt.Plans.ListPlans)
	period.PUT("/plans", rt.Plans.UpsertPlan)
	period.GET("/plans/:planID", rt.Plans.GetPlan)
	period.DELETE("/plans/:planID", rt.Plans.DeletePlan)

	period.GET("/summary", rt.Reports.GetSummary)
	period.GET("/comparison", rt.Reports.GetComparison)
	period.GET("/export.xlsx", rt.Reports.ExportXLSX)

	budget.GET("/transactions", rt.Transactions.ListTransactions)
	budget.POST("/transactions", rt.Transactions.CreateTransaction)
	budget.GET("/transactions/:transactionID", rt.Transactions.GetTransaction)
	budget.PATCH("/transactions/:transactionID", rt.Transactions.UpdateTransaction)
	budget.DELETE("/transactions/:transactionID", rt.Transactions.DeleteTransaction)

	budget.GET("/recurring", rt.Recurring.ListSeries)
	budget.POST("/recurring", rt.Recurring.CreateSeries)
	budget.POST("/recurring/run", rt.Recurring.RunDue)
	budget.GET("/recurring/:seriesID", rt.Recurring.GetSeries)
	budget.PUT("/recurring/:seriesID", rt.Recurring.UpdateSeries)
	budget.DELETE("/recurring/:seriesID", rt.Recurring.DeleteSeries)
	budget.POST("/recurring/:seriesID/pause", rt.Recurring.PauseSeries)
	budget.POST("/recurring/:seriesID/resume", rt.Recurring.ResumeSeries)

	budget.GET("/liabilities", rt.Liabilities.ListLiabilities)
	budget.POST("/liabilities", rt.Liabilities.CreateLiability)
	budget.GET("/liabilities/:liabilityID", rt.Liabilities.GetLiability)
	budget.PATCH("/liabilities/:liabilityID", rt.Liabilities.UpdateLiability)
	budget.DELETE("/liabilities/:liabilityID", rt.Liabilities.DeleteLiability)

	budget.GET("/activity", rt.Activity.ListActivity)
	budget.GET("/events", rt.Events.Stream)
}

// RegisterMaintenance mounts endpoints guarded by the maintenance API key.
func (rt *Routes) RegisterMaintenance(internal *gin.RouterGroup) {
	internal.POST("/recurring/run", rt.Recurring.RunAllDue)
}
