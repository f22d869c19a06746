package services

import (
	"context"
	"time"

	"pennyplan/internal/calendar"
	"pennyplan/internal/models"
	"pennyplan/internal/pagination"
)

// BudgetInput carries the user-editable fields of a budget.
type BudgetInput struct {
	Name         string
	Icon         string
	Color        string
	CurrencyCode string
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	GetOrCreateDefaultBudget(ctx context.Context, ownerID string) (*models.Budget, error)
	CreateBudget(ctx context.Context, ownerID string, in BudgetInput) (*models.Budget, error)
	ListBudgets(ctx context.Context, ownerID string) ([]models.Budget, error)
	GetBudget(ctx context.Context, ownerID, budgetID string) (*models.Budget, error)
	UpdateBudget(ctx context.Context, ownerID, budgetID string, in BudgetInput) (*models.Budget, error)
	DeleteBudget(ctx context.Context, ownerID, budgetID string) error
}

// CategoryInput carries the user-editable fields of a category.
type CategoryInput struct {
	HeadCategoryID string
	Name           string
	Icon           string
	Color          string
}

// CategoryServicer defines the contract for the category catalogue.
type CategoryServicer interface {
	SeedSystemCategories(ctx context.Context, budgetID string) error
	CreateHeadCategory(ctx context.Context, budgetID, name string, preferType models.EntryType) (*models.HeadCategory, error)
	ListHeadCategories(ctx context.Context, budgetID string, includeArchived bool) ([]models.HeadCategory, error)
	RenameHeadCategory(ctx context.Context, budgetID, headID, name string) (*models.HeadCategory, error)
	DeleteHeadCategory(ctx context.Context, budgetID, headID string) error
	CreateCategory(ctx context.Context, budgetID string, in CategoryInput) (*models.Category, error)
	GetCategory(ctx context.Context, budgetID, categoryID string) (*models.Category, error)
	UpdateCategory(ctx context.Context, budgetID, categoryID string, in CategoryInput) (*models.Category, error)
	SetArchived(ctx context.Context, budgetID, categoryID string, archived bool) (*models.Category, error)
	DeleteCategory(ctx context.Context, budgetID, categoryID string) error
}

// NavigationResult is the outcome of moving to an adjacent period. Created
// is set when the period did not exist before, which is the cue to offer a
// structure copy.
type NavigationResult struct {
	Period  *models.Period `json:"period"`
	Created bool           `json:"created"`
}

// PeriodServicer defines the contract for period lifecycle management.
type PeriodServicer interface {
	GetOrCreateCurrentPeriod(ctx context.Context, budgetID string, today time.Time) (*models.Period, error)
	ComputeNextPeriod(period *models.Period) (calendar.Range, error)
	NavigateForward(ctx context.Context, budgetID, fromPeriodID string) (*NavigationResult, error)
	NavigateBackward(ctx context.Context, budgetID, fromPeriodID string) (*models.Period, error)
	ListPeriods(ctx context.Context, budgetID string) ([]models.Period, error)
	GetPeriod(ctx context.Context, budgetID, periodID string) (*models.Period, error)
	ClosePeriod(ctx context.Context, budgetID, periodID string) (*models.Period, error)
}

// SectionServicer defines the contract for section structure within a period.
type SectionServicer interface {
	CreateSection(ctx context.Context, periodID, name string) (*models.Section, error)
	GetSection(ctx context.Context, periodID, sectionID string) (*models.Section, error)
	RenameSection(ctx context.Context, periodID, sectionID, name string) (*models.Section, error)
	DeleteSection(ctx context.Context, periodID, sectionID string) error
	ReorderSections(ctx context.Context, periodID string, from, to int) ([]models.Section, error)
	ListSections(ctx context.Context, periodID string) ([]models.Section, error)
}

// AssignmentServicer places categories into sections. A category is mapped
// to at most one section per period.
type AssignmentServicer interface {
	Assign(ctx context.Context, categoryID, sectionID string, position *int) (*models.CategoryMapping, error)
	Move(ctx context.Context, categoryID, fromSectionID, toSectionID string, position *int) (*models.CategoryMapping, error)
	Reorder(ctx context.Context, sectionID string, from, to int) ([]models.CategoryMapping, error)
	Unassign(ctx context.Context, categoryID, sectionID string) error
}

// PlanInput is a plan upsert request keyed by (PeriodID, CategoryID).
type PlanInput struct {
	PeriodID    string
	CategoryID  string
	Type        models.EntryType
	AmountCents int64
	Notes       string
}

// PlanServicer defines the contract for planned amounts.
type PlanServicer interface {
	CreateOrUpdatePlan(ctx context.Context, in PlanInput) (*models.Plan, error)
	GetPlan(ctx context.Context, periodID, planID string) (*models.Plan, error)
	ListPlans(ctx context.Context, periodID string) ([]models.Plan, error)
	DeletePlan(ctx context.Context, periodID, planID string) error
}

// TransactionInput describes a new transaction. A zero Date means now.
type TransactionInput struct {
	PeriodID    string
	CategoryID  string
	Type        models.EntryType
	AmountCents int64
	Date        time.Time
	Notes       string
	LiabilityID *string
}

// TransactionPatch is a partial update; nil fields are left unchanged.
type TransactionPatch struct {
	PeriodID    *string
	CategoryID  *string
	Type        *models.EntryType
	AmountCents *int64
	Date        *time.Time
	Notes       *string
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	PeriodID    *string
	CategoryID  *string
	LiabilityID *string
	Type        *models.EntryType
	FromDate    *time.Time
	ToDate      *time.Time
	MinAmount   *int64
	MaxAmount   *int64
}

// TransactionServicer defines the contract for actual inflows and outflows.
type TransactionServicer interface {
	CreateTransaction(ctx context.Context, budgetID string, in TransactionInput) (*models.Transaction, error)
	GetTransaction(ctx context.Context, budgetID, transactionID string) (*models.Transaction, error)
	UpdateTransaction(ctx context.Context, budgetID, transactionID string, patch TransactionPatch) (*models.Transaction, error)
	DeleteTransaction(ctx context.Context, budgetID, transactionID string) error
	ListTransactions(ctx context.Context, budgetID string, filter TransactionFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error)
}

// RolloverServicer replicates one period's structure and plans into its
// successor.
type RolloverServicer interface {
	Rollover(ctx context.Context, budgetID, sourcePeriodID string, copyStructure bool) (*RolloverResult, error)
	CopyStructure(ctx context.Context, sourcePeriodID, targetPeriodID string) (*RolloverResult, error)
}

// AggregatorServicer derives planned-versus-actual figures for a period.
type AggregatorServicer interface {
	Summary(ctx context.Context, periodID string) (*Summary, error)
	Comparison(ctx context.Context, periodID string) ([]PlanningComparison, error)
}

// Activity is one entry for the shared activity feed.
type Activity struct {
	BudgetID    string
	Module      string
	Action      string
	Title       string
	Description string
	Metadata    map[string]any
}

// ActivityServicer records activity. Recording never fails the caller.
type ActivityServicer interface {
	Record(ctx context.Context, a Activity)
	List(ctx context.Context, budgetID string, page pagination.PageRequest) (*pagination.PageResponse[models.ActivityLog], error)
}

// RecurringInput describes a recurring series.
type RecurringInput struct {
	CategoryID  string
	Type        models.EntryType
	AmountCents int64
	Notes       string
	Frequency   models.Frequency
	Interval    int
	StartDate   time.Time
	EndDate     *time.Time
}

// RecurringServicer defines the contract for recurring transaction series.
type RecurringServicer interface {
	CreateSeries(ctx context.Context, budgetID string, in RecurringInput) (*models.RecurringTransactionSeries, error)
	GetSeries(ctx context.Context, budgetID, seriesID string) (*models.RecurringTransactionSeries, error)
	ListSeries(ctx context.Context, budgetID string) ([]models.RecurringTransactionSeries, error)
	UpdateSeries(ctx context.Context, budgetID, seriesID string, in RecurringInput) (*models.RecurringTransactionSeries, error)
	SetPaused(ctx context.Context, budgetID, seriesID string, paused bool) (*models.RecurringTransactionSeries, error)
	DeleteSeries(ctx context.Context, budgetID, seriesID string) error
	MaterializeDue(ctx context.Context, budgetID string, asOf time.Time) (*MaterializeResult, error)
	MaterializeAllDue(ctx context.Context, asOf time.Time) (*MaterializeResult, error)
}

// LiabilityBalance is a liability with its derived repayment figures.
type LiabilityBalance struct {
	models.Liability
	PaidCents        int64 `json:"paid_cents"`
	OutstandingCents int64 `json:"outstanding_cents"`
}

// LiabilityServicer defines the contract for liabilities.
type LiabilityServicer interface {
	CreateLiability(ctx context.Context, budgetID, name string, principal int64, notes string) (*models.Liability, error)
	GetLiability(ctx context.Context, budgetID, liabilityID string) (*LiabilityBalance, error)
	ListLiabilities(ctx context.Context, budgetID string) ([]LiabilityBalance, error)
	UpdateLiability(ctx context.Context, budgetID, liabilityID string, name *string, principal *int64, notes *string) (*models.Liability, error)
	DeleteLiability(ctx context.Context, budgetID, liabilityID string) error
}

// ExportServicer renders period reports as spreadsheets.
type ExportServicer interface {
	ExportPeriodXLSX(ctx context.Context, budgetID, periodID string) ([]byte, error)
}
