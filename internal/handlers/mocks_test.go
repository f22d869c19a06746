package handlers

import (
	"context"
	"time"

	"pennyplan/internal/calendar"
	apperrors "pennyplan/internal/errors"
	"pennyplan/internal/models"
	"pennyplan/internal/pagination"
	"pennyplan/internal/services"
)

// --- budgets ---

type mockBudgetService struct {
	getOrCreateDefaultFn func(ownerID string) (*models.Budget, error)
	createBudgetFn       func(ownerID string, in services.BudgetInput) (*models.Budget, error)
	listBudgetsFn        func(ownerID string) ([]models.Budget, error)
	getBudgetFn          func(ownerID, budgetID string) (*models.Budget, error)
	updateBudgetFn       func(ownerID, budgetID string, in services.BudgetInput) (*models.Budget, error)
	deleteBudgetFn       func(ownerID, budgetID string) error
}

func (m *mockBudgetService) GetOrCreateDefaultBudget(_ context.Context, ownerID string) (*models.Budget, error) {
	if m.getOrCreateDefaultFn != nil {
		return m.getOrCreateDefaultFn(ownerID)
	}
	return &models.Budget{Base: models.Base{ID: testBudgetID}, OwnerID: ownerID, Name: models.DefaultBudgetName}, nil
}

func (m *mockBudgetService) CreateBudget(_ context.Context, ownerID string, in services.BudgetInput) (*models.Budget, error) {
	if m.createBudgetFn != nil {
		return m.createBudgetFn(ownerID, in)
	}
	return &models.Budget{Base: models.Base{ID: testBudgetID}, OwnerID: ownerID, Name: in.Name}, nil
}

func (m *mockBudgetService) ListBudgets(_ context.Context, ownerID string) ([]models.Budget, error) {
	if m.listBudgetsFn != nil {
		return m.listBudgetsFn(ownerID)
	}
	return []models.Budget{}, nil
}

func (m *mockBudgetService) GetBudget(_ context.Context, ownerID, budgetID string) (*models.Budget, error) {
	if m.getBudgetFn != nil {
		return m.getBudgetFn(ownerID, budgetID)
	}
	if ownerID != testOwnerID {
		return nil, apperrors.ErrBudgetNotFound
	}
	return &models.Budget{Base: models.Base{ID: budgetID}, OwnerID: ownerID, Name: "Household", CurrencyCode: "USD"}, nil
}

func (m *mockBudgetService) UpdateBudget(_ context.Context, ownerID, budgetID string, in services.BudgetInput) (*models.Budget, error) {
	if m.updateBudgetFn != nil {
		return m.updateBudgetFn(ownerID, budgetID, in)
	}
	return &models.Budget{Base: models.Base{ID: budgetID}, OwnerID: ownerID, Name: in.Name}, nil
}

func (m *mockBudgetService) DeleteBudget(_ context.Context, ownerID, budgetID string) error {
	if m.deleteBudgetFn != nil {
		return m.deleteBudgetFn(ownerID, budgetID)
	}
	return nil
}

var _ services.BudgetServicer = (*mockBudgetService)(nil)

// --- periods ---

type mockPeriodService struct {
	getOrCreateCurrentFn func(budgetID string, today time.Time) (*models.Period, error)
	navigateForwardFn    func(budgetID, fromPeriodID string) (*services.NavigationResult, error)
	navigateBackwardFn   func(budgetID, fromPeriodID string) (*models.Period, error)
	listPeriodsFn        func(budgetID string) ([]models.Period, error)
	getPeriodFn          func(budgetID, periodID string) (*models.Period, error)
	closePeriodFn        func(budgetID, periodID string) (*models.Period, error)
}

func testPeriod(budgetID, periodID string) *models.Period {
	return &models.Period{
		Base:       models.Base{ID: periodID},
		BudgetID:   budgetID,
		PeriodType: models.PeriodTypeMonthly,
		StartDate:  "2025-01-01",
		EndDate:    "2025-01-31",
		Status:     models.PeriodStatusOpen,
		Sequence:   1,
	}
}

func (m *mockPeriodService) GetOrCreateCurrentPeriod(_ context.Context, budgetID string, today time.Time) (*models.Period, error) {
	if m.getOrCreateCurrentFn != nil {
		return m.getOrCreateCurrentFn(budgetID, today)
	}
	return testPeriod(budgetID, testPeriodID), nil
}

func (m *mockPeriodService) ComputeNextPeriod(period *models.Period) (calendar.Range, error) {
	r, err := period.Range()
	if err != nil {
		return calendar.Range{}, err
	}
	return calendar.NextMonthly(r), nil
}

func (m *mockPeriodService) NavigateForward(_ context.Context, budgetID, fromPeriodID string) (*services.NavigationResult, error) {
	if m.navigateForwardFn != nil {
		return m.navigateForwardFn(budgetID, fromPeriodID)
	}
	return &services.NavigationResult{Period: testPeriod(budgetID, testOtherPeriodID), Created: true}, nil
}

func (m *mockPeriodService) NavigateBackward(_ context.Context, budgetID, fromPeriodID string) (*models.Period, error) {
	if m.navigateBackwardFn != nil {
		return m.navigateBackwardFn(budgetID, fromPeriodID)
	}
	return nil, apperrors.ErrPeriodNotFound
}

func (m *mockPeriodService) ListPeriods(_ context.Context, budgetID string) ([]models.Period, error) {
	if m.listPeriodsFn != nil {
		return m.listPeriodsFn(budgetID)
	}
	return []models.Period{*testPeriod(budgetID, testPeriodID)}, nil
}

func (m *mockPeriodService) GetPeriod(_ context.Context, budgetID, periodID string) (*models.Period, error) {
	if m.getPeriodFn != nil {
		return m.getPeriodFn(budgetID, periodID)
	}
	return testPeriod(budgetID, periodID), nil
}

func (m *mockPeriodService) ClosePeriod(_ context.Context, budgetID, periodID string) (*models.Period, error) {
	if m.closePeriodFn != nil {
		return m.closePeriodFn(budgetID, periodID)
	}
	p := testPeriod(budgetID, periodID)
	p.Status = models.PeriodStatusClosed
	return p, nil
}

var _ services.PeriodServicer = (*mockPeriodService)(nil)

// --- categories ---

type mockCategoryService struct {
	createHeadFn     func(budgetID, name string, preferType models.EntryType) (*models.HeadCategory, error)
	listHeadsFn      func(budgetID string, includeArchived bool) ([]models.HeadCategory, error)
	renameHeadFn     func(budgetID, headID, name string) (*models.HeadCategory, error)
	deleteHeadFn     func(budgetID, headID string) error
	createCategoryFn func(budgetID string, in services.CategoryInput) (*models.Category, error)
	getCategoryFn    func(budgetID, categoryID string) (*models.Category, error)
	updateCategoryFn func(budgetID, categoryID string, in services.CategoryInput) (*models.Category, error)
	setArchivedFn    func(budgetID, categoryID string, archived bool) (*models.Category, error)
	deleteCategoryFn func(budgetID, categoryID string) error
}

func (m *mockCategoryService) SeedSystemCategories(context.Context, string) error { return nil }

func (m *mockCategoryService) CreateHeadCategory(_ context.Context, budgetID, name string, preferType models.EntryType) (*models.HeadCategory, error) {
	if m.createHeadFn != nil {
		return m.createHeadFn(budgetID, name, preferType)
	}
	return &models.HeadCategory{Base: models.Base{ID: testHeadID}, BudgetID: budgetID, Name: name, PreferType: preferType}, nil
}

func (m *mockCategoryService) ListHeadCategories(_ context.Context, budgetID string, includeArchived bool) ([]models.HeadCategory, error) {
	if m.listHeadsFn != nil {
		return m.listHeadsFn(budgetID, includeArchived)
	}
	return []models.HeadCategory{}, nil
}

func (m *mockCategoryService) RenameHeadCategory(_ context.Context, budgetID, headID, name string) (*models.HeadCategory, error) {
	if m.renameHeadFn != nil {
		return m.renameHeadFn(budgetID, headID, name)
	}
	return &models.HeadCategory{Base: models.Base{ID: headID}, BudgetID: budgetID, Name: name}, nil
}

func (m *mockCategoryService) DeleteHeadCategory(_ context.Context, budgetID, headID string) error {
	if m.deleteHeadFn != nil {
		return m.deleteHeadFn(budgetID, headID)
	}
	return nil
}

func (m *mockCategoryService) CreateCategory(_ context.Context, budgetID string, in services.CategoryInput) (*models.Category, error) {
	if m.createCategoryFn != nil {
		return m.createCategoryFn(budgetID, in)
	}
	return &models.Category{Base: models.Base{ID: testCategoryID}, HeadCategoryID: in.HeadCategoryID, Name: in.Name}, nil
}

func (m *mockCategoryService) GetCategory(_ context.Context, budgetID, categoryID string) (*models.Category, error) {
	if m.getCategoryFn != nil {
		return m.getCategoryFn(budgetID, categoryID)
	}
	return &models.Category{Base: models.Base{ID: categoryID}, Name: "Groceries"}, nil
}

func (m *mockCategoryService) UpdateCategory(_ context.Context, budgetID, categoryID string, in services.CategoryInput) (*models.Category, error) {
	if m.updateCategoryFn != nil {
		return m.updateCategoryFn(budgetID, categoryID, in)
	}
	return &models.Category{Base: models.Base{ID: categoryID}, Name: in.Name}, nil
}

func (m *mockCategoryService) SetArchived(_ context.Context, budgetID, categoryID string, archived bool) (*models.Category, error) {
	if m.setArchivedFn != nil {
		return m.setArchivedFn(budgetID, categoryID, archived)
	}
	return &models.Category{Base: models.Base{ID: categoryID}, IsArchived: archived}, nil
}

func (m *mockCategoryService) DeleteCategory(_ context.Context, budgetID, categoryID string) error {
	if m.deleteCategoryFn != nil {
		return m.deleteCategoryFn(budgetID, categoryID)
	}
	return nil
}

var _ services.CategoryServicer = (*mockCategoryService)(nil)

// --- sections and assignments ---

type mockSectionService struct {
	createSectionFn   func(periodID, name string) (*models.Section, error)
	getSectionFn      func(periodID, sectionID string) (*models.Section, error)
	renameSectionFn   func(periodID, sectionID, name string) (*models.Section, error)
	deleteSectionFn   func(periodID, sectionID string) error
	reorderSectionsFn func(periodID string, from, to int) ([]models.Section, error)
	listSectionsFn    func(periodID string) ([]models.Section, error)
}

func (m *mockSectionService) CreateSection(_ context.Context, periodID, name string) (*models.Section, error) {
	if m.createSectionFn != nil {
		return m.createSectionFn(periodID, name)
	}
	return &models.Section{Base: models.Base{ID: testSectionID}, PeriodID: periodID, Name: name}, nil
}

func (m *mockSectionService) GetSection(_ context.Context, periodID, sectionID string) (*models.Section, error) {
	if m.getSectionFn != nil {
		return m.getSectionFn(periodID, sectionID)
	}
	return &models.Section{Base: models.Base{ID: sectionID}, PeriodID: periodID, Name: "Needs"}, nil
}

func (m *mockSectionService) RenameSection(_ context.Context, periodID, sectionID, name string) (*models.Section, error) {
	if m.renameSectionFn != nil {
		return m.renameSectionFn(periodID, sectionID, name)
	}
	return &models.Section{Base: models.Base{ID: sectionID}, PeriodID: periodID, Name: name}, nil
}

func (m *mockSectionService) DeleteSection(_ context.Context, periodID, sectionID string) error {
	if m.deleteSectionFn != nil {
		return m.deleteSectionFn(periodID, sectionID)
	}
	return nil
}

func (m *mockSectionService) ReorderSections(_ context.Context, periodID string, from, to int) ([]models.Section, error) {
	if m.reorderSectionsFn != nil {
		return m.reorderSectionsFn(periodID, from, to)
	}
	return []models.Section{}, nil
}

func (m *mockSectionService) ListSections(_ context.Context, periodID string) ([]models.Section, error) {
	if m.listSectionsFn != nil {
		return m.listSectionsFn(periodID)
	}
	return []models.Section{}, nil
}

var _ services.SectionServicer = (*mockSectionService)(nil)

type mockAssignmentService struct {
	assignFn   func(categoryID, sectionID string, position *int) (*models.CategoryMapping, error)
	moveFn     func(categoryID, fromSectionID, toSectionID string, position *int) (*models.CategoryMapping, error)
	reorderFn  func(sectionID string, from, to int) ([]models.CategoryMapping, error)
	unassignFn func(categoryID, sectionID string) error
}

func (m *mockAssignmentService) Assign(_ context.Context, categoryID, sectionID string, position *int) (*models.CategoryMapping, error) {
	if m.assignFn != nil {
		return m.assignFn(categoryID, sectionID, position)
	}
	return &models.CategoryMapping{SectionID: sectionID, CategoryID: categoryID}, nil
}

func (m *mockAssignmentService) Move(_ context.Context, categoryID, fromSectionID, toSectionID string, position *int) (*models.CategoryMapping, error) {
	if m.moveFn != nil {
		return m.moveFn(categoryID, fromSectionID, toSectionID, position)
	}
	return &models.CategoryMapping{SectionID: toSectionID, CategoryID: categoryID}, nil
}

func (m *mockAssignmentService) Reorder(_ context.Context, sectionID string, from, to int) ([]models.CategoryMapping, error) {
	if m.reorderFn != nil {
		return m.reorderFn(sectionID, from, to)
	}
	return []models.CategoryMapping{}, nil
}

func (m *mockAssignmentService) Unassign(_ context.Context, categoryID, sectionID string) error {
	if m.unassignFn != nil {
		return m.unassignFn(categoryID, sectionID)
	}
	return nil
}

var _ services.AssignmentServicer = (*mockAssignmentService)(nil)

// --- plans ---

type mockPlanService struct {
	upsertFn func(in services.PlanInput) (*models.Plan, error)
	getFn    func(periodID, planID string) (*models.Plan, error)
	listFn   func(periodID string) ([]models.Plan, error)
	deleteFn func(periodID, planID string) error
}

func (m *mockPlanService) CreateOrUpdatePlan(_ context.Context, in services.PlanInput) (*models.Plan, error) {
	if m.upsertFn != nil {
		return m.upsertFn(in)
	}
	return &models.Plan{PeriodID: in.PeriodID, CategoryID: in.CategoryID, Type: in.Type, AmountCents: in.AmountCents}, nil
}

func (m *mockPlanService) GetPlan(_ context.Context, periodID, planID string) (*models.Plan, error) {
	if m.getFn != nil {
		return m.getFn(periodID, planID)
	}
	return &models.Plan{Base: models.Base{ID: planID}, PeriodID: periodID}, nil
}

func (m *mockPlanService) ListPlans(_ context.Context, periodID string) ([]models.Plan, error) {
	if m.listFn != nil {
		return m.listFn(periodID)
	}
	return []models.Plan{}, nil
}

func (m *mockPlanService) DeletePlan(_ context.Context, periodID, planID string) error {
	if m.deleteFn != nil {
		return m.deleteFn(periodID, planID)
	}
	return nil
}

var _ services.PlanServicer = (*mockPlanService)(nil)

// --- transactions ---

type mockTransactionService struct {
	createFn func(budgetID string, in services.TransactionInput) (*models.Transaction, error)
	getFn    func(budgetID, transactionID string) (*models.Transaction, error)
	updateFn func(budgetID, transactionID string, patch services.TransactionPatch) (*models.Transaction, error)
	deleteFn func(budgetID, transactionID string) error
	listFn   func(budgetID string, filter services.TransactionFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error)
}

func (m *mockTransactionService) CreateTransaction(_ context.Context, budgetID string, in services.TransactionInput) (*models.Transaction, error) {
	if m.createFn != nil {
		return m.createFn(budgetID, in)
	}
	return &models.Transaction{BudgetID: budgetID, PeriodID: in.PeriodID, CategoryID: in.CategoryID, Type: in.Type, AmountCents: in.AmountCents, Date: in.Date}, nil
}

func (m *mockTransactionService) GetTransaction(_ context.Context, budgetID, transactionID string) (*models.Transaction, error) {
	if m.getFn != nil {
		return m.getFn(budgetID, transactionID)
	}
	return &models.Transaction{Base: models.Base{ID: transactionID}, BudgetID: budgetID}, nil
}

func (m *mockTransactionService) UpdateTransaction(_ context.Context, budgetID, transactionID string, patch services.TransactionPatch) (*models.Transaction, error) {
	if m.updateFn != nil {
		return m.updateFn(budgetID, transactionID, patch)
	}
	return &models.Transaction{Base: models.Base{ID: transactionID}, BudgetID: budgetID}, nil
}

func (m *mockTransactionService) DeleteTransaction(_ context.Context, budgetID, transactionID string) error {
	if m.deleteFn != nil {
		return m.deleteFn(budgetID, transactionID)
	}
	return nil
}

func (m *mockTransactionService) ListTransactions(_ context.Context, budgetID string, filter services.TransactionFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error) {
	if m.listFn != nil {
		return m.listFn(budgetID, filter, page)
	}
	resp := pagination.NewPageResponse([]models.Transaction{}, 1, 20, 0)
	return &resp, nil
}

var _ services.TransactionServicer = (*mockTransactionService)(nil)

// --- rollover, reports, export ---

type mockRolloverService struct {
	rolloverFn      func(budgetID, sourcePeriodID string, copyStructure bool) (*services.RolloverResult, error)
	copyStructureFn func(sourcePeriodID, targetPeriodID string) (*services.RolloverResult, error)
}

func (m *mockRolloverService) Rollover(_ context.Context, budgetID, sourcePeriodID string, copyStructure bool) (*services.RolloverResult, error) {
	if m.rolloverFn != nil {
		return m.rolloverFn(budgetID, sourcePeriodID, copyStructure)
	}
	return &services.RolloverResult{Created: true}, nil
}

func (m *mockRolloverService) CopyStructure(_ context.Context, sourcePeriodID, targetPeriodID string) (*services.RolloverResult, error) {
	if m.copyStructureFn != nil {
		return m.copyStructureFn(sourcePeriodID, targetPeriodID)
	}
	return &services.RolloverResult{}, nil
}

var _ services.RolloverServicer = (*mockRolloverService)(nil)

type mockAggregatorService struct {
	summaryFn    func(periodID string) (*services.Summary, error)
	comparisonFn func(periodID string) ([]services.PlanningComparison, error)
}

func (m *mockAggregatorService) Summary(_ context.Context, periodID string) (*services.Summary, error) {
	if m.summaryFn != nil {
		return m.summaryFn(periodID)
	}
	return &services.Summary{PeriodID: periodID}, nil
}

func (m *mockAggregatorService) Comparison(_ context.Context, periodID string) ([]services.PlanningComparison, error) {
	if m.comparisonFn != nil {
		return m.comparisonFn(periodID)
	}
	return []services.PlanningComparison{}, nil
}

var _ services.AggregatorServicer = (*mockAggregatorService)(nil)

type mockExportService struct {
	exportFn func(budgetID, periodID string) ([]byte, error)
}

func (m *mockExportService) ExportPeriodXLSX(_ context.Context, budgetID, periodID string) ([]byte, error) {
	if m.exportFn != nil {
		return m.exportFn(budgetID, periodID)
	}
	return []byte("PK"), nil
}

var _ services.ExportServicer = (*mockExportService)(nil)

// --- recurring ---

type mockRecurringService struct {
	createFn         func(budgetID string, in services.RecurringInput) (*models.RecurringTransactionSeries, error)
	getFn            func(budgetID, seriesID string) (*models.RecurringTransactionSeries, error)
	listFn           func(budgetID string) ([]models.RecurringTransactionSeries, error)
	updateFn         func(budgetID, seriesID string, in services.RecurringInput) (*models.RecurringTransactionSeries, error)
	setPausedFn      func(budgetID, seriesID string, paused bool) (*models.RecurringTransactionSeries, error)
	deleteFn         func(budgetID, seriesID string) error
	materializeFn    func(budgetID string, asOf time.Time) (*services.MaterializeResult, error)
	materializeAllFn func(asOf time.Time) (*services.MaterializeResult, error)
}

func (m *mockRecurringService) CreateSeries(_ context.Context, budgetID string, in services.RecurringInput) (*models.RecurringTransactionSeries, error) {
	if m.createFn != nil {
		return m.createFn(budgetID, in)
	}
	return &models.RecurringTransactionSeries{BudgetID: budgetID, CategoryID: in.CategoryID, Frequency: in.Frequency}, nil
}

func (m *mockRecurringService) GetSeries(_ context.Context, budgetID, seriesID string) (*models.RecurringTransactionSeries, error) {
	if m.getFn != nil {
		return m.getFn(budgetID, seriesID)
	}
	return &models.RecurringTransactionSeries{Base: models.Base{ID: seriesID}, BudgetID: budgetID}, nil
}

func (m *mockRecurringService) ListSeries(_ context.Context, budgetID string) ([]models.RecurringTransactionSeries, error) {
	if m.listFn != nil {
		return m.listFn(budgetID)
	}
	return []models.RecurringTransactionSeries{}, nil
}

func (m *mockRecurringService) UpdateSeries(_ context.Context, budgetID, seriesID string, in services.RecurringInput) (*models.RecurringTransactionSeries, error) {
	if m.updateFn != nil {
		return m.updateFn(budgetID, seriesID, in)
	}
	return &models.RecurringTransactionSeries{Base: models.Base{ID: seriesID}, BudgetID: budgetID}, nil
}

func (m *mockRecurringService) SetPaused(_ context.Context, budgetID, seriesID string, paused bool) (*models.RecurringTransactionSeries, error) {
	if m.setPausedFn != nil {
		return m.setPausedFn(budgetID, seriesID, paused)
	}
	return &models.RecurringTransactionSeries{Base: models.Base{ID: seriesID}, BudgetID: budgetID, IsPaused: paused}, nil
}

func (m *mockRecurringService) DeleteSeries(_ context.Context, budgetID, seriesID string) error {
	if m.deleteFn != nil {
		return m.deleteFn(budgetID, seriesID)
	}
	return nil
}

func (m *mockRecurringService) MaterializeDue(_ context.Context, budgetID string, asOf time.Time) (*services.MaterializeResult, error) {
	if m.materializeFn != nil {
		return m.materializeFn(budgetID, asOf)
	}
	return &services.MaterializeResult{}, nil
}

func (m *mockRecurringService) MaterializeAllDue(_ context.Context, asOf time.Time) (*services.MaterializeResult, error) {
	if m.materializeAllFn != nil {
		return m.materializeAllFn(asOf)
	}
	return &services.MaterializeResult{}, nil
}

var _ services.RecurringServicer = (*mockRecurringService)(nil)

// --- liabilities and activity ---

type mockLiabilityService struct {
	createFn func(budgetID, name string, principal int64, notes string) (*models.Liability, error)
	getFn    func(budgetID, liabilityID string) (*services.LiabilityBalance, error)
	listFn   func(budgetID string) ([]services.LiabilityBalance, error)
	updateFn func(budgetID, liabilityID string, name *string, principal *int64, notes *string) (*models.Liability, error)
	deleteFn func(budgetID, liabilityID string) error
}

func (m *mockLiabilityService) CreateLiability(_ context.Context, budgetID, name string, principal int64, notes string) (*models.Liability, error) {
	if m.createFn != nil {
		return m.createFn(budgetID, name, principal, notes)
	}
	return &models.Liability{BudgetID: budgetID, Name: name, PrincipalCents: principal, Notes: notes}, nil
}

func (m *mockLiabilityService) GetLiability(_ context.Context, budgetID, liabilityID string) (*services.LiabilityBalance, error) {
	if m.getFn != nil {
		return m.getFn(budgetID, liabilityID)
	}
	return &services.LiabilityBalance{Liability: models.Liability{Base: models.Base{ID: liabilityID}, BudgetID: budgetID}}, nil
}

func (m *mockLiabilityService) ListLiabilities(_ context.Context, budgetID string) ([]services.LiabilityBalance, error) {
	if m.listFn != nil {
		return m.listFn(budgetID)
	}
	return []services.LiabilityBalance{}, nil
}

func (m *mockLiabilityService) UpdateLiability(_ context.Context, budgetID, liabilityID string, name *string, principal *int64, notes *string) (*models.Liability, error) {
	if m.updateFn != nil {
		return m.updateFn(budgetID, liabilityID, name, principal, notes)
	}
	return &models.Liability{Base: models.Base{ID: liabilityID}, BudgetID: budgetID}, nil
}

func (m *mockLiabilityService) DeleteLiability(_ context.Context, budgetID, liabilityID string) error {
	if m.deleteFn != nil {
		return m.deleteFn(budgetID, liabilityID)
	}
	return nil
}

var _ services.LiabilityServicer = (*mockLiabilityService)(nil)

type mockActivityService struct {
	listFn func(budgetID string, page pagination.PageRequest) (*pagination.PageResponse[models.ActivityLog], error)
}

func (m *mockActivityService) Record(context.Context, services.Activity) {}

func (m *mockActivityService) List(_ context.Context, budgetID string, page pagination.PageRequest) (*pagination.PageResponse[models.ActivityLog], error) {
	if m.listFn != nil {
		return m.listFn(budgetID, page)
	}
	resp := pagination.NewPageResponse([]models.ActivityLog{}, 1, 20, 0)
	return &resp, nil
}

var _ services.ActivityServicer = (*mockActivityService)(nil)
