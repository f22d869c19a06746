package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"pennyplan/internal/cache"
	apperrors "pennyplan/internal/errors"
	"pennyplan/internal/events"
	"pennyplan/internal/models"
	"pennyplan/internal/money"
)

// Summary is the planned-versus-actual totals of one period.
type Summary struct {
	PeriodID       string      `json:"period_id"`
	PlannedIncome  money.Cents `json:"planned_income"`
	PlannedExpense money.Cents `json:"planned_expense"`
	ActualIncome   money.Cents `json:"actual_income"`
	ActualExpense  money.Cents `json:"actual_expense"`
	Remaining      money.Cents `json:"remaining"`
	NetPlanned     money.Cents `json:"net_planned"`
	NetActual      money.Cents `json:"net_actual"`
}

// PlanningComparison is one category's planned-versus-actual row.
type PlanningComparison struct {
	CategoryID     string           `json:"category_id"`
	CategoryName   string           `json:"category_name"`
	Type           models.EntryType `json:"type"`
	Planned        money.Cents      `json:"planned"`
	Actual         money.Cents      `json:"actual"`
	Remaining      money.Cents      `json:"remaining"`
	PercentageUsed float64          `json:"percentage_used"`
	IsOverBudget   bool             `json:"is_over_budget"`
}

// PeriodReport bundles everything derived for a period.
type PeriodReport struct {
	Summary    Summary
	Comparison []PlanningComparison
}

// aggregatorService computes period reports and caches them until a change
// event for the period arrives.
type aggregatorService struct {
	db      *gorm.DB
	reports *cache.LRU[*PeriodReport]

	mu          sync.Mutex
	generations map[string]uint64
}

// NewAggregatorService creates a new AggregatorServicer whose cache is
// invalidated by plan, transaction and section events on bus.
func NewAggregatorService(db *gorm.DB, bus *events.Bus, cacheSize int, ttl time.Duration) AggregatorServicer {
	s := &aggregatorService{
		db:          db,
		reports:     cache.NewLRU[*PeriodReport](cacheSize, ttl),
		generations: make(map[string]uint64),
	}
	for _, c := range []events.Collection{events.Plans, events.Transactions, events.Sections} {
		bus.Subscribe(c, s.invalidate)
	}
	return s
}

func (s *aggregatorService) invalidate(ev events.Event) {
	if ev.PeriodID == "" {
		return
	}
	s.mu.Lock()
	s.generations[ev.PeriodID]++
	s.mu.Unlock()
	s.reports.Delete(ev.PeriodID)
}

func (s *aggregatorService) generation(periodID string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generations[periodID]
}

// Summary returns the period's totals.
func (s *aggregatorService) Summary(ctx context.Context, periodID string) (*Summary, error) {
	report, err := s.report(ctx, periodID)
	if err != nil {
		return nil, err
	}
	summary := report.Summary
	return &summary, nil
}

// Comparison returns one row per category and entry type that has a plan
// or transactions, sorted by category name then type.
func (s *aggregatorService) Comparison(ctx context.Context, periodID string) ([]PlanningComparison, error) {
	report, err := s.report(ctx, periodID)
	if err != nil {
		return nil, err
	}
	rows := make([]PlanningComparison, len(report.Comparison))
	copy(rows, report.Comparison)
	return rows, nil
}

func (s *aggregatorService) report(ctx context.Context, periodID string) (*PeriodReport, error) {
	if cached, ok := s.reports.Get(periodID); ok {
		return cached, nil
	}

	gen := s.generation(periodID)
	if _, err := findPeriod(ctx, s.db, periodID); err != nil {
		return nil, err
	}

	var (
		plans        []models.Plan
		transactions []models.Transaction
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.db.WithContext(gctx).Where("period_id = ?", periodID).Find(&plans).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Where("period_id = ?", periodID).Find(&transactions).Error
	})
	if err := g.Wait(); err != nil {
		return nil, apperrors.Store(err)
	}

	ids := make(map[string]struct{})
	for _, p := range plans {
		ids[p.CategoryID] = struct{}{}
	}
	for _, t := range transactions {
		ids[t.CategoryID] = struct{}{}
	}
	names := make(map[string]string, len(ids))
	if len(ids) > 0 {
		keys := make([]string, 0, len(ids))
		for id := range ids {
			keys = append(keys, id)
		}
		var categories []models.Category
		// Deleted categories still name their history.
		if err := s.db.WithContext(ctx).Unscoped().Where("id IN ?", keys).Find(&categories).Error; err != nil {
			return nil, apperrors.Store(err)
		}
		for _, c := range categories {
			names[c.ID] = c.Name
		}
	}

	report := computeReport(periodID, plans, transactions, names)
	if s.generation(periodID) == gen {
		s.reports.Set(periodID, report)
	}
	return report, nil
}

type comparisonKey struct {
	categoryID string
	entryType  models.EntryType
}

// computeReport is pure: the same records always give the same report.
func computeReport(periodID string, plans []models.Plan, transactions []models.Transaction, names map[string]string) *PeriodReport {
	planned := TotalsByType(plans)
	actual := TotalsByType(transactions)

	summary := Summary{
		PeriodID:       periodID,
		PlannedIncome:  planned.Income,
		PlannedExpense: planned.Expense,
		ActualIncome:   actual.Income,
		ActualExpense:  actual.Expense,
		Remaining:      planned.Expense.Sub(actual.Expense),
		NetPlanned:     planned.Income.Sub(planned.Expense),
		NetActual:      actual.Income.Sub(actual.Expense),
	}

	rows := make(map[comparisonKey]*PlanningComparison)
	row := func(categoryID string, t models.EntryType) *PlanningComparison {
		k := comparisonKey{categoryID: categoryID, entryType: t}
		r, ok := rows[k]
		if !ok {
			r = &PlanningComparison{CategoryID: categoryID, CategoryName: names[categoryID], Type: t}
			rows[k] = r
		}
		return r
	}
	for _, p := range plans {
		r := row(p.CategoryID, p.Type)
		r.Planned += money.Cents(p.AmountCents)
	}
	for _, t := range transactions {
		r := row(t.CategoryID, t.Type)
		r.Actual += money.Cents(t.AmountCents)
	}

	comparison := make([]PlanningComparison, 0, len(rows))
	for _, r := range rows {
		r.Remaining = r.Planned.Sub(r.Actual)
		r.PercentageUsed = money.Percentage(r.Actual, r.Planned)
		r.IsOverBudget = r.Type == models.EntryTypeExpense && r.Actual > r.Planned
		comparison = append(comparison, *r)
	}
	sort.Slice(comparison, func(i, j int) bool {
		a, b := comparison[i], comparison[j]
		if a.CategoryName != b.CategoryName {
			return a.CategoryName < b.CategoryName
		}
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		return a.CategoryID < b.CategoryID
	})

	return &PeriodReport{Summary: summary, Comparison: comparison}
}
