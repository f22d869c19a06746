package services

import (
	"context"

	"gorm.io/gorm"

	apperrors "pennyplan/internal/errors"
	"pennyplan/internal/events"
	"pennyplan/internal/models"
)

// planService handles planned amounts per category and period.
type planService struct {
	db       *gorm.DB
	gate     *WriterGate
	bus      *events.Bus
	activity ActivityServicer
}

// NewPlanService creates a new PlanServicer.
func NewPlanService(db *gorm.DB, gate *WriterGate, bus *events.Bus, activity ActivityServicer) PlanServicer {
	return &planService{db: db, gate: gate, bus: bus, activity: activity}
}

func (s *planService) record(ctx context.Context, period *models.Period, plan *models.Plan, action, title string) {
	s.activity.Record(ctx, Activity{
		BudgetID: period.BudgetID,
		Action:   action,
		Title:    title,
		Metadata: map[string]any{"period_id": period.ID, "plan_id": plan.ID, "category_id": plan.CategoryID, "amount_cents": plan.AmountCents},
	})
}

func validatePlanInput(in PlanInput) error {
	if in.AmountCents < 0 {
		return apperrors.Validation("amount", "must not be negative")
	}
	if !in.Type.Valid() {
		return apperrors.Validation("type", "must be INCOME or EXPENSE")
	}
	if err := requireID("period_id", in.PeriodID); err != nil {
		return err
	}
	return requireID("category_id", in.CategoryID)
}

// CreateOrUpdatePlan updates the plan for (PeriodID, CategoryID) when one
// exists and creates it otherwise.
func (s *planService) CreateOrUpdatePlan(ctx context.Context, in PlanInput) (*models.Plan, error) {
	if err := validatePlanInput(in); err != nil {
		return nil, err
	}
	period, err := findPeriod(ctx, s.db, in.PeriodID)
	if err != nil {
		return nil, err
	}
	if _, err := findCategory(ctx, s.db, period.BudgetID, in.CategoryID); err != nil {
		return nil, err
	}

	var plan *models.Plan
	var created bool
	err = s.gate.Do(ctx, period.BudgetID, func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var upsertErr error
			plan, created, upsertErr = upsertPlan(tx, in)
			return upsertErr
		})
	})
	if err != nil {
		return nil, gateError(err)
	}

	action := events.ActionUpdated
	if created {
		action = events.ActionCreated
	}
	publishLedger(s.bus, events.Event{Collection: events.Plans, Action: action, BudgetID: period.BudgetID, PeriodID: period.ID, RecordID: plan.ID})
	if created {
		s.record(ctx, period, plan, "plan.created", "Created plan")
	} else {
		s.record(ctx, period, plan, "plan.updated", "Updated plan")
	}
	return plan, nil
}

// upsertPlan must run inside a transaction. in is assumed valid.
func upsertPlan(tx *gorm.DB, in PlanInput) (*models.Plan, bool, error) {
	var existing []models.Plan
	if err := tx.Where("period_id = ? AND category_id = ?", in.PeriodID, in.CategoryID).Limit(1).Find(&existing).Error; err != nil {
		return nil, false, apperrors.Store(err)
	}

	if len(existing) > 0 {
		plan := &existing[0]
		plan.Type = in.Type
		plan.AmountCents = in.AmountCents
		plan.Notes = in.Notes
		if err := tx.Save(plan).Error; err != nil {
			return nil, false, apperrors.Store(err)
		}
		return plan, false, nil
	}

	plan := &models.Plan{
		PeriodID:    in.PeriodID,
		CategoryID:  in.CategoryID,
		Type:        in.Type,
		AmountCents: in.AmountCents,
		Notes:       in.Notes,
	}
	if err := tx.Create(plan).Error; err != nil {
		return nil, false, apperrors.Store(err)
	}
	return plan, true, nil
}

// GetPlan returns a plan of the period.
func (s *planService) GetPlan(ctx context.Context, periodID, planID string) (*models.Plan, error) {
	var plan models.Plan
	if err := s.db.WithContext(ctx).Where("id = ? AND period_id = ?", planID, periodID).First(&plan).Error; err != nil {
		return nil, storeError(err, apperrors.ErrPlanNotFound)
	}
	return &plan, nil
}

// ListPlans returns the period's plans.
func (s *planService) ListPlans(ctx context.Context, periodID string) ([]models.Plan, error) {
	if _, err := findPeriod(ctx, s.db, periodID); err != nil {
		return nil, err
	}
	var plans []models.Plan
	if err := s.db.WithContext(ctx).Where("period_id = ?", periodID).Order("created_at ASC, id ASC").Find(&plans).Error; err != nil {
		return nil, apperrors.Store(err)
	}
	return plans, nil
}

// DeletePlan removes a plan.
func (s *planService) DeletePlan(ctx context.Context, periodID, planID string) error {
	period, err := findPeriod(ctx, s.db, periodID)
	if err != nil {
		return err
	}
	plan, err := s.GetPlan(ctx, periodID, planID)
	if err != nil {
		return err
	}

	err = s.gate.Do(ctx, period.BudgetID, func() error {
		if err := s.db.WithContext(ctx).Delete(plan).Error; err != nil {
			return apperrors.Store(err)
		}
		return nil
	})
	if err != nil {
		return gateError(err)
	}

	publishLedger(s.bus, events.Event{Collection: events.Plans, Action: events.ActionDeleted, BudgetID: period.BudgetID, PeriodID: period.ID, RecordID: plan.ID})
	s.record(ctx, period, plan, "plan.deleted", "Deleted plan")
	return nil
}
