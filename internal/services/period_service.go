package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"pennyplan/internal/calendar"
	apperrors "pennyplan/internal/errors"
	"pennyplan/internal/events"
	"pennyplan/internal/models"
)

// periodService manages the period lifecycle of a budget.
type periodService struct {
	db       *gorm.DB
	gate     *WriterGate
	bus      *events.Bus
	activity ActivityServicer
}

// NewPeriodService creates a new PeriodServicer.
func NewPeriodService(db *gorm.DB, gate *WriterGate, bus *events.Bus, activity ActivityServicer) PeriodServicer {
	return &periodService{db: db, gate: gate, bus: bus, activity: activity}
}

// GetOrCreateCurrentPeriod returns the OPEN period containing today, lazily
// creating a monthly period for today's month when there is none.
func (s *periodService) GetOrCreateCurrentPeriod(ctx context.Context, budgetID string, today time.Time) (*models.Period, error) {
	if _, err := findBudget(ctx, s.db, budgetID); err != nil {
		return nil, err
	}

	day := calendar.Day(today)
	if period, err := s.openPeriodContaining(ctx, budgetID, day); err != nil || period != nil {
		return period, err
	}

	key := budgetID + "|" + calendar.FormatDate(day)
	v, err := s.gate.Once(key, func() (any, error) {
		var period *models.Period
		err := s.gate.Do(ctx, budgetID, func() error {
			// Another writer may have created it while we waited.
			existing, err := s.openPeriodContaining(ctx, budgetID, day)
			if err != nil {
				return err
			}
			if existing != nil {
				period = existing
				return nil
			}
			period, err = s.createCurrent(ctx, budgetID, day)
			return err
		})
		return period, err
	})
	if err != nil {
		return nil, gateError(err)
	}
	return v.(*models.Period), nil
}

func (s *periodService) openPeriodContaining(ctx context.Context, budgetID string, day time.Time) (*models.Period, error) {
	var open []models.Period
	if err := s.db.WithContext(ctx).
		Where("budget_id = ? AND status = ?", budgetID, models.PeriodStatusOpen).
		Order("sequence ASC").Find(&open).Error; err != nil {
		return nil, apperrors.Store(err)
	}
	for i := range open {
		r, err := open[i].Range()
		if err != nil {
			return nil, dateError(err)
		}
		if r.Contains(day) {
			return &open[i], nil
		}
	}
	return nil, nil
}

// createCurrent creates the monthly period for day. Where existing periods
// already cover the start of the month, the new period begins after them.
func (s *periodService) createCurrent(ctx context.Context, budgetID string, day time.Time) (*models.Period, error) {
	var all []models.Period
	if err := s.db.WithContext(ctx).Where("budget_id = ?", budgetID).Find(&all).Error; err != nil {
		return nil, apperrors.Store(err)
	}

	target := calendar.Month(day)
	for i := range all {
		r, err := all[i].Range()
		if err != nil {
			return nil, dateError(err)
		}
		if !r.Overlaps(target) {
			continue
		}
		if r.Contains(day) {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidState,
				fmt.Sprintf("The period covering %s is closed", calendar.FormatDate(day)))
		}
		if r.End.Before(day) {
			if start := r.End.AddDate(0, 0, 1); start.After(target.Start) {
				target.Start = start
			}
		} else if end := r.Start.AddDate(0, 0, -1); end.Before(target.End) {
			target.End = end
		}
	}

	period := &models.Period{
		BudgetID:   budgetID,
		PeriodType: models.PeriodTypeMonthly,
		Status:     models.PeriodStatusOpen,
	}
	period.SetRange(target)
	if err := insertPeriod(s.db.WithContext(ctx), period); err != nil {
		return nil, err
	}

	s.bus.Publish(events.Event{Collection: events.CurrentPeriod, Action: events.ActionCreated, BudgetID: budgetID, PeriodID: period.ID, RecordID: period.ID})
	s.activity.Record(ctx, Activity{
		BudgetID: budgetID,
		Action:   "period.created",
		Title:    "Started period " + target.String(),
	})
	return period, nil
}

// insertPeriod assigns the next sequence number and stores period.
func insertPeriod(db *gorm.DB, period *models.Period) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var next int
		if err := tx.Model(&models.Period{}).Where("budget_id = ?", period.BudgetID).
			Select("COALESCE(MAX(sequence), 0) + 1").Scan(&next).Error; err != nil {
			return apperrors.Store(err)
		}
		period.Sequence = next
		if err := tx.Create(period).Error; err != nil {
			return apperrors.Store(err)
		}
		return nil
	})
}

// ComputeNextPeriod returns the range immediately following period, sized
// by its period type.
func (s *periodService) ComputeNextPeriod(period *models.Period) (calendar.Range, error) {
	return nextRange(period)
}

func nextRange(period *models.Period) (calendar.Range, error) {
	r, err := period.Range()
	if err != nil {
		return calendar.Range{}, dateError(err)
	}
	switch period.PeriodType {
	case models.PeriodTypeMonthly:
		return calendar.NextMonthly(r), nil
	case models.PeriodTypeQuarterly:
		return calendar.NextQuarterly(r), nil
	case models.PeriodTypeCustom:
		return calendar.NextCustom(r), nil
	default:
		return calendar.Range{}, apperrors.WithMessage(apperrors.ErrInvalidState,
			fmt.Sprintf("Unknown period type %q", period.PeriodType))
	}
}

// NavigateForward returns the successor of fromPeriodID, creating it when
// fromPeriodID is the last period of the budget.
func (s *periodService) NavigateForward(ctx context.Context, budgetID, fromPeriodID string) (*NavigationResult, error) {
	from, err := s.GetPeriod(ctx, budgetID, fromPeriodID)
	if err != nil {
		return nil, err
	}

	var result *NavigationResult
	err = s.gate.Do(ctx, budgetID, func() error {
		var createErr error
		result, createErr = s.forward(ctx, from)
		return createErr
	})
	if err != nil {
		return nil, gateError(err)
	}
	return result, nil
}

// forward must run while holding the budget's writer gate.
func (s *periodService) forward(ctx context.Context, from *models.Period) (*NavigationResult, error) {
	next, err := s.successor(ctx, from)
	if err != nil {
		return nil, err
	}
	if next != nil {
		return &NavigationResult{Period: next}, nil
	}

	r, err := nextRange(from)
	if err != nil {
		return nil, err
	}
	period := &models.Period{
		BudgetID:   from.BudgetID,
		PeriodType: from.PeriodType,
		Status:     models.PeriodStatusOpen,
	}
	period.SetRange(r)
	if err := insertPeriod(s.db.WithContext(ctx), period); err != nil {
		return nil, err
	}

	s.bus.Publish(events.Event{Collection: events.CurrentPeriod, Action: events.ActionCreated, BudgetID: period.BudgetID, PeriodID: period.ID, RecordID: period.ID})
	s.activity.Record(ctx, Activity{
		BudgetID: period.BudgetID,
		Action:   "period.created",
		Title:    "Started period " + r.String(),
		Metadata: map[string]any{"previous_period_id": from.ID},
	})
	return &NavigationResult{Period: period, Created: true}, nil
}

func (s *periodService) successor(ctx context.Context, from *models.Period) (*models.Period, error) {
	var next []models.Period
	if err := s.db.WithContext(ctx).
		Where("budget_id = ? AND sequence > ?", from.BudgetID, from.Sequence).
		Order("sequence ASC").Limit(1).Find(&next).Error; err != nil {
		return nil, apperrors.Store(err)
	}
	if len(next) == 0 {
		return nil, nil
	}
	return &next[0], nil
}

// NavigateBackward returns the predecessor of fromPeriodID. It never creates
// periods.
func (s *periodService) NavigateBackward(ctx context.Context, budgetID, fromPeriodID string) (*models.Period, error) {
	from, err := s.GetPeriod(ctx, budgetID, fromPeriodID)
	if err != nil {
		return nil, err
	}

	var prev models.Period
	err = s.db.WithContext(ctx).
		Where("budget_id = ? AND sequence < ?", budgetID, from.Sequence).
		Order("sequence DESC").First(&prev).Error
	if err != nil {
		return nil, storeError(err, apperrors.WithMessage(apperrors.ErrPeriodNotFound, "No earlier period"))
	}
	return &prev, nil
}

// ListPeriods returns the budget's periods in sequence order.
func (s *periodService) ListPeriods(ctx context.Context, budgetID string) ([]models.Period, error) {
	var periods []models.Period
	if err := s.db.WithContext(ctx).Where("budget_id = ?", budgetID).Order("sequence ASC").Find(&periods).Error; err != nil {
		return nil, apperrors.Store(err)
	}
	return periods, nil
}

// GetPeriod returns a period of the budget.
func (s *periodService) GetPeriod(ctx context.Context, budgetID, periodID string) (*models.Period, error) {
	var period models.Period
	if err := s.db.WithContext(ctx).Where("id = ? AND budget_id = ?", periodID, budgetID).First(&period).Error; err != nil {
		return nil, storeError(err, apperrors.ErrPeriodNotFound)
	}
	return &period, nil
}

// ClosePeriod moves an OPEN period to CLOSED. Closed periods never reopen.
func (s *periodService) ClosePeriod(ctx context.Context, budgetID, periodID string) (*models.Period, error) {
	var period *models.Period
	err := s.gate.Do(ctx, budgetID, func() error {
		var err error
		period, err = s.GetPeriod(ctx, budgetID, periodID)
		if err != nil {
			return err
		}
		if !period.IsOpen() {
			return apperrors.WithMessage(apperrors.ErrInvalidState, "Period is already closed")
		}
		if err := s.db.WithContext(ctx).Model(period).Update("status", models.PeriodStatusClosed).Error; err != nil {
			return apperrors.Store(err)
		}
		return nil
	})
	if err != nil {
		return nil, gateError(err)
	}

	s.bus.Publish(events.Event{Collection: events.CurrentPeriod, Action: events.ActionUpdated, BudgetID: budgetID, PeriodID: period.ID, RecordID: period.ID})
	s.activity.Record(ctx, Activity{
		BudgetID: budgetID,
		Action:   "period.closed",
		Title:    "Closed period " + period.StartDate + ".." + period.EndDate,
	})
	return period, nil
}
