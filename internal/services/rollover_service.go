package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	apperrors "pennyplan/internal/errors"
	"pennyplan/internal/events"
	"pennyplan/internal/logger"
	"pennyplan/internal/models"
)

// RolloverState is the progress of a rollover.
type RolloverState string

const (
	RolloverIdle            RolloverState = "IDLE"
	RolloverSectionsCopying RolloverState = "SECTIONS_COPYING"
	RolloverPlansCopying    RolloverState = "PLANS_COPYING"
	RolloverDone            RolloverState = "DONE"
	RolloverFailed          RolloverState = "FAILED"
)

// RolloverFailure is a single record that could not be copied.
type RolloverFailure struct {
	Step     RolloverState `json:"step"`
	RecordID string        `json:"record_id"`
	Error    string        `json:"error"`
}

// RolloverResult reports what a rollover or structure copy did.
type RolloverResult struct {
	State          RolloverState     `json:"state"`
	Source         *models.Period    `json:"source"`
	Target         *models.Period    `json:"target"`
	Created        bool              `json:"created"`
	SectionsCopied int               `json:"sections_copied"`
	MappingsCopied int               `json:"mappings_copied"`
	PlansCopied    int               `json:"plans_copied"`
	PlansSkipped   int               `json:"plans_skipped"`
	Failures       []RolloverFailure `json:"failures,omitempty"`
}

func (r *RolloverResult) fail(step RolloverState, recordID string, err error) {
	r.Failures = append(r.Failures, RolloverFailure{Step: step, RecordID: recordID, Error: err.Error()})
	logger.Get().Warnw("rollover record failed",
		"step", step,
		"record_id", recordID,
		"target_period_id", r.Target.ID,
		"error", err,
	)
}

// rolloverService copies sections, mappings and plans into a successor
// period. Transactions are never copied.
type rolloverService struct {
	db       *gorm.DB
	gate     *WriterGate
	bus      *events.Bus
	activity ActivityServicer
	periods  *periodService
}

// NewRolloverService creates a new RolloverServicer.
func NewRolloverService(db *gorm.DB, gate *WriterGate, bus *events.Bus, activity ActivityServicer) RolloverServicer {
	return &rolloverService{
		db:       db,
		gate:     gate,
		bus:      bus,
		activity: activity,
		periods:  &periodService{db: db, gate: gate, bus: bus, activity: activity},
	}
}

// Rollover creates the period after sourcePeriodID and, when copyStructure
// is set, replicates the source's sections, mappings and plans into it.
// Declining the copy still leaves the new, empty period in place.
func (s *rolloverService) Rollover(ctx context.Context, budgetID, sourcePeriodID string, copyStructure bool) (*RolloverResult, error) {
	source, err := s.periods.GetPeriod(ctx, budgetID, sourcePeriodID)
	if err != nil {
		return nil, err
	}

	result := &RolloverResult{State: RolloverIdle, Source: source}
	err = s.gate.Do(ctx, budgetID, func() error {
		// Once started, a rollover runs to completion.
		work := context.WithoutCancel(ctx)

		existing, err := s.periods.successor(work, source)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperrors.WithMessage(apperrors.ErrInvalidState, "Period already has a successor")
		}

		nav, err := s.periods.forward(work, source)
		if err != nil {
			return err
		}
		result.Target = nav.Period
		result.Created = nav.Created

		if !copyStructure {
			result.State = RolloverDone
			return nil
		}
		return s.copyInto(work, result)
	})
	if err != nil {
		if result.Target != nil {
			result.State = RolloverFailed
			return result, gateError(err)
		}
		return nil, gateError(err)
	}

	s.finish(ctx, result)
	return result, nil
}

// CopyStructure replicates sections, mappings and plans of sourcePeriodID
// into the existing targetPeriodID. Running it twice converges.
func (s *rolloverService) CopyStructure(ctx context.Context, sourcePeriodID, targetPeriodID string) (*RolloverResult, error) {
	source, err := findPeriod(ctx, s.db, sourcePeriodID)
	if err != nil {
		return nil, err
	}
	target, err := findPeriod(ctx, s.db, targetPeriodID)
	if err != nil {
		return nil, err
	}
	if source.ID == target.ID {
		return nil, apperrors.Validation("target_period_id", "must differ from the source period")
	}
	if source.BudgetID != target.BudgetID {
		return nil, apperrors.Validation("target_period_id", "must belong to the same budget")
	}

	result := &RolloverResult{State: RolloverIdle, Source: source, Target: target}
	err = s.gate.Do(ctx, source.BudgetID, func() error {
		return s.copyInto(context.WithoutCancel(ctx), result)
	})
	if err != nil {
		result.State = RolloverFailed
		return result, gateError(err)
	}

	s.finish(ctx, result)
	return result, nil
}

// copyInto must run while holding the budget's writer gate. Per-record
// failures are collected; only failing to read the source aborts.
func (s *rolloverService) copyInto(ctx context.Context, result *RolloverResult) error {
	db := s.db.WithContext(ctx)
	source, target := result.Source, result.Target

	result.State = RolloverSectionsCopying
	var sections []models.Section
	if err := db.Preload("Mappings", orderedMappings).
		Where("period_id = ?", source.ID).
		Order("display_order ASC").
		Find(&sections).Error; err != nil {
		result.State = RolloverFailed
		return apperrors.Store(err)
	}

	for i := range sections {
		src := &sections[i]
		var copied *models.Section
		err := db.Transaction(func(tx *gorm.DB) error {
			var existing []models.Section
			if err := tx.Where("period_id = ? AND name = ?", target.ID, src.Name).Limit(1).Find(&existing).Error; err != nil {
				return err
			}
			if len(existing) > 0 {
				copied = &existing[0]
				return nil
			}
			var createErr error
			copied, createErr = appendSection(tx, target.ID, src.Name)
			return createErr
		})
		if err != nil {
			result.fail(RolloverSectionsCopying, src.ID, err)
			continue
		}
		result.SectionsCopied++

		for j := range src.Mappings {
			m := &src.Mappings[j]
			err := db.Transaction(func(tx *gorm.DB) error {
				_, assignErr := assignCategory(tx, copied, m.CategoryID, nil)
				return assignErr
			})
			if err != nil {
				result.fail(RolloverSectionsCopying, m.ID, err)
				continue
			}
			result.MappingsCopied++
		}
	}

	result.State = RolloverPlansCopying
	var plans []models.Plan
	if err := db.Where("period_id = ?", source.ID).Order("created_at ASC, id ASC").Find(&plans).Error; err != nil {
		result.State = RolloverFailed
		return apperrors.Store(err)
	}

	for i := range plans {
		p := &plans[i]
		if _, err := findCategory(ctx, s.db, target.BudgetID, p.CategoryID); err != nil {
			if errors.Is(err, apperrors.ErrCategoryNotFound) {
				result.PlansSkipped++
				continue
			}
			result.fail(RolloverPlansCopying, p.ID, err)
			continue
		}
		err := db.Transaction(func(tx *gorm.DB) error {
			_, _, upsertErr := upsertPlan(tx, PlanInput{
				PeriodID:    target.ID,
				CategoryID:  p.CategoryID,
				Type:        p.Type,
				AmountCents: p.AmountCents,
				Notes:       p.Notes,
			})
			return upsertErr
		})
		if err != nil {
			result.fail(RolloverPlansCopying, p.ID, err)
			continue
		}
		result.PlansCopied++
	}

	result.State = RolloverDone
	return nil
}

func (s *rolloverService) finish(ctx context.Context, result *RolloverResult) {
	target := result.Target
	if result.SectionsCopied > 0 || result.MappingsCopied > 0 {
		s.bus.Publish(events.Event{Collection: events.Sections, Action: events.ActionUpdated, BudgetID: target.BudgetID, PeriodID: target.ID})
	}
	if result.PlansCopied > 0 {
		publishLedger(s.bus, events.Event{Collection: events.Plans, Action: events.ActionUpdated, BudgetID: target.BudgetID, PeriodID: target.ID})
	}
	s.bus.Publish(events.Event{Collection: events.CurrentPeriod, Action: events.ActionCompleted, BudgetID: target.BudgetID, PeriodID: target.ID, RecordID: target.ID})

	s.activity.Record(ctx, Activity{
		BudgetID: target.BudgetID,
		Action:   "rollover.completed",
		Title:    "Rolled over to " + target.StartDate + ".." + target.EndDate,
		Metadata: map[string]any{
			"source_period_id": result.Source.ID,
			"target_period_id": target.ID,
			"sections":         result.SectionsCopied,
			"mappings":         result.MappingsCopied,
			"plans":            result.PlansCopied,
			"failures":         len(result.Failures),
		},
	})
}
