package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"pennyplan/internal/calendar"
	apperrors "pennyplan/internal/errors"
	"pennyplan/internal/events"
	"pennyplan/internal/logger"
	"pennyplan/internal/models"
)

// maxOccurrencesPerRun bounds how far one run catches a series up.
const maxOccurrencesPerRun = 1000

// MaterializeResult summarizes a materialization run.
type MaterializeResult struct {
	Created      int                  `json:"created"`
	Skipped      int                  `json:"skipped"`
	Failed       int                  `json:"failed"`
	Transactions []models.Transaction `json:"transactions"`
}

func (r *MaterializeResult) merge(o *MaterializeResult) {
	r.Created += o.Created
	r.Skipped += o.Skipped
	r.Failed += o.Failed
	r.Transactions = append(r.Transactions, o.Transactions...)
}

// recurringService manages recurring series and turns due occurrences into
// transactions.
type recurringService struct {
	db       *gorm.DB
	gate     *WriterGate
	bus      *events.Bus
	activity ActivityServicer
	periods  *periodService
}

// NewRecurringService creates a new RecurringServicer.
func NewRecurringService(db *gorm.DB, gate *WriterGate, bus *events.Bus, activity ActivityServicer) RecurringServicer {
	return &recurringService{
		db:       db,
		gate:     gate,
		bus:      bus,
		activity: activity,
		periods:  &periodService{db: db, gate: gate, bus: bus, activity: activity},
	}
}

func validateRecurringInput(in RecurringInput) error {
	if in.AmountCents <= 0 {
		return apperrors.Validation("amount", "must be greater than zero")
	}
	if !in.Type.Valid() {
		return apperrors.Validation("type", "must be INCOME or EXPENSE")
	}
	if _, err := GetScheduleAdvancer(in.Frequency); err != nil {
		return apperrors.Validation("frequency", "must be DAILY, WEEKLY, MONTHLY or YEARLY")
	}
	if in.Interval < 1 {
		return apperrors.Validation("interval", "must be at least 1")
	}
	if in.EndDate != nil && !in.StartDate.IsZero() && calendar.Day(*in.EndDate).Before(calendar.Day(in.StartDate)) {
		return apperrors.Validation("end_date", "must not be before the start date")
	}
	return requireID("category_id", in.CategoryID)
}

// CreateSeries creates a series whose first run is StartDate (today when
// zero).
func (s *recurringService) CreateSeries(ctx context.Context, budgetID string, in RecurringInput) (*models.RecurringTransactionSeries, error) {
	if in.Interval == 0 {
		in.Interval = 1
	}
	if in.StartDate.IsZero() {
		in.StartDate = time.Now()
	}
	if err := validateRecurringInput(in); err != nil {
		return nil, err
	}
	if _, err := findBudget(ctx, s.db, budgetID); err != nil {
		return nil, err
	}
	if _, err := findCategory(ctx, s.db, budgetID, in.CategoryID); err != nil {
		return nil, err
	}

	start := calendar.Day(in.StartDate)
	series := &models.RecurringTransactionSeries{
		BudgetID:    budgetID,
		CategoryID:  in.CategoryID,
		Type:        in.Type,
		AmountCents: in.AmountCents,
		Notes:       in.Notes,
		Frequency:   in.Frequency,
		Interval:    in.Interval,
		AnchorDay:   start.Day(),
		NextRunDate: start,
		EndDate:     dayPtr(in.EndDate),
	}
	if err := s.db.WithContext(ctx).Create(series).Error; err != nil {
		return nil, apperrors.Store(err)
	}
	return series, nil
}

func dayPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := calendar.Day(*t)
	return &d
}

// GetSeries returns a series of the budget.
func (s *recurringService) GetSeries(ctx context.Context, budgetID, seriesID string) (*models.RecurringTransactionSeries, error) {
	var series models.RecurringTransactionSeries
	if err := s.db.WithContext(ctx).Where("id = ? AND budget_id = ?", seriesID, budgetID).First(&series).Error; err != nil {
		return nil, storeError(err, apperrors.ErrRecurringSeriesNotFound)
	}
	return &series, nil
}

// ListSeries returns the budget's series by next run date.
func (s *recurringService) ListSeries(ctx context.Context, budgetID string) ([]models.RecurringTransactionSeries, error) {
	var series []models.RecurringTransactionSeries
	if err := s.db.WithContext(ctx).Where("budget_id = ?", budgetID).Order("next_run_date ASC, id ASC").Find(&series).Error; err != nil {
		return nil, apperrors.Store(err)
	}
	return series, nil
}

// UpdateSeries replaces the schedule and template of a series. A later
// StartDate pushes the next run out; an earlier one never pulls it back.
func (s *recurringService) UpdateSeries(ctx context.Context, budgetID, seriesID string, in RecurringInput) (*models.RecurringTransactionSeries, error) {
	if in.Interval == 0 {
		in.Interval = 1
	}
	if err := validateRecurringInput(in); err != nil {
		return nil, err
	}
	series, err := s.GetSeries(ctx, budgetID, seriesID)
	if err != nil {
		return nil, err
	}
	if in.CategoryID != series.CategoryID {
		if _, err := findCategory(ctx, s.db, budgetID, in.CategoryID); err != nil {
			return nil, err
		}
	}

	series.CategoryID = in.CategoryID
	series.Type = in.Type
	series.AmountCents = in.AmountCents
	series.Notes = in.Notes
	series.Frequency = in.Frequency
	series.Interval = in.Interval
	series.EndDate = dayPtr(in.EndDate)
	if !in.StartDate.IsZero() {
		start := calendar.Day(in.StartDate)
		series.AnchorDay = start.Day()
		if start.After(series.NextRunDate) {
			series.NextRunDate = start
		}
	}

	if err := s.db.WithContext(ctx).Save(series).Error; err != nil {
		return nil, apperrors.Store(err)
	}
	return series, nil
}

// SetPaused pauses or resumes a series. Resuming does not backfill the
// occurrences missed while paused.
func (s *recurringService) SetPaused(ctx context.Context, budgetID, seriesID string, paused bool) (*models.RecurringTransactionSeries, error) {
	series, err := s.GetSeries(ctx, budgetID, seriesID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"is_paused": paused}
	if !paused && series.IsPaused {
		advancer, err := GetScheduleAdvancer(series.Frequency)
		if err != nil {
			return nil, apperrors.Validation("frequency", err.Error())
		}
		today := calendar.Day(time.Now())
		next := series.NextRunDate
		for next.Before(today) {
			next = advancer.Next(next, series.Interval, series.AnchorDay)
		}
		updates["next_run_date"] = next
	}

	if err := s.db.WithContext(ctx).Model(series).Updates(updates).Error; err != nil {
		return nil, apperrors.Store(err)
	}
	return series, nil
}

// DeleteSeries soft-deletes a series. Materialized transactions stay.
func (s *recurringService) DeleteSeries(ctx context.Context, budgetID, seriesID string) error {
	series, err := s.GetSeries(ctx, budgetID, seriesID)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(series).Error; err != nil {
		return apperrors.Store(err)
	}
	return nil
}

// MaterializeDue creates the transactions of every unpaused series of the
// budget whose run date is on or before asOf. Each occurrence lands in the
// period covering its run date; the current period is created if needed.
// Occurrences without an OPEN period are skipped. NextRunDate advances past
// every handled occurrence.
func (s *recurringService) MaterializeDue(ctx context.Context, budgetID string, asOf time.Time) (*MaterializeResult, error) {
	if _, err := findBudget(ctx, s.db, budgetID); err != nil {
		return nil, err
	}

	day := calendar.Day(asOf)
	result := &MaterializeResult{Transactions: []models.Transaction{}}
	err := s.gate.Do(ctx, budgetID, func() error {
		// Read under the gate: a run that waited must see where the
		// previous one left each series.
		var due []models.RecurringTransactionSeries
		if err := s.db.WithContext(ctx).
			Where("budget_id = ? AND is_paused = ? AND next_run_date <= ?", budgetID, false, day).
			Order("next_run_date ASC, id ASC").
			Find(&due).Error; err != nil {
			return apperrors.Store(err)
		}
		for i := range due {
			s.materializeSeries(ctx, &due[i], day, result)
		}
		return nil
	})
	if err != nil {
		return nil, gateError(err)
	}

	touched := make(map[string]bool)
	for _, tx := range result.Transactions {
		if touched[tx.PeriodID] {
			continue
		}
		touched[tx.PeriodID] = true
		publishLedger(s.bus, events.Event{Collection: events.Transactions, Action: events.ActionCreated, BudgetID: budgetID, PeriodID: tx.PeriodID})
	}
	if result.Created > 0 {
		s.activity.Record(ctx, Activity{
			BudgetID: budgetID,
			Action:   "recurring.materialized",
			Title:    "Recorded recurring transactions",
			Metadata: map[string]any{"created": result.Created, "skipped": result.Skipped, "failed": result.Failed},
		})
	}
	return result, nil
}

// materializeSeries must run while holding the budget's writer gate.
// Failures are logged and counted; they stop this series only.
func (s *recurringService) materializeSeries(ctx context.Context, series *models.RecurringTransactionSeries, asOf time.Time, result *MaterializeResult) {
	log := logger.Get().With("series_id", series.ID, "budget_id", series.BudgetID)

	advancer, err := GetScheduleAdvancer(series.Frequency)
	if err != nil {
		log.Errorw("recurring series has an unusable schedule", "error", err)
		result.Failed++
		return
	}

	next := calendar.Day(series.NextRunDate)
	for n := 0; n < maxOccurrencesPerRun && !next.After(asOf); n++ {
		if series.EndDate != nil && next.After(*series.EndDate) {
			break
		}

		period, err := s.periodFor(ctx, series.BudgetID, next, asOf)
		if err != nil {
			log.Errorw("failed to resolve period for recurring occurrence", "run_date", calendar.FormatDate(next), "error", err)
			result.Failed++
			return
		}

		following := advancer.Next(next, series.Interval, series.AnchorDay)
		if period == nil {
			err = advanceSeries(s.db.WithContext(ctx), series, next, following)
		} else {
			var tx *models.Transaction
			tx, err = s.recordOccurrence(ctx, series, period, next, following)
			if err == nil {
				result.Created++
				result.Transactions = append(result.Transactions, *tx)
			}
		}
		switch {
		case errors.Is(err, errSeriesMoved):
			log.Infow("recurring series was advanced elsewhere", "run_date", calendar.FormatDate(next))
			return
		case err != nil:
			log.Errorw("failed to materialize recurring occurrence", "run_date", calendar.FormatDate(next), "error", err)
			result.Failed++
			return
		case period == nil:
			result.Skipped++
		}
		next = following
	}
}

// periodFor returns the OPEN period covering day, creating it when day
// falls in the month of asOf. A nil period means the occurrence is skipped.
func (s *recurringService) periodFor(ctx context.Context, budgetID string, day, asOf time.Time) (*models.Period, error) {
	period, err := s.periods.openPeriodContaining(ctx, budgetID, day)
	if err != nil || period != nil {
		return period, err
	}
	if !calendar.Month(asOf).Contains(day) {
		return nil, nil
	}

	period, err = s.periods.createCurrent(ctx, budgetID, day)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidState) {
			return nil, nil
		}
		return nil, err
	}
	return period, nil
}

// recordOccurrence stores the transaction and advances the series in one
// unit of work.
func (s *recurringService) recordOccurrence(ctx context.Context, series *models.RecurringTransactionSeries, period *models.Period, runDate, following time.Time) (*models.Transaction, error) {
	var created *models.Transaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var createErr error
		created, createErr = createTransaction(ctx, tx, series.BudgetID, TransactionInput{
			PeriodID:    period.ID,
			CategoryID:  series.CategoryID,
			Type:        series.Type,
			AmountCents: series.AmountCents,
			Date:        runDate,
			Notes:       series.Notes,
		}, &series.ID)
		if createErr != nil {
			return createErr
		}
		return advanceSeries(tx, series, runDate, following)
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// errSeriesMoved means a series no longer runs on the date a run expected.
var errSeriesMoved = errors.New("recurring series next run date has moved")

// advanceSeries moves series from runDate to following. It fails with
// errSeriesMoved when the stored run date is no longer runDate, so an
// occurrence is never recorded twice nor the schedule moved backwards.
func advanceSeries(db *gorm.DB, series *models.RecurringTransactionSeries, runDate, following time.Time) error {
	res := db.Model(&models.RecurringTransactionSeries{}).
		Where("id = ? AND next_run_date = ?", series.ID, runDate).
		Update("next_run_date", following)
	if res.Error != nil {
		return apperrors.Store(res.Error)
	}
	if res.RowsAffected == 0 {
		return errSeriesMoved
	}
	series.NextRunDate = following
	return nil
}

// MaterializeAllDue runs MaterializeDue for every budget with due series.
func (s *recurringService) MaterializeAllDue(ctx context.Context, asOf time.Time) (*MaterializeResult, error) {
	var budgetIDs []string
	if err := s.db.WithContext(ctx).Model(&models.RecurringTransactionSeries{}).
		Where("is_paused = ? AND next_run_date <= ?", false, calendar.Day(asOf)).
		Distinct().Pluck("budget_id", &budgetIDs).Error; err != nil {
		return nil, apperrors.Store(err)
	}

	total := &MaterializeResult{Transactions: []models.Transaction{}}
	for _, budgetID := range budgetIDs {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		result, err := s.MaterializeDue(ctx, budgetID, asOf)
		if err != nil {
			logger.Get().Errorw("failed to materialize recurring series", "budget_id", budgetID, "error", err)
			continue
		}
		total.merge(result)
	}
	return total, nil
}
