package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	apperrors "pennyplan/internal/errors"
	"pennyplan/internal/events"
	"pennyplan/internal/models"
	"pennyplan/internal/pagination"
)

// transactionService handles actual inflows and outflows.
type transactionService struct {
	db       *gorm.DB
	gate     *WriterGate
	bus      *events.Bus
	activity ActivityServicer
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, gate *WriterGate, bus *events.Bus, activity ActivityServicer) TransactionServicer {
	return &transactionService{db: db, gate: gate, bus: bus, activity: activity}
}

func (s *transactionService) record(ctx context.Context, tx *models.Transaction, action, title string) {
	s.activity.Record(ctx, Activity{
		BudgetID: tx.BudgetID,
		Action:   action,
		Title:    title,
		Metadata: map[string]any{"transaction_id": tx.ID, "period_id": tx.PeriodID, "category_id": tx.CategoryID, "type": tx.Type, "amount_cents": tx.AmountCents},
	})
}

// openPeriodOf loads a period of the budget and requires it to be OPEN.
func openPeriodOf(ctx context.Context, db *gorm.DB, budgetID, periodID string) (*models.Period, error) {
	var period models.Period
	if err := db.WithContext(ctx).Where("id = ? AND budget_id = ?", periodID, budgetID).First(&period).Error; err != nil {
		return nil, storeError(err, apperrors.ErrPeriodNotFound)
	}
	if !period.IsOpen() {
		return nil, apperrors.ErrPeriodClosed
	}
	return &period, nil
}

func findLiability(ctx context.Context, db *gorm.DB, budgetID, liabilityID string) (*models.Liability, error) {
	var liability models.Liability
	if err := db.WithContext(ctx).Where("id = ? AND budget_id = ?", liabilityID, budgetID).First(&liability).Error; err != nil {
		return nil, storeError(err, apperrors.ErrLiabilityNotFound)
	}
	return &liability, nil
}

// CreateTransaction records a transaction in an OPEN period of the budget.
func (s *transactionService) CreateTransaction(ctx context.Context, budgetID string, in TransactionInput) (*models.Transaction, error) {
	if in.AmountCents <= 0 {
		return nil, apperrors.Validation("amount", "must be greater than zero")
	}
	if !in.Type.Valid() {
		return nil, apperrors.Validation("type", "must be INCOME or EXPENSE")
	}
	if err := requireID("period_id", in.PeriodID); err != nil {
		return nil, err
	}
	if err := requireID("category_id", in.CategoryID); err != nil {
		return nil, err
	}
	if in.LiabilityID != nil && in.Type != models.EntryTypeExpense {
		return nil, apperrors.Validation("type", "must be EXPENSE for a liability payment")
	}

	if in.Date.IsZero() {
		in.Date = time.Now()
	}

	var tx *models.Transaction
	err := s.gate.Do(ctx, budgetID, func() error {
		var createErr error
		tx, createErr = createTransaction(ctx, s.db, budgetID, in, nil)
		return createErr
	})
	if err != nil {
		return nil, gateError(err)
	}

	publishLedger(s.bus, events.Event{Collection: events.Transactions, Action: events.ActionCreated, BudgetID: budgetID, PeriodID: tx.PeriodID, RecordID: tx.ID})
	s.record(ctx, tx, "transaction.created", "Recorded transaction")
	return tx, nil
}

// createTransaction must run while holding the budget's writer gate.
func createTransaction(ctx context.Context, db *gorm.DB, budgetID string, in TransactionInput, seriesID *string) (*models.Transaction, error) {
	period, err := openPeriodOf(ctx, db, budgetID, in.PeriodID)
	if err != nil {
		return nil, err
	}
	if _, err := findCategory(ctx, db, budgetID, in.CategoryID); err != nil {
		return nil, err
	}
	if in.LiabilityID != nil {
		if _, err := findLiability(ctx, db, budgetID, *in.LiabilityID); err != nil {
			return nil, err
		}
	}

	tx := &models.Transaction{
		BudgetID:          budgetID,
		PeriodID:          period.ID,
		CategoryID:        in.CategoryID,
		Type:              in.Type,
		AmountCents:       in.AmountCents,
		Date:              in.Date.UTC(),
		Notes:             in.Notes,
		RecurringSeriesID: seriesID,
		LiabilityID:       in.LiabilityID,
	}
	if err := db.WithContext(ctx).Create(tx).Error; err != nil {
		return nil, apperrors.Store(err)
	}
	return tx, nil
}

// GetTransaction returns a transaction of the budget.
func (s *transactionService) GetTransaction(ctx context.Context, budgetID, transactionID string) (*models.Transaction, error) {
	var tx models.Transaction
	if err := s.db.WithContext(ctx).Where("id = ? AND budget_id = ?", transactionID, budgetID).First(&tx).Error; err != nil {
		return nil, storeError(err, apperrors.ErrTransactionNotFound)
	}
	return &tx, nil
}

// UpdateTransaction applies the non-nil fields of patch. Both the current
// and, when moving, the new period must be OPEN.
func (s *transactionService) UpdateTransaction(ctx context.Context, budgetID, transactionID string, patch TransactionPatch) (*models.Transaction, error) {
	if patch.AmountCents != nil && *patch.AmountCents <= 0 {
		return nil, apperrors.Validation("amount", "must be greater than zero")
	}
	if patch.Type != nil && !patch.Type.Valid() {
		return nil, apperrors.Validation("type", "must be INCOME or EXPENSE")
	}

	var (
		tx         *models.Transaction
		fromPeriod string
	)
	err := s.gate.Do(ctx, budgetID, func() error {
		var err error
		tx, err = s.GetTransaction(ctx, budgetID, transactionID)
		if err != nil {
			return err
		}
		fromPeriod = tx.PeriodID
		if _, err := openPeriodOf(ctx, s.db, budgetID, tx.PeriodID); err != nil {
			return err
		}

		updates := make(map[string]interface{})
		if patch.PeriodID != nil && *patch.PeriodID != tx.PeriodID {
			if _, err := openPeriodOf(ctx, s.db, budgetID, *patch.PeriodID); err != nil {
				return err
			}
			updates["period_id"] = *patch.PeriodID
		}
		if patch.CategoryID != nil && *patch.CategoryID != tx.CategoryID {
			if _, err := findCategory(ctx, s.db, budgetID, *patch.CategoryID); err != nil {
				return err
			}
			updates["category_id"] = *patch.CategoryID
		}
		if patch.Type != nil {
			if *patch.Type != models.EntryTypeExpense && tx.LiabilityID != nil {
				return apperrors.Validation("type", "must be EXPENSE for a liability payment")
			}
			updates["type"] = *patch.Type
		}
		if patch.AmountCents != nil {
			updates["amount_cents"] = *patch.AmountCents
		}
		if patch.Date != nil {
			updates["date"] = patch.Date.UTC()
		}
		if patch.Notes != nil {
			updates["notes"] = *patch.Notes
		}

		if len(updates) == 0 {
			return nil
		}
		if err := s.db.WithContext(ctx).Model(tx).Updates(updates).Error; err != nil {
			return apperrors.Store(err)
		}
		return nil
	})
	if err != nil {
		return nil, gateError(err)
	}

	publishLedger(s.bus, events.Event{Collection: events.Transactions, Action: events.ActionUpdated, BudgetID: budgetID, PeriodID: tx.PeriodID, RecordID: tx.ID})
	if fromPeriod != tx.PeriodID {
		publishLedger(s.bus, events.Event{Collection: events.Transactions, Action: events.ActionDeleted, BudgetID: budgetID, PeriodID: fromPeriod, RecordID: tx.ID})
	}
	s.record(ctx, tx, "transaction.updated", "Updated transaction")
	return tx, nil
}

// DeleteTransaction soft-deletes a transaction of an OPEN period.
func (s *transactionService) DeleteTransaction(ctx context.Context, budgetID, transactionID string) error {
	var tx *models.Transaction
	err := s.gate.Do(ctx, budgetID, func() error {
		var err error
		tx, err = s.GetTransaction(ctx, budgetID, transactionID)
		if err != nil {
			return err
		}
		if _, err := openPeriodOf(ctx, s.db, budgetID, tx.PeriodID); err != nil {
			return err
		}
		if err := s.db.WithContext(ctx).Delete(tx).Error; err != nil {
			return apperrors.Store(err)
		}
		return nil
	})
	if err != nil {
		return gateError(err)
	}

	publishLedger(s.bus, events.Event{Collection: events.Transactions, Action: events.ActionDeleted, BudgetID: budgetID, PeriodID: tx.PeriodID, RecordID: tx.ID})
	s.record(ctx, tx, "transaction.deleted", "Deleted transaction")
	return nil
}

// ListTransactions returns a filtered page of the budget's transactions,
// newest first unless the page asks for oldest.
func (s *transactionService) ListTransactions(ctx context.Context, budgetID string, filter TransactionFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error) {
	query := s.db.WithContext(ctx).Model(&models.Transaction{}).Where("budget_id = ?", budgetID)
	result, err := pagination.Fetch[models.Transaction](applyTransactionFilter(query, filter), page, "date")
	if err != nil {
		return nil, apperrors.Store(err)
	}
	return result, nil
}

func applyTransactionFilter(query *gorm.DB, filter TransactionFilter) *gorm.DB {
	if filter.PeriodID != nil {
		query = query.Where("period_id = ?", *filter.PeriodID)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.LiabilityID != nil {
		query = query.Where("liability_id = ?", *filter.LiabilityID)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.FromDate != nil {
		query = query.Where("date >= ?", filter.FromDate.UTC())
	}
	if filter.ToDate != nil {
		query = query.Where("date <= ?", filter.ToDate.UTC())
	}
	if filter.MinAmount != nil {
		query = query.Where("amount_cents >= ?", *filter.MinAmount)
	}
	if filter.MaxAmount != nil {
		query = query.Where("amount_cents <= ?", *filter.MaxAmount)
	}
	return query
}
