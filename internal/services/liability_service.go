package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	apperrors "pennyplan/internal/errors"
	"pennyplan/internal/models"
)

// liabilityService handles debts owned by a budget.
type liabilityService struct {
	db *gorm.DB
}

// NewLiabilityService creates a new LiabilityServicer.
func NewLiabilityService(db *gorm.DB) LiabilityServicer {
	return &liabilityService{db: db}
}

// CreateLiability records a new liability.
func (s *liabilityService) CreateLiability(ctx context.Context, budgetID, name string, principal int64, notes string) (*models.Liability, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.Validation("name", "is required")
	}
	if principal <= 0 {
		return nil, apperrors.Validation("principal", "must be greater than zero")
	}
	if _, err := findBudget(ctx, s.db, budgetID); err != nil {
		return nil, err
	}

	liability := &models.Liability{BudgetID: budgetID, Name: name, PrincipalCents: principal, Notes: notes}
	if err := s.db.WithContext(ctx).Create(liability).Error; err != nil {
		return nil, apperrors.Store(err)
	}
	return liability, nil
}

// GetLiability returns a liability with its paid and outstanding amounts.
func (s *liabilityService) GetLiability(ctx context.Context, budgetID, liabilityID string) (*LiabilityBalance, error) {
	liability, err := findLiability(ctx, s.db, budgetID, liabilityID)
	if err != nil {
		return nil, err
	}
	balances, err := s.withBalances(ctx, []models.Liability{*liability})
	if err != nil {
		return nil, err
	}
	return &balances[0], nil
}

// ListLiabilities returns the budget's liabilities with derived amounts.
func (s *liabilityService) ListLiabilities(ctx context.Context, budgetID string) ([]LiabilityBalance, error) {
	var liabilities []models.Liability
	if err := s.db.WithContext(ctx).Where("budget_id = ?", budgetID).Order("name ASC").Find(&liabilities).Error; err != nil {
		return nil, apperrors.Store(err)
	}
	return s.withBalances(ctx, liabilities)
}

type liabilityPaid struct {
	LiabilityID string
	Paid        int64
}

// withBalances derives paid amounts from linked EXPENSE transactions.
func (s *liabilityService) withBalances(ctx context.Context, liabilities []models.Liability) ([]LiabilityBalance, error) {
	out := make([]LiabilityBalance, 0, len(liabilities))
	if len(liabilities) == 0 {
		return out, nil
	}

	ids := make([]string, len(liabilities))
	for i, l := range liabilities {
		ids[i] = l.ID
	}

	var rows []liabilityPaid
	if err := s.db.WithContext(ctx).Model(&models.Transaction{}).
		Select("liability_id, COALESCE(SUM(amount_cents), 0) AS paid").
		Where("liability_id IN ? AND type = ?", ids, models.EntryTypeExpense).
		Group("liability_id").
		Scan(&rows).Error; err != nil {
		return nil, apperrors.Store(err)
	}
	paid := make(map[string]int64, len(rows))
	for _, r := range rows {
		paid[r.LiabilityID] = r.Paid
	}

	for _, l := range liabilities {
		p := paid[l.ID]
		outstanding := l.PrincipalCents - p
		if outstanding < 0 {
			outstanding = 0
		}
		out = append(out, LiabilityBalance{Liability: l, PaidCents: p, OutstandingCents: outstanding})
	}
	return out, nil
}

// UpdateLiability updates the non-nil fields.
func (s *liabilityService) UpdateLiability(ctx context.Context, budgetID, liabilityID string, name *string, principal *int64, notes *string) (*models.Liability, error) {
	liability, err := findLiability(ctx, s.db, budgetID, liabilityID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return nil, apperrors.Validation("name", "is required")
		}
		updates["name"] = trimmed
	}
	if principal != nil {
		if *principal <= 0 {
			return nil, apperrors.Validation("principal", "must be greater than zero")
		}
		updates["principal_cents"] = *principal
	}
	if notes != nil {
		updates["notes"] = *notes
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(liability).Updates(updates).Error; err != nil {
			return nil, apperrors.Store(err)
		}
	}
	return liability, nil
}

// DeleteLiability soft-deletes a liability. Linked transactions keep their
// reference.
func (s *liabilityService) DeleteLiability(ctx context.Context, budgetID, liabilityID string) error {
	liability, err := findLiability(ctx, s.db, budgetID, liabilityID)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(liability).Error; err != nil {
		return apperrors.Store(err)
	}
	return nil
}
