package services

import (
	"context"
	"sort"
	"strings"

	"gorm.io/gorm"

	apperrors "pennyplan/internal/errors"
	"pennyplan/internal/events"
	"pennyplan/internal/models"
)

// budgetService handles budget-related business logic.
type budgetService struct {
	db       *gorm.DB
	gate     *WriterGate
	bus      *events.Bus
	activity ActivityServicer
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB, gate *WriterGate, bus *events.Bus, activity ActivityServicer) BudgetServicer {
	return &budgetService{db: db, gate: gate, bus: bus, activity: activity}
}

func ownerKey(ownerID string) string {
	return "owner:" + ownerID
}

// GetOrCreateDefaultBudget returns the owner's oldest budget, creating
// "My Budget" with the system catalogue on first access.
func (s *budgetService) GetOrCreateDefaultBudget(ctx context.Context, ownerID string) (*models.Budget, error) {
	if err := requireID("owner_id", ownerID); err != nil {
		return nil, err
	}

	v, err := s.gate.Once(ownerKey(ownerID), func() (any, error) {
		var budget *models.Budget
		err := s.gate.Do(ctx, ownerKey(ownerID), func() error {
			var existing []models.Budget
			if err := s.db.WithContext(ctx).Where("owner_id = ?", ownerID).
				Order("created_at ASC, id ASC").Limit(1).Find(&existing).Error; err != nil {
				return apperrors.Store(err)
			}
			if len(existing) > 0 {
				budget = &existing[0]
				return nil
			}

			var createErr error
			budget, createErr = s.create(ctx, ownerID, BudgetInput{Name: models.DefaultBudgetName})
			return createErr
		})
		return budget, err
	})
	if err != nil {
		return nil, gateError(err)
	}
	return v.(*models.Budget), nil
}

// CreateBudget creates a budget seeded with the system catalogue.
func (s *budgetService) CreateBudget(ctx context.Context, ownerID string, in BudgetInput) (*models.Budget, error) {
	if err := requireID("owner_id", ownerID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, apperrors.Validation("name", "is required")
	}

	var budget *models.Budget
	err := s.gate.Do(ctx, ownerKey(ownerID), func() error {
		var createErr error
		budget, createErr = s.create(ctx, ownerID, in)
		return createErr
	})
	if err != nil {
		return nil, gateError(err)
	}
	return budget, nil
}

func (s *budgetService) create(ctx context.Context, ownerID string, in BudgetInput) (*models.Budget, error) {
	budget := &models.Budget{
		OwnerID:      ownerID,
		Name:         strings.TrimSpace(in.Name),
		Icon:         in.Icon,
		Color:        in.Color,
		CurrencyCode: strings.ToUpper(in.CurrencyCode),
	}
	if budget.CurrencyCode == "" {
		budget.CurrencyCode = "USD"
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(budget).Error; err != nil {
			return apperrors.Store(err)
		}
		return seedCatalogue(tx, budget.ID)
	})
	if err != nil {
		return nil, err
	}

	s.bus.Publish(events.Event{Collection: events.Budgets, Action: events.ActionCreated, BudgetID: budget.ID, RecordID: budget.ID})
	s.activity.Record(ctx, Activity{BudgetID: budget.ID, Action: "budget.created", Title: "Created budget " + budget.Name})
	return budget, nil
}

// ListBudgets returns the owner's budgets, oldest first.
func (s *budgetService) ListBudgets(ctx context.Context, ownerID string) ([]models.Budget, error) {
	var budgets []models.Budget
	if err := s.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("created_at ASC, id ASC").Find(&budgets).Error; err != nil {
		return nil, apperrors.Store(err)
	}
	return budgets, nil
}

// GetBudget returns a budget by ID if it belongs to the owner.
func (s *budgetService) GetBudget(ctx context.Context, ownerID, budgetID string) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.WithContext(ctx).Where("id = ? AND owner_id = ?", budgetID, ownerID).First(&budget).Error; err != nil {
		return nil, storeError(err, apperrors.ErrBudgetNotFound)
	}
	return &budget, nil
}

// UpdateBudget updates the non-empty fields of in.
func (s *budgetService) UpdateBudget(ctx context.Context, ownerID, budgetID string, in BudgetInput) (*models.Budget, error) {
	budget, err := s.GetBudget(ctx, ownerID, budgetID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if name := strings.TrimSpace(in.Name); name != "" {
		updates["name"] = name
	}
	if in.Icon != "" {
		updates["icon"] = in.Icon
	}
	if in.Color != "" {
		updates["color"] = in.Color
	}
	if in.CurrencyCode != "" {
		updates["currency_code"] = strings.ToUpper(in.CurrencyCode)
	}
	if len(updates) == 0 {
		return budget, nil
	}

	err = s.gate.Do(ctx, budget.ID, func() error {
		if err := s.db.WithContext(ctx).Model(budget).Updates(updates).Error; err != nil {
			return apperrors.Store(err)
		}
		return nil
	})
	if err != nil {
		return nil, gateError(err)
	}

	s.bus.Publish(events.Event{Collection: events.Budgets, Action: events.ActionUpdated, BudgetID: budget.ID, RecordID: budget.ID})
	fields := make([]string, 0, len(updates))
	for field := range updates {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	s.activity.Record(ctx, Activity{BudgetID: budget.ID, Action: "budget.updated", Title: "Updated budget " + budget.Name, Metadata: map[string]any{"fields": fields}})
	return budget, nil
}

// DeleteBudget soft-deletes a budget. An owner always keeps one budget.
func (s *budgetService) DeleteBudget(ctx context.Context, ownerID, budgetID string) error {
	budget, err := s.GetBudget(ctx, ownerID, budgetID)
	if err != nil {
		return err
	}

	err = s.gate.Do(ctx, ownerKey(ownerID), func() error {
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.Budget{}).Where("owner_id = ?", ownerID).Count(&count).Error; err != nil {
			return apperrors.Store(err)
		}
		if count <= 1 {
			return apperrors.WithMessage(apperrors.ErrInvalidState, "The last budget cannot be deleted")
		}
		if err := s.db.WithContext(ctx).Delete(budget).Error; err != nil {
			return apperrors.Store(err)
		}
		return nil
	})
	if err != nil {
		return gateError(err)
	}

	s.bus.Publish(events.Event{Collection: events.Budgets, Action: events.ActionDeleted, BudgetID: budget.ID, RecordID: budget.ID})
	s.activity.Record(ctx, Activity{BudgetID: budget.ID, Action: "budget.deleted", Title: "Deleted budget " + budget.Name})
	return nil
}
