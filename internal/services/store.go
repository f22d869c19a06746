package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"pennyplan/internal/calendar"
	apperrors "pennyplan/internal/errors"
	"pennyplan/internal/events"
	"pennyplan/internal/models"
)

// storeError maps a store failure to notFound for missing rows and to
// STORE_ERROR otherwise.
func storeError(err error, notFound *apperrors.AppError) error {
	if errors.Is(err, gorm.ErrRecordNotFound) && notFound != nil {
		return notFound
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperrors.Store(err)
}

// gateError turns a cancelled wait on the writer gate into a store error.
func gateError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperrors.Store(err)
}

// dateError converts calendar parse failures to DATE_PARSE_ERROR.
func dateError(err error) error {
	var pe *calendar.ParseError
	if errors.As(err, &pe) {
		return apperrors.Wrap(apperrors.ErrDateParse, err)
	}
	return err
}

func requireID(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return apperrors.Validation(field, "is required")
	}
	return nil
}

func findBudget(ctx context.Context, db *gorm.DB, budgetID string) (*models.Budget, error) {
	var budget models.Budget
	if err := db.WithContext(ctx).Where("id = ?", budgetID).First(&budget).Error; err != nil {
		return nil, storeError(err, apperrors.ErrBudgetNotFound)
	}
	return &budget, nil
}

func findPeriod(ctx context.Context, db *gorm.DB, periodID string) (*models.Period, error) {
	var period models.Period
	if err := db.WithContext(ctx).Where("id = ?", periodID).First(&period).Error; err != nil {
		return nil, storeError(err, apperrors.ErrPeriodNotFound)
	}
	return &period, nil
}

func findSection(ctx context.Context, db *gorm.DB, sectionID string) (*models.Section, error) {
	var section models.Section
	if err := db.WithContext(ctx).Where("id = ?", sectionID).First(&section).Error; err != nil {
		return nil, storeError(err, apperrors.ErrSectionNotFound)
	}
	return &section, nil
}

// findCategory loads a live category that belongs to budgetID through its
// head category.
func findCategory(ctx context.Context, db *gorm.DB, budgetID, categoryID string) (*models.Category, error) {
	var category models.Category
	err := db.WithContext(ctx).
		Joins("JOIN head_categories ON head_categories.id = categories.head_category_id AND head_categories.deleted_at IS NULL").
		Where("categories.id = ? AND head_categories.budget_id = ?", categoryID, budgetID).
		First(&category).Error
	if err != nil {
		return nil, storeError(err, apperrors.ErrCategoryNotFound)
	}
	return &category, nil
}

// publishLedger announces a plan or transaction change together with the
// summary it invalidates.
func publishLedger(bus *events.Bus, ev events.Event) {
	bus.Publish(ev)
	bus.Publish(events.Event{
		Collection: events.Summary,
		Action:     events.ActionUpdated,
		BudgetID:   ev.BudgetID,
		PeriodID:   ev.PeriodID,
	})
}
