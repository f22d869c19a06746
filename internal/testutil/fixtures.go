package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"pennyplan/internal/calendar"
	"pennyplan/internal/models"

	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestBudget creates a budget for a fresh owner.
func CreateTestBudget(t *testing.T, db *gorm.DB) *models.Budget {
	t.Helper()
	return CreateTestBudgetForOwner(t, db, fmt.Sprintf("owner-%d", nextID()))
}

// CreateTestBudgetForOwner creates a budget for the given owner.
func CreateTestBudgetForOwner(t *testing.T, db *gorm.DB, ownerID string) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		OwnerID:      ownerID,
		Name:         models.DefaultBudgetName,
		CurrencyCode: "USD",
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestPeriod creates an OPEN monthly period for the calendar month
// containing day, with the given sequence.
func CreateTestPeriod(t *testing.T, db *gorm.DB, budgetID string, day time.Time, sequence int) *models.Period {
	t.Helper()

	period := &models.Period{
		BudgetID:   budgetID,
		PeriodType: models.PeriodTypeMonthly,
		Status:     models.PeriodStatusOpen,
		Sequence:   sequence,
	}
	period.SetRange(calendar.Month(day))
	if err := db.Create(period).Error; err != nil {
		t.Fatalf("failed to create test period: %v", err)
	}
	return period
}

// CreateTestHeadCategory creates an expense head category.
func CreateTestHeadCategory(t *testing.T, db *gorm.DB, budgetID string) *models.HeadCategory {
	t.Helper()

	head := &models.HeadCategory{
		BudgetID:   budgetID,
		Name:       fmt.Sprintf("Test Head %d", nextID()),
		PreferType: models.EntryTypeExpense,
	}
	if err := db.Create(head).Error; err != nil {
		t.Fatalf("failed to create test head category: %v", err)
	}
	return head
}

// CreateTestCategory creates a category under headID. An empty name gets a
// unique generated one.
func CreateTestCategory(t *testing.T, db *gorm.DB, headID, name string) *models.Category {
	t.Helper()

	if name == "" {
		name = fmt.Sprintf("Test Category %d", nextID())
	}
	category := &models.Category{HeadCategoryID: headID, Name: name}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestSection creates a section at the given display order.
func CreateTestSection(t *testing.T, db *gorm.DB, periodID, name string, order int) *models.Section {
	t.Helper()

	section := &models.Section{PeriodID: periodID, Name: name, DisplayOrder: order}
	if err := db.Create(section).Error; err != nil {
		t.Fatalf("failed to create test section: %v", err)
	}
	return section
}

// CreateTestMapping places a category in a section directly, bypassing the
// assignment rules.
func CreateTestMapping(t *testing.T, db *gorm.DB, section *models.Section, categoryID string, order int) *models.CategoryMapping {
	t.Helper()

	mapping := &models.CategoryMapping{
		SectionID:    section.ID,
		PeriodID:     section.PeriodID,
		CategoryID:   categoryID,
		DisplayOrder: order,
	}
	if err := db.Create(mapping).Error; err != nil {
		t.Fatalf("failed to create test mapping: %v", err)
	}
	return mapping
}

// CreateTestPlan creates a plan directly.
func CreateTestPlan(t *testing.T, db *gorm.DB, periodID, categoryID string, entryType models.EntryType, amount int64) *models.Plan {
	t.Helper()

	plan := &models.Plan{
		PeriodID:    periodID,
		CategoryID:  categoryID,
		Type:        entryType,
		AmountCents: amount,
		Notes:       fmt.Sprintf("note %d", nextID()),
	}
	if err := db.Create(plan).Error; err != nil {
		t.Fatalf("failed to create test plan: %v", err)
	}
	return plan
}

// CreateTestTransaction creates a transaction directly.
func CreateTestTransaction(t *testing.T, db *gorm.DB, period *models.Period, categoryID string, entryType models.EntryType, amount int64, date time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		BudgetID:    period.BudgetID,
		PeriodID:    period.ID,
		CategoryID:  categoryID,
		Type:        entryType,
		AmountCents: amount,
		Date:        date,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}
