package testutil

import (
	"errors"
	"testing"

	"gorm.io/gorm"

	apperrors "pennyplan/internal/errors"
	"pennyplan/internal/models"
)

// AssertAppError checks that err is an *AppError with the expected code.
func AssertAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected AppError with code %q, got nil", expectedCode)
	}

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}
	if appErr.Code != expectedCode {
		t.Errorf("expected error code %q, got %q (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertContiguousOrder checks that items, already sorted, carry display
// orders 0..n-1.
func AssertContiguousOrder[T any](t *testing.T, items []T, order func(T) int) {
	t.Helper()
	for i, item := range items {
		if got := order(item); got != i {
			t.Errorf("item %d has display order %d", i, got)
		}
	}
}

// MappingCategoryIDs returns the category IDs mapped into a section in
// display order, failing when the orders are not contiguous from 0.
func MappingCategoryIDs(t *testing.T, db *gorm.DB, sectionID string) []string {
	t.Helper()

	var mappings []models.CategoryMapping
	if err := db.Where("section_id = ?", sectionID).Order("display_order ASC").Find(&mappings).Error; err != nil {
		t.Fatalf("failed to load mappings: %v", err)
	}
	AssertContiguousOrder(t, mappings, func(m models.CategoryMapping) int { return m.DisplayOrder })

	ids := make([]string, len(mappings))
	for i, m := range mappings {
		ids[i] = m.CategoryID
	}
	return ids
}

// CountRows counts rows of model matching query.
func CountRows(t *testing.T, db *gorm.DB, model any, query string, args ...any) int64 {
	t.Helper()

	var n int64
	if err := db.Model(model).Where(query, args...).Count(&n).Error; err != nil {
		t.Fatalf("failed to count rows: %v", err)
	}
	return n
}
