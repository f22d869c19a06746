package services

import (
	"context"
	"math/rand"
	"testing"

	"pennyplan/internal/models"
	"pennyplan/internal/testutil"
)

func TestAssign(t *testing.T) {
	t.Run("appends_and_inserts_at_position", func(t *testing.T) {
		env := newTestEnv(t)
		svc := NewAssignmentService(env.db, env.gate, env.bus, env.activity)
		f := env.ledgerFixture(t)
		fuel := testutil.CreateTestCategory(t, env.db, f.head.ID, "Fuel")
		rent := testutil.CreateTestCategory(t, env.db, f.head.ID, "Rent")
		section := testutil.CreateTestSection(t, env.db, f.period.ID, "Essentials", 0)
		ctx := context.Background()

		_, err := svc.Assign(ctx, f.groceries.ID, section.ID, nil)
		testutil.AssertNoError(t, err)
		_, err = svc.Assign(ctx, fuel.ID, section.ID, intPtr(10))
		testutil.AssertNoError(t, err)
		m, err := svc.Assign(ctx, rent.ID, section.ID, intPtr(0))
		testutil.AssertNoError(t, err)
		if m.DisplayOrder != 0 {
			t.Errorf("expected rent at 0, got %d", m.DisplayOrder)
		}

		got := testutil.MappingCategoryIDs(t, env.db, section.ID)
		want := []string{rent.ID, f.groceries.ID, fuel.ID}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("unexpected order %v", got)
			}
		}
	})

	t.Run("same_section_is_idempotent", func(t *testing.T) {
		env := newTestEnv(t)
		svc := NewAssignmentService(env.db, env.gate, env.bus, env.activity)
		f := env.ledgerFixture(t)
		section := testutil.CreateTestSection(t, env.db, f.period.ID, "Essentials", 0)
		ctx := context.Background()

		first, err := svc.Assign(ctx, f.groceries.ID, section.ID, nil)
		testutil.AssertNoError(t, err)
		second, err := svc.Assign(ctx, f.groceries.ID, section.ID, intPtr(0))
		testutil.AssertNoError(t, err)

		if first.ID != second.ID {
			t.Errorf("expected the existing mapping to be kept")
		}
		if n := testutil.CountRows(t, env.db, &models.CategoryMapping{}, "category_id = ?", f.groceries.ID); n != 1 {
			t.Errorf("expected 1 mapping, got %d", n)
		}
	})

	t.Run("other_section_replaces_mapping", func(t *testing.T) {
		env := newTestEnv(t)
		svc := NewAssignmentService(env.db, env.gate, env.bus, env.activity)
		f := env.ledgerFixture(t)
		fuel := testutil.CreateTestCategory(t, env.db, f.head.ID, "Fuel")
		a := testutil.CreateTestSection(t, env.db, f.period.ID, "A", 0)
		b := testutil.CreateTestSection(t, env.db, f.period.ID, "B", 1)
		testutil.CreateTestMapping(t, env.db, a, f.groceries.ID, 0)
		testutil.CreateTestMapping(t, env.db, a, fuel.ID, 1)

		_, err := svc.Assign(context.Background(), f.groceries.ID, b.ID, nil)
		testutil.AssertNoError(t, err)

		if got := testutil.MappingCategoryIDs(t, env.db, a.ID); len(got) != 1 || got[0] != fuel.ID {
			t.Errorf("expected A to hold only Fuel at 0, got %v", got)
		}
		if got := testutil.MappingCategoryIDs(t, env.db, b.ID); len(got) != 1 || got[0] != f.groceries.ID {
			t.Errorf("expected B to hold Groceries, got %v", got)
		}
	})

	t.Run("same_category_in_each_period", func(t *testing.T) {
		env := newTestEnv(t)
		svc := NewAssignmentService(env.db, env.gate, env.bus, env.activity)
		f := env.ledgerFixture(t)
		feb := testutil.CreateTestPeriod(t, env.db, f.budget.ID, jan15.AddDate(0, 1, 0), 2)
		janSection := testutil.CreateTestSection(t, env.db, f.period.ID, "A", 0)
		febSection := testutil.CreateTestSection(t, env.db, feb.ID, "A", 0)
		ctx := context.Background()

		_, err := svc.Assign(ctx, f.groceries.ID, janSection.ID, nil)
		testutil.AssertNoError(t, err)
		_, err = svc.Assign(ctx, f.groceries.ID, febSection.ID, nil)
		testutil.AssertNoError(t, err)

		if n := testutil.CountRows(t, env.db, &models.CategoryMapping{}, "category_id = ?", f.groceries.ID); n != 2 {
			t.Errorf("expected one mapping per period, got %d", n)
		}
	})

	t.Run("rejects_negative_position", func(t *testing.T) {
		env := newTestEnv(t)
		svc := NewAssignmentService(env.db, env.gate, env.bus, env.activity)
		f := env.ledgerFixture(t)
		section := testutil.CreateTestSection(t, env.db, f.period.ID, "A", 0)

		_, err := svc.Assign(context.Background(), f.groceries.ID, section.ID, intPtr(-1))
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})

	t.Run("category_of_other_budget", func(t *testing.T) {
		env := newTestEnv(t)
		svc := NewAssignmentService(env.db, env.gate, env.bus, env.activity)
		f := env.ledgerFixture(t)
		other := testutil.CreateTestBudget(t, env.db)
		otherHead := testutil.CreateTestHeadCategory(t, env.db, other.ID)
		foreign := testutil.CreateTestCategory(t, env.db, otherHead.ID, "")
		section := testutil.CreateTestSection(t, env.db, f.period.ID, "A", 0)

		_, err := svc.Assign(context.Background(), foreign.ID, section.ID, nil)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})
}

func TestMove(t *testing.T) {
	t.Run("to_front_of_other_section", func(t *testing.T) {
		env := newTestEnv(t)
		svc := NewAssignmentService(env.db, env.gate, env.bus, env.activity)
		f := env.ledgerFixture(t)
		fuel := testutil.CreateTestCategory(t, env.db, f.head.ID, "Fuel")
		rent := testutil.CreateTestCategory(t, env.db, f.head.ID, "Rent")
		a := testutil.CreateTestSection(t, env.db, f.period.ID, "A", 0)
		b := testutil.CreateTestSection(t, env.db, f.period.ID, "B", 1)
		testutil.CreateTestMapping(t, env.db, a, f.groceries.ID, 0)
		testutil.CreateTestMapping(t, env.db, a, fuel.ID, 1)
		testutil.CreateTestMapping(t, env.db, b, rent.ID, 0)

		moved, err := svc.Move(context.Background(), f.groceries.ID, a.ID, b.ID, intPtr(0))
		testutil.AssertNoError(t, err)
		if moved.SectionID != b.ID || moved.DisplayOrder != 0 {
			t.Errorf("unexpected moved mapping: %+v", moved)
		}

		if got := testutil.MappingCategoryIDs(t, env.db, a.ID); len(got) != 1 || got[0] != fuel.ID {
			t.Errorf("expected A = [Fuel], got %v", got)
		}
		got := testutil.MappingCategoryIDs(t, env.db, b.ID)
		if len(got) != 2 || got[0] != f.groceries.ID || got[1] != rent.ID {
			t.Errorf("expected B = [Groceries Rent], got %v", got)
		}
	})

	t.Run("not_in_source_section", func(t *testing.T) {
		env := newTestEnv(t)
		svc := NewAssignmentService(env.db, env.gate, env.bus, env.activity)
		f := env.ledgerFixture(t)
		a := testutil.CreateTestSection(t, env.db, f.period.ID, "A", 0)
		b := testutil.CreateTestSection(t, env.db, f.period.ID, "B", 1)

		_, err := svc.Move(context.Background(), f.groceries.ID, a.ID, b.ID, nil)
		testutil.AssertAppError(t, err, "MAPPING_NOT_FOUND")
	})

	t.Run("across_periods", func(t *testing.T) {
		env := newTestEnv(t)
		svc := NewAssignmentService(env.db, env.gate, env.bus, env.activity)
		f := env.ledgerFixture(t)
		feb := testutil.CreateTestPeriod(t, env.db, f.budget.ID, jan15.AddDate(0, 1, 0), 2)
		a := testutil.CreateTestSection(t, env.db, f.period.ID, "A", 0)
		b := testutil.CreateTestSection(t, env.db, feb.ID, "B", 0)
		testutil.CreateTestMapping(t, env.db, a, f.groceries.ID, 0)

		_, err := svc.Move(context.Background(), f.groceries.ID, a.ID, b.ID, nil)
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
		if got := testutil.MappingCategoryIDs(t, env.db, a.ID); len(got) != 1 {
			t.Errorf("failed move must leave the source intact, got %v", got)
		}
	})
}

func TestReorderAndUnassign(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAssignmentService(env.db, env.gate, env.bus, env.activity)
	f := env.ledgerFixture(t)
	fuel := testutil.CreateTestCategory(t, env.db, f.head.ID, "Fuel")
	rent := testutil.CreateTestCategory(t, env.db, f.head.ID, "Rent")
	section := testutil.CreateTestSection(t, env.db, f.period.ID, "A", 0)
	testutil.CreateTestMapping(t, env.db, section, f.groceries.ID, 0)
	testutil.CreateTestMapping(t, env.db, section, fuel.ID, 1)
	testutil.CreateTestMapping(t, env.db, section, rent.ID, 2)
	ctx := context.Background()

	ordered, err := svc.Reorder(ctx, section.ID, 0, 2)
	testutil.AssertNoError(t, err)
	if ordered[2].CategoryID != f.groceries.ID {
		t.Errorf("expected Groceries last, got %v", ordered)
	}
	got := testutil.MappingCategoryIDs(t, env.db, section.ID)
	if got[0] != fuel.ID || got[1] != rent.ID || got[2] != f.groceries.ID {
		t.Errorf("unexpected order %v", got)
	}

	_, err = svc.Reorder(ctx, section.ID, 0, 3)
	testutil.AssertAppError(t, err, "VALIDATION_ERROR")

	testutil.AssertNoError(t, svc.Unassign(ctx, rent.ID, section.ID))
	got = testutil.MappingCategoryIDs(t, env.db, section.ID)
	if len(got) != 2 || got[0] != fuel.ID || got[1] != f.groceries.ID {
		t.Errorf("unexpected order after unassign %v", got)
	}

	err = svc.Unassign(ctx, rent.ID, section.ID)
	testutil.AssertAppError(t, err, "MAPPING_NOT_FOUND")
}

// TestAssignmentSequences drives random assign, move and unassign calls and
// checks after each one that a category sits in at most one section of the
// period and every section's order is contiguous.
func TestAssignmentSequences(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAssignmentService(env.db, env.gate, env.bus, env.activity)
	f := env.ledgerFixture(t)
	ctx := context.Background()

	categories := []string{f.groceries.ID}
	for i := 0; i < 4; i++ {
		categories = append(categories, testutil.CreateTestCategory(t, env.db, f.head.ID, "").ID)
	}
	var sections []*models.Section
	for i, name := range []string{"A", "B", "C"} {
		sections = append(sections, testutil.CreateTestSection(t, env.db, f.period.ID, name, i))
	}

	rng := rand.New(rand.NewSource(42))
	for step := 0; step < 60; step++ {
		cat := categories[rng.Intn(len(categories))]
		target := sections[rng.Intn(len(sections))]
		var pos *int
		if rng.Intn(2) == 0 {
			pos = intPtr(rng.Intn(4))
		}

		var current models.CategoryMapping
		found := env.db.Where("period_id = ? AND category_id = ?", f.period.ID, cat).Limit(1).Find(&current).RowsAffected > 0

		var err error
		switch rng.Intn(3) {
		case 0:
			_, err = svc.Assign(ctx, cat, target.ID, pos)
		case 1:
			if !found {
				continue
			}
			_, err = svc.Move(ctx, cat, current.SectionID, target.ID, pos)
		default:
			if !found {
				continue
			}
			err = svc.Unassign(ctx, cat, current.SectionID)
		}
		if err != nil {
			t.Fatalf("step %d: unexpected error: %v", step, err)
		}

		seen := make(map[string]bool)
		for _, s := range sections {
			for _, id := range testutil.MappingCategoryIDs(t, env.db, s.ID) {
				if seen[id] {
					t.Fatalf("step %d: category %s is in more than one section", step, id)
				}
				seen[id] = true
			}
		}
	}
}

func TestAssignmentActivity(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAssignmentService(env.db, env.gate, env.bus, env.activity)
	f := env.ledgerFixture(t)
	fuel := testutil.CreateTestCategory(t, env.db, f.head.ID, "Fuel")
	a := testutil.CreateTestSection(t, env.db, f.period.ID, "A", 0)
	b := testutil.CreateTestSection(t, env.db, f.period.ID, "B", 1)
	ctx := context.Background()

	_, err := svc.Assign(ctx, f.groceries.ID, a.ID, nil)
	testutil.AssertNoError(t, err)
	_, err = svc.Assign(ctx, fuel.ID, a.ID, nil)
	testutil.AssertNoError(t, err)
	_, err = svc.Reorder(ctx, a.ID, 1, 0)
	testutil.AssertNoError(t, err)
	_, err = svc.Move(ctx, fuel.ID, a.ID, b.ID, nil)
	testutil.AssertNoError(t, err)
	testutil.AssertNoError(t, svc.Unassign(ctx, f.groceries.ID, a.ID))

	assertActions(t, activityActions(t, env.db, f.budget.ID),
		"section.category_assigned", "section.category_assigned", "section.categories_reordered",
		"section.category_moved", "section.category_unassigned")

	err = svc.Unassign(ctx, f.groceries.ID, a.ID)
	testutil.AssertAppError(t, err, "MAPPING_NOT_FOUND")
	if n := testutil.CountRows(t, env.db, &models.ActivityLog{}, "budget_id = ?", f.budget.ID); n != 5 {
		t.Errorf("expected 5 activity rows, got %d", n)
	}
}
