package services

import (
	"context"
	"testing"
	"time"

	"pennyplan/internal/events"
	"pennyplan/internal/models"
	"pennyplan/internal/testutil"
)

func sectionNames(sections []models.Section) []string {
	names := make([]string, len(sections))
	for i, s := range sections {
		names[i] = s.Name
	}
	return names
}

func TestCreateSection(t *testing.T) {
	t.Run("appends", func(t *testing.T) {
		env := newTestEnv(t)
		svc := NewSectionService(env.db, env.gate, env.bus, env.activity)
		f := env.ledgerFixture(t)
		ctx := context.Background()

		first, err := svc.CreateSection(ctx, f.period.ID, "Essentials")
		testutil.AssertNoError(t, err)
		second, err := svc.CreateSection(ctx, f.period.ID, "Fun")
		testutil.AssertNoError(t, err)

		if first.DisplayOrder != 0 || second.DisplayOrder != 1 {
			t.Errorf("expected orders 0 and 1, got %d and %d", first.DisplayOrder, second.DisplayOrder)
		}
		if env.events.count(events.Sections) != 2 {
			t.Errorf("expected 2 section events, got %d", env.events.count(events.Sections))
		}
	})

	t.Run("requires_name", func(t *testing.T) {
		env := newTestEnv(t)
		svc := NewSectionService(env.db, env.gate, env.bus, env.activity)
		f := env.ledgerFixture(t)

		_, err := svc.CreateSection(context.Background(), f.period.ID, " ")
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})

	t.Run("unknown_period", func(t *testing.T) {
		env := newTestEnv(t)
		svc := NewSectionService(env.db, env.gate, env.bus, env.activity)

		_, err := svc.CreateSection(context.Background(), "missing", "Essentials")
		testutil.AssertAppError(t, err, "PERIOD_NOT_FOUND")
	})
}

func TestRenameAndGetSection(t *testing.T) {
	env := newTestEnv(t)
	svc := NewSectionService(env.db, env.gate, env.bus, env.activity)
	f := env.ledgerFixture(t)
	section := testutil.CreateTestSection(t, env.db, f.period.ID, "Essentials", 0)
	testutil.CreateTestMapping(t, env.db, section, f.groceries.ID, 0)
	ctx := context.Background()

	renamed, err := svc.RenameSection(ctx, f.period.ID, section.ID, "Needs")
	testutil.AssertNoError(t, err)
	if renamed.Name != "Needs" {
		t.Errorf("expected Needs, got %s", renamed.Name)
	}

	got, err := svc.GetSection(ctx, f.period.ID, section.ID)
	testutil.AssertNoError(t, err)
	if len(got.Mappings) != 1 || got.Mappings[0].Category == nil || got.Mappings[0].Category.Name != "Groceries" {
		t.Errorf("expected Groceries mapping to be preloaded, got %+v", got.Mappings)
	}

	other := testutil.CreateTestPeriod(t, env.db, f.budget.ID, jan15.AddDate(0, 1, 0), 2)
	_, err = svc.GetSection(ctx, other.ID, section.ID)
	testutil.AssertAppError(t, err, "SECTION_NOT_FOUND")
}

func TestDeleteSection(t *testing.T) {
	env := newTestEnv(t)
	svc := NewSectionService(env.db, env.gate, env.bus, env.activity)
	f := env.ledgerFixture(t)
	a := testutil.CreateTestSection(t, env.db, f.period.ID, "A", 0)
	b := testutil.CreateTestSection(t, env.db, f.period.ID, "B", 1)
	testutil.CreateTestSection(t, env.db, f.period.ID, "C", 2)
	testutil.CreateTestMapping(t, env.db, b, f.groceries.ID, 0)
	ctx := context.Background()

	testutil.AssertNoError(t, svc.DeleteSection(ctx, f.period.ID, b.ID))

	if n := testutil.CountRows(t, env.db, &models.CategoryMapping{}, "section_id = ?", b.ID); n != 0 {
		t.Errorf("expected mappings to be removed with the section, %d remain", n)
	}
	sections, err := svc.ListSections(ctx, f.period.ID)
	testutil.AssertNoError(t, err)
	if got := sectionNames(sections); len(got) != 2 || got[0] != "A" || got[1] != "C" {
		t.Fatalf("expected [A C], got %v", got)
	}
	testutil.AssertContiguousOrder(t, sections, func(s models.Section) int { return s.DisplayOrder })
	if sections[0].ID != a.ID {
		t.Errorf("expected A to keep its identity")
	}

	err = svc.DeleteSection(ctx, f.period.ID, b.ID)
	testutil.AssertAppError(t, err, "SECTION_NOT_FOUND")
}

func TestReorderSections(t *testing.T) {
	t.Run("moves_and_renumbers", func(t *testing.T) {
		env := newTestEnv(t)
		svc := NewSectionService(env.db, env.gate, env.bus, env.activity)
		f := env.ledgerFixture(t)
		for i, name := range []string{"A", "B", "C", "D"} {
			testutil.CreateTestSection(t, env.db, f.period.ID, name, i)
		}

		sections, err := svc.ReorderSections(context.Background(), f.period.ID, 3, 1)
		testutil.AssertNoError(t, err)

		want := []string{"A", "D", "B", "C"}
		got := sectionNames(sections)
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("expected %v, got %v", want, got)
			}
			if sections[i].DisplayOrder != i {
				t.Errorf("section %s has order %d", sections[i].Name, sections[i].DisplayOrder)
			}
		}
	})

	t.Run("out_of_range", func(t *testing.T) {
		env := newTestEnv(t)
		svc := NewSectionService(env.db, env.gate, env.bus, env.activity)
		f := env.ledgerFixture(t)
		testutil.CreateTestSection(t, env.db, f.period.ID, "A", 0)

		_, err := svc.ReorderSections(context.Background(), f.period.ID, 0, 1)
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
		_, err = svc.ReorderSections(context.Background(), f.period.ID, -1, 0)
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})
}

func TestMoveItem(t *testing.T) {
	tests := []struct {
		from, to int
		want     string
	}{
		{0, 0, "abcd"},
		{0, 3, "bcda"},
		{3, 0, "dabc"},
		{1, 2, "acbd"},
	}
	for _, tt := range tests {
		got := string(moveItem([]byte("abcd"), tt.from, tt.to))
		if got != tt.want {
			t.Errorf("moveItem(%d, %d) = %s, want %s", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestRenameSectionWaitsForWriter(t *testing.T) {
	env := newTestEnv(t)
	svc := NewSectionService(env.db, env.gate, env.bus, env.activity)
	f := env.ledgerFixture(t)
	section := testutil.CreateTestSection(t, env.db, f.period.ID, "Essentials", 0)

	release := holdGate(t, env.gate, f.budget.ID)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := svc.RenameSection(ctx, f.period.ID, section.ID, "Needs")
	testutil.AssertAppError(t, err, "STORE_ERROR")

	var stored models.Section
	testutil.AssertNoError(t, env.db.First(&stored, "id = ?", section.ID).Error)
	if stored.Name != "Essentials" {
		t.Errorf("expected the rename to wait for the writer, name is %q", stored.Name)
	}

	release()
	renamed, err := svc.RenameSection(context.Background(), f.period.ID, section.ID, "Needs")
	testutil.AssertNoError(t, err)
	if renamed.Name != "Needs" {
		t.Errorf("expected Needs, got %s", renamed.Name)
	}
}

func TestSectionActivity(t *testing.T) {
	env := newTestEnv(t)
	svc := NewSectionService(env.db, env.gate, env.bus, env.activity)
	f := env.ledgerFixture(t)
	ctx := context.Background()

	first, err := svc.CreateSection(ctx, f.period.ID, "Essentials")
	testutil.AssertNoError(t, err)
	_, err = svc.CreateSection(ctx, f.period.ID, "Fun")
	testutil.AssertNoError(t, err)
	_, err = svc.RenameSection(ctx, f.period.ID, first.ID, "Needs")
	testutil.AssertNoError(t, err)
	_, err = svc.ReorderSections(ctx, f.period.ID, 1, 0)
	testutil.AssertNoError(t, err)
	testutil.AssertNoError(t, svc.DeleteSection(ctx, f.period.ID, first.ID))

	if n := testutil.CountRows(t, env.db, &models.ActivityLog{}, "budget_id = ? AND module = ?", f.budget.ID, ActivityModule); n != 5 {
		t.Errorf("expected 5 activity rows, got %d", n)
	}
	assertActions(t, activityActions(t, env.db, f.budget.ID),
		"section.created", "section.created", "section.renamed", "section.reordered", "section.deleted")
}
