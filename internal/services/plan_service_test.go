package services

import (
	"context"
	"testing"

	"pennyplan/internal/events"
	"pennyplan/internal/models"
	"pennyplan/internal/testutil"
)

func TestCreateOrUpdatePlan(t *testing.T) {
	t.Run("upserts_one_plan_per_category", func(t *testing.T) {
		env := newTestEnv(t)
		svc := NewPlanService(env.db, env.gate, env.bus, env.activity)
		f := env.ledgerFixture(t)
		ctx := context.Background()

		created, err := svc.CreateOrUpdatePlan(ctx, PlanInput{
			PeriodID: f.period.ID, CategoryID: f.groceries.ID, Type: models.EntryTypeExpense, AmountCents: 50000,
		})
		testutil.AssertNoError(t, err)

		updated, err := svc.CreateOrUpdatePlan(ctx, PlanInput{
			PeriodID: f.period.ID, CategoryID: f.groceries.ID, Type: models.EntryTypeExpense, AmountCents: 42000, Notes: "tighter",
		})
		testutil.AssertNoError(t, err)

		if updated.ID != created.ID {
			t.Errorf("expected the plan to be updated in place")
		}
		if updated.AmountCents != 42000 || updated.Notes != "tighter" {
			t.Errorf("unexpected plan after update: %+v", updated)
		}
		if n := testutil.CountRows(t, env.db, &models.Plan{}, "period_id = ?", f.period.ID); n != 1 {
			t.Errorf("expected 1 plan, got %d", n)
		}
		if env.events.count(events.Plans) != 2 || env.events.count(events.Summary) != 2 {
			t.Errorf("expected plan and summary events for each write")
		}
	})

	t.Run("zero_amount_allowed", func(t *testing.T) {
		env := newTestEnv(t)
		svc := NewPlanService(env.db, env.gate, env.bus, env.activity)
		f := env.ledgerFixture(t)

		plan, err := svc.CreateOrUpdatePlan(context.Background(), PlanInput{
			PeriodID: f.period.ID, CategoryID: f.groceries.ID, Type: models.EntryTypeExpense,
		})
		testutil.AssertNoError(t, err)
		if plan.AmountCents != 0 {
			t.Errorf("expected 0, got %d", plan.AmountCents)
		}
	})

	t.Run("negative_amount_rejected_before_lookup", func(t *testing.T) {
		env := newTestEnv(t)
		svc := NewPlanService(env.db, env.gate, env.bus, env.activity)

		// Unknown IDs: validation must fail before the store is consulted.
		_, err := svc.CreateOrUpdatePlan(context.Background(), PlanInput{
			PeriodID: "missing", CategoryID: "missing", Type: models.EntryTypeExpense, AmountCents: -1,
		})
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
		if env.events.count(events.Plans) != 0 {
			t.Error("no event expected for a rejected plan")
		}
	})

	t.Run("invalid_type", func(t *testing.T) {
		env := newTestEnv(t)
		svc := NewPlanService(env.db, env.gate, env.bus, env.activity)
		f := env.ledgerFixture(t)

		_, err := svc.CreateOrUpdatePlan(context.Background(), PlanInput{
			PeriodID: f.period.ID, CategoryID: f.groceries.ID, Type: "BOTH", AmountCents: 100,
		})
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})

	t.Run("category_of_other_budget", func(t *testing.T) {
		env := newTestEnv(t)
		svc := NewPlanService(env.db, env.gate, env.bus, env.activity)
		f := env.ledgerFixture(t)
		other := testutil.CreateTestBudget(t, env.db)
		foreign := testutil.CreateTestCategory(t, env.db, testutil.CreateTestHeadCategory(t, env.db, other.ID).ID, "")

		_, err := svc.CreateOrUpdatePlan(context.Background(), PlanInput{
			PeriodID: f.period.ID, CategoryID: foreign.ID, Type: models.EntryTypeExpense, AmountCents: 100,
		})
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})
}

func TestPlanReadAndDelete(t *testing.T) {
	env := newTestEnv(t)
	svc := NewPlanService(env.db, env.gate, env.bus, env.activity)
	f := env.ledgerFixture(t)
	fuel := testutil.CreateTestCategory(t, env.db, f.head.ID, "Fuel")
	groceries := testutil.CreateTestPlan(t, env.db, f.period.ID, f.groceries.ID, models.EntryTypeExpense, 50000)
	testutil.CreateTestPlan(t, env.db, f.period.ID, fuel.ID, models.EntryTypeExpense, 8000)
	ctx := context.Background()

	plans, err := svc.ListPlans(ctx, f.period.ID)
	testutil.AssertNoError(t, err)
	if len(plans) != 2 {
		t.Fatalf("expected 2 plans, got %d", len(plans))
	}

	got, err := svc.GetPlan(ctx, f.period.ID, groceries.ID)
	testutil.AssertNoError(t, err)
	if got.AmountCents != 50000 {
		t.Errorf("expected 50000, got %d", got.AmountCents)
	}

	testutil.AssertNoError(t, svc.DeletePlan(ctx, f.period.ID, groceries.ID))
	_, err = svc.GetPlan(ctx, f.period.ID, groceries.ID)
	testutil.AssertAppError(t, err, "PLAN_NOT_FOUND")

	_, err = svc.ListPlans(ctx, "missing")
	testutil.AssertAppError(t, err, "PERIOD_NOT_FOUND")
}

func TestPlanActivity(t *testing.T) {
	env := newTestEnv(t)
	svc := NewPlanService(env.db, env.gate, env.bus, env.activity)
	f := env.ledgerFixture(t)
	ctx := context.Background()

	in := PlanInput{PeriodID: f.period.ID, CategoryID: f.groceries.ID, Type: models.EntryTypeExpense, AmountCents: 50000}
	plan, err := svc.CreateOrUpdatePlan(ctx, in)
	testutil.AssertNoError(t, err)
	in.AmountCents = 45000
	_, err = svc.CreateOrUpdatePlan(ctx, in)
	testutil.AssertNoError(t, err)
	testutil.AssertNoError(t, svc.DeletePlan(ctx, f.period.ID, plan.ID))

	if n := testutil.CountRows(t, env.db, &models.ActivityLog{}, "budget_id = ? AND module = ?", f.budget.ID, ActivityModule); n != 3 {
		t.Errorf("expected 3 activity rows, got %d", n)
	}
	assertActions(t, activityActions(t, env.db, f.budget.ID), "plan.created", "plan.updated", "plan.deleted")

	// Rejected writes leave no trace.
	_, err = svc.CreateOrUpdatePlan(ctx, PlanInput{PeriodID: f.period.ID, CategoryID: f.groceries.ID, Type: models.EntryTypeExpense, AmountCents: -1})
	testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	if n := testutil.CountRows(t, env.db, &models.ActivityLog{}, "budget_id = ?", f.budget.ID); n != 3 {
		t.Errorf("expected no activity for a rejected plan, got %d rows", n)
	}
}
