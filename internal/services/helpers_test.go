package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"gorm.io/gorm"

	"pennyplan/internal/amqp"
	"pennyplan/internal/calendar"
	"pennyplan/internal/events"
	"pennyplan/internal/models"
	"pennyplan/internal/testutil"
)

// jan15 is the "today" most tests run on.
var jan15 = calendar.Date(2025, time.January, 15)

// testEnv wires the shared collaborators of the services under test.
type testEnv struct {
	db       *gorm.DB
	gate     *WriterGate
	bus      *events.Bus
	activity ActivityServicer
	events   *eventLog
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	bus := events.NewBus()
	return &testEnv{
		db:       db,
		gate:     NewWriterGate(),
		bus:      bus,
		activity: NewActivityService(db, nil),
		events:   recordEvents(bus),
	}
}

// ledgerFixture is a budget with one January period and a Groceries
// category.
type ledgerFixture struct {
	budget    *models.Budget
	period    *models.Period
	head      *models.HeadCategory
	groceries *models.Category
}

func (e *testEnv) ledgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()
	budget := testutil.CreateTestBudget(t, e.db)
	period := testutil.CreateTestPeriod(t, e.db, budget.ID, jan15, 1)
	head := testutil.CreateTestHeadCategory(t, e.db, budget.ID)
	groceries := testutil.CreateTestCategory(t, e.db, head.ID, "Groceries")
	return &ledgerFixture{budget: budget, period: period, head: head, groceries: groceries}
}

func (e *testEnv) closePeriod(t *testing.T, period *models.Period) {
	t.Helper()
	if err := e.db.Model(period).Update("status", models.PeriodStatusClosed).Error; err != nil {
		t.Fatalf("failed to close period: %v", err)
	}
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

// eventLog records everything published on a bus.
type eventLog struct {
	mu     sync.Mutex
	events []events.Event
}

func recordEvents(bus *events.Bus) *eventLog {
	l := &eventLog{}
	bus.SubscribeAll(func(ev events.Event) {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.events = append(l.events, ev)
	})
	return l
}

func (l *eventLog) count(c events.Collection) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, ev := range l.events {
		if ev.Collection == c {
			n++
		}
	}
	return n
}

func (l *eventLog) reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = nil
}

// recordingPublisher captures activity fan-out.
type recordingPublisher struct {
	mu       sync.Mutex
	messages []*amqp.ActivityMessage
	err      error
}

func (p *recordingPublisher) PublishActivity(_ context.Context, msg *amqp.ActivityMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, msg)
	return p.err
}

// activityActions returns the budget's recorded activity actions, oldest
// first.
func activityActions(t *testing.T, db *gorm.DB, budgetID string) []string {
	t.Helper()
	var actions []string
	if err := db.Model(&models.ActivityLog{}).Where("budget_id = ?", budgetID).
		Order("created_at ASC, id ASC").Pluck("action", &actions).Error; err != nil {
		t.Fatalf("failed to load activity: %v", err)
	}
	return actions
}

func assertActions(t *testing.T, got []string, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected activity %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected activity %v, got %v", want, got)
		}
	}
}

// holdGate takes the writer gate for key until the returned func is called.
func holdGate(t *testing.T, gate *WriterGate, key string) func() {
	t.Helper()
	release := make(chan struct{})
	held := make(chan struct{})
	go func() {
		_ = gate.Do(context.Background(), key, func() error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held

	var once sync.Once
	done := func() { once.Do(func() { close(release) }) }
	t.Cleanup(done)
	return done
}
