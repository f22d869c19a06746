// Package events is the explicit change-notification contract between the
// services and whatever presents their state. Services publish after a
// successful commit; consumers subscribe per collection and re-read.
package events

import (
	"sync"

	"pennyplan/internal/logger"
)

// Collection names an observable set of records.
type Collection string

const (
	Budgets       Collection = "budgets"
	CurrentPeriod Collection = "currentPeriod"
	Sections      Collection = "sections"
	Plans         Collection = "plans"
	Transactions  Collection = "transactions"
	Summary       Collection = "summary"
)

// Action describes what happened to the record.
type Action string

const (
	ActionCreated   Action = "created"
	ActionUpdated   Action = "updated"
	ActionDeleted   Action = "deleted"
	ActionCompleted Action = "completed"
)

// Event is a change notification. PeriodID is empty for budget-level
// changes.
type Event struct {
	Collection Collection `json:"collection"`
	Action     Action     `json:"action"`
	BudgetID   string     `json:"budget_id"`
	PeriodID   string     `json:"period_id,omitempty"`
	RecordID   string     `json:"record_id,omitempty"`
}

// Handler receives events synchronously on the publisher's goroutine and
// must not block.
type Handler func(Event)

// Bus fans events out to per-collection subscribers.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[Collection]map[int]Handler
	all    map[int]Handler
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{
		subs: make(map[Collection]map[int]Handler),
		all:  make(map[int]Handler),
	}
}

// Subscribe registers fn for one collection and returns a func that removes
// the subscription.
func (b *Bus) Subscribe(c Collection, fn Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	if b.subs[c] == nil {
		b.subs[c] = make(map[int]Handler)
	}
	b.subs[c][id] = fn

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs[c], id)
	}
}

// SubscribeAll registers fn for every collection.
func (b *Bus) SubscribeAll(fn Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.all[id] = fn

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.all, id)
	}
}

// Publish delivers ev to matching subscribers. A panicking handler is
// logged and does not stop delivery to the others.
func (b *Bus) Publish(ev Event) {
	if b == nil {
		return
	}

	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs[ev.Collection])+len(b.all))
	for _, h := range b.subs[ev.Collection] {
		handlers = append(handlers, h)
	}
	for _, h := range b.all {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		deliver(h, ev)
	}
}

func deliver(h Handler, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			logger.Get().Errorw("event handler panicked",
				"collection", ev.Collection,
				"action", ev.Action,
				"panic", r,
			)
		}
	}()
	h(ev)
}
