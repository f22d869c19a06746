package services

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"
)

// WriterGate serializes read-then-write sequences per budget. Reads never
// take the gate.
type WriterGate struct {
	mu     sync.Mutex
	gates  map[string]*semaphore.Weighted
	flight singleflight.Group
}

// NewWriterGate creates an empty gate set.
func NewWriterGate() *WriterGate {
	return &WriterGate{gates: make(map[string]*semaphore.Weighted)}
}

func (g *WriterGate) gate(budgetID string) *semaphore.Weighted {
	g.mu.Lock()
	defer g.mu.Unlock()

	sem, ok := g.gates[budgetID]
	if !ok {
		sem = semaphore.NewWeighted(1)
		g.gates[budgetID] = sem
	}
	return sem
}

// Do runs fn as the only writer for budgetID. Waiting is abandoned when ctx
// is done; fn itself is not interrupted.
func (g *WriterGate) Do(ctx context.Context, budgetID string, fn func() error) error {
	sem := g.gate(budgetID)
	if err := sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer sem.Release(1)
	return fn()
}

// Once collapses concurrent calls sharing key into a single execution of fn.
func (g *WriterGate) Once(key string, fn func() (any, error)) (any, error) {
	v, err, _ := g.flight.Do(key, fn)
	return v, err
}
