package handlers

import (
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"pennyplan/internal/events"
	"pennyplan/internal/logger"
)

const (
	eventBuffer       = 64
	heartbeatInterval = 25 * time.Second
)

// EventsHandler streams change notifications of one budget as server-sent
// events. Clients re-read the named collection when an event arrives.
type EventsHandler struct {
	bus       *events.Bus
	heartbeat time.Duration
}

// NewEventsHandler creates a new EventsHandler.
func NewEventsHandler(bus *events.Bus) *EventsHandler {
	return &EventsHandler{bus: bus, heartbeat: heartbeatInterval}
}

// Stream subscribes to the bus for the scoped budget until the client goes
// away. A client that falls behind loses events rather than blocking
// publishers.
// @Summary     Stream change events
// @Tags        events
// @Produce     text/event-stream
// @Security    BearerAuth
// @Param       budgetID path string true "Budget ID"
// @Router      /budgets/{budgetID}/events [get]
func (h *EventsHandler) Stream(c *gin.Context) {
	budgetID := scopedBudget(c).ID
	ch := make(chan events.Event, eventBuffer)

	unsubscribe := h.bus.SubscribeAll(func(ev events.Event) {
		if ev.BudgetID != budgetID {
			return
		}
		select {
		case ch <- ev:
		default:
			logger.Get().Warnw("dropping event for slow client",
				"budget_id", budgetID,
				"collection", ev.Collection,
			)
		}
	})
	defer unsubscribe()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case ev := <-ch:
			c.SSEvent(string(ev.Collection), ev)
			return true
		case <-ticker.C:
			c.SSEvent("heartbeat", gin.H{"at": time.Now().UTC()})
			return true
		}
	})
}
