// Package live fans change events out to subscribers of a collection, within
// one process and across instances through Redis pub/sub.
package live

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"swcommons/internal/logging"
	"swcommons/pkg/models"
)

// Forwarder carries locally published events to other instances
type Forwarder interface {
	Forward(ctx context.Context, event models.ChangeEvent) error
}

// Hub is the in-process change feed. It implements store.Publisher.
type Hub struct {
	mu        sync.RWMutex
	subs      map[models.Collection]map[*Subscription]struct{}
	origin    string
	forwarder Forwarder
	logger    logging.Logger
}

// NewHub returns an empty hub with a fresh instance origin id
func NewHub(logger logging.Logger) *Hub {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}
	return &Hub{
		subs:   make(map[models.Collection]map[*Subscription]struct{}),
		origin: uuid.New().String(),
		logger: logger,
	}
}

// Origin identifies this instance on the shared channel
func (h *Hub) Origin() string {
	return h.origin
}

// SetForwarder attaches the cross-instance transport
func (h *Hub) SetForwarder(f Forwarder) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.forwarder = f
}

// Subscription receives change notifications for one collection.
// Events coalesce: a subscriber that has not yet drained the pending
// notification will not receive a second one for the same burst.
type Subscription struct {
	Collection models.Collection

	hub    *Hub
	events chan models.ChangeEvent
	once   sync.Once
}

// Events is closed when the subscription is closed
func (s *Subscription) Events() <-chan models.ChangeEvent {
	return s.events
}

// Close detaches the subscription from its hub
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.remove(s)
		close(s.events)
	})
}

// Subscribe registers interest in c
func (h *Hub) Subscribe(c models.Collection) *Subscription {
	sub := &Subscription{Collection: c, hub: h, events: make(chan models.ChangeEvent, 1)}

	h.mu.Lock()
	if h.subs[c] == nil {
		h.subs[c] = make(map[*Subscription]struct{})
	}
	h.subs[c][sub] = struct{}{}
	count := len(h.subs[c])
	h.mu.Unlock()

	h.logger.Debug("Live subscription opened", map[string]interface{}{
		"collection":  string(c),
		"subscribers": count,
	})
	return sub
}

func (h *Hub) remove(sub *Subscription) {
	h.mu.Lock()
	delete(h.subs[sub.Collection], sub)
	if len(h.subs[sub.Collection]) == 0 {
		delete(h.subs, sub.Collection)
	}
	h.mu.Unlock()

	h.logger.Debug("Live subscription closed", map[string]interface{}{
		"collection": string(sub.Collection),
	})
}

// Subscribers counts the open subscriptions on c
func (h *Hub) Subscribers(c models.Collection) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[c])
}

// Publish delivers event locally and forwards it to other instances
func (h *Hub) Publish(ctx context.Context, event models.ChangeEvent) {
	if event.Origin == "" {
		event.Origin = h.origin
	}
	h.deliver(event)

	h.mu.RLock()
	f := h.forwarder
	h.mu.RUnlock()
	if f == nil || event.Origin != h.origin {
		return
	}
	if err := f.Forward(ctx, event); err != nil {
		h.logger.Warn("Failed to forward change event", map[string]interface{}{
			"collection": string(event.Collection),
			"id":         event.ID,
			"error":      err.Error(),
		})
	}
}

// deliver hands event to every local subscriber of its collection
func (h *Hub) deliver(event models.ChangeEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subs[event.Collection] {
		select {
		case sub.events <- event:
		default:
			// a notification is already pending
		}
	}
}
