// Package event provides an in-memory implementation of the plugin.EventBus
// interface, instrumented for the appliance's own operational needs: a
// per-topic publish counter (scraped alongside the DFE/PTA metrics) and a
// short replay buffer so a WebSocket client that connects mid-scan can catch
// up on the handful of events it missed instead of starting from nothing.
package event

import (
	"context"
	"sync"

	"github.com/aegisnet/appliance/pkg/plugin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// replayBufferSize bounds how many recent events each topic retains for
// late subscribers. Scan/traffic bursts are small and short-lived, so a
// handful of events is enough to cover the connect-then-subscribe race
// without the bus growing unbounded memory.
const replayBufferSize = 16

var eventsPublishedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "aegisnet_events_published_total",
		Help: "Total number of events published on the internal event bus, by topic.",
	},
	[]string{"topic"},
)

func init() {
	prometheus.MustRegister(eventsPublishedTotal)
}

// Compile-time interface guard.
var _ plugin.EventBus = (*Bus)(nil)

// Bus is an in-memory event bus implementing plugin.EventBus.
// Publish is synchronous (handlers run in the caller's goroutine).
// PublishAsync dispatches handlers in separate goroutines.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]handlerEntry // topic -> handlers
	allSubs  []handlerEntry            // handlers subscribed to all topics
	recent   map[string][]plugin.Event // topic -> bounded replay buffer
	nextID   uint64
	logger   *zap.Logger
}

type handlerEntry struct {
	id      uint64
	handler plugin.EventHandler
}

// NewBus creates a new in-memory event bus.
func NewBus(logger *zap.Logger) *Bus {
	return &Bus{
		handlers: make(map[string][]handlerEntry),
		recent:   make(map[string][]plugin.Event),
		logger:   logger,
	}
}

// Publish dispatches an event synchronously to all matching handlers.
func (b *Bus) Publish(ctx context.Context, event plugin.Event) error {
	b.record(event)

	b.mu.RLock()
	topicHandlers := make([]handlerEntry, len(b.handlers[event.Topic]))
	copy(topicHandlers, b.handlers[event.Topic])
	allHandlers := make([]handlerEntry, len(b.allSubs))
	copy(allHandlers, b.allSubs)
	b.mu.RUnlock()

	for _, h := range topicHandlers {
		b.safeCall(ctx, h.handler, event)
	}
	for _, h := range allHandlers {
		b.safeCall(ctx, h.handler, event)
	}
	return nil
}

// PublishAsync dispatches an event asynchronously to all matching handlers.
func (b *Bus) PublishAsync(ctx context.Context, event plugin.Event) {
	b.record(event)

	b.mu.RLock()
	topicHandlers := make([]handlerEntry, len(b.handlers[event.Topic]))
	copy(topicHandlers, b.handlers[event.Topic])
	allHandlers := make([]handlerEntry, len(b.allSubs))
	copy(allHandlers, b.allSubs)
	b.mu.RUnlock()

	for _, h := range topicHandlers {
		go b.safeCall(ctx, h.handler, event)
	}
	for _, h := range allHandlers {
		go b.safeCall(ctx, h.handler, event)
	}
}

// record updates the publish counter and the topic's replay buffer.
func (b *Bus) record(event plugin.Event) {
	eventsPublishedTotal.WithLabelValues(event.Topic).Inc()

	b.mu.Lock()
	buf := append(b.recent[event.Topic], event)
	if len(buf) > replayBufferSize {
		buf = buf[len(buf)-replayBufferSize:]
	}
	b.recent[event.Topic] = buf
	b.mu.Unlock()
}

// Recent returns the most recently published events for a topic, oldest
// first, up to the replay buffer's capacity. A WebSocket handler calls this
// right after a client subscribes, so the client's view isn't blank until
// the next event happens to fire.
func (b *Bus) Recent(topic string) []plugin.Event {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]plugin.Event, len(b.recent[topic]))
	copy(out, b.recent[topic])
	return out
}

// Subscribe registers a handler for a specific topic. Returns an unsubscribe function.
func (b *Bus) Subscribe(topic string, handler plugin.EventHandler) (unsubscribe func()) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.handlers[topic] = append(b.handlers[topic], handlerEntry{id: id, handler: handler})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		entries := b.handlers[topic]
		for i, e := range entries {
			if e.id == id {
				b.handlers[topic] = append(entries[:i], entries[i+1:]...)
				return
			}
		}
	}
}

// SubscribeAll registers a handler for all topics. Returns an unsubscribe function.
func (b *Bus) SubscribeAll(handler plugin.EventHandler) (unsubscribe func()) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.allSubs = append(b.allSubs, handlerEntry{id: id, handler: handler})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, e := range b.allSubs {
			if e.id == id {
				b.allSubs = append(b.allSubs[:i], b.allSubs[i+1:]...)
				return
			}
		}
	}
}

func (b *Bus) safeCall(ctx context.Context, handler plugin.EventHandler, event plugin.Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked",
				zap.String("topic", event.Topic),
				zap.String("source", event.Source),
				zap.Any("panic", r),
			)
		}
	}()
	handler(ctx, event)
}
