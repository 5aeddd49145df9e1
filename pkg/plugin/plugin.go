// Package plugin provides the public SDK types the appliance's own modules
// (DFE, PTA, the gateway, auth) are built against: configuration access and
// an in-memory event bus for inter-module notification. The fuller product
// this appliance's code descends from exercises these interfaces through a
// dynamic multi-module Plugin lifecycle (Info/Init/Start/Stop, resolved by
// name or role at runtime); this appliance wires its two modules directly in
// cmd/aegisd/main.go instead, so that lifecycle contract has no implementor
// here and was cut rather than carried as unused surface.
package plugin

import (
	"context"
	"time"
)

// Config abstracts configuration access. Wraps Viper today, replaceable later.
type Config interface {
	Unmarshal(target any) error
	Get(key string) any
	GetString(key string) string
	GetInt(key string) int
	GetBool(key string) bool
	GetDuration(key string) time.Duration
	IsSet(key string) bool
	Sub(key string) Config

	// Required fails fast if any of the given keys are unset or empty.
	// Added for this appliance's boot sequence: there is no setup wizard to
	// fall back on, so a missing operator secret should stop the process at
	// start rather than surface later as an opaque 401 or panic.
	Required(keys ...string) error
}

// Publisher sends events to the bus. Use this thin interface in code
// that only needs to emit events (follows io.Writer pattern).
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Subscriber receives events from the bus. Use this thin interface in
// code that only needs to listen for events (follows io.Reader pattern).
type Subscriber interface {
	Subscribe(topic string, handler EventHandler) (unsubscribe func())
}

// EventBus provides typed publish/subscribe for inter-module communication.
// Composes Publisher and Subscriber with async and wildcard extensions.
type EventBus interface {
	Publisher
	Subscriber
	PublishAsync(ctx context.Context, event Event)
	SubscribeAll(handler EventHandler) (unsubscribe func())
}

// Event represents a typed message on the event bus.
type Event struct {
	Topic     string
	Source    string // module name that emitted the event
	Timestamp time.Time
	Payload   any // type depends on topic
}

// EventHandler processes events from the bus.
type EventHandler func(ctx context.Context, event Event)
