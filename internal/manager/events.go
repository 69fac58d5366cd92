package manager

import "github.com/rs/zerolog"

// Event names published by the manager.
const (
	EventEnsureStart   = "ensure_start"
	EventEnsureReady   = "ensure_ready"
	EventEnsureError   = "ensure_error"
	EventModelNotFound = "ensure_model_not_found"
	EventEvict         = "evict"
	EventUnloadStart   = "unload_start"
	EventUnloadTimeout = "unload_timeout"
	EventUnloadDone    = "unload_done"
	EventSwitchDone    = "switch_done"
)

// Event represents a manager lifecycle event.
// Minimal and stable: name + model ID and optional fields via key/values.
type Event struct {
	Name    string
	ModelID string
	Fields  map[string]any
}

// EventPublisher receives events from the manager. Implementations should be
// lightweight and non-blocking; Publish must not panic.
type EventPublisher interface {
	Publish(Event)
}

// noopPublisher is the default; it drops events.
type noopPublisher struct{}

func (noopPublisher) Publish(Event) {}

// LogPublisher writes each event as a structured log line.
type LogPublisher struct {
	Logger zerolog.Logger
}

func (p LogPublisher) Publish(e Event) {
	p.Logger.Info().Str("event", e.Name).Str("model", e.ModelID).Fields(e.Fields).Msg("manager event")
}

// MultiPublisher fans an event out to several publishers in order.
type MultiPublisher []EventPublisher

func (mp MultiPublisher) Publish(e Event) {
	for _, p := range mp {
		if p != nil {
			p.Publish(e)
		}
	}
}
