// Package observability carries store lifecycle and mutation events to
// pluggable sinks such as a slog.Logger.
package observability

import (
	"context"
	"log/slog"
	"time"
)

// Level is an event severity expressed as an OpenTelemetry SeverityNumber.
type Level int

// LevelVerbose is OTel DEBUG. Store events are all verbose.
const LevelVerbose Level = 5

// SlogLevel converts l to a slog.Level. OTel severities 5, 9, 13 and 17 start
// the DEBUG, INFO, WARN and ERROR ranges, which slog places at -4, 0, 4 and 8,
// so the two scales differ by a constant offset.
func (l Level) SlogLevel() slog.Level {
	return slog.Level(l - 9)
}

// EventType names an event, e.g. "store.set".
type EventType string

// Event is a single observation. Data holds flat attributes; stored values are
// never placed in it.
type Event struct {
	Type      EventType
	Level     Level
	Timestamp time.Time
	Source    string
	Data      map[string]any
}

// Observer receives events synchronously from the emitting operation.
type Observer interface {
	OnEvent(ctx context.Context, event Event)
}

// NoOpObserver drops every event.
type NoOpObserver struct{}

func (NoOpObserver) OnEvent(context.Context, Event) {}
