package store

import "github.com/tailored-agentic-units/state/observability"

const (
	EventStoreCreate observability.EventType = "store.create"
	EventStoreSet    observability.EventType = "store.set"
)
