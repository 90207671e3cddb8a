// Package store provides a process-wide, in-memory key-value store.
//
// A Store maps string keys to values of any type. It has exactly two
// operations: Set associates a key with a value, replacing any previous
// association, and Get returns the value most recently set for a key. Neither
// operation can fail. Entries are never removed.
//
// Most callers use the package-level Get and Set, which operate on the single
// store returned by Default:
//
//	store.Set("user", "alice")
//	v, ok := store.Get("user") // "alice", true
//	_, ok = store.Get("missing") // nil, false
//
// The boolean result distinguishes a key that was never set from one that was
// set to a zero value:
//
//	store.Set("count", 0)
//	v, ok = store.Get("count") // 0, true
//
// Independent stores can be built with New, which is mostly useful in tests
// and for components that want an explicitly owned store.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tailored-agentic-units/state/observability"
)

// Store is a mutable mapping from string keys to arbitrary values. The mapping
// is only reachable through Get and Set. All methods are safe for concurrent
// use; every call is atomic with respect to every other call.
type Store struct {
	id       string
	created  time.Time
	observer observability.Observer
	data     map[string]any
	mu       sync.RWMutex
}

// Option configures a Store built by New.
type Option func(*Store)

// WithObserver sets the observer that receives store events. A nil observer
// leaves the default NoOpObserver in place.
func WithObserver(observer observability.Observer) Option {
	return func(s *Store) {
		if observer != nil {
			s.observer = observer
		}
	}
}

// New creates an empty Store and emits EventStoreCreate.
func New(opts ...Option) *Store {
	s := build(opts...)
	s.announce()
	return s
}

func build(opts ...Option) *Store {
	s := &Store{
		id:       uuid.New().String(),
		created:  time.Now(),
		observer: observability.NoOpObserver{},
		data:     make(map[string]any),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// announce emits EventStoreCreate. Callers that publish s behind a lock must
// release it first, since the observer may call back into the store.
func (s *Store) announce() {
	s.observer.OnEvent(context.Background(), observability.Event{
		Type:      EventStoreCreate,
		Level:     observability.LevelVerbose,
		Timestamp: s.created,
		Source:    "store",
		Data:      map[string]any{"id": s.id},
	})
}

// ID returns the unique identifier assigned to s at creation.
func (s *Store) ID() string {
	return s.id
}

// Created returns the time s was created.
func (s *Store) Created() time.Time {
	return s.created
}

// Get returns the value most recently stored under key and true. If key was
// never set, Get returns nil and false. A key explicitly set to nil returns
// nil and true.
//
// The stored value itself is returned, not a copy: pointers, maps and slices
// alias what was passed to Set.
func (s *Store) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	val, ok := s.data[key]
	return val, ok
}

// Set associates value with key, replacing any previous value. Any key and
// any value, including nil, are accepted.
func (s *Store) Set(key string, value any) {
	s.mu.Lock()
	_, replaced := s.data[key]
	s.data[key] = value
	s.mu.Unlock()

	// Observers run outside the lock so they may read the store.
	s.observer.OnEvent(context.Background(), observability.Event{
		Type:      EventStoreSet,
		Level:     observability.LevelVerbose,
		Timestamp: time.Now(),
		Source:    "store",
		Data: map[string]any{
			"id":       s.id,
			"key":      key,
			"replaced": replaced,
		},
	})
}
