package observability

import (
	"fmt"
	"log/slog"
	"sync"
)

var (
	registry = map[string]Observer{
		"noop": NoOpObserver{},
		"slog": NewSlogObserver(slog.Default()),
	}
	registryMu sync.RWMutex
)

// GetObserver looks up an observer by name. "noop" and "slog" are always
// registered; "slog" writes to slog.Default() as it was at package init.
func GetObserver(name string) (Observer, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	obs, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownObserver, name)
	}
	return obs, nil
}

// RegisterObserver adds or replaces the observer stored under name.
func RegisterObserver(name string, observer Observer) {
	registryMu.Lock()
	defer registryMu.Unlock()

	registry[name] = observer
}
