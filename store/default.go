package store

import (
	"sync"
	"sync/atomic"
)

var (
	defaultStore atomic.Pointer[Store]
	defaultMu    sync.Mutex
)

// Default returns the process-wide Store, creating it with DefaultConfig on
// first use unless Configure ran earlier.
func Default() *Store {
	if s := defaultStore.Load(); s != nil {
		return s
	}

	s, created, _ := installDefault(func() (*Store, error) { return build(), nil })
	if created {
		s.announce()
	}
	return s
}

// Configure builds the process-wide Store from cfg. It must run before the
// first call to Default, Get or Set; afterwards it returns
// ErrAlreadyInitialized and leaves the existing store untouched.
func Configure(cfg *Config) error {
	s, created, err := installDefault(func() (*Store, error) { return buildFromConfig(cfg) })
	if err != nil {
		return err
	}
	if !created {
		return ErrAlreadyInitialized
	}

	s.announce()
	return nil
}

// installDefault publishes the store returned by create unless one already
// exists. The create event is left to the caller so observers run after
// defaultMu is released.
func installDefault(create func() (*Store, error)) (*Store, bool, error) {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if s := defaultStore.Load(); s != nil {
		return s, false, nil
	}

	s, err := create()
	if err != nil {
		return nil, false, err
	}
	defaultStore.Store(s)
	return s, true, nil
}

// Get reads key from the process-wide Store.
func Get(key string) (any, bool) {
	return Default().Get(key)
}

// Set writes key to the process-wide Store.
func Set(key string, value any) {
	Default().Set(key, value)
}
