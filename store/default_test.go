package store_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/tailored-agentic-units/state/observability"
	"github.com/tailored-agentic-units/state/store"
)

func TestDefault_IsShared(t *testing.T) {
	store.ResetDefault()
	t.Cleanup(store.ResetDefault)

	first := store.Default()
	second := store.Default()
	if first != second {
		t.Fatal("Default() returned different stores")
	}

	store.Set("user", "alice")
	if got, ok := first.Get("user"); !ok || got != "alice" {
		t.Errorf("Default().Get(user) = %v, %v; want alice, true", got, ok)
	}

	first.Set("count", 0)
	if got, ok := store.Get("count"); !ok || got != 0 {
		t.Errorf("Get(count) = %v, %v; want 0, true", got, ok)
	}

	if got, ok := store.Get("missing"); ok || got != nil {
		t.Errorf("Get(missing) = %v, %v; want nil, false", got, ok)
	}
}

func TestDefault_ConcurrentFirstUse(t *testing.T) {
	store.ResetDefault()
	t.Cleanup(store.ResetDefault)

	const callers = 16
	stores := make([]*store.Store, callers)

	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			stores[i] = store.Default()
		}()
	}
	wg.Wait()

	for i, s := range stores {
		if s != stores[0] {
			t.Fatalf("caller %d got store %s, want %s", i, s.ID(), stores[0].ID())
		}
	}
}

func TestConfigure(t *testing.T) {
	store.ResetDefault()
	t.Cleanup(store.ResetDefault)

	observer := &captureObserver{}
	observability.RegisterObserver("test-configure", observer)

	if err := store.Configure(&store.Config{Observer: "test-configure"}); err != nil {
		t.Fatalf("Configure() failed: %v", err)
	}

	store.Set("user", "alice")

	if len(observer.events) != 2 {
		t.Fatalf("observer received %d events, want 2 (create, set)", len(observer.events))
	}
	if observer.events[0].Data["id"] != store.Default().ID() {
		t.Error("configured observer did not see the default store's creation")
	}

	err := store.Configure(&store.Config{Observer: "noop"})
	if !errors.Is(err, store.ErrAlreadyInitialized) {
		t.Errorf("second Configure() error = %v, want ErrAlreadyInitialized", err)
	}
	if got, _ := store.Get("user"); got != "alice" {
		t.Errorf("Get(user) = %v after rejected Configure, want alice", got)
	}
}

func TestConfigure_ObserverReadsDefaultStore(t *testing.T) {
	store.ResetDefault()
	t.Cleanup(store.ResetDefault)

	var seen []bool
	observability.RegisterObserver("test-reentrant", observerFunc(func(ctx context.Context, event observability.Event) {
		_, ok := store.Get("user")
		seen = append(seen, ok)
	}))

	done := make(chan error, 1)
	go func() {
		err := store.Configure(&store.Config{Observer: "test-reentrant"})
		if err == nil {
			store.Set("user", "alice")
		}
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Configure() failed: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Configure() blocked while its observer read the default store")
	}

	if len(seen) != 2 || seen[0] || !seen[1] {
		t.Errorf("observer lookups = %v, want [false true] (create, set)", seen)
	}
}

func TestConfigure_AfterFirstUse(t *testing.T) {
	store.ResetDefault()
	t.Cleanup(store.ResetDefault)

	store.Get("anything")

	err := store.Configure(&store.Config{Observer: "slog"})
	if !errors.Is(err, store.ErrAlreadyInitialized) {
		t.Errorf("Configure() error = %v, want ErrAlreadyInitialized", err)
	}
}

func TestConfigure_UnknownObserver(t *testing.T) {
	store.ResetDefault()
	t.Cleanup(store.ResetDefault)

	err := store.Configure(&store.Config{Observer: "nonexistent"})
	if !errors.Is(err, observability.ErrUnknownObserver) {
		t.Fatalf("Configure() error = %v, want ErrUnknownObserver", err)
	}

	if err := store.Configure(nil); err != nil {
		t.Errorf("Configure(nil) after failed attempt = %v, want nil", err)
	}
}
