package store

// ResetDefault discards the process-wide store so tests can exercise
// first-use initialization.
func ResetDefault() {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultStore.Store(nil)
}
