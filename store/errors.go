package store

import "errors"

// ErrAlreadyInitialized is returned by Configure once the process-wide store
// has been created.
var ErrAlreadyInitialized = errors.New("default store already initialized")
