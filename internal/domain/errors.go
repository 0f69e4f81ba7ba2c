package domain

import "errors"

// ErrNotFound is returned by stores when a referenced entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when an entity with the same identity already exists.
var ErrConflict = errors.New("already exists")

// ErrStoreUnavailable is returned when a backing store failed or timed out.
// Callers may retry.
var ErrStoreUnavailable = errors.New("store unavailable")
