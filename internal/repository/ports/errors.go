package ports

import "errors"

// Adapters translate driver specific failures into these so services never
// depend on a particular store.
var (
	ErrNotFound      = errors.New("record not found")
	ErrDuplicate     = errors.New("duplicate record")
	ErrNotConfigured = errors.New("adapter not configured")
)
