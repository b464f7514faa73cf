package domain

import "errors"

// Error taxonomy. Every failure in the order core wraps exactly one of these
// so the HTTP layer can map it without string matching.
var (
	// ErrValidation: malformed or missing fields, rejected before any write.
	ErrValidation = errors.New("invalid request")

	// ErrNotFound: unknown restaurant, table, menu item or order.
	ErrNotFound = errors.New("not found")

	// ErrConflict: a status transition whose expected predecessor no longer
	// matches the persisted status. Surfaced to the actor as "updated
	// elsewhere, refresh and retry" rather than retried blindly.
	ErrConflict = errors.New("order was just updated elsewhere")

	// ErrUnauthorized: actor not scoped to the resource.
	ErrUnauthorized = errors.New("actor not allowed")

	// ErrStoreUnavailable: the backing store is unreachable. The only
	// non-client-correctable failure in this core.
	ErrStoreUnavailable = errors.New("store unavailable")
)
