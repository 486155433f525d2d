package repository

import "time"

// LookupRepository stores live lookup sessions by id.
// Values are opaque to the store; the application layer owns their type.
type LookupRepository[T any] interface {
	// Get retrieves a session, returning found status.
	Get(id string) (T, bool)

	// Set stores a session with the given TTL; a non-positive TTL uses the store default.
	Set(id string, session T, ttl time.Duration)

	// Touch extends the lifetime of an existing session, reporting whether it existed.
	Touch(id string, ttl time.Duration) bool

	// Delete removes a session.
	Delete(id string)
}
