package booking

import "errors"

// Failure classes surfaced by the scheduling engine. Callers match with
// errors.Is; none of these are transient, so nothing is retried.
var (
	// ErrValidation covers malformed or inverted dates, an empty item set,
	// and verifier names that fail the two-person-control policy.
	ErrValidation = errors.New("validation failed")
	// ErrConflict means the requested range overlaps a non-terminal
	// reservation on at least one shared item.
	ErrConflict = errors.New("booking conflict")
	// ErrInvalidState means a transition was attempted from a terminal or
	// otherwise wrong state.
	ErrInvalidState = errors.New("invalid reservation state")
	// ErrAuthorization means a non-admin attempted a privileged transition.
	ErrAuthorization = errors.New("not authorized")
	// ErrNotFound means an unknown reservation, item, or user id.
	ErrNotFound = errors.New("not found")
)
