package gecko

import (
	"errors"
	"fmt"
)

// Errors that can be returned while registering routes.
var (
	// ErrPatternMustStartWithSlash is returned when a route pattern does not
	// begin with a slash.
	ErrPatternMustStartWithSlash = errors.New("gecko: pattern must start with a slash")

	// ErrEmptyParamName is returned when a pattern contains a bare ":" or "*"
	// segment with no name after it.
	ErrEmptyParamName = errors.New("gecko: parameter segment has no name")

	// ErrWildcardNotLast is returned when a "*" segment appears anywhere but
	// the final position of a pattern.
	ErrWildcardNotLast = errors.New("gecko: wildcard segment must be the last segment")

	// ErrNilHandler is returned when a route is registered without a handler.
	ErrNilHandler = errors.New("gecko: route handler is nil")

	// ErrEngineSealed is returned when a route is registered after the engine
	// has started serving.
	ErrEngineSealed = errors.New("gecko: cannot register routes after Run")
)

// ConflictError is returned when a new route is ambiguous with one that is
// already registered for the same method, or when a pattern would carry the
// same parameter name twice. Conflicts are setup-time errors and are never
// resolved silently.
type ConflictError struct {
	Method  string
	Pattern string
	Reason  string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("gecko: conflicting route %s %s: %s", e.Method, e.Pattern, e.Reason)
}
