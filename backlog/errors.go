/*
errors.go - Centralized error types for the projection engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Callers (CLI, API) classify failures with errors.Is / errors.As.

ERROR CATEGORIES:
  1. Configuration errors - Params that cannot produce a finite projection
  2. Store errors - Missing or unreadable runs
  3. Rendering errors - Nothing to draw

DEGENERATE INPUT:
  A non-positive starting backlog is NOT an error. Project returns an empty
  projection and renderers decide what an empty sequence means for them.

SEE ALSO:
  - params.go: Validate produces ConfigurationError
  - engine.go: Project fails fast before emitting any record
  - api/handlers.go: Maps these errors to HTTP status codes
*/
package backlog

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidConfiguration is returned when params would never drain the
	// backlog (net reduction <= 0) or carry a non-positive rate/workday count.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrHorizonExceeded is returned when the projection would need more
	// periods than Params.MaxPeriods (or DefaultMaxPeriods) allows.
	ErrHorizonExceeded = errors.New("projection horizon exceeded")

	// ErrRunNotFound is returned when a stored run does not exist.
	ErrRunNotFound = errors.New("run not found")

	// ErrEmptyProjection is returned by renderers that cannot draw zero periods.
	ErrEmptyProjection = errors.New("projection has no periods")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ConfigurationError names the offending parameter.
type ConfigurationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s=%s: %s", e.Field, e.Value, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrInvalidConfiguration
}

// HorizonError reports how many periods the projection needs.
type HorizonError struct {
	Needed decimal.Decimal
	Limit  int
}

func (e *HorizonError) Error() string {
	return fmt.Sprintf("projection horizon exceeded: needs %s periods, limit %d", e.Needed, e.Limit)
}

func (e *HorizonError) Unwrap() error {
	return ErrHorizonExceeded
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidConfiguration) ||
		errors.Is(err, ErrHorizonExceeded)
}

// IsNotFound returns true if the error indicates a missing run.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrRunNotFound)
}
