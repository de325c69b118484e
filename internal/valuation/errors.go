package valuation

import (
	"errors"
	"fmt"
)

var (
	// ErrNoApplicableMethod means every valuation method declined to run.
	// The engine refuses to fabricate a zero estimate in that case.
	ErrNoApplicableMethod = errors.New("no valuation method applicable")

	// ErrNoTrendData means the trend provider could not supply a snapshot.
	// Every method consults the trend, so this is fatal for the call.
	ErrNoTrendData = errors.New("no market trend data available")
)

// ValidationError reports malformed valuation input. It is raised before any
// provider call and is never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid property: %s %s", e.Field, e.Reason)
}
