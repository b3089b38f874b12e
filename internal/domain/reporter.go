package domain

import "io"

// Outcome is the result of one CLI validation run.
type Outcome struct {
	Kind        string // "request" or "response"
	Path        string
	Method      string
	StatusCode  int
	OperationID string
	Err         error // nil when valid
}

// Valid reports whether the validation succeeded.
func (o Outcome) Valid() bool {
	return o.Err == nil
}

// Reporter defines the interface for outcome reporters.
type Reporter interface {
	// Report writes the outcome to the output.
	Report(outcome Outcome, output io.Writer) error

	// Format returns the output format name (e.g., "text", "json").
	Format() string
}
