package reporters

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/GabrielNunesIT/openapi-validator/internal/domain"
	"github.com/GabrielNunesIT/openapi-validator/oaerr"
)

const jsonFormat = "json"

// JSONReporter writes outcomes as JSON documents.
type JSONReporter struct{}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter() *JSONReporter {
	return &JSONReporter{}
}

// Format returns the output format name.
func (r *JSONReporter) Format() string {
	return jsonFormat
}

type jsonOutcome struct {
	Kind        string `json:"kind"`
	Path        string `json:"path,omitempty"`
	Method      string `json:"method,omitempty"`
	StatusCode  int    `json:"status_code,omitempty"`
	OperationID string `json:"operation_id,omitempty"`
	Valid       bool   `json:"valid"`
	Error       any    `json:"error,omitempty"`
}

type jsonInternalError struct {
	Message string `json:"message"`
}

// Report writes the outcome to output. Typed validation errors are encoded
// with their own {code, location, message, suggestions} form.
func (r *JSONReporter) Report(outcome domain.Outcome, output io.Writer) error {
	doc := jsonOutcome{
		Kind:        outcome.Kind,
		Path:        outcome.Path,
		Method:      formatMethod(outcome.Method),
		StatusCode:  outcome.StatusCode,
		OperationID: outcome.OperationID,
		Valid:       outcome.Valid(),
	}

	switch {
	case outcome.Valid():
	case oaerr.IsValidationError(outcome.Err):
		doc.Error = outcome.Err
	default:
		doc.Error = jsonInternalError{Message: outcome.Err.Error()}
	}

	encoder := json.NewEncoder(output)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	return nil
}
