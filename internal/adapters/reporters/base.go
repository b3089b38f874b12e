// Package reporters provides implementations for writing validation outcomes in various formats.
package reporters

import (
	"errors"
	"fmt"
	"strings"

	"github.com/GabrielNunesIT/openapi-validator/internal/domain"
	"github.com/GabrielNunesIT/openapi-validator/oaerr"
)

// New returns the reporter for the given format name.
func New(format string) (domain.Reporter, error) {
	switch strings.ToLower(format) {
	case textFormat, "":
		return NewTextReporter(), nil
	case jsonFormat:
		return NewJSONReporter(), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: text, json)", format)
	}
}

// formatMethod returns a styled method string.
func formatMethod(method string) string {
	return strings.ToUpper(method)
}

// formatTarget returns "GET /pets" or "GET /pets -> 200".
func formatTarget(outcome domain.Outcome) string {
	target := fmt.Sprintf("%s %s", formatMethod(outcome.Method), outcome.Path)
	if outcome.Path == "" {
		target = "operation " + outcome.OperationID
	}
	if outcome.Kind == "response" && outcome.StatusCode != 0 {
		target += fmt.Sprintf(" -> %d", outcome.StatusCode)
	}
	return target
}

// detail returns the payload of a typed validation error, or nil.
func detail(err error) *oaerr.Detail {
	var (
		param    *oaerr.ParameterError
		reqBody  *oaerr.RequestBodyError
		respBody *oaerr.ResponseBodyError
	)
	switch {
	case errors.As(err, &param):
		return &param.Detail
	case errors.As(err, &reqBody):
		return &reqBody.Detail
	case errors.As(err, &respBody):
		return &respBody.Detail
	default:
		return nil
	}
}

// formatViolations returns a formatted violation list.
func formatViolations(errs []error) string {
	if len(errs) == 0 {
		return "  - no details reported by the schema engine\n"
	}

	var result strings.Builder

	for _, e := range errs {
		result.WriteString(fmt.Sprintf("  - %s\n", firstLine(e.Error())))
	}

	return result.String()
}

// firstLine drops the schema dump kin-openapi appends to its messages.
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
