package reporters

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/GabrielNunesIT/openapi-validator/internal/domain"
	"github.com/GabrielNunesIT/openapi-validator/oaerr"
)

const textFormat = "text"

var (
	colorValid   = color.New(color.FgGreen).SprintFunc()
	colorInvalid = color.New(color.FgRed).SprintFunc()
	colorError   = color.New(color.BgRed, color.FgWhite).SprintFunc()
	colorDim     = color.New(color.FgCyan).SprintFunc()
)

// TextReporter writes human-readable outcomes.
type TextReporter struct{}

// NewTextReporter creates a new text reporter.
func NewTextReporter() *TextReporter {
	return &TextReporter{}
}

// Format returns the output format name.
func (r *TextReporter) Format() string {
	return textFormat
}

// Report writes the outcome to output.
func (r *TextReporter) Report(outcome domain.Outcome, output io.Writer) error {
	var b strings.Builder

	switch {
	case outcome.Valid():
		b.WriteString(fmt.Sprintf("%s %s %s", colorValid("VALID"), outcome.Kind, formatTarget(outcome)))
		if outcome.OperationID != "" {
			b.WriteString(colorDim(fmt.Sprintf(" (operationId %s)", outcome.OperationID)))
		}
		b.WriteString("\n")

	case oaerr.IsValidationError(outcome.Err):
		b.WriteString(fmt.Sprintf("%s %s %s\n", colorInvalid("INVALID"), outcome.Kind, formatTarget(outcome)))
		if d := detail(outcome.Err); d != nil {
			b.WriteString(fmt.Sprintf("  %s: %s\n", d.In, d.Message))
			b.WriteString(formatViolations(d.Violations))
		} else {
			b.WriteString(fmt.Sprintf("  %s\n", outcome.Err))
		}

	default:
		b.WriteString(fmt.Sprintf("%s %s %s: %v\n", colorError("ERROR"), outcome.Kind, formatTarget(outcome), outcome.Err))
	}

	if _, err := io.WriteString(output, b.String()); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return nil
}
