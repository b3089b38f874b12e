// Package oaerr provides the typed errors returned by the validator.
//
// Every expected failure is one of the types below and can be matched with
// errors.Is against the sentinels or extracted with errors.As. Any other
// error returned by the validator comes from a collaborator (for example a
// custom schema engine) and is passed through untouched.
package oaerr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrLookup matches any routing failure.
	ErrLookup = errors.New("lookup error")

	// ErrPathNotFound indicates no path template matched.
	ErrPathNotFound = errors.New("path not found")

	// ErrMethodNotFound indicates the path exists but the method is not declared.
	ErrMethodNotFound = errors.New("method not found")

	// ErrUnknownOperationID indicates no operation carries the given operationId.
	ErrUnknownOperationID = errors.New("unknown operation id")

	// ErrAmbiguousPath indicates several templates of the same shape matched.
	ErrAmbiguousPath = errors.New("ambiguous path")

	// ErrRequestValidation matches any request validation failure.
	ErrRequestValidation = errors.New("request validation error")

	// ErrResponseValidation matches any response validation failure.
	ErrResponseValidation = errors.New("response validation error")

	// ErrResponseUndefined indicates no response is declared for a status code.
	ErrResponseUndefined = errors.New("undefined response")
)

// Location is the part of a request or response an error pertains to.
type Location string

// Location constants.
const (
	LocationPath           Location = "path"
	LocationQuery          Location = "query"
	LocationHeader         Location = "header"
	LocationCookie         Location = "cookie"
	LocationRequestBody    Location = "request-body"
	LocationResponseBody   Location = "response-body"
	LocationResponseHeader Location = "response-header"
	LocationRouting        Location = "routing"
	LocationResponse       Location = "response"
)

// IsResponse reports whether the location belongs to a response.
func (l Location) IsResponse() bool {
	switch l {
	case LocationResponseBody, LocationResponseHeader, LocationResponse:
		return true
	default:
		return false
	}
}

// Detail is the payload shared by all validation errors.
type Detail struct {
	// In is the location the failure pertains to
	In Location
	// Message is a human-readable description
	Message string
	// Violations are the raw errors reported by the schema engine.
	// An empty slice on a failure means the cause is unknown.
	Violations []error
}

// Location returns the location tag.
func (d *Detail) Location() Location {
	return d.In
}

// Error returns a human-readable error message.
func (d *Detail) Error() string {
	msg := string(d.In) + ": " + d.Message
	if len(d.Violations) > 0 {
		parts := make([]string, 0, len(d.Violations))
		for _, v := range d.Violations {
			parts = append(parts, v.Error())
		}
		msg += ": " + strings.Join(parts, "; ")
	}
	return msg
}

// Code returns the HTTP status code conventionally associated with the failure.
func (d *Detail) Code() int {
	if d.In.IsResponse() {
		return http.StatusInternalServerError
	}
	return http.StatusBadRequest
}

// Unwrap exposes the violations to errors.Is and errors.As.
func (d *Detail) Unwrap() []error {
	return d.Violations
}

type jsonLocation struct {
	In string `json:"in"`
}

type jsonDetail struct {
	Code        int          `json:"code"`
	Location    jsonLocation `json:"location"`
	Message     string       `json:"message"`
	Suggestions []string     `json:"suggestions"`
}

func (d *Detail) marshal(code int) ([]byte, error) {
	suggestions := make([]string, 0, len(d.Violations))
	for _, v := range d.Violations {
		suggestions = append(suggestions, v.Error())
	}
	return json.Marshal(jsonDetail{
		Code:        code,
		Location:    jsonLocation{In: string(d.In)},
		Message:     d.Message,
		Suggestions: suggestions,
	})
}

// MarshalJSON renders the error as {code, location: {in}, message, suggestions}.
func (d *Detail) MarshalJSON() ([]byte, error) {
	return d.marshal(d.Code())
}

// ParameterError is a path, query, header, cookie or response header failure.
type ParameterError struct {
	Detail
}

// Is reports whether target matches this error type.
func (e *ParameterError) Is(target error) bool {
	return matchesDirection(e.In, target)
}

// RequestBodyError is a request body failure: missing, unsupported media type
// or schema mismatch.
type RequestBodyError struct {
	Detail
}

// Is reports whether target matches this error type.
func (e *RequestBodyError) Is(target error) bool {
	return target == ErrRequestValidation
}

// ResponseBodyError is a response body failure.
type ResponseBodyError struct {
	Detail
}

// Is reports whether target matches this error type.
func (e *ResponseBodyError) Is(target error) bool {
	return target == ErrResponseValidation
}

func matchesDirection(in Location, target error) bool {
	if in.IsResponse() {
		return target == ErrResponseValidation
	}
	return target == ErrRequestValidation
}

// LookupError is a routing failure: the path, method or operationId could
// not be resolved to a compiled operation.
type LookupError struct {
	// Reason is one of ErrPathNotFound, ErrMethodNotFound,
	// ErrUnknownOperationID or ErrAmbiguousPath
	Reason error
	// Path is the concrete path that was looked up
	Path string
	// Method is the HTTP method that was looked up
	Method string
	// OperationID is the operationId that was looked up
	OperationID string
	// Templates lists the matching templates for ErrAmbiguousPath
	Templates []string
}

// Error returns a human-readable error message.
func (e *LookupError) Error() string {
	msg := e.Reason.Error()
	switch {
	case e.OperationID != "":
		msg += fmt.Sprintf(": %q", e.OperationID)
	case e.Method != "":
		msg += fmt.Sprintf(": %s %s", strings.ToUpper(e.Method), e.Path)
	case e.Path != "":
		msg += ": " + e.Path
	}
	if len(e.Templates) > 0 {
		msg += " (" + strings.Join(e.Templates, ", ") + ")"
	}
	return msg
}

// Unwrap returns the reason for error chaining.
func (e *LookupError) Unwrap() error {
	return e.Reason
}

// Is reports whether target matches this error type.
func (e *LookupError) Is(target error) bool {
	return target == ErrLookup
}

// Code returns http.StatusNotFound.
func (e *LookupError) Code() int {
	return http.StatusNotFound
}

// MarshalJSON renders the error like Detail with an empty suggestion list.
func (e *LookupError) MarshalJSON() ([]byte, error) {
	d := Detail{In: LocationRouting, Message: e.Error()}
	return d.marshal(e.Code())
}

// ResponseDefinitionMissingError indicates that neither the status code nor
// a default response is declared.
type ResponseDefinitionMissingError struct {
	// StatusCode is the status code that was looked up
	StatusCode int
}

// Error returns a human-readable error message.
func (e *ResponseDefinitionMissingError) Error() string {
	return fmt.Sprintf("%s: no response declared for status %d", ErrResponseUndefined, e.StatusCode)
}

// Is reports whether target matches this error type.
func (e *ResponseDefinitionMissingError) Is(target error) bool {
	return target == ErrResponseUndefined || target == ErrResponseValidation
}

// Code returns http.StatusInternalServerError.
func (e *ResponseDefinitionMissingError) Code() int {
	return http.StatusInternalServerError
}

// MarshalJSON renders the error like Detail with an empty suggestion list.
func (e *ResponseDefinitionMissingError) MarshalJSON() ([]byte, error) {
	d := Detail{In: LocationResponse, Message: e.Error()}
	return d.marshal(e.Code())
}

// IsValidationError reports whether err is one of the typed errors of this
// package. A false result for a non-nil err means the failure came from a
// collaborator rather than from the validated input.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrLookup) ||
		errors.Is(err, ErrRequestValidation) ||
		errors.Is(err, ErrResponseValidation)
}
