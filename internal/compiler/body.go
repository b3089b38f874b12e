package compiler

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/GabrielNunesIT/openapi-validator/internal/domain"
	"github.com/GabrielNunesIT/openapi-validator/oaerr"
)

const (
	bodyRequiredMessage     = "body is required"
	unsupportedMediaMessage = "unsupported media type"
	notJSONMessage          = "body is not a JSON value"
)

// BodyValidator maps declared content-type patterns to compiled units.
type BodyValidator struct {
	in       oaerr.Location
	required bool
	patterns []string // declared patterns, sorted
	content  openapi3.Content
	units    map[*openapi3.MediaType]*Unit
}

// NewBodyValidator compiles one unit per declared content type.
func NewBodyValidator(engine Engine, content map[string]domain.MediaType, required bool, direction domain.Direction) (*BodyValidator, error) {
	in := oaerr.LocationRequestBody
	if direction == domain.DirectionResponse {
		in = oaerr.LocationResponseBody
	}

	v := &BodyValidator{
		in:       in,
		required: required,
		content:  make(openapi3.Content, len(content)),
		units:    make(map[*openapi3.MediaType]*Unit, len(content)),
	}

	for pattern := range content {
		v.patterns = append(v.patterns, pattern)
	}
	sort.Strings(v.patterns)

	for _, pattern := range v.patterns {
		key := normalizeMediaType(pattern)
		if _, exists := v.content[key]; exists {
			continue
		}
		unit, err := CompileSchema(engine, content[pattern].Schema, direction)
		if err != nil {
			return nil, fmt.Errorf("%s %q: %w", in, pattern, err)
		}
		mt := openapi3.NewMediaType()
		v.content[key] = mt
		v.units[mt] = unit
	}

	return v, nil
}

// ContentTypes returns the declared content-type patterns.
func (v *BodyValidator) ContentTypes() []string {
	out := make([]string, len(v.patterns))
	copy(out, v.patterns)
	return out
}

// Required reports whether a body must be present.
func (v *BodyValidator) Required() bool {
	return v.required
}

// Resolve returns the unit for the given Content-Type header value, or nil
// when no declared pattern accepts it. Resolution order: exact match,
// type/*, */*. Without a header, */* or a single declared entry is used.
func (v *BodyValidator) Resolve(contentType string) *Unit {
	mediaType := normalizeMediaType(contentType)

	if mt := v.content.Get(mediaType); mt != nil {
		return v.units[mt]
	}
	if mediaType == "" && len(v.units) == 1 {
		for _, u := range v.units {
			return u
		}
	}
	return nil
}

// Validate checks the body against the unit resolved from contentType.
// A nil body is only an error when the body is required.
func (v *BodyValidator) Validate(body any, contentType string) error {
	if body == nil {
		if v.required {
			return v.fail(bodyRequiredMessage, []error{})
		}
		return nil
	}

	unit := v.Resolve(contentType)
	if unit == nil {
		msg := unsupportedMediaMessage
		if contentType != "" {
			msg += fmt.Sprintf(" %q", contentType)
		}
		return v.fail(msg, []error{})
	}

	value, err := jsonValue(body)
	if err != nil {
		return v.fail(notJSONMessage, []error{err})
	}

	return wrapViolations(unit.Validate(value), func(violations []error) error {
		return v.fail(schemaViolationMessage, violations)
	})
}

func (v *BodyValidator) fail(message string, violations []error) error {
	detail := oaerr.Detail{In: v.in, Message: message, Violations: violations}
	if v.in == oaerr.LocationResponseBody {
		return &oaerr.ResponseBodyError{Detail: detail}
	}
	return &oaerr.RequestBodyError{Detail: detail}
}

// jsonValue converts a body into the generic form the schema engine walks.
// Decoded JSON passes through unchanged. Any other top-level value, such as
// a struct or a typed map, takes one encoding/json round trip.
func jsonValue(body any) (any, error) {
	switch body.(type) {
	case map[string]any, []any, string, bool, float64, int, int32, int64, json.Number:
		return body, nil
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, err
	}
	return value, nil
}

// normalizeMediaType strips parameters and lower-cases a media type.
func normalizeMediaType(mediaType string) string {
	if i := strings.IndexByte(mediaType, ';'); i >= 0 {
		mediaType = mediaType[:i]
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}
