package compiler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/GabrielNunesIT/openapi-validator/internal/domain"
	"github.com/GabrielNunesIT/openapi-validator/oaerr"
)

const schemaViolationMessage = "schema validation error"

// ParamValidator validates a name → value map against the aggregate object
// schema built from a list of parameter definitions.
type ParamValidator struct {
	in        oaerr.Location
	lowerCase bool
	names     []string
	unit      *Unit
}

// NewParamValidator builds the validator for path, query or cookie
// parameters. Cookie names are lower-cased like header names.
func NewParamValidator(engine Engine, params []domain.Parameter, in oaerr.Location) (*ParamValidator, error) {
	return newParamValidator(engine, params, in, in == oaerr.LocationCookie, domain.DirectionRequest)
}

// NewHeaderValidator builds the validator for request or response headers.
// A header named Content-Type is never part of the schema.
func NewHeaderValidator(engine Engine, headers []domain.Parameter, direction domain.Direction) (*ParamValidator, error) {
	in := oaerr.LocationHeader
	if direction == domain.DirectionResponse {
		in = oaerr.LocationResponseHeader
	}
	filtered := make([]domain.Parameter, 0, len(headers))
	for _, h := range headers {
		if strings.EqualFold(h.Name, "content-type") {
			continue
		}
		filtered = append(filtered, h)
	}
	return newParamValidator(engine, filtered, in, true, direction)
}

func newParamValidator(engine Engine, params []domain.Parameter, in oaerr.Location, lowerCase bool, direction domain.Direction) (*ParamValidator, error) {
	v := &ParamValidator{in: in, lowerCase: lowerCase}
	if len(params) == 0 {
		return v, nil
	}

	schema := openapi3.NewObjectSchema()
	for _, p := range params {
		name := p.Name
		if lowerCase {
			name = strings.ToLower(name)
		}
		v.names = append(v.names, name)
		if p.Schema != nil {
			schema.Properties[name] = openapi3.NewSchemaRef("", p.Schema)
		}
		if p.Required {
			schema.Required = append(schema.Required, name)
		}
	}

	unit, err := CompileSchema(engine, schema, direction)
	if err != nil {
		return nil, fmt.Errorf("%s parameters: %w", in, err)
	}
	v.unit = unit
	return v, nil
}

// Location returns the location tag used in errors.
func (v *ParamValidator) Location() oaerr.Location {
	return v.in
}

// Names returns the declared parameter names, normalized.
func (v *ParamValidator) Names() []string {
	return v.names
}

// Validate checks the values. Missing maps are treated as empty. For
// case-insensitive locations, keys differing only in case are rejected.
func (v *ParamValidator) Validate(values map[string]any) error {
	if v.unit == nil {
		return nil
	}

	candidate := make(map[string]any, len(values))
	for k, val := range values {
		if v.lowerCase {
			k = strings.ToLower(k)
			if _, dup := candidate[k]; dup {
				return &oaerr.ParameterError{Detail: oaerr.Detail{
					In:         v.in,
					Message:    fmt.Sprintf("%s %q is given more than once", v.in, k),
					Violations: []error{},
				}}
			}
		}
		candidate[k] = val
	}

	return wrapViolations(v.unit.Validate(candidate), func(violations []error) error {
		return &oaerr.ParameterError{Detail: oaerr.Detail{
			In:         v.in,
			Message:    schemaViolationMessage,
			Violations: violations,
		}}
	})
}

// wrapViolations turns engine violations into a typed error and returns
// every other error unchanged.
func wrapViolations(err error, wrap func([]error) error) error {
	if err == nil {
		return nil
	}
	var violations *Violations
	if !errors.As(err, &violations) {
		return err
	}
	errs := violations.Errors
	if errs == nil {
		errs = []error{}
	}
	return wrap(errs)
}
