// Package compiler turns a resolved OpenAPI document into an index of
// compiled operations. Everything is built once at compile time and is
// read-only afterwards, so a compiled Index may be shared between goroutines.
package compiler

import (
	"context"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/GabrielNunesIT/openapi-validator/internal/domain"
)

// ValidateFunc checks one value. It returns nil when the value conforms,
// a *Violations when it does not, and any other error when the engine
// itself failed.
type ValidateFunc func(value any) error

// Engine compiles schema fragments into validators.
type Engine interface {
	Compile(schema *openapi3.Schema, direction domain.Direction) (ValidateFunc, error)
}

// EngineFactory creates an engine configured with the given options.
type EngineFactory func(opts domain.EngineOptions) Engine

// Violations is the list of problems reported by an engine for one value.
// The list may be empty: the value is still invalid, the cause is unknown.
type Violations struct {
	Errors []error
}

func (v *Violations) Error() string {
	if len(v.Errors) == 0 {
		return "schema validation failed with no reported violations"
	}
	return openapi3.MultiError(v.Errors).Error()
}

// KinEngine validates values with kin-openapi's schema visitor.
type KinEngine struct {
	opts domain.EngineOptions
}

// NewKinEngine creates a kin-openapi backed engine. It satisfies EngineFactory.
func NewKinEngine(opts domain.EngineOptions) Engine {
	return &KinEngine{opts: opts}
}

// Compile checks the schema itself when Strict is set and returns a
// validator bound to the given direction.
func (e *KinEngine) Compile(schema *openapi3.Schema, direction domain.Direction) (ValidateFunc, error) {
	if schema == nil {
		return func(any) error { return nil }, nil
	}

	if e.opts.Strict {
		if err := schema.Validate(context.Background(), openapi3.EnableSchemaFormatValidation()); err != nil {
			return nil, fmt.Errorf("invalid schema: %w", err)
		}
	}

	visitOpts := []openapi3.SchemaValidationOption{}
	if direction == domain.DirectionResponse {
		visitOpts = append(visitOpts, openapi3.VisitAsResponse())
	} else {
		visitOpts = append(visitOpts, openapi3.VisitAsRequest())
	}
	if e.opts.AllErrors {
		visitOpts = append(visitOpts, openapi3.MultiErrors())
	}
	if !e.opts.DisableFormatValidation {
		visitOpts = append(visitOpts, openapi3.EnableFormatValidation())
	}
	if e.opts.DisablePatternValidation {
		visitOpts = append(visitOpts, openapi3.DisablePatternValidation())
	}

	return func(value any) error {
		if err := schema.VisitJSON(value, visitOpts...); err != nil {
			return &Violations{Errors: flatten(err)}
		}
		return nil
	}, nil
}

// flatten expands nested multi errors into a flat list.
func flatten(err error) []error {
	me, ok := err.(openapi3.MultiError)
	if !ok {
		return []error{err}
	}
	out := make([]error, 0, len(me))
	for _, e := range me {
		out = append(out, flatten(e)...)
	}
	return out
}
