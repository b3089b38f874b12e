package compiler

import (
	"github.com/getkin/kin-openapi/openapi3"

	"github.com/GabrielNunesIT/openapi-validator/internal/domain"
)

// Unit is one compiled, direction-aware schema validator.
type Unit struct {
	schema    *openapi3.Schema
	direction domain.Direction
	validate  ValidateFunc
}

// CompileSchema compiles a schema fragment for the given direction.
// A nil schema compiles to a unit that accepts any value.
func CompileSchema(engine Engine, schema *openapi3.Schema, direction domain.Direction) (*Unit, error) {
	validate, err := engine.Compile(schema, direction)
	if err != nil {
		return nil, err
	}
	return &Unit{
		schema:    schema,
		direction: direction,
		validate:  validate,
	}, nil
}

// Schema returns the schema fragment the unit was compiled from.
func (u *Unit) Schema() *openapi3.Schema {
	return u.schema
}

// Direction returns the direction the unit was compiled for.
func (u *Unit) Direction() domain.Direction {
	return u.direction
}

// Validate returns nil, a *Violations, or an engine failure as is.
func (u *Unit) Validate(value any) error {
	if u.validate == nil {
		return nil
	}
	return u.validate(value)
}
