// Package domain provides the core models shared by the compiler, the
// adapters and the public validator.
package domain

import "github.com/getkin/kin-openapi/openapi3"

// Document represents a fully resolved OpenAPI document.
type Document struct {
	Title   string
	Version string
	Paths   []Path
}

// Path represents an API endpoint path template.
type Path struct {
	Template   string // e.g. /pets/{petId}
	Operations []Operation
}

// Operation represents an HTTP operation on a path.
type Operation struct {
	Method      string // lower-case, e.g. "get"
	OperationID string
	Parameters  []Parameter
	RequestBody *RequestBody
	Responses   []ResponseDefinition
}

// Parameter represents a request parameter or a response header.
type Parameter struct {
	Name     string
	In       string // query, path, header, cookie
	Required bool
	Schema   *openapi3.Schema // nil when the parameter has no shape constraint
}

// RequestBody represents a request body.
type RequestBody struct {
	Required bool
	Content  map[string]MediaType
}

// MediaType represents the schema of one content type.
type MediaType struct {
	Schema *openapi3.Schema
}

// ResponseDefinition represents a declared API response.
type ResponseDefinition struct {
	StatusCode string // "200", "2XX" or "default"
	Headers    []Parameter
	Content    map[string]MediaType
}

// ParametersIn returns the parameters declared in the given location.
func (o *Operation) ParametersIn(in string) []Parameter {
	var params []Parameter
	for _, p := range o.Parameters {
		if p.In == in {
			params = append(params, p)
		}
	}
	return params
}
