// Package document loads OpenAPI documents with kin-openapi and converts
// them into the domain model the compiler works on.
package document

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/GabrielNunesIT/openapi-validator/internal/domain"
)

// LoadFile parses an OpenAPI specification file and resolves its references.
func LoadFile(path string) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	loader.IsExternalRefsAllowed = true

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	spec, err := loader.LoadFromFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse OpenAPI file: %w", err)
	}

	return spec, nil
}

// LoadData parses an OpenAPI specification from memory.
func LoadData(data []byte) (*openapi3.T, error) {
	spec, err := openapi3.NewLoader().LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse OpenAPI data: %w", err)
	}
	return spec, nil
}

// Convert turns a loaded specification into a domain document. Path-level
// parameters are merged into each operation; operation parameters with the
// same name and location take precedence.
func Convert(spec *openapi3.T) (*domain.Document, error) {
	if spec == nil {
		return nil, fmt.Errorf("specification cannot be nil")
	}

	doc := &domain.Document{}
	if spec.Info != nil {
		doc.Title = spec.Info.Title
		doc.Version = spec.Info.Version
	}

	if spec.Paths == nil {
		return doc, nil
	}

	paths := spec.Paths.Map()
	templates := make([]string, 0, len(paths))
	for template := range paths {
		templates = append(templates, template)
	}
	sort.Strings(templates)

	for _, template := range templates {
		pathItem := paths[template]
		if pathItem == nil {
			continue
		}
		operations, err := convertOperations(pathItem)
		if err != nil {
			return nil, fmt.Errorf("path %s: %w", template, err)
		}
		doc.Paths = append(doc.Paths, domain.Path{
			Template:   template,
			Operations: operations,
		})
	}

	return doc, nil
}

func convertOperations(pathItem *openapi3.PathItem) ([]domain.Operation, error) {
	methods := make([]string, 0, 8)
	ops := pathItem.Operations()
	for method := range ops {
		methods = append(methods, method)
	}
	sort.Strings(methods)

	shared, err := convertParameters(pathItem.Parameters)
	if err != nil {
		return nil, err
	}

	operations := make([]domain.Operation, 0, len(methods))
	for _, method := range methods {
		op := ops[method]
		if op == nil {
			continue
		}

		own, err := convertParameters(op.Parameters)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", method, err)
		}

		operation := domain.Operation{
			Method:      strings.ToLower(method),
			OperationID: op.OperationID,
			Parameters:  mergeParameters(shared, own),
		}

		if op.RequestBody != nil {
			if op.RequestBody.Value == nil {
				return nil, fmt.Errorf("%s: unresolved request body %s", method, op.RequestBody.Ref)
			}
			operation.RequestBody = &domain.RequestBody{
				Required: op.RequestBody.Value.Required,
				Content:  convertContent(op.RequestBody.Value.Content),
			}
		}

		if op.Responses != nil {
			for statusCode, response := range op.Responses.Map() {
				if response.Value == nil {
					return nil, fmt.Errorf("%s: unresolved response %s", method, response.Ref)
				}
				headers, err := convertHeaders(response.Value.Headers)
				if err != nil {
					return nil, fmt.Errorf("%s response %s: %w", method, statusCode, err)
				}
				operation.Responses = append(operation.Responses, domain.ResponseDefinition{
					StatusCode: statusCode,
					Headers:    headers,
					Content:    convertContent(response.Value.Content),
				})
			}
			sort.Slice(operation.Responses, func(i, j int) bool {
				return operation.Responses[i].StatusCode < operation.Responses[j].StatusCode
			})
		}

		operations = append(operations, operation)
	}

	return operations, nil
}

func convertParameters(params openapi3.Parameters) ([]domain.Parameter, error) {
	var out []domain.Parameter
	for _, param := range params {
		if param == nil {
			continue
		}
		if param.Value == nil {
			return nil, fmt.Errorf("unresolved parameter %s", param.Ref)
		}
		out = append(out, domain.Parameter{
			Name:     param.Value.Name,
			In:       param.Value.In,
			Required: param.Value.Required,
			Schema:   parameterSchema(param.Value.Schema, param.Value.Content),
		})
	}
	return out, nil
}

func convertHeaders(headers openapi3.Headers) ([]domain.Parameter, error) {
	names := make([]string, 0, len(headers))
	for name := range headers {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]domain.Parameter, 0, len(names))
	for _, name := range names {
		header := headers[name]
		if header == nil {
			continue
		}
		if header.Value == nil {
			return nil, fmt.Errorf("unresolved header %s", header.Ref)
		}
		out = append(out, domain.Parameter{
			Name:     name,
			In:       openapi3.ParameterInHeader,
			Required: header.Value.Required,
			Schema:   parameterSchema(header.Value.Schema, header.Value.Content),
		})
	}
	return out, nil
}

// parameterSchema returns the schema of a parameter declared with "schema"
// or with a single "content" entry.
func parameterSchema(ref *openapi3.SchemaRef, content openapi3.Content) *openapi3.Schema {
	if ref != nil {
		return ref.Value
	}
	if len(content) == 1 {
		for _, mediaType := range content {
			if mediaType != nil && mediaType.Schema != nil {
				return mediaType.Schema.Value
			}
		}
	}
	return nil
}

func mergeParameters(shared, own []domain.Parameter) []domain.Parameter {
	if len(shared) == 0 {
		return own
	}
	key := func(p domain.Parameter) string {
		return p.In + ":" + p.Name
	}
	overridden := make(map[string]bool, len(own))
	for _, p := range own {
		overridden[key(p)] = true
	}
	merged := make([]domain.Parameter, 0, len(shared)+len(own))
	for _, p := range shared {
		if !overridden[key(p)] {
			merged = append(merged, p)
		}
	}
	return append(merged, own...)
}

func convertContent(content openapi3.Content) map[string]domain.MediaType {
	result := make(map[string]domain.MediaType, len(content))

	for mediaType, item := range content {
		var schema *openapi3.Schema
		if item != nil && item.Schema != nil {
			schema = item.Schema.Value
		}
		result[mediaType] = domain.MediaType{Schema: schema}
	}

	return result
}
