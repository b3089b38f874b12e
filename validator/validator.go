package validator

import (
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/GabrielNunesIT/openapi-validator/internal/adapters/document"
	"github.com/GabrielNunesIT/openapi-validator/internal/compiler"
	"github.com/GabrielNunesIT/openapi-validator/internal/domain"
)

// Request is an already decomposed request candidate.
type Request = domain.Request

// Response is an already decomposed response candidate.
type Response = domain.Response

// ValidatedRequest is returned for a request that passed validation.
type ValidatedRequest = domain.ValidatedRequest

// OperationInfo describes one compiled operation.
type OperationInfo = domain.OperationInfo

// Document is the resolved document model the compiler works on.
type Document = domain.Document

const (
	kindRequest  = "request"
	kindResponse = "response"
)

// Validator validates requests and responses against a compiled OpenAPI
// document. It is read-only after New returns and safe for concurrent use.
type Validator struct {
	index   *compiler.Index
	metrics *metrics
}

// New compiles every operation of a loaded OpenAPI 3 document.
//
// Returns an error if the document cannot be indexed: malformed path
// templates, unresolved references, duplicate operationIds, or (with
// Strict engine options) invalid schemas.
func New(spec *openapi3.T, opts ...Option) (*Validator, error) {
	doc, err := document.Convert(spec)
	if err != nil {
		return nil, fmt.Errorf("validator: %w", err)
	}
	return NewFromDocument(doc, opts...)
}

// NewFromDocument compiles a document already converted to the domain model.
func NewFromDocument(doc *Document, opts ...Option) (*Validator, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	index, err := compiler.NewIndex(doc, compiler.Config{
		Request:   cfg.request,
		Response:  cfg.response,
		NewEngine: cfg.newEngine,
	})
	if err != nil {
		return nil, fmt.Errorf("validator: %w", err)
	}

	m, err := newMetrics(cfg.registry)
	if err != nil {
		return nil, fmt.Errorf("validator: %w", err)
	}

	if cfg.log != nil {
		cfg.log.Infof("Compiled %d operations across %d paths", len(index.Operations()), len(doc.Paths))
	}

	return &Validator{
		index:   index,
		metrics: m,
	}, nil
}

// ValidateRequest validates a request for the concrete path, using
// req.Method to select the operation.
func (v *Validator) ValidateRequest(path string, req Request) (*ValidatedRequest, error) {
	return v.ValidateRequestByPath(path, req.Method, req)
}

// ValidateRequestByPath validates a request for the concrete path and method.
func (v *Validator) ValidateRequestByPath(path, method string, req Request) (*ValidatedRequest, error) {
	op, err := v.index.Lookup(path, method)
	if err != nil {
		v.metrics.observe(kindRequest, err)
		return nil, err
	}
	return v.validateRequest(op, req)
}

// ValidateRequestByOperationID validates a request for the operation with
// the given operationId.
func (v *Validator) ValidateRequestByOperationID(operationID string, req Request) (*ValidatedRequest, error) {
	op, err := v.index.LookupByOperationID(operationID)
	if err != nil {
		v.metrics.observe(kindRequest, err)
		return nil, err
	}
	return v.validateRequest(op, req)
}

func (v *Validator) validateRequest(op *compiler.Operation, req Request) (*ValidatedRequest, error) {
	validated, err := op.ValidateRequest(req)
	v.metrics.observe(kindRequest, err)
	if err != nil {
		return nil, err
	}
	return validated, nil
}

// ValidateResponse validates a response of the operation at path and method.
func (v *Validator) ValidateResponse(path, method string, statusCode int, resp Response) error {
	op, err := v.index.Lookup(path, method)
	if err != nil {
		v.metrics.observe(kindResponse, err)
		return err
	}
	err = op.ValidateResponse(statusCode, resp)
	v.metrics.observe(kindResponse, err)
	return err
}

// ValidateResponseByOperationID validates a response of the operation with
// the given operationId.
func (v *Validator) ValidateResponseByOperationID(operationID string, statusCode int, resp Response) error {
	op, err := v.index.LookupByOperationID(operationID)
	if err != nil {
		v.metrics.observe(kindResponse, err)
		return err
	}
	err = op.ValidateResponse(statusCode, resp)
	v.metrics.observe(kindResponse, err)
	return err
}

// RequestBodyContentTypes returns the content types declared for the request
// body of the operation at path and method. Unknown paths, methods and
// operations without a request body yield an empty slice.
func (v *Validator) RequestBodyContentTypes(path, method string) []string {
	op, err := v.index.Lookup(path, method)
	if err != nil {
		return []string{}
	}
	return op.RequestBodyContentTypes()
}

// Operations lists the compiled operations sorted by path then method.
func (v *Validator) Operations() []OperationInfo {
	ops := v.index.Operations()
	infos := make([]OperationInfo, 0, len(ops))
	for _, op := range ops {
		infos = append(infos, OperationInfo{
			Path:         op.Template(),
			Method:       op.Method(),
			OperationID:  op.OperationID(),
			ContentTypes: op.RequestBodyContentTypes(),
		})
	}
	return infos
}
