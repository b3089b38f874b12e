package compiler

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/GabrielNunesIT/openapi-validator/internal/domain"
	"github.com/GabrielNunesIT/openapi-validator/oaerr"
)

const defaultResponse = "default"

// Config carries the engine configuration through compilation.
type Config struct {
	Request   domain.EngineOptions
	Response  domain.EngineOptions
	NewEngine EngineFactory // defaults to NewKinEngine
}

func (c Config) engines() (request, response Engine) {
	factory := c.NewEngine
	if factory == nil {
		factory = NewKinEngine
	}
	return factory(c.Request), factory(c.Response)
}

// Operation is the compiled form of one (path template, method) pair.
type Operation struct {
	template    string
	method      string
	operationID string

	path   *ParamValidator
	query  *ParamValidator
	header *ParamValidator
	cookie *ParamValidator
	body   *BodyValidator // nil when no request body is declared

	responses map[string]*compiledResponse
}

type compiledResponse struct {
	header *ParamValidator
	body   *BodyValidator // nil when the response declares no content
}

// CompileOperation builds every validator of an operation. The engines
// created here live only for the duration of the call.
func CompileOperation(template string, op domain.Operation, cfg Config) (*Operation, error) {
	reqEngine, respEngine := cfg.engines()

	compiled := &Operation{
		template:    template,
		method:      strings.ToLower(op.Method),
		operationID: op.OperationID,
		responses:   make(map[string]*compiledResponse, len(op.Responses)),
	}

	var err error
	if compiled.path, err = NewParamValidator(reqEngine, op.ParametersIn("path"), oaerr.LocationPath); err != nil {
		return nil, compiled.wrap(err)
	}
	if compiled.query, err = NewParamValidator(reqEngine, op.ParametersIn("query"), oaerr.LocationQuery); err != nil {
		return nil, compiled.wrap(err)
	}
	if compiled.header, err = NewHeaderValidator(reqEngine, op.ParametersIn("header"), domain.DirectionRequest); err != nil {
		return nil, compiled.wrap(err)
	}
	if compiled.cookie, err = NewParamValidator(reqEngine, op.ParametersIn("cookie"), oaerr.LocationCookie); err != nil {
		return nil, compiled.wrap(err)
	}
	if rb := op.RequestBody; rb != nil {
		if compiled.body, err = NewBodyValidator(reqEngine, rb.Content, rb.Required, domain.DirectionRequest); err != nil {
			return nil, compiled.wrap(err)
		}
	}

	for _, resp := range op.Responses {
		header, err := NewHeaderValidator(respEngine, resp.Headers, domain.DirectionResponse)
		if err != nil {
			return nil, compiled.wrap(fmt.Errorf("response %s: %w", resp.StatusCode, err))
		}
		var body *BodyValidator
		if len(resp.Content) > 0 {
			body, err = NewBodyValidator(respEngine, resp.Content, false, domain.DirectionResponse)
			if err != nil {
				return nil, compiled.wrap(fmt.Errorf("response %s: %w", resp.StatusCode, err))
			}
		}
		compiled.responses[responseKey(resp.StatusCode)] = &compiledResponse{header: header, body: body}
	}

	return compiled, nil
}

func (o *Operation) wrap(err error) error {
	return fmt.Errorf("compile %s %s: %w", strings.ToUpper(o.method), o.template, err)
}

// Template returns the path template of the operation.
func (o *Operation) Template() string {
	return o.template
}

// Method returns the lower-case HTTP method.
func (o *Operation) Method() string {
	return o.method
}

// OperationID returns the declared operationId.
func (o *Operation) OperationID() string {
	return o.operationID
}

// RequestBodyContentTypes returns the declared request content types, or an
// empty slice when no request body is declared.
func (o *Operation) RequestBodyContentTypes() []string {
	if o.body == nil {
		return []string{}
	}
	return o.body.ContentTypes()
}

// ValidateRequest runs path, query, header, cookie and body validation in
// that order and returns the first failure.
func (o *Operation) ValidateRequest(req domain.Request) (*domain.ValidatedRequest, error) {
	if err := o.path.Validate(req.Path); err != nil {
		return nil, err
	}
	if err := o.query.Validate(req.Query); err != nil {
		return nil, err
	}
	if err := o.header.Validate(req.Header); err != nil {
		return nil, err
	}
	if err := o.cookie.Validate(req.Cookie); err != nil {
		return nil, err
	}
	if o.body != nil {
		if err := o.body.Validate(req.Body, contentType(req.Header)); err != nil {
			return nil, err
		}
	}

	id := o.operationID
	if req.OperationID != "" {
		id = req.OperationID
	}
	return &domain.ValidatedRequest{OperationID: id, Request: req}, nil
}

// ValidateResponse validates headers then body against the response declared
// for status, falling back to its range (e.g. 2XX) and then to default.
func (o *Operation) ValidateResponse(status int, resp domain.Response) error {
	compiled := o.response(status)
	if compiled == nil {
		return &oaerr.ResponseDefinitionMissingError{StatusCode: status}
	}
	if err := compiled.header.Validate(resp.Header); err != nil {
		return err
	}
	if compiled.body == nil {
		return nil
	}
	return compiled.body.Validate(resp.Body, contentType(resp.Header))
}

// StatusCodes returns the declared response keys.
func (o *Operation) StatusCodes() []string {
	codes := make([]string, 0, len(o.responses))
	for code := range o.responses {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

func (o *Operation) response(status int) *compiledResponse {
	code := strconv.Itoa(status)
	if r := o.responses[code]; r != nil {
		return r
	}
	if len(code) == 3 {
		if r := o.responses[code[:1]+"XX"]; r != nil {
			return r
		}
	}
	return o.responses[defaultResponse]
}

// responseKey normalizes "2xx" to "2XX" and "Default" to "default".
func responseKey(code string) string {
	if strings.EqualFold(code, defaultResponse) {
		return defaultResponse
	}
	return strings.ToUpper(code)
}

// contentType returns the Content-Type header value, matched case-insensitively.
func contentType(header map[string]any) string {
	for k, v := range header {
		if !strings.EqualFold(k, "content-type") {
			continue
		}
		switch value := v.(type) {
		case string:
			return value
		case []string:
			if len(value) > 0 {
				return value[0]
			}
		default:
			return fmt.Sprint(value)
		}
	}
	return ""
}
