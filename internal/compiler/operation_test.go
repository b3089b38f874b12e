package compiler

import (
	"errors"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GabrielNunesIT/openapi-validator/internal/domain"
	"github.com/GabrielNunesIT/openapi-validator/oaerr"
)

func errorSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("code", openapi3.NewInt32Schema()).
		WithProperty("message", openapi3.NewStringSchema()).
		WithRequired([]string{"code", "message"})
}

func showPetOperation() domain.Operation {
	return domain.Operation{
		Method:      "GET",
		OperationID: "showPetById",
		Parameters: []domain.Parameter{
			{Name: "petId", In: "path", Required: true, Schema: openapi3.NewIntegerSchema()},
			{Name: "verbose", In: "query", Schema: openapi3.NewBoolSchema()},
			{Name: "X-Version", In: "header", Schema: openapi3.NewIntegerSchema()},
			{Name: "session", In: "cookie", Schema: openapi3.NewStringSchema()},
		},
		RequestBody: &domain.RequestBody{
			Content: map[string]domain.MediaType{"application/json": {Schema: petSchema()}},
		},
		Responses: []domain.ResponseDefinition{
			{
				StatusCode: "200",
				Headers: []domain.Parameter{
					{Name: "X-Next", In: "header", Required: true, Schema: openapi3.NewStringSchema()},
				},
				Content: map[string]domain.MediaType{"application/json": {Schema: petSchema()}},
			},
			{
				StatusCode: "4xx",
				Content:    map[string]domain.MediaType{"application/json": {Schema: errorSchema()}},
			},
			{
				StatusCode: "204",
			},
			{
				StatusCode: "Default",
				Content:    map[string]domain.MediaType{"application/json": {Schema: errorSchema()}},
			},
		},
	}
}

func TestCompileOperation(t *testing.T) {
	op, err := CompileOperation("/pets/{petId}", showPetOperation(), Config{})
	require.NoError(t, err)

	assert.Equal(t, "/pets/{petId}", op.Template())
	assert.Equal(t, "get", op.Method())
	assert.Equal(t, "showPetById", op.OperationID())
	assert.Equal(t, []string{"application/json"}, op.RequestBodyContentTypes())
	assert.Equal(t, []string{"200", "204", "4XX", "default"}, op.StatusCodes())
}

func TestCompileOperation_WithoutRequestBody(t *testing.T) {
	op, err := CompileOperation("/pets", domain.Operation{Method: "get"}, Config{})
	require.NoError(t, err)

	assert.NotNil(t, op.RequestBodyContentTypes())
	assert.Empty(t, op.RequestBodyContentTypes())

	validated, err := op.ValidateRequest(domain.Request{Body: "ignored"})
	require.NoError(t, err)
	assert.Equal(t, "", validated.OperationID)
}

func TestCompileOperation_EngineError(t *testing.T) {
	boom := errors.New("boom")

	_, err := CompileOperation("/pets/{petId}", showPetOperation(), Config{NewEngine: fakeFactory(&fakeEngine{compileErr: boom})})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "compile GET /pets/{petId}")
}

func TestCompileOperation_EnginesPerDirection(t *testing.T) {
	var seen []domain.EngineOptions
	factory := func(opts domain.EngineOptions) Engine {
		seen = append(seen, opts)
		return NewKinEngine(opts)
	}

	_, err := CompileOperation("/pets/{petId}", showPetOperation(), Config{
		Request:   domain.EngineOptions{AllErrors: true},
		Response:  domain.EngineOptions{Strict: true},
		NewEngine: factory,
	})
	require.NoError(t, err)
	assert.Equal(t, []domain.EngineOptions{{AllErrors: true}, {Strict: true}}, seen)
}

func TestOperation_ValidateRequest(t *testing.T) {
	op, err := CompileOperation("/pets/{petId}", showPetOperation(), Config{})
	require.NoError(t, err)

	tests := []struct {
		name     string
		req      domain.Request
		location oaerr.Location
	}{
		{
			name: "valid",
			req:  domain.Request{Path: map[string]any{"petId": 123}},
		},
		{
			name:     "bad path",
			req:      domain.Request{Path: map[string]any{"petId": "chow"}},
			location: oaerr.LocationPath,
		},
		{
			name:     "bad query",
			req:      domain.Request{Path: map[string]any{"petId": 1}, Query: map[string]any{"verbose": "yes"}},
			location: oaerr.LocationQuery,
		},
		{
			name:     "bad header",
			req:      domain.Request{Path: map[string]any{"petId": 1}, Header: map[string]any{"x-version": "one"}},
			location: oaerr.LocationHeader,
		},
		{
			name:     "bad cookie",
			req:      domain.Request{Path: map[string]any{"petId": 1}, Cookie: map[string]any{"session": 42}},
			location: oaerr.LocationCookie,
		},
		{
			name: "bad body",
			req: domain.Request{
				Path:   map[string]any{"petId": 1},
				Header: map[string]any{"Content-Type": "application/json"},
				Body:   map[string]any{"name": 123},
			},
			location: oaerr.LocationRequestBody,
		},
		{
			name: "path checked before query",
			req: domain.Request{
				Path:  map[string]any{"petId": "chow"},
				Query: map[string]any{"verbose": "yes"},
			},
			location: oaerr.LocationPath,
		},
		{
			name: "cookie checked before body",
			req: domain.Request{
				Path:   map[string]any{"petId": 1},
				Cookie: map[string]any{"session": 42},
				Header: map[string]any{"Content-Type": "application/json"},
				Body:   map[string]any{"name": 123},
			},
			location: oaerr.LocationCookie,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validated, err := op.ValidateRequest(tt.req)
			if tt.location == "" {
				require.NoError(t, err)
				assert.Equal(t, "showPetById", validated.OperationID)
				assert.Equal(t, tt.req, validated.Request)
				return
			}

			assert.Nil(t, validated)
			require.Error(t, err)
			assert.ErrorIs(t, err, oaerr.ErrRequestValidation)
			assert.Equal(t, tt.location, errorLocation(t, err))
		})
	}
}

func TestOperation_ValidateRequest_QueryBeforeHeader(t *testing.T) {
	req := domain.Request{
		Path:   map[string]any{"petId": 1},
		Query:  map[string]any{"verbose": "yes"},
		Header: map[string]any{"X-Version": "one"},
	}

	for _, allErrors := range []bool{false, true} {
		op, err := CompileOperation("/pets/{petId}", showPetOperation(), Config{
			Request: domain.EngineOptions{AllErrors: allErrors},
		})
		require.NoError(t, err)

		_, err = op.ValidateRequest(req)
		require.Error(t, err)
		assert.Equal(t, oaerr.LocationQuery, errorLocation(t, err), "allErrors=%v", allErrors)
	}
}

func TestOperation_ValidateRequest_CustomOperationID(t *testing.T) {
	op, err := CompileOperation("/pets/{petId}", showPetOperation(), Config{})
	require.NoError(t, err)

	validated, err := op.ValidateRequest(domain.Request{
		OperationID: "customId",
		Path:        map[string]any{"petId": 123},
	})
	require.NoError(t, err)
	assert.Equal(t, "customId", validated.OperationID)
}

func TestOperation_ValidateResponse(t *testing.T) {
	op, err := CompileOperation("/pets/{petId}", showPetOperation(), Config{})
	require.NoError(t, err)

	pet := map[string]any{"id": 1, "name": "plum"}
	problem := map[string]any{"code": 404, "message": "not found"}
	jsonHeader := func(extra map[string]any) map[string]any {
		h := map[string]any{"Content-Type": "application/json"}
		for k, v := range extra {
			h[k] = v
		}
		return h
	}

	tests := []struct {
		name     string
		status   int
		resp     domain.Response
		location oaerr.Location
	}{
		{
			name:   "exact status",
			status: 200,
			resp:   domain.Response{Header: jsonHeader(map[string]any{"x-next": "/pets?page=2"}), Body: pet},
		},
		{
			name:     "missing response header",
			status:   200,
			resp:     domain.Response{Header: jsonHeader(nil), Body: pet},
			location: oaerr.LocationResponseHeader,
		},
		{
			name:     "writeOnly property in response",
			status:   200,
			resp:     domain.Response{Header: jsonHeader(map[string]any{"X-Next": "x"}), Body: map[string]any{"id": 1, "name": "plum", "writeOnlyProp": "secret"}},
			location: oaerr.LocationResponseBody,
		},
		{
			name:   "status range",
			status: 404,
			resp:   domain.Response{Header: jsonHeader(nil), Body: problem},
		},
		{
			name:     "status range mismatch",
			status:   404,
			resp:     domain.Response{Header: jsonHeader(nil), Body: pet},
			location: oaerr.LocationResponseBody,
		},
		{
			name:   "default",
			status: 503,
			resp:   domain.Response{Header: jsonHeader(nil), Body: problem},
		},
		{
			name:   "no content declared",
			status: 204,
			resp:   domain.Response{Body: "ignored"},
		},
		{
			name:     "unsupported media type",
			status:   503,
			resp:     domain.Response{Header: map[string]any{"content-type": "text/html"}, Body: "<html/>"},
			location: oaerr.LocationResponseBody,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := op.ValidateResponse(tt.status, tt.resp)
			if tt.location == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.ErrorIs(t, err, oaerr.ErrResponseValidation)
			assert.Equal(t, tt.location, errorLocation(t, err))
		})
	}
}

func TestOperation_ValidateResponse_Undefined(t *testing.T) {
	op, err := CompileOperation("/pets", domain.Operation{
		Method:    "post",
		Responses: []domain.ResponseDefinition{{StatusCode: "201"}},
	}, Config{})
	require.NoError(t, err)

	assert.NoError(t, op.ValidateResponse(201, domain.Response{}))

	err = op.ValidateResponse(500, domain.Response{})

	var missing *oaerr.ResponseDefinitionMissingError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, 500, missing.StatusCode)
	assert.ErrorIs(t, err, oaerr.ErrResponseUndefined)
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "application/json", contentType(map[string]any{"CONTENT-TYPE": "application/json"}))
	assert.Equal(t, "text/plain", contentType(map[string]any{"content-type": []string{"text/plain", "text/html"}}))
	assert.Equal(t, "", contentType(nil))
}

func TestResponseKey(t *testing.T) {
	assert.Equal(t, "2XX", responseKey("2xx"))
	assert.Equal(t, "default", responseKey("DEFAULT"))
	assert.Equal(t, "200", responseKey("200"))
}

func errorLocation(t *testing.T, err error) oaerr.Location {
	t.Helper()

	var (
		param    *oaerr.ParameterError
		reqBody  *oaerr.RequestBodyError
		respBody *oaerr.ResponseBodyError
	)
	switch {
	case errors.As(err, &param):
		return param.In
	case errors.As(err, &reqBody):
		return reqBody.In
	case errors.As(err, &respBody):
		return respBody.In
	}
	t.Fatalf("unexpected error type %T: %v", err, err)
	return ""
}
