package reporters

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GabrielNunesIT/openapi-validator/internal/domain"
	"github.com/GabrielNunesIT/openapi-validator/oaerr"
)

func init() {
	color.NoColor = true
}

func TestNew(t *testing.T) {
	tests := []struct {
		format   string
		expected string
		wantErr  bool
	}{
		{format: "", expected: "text"},
		{format: "text", expected: "text"},
		{format: "JSON", expected: "json"},
		{format: "pdf", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			reporter, err := New(tt.format)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, reporter.Format())
		})
	}
}

func queryError() error {
	return &oaerr.ParameterError{Detail: oaerr.Detail{
		In:         oaerr.LocationQuery,
		Message:    "schema validation error",
		Violations: []error{errors.New("value must be an integer\nSchema:\n  {\"type\": \"integer\"}")},
	}}
}

func TestTextReporter(t *testing.T) {
	tests := []struct {
		name     string
		outcome  domain.Outcome
		expected string
	}{
		{
			name:     "valid request",
			outcome:  domain.Outcome{Kind: "request", Path: "/pets/1", Method: "get", OperationID: "showPetById"},
			expected: "VALID request GET /pets/1 (operationId showPetById)\n",
		},
		{
			name:     "valid response",
			outcome:  domain.Outcome{Kind: "response", Path: "/pets/1", Method: "get", StatusCode: 200},
			expected: "VALID response GET /pets/1 -> 200\n",
		},
		{
			name:    "invalid request",
			outcome: domain.Outcome{Kind: "request", Path: "/pets", Method: "get", Err: queryError()},
			expected: "INVALID request GET /pets\n" +
				"  query: schema validation error\n" +
				"  - value must be an integer\n",
		},
		{
			name: "invalid without details",
			outcome: domain.Outcome{Kind: "request", OperationID: "createPets", Err: &oaerr.RequestBodyError{Detail: oaerr.Detail{
				In: oaerr.LocationRequestBody, Message: "body is required", Violations: []error{},
			}}},
			expected: "INVALID request operation createPets\n" +
				"  request-body: body is required\n" +
				"  - no details reported by the schema engine\n",
		},
		{
			name:     "lookup failure",
			outcome:  domain.Outcome{Kind: "request", Path: "/undefined", Method: "get", Err: &oaerr.LookupError{Reason: oaerr.ErrPathNotFound, Path: "/undefined"}},
			expected: "INVALID request GET /undefined\n  path not found: /undefined\n",
		},
		{
			name:     "internal error",
			outcome:  domain.Outcome{Kind: "request", Path: "/pets", Method: "post", Err: errors.New("unknown")},
			expected: "ERROR request POST /pets: unknown\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, NewTextReporter().Report(tt.outcome, &buf))
			assert.Equal(t, tt.expected, buf.String())
		})
	}
}

func TestJSONReporter(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		var buf bytes.Buffer
		err := NewJSONReporter().Report(domain.Outcome{Kind: "response", Path: "/pets", Method: "get", StatusCode: 200}, &buf)
		require.NoError(t, err)

		assert.JSONEq(t, `{"kind":"response","path":"/pets","method":"GET","status_code":200,"valid":true}`, buf.String())
	})

	t.Run("validation error", func(t *testing.T) {
		var buf bytes.Buffer
		err := NewJSONReporter().Report(domain.Outcome{Kind: "request", Path: "/pets", Method: "get", Err: queryError()}, &buf)
		require.NoError(t, err)

		var decoded struct {
			Valid bool `json:"valid"`
			Error struct {
				Code     int `json:"code"`
				Location struct {
					In string `json:"in"`
				} `json:"location"`
				Suggestions []string `json:"suggestions"`
			} `json:"error"`
		}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.False(t, decoded.Valid)
		assert.Equal(t, 400, decoded.Error.Code)
		assert.Equal(t, "query", decoded.Error.Location.In)
		assert.Len(t, decoded.Error.Suggestions, 1)
	})

	t.Run("internal error", func(t *testing.T) {
		var buf bytes.Buffer
		err := NewJSONReporter().Report(domain.Outcome{Kind: "request", Path: "/pets", Method: "get", Err: errors.New("unknown")}, &buf)
		require.NoError(t, err)

		assert.JSONEq(t, `{"kind":"request","path":"/pets","method":"GET","valid":false,"error":{"message":"unknown"}}`, buf.String())
	})
}
