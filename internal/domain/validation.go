package domain

// Direction selects which side of an exchange a schema is validated for.
// It decides whether readOnly and writeOnly properties are acceptable.
type Direction int

const (
	// DirectionRequest rejects readOnly properties.
	DirectionRequest Direction = iota
	// DirectionResponse rejects writeOnly properties.
	DirectionResponse
)

func (d Direction) String() string {
	if d == DirectionResponse {
		return "response"
	}
	return "request"
}

// EngineOptions are the schema engine tuning knobs.
type EngineOptions struct {
	// AllErrors collects every violation instead of stopping at the first.
	AllErrors bool `koanf:"all_errors" json:"all_errors" yaml:"all_errors"`
	// Strict rejects schemas with unknown keywords or formats at compile time.
	Strict bool `koanf:"strict" json:"strict" yaml:"strict"`
	// DisableFormatValidation skips "format" checks on values.
	DisableFormatValidation bool `koanf:"disable_format_validation" json:"disable_format_validation" yaml:"disable_format_validation"`
	// DisablePatternValidation skips "pattern" checks on values.
	DisablePatternValidation bool `koanf:"disable_pattern_validation" json:"disable_pattern_validation" yaml:"disable_pattern_validation"`
}

// Request is an already decomposed request candidate.
type Request struct {
	Method      string
	OperationID string // overrides the declared operationId in the result
	Path        map[string]any
	Query       map[string]any
	Header      map[string]any
	Cookie      map[string]any
	// Body is a decoded JSON value (map[string]any, []any or a scalar).
	// Other Go values, such as structs, are JSON round-tripped first.
	// nil means no body.
	Body any
}

// Response is an already decomposed response candidate.
type Response struct {
	Header map[string]any
	Body   any // same rules as Request.Body
}

// ValidatedRequest is returned for a request that passed validation.
type ValidatedRequest struct {
	OperationID string
	Request     Request
}

// OperationInfo describes one compiled operation.
type OperationInfo struct {
	Path         string
	Method       string
	OperationID  string
	ContentTypes []string
}
