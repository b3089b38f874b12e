package validator

import (
	"fmt"

	"github.com/GabrielNunesIT/go-libs/logger"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/GabrielNunesIT/openapi-validator/internal/compiler"
	"github.com/GabrielNunesIT/openapi-validator/internal/domain"
)

// EngineOptions are the schema engine tuning knobs.
type EngineOptions = domain.EngineOptions

// Engine compiles schema fragments into validators.
type Engine = compiler.Engine

// EngineFactory creates an engine configured with the given options.
type EngineFactory = compiler.EngineFactory

// ValidateFunc checks one value against a compiled schema.
type ValidateFunc = compiler.ValidateFunc

// Violations is returned by a ValidateFunc for an invalid value.
type Violations = compiler.Violations

// Direction selects request or response visibility rules.
type Direction = domain.Direction

// Direction constants re-exported for custom engines.
const (
	DirectionRequest  = domain.DirectionRequest
	DirectionResponse = domain.DirectionResponse
)

// Option is a functional option for configuring a Validator.
type Option func(*config) error

// config holds the compile-time configuration.
type config struct {
	request   EngineOptions
	response  EngineOptions
	newEngine EngineFactory
	registry  prometheus.Registerer
	log       logger.ILogger
}

func defaultConfig() *config {
	return &config{
		newEngine: compiler.NewKinEngine,
	}
}

// WithRequestEngineOptions configures the engine used for parameters and
// request bodies.
func WithRequestEngineOptions(opts EngineOptions) Option {
	return func(c *config) error {
		c.request = opts
		return nil
	}
}

// WithResponseEngineOptions configures the engine used for response headers
// and bodies.
func WithResponseEngineOptions(opts EngineOptions) Option {
	return func(c *config) error {
		c.response = opts
		return nil
	}
}

// WithEngineFactory replaces the kin-openapi schema engine.
func WithEngineFactory(factory EngineFactory) Option {
	return func(c *config) error {
		if factory == nil {
			return fmt.Errorf("validator: engine factory cannot be nil")
		}
		c.newEngine = factory
		return nil
	}
}

// WithRegisterer registers validation counters with reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(c *config) error {
		c.registry = reg
		return nil
	}
}

// WithLogger logs a summary line once compilation is done.
func WithLogger(log logger.ILogger) Option {
	return func(c *config) error {
		c.log = log
		return nil
	}
}
