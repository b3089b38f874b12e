// Package config provides configuration loading for the OpenAPI validator.
package config

import (
	"fmt"

	configloader "github.com/GabrielNunesIT/go-libs/config-loader"

	"github.com/GabrielNunesIT/openapi-validator/internal/domain"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "OPENAPI_VALIDATOR_"

// Config holds the application configuration.
type Config struct {
	// Request configures the engine for parameters and request bodies.
	Request domain.EngineOptions `koanf:"request"`
	// Response configures the engine for response headers and bodies.
	Response domain.EngineOptions `koanf:"response"`
	// Format is the report format: text or json.
	Format string `koanf:"format"`
}

// Default returns the configuration used when nothing else is set.
func Default() Config {
	return Config{Format: "text"}
}

// Load returns the application configuration using go-libs config-loader.
// Values come from defaults, then the optional file, then the environment.
func Load(file string) (*Config, error) {
	cfg, err := load(file)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func load(file string) (Config, error) {
	if file == "" {
		return configloader.NewConfigLoader(
			configloader.WithDefaults(Default()),
			configloader.WithEnv[Config](EnvPrefix),
		).Load()
	}

	return configloader.NewConfigLoader(
		configloader.WithDefaults(Default()),
		configloader.WithFile[Config](file),
		configloader.WithEnv[Config](EnvPrefix),
	).Load()
}

// Validate checks the loaded values.
func (c Config) Validate() error {
	switch c.Format {
	case "text", "json":
		return nil
	default:
		return fmt.Errorf("unsupported format: %s (supported: text, json)", c.Format)
	}
}
