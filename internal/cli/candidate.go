package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/GabrielNunesIT/openapi-validator/internal/domain"
)

// requestFile is the on-disk form of a request candidate. JSON is valid YAML,
// so both are accepted.
type requestFile struct {
	Method      string         `yaml:"method"`
	OperationID string         `yaml:"operationId"`
	Path        map[string]any `yaml:"path"`
	Query       map[string]any `yaml:"query"`
	Header      map[string]any `yaml:"header"`
	Cookie      map[string]any `yaml:"cookie"`
	Body        any            `yaml:"body"`
}

// responseFile is the on-disk form of a response candidate.
type responseFile struct {
	Header map[string]any `yaml:"header"`
	Body   any            `yaml:"body"`
}

func loadRequest(path string) (domain.Request, error) {
	var file requestFile
	if err := decodeFile(path, &file); err != nil {
		return domain.Request{}, err
	}

	return domain.Request{
		Method:      file.Method,
		OperationID: file.OperationID,
		Path:        file.Path,
		Query:       file.Query,
		Header:      file.Header,
		Cookie:      file.Cookie,
		Body:        file.Body,
	}, nil
}

func loadResponse(path string) (domain.Response, error) {
	var file responseFile
	if err := decodeFile(path, &file); err != nil {
		return domain.Response{}, err
	}

	return domain.Response{
		Header: file.Header,
		Body:   file.Body,
	}, nil
}

func decodeFile(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read candidate file: %w", err)
	}

	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse candidate file %s: %w", path, err)
	}

	return nil
}
