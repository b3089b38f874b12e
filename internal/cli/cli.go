// Package cli provides the command-line interface for the OpenAPI validator.
package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/GabrielNunesIT/go-libs/logger"
	"github.com/spf13/cobra"

	"github.com/GabrielNunesIT/openapi-validator/internal/adapters/document"
	"github.com/GabrielNunesIT/openapi-validator/internal/adapters/reporters"
	"github.com/GabrielNunesIT/openapi-validator/internal/config"
	"github.com/GabrielNunesIT/openapi-validator/internal/domain"
	"github.com/GabrielNunesIT/openapi-validator/validator"
)

// ErrInvalid is returned when the candidate does not conform to the document.
var ErrInvalid = errors.New("candidate is invalid")

// CLI holds the command-line interface configuration.
type CLI struct {
	log     logger.ILogger
	rootCmd *cobra.Command

	specFile   string
	configFile string
	format     string
	allErrors  bool
	strict     bool

	path        string
	method      string
	operationID string
	inputFile   string
	status      int
}

// New creates a new CLI instance.
func New(log logger.ILogger) *CLI {
	cli := &CLI{
		log: log,
	}

	cli.rootCmd = &cobra.Command{
		Use:           "openapi-validator",
		Short:         "Validate HTTP requests and responses against an OpenAPI document",
		Long:          "A CLI tool that compiles an OpenAPI 3.x document and validates request and response candidates read from YAML or JSON files.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cli.setupFlags()
	cli.rootCmd.AddCommand(
		cli.requestCommand(),
		cli.responseCommand(),
		cli.contentTypesCommand(),
		cli.operationsCommand(),
	)

	return cli
}

func (c *CLI) setupFlags() {
	flags := c.rootCmd.PersistentFlags()
	flags.StringVarP(&c.specFile, "spec", "s", "", "Path to the OpenAPI specification file (required)")
	flags.StringVarP(&c.configFile, "config", "c", "", "Path to a configuration file")
	flags.StringVarP(&c.format, "format", "f", "", "Output format: text, json")
	flags.BoolVar(&c.allErrors, "all-errors", false, "Report every violation instead of the first one")
	flags.BoolVar(&c.strict, "strict", false, "Reject schemas with unknown keywords or formats")

	_ = c.rootCmd.MarkPersistentFlagRequired("spec")
}

func (c *CLI) requestCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "request",
		Short: "Validate a request candidate",
		Args:  cobra.NoArgs,
		RunE:  c.runRequest,
	}

	cmd.Flags().StringVarP(&c.path, "path", "p", "", "Concrete request path, e.g. /pets/42")
	cmd.Flags().StringVarP(&c.method, "method", "m", "", "HTTP method (overrides the candidate file)")
	cmd.Flags().StringVar(&c.operationID, "operation-id", "", "Select the operation by operationId instead of path")
	cmd.Flags().StringVarP(&c.inputFile, "input", "i", "", "Path to the candidate file (required)")

	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func (c *CLI) responseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "response",
		Short: "Validate a response candidate",
		Args:  cobra.NoArgs,
		RunE:  c.runResponse,
	}

	cmd.Flags().StringVarP(&c.path, "path", "p", "", "Concrete request path, e.g. /pets/42")
	cmd.Flags().StringVarP(&c.method, "method", "m", "", "HTTP method of the request")
	cmd.Flags().StringVar(&c.operationID, "operation-id", "", "Select the operation by operationId instead of path")
	cmd.Flags().IntVar(&c.status, "status", 0, "Response status code (required)")
	cmd.Flags().StringVarP(&c.inputFile, "input", "i", "", "Path to the candidate file (required)")

	_ = cmd.MarkFlagRequired("status")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func (c *CLI) contentTypesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "content-types",
		Short: "List the request body content types of an operation",
		Args:  cobra.NoArgs,
		RunE:  c.runContentTypes,
	}

	cmd.Flags().StringVarP(&c.path, "path", "p", "", "Concrete request path (required)")
	cmd.Flags().StringVarP(&c.method, "method", "m", "", "HTTP method (required)")

	_ = cmd.MarkFlagRequired("path")
	_ = cmd.MarkFlagRequired("method")

	return cmd
}

func (c *CLI) operationsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "operations",
		Short: "List the compiled operations",
		Args:  cobra.NoArgs,
		RunE:  c.runOperations,
	}
}

// Execute runs the CLI.
func (c *CLI) Execute() error {
	return c.rootCmd.Execute()
}

func (c *CLI) runRequest(cmd *cobra.Command, _ []string) error {
	if c.path == "" && c.operationID == "" {
		return fmt.Errorf("either --path or --operation-id is required")
	}

	v, reporter, err := c.setup()
	if err != nil {
		return err
	}

	candidate, err := loadRequest(c.inputFile)
	if err != nil {
		return err
	}
	if c.method != "" {
		candidate.Method = c.method
	}

	outcome := domain.Outcome{
		Kind:   "request",
		Path:   c.path,
		Method: candidate.Method,
	}

	var validated *validator.ValidatedRequest
	if c.operationID != "" {
		outcome.Path = ""
		outcome.OperationID = c.operationID
		validated, outcome.Err = v.ValidateRequestByOperationID(c.operationID, candidate)
	} else {
		validated, outcome.Err = v.ValidateRequest(c.path, candidate)
	}
	if validated != nil {
		outcome.OperationID = validated.OperationID
	}

	return c.report(cmd, reporter, outcome)
}

func (c *CLI) runResponse(cmd *cobra.Command, _ []string) error {
	if c.operationID == "" && (c.path == "" || c.method == "") {
		return fmt.Errorf("either --operation-id or both --path and --method are required")
	}

	v, reporter, err := c.setup()
	if err != nil {
		return err
	}

	candidate, err := loadResponse(c.inputFile)
	if err != nil {
		return err
	}

	outcome := domain.Outcome{
		Kind:       "response",
		Path:       c.path,
		Method:     c.method,
		StatusCode: c.status,
	}

	if c.operationID != "" {
		outcome.Path = ""
		outcome.OperationID = c.operationID
		outcome.Err = v.ValidateResponseByOperationID(c.operationID, c.status, candidate)
	} else {
		outcome.Err = v.ValidateResponse(c.path, c.method, c.status, candidate)
	}

	return c.report(cmd, reporter, outcome)
}

func (c *CLI) runContentTypes(cmd *cobra.Command, _ []string) error {
	v, _, err := c.setup()
	if err != nil {
		return err
	}

	for _, ct := range v.RequestBodyContentTypes(c.path, c.method) {
		fmt.Fprintln(cmd.OutOrStdout(), ct)
	}

	return nil
}

func (c *CLI) runOperations(cmd *cobra.Command, _ []string) error {
	v, _, err := c.setup()
	if err != nil {
		return err
	}

	for _, op := range v.Operations() {
		line := fmt.Sprintf("%-7s %s", strings.ToUpper(op.Method), op.Path)
		if op.OperationID != "" {
			line += " " + op.OperationID
		}
		if len(op.ContentTypes) > 0 {
			line += " [" + strings.Join(op.ContentTypes, ", ") + "]"
		}
		fmt.Fprintln(cmd.OutOrStdout(), line)
	}

	return nil
}

// setup loads the configuration and the document and compiles the validator.
func (c *CLI) setup() (*validator.Validator, domain.Reporter, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, nil, err
	}

	reporter, err := reporters.New(cfg.Format)
	if err != nil {
		return nil, nil, err
	}

	c.log.Infof("Loading OpenAPI specification from: %s", c.specFile)

	spec, err := document.LoadFile(c.specFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load OpenAPI specification: %w", err)
	}

	c.log.Infof("Loaded API: %s (v%s)", spec.Info.Title, spec.Info.Version)

	v, err := validator.New(spec,
		validator.WithRequestEngineOptions(cfg.Request),
		validator.WithResponseEngineOptions(cfg.Response),
		validator.WithLogger(c.log),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to compile OpenAPI specification: %w", err)
	}

	return v, reporter, nil
}

// loadConfig reads the configuration and applies the command-line overrides.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.configFile)
	if err != nil {
		return nil, err
	}

	if c.format != "" {
		cfg.Format = strings.ToLower(c.format)
	}
	if c.allErrors {
		cfg.Request.AllErrors = true
		cfg.Response.AllErrors = true
	}
	if c.strict {
		cfg.Request.Strict = true
		cfg.Response.Strict = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *CLI) report(cmd *cobra.Command, reporter domain.Reporter, outcome domain.Outcome) error {
	if err := reporter.Report(outcome, cmd.OutOrStdout()); err != nil {
		return err
	}

	if outcome.Valid() {
		return nil
	}

	return fmt.Errorf("%w: %w", ErrInvalid, outcome.Err)
}
