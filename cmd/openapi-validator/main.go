// Package main provides the entry point for the OpenAPI validator CLI.
package main

import (
	"os"

	"github.com/GabrielNunesIT/go-libs/logger"

	"github.com/GabrielNunesIT/openapi-validator/internal/cli"
)

func main() {
	log := logger.NewConsoleLogger(os.Stderr)

	app := cli.New(log)
	if err := app.Execute(); err != nil {
		log.Errorf("Error: %v", err)
		os.Exit(1)
	}
}
