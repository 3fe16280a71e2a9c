// Package main is the entry point for the flowise connection service.
package main

import (
	"os"

	"github.com/brygal1/flowise/cmd/flowise/app"
	"github.com/brygal1/flowise/pkg/logger"
)

func main() {
	logger.Initialize()

	if err := app.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
