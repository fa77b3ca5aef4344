// Package main is the entry point for the price-tiers CLI.
package main

import (
	"os"

	"price-tiers/cmd/cli/cmd"
	"price-tiers/internal/logging"
)

func main() {
	err := cmd.Execute()
	logging.Sync()
	if err != nil {
		os.Exit(1)
	}
}
