// Package main is the entry point for the bike-config CLI.
package main

import (
	"os"

	"bike-config/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
