// Package main is the entry point for the floorplan-markup CLI.
package main

import (
	"os"

	"floorplan-markup/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
