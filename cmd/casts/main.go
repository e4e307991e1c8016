// Package main is the entry point for the casts CLI.
package main

import (
	"os"

	"github.com/runger/casts/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
