// Package main is the entry point for the ptrack CLI tool.
package main

import (
	"os"

	"github.com/portfolio-labs/ptrack/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
