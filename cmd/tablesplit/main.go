// Package main provides the tablesplit command.
package main

import (
	"os"

	"github.com/benjaminschreck/go-tablesplit/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
