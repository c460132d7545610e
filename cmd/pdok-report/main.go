// Package main is the entry point for the pdok-report CLI.
package main

import (
	"fmt"
	"os"

	"github.com/osmnl/pdok-report/internal/app"
	"github.com/osmnl/pdok-report/internal/cli"
)

// version is set at build time using -ldflags.
var version = "dev"

func main() {
	rootCmd := cli.NewRootCommand(app.New, version)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
