package main

import (
	"os"

	"github.com/pablasso/todo/internal/cli"
)

func main() {
	// With no subcommand the root command launches the TUI
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
