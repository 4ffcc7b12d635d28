package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/pablasso/todo/internal/config"
	"github.com/spf13/cobra"
)

func newInitCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the data directory and a default config",
		Long:  "Writes config.yaml into $TODO_PATH (default ~/.todo) with the selected backend.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, opts)
		},
	}
}

func runInit(cmd *cobra.Command, opts *rootOptions) error {
	path := opts.resolvedConfigPath()

	// Check if already initialized
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("todo is already initialized (%s exists)", path)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to check config: %w", err)
	}

	cfg := config.Default()
	if opts.backend != "" {
		cfg.Backend = strings.ToLower(opts.backend)
	}
	if opts.file != "" {
		cfg.File = opts.file
	}
	if opts.database != "" {
		cfg.Database = opts.database
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := config.Write(path, cfg); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Initialized todo in", path)
	fmt.Fprintln(out, "\nNext steps:")
	fmt.Fprintln(out, "  1. Run: todo add \"Buy groceries\"")
	fmt.Fprintln(out, "  2. Run: todo (no arguments) for the interactive list")
	return nil
}
