package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/pablasso/todo/internal/task"
	"github.com/spf13/cobra"
)

func newDeinitCmd(opts *rootOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "deinit",
		Short: "Remove the config and every stored task",
		Long:  "Deletes config.yaml, the JSON task file and the SQLite database. This action cannot be undone.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeinit(cmd, opts, force)
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation prompt")
	return cmd
}

func runDeinit(cmd *cobra.Command, opts *rootOptions, force bool) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}

	locked, err := task.NewFileLock(cfg.File).IsLocked()
	if err != nil {
		return err
	}
	if locked {
		return fmt.Errorf("%w: another todo process is using %s", task.ErrLocked, cfg.File)
	}

	// Calculate what will be deleted
	candidates := []string{opts.resolvedConfigPath(), cfg.File, cfg.Database}
	var targets []string
	var totalSize int64
	for _, path := range candidates {
		info, err := os.Stat(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to check %s: %w", path, err)
		}
		if info.IsDir() {
			return fmt.Errorf("%s exists but is a directory", path)
		}
		targets = append(targets, path)
		totalSize += info.Size()
	}

	if len(targets) == 0 {
		return fmt.Errorf("todo is not initialized (nothing found in %s)", opts.resolvedConfigPath())
	}

	out := cmd.OutOrStdout()

	// Show confirmation unless --force
	if !force {
		fmt.Fprintf(out, "This will delete %d files (%s). Continue? [y/N] ", len(targets), formatSize(totalSize))

		reader := bufio.NewReader(cmd.InOrStdin())
		response, _ := reader.ReadString('\n')
		response = strings.TrimSpace(strings.ToLower(response))

		if response != "y" && response != "yes" {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}
	}

	for _, path := range targets {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
		opts.logger.Debug("removed file", "path", path)
	}

	fmt.Fprintln(out, "Todo data has been removed.")
	return nil
}

func formatSize(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
	)
	switch {
	case bytes >= MB:
		return fmt.Sprintf("%.1fMB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.1fKB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%dB", bytes)
	}
}
