package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pablasso/todo/internal/backend"
	"github.com/pablasso/todo/internal/config"
	"github.com/pablasso/todo/internal/task"
	"github.com/pablasso/todo/internal/tui"
	"github.com/pablasso/todo/internal/version"
	"github.com/spf13/cobra"
)

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	configPath string
	backend    string
	file       string
	database   string
	verbose    bool

	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "todo",
		Short: "Single-user task list manager",
		Long: `Todo keeps a list of tasks on disk. Run without a command to open the interactive list,
or use the subcommands to manage tasks from scripts.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version.Version, version.CommitSHA, version.BuildDate),
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withStore(func(store task.Store) error {
				return tui.Run(store)
			})
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setupLogging(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Config file (default $TODO_PATH/config.yaml)")
	flags.StringVar(&opts.backend, "backend", "", "Storage backend: memory|json|sqlite")
	flags.StringVar(&opts.file, "file", "", "JSON task file for the json backend")
	flags.StringVar(&opts.database, "db", "", "SQLite database for the sqlite backend")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(
		newInitCmd(opts),
		newDeinitCmd(opts),
		newAddCmd(opts),
		newListCmd(opts),
		newShowCmd(opts),
		newUpdateCmd(opts),
		newDeleteCmd(opts),
		newDoneCmd(opts),
		newUndoCmd(opts),
		newStatsCmd(opts),
	)

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}

// setupLogging installs a text handler on stderr at the configured level.
func (o *rootOptions) setupLogging(cmd *cobra.Command) error {
	level := slog.LevelWarn
	if cfg, err := o.loadConfig(); err == nil {
		level = cfg.Level()
	}
	if o.verbose {
		level = slog.LevelDebug
	}

	o.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	slog.SetDefault(o.logger)
	return nil
}

// resolvedConfigPath returns --config or the default config location.
func (o *rootOptions) resolvedConfigPath() string {
	if o.configPath != "" {
		return o.configPath
	}
	return config.ConfigPath()
}

// loadConfig reads the config file and applies flag overrides.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.resolvedConfigPath())
	if err != nil {
		return nil, err
	}

	if o.backend != "" {
		cfg.Backend = strings.ToLower(o.backend)
	}
	if o.file != "" {
		cfg.File = o.file
	}
	if o.database != "" {
		cfg.Database = o.database
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// withStore opens the configured store, runs fn and closes the store.
func (o *rootOptions) withStore(fn func(store task.Store) error) (err error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return err
	}

	h, err := backend.Open(cfg, o.logger)
	if err != nil {
		if errors.Is(err, task.ErrLocked) {
			return fmt.Errorf("%w: another todo process is using %s", err, cfg.File)
		}
		return err
	}
	defer func() {
		if closeErr := h.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	return fn(h.Store)
}
