// Package cmd provides the CLI commands for objsearch.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/objsearch/internal/config"
	"github.com/Aman-CERP/objsearch/internal/errors"
	"github.com/Aman-CERP/objsearch/internal/logging"
	"github.com/Aman-CERP/objsearch/pkg/version"
)

var (
	debugMode bool
	cliLogger *logging.Logger
)

// NewRootCmd creates the root command for the objsearch CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "objsearch",
		Short: "Full-text search over JSON, YAML and text records",
		Long: `objsearch indexes records from JSON, JSON Lines, YAML and plain text
files in memory and runs full-text queries over them.

Every record is indexed as an object: hits return the record itself, can be
narrowed by kind (the record's "kind" key) and searched again within.`,
		Version:       version.Short(),
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.SetVersionTemplate("objsearch version {{.Version}}\n")
	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging to ~/.objsearch/logs/")

	cmd.PersistentPreRunE = startLogging
	cmd.PersistentPostRunE = stopLogging

	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newWatchCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newLogsCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// startLogging routes slog to the rotating log file with --debug, and to
// stderr at log.level otherwise. A config that fails to load falls back to
// defaults here; commands report the error themselves.
func startLogging(cmd *cobra.Command, _ []string) error {
	settings := config.NewConfig()
	if loaded, err := loadConfig(); err == nil {
		settings = loaded
	}

	opts, err := logOptions(settings.Log, debugMode)
	if err != nil {
		return err
	}
	opts.Stderr = cmd.ErrOrStderr()

	logger, err := logging.New(opts)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	cliLogger = logger
	slog.SetDefault(logger.Logger)

	if debugMode {
		slog.Info("debug_logging_enabled",
			slog.String("log_file", logger.Path()),
			slog.String("version", version.Short()))
	}
	return nil
}

// logOptions maps the log section to logger options; debug switches to the
// log file at debug level.
func logOptions(cfg config.LogConfig, debug bool) (logging.Options, error) {
	if debug {
		return logging.Options{
			Level:     slog.LevelDebug,
			Sink:      logging.SinkFile,
			MaxSizeMB: cfg.MaxSizeMB,
			MaxFiles:  cfg.MaxFiles,
		}, nil
	}
	level, err := logging.ParseLevel(cfg.Level)
	if err != nil {
		return logging.Options{}, err
	}
	return logging.Options{Level: level, Sink: logging.SinkStderr}, nil
}

func stopLogging(_ *cobra.Command, _ []string) error {
	if cliLogger == nil {
		return nil
	}
	err := cliLogger.Close()
	cliLogger = nil
	return err
}

// Execute runs the root command and prints any error in CLI form.
func Execute() error {
	err := NewRootCmd().Execute()
	if err != nil {
		fmt.Fprint(os.Stderr, errors.FormatForCLI(err))
	}
	return err
}

// loadConfig loads configuration for the working directory.
func loadConfig() (*config.Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}
	return config.Load(cwd)
}
