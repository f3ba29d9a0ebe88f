package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"regexp"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/objsearch/internal/logging"
	"github.com/Aman-CERP/objsearch/internal/output"
)

func newLogsCmd() *cobra.Command {
	var (
		lines   int
		level   string
		pattern string
		file    string
		follow  bool
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "View debug logs",
		Long:  `Print recent entries from the log written by --debug runs.`,
		Example: `  objsearch logs -n 100 --level warn
  objsearch logs --grep search_ -f`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := logging.FindLogFile(file)
			if err != nil {
				return err
			}

			cfg := logging.ViewerConfig{Level: level, NoColor: !output.IsTTY(cmd.OutOrStdout()) || output.DetectNoColor()}
			if pattern != "" {
				if cfg.Pattern, err = regexp.Compile(pattern); err != nil {
					return fmt.Errorf("invalid --grep pattern: %w", err)
				}
			}

			viewer := logging.NewViewer(cfg, cmd.OutOrStdout())
			entries, err := viewer.Tail(path, lines)
			if err != nil {
				return err
			}
			viewer.Print(entries)

			if !follow {
				return nil
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return viewer.Follow(ctx, path)
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of trailing lines to read")
	cmd.Flags().StringVar(&level, "level", "", "Minimum level (debug, info, warn, error)")
	cmd.Flags().StringVar(&pattern, "grep", "", "Only lines matching this regular expression")
	cmd.Flags().StringVar(&file, "file", "", "Log file (default ~/.objsearch/logs/objsearch.log)")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep printing new entries")

	return cmd
}
