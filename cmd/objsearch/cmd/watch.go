package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/objsearch/internal/output"
	"github.com/Aman-CERP/objsearch/internal/records"
	"github.com/Aman-CERP/objsearch/internal/watcher"
)

func newWatchCmd() *cobra.Command {
	var flags queryFlags

	cmd := &cobra.Command{
		Use:   "watch -q QUERY [flags] DIR",
		Short: "Re-run a query whenever record files change",
		Long: `Index every record file under DIR, print the matches, then keep the index
in step with the directory and print the matches again after each change.
Stop with Ctrl-C.`,
		Example: `  objsearch watch -q "status:open" ./tickets`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.query == "" {
				return fmt.Errorf("--query is required")
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx, cmd, flags, args[0])
		},
	}

	cmd.Flags().StringVarP(&flags.query, "query", "q", "", "Query string")
	cmd.Flags().StringVar(&flags.kind, "kind", "", "Only records whose kind key has this value")
	cmd.Flags().StringSliceVar(&flags.fields, "field", nil, "Index only these record fields by name (repeatable)")
	cmd.Flags().IntVarP(&flags.limit, "limit", "n", -1, "Maximum hits, 0 for all (default from config)")
	cmd.Flags().BoolVar(&flags.json, "json", false, "Output hits as JSON")

	return cmd
}

func runWatch(ctx context.Context, cmd *cobra.Command, flags queryFlags, dir string) error {
	out := output.New(cmd.OutOrStdout())

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	debounce, err := cfg.DebounceDuration()
	if err != nil {
		return err
	}

	root, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", dir, err)
	}
	paths, err := records.Discover(root, cfg.Watch.Extensions)
	if err != nil {
		return fmt.Errorf("scan %s: %w", dir, err)
	}

	s, err := openSession(cfg, flags.fields)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.syncer.Load(ctx, paths); err != nil {
		return err
	}

	w, err := watcher.New(watcher.Options{
		Debounce:   debounce,
		Extensions: cfg.Watch.Extensions,
		Logger:     slog.Default(),
	})
	if err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()

	started := make(chan error, 1)
	go func() { started <- w.Start(ctx, root) }()

	limit := s.limit(flags.limit)
	show := func(header string) error {
		results, err := s.query(ctx, flags.query, flags.kind, limit)
		if err != nil {
			return err
		}
		if !flags.json {
			out.Header(header)
		}
		return render(out, flags, results)
	}

	if err := show(fmt.Sprintf("%d records in %d files", s.syncer.Catalog().Len(), len(paths))); err != nil {
		return err
	}

	errs := w.Errors()
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-started:
			if err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			out.Warningf("watch: %v", err)
		case batch, ok := <-w.Events():
			if !ok {
				return nil
			}
			if err := s.syncer.Apply(ctx, batch); err != nil {
				out.Warningf("%v", err)
			}
			header := fmt.Sprintf("%s  %d changed, %d records",
				time.Now().Format("15:04:05"), len(batch), s.syncer.Catalog().Len())
			if err := show(header); err != nil {
				out.Error(err.Error())
			}
		}
	}
}
