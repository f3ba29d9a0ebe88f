package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/objsearch/internal/output"
)

func newSearchCmd() *cobra.Command {
	var (
		flags  queryFlags
		within string
	)

	cmd := &cobra.Command{
		Use:   "search -q QUERY [flags] FILE|DIR...",
		Short: "Search record files",
		Long: `Load records from the given files and directories, index them in memory
and print the best matches.

Unqualified terms search the whole record; fields are addressed by name,
e.g. title:empires or +title:rome -year:2001.`,
		Example: `  # Search every record file under ./data
  objsearch search -q "great empires" ./data

  # Only records with kind: book, then narrow within the hits
  objsearch search -q empires --kind book --within rome books.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.query == "" {
				return fmt.Errorf("--query is required")
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			paths, err := expandPaths(args, cfg.Watch.Extensions)
			if err != nil {
				return err
			}

			s, err := openSession(cfg, flags.fields)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx := cmd.Context()
			if err := s.syncer.Load(ctx, paths); err != nil {
				return err
			}

			limit := s.limit(flags.limit)
			results, err := s.query(ctx, flags.query, flags.kind, limit)
			if err != nil {
				return err
			}
			if within != "" && results != nil {
				if results, err = results.Search(ctx, within, limit); err != nil {
					return err
				}
			}

			return render(output.New(cmd.OutOrStdout()), flags, results)
		},
	}

	cmd.Flags().StringVarP(&flags.query, "query", "q", "", "Query string")
	cmd.Flags().StringVar(&flags.kind, "kind", "", "Only records whose kind key has this value")
	cmd.Flags().StringSliceVar(&flags.fields, "field", nil, "Index only these record fields by name (repeatable)")
	cmd.Flags().IntVarP(&flags.limit, "limit", "n", -1, "Maximum hits, 0 for all (default from config)")
	cmd.Flags().StringVar(&within, "within", "", "Second query run within the first query's hits")
	cmd.Flags().BoolVar(&flags.json, "json", false, "Output hits as JSON")

	return cmd
}
