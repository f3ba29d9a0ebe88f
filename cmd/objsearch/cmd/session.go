package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/blevesearch/bleve/v2"

	"github.com/Aman-CERP/objsearch/internal/config"
	"github.com/Aman-CERP/objsearch/internal/content"
	"github.com/Aman-CERP/objsearch/internal/output"
	"github.com/Aman-CERP/objsearch/internal/records"
	"github.com/Aman-CERP/objsearch/pkg/objsearch"
)

// queryFlags are shared by search and watch.
type queryFlags struct {
	query  string
	kind   string
	fields []string
	limit  int
	json   bool
}

// session is an engine kept in step with a set of record files.
type session struct {
	cfg    *config.Config
	engine *objsearch.Engine
	syncer *records.Syncer
}

func openSession(cfg *config.Config, fields []string) (*session, error) {
	enc, err := content.New(cfg.Index.ContentFormat)
	if err != nil {
		return nil, err
	}

	e, err := objsearch.New(
		objsearch.WithLogger(slog.Default()),
		objsearch.WithAnalyzer(cfg.Index.Analyzer),
		objsearch.WithEncoder(enc),
		objsearch.WithQueryCacheSize(cfg.Search.QueryCacheSize),
	)
	if err != nil {
		return nil, err
	}

	return &session{
		cfg:    cfg,
		engine: e,
		syncer: records.NewSyncer(e, records.IndexOptions(enc, fields), slog.Default()),
	}, nil
}

func (s *session) Close() {
	_ = s.engine.Close()
}

// limit resolves a --limit flag: negative means the configured default.
func (s *session) limit(flag int) int {
	if flag < 0 {
		return s.cfg.Search.MaxResults
	}
	return flag
}

// query runs text, narrowed to a record kind when kind is set.
func (s *session) query(ctx context.Context, text, kind string, limit int) (*objsearch.Results[*records.Record], error) {
	if s.engine.Len() == 0 {
		return nil, nil
	}
	if kind == "" {
		return objsearch.Search[*records.Record](ctx, s.engine, text, limit)
	}

	parsed, err := s.engine.ParseQuery(text)
	if err != nil {
		return nil, err
	}
	q := bleve.NewConjunctionQuery(parsed, objsearch.KindQuery(records.KindNamed(kind)))
	return objsearch.SearchQuery[*records.Record](ctx, s.engine, q, limit)
}

// expandPaths turns arguments into absolute record file paths; directories
// contribute every record file beneath them.
func expandPaths(args, exts []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", arg, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("record source %s: %w", arg, err)
		}
		if !info.IsDir() {
			paths = append(paths, abs)
			continue
		}
		found, err := records.Discover(abs, exts)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", arg, err)
		}
		paths = append(paths, found...)
	}
	return paths, nil
}

// toHits converts results for rendering. A nil results is no hits.
func toHits(results *objsearch.Results[*records.Record]) []output.Hit {
	if results == nil {
		return nil
	}
	hits := make([]output.Hit, 0, results.Len())
	for i, item := range results.Items {
		r := item.Value
		text := r.Text
		if title, ok := r.Fields["title"]; ok && title != "" {
			text = title
		}
		hits = append(hits, output.Hit{
			Rank:   i + 1,
			Score:  item.Score,
			ID:     item.ID,
			Kinds:  item.Kinds,
			Source: fmt.Sprintf("%s:%d", filepath.Base(r.Source), r.Index+1),
			Text:   text,
		})
	}
	return hits
}

func render(out *output.Writer, flags queryFlags, results *objsearch.Results[*records.Record]) error {
	hits := toHits(results)
	if flags.json {
		if hits == nil {
			hits = []output.Hit{}
		}
		return out.JSON(hits)
	}
	out.Hits(hits)
	return nil
}
