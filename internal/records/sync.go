package records

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/Aman-CERP/objsearch/internal/content"
	"github.com/Aman-CERP/objsearch/internal/watcher"
	"github.com/Aman-CERP/objsearch/pkg/document"
	"github.com/Aman-CERP/objsearch/pkg/objsearch"
)

// IndexOptions builds the add options for records: every scalar field in
// fields (or every scalar field when fields is empty) becomes a text field,
// and content is rendered with enc.
func IndexOptions(enc content.Encoder, fields []string) []objsearch.AddOption {
	selected := make(map[string]bool, len(fields))
	for _, f := range fields {
		selected[f] = true
	}

	return []objsearch.AddOption{
		objsearch.FieldsOf(func(r *Record, doc *document.Document) error {
			names := make([]string, 0, len(r.Fields))
			for name := range r.Fields {
				if len(selected) > 0 && !selected[name] {
					continue
				}
				// Leading underscores are reserved for index fields.
				if strings.HasPrefix(name, "_") {
					continue
				}
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				if err := doc.AddText(name, r.Fields[name]); err != nil {
					return err
				}
			}
			return nil
		}),
		objsearch.WithContent(func(obj any) (string, error) {
			r, ok := obj.(*Record)
			if !ok {
				return "", fmt.Errorf("expected *records.Record, got %T", obj)
			}
			return r.Content(enc)
		}),
	}
}

// Catalog tracks which records were loaded from which file.
type Catalog struct {
	mu       sync.Mutex
	bySource map[string][]*Record
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{bySource: make(map[string][]*Record)}
}

// Replace sets the records of source and returns the previous ones.
func (c *Catalog) Replace(source string, recs []*Record) []*Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	prev := c.bySource[source]
	if len(recs) == 0 {
		delete(c.bySource, source)
	} else {
		c.bySource[source] = recs
	}
	return prev
}

// Drop forgets source and returns its records.
func (c *Catalog) Drop(source string) []*Record {
	return c.Replace(source, nil)
}

// Len returns the number of records across all sources.
func (c *Catalog) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, recs := range c.bySource {
		n += len(recs)
	}
	return n
}

// Sources returns the tracked files, sorted.
func (c *Catalog) Sources() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	sources := make([]string, 0, len(c.bySource))
	for s := range c.bySource {
		sources = append(sources, s)
	}
	sort.Strings(sources)
	return sources
}

// Syncer mirrors record files into an engine.
type Syncer struct {
	engine  *objsearch.Engine
	catalog *Catalog
	opts    []objsearch.AddOption
	logger  *slog.Logger
}

// NewSyncer creates a syncer adding records to e with opts.
func NewSyncer(e *objsearch.Engine, opts []objsearch.AddOption, logger *slog.Logger) *Syncer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Syncer{engine: e, catalog: NewCatalog(), opts: opts, logger: logger}
}

// Catalog returns the syncer's record catalog.
func (s *Syncer) Catalog() *Catalog {
	return s.catalog
}

// Load indexes paths, loaded concurrently, in a single batch.
func (s *Syncer) Load(ctx context.Context, paths []string) error {
	all, err := LoadFiles(ctx, paths)
	if err != nil {
		return err
	}
	if err := objsearch.AddAll(ctx, s.engine, all, s.opts...); err != nil {
		return err
	}

	bySource := make(map[string][]*Record)
	for _, r := range all {
		bySource[r.Source] = append(bySource[r.Source], r)
	}
	for source, recs := range bySource {
		s.catalog.Replace(source, recs)
	}
	s.logger.Info("records_loaded",
		slog.Int("files", len(paths)),
		slog.Int("records", len(all)))
	return nil
}

// Apply reloads created or modified files and drops deleted ones. A file
// that fails to load keeps its previous records and the error is returned
// after the rest of the batch is applied.
func (s *Syncer) Apply(ctx context.Context, batch []watcher.FileEvent) error {
	var firstErr error
	for _, event := range batch {
		var err error
		switch event.Operation {
		case watcher.OpDelete:
			err = s.drop(ctx, event.Path)
		default:
			err = s.reload(ctx, event.Path)
		}
		if err != nil {
			s.logger.Warn("records_sync_failed",
				slog.String("path", event.Path),
				slog.String("op", event.Operation.String()),
				slog.String("error", err.Error()))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (s *Syncer) reload(ctx context.Context, path string) error {
	recs, err := LoadFile(path)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		return s.drop(ctx, path)
	}

	// New records are fresh pointers, so they can sit next to the old ones
	// until the swap; a failed add leaves the file as it was.
	if err := objsearch.AddAll(ctx, s.engine, recs, s.opts...); err != nil {
		return err
	}
	prev := s.catalog.Replace(path, recs)
	if len(prev) > 0 {
		if err := objsearch.RemoveAll(ctx, s.engine, prev); err != nil {
			s.catalog.Replace(path, append(recs, prev...))
			return err
		}
	}
	s.logger.Debug("records_reloaded", slog.String("path", path), slog.Int("records", len(recs)))
	return nil
}

func (s *Syncer) drop(ctx context.Context, path string) error {
	prev := s.catalog.Drop(path)
	if len(prev) == 0 {
		return nil
	}
	if err := objsearch.RemoveAll(ctx, s.engine, prev); err != nil {
		s.catalog.Replace(path, prev)
		return err
	}
	return nil
}
