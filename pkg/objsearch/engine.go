package objsearch

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Aman-CERP/objsearch/internal/compose"
	"github.com/Aman-CERP/objsearch/internal/content"
	"github.com/Aman-CERP/objsearch/internal/errors"
	"github.com/Aman-CERP/objsearch/internal/identity"
	"github.com/Aman-CERP/objsearch/internal/index"
	"github.com/Aman-CERP/objsearch/internal/store"
	"github.com/Aman-CERP/objsearch/pkg/document"
)

// Engine indexes Go values and searches them.
//
// Mutations (Add, Update, Remove) are serialized by one lock held for the
// whole build, write and publish sequence. Searches never take that lock:
// they run against the most recently published view, an immutable snapshot
// of the index together with the objects it refers to.
//
// Engine is safe for concurrent use.
type Engine struct {
	mu       sync.Mutex
	index    store.Index
	registry *identity.Registry
	builder  *document.Builder
	composer *compose.Composer
	logger   *slog.Logger
	closed   atomic.Bool

	view atomic.Pointer[view]
}

// view is what searches read: a reader snapshot and the objects its
// documents resolve to, taken together under the engine lock.
type view struct {
	reader  store.Reader
	objects identity.Snapshot
	docs    int
	version uint64
}

// New creates an empty in-memory engine.
func New(opts ...Option) (*Engine, error) {
	o := engineOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	enc := o.encoder
	if enc == nil {
		var err error
		enc, err = content.New(o.contentFormat)
		if err != nil {
			return nil, errors.New(errors.ErrCodeInvalidArgument, err.Error(), err)
		}
	}

	cfg := store.DefaultConfig()
	if o.analyzer != "" {
		switch o.analyzer {
		case store.AnalyzerStandard, store.AnalyzerCode:
			cfg.Analyzer = o.analyzer
		default:
			return nil, errors.InvalidArgument("unknown analyzer %q (expected %s or %s)",
				o.analyzer, store.AnalyzerStandard, store.AnalyzerCode)
		}
	}

	var idx store.Index = o.index
	if idx == nil {
		bleveIdx, err := store.NewBleveIndex(cfg)
		if err != nil {
			return nil, errors.New(errors.ErrCodeIndexFailed, "failed to create index", err)
		}
		idx = bleveIdx
	}

	return &Engine{
		index:    idx,
		registry: identity.New(),
		builder:  document.NewBuilder(enc, document.WithRejector(rejectResultSet)),
		composer: compose.New(idx, o.queryCacheSize),
		logger:   o.logger,
	}, nil
}

// Add indexes objs in one batch and publishes a new view.
//
// Every object must be comparable: pointers are identified by address,
// other values by equality. An object that is already indexed, or appears
// twice in objs, fails with ErrInvalidArgument. On any error nothing is
// indexed. An empty batch is a no-op.
func (e *Engine) Add(ctx context.Context, objs []any, opts ...AddOption) error {
	ao := applyAddOptions(opts)

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.checkOpen(); err != nil {
		return err
	}
	if len(objs) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	ids := make([]string, len(objs))
	docs := make([]*store.Document, len(objs))
	batch := make(map[any]struct{}, len(objs))

	for i, obj := range objs {
		if err := e.checkObject(obj); err != nil {
			return err
		}
		if _, dup := batch[obj]; dup {
			return errors.InvalidArgument("object of type %T appears twice in the batch", obj)
		}
		if e.registry.Contains(obj) {
			return errors.InvalidArgument("object of type %T is already indexed", obj)
		}
		batch[obj] = struct{}{}

		ids[i] = identity.NewID()
		doc, err := e.build(ids[i], obj, ao)
		if err != nil {
			return err
		}
		docs[i] = doc
	}

	err := e.write(func(w store.Writer) error {
		return w.AddDocuments(docs)
	})
	if err != nil {
		return err
	}

	for i, obj := range objs {
		if err := e.registry.Record(ids[i], obj); err != nil {
			return errors.New(errors.ErrCodeInternalConsistency, "registry rejected a committed object", err)
		}
	}

	if err := e.publish(); err != nil {
		return err
	}

	e.logger.Debug("objects_added",
		slog.Int("count", len(objs)),
		slog.Int("total", e.registry.Len()),
		slog.Duration("duration", time.Since(start)))
	return nil
}

// Update re-derives the documents of previously added objects under their
// existing ids. Any object that was never added fails with ErrNotFound
// before anything is written.
func (e *Engine) Update(ctx context.Context, objs []any, opts ...AddOption) error {
	ao := applyAddOptions(opts)

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.checkOpen(); err != nil {
		return err
	}
	if len(objs) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	ids, err := e.ownerIDs(objs, false)
	if err != nil {
		return err
	}

	docs := make([]*store.Document, len(objs))
	for i, obj := range objs {
		doc, err := e.build(ids[i], obj, ao)
		if err != nil {
			return err
		}
		docs[i] = doc
	}

	err = e.write(func(w store.Writer) error {
		for i, doc := range docs {
			if err := w.UpdateDocument(ids[i], doc); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := e.publish(); err != nil {
		return err
	}

	e.logger.Debug("objects_updated", slog.Int("count", len(objs)))
	return nil
}

// Remove deletes previously added objects. Any object that was never added
// fails with ErrNotFound before anything is written. Repeats within objs
// are removed once.
func (e *Engine) Remove(ctx context.Context, objs []any) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.checkOpen(); err != nil {
		return err
	}
	if len(objs) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	ids, err := e.ownerIDs(objs, true)
	if err != nil {
		return err
	}

	err = e.write(func(w store.Writer) error {
		return w.DeleteDocuments(ids)
	})
	if err != nil {
		return err
	}

	for _, id := range ids {
		if err := e.registry.Release(id); err != nil {
			return errors.New(errors.ErrCodeInternalConsistency, "registry lost a committed object", err)
		}
	}

	if err := e.publish(); err != nil {
		return err
	}

	e.logger.Debug("objects_removed",
		slog.Int("count", len(ids)),
		slog.Int("total", e.registry.Len()))
	return nil
}

// AddAll is Add for a slice of one type.
func AddAll[T any](ctx context.Context, e *Engine, items []T, opts ...AddOption) error {
	return e.Add(ctx, toAny(items), opts...)
}

// UpdateAll is Update for a slice of one type.
func UpdateAll[T any](ctx context.Context, e *Engine, items []T, opts ...AddOption) error {
	return e.Update(ctx, toAny(items), opts...)
}

// RemoveAll is Remove for a slice of one type.
func RemoveAll[T any](ctx context.Context, e *Engine, items []T) error {
	return e.Remove(ctx, toAny(items))
}

// Resolve returns the object indexed under id.
func (e *Engine) Resolve(id string) (any, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.checkOpen(); err != nil {
		return nil, err
	}
	return e.registry.Resolve(id)
}

// IDOf returns the id of an indexed object.
func (e *Engine) IDOf(obj any) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.checkOpen(); err != nil {
		return "", err
	}
	return e.registry.OwnerID(obj)
}

// Len returns the number of indexed objects.
func (e *Engine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.registry.Len()
}

// Stats describes an engine at one point in time.
type Stats struct {
	// Objects is the number of registered objects.
	Objects int
	// Documents is the number of documents in the published view.
	Documents int
	// Version counts published views; zero means nothing was published yet.
	Version uint64
	// CachedQueries is the number of parsed queries in the query cache.
	CachedQueries int
	// ContentFormat names the encoder used for derived content.
	ContentFormat string
}

// Stats returns current engine statistics.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := Stats{
		Objects:       e.registry.Len(),
		CachedQueries: e.composer.CacheLen(),
		ContentFormat: e.builder.Encoder().Name(),
	}
	if v := e.view.Load(); v != nil {
		s.Documents = v.docs
		s.Version = v.version
	}
	return s
}

// Check compares the registry with the published view and the index.
// A healthy engine reports no inconsistencies.
func (e *Engine) Check(ctx context.Context) (*index.CheckResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.checkOpen(); err != nil {
		return nil, err
	}

	return e.checker().Check(ctx, e.publishedIDs())
}

// Repair deletes indexed documents that no registered object owns and
// publishes a fresh view. It returns the check that found them.
func (e *Engine) Repair(ctx context.Context) (*index.CheckResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.checkOpen(); err != nil {
		return nil, err
	}

	checker := e.checker()
	result, err := checker.Check(ctx, e.publishedIDs())
	if err != nil {
		return nil, err
	}
	deleted, err := checker.Repair(ctx, result.Inconsistencies)
	if err != nil {
		return nil, errors.New(errors.ErrCodeIndexFailed, "failed to delete orphan documents", err)
	}
	if deleted > 0 {
		if err := e.publish(); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (e *Engine) checker() *index.ConsistencyChecker {
	return index.NewConsistencyChecker(e.registry, e.index, e.logger)
}

func (e *Engine) publishedIDs() index.IDSet {
	if v := e.view.Load(); v != nil {
		return v.objects
	}
	return nil
}

// Close releases the index. Later calls fail with ErrInvalidState; results
// obtained earlier keep their values but can no longer be searched.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed.Swap(true) {
		return nil
	}

	var firstErr error
	if v := e.view.Swap(nil); v != nil {
		if err := v.reader.Close(); err != nil {
			firstErr = err
		}
	}
	if err := e.index.Close(); err != nil && firstErr == nil {
		firstErr = err
	}

	e.logger.Debug("engine_closed", slog.Int("objects", e.registry.Len()))
	return firstErr
}

func (e *Engine) checkOpen() error {
	if e.closed.Load() {
		return errors.InvalidState("engine is closed")
	}
	return nil
}

// checkObject rejects objects that cannot be identified.
func (e *Engine) checkObject(obj any) error {
	if obj == nil {
		return errors.InvalidArgument("object is nil")
	}
	if err := rejectResultSet(obj); err != nil {
		return err
	}
	if !identity.Comparable(obj) {
		return errors.InvalidArgument("object of type %T is not comparable; index a pointer to it instead", obj)
	}
	return nil
}

func (e *Engine) build(id string, obj any, ao addOptions) (*store.Document, error) {
	doc, err := e.builder.Build(id, obj, ao.fields, ao.content, kindOfObject(obj).Lineage())
	if err != nil {
		return nil, err
	}
	return doc.ToStore(), nil
}

// ownerIDs maps objs to their ids, failing before any write.
func (e *Engine) ownerIDs(objs []any, dedupe bool) ([]string, error) {
	ids := make([]string, 0, len(objs))
	seen := make(map[string]struct{}, len(objs))
	for _, obj := range objs {
		if err := e.checkObject(obj); err != nil {
			return nil, err
		}
		id, err := e.registry.OwnerID(obj)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[id]; dup {
			if dedupe {
				continue
			}
			return nil, errors.InvalidArgument("object of type %T appears twice in the batch", obj)
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

// write runs fn on a writer and commits. The writer is closed on every path,
// which discards the batch unless it was committed.
func (e *Engine) write(fn func(w store.Writer) error) error {
	w, err := e.index.OpenWriter()
	if err != nil {
		return errors.New(errors.ErrCodeIndexFailed, "failed to open index writer", err)
	}
	defer func() { _ = w.Close() }()

	if err := fn(w); err != nil {
		return errors.New(errors.ErrCodeIndexFailed, "failed to stage documents", err)
	}
	if err := w.Commit(); err != nil {
		return errors.New(errors.ErrCodeIndexFailed, "failed to commit documents", err)
	}
	return nil
}

// publish swaps in a view of the committed index state. Superseded readers
// stay open for results that still hold them.
func (e *Engine) publish() error {
	r, err := e.index.OpenReader()
	if err != nil {
		return errors.New(errors.ErrCodeIndexFailed, "failed to open index reader", err)
	}
	docs, err := r.DocCount()
	if err != nil {
		_ = r.Close()
		return errors.New(errors.ErrCodeIndexFailed, "failed to count documents", err)
	}

	next := &view{
		reader:  r,
		objects: e.registry.Snapshot(),
		docs:    docs,
	}
	if prev := e.view.Load(); prev != nil {
		next.version = prev.version + 1
	} else {
		next.version = 1
	}
	e.view.Store(next)
	return nil
}

// currentView returns the published view for a search.
func (e *Engine) currentView() (*view, error) {
	if err := e.checkOpen(); err != nil {
		return nil, err
	}
	v := e.view.Load()
	if v == nil {
		return nil, errors.InvalidState("nothing has been indexed yet")
	}
	return v, nil
}

func toAny[T any](items []T) []any {
	objs := make([]any, len(items))
	for i, item := range items {
		objs[i] = item
	}
	return objs
}

func errTypeMismatch[T any](obj any) error {
	return fmt.Errorf("object of type %T is not a %s", obj, reflect.TypeFor[T]())
}
