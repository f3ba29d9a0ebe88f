package objsearch

import (
	"context"
	"log/slog"
	"reflect"
	"time"

	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/Aman-CERP/objsearch/internal/errors"
	"github.com/Aman-CERP/objsearch/internal/store"
)

// Search runs query-string text against the content field and returns at
// most limit hits of type T, highest score first. A limit of zero or less
// returns every hit.
//
// Unless T is any, only objects whose lineage includes KindOf[T]() match.
// A concrete type satisfies an interface kind only when declared with Extend.
//
// Returns ErrInvalidState if nothing was ever added or the engine is
// closed, and ErrInvalidArgument if T is a result type or text does not
// parse.
func Search[T any](ctx context.Context, e *Engine, text string, limit int) (*Results[T], error) {
	kind, err := targetKind[T]()
	if err != nil {
		return nil, err
	}
	v, err := e.currentView()
	if err != nil {
		return nil, err
	}
	q, err := e.composer.Text(text, kind.Name())
	if err != nil {
		return nil, err
	}
	return project[T](ctx, e, v, q, limit, v.docs)
}

// SearchQuery is Search with a caller-built bleve query. Field names are
// the ones added by field callbacks plus content and _type.
func SearchQuery[T any](ctx context.Context, e *Engine, q query.Query, limit int) (*Results[T], error) {
	kind, err := targetKind[T]()
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, errors.InvalidArgument("query is nil")
	}
	v, err := e.currentView()
	if err != nil {
		return nil, err
	}
	return project[T](ctx, e, v, e.composer.Query(q, kind.Name()), limit, v.docs)
}

// targetKind returns the kind filter for T; nil means no filter.
func targetKind[T any]() (*Kind, error) {
	if isResultSetType(reflect.TypeFor[T]()) {
		return nil, errors.InvalidArgument("cannot search for %s; search within the results instead", reflect.TypeFor[T]())
	}
	return KindOf[T](), nil
}

// project runs q against v and resolves each hit to its object. bound is
// how many documents can match at most.
func project[T any](ctx context.Context, e *Engine, v *view, q query.Query, limit, bound int) (*Results[T], error) {
	results := &Results[T]{engine: e, view: v}
	if limit <= 0 || limit > bound {
		limit = bound
	}
	if v == nil || limit == 0 {
		results.Items = []Result[T]{}
		return results, nil
	}

	start := time.Now()
	hits, err := v.reader.Search(ctx, q, limit)
	if err != nil {
		return nil, errors.New(errors.ErrCodeSearchFailed, "search failed", err)
	}

	results.Items = make([]Result[T], 0, len(hits))
	for _, hit := range hits {
		item, err := resolveHit[T](v, hit)
		if err != nil {
			e.logger.Error("search_inconsistent",
				slog.String("id", hit.ID),
				slog.Uint64("view", v.version),
				slog.String("error", err.Error()))
			return nil, err
		}
		item.engine = e
		results.Items = append(results.Items, item)
	}

	e.logger.Debug("search_completed",
		slog.Int("hits", len(results.Items)),
		slog.Int("limit", limit),
		slog.Uint64("view", v.version),
		slog.Duration("duration", time.Since(start)))
	return results, nil
}

func resolveHit[T any](v *view, hit store.Hit) (Result[T], error) {
	obj, ok := v.objects.Resolve(hit.ID)
	if !ok {
		return Result[T]{}, errors.InternalConsistency("hit %s does not resolve to an indexed object", hit.ID)
	}
	value, ok := obj.(T)
	if !ok {
		return Result[T]{}, errors.InternalConsistency("hit %s is a %T, not a %s", hit.ID, obj, reflect.TypeFor[T]())
	}

	fields, err := v.reader.Fetch(hit.ID)
	if err != nil {
		return Result[T]{}, errors.New(errors.ErrCodeSearchFailed, "failed to load stored fields", err)
	}

	return Result[T]{
		Score: hit.Score,
		Value: value,
		ID:    hit.ID,
		Kinds: fields[store.FieldType],
	}, nil
}
