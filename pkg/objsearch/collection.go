package objsearch

import (
	"context"

	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/Aman-CERP/objsearch/internal/errors"
)

// newSliceEngine creates the throwaway engine behind the slice searches.
var newSliceEngine = func() (*Engine, error) { return New() }

// SearchSlice indexes items in a new engine and searches them once. Equal
// items are indexed once. The results keep the engine, so they can be
// searched within; call Engine().Close when done with them.
//
// Items must be comparable. Result values cannot be passed back in; use
// Results.Search for that.
func SearchSlice[T any](ctx context.Context, items []T, text string, limit int, opts ...AddOption) (*Results[T], error) {
	return searchSlice[T](ctx, toAny(items), limit, opts, func(e *Engine) (query.Query, error) {
		return e.composer.Text(text, "")
	})
}

// SearchSliceQuery is SearchSlice with a caller-built bleve query.
func SearchSliceQuery[T any](ctx context.Context, items []T, q query.Query, limit int, opts ...AddOption) (*Results[T], error) {
	if q == nil {
		return nil, errors.InvalidArgument("query is nil")
	}
	return searchSlice[T](ctx, toAny(items), limit, opts, func(e *Engine) (query.Query, error) {
		return e.composer.Query(q, ""), nil
	})
}

// SearchOfType is SearchSlice over a mixed slice: items that are not a T,
// nil included, are skipped before indexing.
func SearchOfType[T any](ctx context.Context, items []any, text string, limit int, opts ...AddOption) (*Results[T], error) {
	objs := make([]any, 0, len(items))
	for _, item := range items {
		if v, ok := item.(T); ok {
			objs = append(objs, v)
		}
	}
	return searchSlice[T](ctx, objs, limit, opts, func(e *Engine) (query.Query, error) {
		return e.composer.Text(text, "")
	})
}

// searchSlice owns the engine it creates until results are returned; on any
// error it closes it.
func searchSlice[T any](ctx context.Context, items []any, limit int, opts []AddOption,
	build func(e *Engine) (query.Query, error)) (_ *Results[T], err error) {
	if _, err := targetKind[T](); err != nil {
		return nil, err
	}

	e, err := newSliceEngine()
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = e.Close()
		}
	}()

	objs := make([]any, 0, len(items))
	seen := make(map[any]struct{}, len(items))
	for _, obj := range items {
		if err := e.checkObject(obj); err != nil {
			return nil, err
		}
		if _, dup := seen[obj]; dup {
			continue
		}
		seen[obj] = struct{}{}
		objs = append(objs, obj)
	}

	if len(objs) == 0 {
		return &Results[T]{Items: []Result[T]{}, engine: e}, nil
	}
	if err := e.Add(ctx, objs, opts...); err != nil {
		return nil, err
	}

	v, err := e.currentView()
	if err != nil {
		return nil, err
	}
	// Every document is a T, so no kind filter is needed; interface T
	// matches items of any dynamic type.
	q, err := build(e)
	if err != nil {
		return nil, err
	}
	return project[T](ctx, e, v, q, limit, v.docs)
}
