package objsearch

import (
	"context"
	"reflect"

	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/Aman-CERP/objsearch/internal/compose"
	"github.com/Aman-CERP/objsearch/internal/errors"
)

// resultSet marks values produced by a search. They can be searched within
// but never indexed or used as a search target type.
type resultSet interface {
	isResultSet()
}

var resultSetType = reflect.TypeFor[resultSet]()

// Result is one hit: the indexed object itself, not a copy.
type Result[T any] struct {
	// Score is the relevance score; higher is better.
	Score float64
	// Value is the object that was added.
	Value T
	// ID is the object's id in the engine.
	ID string
	// Kinds is the lineage the document was tagged with, most derived first.
	Kinds []string

	engine *Engine
}

// Engine returns the engine that produced the result.
func (r Result[T]) Engine() *Engine {
	return r.engine
}

func (Result[T]) isResultSet() {}

// Results is an ordered list of hits, highest score first. It remembers the
// view it was produced from, so Search on it runs against that same view
// and only the documents behind Items.
type Results[T any] struct {
	Items []Result[T]

	engine *Engine
	view   *view
}

func (Results[T]) isResultSet() {}

// Engine returns the engine that produced the results.
func (r *Results[T]) Engine() *Engine {
	return r.engine
}

// Len returns the number of hits.
func (r *Results[T]) Len() int {
	return len(r.Items)
}

// Values returns the hit objects in order.
func (r *Results[T]) Values() []T {
	values := make([]T, len(r.Items))
	for i, item := range r.Items {
		values[i] = item.Value
	}
	return values
}

// IDs returns the hit ids in order.
func (r *Results[T]) IDs() []string {
	ids := make([]string, len(r.Items))
	for i, item := range r.Items {
		ids[i] = item.ID
	}
	return ids
}

// Search runs text against the documents behind r only.
func (r *Results[T]) Search(ctx context.Context, text string, limit int) (*Results[T], error) {
	return Within[T](ctx, r, text, limit)
}

// SearchQuery runs q against the documents behind r only.
func (r *Results[T]) SearchQuery(ctx context.Context, q query.Query, limit int) (*Results[T], error) {
	return WithinQuery[T](ctx, r, q, limit)
}

// Within runs a chained search inside r, returning hits of type U. The
// search reuses r's view, so objects added after r was produced are not
// visible.
func Within[U, T any](ctx context.Context, r *Results[T], text string, limit int) (*Results[U], error) {
	kind, err := targetKind[U]()
	if err != nil {
		return nil, err
	}
	if err := r.searchable(); err != nil {
		return nil, err
	}
	q, err := r.engine.composer.Text(text, chainedKind[U, T](kind))
	if err != nil {
		return nil, err
	}
	return project[U](ctx, r.engine, r.view, compose.Within(r.IDs(), q), limit, len(r.Items))
}

// WithinQuery is Within with a caller-built query.
func WithinQuery[U, T any](ctx context.Context, r *Results[T], q query.Query, limit int) (*Results[U], error) {
	kind, err := targetKind[U]()
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, errors.InvalidArgument("query is nil")
	}
	if err := r.searchable(); err != nil {
		return nil, err
	}
	q = r.engine.composer.Query(q, chainedKind[U, T](kind))
	return project[U](ctx, r.engine, r.view, compose.Within(r.IDs(), q), limit, len(r.Items))
}

// chainedKind drops the kind filter when U is T: every document behind the
// results already is one.
func chainedKind[U, T any](kind *Kind) string {
	if reflect.TypeFor[U]() == reflect.TypeFor[T]() {
		return ""
	}
	return kind.Name()
}

func (r *Results[T]) searchable() error {
	if r == nil || r.engine == nil {
		return errors.InvalidArgument("results do not belong to an engine")
	}
	return r.engine.checkOpen()
}

// rejectResultSet keeps results out of the index; chained searches go
// through Results.Search instead.
func rejectResultSet(obj any) error {
	if _, ok := obj.(resultSet); ok {
		return errors.InvalidArgument("%T is a search result; use its Search method instead of indexing it", obj).
			WithSuggestion("Call results.Search to query within an existing result set")
	}
	if isResultSetType(reflect.TypeOf(obj)) {
		return errors.InvalidArgument("%T holds search results and cannot be indexed", obj)
	}
	return nil
}

// isResultSetType also catches pointers to results and slices of hits.
func isResultSetType(t reflect.Type) bool {
	for t != nil {
		if t.Implements(resultSetType) {
			return true
		}
		switch t.Kind() {
		case reflect.Pointer, reflect.Slice, reflect.Array:
			t = t.Elem()
		default:
			return false
		}
	}
	return false
}
