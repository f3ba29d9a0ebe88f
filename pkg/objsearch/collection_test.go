package objsearch

import (
	"context"
	"testing"

	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/objsearch/pkg/document"
)

func TestSearchSlice_Strings(t *testing.T) {
	// Given: a plain slice of sentences
	ctx := context.Background()

	// When: searching it directly
	results, err := SearchSlice(ctx, sentences, "french", 0)
	require.NoError(t, err)
	defer func() { _ = results.Engine().Close() }()

	// Then: the matching sentence is returned
	require.Equal(t, 1, results.Len())
	assert.Equal(t, "Mastering the art of French cooking with step-by-step recipes.", results.Items[0].Value)
}

func TestSearchSlice_CustomContent(t *testing.T) {
	ctx := context.Background()
	records := newRecords()

	results, err := SearchSlice(ctx, records, "great empires", 0, ContentOf(titleContent))
	require.NoError(t, err)
	defer func() { _ = results.Engine().Close() }()

	require.Equal(t, 1, results.Len())
	assert.Same(t, find(records, "Empires"), results.Items[0].Value)
}

func TestSearchSlice_InterfaceElements(t *testing.T) {
	// Given: a heterogeneous slice
	ctx := context.Background()
	records := newRecords()
	items := []any{"Essentials of entrepreneurship: launching your first startup."}
	for _, r := range records {
		items = append(items, r)
	}

	// When: searching it
	results, err := SearchSlice(ctx, items, "entrepreneurship", 0)
	require.NoError(t, err)
	defer func() { _ = results.Engine().Close() }()

	// Then: both element types match, and chained search keeps working
	assert.Equal(t, 2, results.Len())
	chained, err := results.Search(ctx, "entrepreneurship", 0)
	require.NoError(t, err)
	assert.Equal(t, 2, chained.Len())
}

func TestSearchSlice_DuplicatesIndexedOnce(t *testing.T) {
	ctx := context.Background()

	results, err := SearchSlice(ctx, []string{"echo", "echo", "other"}, "echo", 0)
	require.NoError(t, err)
	defer func() { _ = results.Engine().Close() }()

	assert.Equal(t, []string{"echo"}, results.Values())
	assert.Equal(t, 2, results.Engine().Len())
}

func TestSearchSlice_Empty(t *testing.T) {
	ctx := context.Background()

	results, err := SearchSlice[string](ctx, nil, "anything", 0)
	require.NoError(t, err)
	defer func() { _ = results.Engine().Close() }()

	assert.Equal(t, 0, results.Len())
	chained, err := results.Search(ctx, "anything", 0)
	require.NoError(t, err)
	assert.Equal(t, 0, chained.Len())
}

func TestSearchSlice_RejectsResults(t *testing.T) {
	// Given: results of an earlier slice search
	ctx := context.Background()
	first, err := SearchSlice(ctx, sentences, "guide", 0)
	require.NoError(t, err)
	defer func() { _ = first.Engine().Close() }()

	// When/Then: feeding them back in fails
	_, err = SearchSlice(ctx, first.Items, "beginner's", 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = SearchSlice(ctx, []*Results[string]{first}, "beginner's", 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestSearchSlice_NotComparable(t *testing.T) {
	_, err := SearchSlice(context.Background(), [][]string{{"a"}}, "a", 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestSearchSliceQuery_CallerQuery(t *testing.T) {
	// Given: a field query built by the caller
	ctx := context.Background()
	records := newRecords()
	q := query.NewMatchQuery("coding")
	q.SetField("title")

	// When: searching the slice with it
	results, err := SearchSliceQuery(ctx, records, q, 0, FieldsOf(func(r *record, d *document.Document) error {
		return d.AddText("title", r.Title)
	}))
	require.NoError(t, err)
	defer func() { _ = results.Engine().Close() }()

	// Then: only the title match is returned
	require.Equal(t, 1, results.Len())
	assert.Same(t, find(records, "Coding"), results.Items[0].Value)

	_, err = SearchSliceQuery[*record](ctx, records, nil, 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestSearchOfType_SkipsOtherTypes(t *testing.T) {
	// Given: a mixed slice of strings, records, a number and a nil
	ctx := context.Background()
	records := newRecords()
	items := []any{"A guide to coding interviews", 42, nil}
	for _, r := range records {
		items = append(items, r)
	}

	// When: searching for records only
	results, err := SearchOfType[*record](ctx, items, "coding", 0)
	require.NoError(t, err)
	defer func() { _ = results.Engine().Close() }()

	// Then: the string never reached the index
	assert.Equal(t, len(records), results.Engine().Len())
	require.Equal(t, 1, results.Len())
	assert.Same(t, find(records, "Coding"), results.Items[0].Value)

	// When: searching for strings only
	strs, err := SearchOfType[string](ctx, items, "coding", 0)
	require.NoError(t, err)
	defer func() { _ = strs.Engine().Close() }()

	// Then: only the string is indexed and found
	assert.Equal(t, 1, strs.Engine().Len())
	assert.Equal(t, []string{"A guide to coding interviews"}, strs.Values())
}

func TestSearchSlice_ClosesEngineOnError(t *testing.T) {
	// Given: a way to see the engine behind the slice search
	var created []*Engine
	orig := newSliceEngine
	newSliceEngine = func() (*Engine, error) {
		e, err := orig()
		created = append(created, e)
		return e, err
	}
	t.Cleanup(func() { newSliceEngine = orig })
	ctx := context.Background()

	// When: the query does not parse, or an item cannot be indexed
	_, err := SearchSlice(ctx, []string{"a b"}, `"unclosed`, 0)
	assert.ErrorIs(t, err, ErrInvalidQuery)
	_, err = SearchSlice(ctx, []any{"ok", []int{1}}, "ok", 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	// Then: both engines were closed
	require.Len(t, created, 2)
	for _, e := range created {
		assert.True(t, e.closed.Load())
	}

	// When: the search succeeds
	results, err := SearchSlice(ctx, []string{"alpha beta"}, "alpha", 0)
	require.NoError(t, err)
	defer func() { _ = results.Engine().Close() }()

	// Then: its engine stays open for chained searches
	assert.False(t, created[2].closed.Load())
}
