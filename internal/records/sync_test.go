package records

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/objsearch/internal/content"
	"github.com/Aman-CERP/objsearch/internal/logging"
	"github.com/Aman-CERP/objsearch/internal/watcher"
	"github.com/Aman-CERP/objsearch/pkg/objsearch"
)

func mustEncoder(t *testing.T) content.Encoder {
	t.Helper()
	enc, err := content.New(content.FormatJSON)
	require.NoError(t, err)
	return enc
}

func and(qs ...query.Query) query.Query {
	return query.NewConjunctionQuery(qs)
}

func newSyncer(t *testing.T) (*Syncer, *objsearch.Engine) {
	t.Helper()
	e, err := objsearch.New(objsearch.WithLogger(logging.Discard()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })
	return NewSyncer(e, IndexOptions(mustEncoder(t), nil), logging.Discard()), e
}

func texts(t *testing.T, e *objsearch.Engine, q string) []string {
	t.Helper()
	results, err := objsearch.Search[*Record](context.Background(), e, q, 0)
	require.NoError(t, err)
	var out []string
	for _, r := range results.Values() {
		out = append(out, r.Text)
	}
	return out
}

func TestSyncer_LoadThenApply(t *testing.T) {
	// Given: a syncer loaded with two files
	ctx := context.Background()
	dir := t.TempDir()
	a := write(t, dir, "a.txt", "red apple\ngreen pear\n")
	b := write(t, dir, "b.txt", "red car\n")
	s, e := newSyncer(t)
	require.NoError(t, s.Load(ctx, []string{a, b}))
	assert.ElementsMatch(t, []string{"red apple", "red car"}, texts(t, e, "red"))
	assert.Equal(t, 3, s.Catalog().Len())

	// When: a is rewritten and b is deleted
	require.NoError(t, os.WriteFile(a, []byte("blue apple\n"), 0o644))
	require.NoError(t, os.Remove(b))
	require.NoError(t, s.Apply(ctx, []watcher.FileEvent{
		{Path: a, Operation: watcher.OpModify},
		{Path: b, Operation: watcher.OpDelete},
	}))

	// Then: the engine reflects the files
	assert.Empty(t, texts(t, e, "red"))
	assert.Equal(t, []string{"blue apple"}, texts(t, e, "apple"))
	assert.Equal(t, 1, e.Len())
	assert.Equal(t, []string{a}, s.Catalog().Sources())
}

func TestSyncer_ApplyCreate(t *testing.T) {
	// Given: an empty syncer
	ctx := context.Background()
	s, e := newSyncer(t)

	// When: a new file appears
	c := write(t, t.TempDir(), "c.yaml", "title: fresh start\n")
	require.NoError(t, s.Apply(ctx, []watcher.FileEvent{{Path: c, Operation: watcher.OpCreate}}))

	// Then: its record is searchable
	results, err := objsearch.Search[*Record](ctx, e, "title:fresh", 0)
	require.NoError(t, err)
	require.Equal(t, 1, results.Len())
	assert.Equal(t, c, results.Items[0].Value.Source)
}

func TestSyncer_BadReloadKeepsPreviousRecords(t *testing.T) {
	// Given: a loaded JSON file
	ctx := context.Background()
	path := write(t, t.TempDir(), "d.json", `[{"title":"stable"}]`)
	s, e := newSyncer(t)
	require.NoError(t, s.Load(ctx, []string{path}))

	// When: it is overwritten with broken JSON
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))
	err := s.Apply(ctx, []watcher.FileEvent{{Path: path, Operation: watcher.OpModify}})

	// Then: the error is reported and the old record stays
	require.Error(t, err)
	assert.Equal(t, 1, e.Len())
	assert.Len(t, texts(t, e, "stable"), 1)
}

// pickyEncoder refuses to encode records mentioning "poison".
type pickyEncoder struct{ content.Encoder }

func (p pickyEncoder) Encode(obj any) (string, error) {
	text, err := p.Encoder.Encode(obj)
	if err != nil {
		return "", err
	}
	if strings.Contains(text, "poison") {
		return "", fmt.Errorf("cannot encode %q", text)
	}
	return text, nil
}

func TestSyncer_FailedIndexKeepsPreviousRecords(t *testing.T) {
	// Given: a loaded file and an encoder that rejects some content
	ctx := context.Background()
	path := write(t, t.TempDir(), "e.json", `[{"title":"steady"}]`)
	e, err := objsearch.New(objsearch.WithLogger(logging.Discard()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })
	s := NewSyncer(e, IndexOptions(pickyEncoder{mustEncoder(t)}, nil), logging.Discard())
	require.NoError(t, s.Load(ctx, []string{path}))

	// When: the file is rewritten with records that cannot be indexed
	require.NoError(t, os.WriteFile(path, []byte(`[{"title":"poison"},{"title":"fine"}]`), 0o644))
	err = s.Apply(ctx, []watcher.FileEvent{{Path: path, Operation: watcher.OpModify}})

	// Then: the old record stays indexed and catalogued
	require.Error(t, err)
	assert.Equal(t, 1, e.Len())
	assert.Len(t, texts(t, e, "steady"), 1)
	assert.Equal(t, []string{path}, s.Catalog().Sources())

	// When: the file is deleted
	require.NoError(t, s.Apply(ctx, []watcher.FileEvent{{Path: path, Operation: watcher.OpDelete}}))

	// Then: the old record goes with it
	assert.Equal(t, 0, e.Len())
}

func TestSyncer_DeleteUnknownFileIsNoop(t *testing.T) {
	s, e := newSyncer(t)

	err := s.Apply(context.Background(), []watcher.FileEvent{
		{Path: filepath.Join(t.TempDir(), "never.txt"), Operation: watcher.OpDelete},
	})

	require.NoError(t, err)
	assert.Equal(t, 0, e.Len())
}

func TestCatalog_ReplaceAndDrop(t *testing.T) {
	// Given: a catalog with one source
	c := NewCatalog()
	first := []*Record{{Text: "one"}}
	assert.Nil(t, c.Replace("x", first))

	// When: replacing and dropping
	prev := c.Replace("x", []*Record{{Text: "two"}, {Text: "three"}})
	assert.Equal(t, first, prev)
	assert.Equal(t, 2, c.Len())
	dropped := c.Drop("x")

	// Then: the catalog is empty again
	assert.Len(t, dropped, 2)
	assert.Equal(t, 0, c.Len())
	assert.Empty(t, c.Sources())
}
