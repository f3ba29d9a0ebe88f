package store

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/document"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search"
	"github.com/blevesearch/bleve/v2/search/collector"
	"github.com/blevesearch/bleve/v2/search/query"
	index "github.com/blevesearch/bleve_index_api"
)

const (
	// AnalyzerStandard is bleve's unicode tokenizer + lowercase + English stop words.
	AnalyzerStandard = "standard"

	// AnalyzerCode splits camelCase and snake_case identifiers before lowercasing.
	AnalyzerCode = "code"

	// CodeTokenizerName is the name of our custom code tokenizer.
	CodeTokenizerName = "code_tokenizer"

	// CodeAnalyzerName is the name of our custom code analyzer.
	CodeAnalyzerName = "code_analyzer"
)

// BleveIndex is an in-memory bleve index implementing Index.
type BleveIndex struct {
	mu      sync.RWMutex
	index   bleve.Index
	mapping mapping.IndexMapping
	text    analysis.Analyzer
	keyword analysis.Analyzer
	config  Config
	closed  bool

	// writing is held from OpenWriter until the writer is closed.
	writing sync.Mutex
}

// NewBleveIndex creates a new in-memory index.
func NewBleveIndex(config Config) (*BleveIndex, error) {
	if config.Analyzer == "" {
		config.Analyzer = AnalyzerStandard
	}
	if config.DefaultField == "" {
		config.DefaultField = FieldContent
	}

	indexMapping, err := createIndexMapping(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create index mapping: %w", err)
	}

	idx, err := bleve.NewMemOnly(indexMapping)
	if err != nil {
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	m := idx.Mapping()
	text := m.AnalyzerNamed(analyzerName(config.Analyzer))
	kw := m.AnalyzerNamed(keyword.Name)
	if text == nil || kw == nil {
		_ = idx.Close()
		return nil, fmt.Errorf("analyzer %q is not available", config.Analyzer)
	}

	return &BleveIndex{
		index:   idx,
		mapping: m,
		text:    text,
		keyword: kw,
		config:  config,
	}, nil
}

// analyzerName maps a config value to a registered analyzer.
func analyzerName(name string) string {
	switch strings.ToLower(name) {
	case AnalyzerCode:
		return CodeAnalyzerName
	default:
		return standard.Name
	}
}

// createIndexMapping creates the mapping used at query time. Documents are
// written pre-analyzed, so the mapping only has to agree with the analyzers
// the writer picks per field.
func createIndexMapping(config Config) (*mapping.IndexMappingImpl, error) {
	indexMapping := bleve.NewIndexMapping()

	err := indexMapping.AddCustomAnalyzer(CodeAnalyzerName, map[string]interface{}{
		"type":      custom.Name,
		"tokenizer": CodeTokenizerName,
		"token_filters": []string{
			lowercase.Name,
			en.StopName,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add custom analyzer: %w", err)
	}

	indexMapping.DefaultAnalyzer = analyzerName(config.Analyzer)
	indexMapping.DefaultField = config.DefaultField
	indexMapping.DefaultMapping.Dynamic = false

	// Query strings like `_type:Record` must not lowercase the tag.
	typeField := bleve.NewKeywordFieldMapping()
	typeField.Store = true
	indexMapping.DefaultMapping.AddFieldMappingsAt(FieldType, typeField)

	return indexMapping, nil
}

// OpenWriter acquires the index writer.
func (b *BleveIndex) OpenWriter() (Writer, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil, fmt.Errorf("index is closed")
	}
	if !b.writing.TryLock() {
		return nil, fmt.Errorf("a writer is already open")
	}

	return &bleveWriter{owner: b, batch: b.index.NewBatch()}, nil
}

// OpenReader returns a snapshot reader over the last committed batch.
func (b *BleveIndex) OpenReader() (Reader, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil, fmt.Errorf("index is closed")
	}

	adv, err := b.index.Advanced()
	if err != nil {
		return nil, fmt.Errorf("failed to access index: %w", err)
	}
	r, err := adv.Reader()
	if err != nil {
		return nil, fmt.Errorf("failed to open reader: %w", err)
	}

	return &bleveReader{reader: r, mapping: b.mapping}, nil
}

// ParseQuery parses bleve query-string syntax.
func (b *BleveIndex) ParseQuery(text string) (query.Query, error) {
	q, err := query.NewQueryStringQuery(text).Parse()
	if err != nil {
		return nil, fmt.Errorf("parse query %q: %w", text, err)
	}
	return q, nil
}

// Stats returns index statistics.
func (b *BleveIndex) Stats() *IndexStats {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return &IndexStats{}
	}

	docCount, _ := b.index.DocCount()
	return &IndexStats{DocumentCount: int(docCount)}
}

// Close closes the index.
func (b *BleveIndex) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}

	b.closed = true
	return b.index.Close()
}

// toBleveDocument analyzes each field with the analyzer its kind calls for.
func (b *BleveIndex) toBleveDocument(doc *Document) (*document.Document, error) {
	if doc == nil || doc.ID == "" {
		return nil, fmt.Errorf("document id is required")
	}

	bdoc := document.NewDocument(doc.ID)
	// Repeated names become array elements so stored values keep their order.
	seen := make(map[string]uint64, len(doc.Fields))
	for _, f := range doc.Fields {
		if f.Name == FieldID || f.Name == FieldAll {
			return nil, fmt.Errorf("document %s: field name %q is reserved", doc.ID, f.Name)
		}

		options := index.IndexField
		if f.Store {
			options |= index.StoreField
		}

		analyzer := b.text
		if f.Kind == FieldKeyword {
			analyzer = b.keyword
		} else {
			options |= index.IncludeTermVectors
		}

		var positions []uint64
		if n := seen[f.Name]; n > 0 || f.Name == FieldType {
			positions = []uint64{n}
		}
		seen[f.Name]++

		bdoc.AddField(document.NewTextFieldCustom(f.Name, positions, []byte(f.Value), options, analyzer))
	}
	return bdoc, nil
}

// Verify interface implementation
var _ Index = (*BleveIndex)(nil)

// bleveWriter stages operations in one bleve batch.
type bleveWriter struct {
	owner  *BleveIndex
	batch  *bleve.Batch
	closed bool
}

func (w *bleveWriter) AddDocuments(docs []*Document) error {
	if w.closed {
		return fmt.Errorf("writer is closed")
	}
	for _, doc := range docs {
		bdoc, err := w.owner.toBleveDocument(doc)
		if err != nil {
			return err
		}
		if err := w.batch.IndexAdvanced(bdoc); err != nil {
			return fmt.Errorf("failed to index document %s: %w", doc.ID, err)
		}
	}
	return nil
}

// UpdateDocument replaces by id; bleve overwrites a document indexed under an existing id.
func (w *bleveWriter) UpdateDocument(id string, doc *Document) error {
	if w.closed {
		return fmt.Errorf("writer is closed")
	}
	if doc == nil || doc.ID != id {
		return fmt.Errorf("update of %s carries a different document id", id)
	}
	bdoc, err := w.owner.toBleveDocument(doc)
	if err != nil {
		return err
	}
	if err := w.batch.IndexAdvanced(bdoc); err != nil {
		return fmt.Errorf("failed to update document %s: %w", id, err)
	}
	return nil
}

func (w *bleveWriter) DeleteDocuments(ids []string) error {
	if w.closed {
		return fmt.Errorf("writer is closed")
	}
	for _, id := range ids {
		w.batch.Delete(id)
	}
	return nil
}

func (w *bleveWriter) Commit() error {
	if w.closed {
		return fmt.Errorf("writer is closed")
	}
	if w.batch.Size() == 0 {
		return nil
	}

	w.owner.mu.RLock()
	defer w.owner.mu.RUnlock()
	if w.owner.closed {
		return fmt.Errorf("index is closed")
	}

	if err := w.owner.index.Batch(w.batch); err != nil {
		return fmt.Errorf("failed to execute batch: %w", err)
	}
	w.batch.Reset()
	return nil
}

func (w *bleveWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	w.batch.Reset()
	w.owner.writing.Unlock()
	return nil
}

// bleveReader searches one point-in-time index snapshot.
type bleveReader struct {
	reader  index.IndexReader
	mapping mapping.IndexMapping

	closeOnce sync.Once
	closeErr  error
}

// byScore orders hits by descending score; the collector breaks ties by
// internal document number.
var byScore = search.SortOrder{&search.SortScore{Desc: true}}

func (r *bleveReader) Search(ctx context.Context, q query.Query, limit int) ([]Hit, error) {
	if limit <= 0 {
		return []Hit{}, nil
	}

	searcher, err := q.Searcher(ctx, r.reader, r.mapping, search.SearcherOptions{})
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	defer func() { _ = searcher.Close() }()

	coll := collector.NewTopNCollector(limit, 0, byScore)
	if err := coll.Collect(ctx, searcher, r.reader); err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	matches := coll.Results()
	hits := make([]Hit, 0, len(matches))
	for _, m := range matches {
		hits = append(hits, Hit{ID: m.ID, Score: m.Score})
	}
	return hits, nil
}

func (r *bleveReader) Fetch(id string) (map[string][]string, error) {
	doc, err := r.reader.Document(id)
	if err != nil {
		return nil, fmt.Errorf("failed to load document %s: %w", id, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("document %s not found", id)
	}

	fields := make(map[string][]string)
	doc.VisitFields(func(f index.Field) {
		fields[f.Name()] = append(fields[f.Name()], string(f.Value()))
	})
	return fields, nil
}

// IDs returns all document ids; used for consistency checking.
func (r *bleveReader) IDs(ctx context.Context) ([]string, error) {
	count, err := r.DocCount()
	if err != nil {
		return nil, err
	}
	hits, err := r.Search(ctx, query.NewMatchAllQuery(), count)
	if err != nil {
		return nil, fmt.Errorf("failed to search for all IDs: %w", err)
	}

	ids := make([]string, len(hits))
	for i, h := range hits {
		ids[i] = h.ID
	}
	return ids, nil
}

func (r *bleveReader) DocCount() (int, error) {
	n, err := r.reader.DocCount()
	if err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return int(n), nil
}

func (r *bleveReader) Close() error {
	r.closeOnce.Do(func() {
		r.closeErr = r.reader.Close()
	})
	return r.closeErr
}

var (
	_ Writer = (*bleveWriter)(nil)
	_ Reader = (*bleveReader)(nil)
)
