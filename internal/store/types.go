// Package store wraps the full-text engine behind a narrow writer / reader
// contract. Writers stage document changes and commit them in one batch;
// readers are point-in-time snapshots that never observe later commits.
package store

import (
	"context"

	"github.com/blevesearch/bleve/v2/search/query"
)

// Reserved field names.
const (
	// FieldID is the engine's document id field: stored and exact-match.
	FieldID = "_id"
	// FieldType holds one exact-match tag per level of an object's type lineage.
	FieldType = "_type"
	// FieldContent is the default full-text field for unqualified query terms.
	FieldContent = "content"
	// FieldAll is the engine's composite field name; never written directly.
	FieldAll = "_all"
)

// FieldKind selects how a field value is analyzed.
type FieldKind int

const (
	// FieldText values are tokenized with the index's text analyzer.
	FieldText FieldKind = iota
	// FieldKeyword values are indexed verbatim as a single term.
	FieldKeyword
)

// String returns the name used in logs and config.
func (k FieldKind) String() string {
	switch k {
	case FieldText:
		return "text"
	case FieldKeyword:
		return "keyword"
	default:
		return "unknown"
	}
}

// Field is one named value of a document.
type Field struct {
	Name  string
	Value string
	Kind  FieldKind
	Store bool
}

// Document is the unit written to the index.
type Document struct {
	ID     string
	Fields []Field
}

// Hit is one search match.
type Hit struct {
	ID    string
	Score float64
}

// IndexStats provides statistics about the index.
type IndexStats struct {
	DocumentCount int
}

// Index owns the storage and hands out writers and snapshot readers.
type Index interface {
	// OpenWriter acquires the single writer. It must be closed on every path.
	OpenWriter() (Writer, error)

	// OpenReader returns a snapshot of the last committed state.
	OpenReader() (Reader, error)

	// ParseQuery parses query-string syntax; unqualified terms target the
	// configured default field.
	ParseQuery(text string) (query.Query, error)

	// Stats returns index statistics.
	Stats() *IndexStats

	Close() error
}

// Writer stages changes until Commit.
type Writer interface {
	// AddDocuments stages new documents.
	AddDocuments(docs []*Document) error

	// UpdateDocument stages a replacement of the document with the given id.
	UpdateDocument(id string, doc *Document) error

	// DeleteDocuments stages deletion of the given ids.
	DeleteDocuments(ids []string) error

	// Commit applies everything staged as one batch.
	Commit() error

	// Close releases the writer, discarding anything not committed.
	// Safe to call after Commit and more than once.
	Close() error
}

// Reader searches one immutable snapshot.
type Reader interface {
	// Search returns at most limit hits ordered by descending score.
	// Ties keep the engine's native document order.
	Search(ctx context.Context, q query.Query, limit int) ([]Hit, error)

	// Fetch returns the stored field values of one document.
	Fetch(id string) (map[string][]string, error)

	// IDs returns every document id in the snapshot.
	IDs(ctx context.Context) ([]string, error)

	// DocCount returns the number of documents in the snapshot.
	DocCount() (int, error)

	Close() error
}

// Config configures the index.
type Config struct {
	// Analyzer is the text analyzer: "standard" (default) or "code".
	Analyzer string

	// DefaultField is the field unqualified query terms search (default: content).
	DefaultField string
}

// DefaultConfig returns default index configuration.
func DefaultConfig() Config {
	return Config{
		Analyzer:     AnalyzerStandard,
		DefaultField: FieldContent,
	}
}

// IsReservedField reports whether name belongs to the index itself.
func IsReservedField(name string) bool {
	switch name {
	case FieldID, FieldType, FieldAll:
		return true
	}
	return false
}
