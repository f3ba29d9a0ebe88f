package objsearch

import (
	"log/slog"

	"github.com/Aman-CERP/objsearch/internal/content"
	"github.com/Aman-CERP/objsearch/internal/store"
	"github.com/Aman-CERP/objsearch/pkg/document"
)

// Option configures an Engine.
type Option func(*engineOptions)

type engineOptions struct {
	logger         *slog.Logger
	analyzer       string
	contentFormat  string
	encoder        content.Encoder
	queryCacheSize int
	index          store.Index
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *engineOptions) {
		o.logger = logger
	}
}

// WithAnalyzer selects the text analyzer: "standard" (default) or "code",
// which also splits camelCase and snake_case words.
func WithAnalyzer(name string) Option {
	return func(o *engineOptions) {
		o.analyzer = name
	}
}

// WithContentFormat selects how objects are rendered to their derived
// content field: "json" (default) or "yaml".
func WithContentFormat(format string) Option {
	return func(o *engineOptions) {
		o.contentFormat = format
	}
}

// WithEncoder sets a custom content encoder. It takes precedence over
// WithContentFormat.
func WithEncoder(enc content.Encoder) Option {
	return func(o *engineOptions) {
		o.encoder = enc
	}
}

// WithQueryCacheSize sets how many parsed queries are cached.
func WithQueryCacheSize(n int) Option {
	return func(o *engineOptions) {
		o.queryCacheSize = n
	}
}

// withIndex replaces the bleve index; analyzer options are then ignored.
func withIndex(idx store.Index) Option {
	return func(o *engineOptions) {
		o.index = idx
	}
}

// AddOption customizes how documents are built in Add and Update.
type AddOption func(*addOptions)

type addOptions struct {
	fields  document.FieldFunc
	content document.ContentFunc
}

func applyAddOptions(opts []AddOption) addOptions {
	var ao addOptions
	for _, opt := range opts {
		opt(&ao)
	}
	return ao
}

// WithFields adds caller-defined fields to every document in the batch.
func WithFields(fn document.FieldFunc) AddOption {
	return func(o *addOptions) {
		o.fields = fn
	}
}

// WithContent derives the content field with fn instead of the encoder.
func WithContent(fn document.ContentFunc) AddOption {
	return func(o *addOptions) {
		o.content = fn
	}
}

// FieldsOf is WithFields for batches of a single type. Objects that are not
// a T fail the build with ErrInvalidArgument.
func FieldsOf[T any](fn func(item T, doc *document.Document) error) AddOption {
	return WithFields(func(obj any, doc *document.Document) error {
		item, ok := obj.(T)
		if !ok {
			return errTypeMismatch[T](obj)
		}
		return fn(item, doc)
	})
}

// ContentOf is WithContent for batches of a single type.
func ContentOf[T any](fn func(item T) string) AddOption {
	return WithContent(func(obj any) (string, error) {
		item, ok := obj.(T)
		if !ok {
			return "", errTypeMismatch[T](obj)
		}
		return fn(item), nil
	})
}
