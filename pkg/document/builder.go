package document

import (
	"fmt"

	"github.com/Aman-CERP/objsearch/internal/content"
	"github.com/Aman-CERP/objsearch/internal/errors"
)

// FieldFunc adds caller-defined fields to a document under construction.
// Any field name except the reserved ones may be used, including content.
type FieldFunc func(obj any, doc *Document) error

// ContentFunc projects an object to the text of its content field.
type ContentFunc func(obj any) (string, error)

// Builder derives documents from objects.
//
// Builder is safe for concurrent use.
type Builder struct {
	encoder content.Encoder
	reject  func(obj any) error
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithRejector installs a check run before anything else in Build.
// A non-nil error aborts the build and is returned unchanged.
func WithRejector(fn func(obj any) error) BuilderOption {
	return func(b *Builder) {
		b.reject = fn
	}
}

// NewBuilder creates a builder. A nil encoder selects JSON.
func NewBuilder(enc content.Encoder, opts ...BuilderOption) *Builder {
	if enc == nil {
		enc = content.JSONEncoder{}
	}
	b := &Builder{encoder: enc}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Encoder returns the encoder used for derived content.
func (b *Builder) Encoder() content.Encoder {
	return b.encoder
}

// Build derives the sealed document for obj.
//
// Steps, in order:
//   - reject nil and empty-string objects, then run the rejector
//   - invoke fields, if non-nil
//   - derive content from selector, or from the encoder when selector is nil,
//     unless fields already added a content field
//   - append one stored keyword _type field per lineage name
//
// Errors are ErrInvalidArgument; callback and encoder failures are wrapped.
func (b *Builder) Build(id string, obj any, fields FieldFunc, selector ContentFunc, lineage []string) (*Document, error) {
	if obj == nil {
		return nil, errors.InvalidArgument("object is nil")
	}
	if s, ok := obj.(string); ok && s == "" {
		return nil, errors.InvalidArgument("object is an empty string")
	}
	if b.reject != nil {
		if err := b.reject(obj); err != nil {
			return nil, err
		}
	}
	if id == "" {
		return nil, errors.InvalidArgument("document id is empty")
	}

	doc := New(id)

	if fields != nil {
		if err := fields(obj, doc); err != nil {
			return nil, errors.New(errors.ErrCodeInvalidArgument, fmt.Sprintf("field callback failed for %T: %v", obj, err), err)
		}
	}

	if !doc.Has(FieldContent) {
		text, err := b.content(obj, selector)
		if err != nil {
			return nil, errors.New(errors.ErrCodeInvalidArgument, fmt.Sprintf("content projection failed for %T: %v", obj, err), err)
		}
		doc.addReserved(Field{Name: FieldContent, Value: text, Kind: Text})
	}

	for _, name := range lineage {
		doc.addReserved(Field{Name: FieldType, Value: name, Kind: Keyword, Store: true})
	}

	doc.Seal()
	return doc, nil
}

func (b *Builder) content(obj any, selector ContentFunc) (string, error) {
	if selector != nil {
		return selector(obj)
	}
	return b.encoder.Encode(obj)
}
