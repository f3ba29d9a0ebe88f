package document

import (
	"strings"

	"github.com/Aman-CERP/objsearch/internal/errors"
	"github.com/Aman-CERP/objsearch/internal/store"
)

// Reserved field names.
const (
	FieldID      = store.FieldID
	FieldType    = store.FieldType
	FieldContent = store.FieldContent
)

// Kind selects how a field value is analyzed.
type Kind = store.FieldKind

// Field kinds.
const (
	Text    = store.FieldText
	Keyword = store.FieldKeyword
)

// Field is one named value of a document.
type Field struct {
	Name  string
	Value string
	Kind  Kind
	Store bool
}

// Document is the field-structured form of one object.
type Document struct {
	id     string
	fields []Field
	sealed bool
}

// New creates an empty document with the given id.
func New(id string) *Document {
	return &Document{id: id}
}

// ID returns the document id.
func (d *Document) ID() string {
	return d.id
}

// AddText adds a full-text field. Text fields are stored so hits can show them.
func (d *Document) AddText(name, value string) error {
	return d.Add(Field{Name: name, Value: value, Kind: Text, Store: true})
}

// AddKeyword adds an exact-match field.
func (d *Document) AddKeyword(name, value string) error {
	return d.Add(Field{Name: name, Value: value, Kind: Keyword, Store: true})
}

// Add appends a field.
//
// Returns ErrInvalidState once the document is sealed, and
// ErrInvalidArgument for empty or reserved names.
func (d *Document) Add(f Field) error {
	if d.sealed {
		return errors.InvalidState("document %s is sealed", d.id)
	}
	if strings.TrimSpace(f.Name) == "" {
		return errors.InvalidArgument("field name is empty")
	}
	if store.IsReservedField(f.Name) {
		return errors.InvalidArgument("field name %q is reserved", f.Name)
	}
	d.fields = append(d.fields, f)
	return nil
}

// addReserved appends an engine-owned field, bypassing the name check.
func (d *Document) addReserved(f Field) {
	d.fields = append(d.fields, f)
}

// Has reports whether a field with the given name exists.
func (d *Document) Has(name string) bool {
	for _, f := range d.fields {
		if f.Name == name {
			return true
		}
	}
	return false
}

// Values returns the values of every field named name, in insertion order.
func (d *Document) Values(name string) []string {
	var values []string
	for _, f := range d.fields {
		if f.Name == name {
			values = append(values, f.Value)
		}
	}
	return values
}

// Fields returns a copy of the fields in insertion order.
func (d *Document) Fields() []Field {
	out := make([]Field, len(d.fields))
	copy(out, d.fields)
	return out
}

// Seal freezes the document.
func (d *Document) Seal() {
	d.sealed = true
}

// Sealed reports whether the document is frozen.
func (d *Document) Sealed() bool {
	return d.sealed
}

// ToStore converts the document to the index's representation.
func (d *Document) ToStore() *store.Document {
	fields := make([]store.Field, len(d.fields))
	for i, f := range d.fields {
		fields[i] = store.Field{Name: f.Name, Value: f.Value, Kind: f.Kind, Store: f.Store}
	}
	return &store.Document{ID: d.id, Fields: fields}
}
