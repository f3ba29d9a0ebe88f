// Package document builds the indexable form of an object.
//
// A [Document] is an ordered list of named fields. Each field is either
// full-text (tokenized with the index analyzer) or keyword (matched
// exactly). The [Builder] derives one document per object:
//
//	id        document id, exact-match, stored
//	...       caller fields from a [FieldFunc]
//	content   derived full-text field, unless the caller already added one
//	_type     one exact-match tag per level of the object's type lineage
//
// The builder seals the document before returning it. Callers may add
// fields only from inside a [FieldFunc].
//
// # Usage
//
//	b := document.NewBuilder(content.JSONEncoder{})
//	doc, err := b.Build(id, book, func(obj any, d *document.Document) error {
//	    return d.AddText("title", obj.(*Book).Title)
//	}, nil, []string{"*library.Book"})
//
// # Thread Safety
//
// A Builder is safe for concurrent use. A Document is not; it belongs to
// the Build call that created it until sealed, and is read-only afterwards.
package document
