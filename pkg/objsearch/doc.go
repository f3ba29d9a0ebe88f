// Package objsearch makes arbitrary Go values full-text searchable without
// a schema.
//
// Objects are rendered to text (JSON by default), indexed in an in-memory
// bleve index, and recovered by identity from search hits: a search returns
// the very pointers that were added, not copies.
//
// # Usage
//
//	e, err := objsearch.New()
//	if err != nil {
//	    return err
//	}
//	defer e.Close()
//
//	err = objsearch.AddAll(ctx, e, books,
//	    objsearch.FieldsOf(func(b *Book, d *document.Document) error {
//	        return d.AddText("title", b.Title)
//	    }))
//
//	results, err := objsearch.Search[*Book](ctx, e, "+title:empires", 10)
//	for _, r := range results.Items {
//	    fmt.Println(r.Score, r.Value.Title)
//	}
//
//	// Narrow down without re-indexing.
//	ancient, err := results.Search(ctx, "rome", 0)
//
// # Kinds
//
// Every document is tagged with its object's [Kind] lineage. Search[T]
// only matches objects whose lineage includes T. Go has no inheritance, so
// ancestors are declared explicitly:
//
//	shape := objsearch.KindOf[Shape]()
//	objsearch.Extend[*Circle](shape)
//	objsearch.Extend[*Square](shape)
//
//	shapes, err := objsearch.Search[Shape](ctx, e, "red", 0)
//
// Search[any] matches everything.
//
// # Query Syntax
//
// Queries use bleve's query-string syntax. Unqualified terms search the
// content field; fields added with [WithFields] are addressed by name,
// e.g. title:empires or +title:rome -year:2001.
//
// # Thread Safety
//
// Engine is safe for concurrent use. Add, Update and Remove are serialized;
// searches run in parallel against an immutable snapshot and never observe
// a batch half-applied. Results are read-only values and may be shared.
package objsearch
