package objsearch

import (
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/Aman-CERP/objsearch/internal/compose"
)

// ParseQuery parses query-string text against the content field through the
// engine's query cache, for combining with other queries in SearchQuery.
// Blank text matches nothing.
func (e *Engine) ParseQuery(text string) (query.Query, error) {
	if err := e.checkOpen(); err != nil {
		return nil, err
	}
	return e.composer.Text(text, "")
}

// KindQuery matches objects whose lineage includes k. A nil k matches every
// object.
//
//	q := bleve.NewConjunctionQuery(parsed, objsearch.KindQuery(article))
//	results, err := objsearch.SearchQuery[*Entry](ctx, e, q, 10)
func KindQuery(k *Kind) query.Query {
	if k == nil {
		return query.NewMatchAllQuery()
	}
	return compose.KindFilter(k.Name())
}
