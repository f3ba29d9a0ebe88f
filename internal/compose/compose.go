// Package compose turns query text into bleve queries scoped by kind and,
// for chained searches, by a fixed set of document ids.
package compose

import (
	"strings"

	"github.com/blevesearch/bleve/v2/search/query"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Aman-CERP/objsearch/internal/errors"
	"github.com/Aman-CERP/objsearch/internal/store"
)

// DefaultCacheSize is the default number of parsed queries to keep.
const DefaultCacheSize = 256

// Parser parses query-string syntax. store.Index satisfies it.
type Parser interface {
	ParseQuery(text string) (query.Query, error)
}

// Composer builds queries. It is safe for concurrent use.
type Composer struct {
	parser Parser
	cache  *lru.Cache[string, query.Query]
}

// New creates a composer. A non-positive cacheSize selects DefaultCacheSize.
func New(parser Parser, cacheSize int) *Composer {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, _ := lru.New[string, query.Query](cacheSize)
	return &Composer{
		parser: parser,
		cache:  cache,
	}
}

// Text parses text against the content field and scopes it to kind.
// An empty kind means any kind. Blank text matches nothing.
//
// Returns ErrInvalidQuery, which also matches ErrInvalidArgument, when text
// does not parse.
func (c *Composer) Text(text, kind string) (query.Query, error) {
	base, err := c.parse(text)
	if err != nil {
		return nil, err
	}
	return c.Query(base, kind), nil
}

// Query scopes an already built query to kind.
func (c *Composer) Query(q query.Query, kind string) query.Query {
	if kind == "" {
		return q
	}
	return query.NewConjunctionQuery([]query.Query{KindFilter(kind), q})
}

// Within restricts q to the given document ids.
func Within(ids []string, q query.Query) query.Query {
	return query.NewConjunctionQuery([]query.Query{query.NewDocIDQuery(ids), q})
}

// KindFilter matches documents tagged with kind at any lineage level.
func KindFilter(kind string) query.Query {
	tq := query.NewTermQuery(kind)
	tq.SetField(store.FieldType)
	return tq
}

// CacheLen returns the number of cached parsed queries.
func (c *Composer) CacheLen() int {
	return c.cache.Len()
}

// parse returns cached queries as is; bleve queries are not mutated by searching.
func (c *Composer) parse(text string) (query.Query, error) {
	if strings.TrimSpace(text) == "" {
		return query.NewMatchNoneQuery(), nil
	}
	if q, ok := c.cache.Get(text); ok {
		return q, nil
	}

	q, err := c.parser.ParseQuery(text)
	if err != nil {
		return nil, errors.New(errors.ErrCodeInvalidQuery, "invalid query syntax", err).
			WithDetail("query", text).
			WithSuggestion(`Close quoted phrases and put field names before a colon, e.g. title:"great empires"`)
	}

	c.cache.Add(text, q)
	return q, nil
}
