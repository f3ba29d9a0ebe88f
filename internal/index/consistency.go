// Package index checks that the object registry and the text index agree.
package index

import (
	"context"
	"log/slog"
	"time"

	"github.com/Aman-CERP/objsearch/internal/store"
)

// InconsistencyType categorizes detected issues.
type InconsistencyType int

const (
	// InconsistencyOrphanDocument indicates an indexed document without a registered object.
	InconsistencyOrphanDocument InconsistencyType = iota
	// InconsistencyMissingDocument indicates a registered object without an indexed document.
	InconsistencyMissingDocument
	// InconsistencyStaleView indicates a registered object the published view cannot resolve.
	InconsistencyStaleView
	// InconsistencyGhostView indicates a published object that is no longer registered.
	InconsistencyGhostView
)

// String returns a human-readable description of the inconsistency type.
func (t InconsistencyType) String() string {
	switch t {
	case InconsistencyOrphanDocument:
		return "orphan_document"
	case InconsistencyMissingDocument:
		return "missing_document"
	case InconsistencyStaleView:
		return "stale_view"
	case InconsistencyGhostView:
		return "ghost_view"
	default:
		return "unknown"
	}
}

// Inconsistency represents one detected issue.
type Inconsistency struct {
	Type     InconsistencyType
	ObjectID string
	Details  string
}

// CheckResult contains the outcome of a consistency check.
type CheckResult struct {
	// Checked is the number of registered objects verified.
	Checked int
	// Inconsistencies contains all detected issues.
	Inconsistencies []Inconsistency
	// Duration is how long the check took.
	Duration time.Duration
}

// Consistent reports whether no issues were found.
func (r *CheckResult) Consistent() bool {
	return len(r.Inconsistencies) == 0
}

// IDSet is anything that can list object ids: the registry or a published
// snapshot of it.
type IDSet interface {
	IDs() []string
}

// Index is the part of store.Index the checker needs.
type Index interface {
	OpenReader() (store.Reader, error)
	OpenWriter() (store.Writer, error)
}

// ConsistencyChecker compares the registry (source of truth) with the
// index and with the published view.
//
// It takes no locks; callers hold the engine's write lock.
type ConsistencyChecker struct {
	registry IDSet
	index    Index
	logger   *slog.Logger
}

// NewConsistencyChecker creates a new checker.
func NewConsistencyChecker(registry IDSet, idx Index, logger *slog.Logger) *ConsistencyChecker {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConsistencyChecker{
		registry: registry,
		index:    idx,
		logger:   logger,
	}
}

// Check scans the index and, when published is non-nil, the published view.
// This is O(n) in the number of documents.
func (c *ConsistencyChecker) Check(ctx context.Context, published IDSet) (*CheckResult, error) {
	start := time.Now()
	var issues []Inconsistency

	registered := toSet(c.registry.IDs())

	r, err := c.index.OpenReader()
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()

	indexIDs, err := r.IDs(ctx)
	if err != nil {
		return nil, err
	}
	indexed := toSet(indexIDs)

	for _, id := range indexIDs {
		if _, ok := registered[id]; !ok {
			issues = append(issues, Inconsistency{
				Type:     InconsistencyOrphanDocument,
				ObjectID: id,
				Details:  "indexed document without a registered object",
			})
		}
	}
	for id := range registered {
		if _, ok := indexed[id]; !ok {
			issues = append(issues, Inconsistency{
				Type:     InconsistencyMissingDocument,
				ObjectID: id,
				Details:  "registered object missing from the index",
			})
		}
	}

	if published != nil {
		visible := toSet(published.IDs())
		for id := range registered {
			if _, ok := visible[id]; !ok {
				issues = append(issues, Inconsistency{
					Type:     InconsistencyStaleView,
					ObjectID: id,
					Details:  "registered object not resolvable from the published view",
				})
			}
		}
		for id := range visible {
			if _, ok := registered[id]; !ok {
				issues = append(issues, Inconsistency{
					Type:     InconsistencyGhostView,
					ObjectID: id,
					Details:  "published view resolves an object that is no longer registered",
				})
			}
		}
	}

	result := &CheckResult{
		Checked:         len(registered),
		Inconsistencies: issues,
		Duration:        time.Since(start),
	}

	if !result.Consistent() {
		c.logger.Warn("index_inconsistent",
			slog.Int("checked", result.Checked),
			slog.Int("issues", len(issues)))
	}
	return result, nil
}

// Repair deletes orphan documents. Other issues need the objects re-added
// and are only logged. Returns the number of documents deleted.
func (c *ConsistencyChecker) Repair(ctx context.Context, issues []Inconsistency) (int, error) {
	var orphans []string
	var unfixable int

	for _, issue := range issues {
		switch issue.Type {
		case InconsistencyOrphanDocument:
			orphans = append(orphans, issue.ObjectID)
		default:
			unfixable++
		}
	}

	if unfixable > 0 {
		c.logger.Warn("index_inconsistency_unrepaired",
			slog.Int("count", unfixable))
	}
	if len(orphans) == 0 {
		return 0, nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	w, err := c.index.OpenWriter()
	if err != nil {
		return 0, err
	}
	defer func() { _ = w.Close() }()

	if err := w.DeleteDocuments(orphans); err != nil {
		return 0, err
	}
	if err := w.Commit(); err != nil {
		return 0, err
	}

	c.logger.Info("orphan_documents_deleted", slog.Int("count", len(orphans)))
	return len(orphans), nil
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
