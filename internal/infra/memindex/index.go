// Package memindex is an in-process course index built on bleve.
// It backs the memory engine used for local runs and tests.
package memindex

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"go.uber.org/zap"

	"course-search-service/internal/domain"
	"course-search-service/internal/metrics"
)

const engineName = "memory"

// Index implements domain.CourseIndex in memory.
type Index struct {
	index   bleve.Index
	mapping mapping.IndexMapping
	logger  *zap.Logger

	// mu keeps the bleve index and courses consistent with each other.
	mu      sync.RWMutex
	courses map[string]*domain.Course
}

// New creates an empty in-memory index.
func New(logger *zap.Logger) (*Index, error) {
	indexMapping, err := buildIndexMapping()
	if err != nil {
		return nil, err
	}

	idx, err := bleve.NewMemOnly(indexMapping)
	if err != nil {
		return nil, fmt.Errorf("creating bleve index: %w", err)
	}

	return &Index{
		index:   idx,
		mapping: indexMapping,
		logger:  logger,
		courses: make(map[string]*domain.Course),
	}, nil
}

// EnsureIndex is a no-op: the mapping is fixed at construction.
func (ix *Index) EnsureIndex(ctx context.Context) error {
	return nil
}

// Search runs one paged query.
func (ix *Index) Search(ctx context.Context, s domain.IndexSearch) (page *domain.HitPage, err error) {
	start := time.Now()
	defer func() { metrics.ObserveIndexCall(engineName, "search", start, err) }()

	from, err := s.Offset()
	if err != nil {
		return nil, err
	}

	req := bleve.NewSearchRequestOptions(ix.translate(s.Query), s.Size, from, false)
	req.SortBy(sortOrder(s.Sort))

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	res, err := ix.index.SearchInContext(ctx, req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: bleve search: %w", domain.ErrIndexUnavailable, err)
		}
		return nil, fmt.Errorf("%w: bleve search: %w", domain.ErrIndexQuery, err)
	}

	page = &domain.HitPage{
		Total: int64(res.Total),
		Hits:  make([]domain.Hit, 0, len(res.Hits)),
	}
	for _, hit := range res.Hits {
		course, ok := ix.courses[hit.ID]
		if !ok {
			return nil, fmt.Errorf("%w: hit %s has no stored course", domain.ErrIndexQuery, hit.ID)
		}
		clone := *course
		page.Hits = append(page.Hits, domain.Hit{Course: &clone, Score: hit.Score})
	}

	return page, nil
}

// Count returns the number of indexed courses.
func (ix *Index) Count(ctx context.Context) (n int64, err error) {
	start := time.Now()
	defer func() { metrics.ObserveIndexCall(engineName, "count", start, err) }()

	count, err := ix.index.DocCount()
	if err != nil {
		return 0, fmt.Errorf("%w: counting documents: %w", domain.ErrIndexUnavailable, err)
	}

	return int64(count), nil
}

// BulkIndex writes every course in one batch. Existing ids are replaced.
func (ix *Index) BulkIndex(ctx context.Context, courses []*domain.Course) (err error) {
	if len(courses) == 0 {
		return nil
	}

	start := time.Now()
	defer func() { metrics.ObserveIndexCall(engineName, "bulk", start, err) }()

	ix.mu.Lock()
	defer ix.mu.Unlock()

	batch := ix.index.NewBatch()
	for _, c := range courses {
		if err := batch.Index(c.ID, document(c)); err != nil {
			return fmt.Errorf("%w: indexing %s: %w", domain.ErrIndexQuery, c.ID, err)
		}
	}
	if err := ix.index.Batch(batch); err != nil {
		return fmt.Errorf("%w: applying batch: %w", domain.ErrIndexQuery, err)
	}

	for _, c := range courses {
		clone := *c
		ix.courses[c.ID] = &clone
	}

	ix.logger.Info("bulk indexed courses",
		zap.String("engine", engineName),
		zap.Int("count", len(courses)),
	)

	return nil
}

// Ping reports whether the index is still open.
func (ix *Index) Ping(ctx context.Context) error {
	if _, err := ix.index.DocCount(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrIndexUnavailable, err)
	}
	return nil
}

// Close releases the index.
func (ix *Index) Close() error {
	return ix.index.Close()
}
