package domain

import (
	"context"
	"fmt"
	"math"
	"time"
)

// MaxResultWindow bounds the end of any requested page (offset + size),
// so the offset fits a 32-bit "from" in every engine.
const MaxResultWindow = math.MaxInt32

// IndexSearch is one paged query against the course index.
// A nil Sort orders by relevance score.
type IndexSearch struct {
	Query IndexQuery
	Page  int
	Size  int
	Sort  *Sort
}

// Offset returns the index of the first hit on the page. A page that is
// negative or ends beyond MaxResultWindow fails with ErrInvalidInput.
func (s IndexSearch) Offset() (int, error) {
	if s.Page < 0 || s.Size < 0 || (s.Size > 0 && s.Page > (MaxResultWindow-s.Size)/s.Size) {
		return 0, fmt.Errorf("%w: page %d of size %d is beyond the result window of %d",
			ErrInvalidInput, s.Page, s.Size, MaxResultWindow)
	}
	return s.Page * s.Size, nil
}

// Hit is a matched course and its relevance score.
type Hit struct {
	Course *Course
	Score  float64
}

// HitPage is one page of hits and the exact page-independent total.
type HitPage struct {
	Total int64
	Hits  []Hit
}

// SearchExecutor runs composite queries against the index.
// Implementations: internal/infra/elasticsearch, internal/infra/memindex
type SearchExecutor interface {
	// Search returns the hits in [Page*Size, Page*Size+Size) and the total.
	// Page and size are used as given.
	Search(ctx context.Context, s IndexSearch) (*HitPage, error)
}

// DocumentIndex is the write side used by the bulk loader.
type DocumentIndex interface {
	// EnsureIndex creates the index and its mapping when missing.
	EnsureIndex(ctx context.Context) error

	// Count returns the number of indexed documents.
	Count(ctx context.Context) (int64, error)

	// BulkIndex writes all courses in a single batch.
	BulkIndex(ctx context.Context, courses []*Course) error
}

// CourseIndex is a full index engine adapter.
type CourseIndex interface {
	SearchExecutor
	DocumentIndex

	// Ping verifies the engine is reachable.
	Ping(ctx context.Context) error
}

// SeedSource supplies the initial course dataset.
// Implementations: internal/infra/provider/file, internal/infra/provider/remote,
// internal/infra/postgres
type SeedSource interface {
	// Name returns a short identifier for logs.
	Name() string

	// Fetch returns every course in the dataset.
	Fetch(ctx context.Context) ([]*Course, error)
}

// Cache defines the interface for caching operations.
// Implementations: internal/infra/redis/cache.go (optional)
type Cache interface {
	// Get retrieves a value by key. Returns nil if not found.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Clear removes all cached values.
	Clear(ctx context.Context) error
}
