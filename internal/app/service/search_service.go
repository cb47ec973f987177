// Package service provides application use cases.
package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"course-search-service/internal/domain"
	"course-search-service/internal/metrics"
)

// CacheTTL holds response cache lifetimes per operation.
type CacheTTL struct {
	Search  time.Duration
	Suggest time.Duration
}

// SearchService handles course search and suggestion.
type SearchService struct {
	executor domain.SearchExecutor
	cache    domain.Cache // nil disables response caching
	ttl      CacheTTL
	logger   *zap.Logger
}

// NewSearchService creates a new SearchService. cache may be nil.
func NewSearchService(executor domain.SearchExecutor, cache domain.Cache, ttl CacheTTL, logger *zap.Logger) *SearchService {
	return &SearchService{
		executor: executor,
		cache:    cache,
		ttl:      ttl,
		logger:   logger,
	}
}

// Search runs a filtered, sorted, paged course search.
func (s *SearchService) Search(ctx context.Context, req domain.SearchRequest) (*domain.SearchResponse, error) {
	req.Normalize()

	key := cacheKey("search", req)
	var cached domain.SearchResponse
	if s.fromCache(ctx, "search", key, &cached) {
		return &cached, nil
	}

	s.logger.Debug("searching courses",
		zap.String("query", req.Query),
		zap.String("category", req.Category),
		zap.String("type", string(req.Type)),
		zap.String("sort", string(req.Sort)),
		zap.Int("page", req.Page),
		zap.Int("size", req.Size),
	)

	sort := domain.ResolveSort(req.Sort)
	page, err := s.executor.Search(ctx, domain.IndexSearch{
		Query: domain.BuildQuery(req),
		Page:  req.Page,
		Size:  req.Size,
		Sort:  &sort,
	})
	if err != nil {
		s.logger.Error("search failed", zap.Error(err))
		return nil, err
	}

	resp := domain.NewSearchResponse(page, req)

	s.logger.Debug("search completed",
		zap.Int64("total", resp.Total),
		zap.Int("count", len(resp.Courses)),
	)
	metrics.SearchResultsTotal.Observe(float64(resp.Total))

	s.toCache(ctx, "search", key, resp, s.ttl.Search)

	return resp, nil
}

// Suggest returns up to ten distinct course titles matching text,
// most relevant first. Text shorter than two characters is rejected
// before the index is queried.
func (s *SearchService) Suggest(ctx context.Context, text string) ([]string, error) {
	input, err := domain.PrepareSuggestionInput(text)
	if err != nil {
		return nil, err
	}

	key := cacheKey("suggest", input)
	var cached []string
	if s.fromCache(ctx, "suggest", key, &cached) {
		return cached, nil
	}

	page, err := s.executor.Search(ctx, domain.IndexSearch{
		Query: domain.BuildSuggestionQuery(input),
		Page:  0,
		Size:  domain.SuggestionFetchSize,
	})
	if err != nil {
		s.logger.Error("suggest failed", zap.String("input", input), zap.Error(err))
		return nil, err
	}

	titles := domain.ReduceSuggestions(page.Hits)
	metrics.SuggestionsReturned.Observe(float64(len(titles)))

	s.toCache(ctx, "suggest", key, titles, s.ttl.Suggest)

	return titles, nil
}

// fromCache decodes a cached value into dst. Cache failures count as misses.
func (s *SearchService) fromCache(ctx context.Context, kind, key string, dst any) bool {
	if s.cache == nil {
		return false
	}

	data, err := s.cache.Get(ctx, key)
	if err != nil {
		metrics.CacheTotal.WithLabelValues(kind, "error").Inc()
		s.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if data == nil {
		metrics.CacheTotal.WithLabelValues(kind, "miss").Inc()
		return false
	}

	if err := json.Unmarshal(data, dst); err != nil {
		metrics.CacheTotal.WithLabelValues(kind, "error").Inc()
		s.logger.Warn("cache entry undecodable", zap.String("key", key), zap.Error(err))
		return false
	}

	metrics.CacheTotal.WithLabelValues(kind, "hit").Inc()
	return true
}

func (s *SearchService) toCache(ctx context.Context, kind, key string, value any, ttl time.Duration) {
	if s.cache == nil || ttl <= 0 {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn("cache encode failed", zap.String("kind", kind), zap.Error(err))
		return
	}

	if err := s.cache.Set(ctx, key, data, ttl); err != nil {
		s.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// cacheKey derives a stable key from the normalized input.
func cacheKey(kind string, input any) string {
	data, _ := json.Marshal(input)
	sum := sha256.Sum256(data)
	return kind + ":" + hex.EncodeToString(sum[:16])
}
