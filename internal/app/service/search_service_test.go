package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"course-search-service/internal/domain"
	rediscache "course-search-service/internal/infra/redis"
)

type fakeExecutor struct {
	mu       sync.Mutex
	page     *domain.HitPage
	err      error
	searches []domain.IndexSearch
}

func (f *fakeExecutor) Search(ctx context.Context, s domain.IndexSearch) (*domain.HitPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searches = append(f.searches, s)
	if f.err != nil {
		return nil, f.err
	}
	return f.page, nil
}

func (f *fakeExecutor) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.searches)
}

func course(id, title string) *domain.Course {
	return &domain.Course{
		ID:              id,
		Title:           title,
		Category:        "Technology",
		Type:            domain.CourseTypeCourse,
		MinAge:          8,
		MaxAge:          12,
		Price:           decimal.RequireFromString("99.90"),
		NextSessionDate: domain.Date(2025, 9, 1, 9, 30, 0),
	}
}

func hits(titles ...string) *domain.HitPage {
	page := &domain.HitPage{Total: int64(len(titles))}
	for i, title := range titles {
		page.Hits = append(page.Hits, domain.Hit{Course: course(fmt.Sprintf("c%d", i), title), Score: float64(len(titles) - i)})
	}
	return page
}

func TestSearchService_Search(t *testing.T) {
	exec := &fakeExecutor{page: &domain.HitPage{Total: 42, Hits: hits("Robotics", "Chess Club").Hits}}
	svc := NewSearchService(exec, nil, CacheTTL{}, zap.NewNop())

	minAge := 9
	resp, err := svc.Search(context.Background(), domain.SearchRequest{
		Query:  "robot",
		MinAge: &minAge,
		Sort:   domain.SortPriceDesc,
		Page:   3,
		Size:   500,
	})
	require.NoError(t, err)

	require.Len(t, exec.searches, 1)
	sent := exec.searches[0]
	assert.Equal(t, 3, sent.Page)
	assert.Equal(t, domain.MaxPageSize, sent.Size)
	require.NotNil(t, sent.Sort)
	assert.Equal(t, domain.Sort{Field: domain.FieldPrice, Order: domain.SortOrderDesc}, *sent.Sort)
	assert.Len(t, sent.Query.Must, 1)
	assert.Len(t, sent.Query.Filters, 1)

	assert.Equal(t, int64(42), resp.Total)
	assert.Equal(t, 3, resp.Page)
	assert.Equal(t, domain.MaxPageSize, resp.Size)
	require.Len(t, resp.Courses, 2)
	assert.Equal(t, "Robotics", resp.Courses[0].Title)
	assert.Equal(t, "COURSE", resp.Courses[0].Type)
}

func TestSearchService_Search_Defaults(t *testing.T) {
	exec := &fakeExecutor{page: &domain.HitPage{}}
	svc := NewSearchService(exec, nil, CacheTTL{}, zap.NewNop())

	resp, err := svc.Search(context.Background(), domain.SearchRequest{Sort: "bogus", Page: -1})
	require.NoError(t, err)

	sent := exec.searches[0]
	assert.True(t, sent.Query.MatchAll())
	assert.Equal(t, 0, sent.Page)
	assert.Equal(t, domain.DefaultPageSize, sent.Size)
	assert.Equal(t, domain.FieldNextSessionDate, sent.Sort.Field)
	assert.Equal(t, domain.SortOrderAsc, sent.Sort.Order)

	assert.NotNil(t, resp.Courses)
	assert.Empty(t, resp.Courses)
}

func TestSearchService_Search_PropagatesIndexErrors(t *testing.T) {
	exec := &fakeExecutor{err: fmt.Errorf("%w: connection refused", domain.ErrIndexUnavailable)}
	svc := NewSearchService(exec, nil, CacheTTL{}, zap.NewNop())

	resp, err := svc.Search(context.Background(), domain.SearchRequest{})
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, domain.ErrIndexUnavailable)
}

func TestSearchService_Suggest(t *testing.T) {
	exec := &fakeExecutor{page: hits("Java Programming", "Java Programming", "JavaScript Games")}
	svc := NewSearchService(exec, nil, CacheTTL{}, zap.NewNop())

	titles, err := svc.Suggest(context.Background(), "  Ja ")
	require.NoError(t, err)
	assert.Equal(t, []string{"Java Programming", "JavaScript Games"}, titles)

	sent := exec.searches[0]
	assert.Equal(t, domain.SuggestionFetchSize, sent.Size)
	assert.Nil(t, sent.Sort)
	require.Len(t, sent.Query.Must, 1)
	assert.Equal(t, "Ja", sent.Query.Must[0].Query)
	assert.Empty(t, sent.Query.Filters)
}

func TestSearchService_Suggest_RejectsShortInput(t *testing.T) {
	exec := &fakeExecutor{page: hits("Java Programming")}
	svc := NewSearchService(exec, nil, CacheTTL{}, zap.NewNop())

	for _, input := range []string{"", " ", "J", " J "} {
		_, err := svc.Suggest(context.Background(), input)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "input %q", input)
	}
	assert.Zero(t, exec.calls(), "index must not be queried")
}

func TestSearchService_Suggest_EmptyResult(t *testing.T) {
	exec := &fakeExecutor{page: &domain.HitPage{}}
	svc := NewSearchService(exec, nil, CacheTTL{}, zap.NewNop())

	titles, err := svc.Suggest(context.Background(), "zz")
	require.NoError(t, err)
	assert.NotNil(t, titles)
	assert.Empty(t, titles)
}

func newRedisCache(t *testing.T) (*rediscache.Cache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return rediscache.NewCache(client, zap.NewNop(), "test"), mr
}

func TestSearchService_CachesSuccessfulResponses(t *testing.T) {
	cache, mr := newRedisCache(t)
	exec := &fakeExecutor{page: hits("Robotics")}
	svc := NewSearchService(exec, cache, CacheTTL{Search: time.Minute, Suggest: time.Minute}, zap.NewNop())
	ctx := context.Background()

	first, err := svc.Search(ctx, domain.SearchRequest{Query: "robot"})
	require.NoError(t, err)
	second, err := svc.Search(ctx, domain.SearchRequest{Query: "robot"})
	require.NoError(t, err)

	assert.Equal(t, 1, exec.calls())
	assert.Equal(t, first.Total, second.Total)
	require.Len(t, second.Courses, 1)
	assert.Equal(t, "Robotics", second.Courses[0].Title)
	assert.Equal(t, "99.90", second.Courses[0].Price.StringFixed(2))
	assert.Equal(t, first.Courses[0].NextSessionDate, second.Courses[0].NextSessionDate)

	_, err = svc.Search(ctx, domain.SearchRequest{Query: "robot", Page: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, exec.calls(), "different page is a different key")

	_, err = svc.Suggest(ctx, "Ro")
	require.NoError(t, err)
	_, err = svc.Suggest(ctx, "Ro")
	require.NoError(t, err)
	assert.Equal(t, 3, exec.calls())

	mr.FastForward(2 * time.Minute)
	_, err = svc.Search(ctx, domain.SearchRequest{Query: "robot"})
	require.NoError(t, err)
	assert.Equal(t, 4, exec.calls(), "expired entry is refetched")
}

func TestSearchService_CacheIsNotAFallback(t *testing.T) {
	cache, _ := newRedisCache(t)
	exec := &fakeExecutor{page: hits("Robotics")}
	svc := NewSearchService(exec, cache, CacheTTL{Search: time.Minute}, zap.NewNop())
	ctx := context.Background()

	_, err := svc.Search(ctx, domain.SearchRequest{Query: "robot"})
	require.NoError(t, err)

	exec.err = fmt.Errorf("%w: down", domain.ErrIndexUnavailable)
	_, err = svc.Search(ctx, domain.SearchRequest{Query: "chess"})
	require.ErrorIs(t, err, domain.ErrIndexUnavailable)

	// failed responses are not cached
	exec.err = nil
	_, err = svc.Search(ctx, domain.SearchRequest{Query: "chess"})
	require.NoError(t, err)
	assert.Equal(t, 3, exec.calls())
}

func TestSearchService_CacheFailureDoesNotFailRequest(t *testing.T) {
	cache, mr := newRedisCache(t)
	mr.Close()

	exec := &fakeExecutor{page: hits("Robotics")}
	svc := NewSearchService(exec, cache, CacheTTL{Search: time.Minute}, zap.NewNop())

	resp, err := svc.Search(context.Background(), domain.SearchRequest{})
	require.NoError(t, err)
	assert.Len(t, resp.Courses, 1)
}

func TestCacheKey(t *testing.T) {
	a := domain.SearchRequest{Query: "java", Size: 10}
	b := domain.SearchRequest{Query: "java", Size: 10}
	c := domain.SearchRequest{Query: "java", Size: 20}

	assert.Equal(t, cacheKey("search", a), cacheKey("search", b))
	assert.NotEqual(t, cacheKey("search", a), cacheKey("search", c))
	assert.NotEqual(t, cacheKey("search", "java"), cacheKey("suggest", "java"))
	assert.Contains(t, cacheKey("suggest", "java"), "suggest:")
}

var errBoom = errors.New("boom")
