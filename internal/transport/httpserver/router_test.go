package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"course-search-service/internal/app/service"
	"course-search-service/internal/domain"
	"course-search-service/internal/infra/memindex"
	"course-search-service/internal/transport/httpserver/dto"
	"course-search-service/internal/validator"
)

func seedCourses() []*domain.Course {
	return []*domain.Course{
		{
			ID: "test1", Title: "Java Programming", Description: "Learn Java programming fundamentals",
			Category: "Technology", Type: domain.CourseTypeCourse, GradeRange: "6th-12th",
			MinAge: 11, MaxAge: 18, Price: decimal.RequireFromString("250.00"),
			NextSessionDate: domain.Date(2025, 8, 15, 10, 0, 0),
			Suggest:         domain.NewCompletion("Java Programming"),
		},
		{
			ID: "test2", Title: "Art Workshop", Description: "Creative art and painting",
			Category: "Art", Type: domain.CourseTypeOneTime, GradeRange: "K-5th",
			MinAge: 5, MaxAge: 11, Price: decimal.RequireFromString("75.00"),
			NextSessionDate: domain.Date(2025, 8, 20, 14, 0, 0),
			Suggest:         domain.NewCompletion("Art Workshop"),
		},
	}
}

func newTestServer(t *testing.T, index domain.CourseIndex) *Server {
	t.Helper()

	svc := service.NewSearchService(index, nil, service.CacheTTL{}, zap.NewNop())

	return NewServer(ServerConfig{BodyLimit: 1024 * 1024, Engine: "memory"}, svc, index, validator.New(), zap.NewNop())
}

func newSeededServer(t *testing.T) *Server {
	t.Helper()

	ix, err := memindex.New(zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = ix.Close() })
	require.NoError(t, ix.BulkIndex(context.Background(), seedCourses()))

	return newTestServer(t, ix)
}

func get(t *testing.T, s *Server, target string) (*http.Response, []byte) {
	t.Helper()

	resp, err := s.App.Test(httptest.NewRequest(http.MethodGet, target, nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, body
}

func decodeSearch(t *testing.T, body []byte) (int64, []string) {
	t.Helper()

	var out struct {
		Total   int64 `json:"total"`
		Courses []struct {
			Title string `json:"title"`
		} `json:"courses"`
	}
	require.NoError(t, json.Unmarshal(body, &out))

	titles := make([]string, len(out.Courses))
	for i, c := range out.Courses {
		titles[i] = c.Title
	}
	return out.Total, titles
}

func TestHealth(t *testing.T) {
	s := newSeededServer(t)

	resp, body := get(t, s, "/api/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Course Search API is running!", string(body))
}

func TestSearch_ReferenceScenarios(t *testing.T) {
	s := newSeededServer(t)

	tests := []struct {
		name       string
		target     string
		wantTotal  int64
		wantTitles []string
	}{
		{"browse all in upcoming order", "/api/search", 2, []string{"Java Programming", "Art Workshop"}},
		{"text", "/api/search?q=Java", 1, []string{"Java Programming"}},
		{"category", "/api/search?category=Art", 1, []string{"Art Workshop"}},
		{"price range", "/api/search?minPrice=50&maxPrice=100", 1, []string{"Art Workshop"}},
		{"first page of one", "/api/search?page=0&size=1", 2, []string{"Java Programming"}},
		{"second page of one", "/api/search?page=1&size=1", 2, []string{"Art Workshop"}},
		{"price descending", "/api/search?sort=priceDesc", 2, []string{"Java Programming", "Art Workshop"}},
		{"price ascending", "/api/search?sort=priceAsc", 2, []string{"Art Workshop", "Java Programming"}},
		{"unknown sort falls back to upcoming", "/api/search?sort=popular", 2, []string{"Java Programming", "Art Workshop"}},
		{"age overlap", "/api/search?minAge=12&maxAge=20", 1, []string{"Java Programming"}},
		{"shared boundary age", "/api/search?minAge=11&maxAge=11", 2, []string{"Java Programming", "Art Workshop"}},
		{"type", "/api/search?type=ONE_TIME", 1, []string{"Art Workshop"}},
		{"start date", "/api/search?startDate=2025-08-16T00:00:00", 1, []string{"Art Workshop"}},
		{"start date equal to session", "/api/search?startDate=2025-08-20T14:00:00", 1, []string{"Art Workshop"}},
		{"start date half a second after session", "/api/search?startDate=2025-08-20T14:00:00.5", 0, []string{}},
		{"no match", "/api/search?category=Music", 0, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := get(t, s, tt.target)
			require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

			total, titles := decodeSearch(t, body)
			assert.Equal(t, tt.wantTotal, total)
			assert.Equal(t, tt.wantTitles, titles)
		})
	}
}

func TestSearch_ResponseShape(t *testing.T) {
	s := newSeededServer(t)

	resp, body := get(t, s, "/api/search?q=Java&page=0&size=5")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")

	assert.JSONEq(t, `{
		"total": 1, "page": 0, "size": 5,
		"courses": [{
			"id": "test1", "title": "Java Programming",
			"description": "Learn Java programming fundamentals",
			"category": "Technology", "type": "COURSE", "gradeRange": "6th-12th",
			"minAge": 11, "maxAge": 18, "price": 250.00,
			"nextSessionDate": "2025-08-15T10:00:00"
		}]
	}`, string(body))
	assert.Contains(t, string(body), `"price":250.00`)
}

func TestSearch_ClampsPageSize(t *testing.T) {
	s := newSeededServer(t)

	resp, body := get(t, s, "/api/search?size=1000")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dtoPage
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, domain.MaxPageSize, out.Size)
}

func TestSearch_RejectsPageBeyondResultWindow(t *testing.T) {
	s := newSeededServer(t)

	for _, target := range []string{
		"/api/search?page=100000000000000000&size=100",
		fmt.Sprintf("/api/search?page=%d&size=10", domain.MaxResultWindow/10),
	} {
		resp, body := get(t, s, target)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode, string(body))

		var errResp dto.ErrorResponse
		require.NoError(t, json.Unmarshal(body, &errResp))
		assert.Equal(t, dto.CodeInvalidInput, errResp.Code)
	}

	resp, body := get(t, s, fmt.Sprintf("/api/search?page=%d&size=10", domain.MaxResultWindow/10-1))
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	total, titles := decodeSearch(t, body)
	assert.Equal(t, int64(2), total)
	assert.Empty(t, titles)
}

type dtoPage struct {
	Page int `json:"page"`
	Size int `json:"size"`
}

func TestSearch_RejectsInvalidParameters(t *testing.T) {
	s := newSeededServer(t)

	tests := []struct {
		name     string
		target   string
		wantCode string
	}{
		{"lowercase type", "/api/search?type=course", dto.CodeValidation},
		{"bad date", "/api/search?startDate=next-week", dto.CodeValidation},
		{"negative age", "/api/search?minAge=-1", dto.CodeValidation},
		{"price text", "/api/search?minPrice=free", dto.CodeValidation},
		{"negative page", "/api/search?page=-1", dto.CodeValidation},
		{"non numeric page", "/api/search?page=first", dto.CodeInvalidParams},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := get(t, s, tt.target)
			require.Equal(t, http.StatusBadRequest, resp.StatusCode, string(body))

			var errResp dto.ErrorResponse
			require.NoError(t, json.Unmarshal(body, &errResp))
			assert.Equal(t, tt.wantCode, errResp.Code)
		})
	}
}

func TestSuggest(t *testing.T) {
	s := newSeededServer(t)

	resp, body := get(t, s, "/api/search/suggest?q=Ja")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.JSONEq(t, `["Java Programming"]`, string(body))

	resp, body = get(t, s, "/api/search/suggest?q=zzzz")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(body))
}

func TestSuggest_RejectsShortInput(t *testing.T) {
	s := newSeededServer(t)

	for _, target := range []string{"/api/search/suggest?q=J", "/api/search/suggest?q=%20J%20", "/api/search/suggest"} {
		t.Run(target, func(t *testing.T) {
			resp, body := get(t, s, target)
			require.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var errResp dto.ErrorResponse
			require.NoError(t, json.Unmarshal(body, &errResp))
			assert.Equal(t, dto.CodeInvalidInput, errResp.Code)
		})
	}
}

// failingIndex returns err from every call.
type failingIndex struct {
	err error
}

func (f *failingIndex) Search(context.Context, domain.IndexSearch) (*domain.HitPage, error) {
	return nil, f.err
}

func (f *failingIndex) EnsureIndex(context.Context) error { return f.err }

func (f *failingIndex) Count(context.Context) (int64, error) { return 0, f.err }

func (f *failingIndex) BulkIndex(context.Context, []*domain.Course) error { return f.err }

func (f *failingIndex) Ping(context.Context) error { return f.err }

func TestSearch_IndexFailures(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"unavailable", fmt.Errorf("%w: connection refused", domain.ErrIndexUnavailable), http.StatusServiceUnavailable, dto.CodeIndexUnavailable},
		{"query failure", fmt.Errorf("%w: parsing_exception", domain.ErrIndexQuery), http.StatusBadGateway, dto.CodeIndexQuery},
		{"unexpected", fmt.Errorf("disk on fire"), http.StatusInternalServerError, dto.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, &failingIndex{err: tt.err})

			for _, target := range []string{"/api/search?q=Java", "/api/search/suggest?q=Ja"} {
				resp, body := get(t, s, target)
				assert.Equal(t, tt.wantStatus, resp.StatusCode, target)

				var errResp dto.ErrorResponse
				require.NoError(t, json.Unmarshal(body, &errResp))
				assert.Equal(t, tt.wantCode, errResp.Code)
				assert.NotContains(t, errResp.Error, "disk on fire", "internal errors are not echoed")
			}
		})
	}
}

func TestProbes(t *testing.T) {
	s := newSeededServer(t)

	resp, _ := get(t, s, "/livez")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = get(t, s, "/readyz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	down := newTestServer(t, &failingIndex{err: domain.ErrIndexUnavailable})
	resp, _ = get(t, down, "/livez")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = get(t, down, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newSeededServer(t)

	get(t, s, "/api/search?q=Java")

	resp, body := get(t, s, "/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "course_search_http_requests_total")
	assert.Contains(t, string(body), `path="/api/search"`)
}

func TestDashboard(t *testing.T) {
	s := newSeededServer(t)

	resp, body := get(t, s, "/dashboard")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, string(body), `<strong id="course-count">2</strong>`)
	assert.Contains(t, string(body), "<option>ONE_TIME</option>")

	resp, _ = get(t, s, "/")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))
}

func TestDashboard_IndexDown(t *testing.T) {
	s := newTestServer(t, &failingIndex{err: domain.ErrIndexUnavailable})

	resp, body := get(t, s, "/dashboard")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "unreachable")
}

func TestUnknownRoute(t *testing.T) {
	s := newSeededServer(t)

	resp, body := get(t, s, "/api/nope")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var errResp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &errResp))
	assert.NotEmpty(t, errResp.Error)
}
