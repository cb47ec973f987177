package domain

import (
	"github.com/shopspring/decimal"
)

// Pagination defaults and the upper bound callers clamp page size to.
const (
	DefaultPage     = 0
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// SearchRequest holds the optional filters, sort mode and page of a search.
// A nil pointer or empty string means the filter is absent.
type SearchRequest struct {
	// Text search
	Query string

	// Filters
	MinAge    *int
	MaxAge    *int
	Category  string
	Type      CourseType
	MinPrice  *decimal.Decimal
	MaxPrice  *decimal.Decimal
	StartDate *LocalDateTime

	// Sorting
	Sort SortMode

	// Pagination
	Page int // zero-based
	Size int
}

// DefaultSearchRequest returns a browse-all request with default paging.
func DefaultSearchRequest() SearchRequest {
	return SearchRequest{
		Sort: SortUpcoming,
		Page: DefaultPage,
		Size: DefaultPageSize,
	}
}

// Normalize clamps paging into range and fills the default sort.
// This is bound correction, not validation.
func (r *SearchRequest) Normalize() {
	if r.Page < 0 {
		r.Page = DefaultPage
	}
	if r.Size < 1 {
		r.Size = DefaultPageSize
	}
	if r.Size > MaxPageSize {
		r.Size = MaxPageSize
	}
	if r.Sort == "" {
		r.Sort = SortUpcoming
	}
}

// CourseResult is the display projection of a course.
type CourseResult struct {
	ID              string        `json:"id"`
	Title           string        `json:"title"`
	Description     string        `json:"description"`
	Category        string        `json:"category"`
	Type            string        `json:"type"`
	GradeRange      string        `json:"gradeRange"`
	MinAge          int           `json:"minAge"`
	MaxAge          int           `json:"maxAge"`
	Price           Money         `json:"price"`
	NextSessionDate LocalDateTime `json:"nextSessionDate"`
}

// Money is a price rendered as a JSON number with two fraction digits.
type Money struct {
	decimal.Decimal
}

// MarshalJSON implements json.Marshaler.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.StringFixed(2)), nil
}

// SearchResponse is one page of results plus the exact total.
type SearchResponse struct {
	Total   int64          `json:"total"`
	Page    int            `json:"page"`
	Size    int            `json:"size"`
	Courses []CourseResult `json:"courses"`
}
