// Package dto provides Data Transfer Objects for HTTP requests and responses.
package dto

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"course-search-service/internal/domain"
)

// SearchRequest represents the query parameters of GET /api/search.
// Optional numeric and date filters arrive as strings so that an absent
// parameter stays distinguishable from zero.
type SearchRequest struct {
	Query     string `query:"q" validate:"max=200"`
	MinAge    string `query:"minAge" validate:"omitempty,number"`
	MaxAge    string `query:"maxAge" validate:"omitempty,number"`
	Category  string `query:"category" validate:"max=100"`
	Type      string `query:"type" validate:"omitempty,oneof=COURSE ONE_TIME CLUB"`
	MinPrice  string `query:"minPrice" validate:"omitempty,numeric"`
	MaxPrice  string `query:"maxPrice" validate:"omitempty,numeric"`
	StartDate string `query:"startDate" validate:"omitempty,localdatetime"`
	Sort      string `query:"sort"`
	Page      int    `query:"page" validate:"min=0"`
	Size      int    `query:"size" validate:"omitempty,min=1"`
}

// ToDomain converts the validated parameters to a domain.SearchRequest.
// Unknown sort modes pass through; the sort resolver maps them to upcoming.
func (r *SearchRequest) ToDomain() (domain.SearchRequest, error) {
	req := domain.DefaultSearchRequest()

	req.Query = r.Query
	req.Category = r.Category
	req.Type = domain.CourseType(r.Type)
	req.Page = r.Page
	if r.Size > 0 {
		req.Size = r.Size
	}
	if s := strings.TrimSpace(r.Sort); s != "" {
		req.Sort = domain.SortMode(s)
	}

	var err error
	if req.MinAge, err = optionalInt("minAge", r.MinAge); err != nil {
		return req, err
	}
	if req.MaxAge, err = optionalInt("maxAge", r.MaxAge); err != nil {
		return req, err
	}
	if req.MinPrice, err = optionalDecimal("minPrice", r.MinPrice); err != nil {
		return req, err
	}
	if req.MaxPrice, err = optionalDecimal("maxPrice", r.MaxPrice); err != nil {
		return req, err
	}

	if r.StartDate != "" {
		d, err := domain.ParseLocalDateTime(r.StartDate)
		if err != nil {
			return req, err
		}
		req.StartDate = &d
	}

	return req, nil
}

func optionalInt(name, s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s=%q is not an integer", domain.ErrInvalidInput, name, s)
	}
	return &n, nil
}

func optionalDecimal(name, s string) (*decimal.Decimal, error) {
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s=%q is not a number", domain.ErrInvalidInput, name, s)
	}
	return &d, nil
}

// SuggestRequest represents the query parameters of GET /api/search/suggest.
// The minimum length is enforced on the trimmed text by the search service.
type SuggestRequest struct {
	Query string `query:"q" validate:"max=200"`
}
