package domain

import (
	"errors"
	"testing"
)

func TestResolveSort(t *testing.T) {
	tests := []struct {
		mode     SortMode
		expected Sort
	}{
		{SortUpcoming, Sort{FieldNextSessionDate, SortOrderAsc}},
		{SortPriceAsc, Sort{FieldPrice, SortOrderAsc}},
		{SortPriceDesc, Sort{FieldPrice, SortOrderDesc}},
		{"", Sort{FieldNextSessionDate, SortOrderAsc}},
		{"relevance", Sort{FieldNextSessionDate, SortOrderAsc}},
		{"PRICEASC", Sort{FieldNextSessionDate, SortOrderAsc}},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			if got := ResolveSort(tt.mode); got != tt.expected {
				t.Errorf("ResolveSort(%q) = %+v, want %+v", tt.mode, got, tt.expected)
			}
		})
	}
}

func TestSearchRequest_Normalize(t *testing.T) {
	tests := []struct {
		name         string
		req          SearchRequest
		expectedPage int
		expectedSize int
		expectedSort SortMode
	}{
		{"zero value", SearchRequest{}, 0, 10, SortUpcoming},
		{"negative page", SearchRequest{Page: -3, Size: 5}, 0, 5, SortUpcoming},
		{"size clamped", SearchRequest{Page: 2, Size: 500, Sort: SortPriceAsc}, 2, 100, SortPriceAsc},
		{"kept as is", SearchRequest{Page: 4, Size: 25, Sort: "bogus"}, 4, 25, "bogus"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			req.Normalize()
			if req.Page != tt.expectedPage || req.Size != tt.expectedSize || req.Sort != tt.expectedSort {
				t.Errorf("got page=%d size=%d sort=%q", req.Page, req.Size, req.Sort)
			}
		})
	}
}

func TestIndexSearch_Offset(t *testing.T) {
	tests := []struct {
		name     string
		search   IndexSearch
		expected int
		wantErr  bool
	}{
		{"first page", IndexSearch{Page: 0, Size: 10}, 0, false},
		{"third page", IndexSearch{Page: 3, Size: 10}, 30, false},
		{"zero size", IndexSearch{Page: 7}, 0, false},
		{"last page in window", IndexSearch{Page: (MaxResultWindow - 100) / 100, Size: 100}, (MaxResultWindow - 100) / 100 * 100, false},
		{"one past the window", IndexSearch{Page: (MaxResultWindow-100)/100 + 1, Size: 100}, 0, true},
		{"would overflow int", IndexSearch{Page: 100000000000000000, Size: 100}, 0, true},
		{"negative page", IndexSearch{Page: -1, Size: 10}, 0, true},
		{"size beyond window", IndexSearch{Page: 1, Size: MaxResultWindow}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.search.Offset()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidInput) {
					t.Errorf("expected ErrInvalidInput, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("expected offset %d, got %d", tt.expected, got)
			}
		})
	}
}
