package elasticsearch

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"course-search-service/internal/domain"
)

// document is the _source shape stored in the index.
type document struct {
	ID              string               `json:"id"`
	Title           string               `json:"title"`
	Description     string               `json:"description"`
	Category        string               `json:"category"`
	Type            string               `json:"type"`
	GradeRange      string               `json:"gradeRange"`
	MinAge          int                  `json:"minAge"`
	MaxAge          int                  `json:"maxAge"`
	Price           json.Number          `json:"price"`
	NextSessionDate domain.LocalDateTime `json:"nextSessionDate"`
	Suggest         *completion          `json:"suggest,omitempty"`
}

type completion struct {
	Input  []string `json:"input"`
	Weight int      `json:"weight"`
}

func fromDomain(c *domain.Course) document {
	doc := document{
		ID:              c.ID,
		Title:           c.Title,
		Description:     c.Description,
		Category:        c.Category,
		Type:            string(c.Type),
		GradeRange:      c.GradeRange,
		MinAge:          c.MinAge,
		MaxAge:          c.MaxAge,
		Price:           json.Number(c.Price.StringFixed(2)),
		NextSessionDate: c.NextSessionDate,
	}
	if c.Suggest != nil {
		doc.Suggest = &completion{Input: c.Suggest.Input, Weight: c.Suggest.Weight}
	}
	return doc
}

func (d *document) toDomain() (*domain.Course, error) {
	price, err := decimal.NewFromString(string(d.Price))
	if err != nil {
		return nil, fmt.Errorf("decoding price of %s: %w", d.ID, err)
	}

	c := &domain.Course{
		ID:              d.ID,
		Title:           d.Title,
		Description:     d.Description,
		Category:        d.Category,
		Type:            domain.CourseType(d.Type),
		GradeRange:      d.GradeRange,
		MinAge:          d.MinAge,
		MaxAge:          d.MaxAge,
		Price:           price,
		NextSessionDate: d.NextSessionDate,
	}
	if d.Suggest != nil {
		c.Suggest = &domain.Completion{Input: d.Suggest.Input, Weight: d.Suggest.Weight}
	}
	return c, nil
}

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []struct {
			ID     string   `json:"_id"`
			Score  *float64 `json:"_score"`
			Source document `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

type countResponse struct {
	Count int64 `json:"count"`
}

type bulkResponse struct {
	Errors bool `json:"errors"`
	Items  []map[string]struct {
		ID     string     `json:"_id"`
		Status int        `json:"status"`
		Error  *errorBody `json:"error,omitempty"`
	} `json:"items"`
}

type errorBody struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

type errorResponse struct {
	Error  errorBody `json:"error"`
	Status int       `json:"status"`
}
