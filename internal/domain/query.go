package domain

import (
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Indexed field names shared by every engine adapter.
const (
	FieldID              = "id"
	FieldTitle           = "title"
	FieldDescription     = "description"
	FieldCategory        = "category"
	FieldType            = "type"
	FieldGradeRange      = "gradeRange"
	FieldMinAge          = "minAge"
	FieldMaxAge          = "maxAge"
	FieldPrice           = "price"
	FieldNextSessionDate = "nextSessionDate"
	FieldSuggest         = "suggest"
)

// Fuzziness names an edit-distance policy understood by the index.
type Fuzziness string

// FuzzinessAuto allows 0 edits for terms of length <=2, 1 for 3-5 and 2 above.
const FuzzinessAuto Fuzziness = "AUTO"

// AutoFuzziness returns the edit distance allowed for term under FuzzinessAuto.
func AutoFuzziness(term string) int {
	switch n := utf8.RuneCountInString(term); {
	case n <= 2:
		return 0
	case n <= 5:
		return 1
	default:
		return 2
	}
}

// FieldBoost is a searchable field and its relevance weight.
type FieldBoost struct {
	Field string
	Boost float64
}

// TextFields are the fields a text query is matched against; title counts double.
var TextFields = []FieldBoost{
	{Field: FieldTitle, Boost: 2},
	{Field: FieldDescription, Boost: 1},
}

// TextMatch is a scored, fuzzy, multi-field free-text clause.
type TextMatch struct {
	Query     string
	Fields    []FieldBoost
	Fuzziness Fuzziness
}

// NewTextMatch builds the standard weighted fuzzy match for text.
func NewTextMatch(text string) TextMatch {
	return TextMatch{
		Query:     text,
		Fields:    TextFields,
		Fuzziness: FuzzinessAuto,
	}
}

// Terms splits the query into lowercase whitespace-separated terms.
func (m TextMatch) Terms() []string {
	return strings.Fields(strings.ToLower(m.Query))
}

// Filter is a non-scoring clause: TermFilter or RangeFilter.
type Filter interface {
	filterField() string
}

// TermFilter matches documents whose field equals Value exactly.
type TermFilter struct {
	Field string
	Value string
}

func (f TermFilter) filterField() string { return f.Field }

// RangeFilter matches documents whose field lies within the inclusive bounds.
// A nil bound is open.
type RangeFilter struct {
	Field string
	GTE   Bound
	LTE   Bound
}

func (f RangeFilter) filterField() string { return f.Field }

// Bound is a typed range endpoint: IntBound, DecimalBound or TimeBound.
type Bound interface {
	bound()
}

// IntBound is an integer range endpoint.
type IntBound int

// DecimalBound is an exact decimal range endpoint.
type DecimalBound struct{ decimal.Decimal }

// TimeBound is a zone-free timestamp range endpoint.
type TimeBound struct{ LocalDateTime }

func (IntBound) bound()     {}
func (DecimalBound) bound() {}
func (TimeBound) bound()    {}

// IndexQuery is the engine-neutral composite query: every Must clause is
// scored and every Filter must hold. An empty query matches all documents.
type IndexQuery struct {
	Must    []TextMatch
	Filters []Filter
}

// MatchAll reports whether the query has no clauses.
func (q IndexQuery) MatchAll() bool {
	return len(q.Must) == 0 && len(q.Filters) == 0
}

// BuildQuery composes the conjunction of every clause present in req.
// It performs no parsing: absent means nil pointer or blank string.
func BuildQuery(req SearchRequest) IndexQuery {
	var q IndexQuery

	if text := strings.TrimSpace(req.Query); text != "" {
		q.Must = append(q.Must, NewTextMatch(text))
	}

	// Age overlap: course.maxAge >= minAge and course.minAge <= maxAge.
	if req.MinAge != nil {
		q.Filters = append(q.Filters, RangeFilter{Field: FieldMaxAge, GTE: IntBound(*req.MinAge)})
	}
	if req.MaxAge != nil {
		q.Filters = append(q.Filters, RangeFilter{Field: FieldMinAge, LTE: IntBound(*req.MaxAge)})
	}

	if strings.TrimSpace(req.Category) != "" {
		q.Filters = append(q.Filters, TermFilter{Field: FieldCategory, Value: req.Category})
	}
	if strings.TrimSpace(string(req.Type)) != "" {
		q.Filters = append(q.Filters, TermFilter{Field: FieldType, Value: string(req.Type)})
	}

	if req.MinPrice != nil || req.MaxPrice != nil {
		price := RangeFilter{Field: FieldPrice}
		if req.MinPrice != nil {
			price.GTE = DecimalBound{*req.MinPrice}
		}
		if req.MaxPrice != nil {
			price.LTE = DecimalBound{*req.MaxPrice}
		}
		q.Filters = append(q.Filters, price)
	}

	if req.StartDate != nil {
		q.Filters = append(q.Filters, RangeFilter{Field: FieldNextSessionDate, GTE: TimeBound{*req.StartDate}})
	}

	return q
}
