package elasticsearch

import (
	"encoding/json"
	"strconv"

	"course-search-service/internal/domain"
)

// EncodeQuery renders an IndexQuery as Elasticsearch query DSL.
// An empty query becomes match_all; otherwise text clauses go to bool.must
// and every filter to bool.filter so they do not affect scoring.
func EncodeQuery(q domain.IndexQuery) map[string]any {
	if q.MatchAll() {
		return map[string]any{"match_all": map[string]any{}}
	}

	boolQuery := map[string]any{}

	if len(q.Must) > 0 {
		must := make([]any, 0, len(q.Must))
		for _, m := range q.Must {
			must = append(must, encodeTextMatch(m))
		}
		boolQuery["must"] = must
	}

	if len(q.Filters) > 0 {
		filters := make([]any, 0, len(q.Filters))
		for _, f := range q.Filters {
			filters = append(filters, encodeFilter(f))
		}
		boolQuery["filter"] = filters
	}

	return map[string]any{"bool": boolQuery}
}

func encodeTextMatch(m domain.TextMatch) map[string]any {
	fields := make([]string, 0, len(m.Fields))
	for _, f := range m.Fields {
		fields = append(fields, fieldWithBoost(f))
	}

	multiMatch := map[string]any{
		"query":  m.Query,
		"fields": fields,
	}
	if m.Fuzziness != "" {
		multiMatch["fuzziness"] = string(m.Fuzziness)
	}

	return map[string]any{"multi_match": multiMatch}
}

// fieldWithBoost renders "title^2"; a boost of 1 is left implicit.
func fieldWithBoost(f domain.FieldBoost) string {
	if f.Boost == 0 || f.Boost == 1 {
		return f.Field
	}
	return f.Field + "^" + strconv.FormatFloat(f.Boost, 'f', -1, 64)
}

func encodeFilter(f domain.Filter) map[string]any {
	switch f := f.(type) {
	case domain.TermFilter:
		return map[string]any{"term": map[string]any{f.Field: f.Value}}
	case domain.RangeFilter:
		bounds := map[string]any{}
		if f.GTE != nil {
			bounds["gte"] = encodeBound(f.GTE)
		}
		if f.LTE != nil {
			bounds["lte"] = encodeBound(f.LTE)
		}
		return map[string]any{"range": map[string]any{f.Field: bounds}}
	default:
		panic("elasticsearch: unsupported filter type")
	}
}

func encodeBound(b domain.Bound) any {
	switch b := b.(type) {
	case domain.IntBound:
		return int(b)
	case domain.DecimalBound:
		// keep exact cents on the wire
		return json.Number(b.String())
	case domain.TimeBound:
		return b.String()
	default:
		panic("elasticsearch: unsupported range bound")
	}
}

// encodeSort renders the resolved sort followed by score and id tie-breakers
// so equal keys still page deterministically. A nil sort orders by score.
func encodeSort(s *domain.Sort) []any {
	sorts := make([]any, 0, 3)
	if s != nil {
		sorts = append(sorts, map[string]any{s.Field: map[string]any{"order": string(s.Order)}})
	}
	sorts = append(sorts,
		map[string]any{"_score": map[string]any{"order": "desc"}},
		map[string]any{domain.FieldID: map[string]any{"order": "asc"}},
	)
	return sorts
}

// SearchBody builds the full _search request body.
func SearchBody(s domain.IndexSearch) (map[string]any, error) {
	from, err := s.Offset()
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"query":            EncodeQuery(s.Query),
		"from":             from,
		"size":             s.Size,
		"sort":             encodeSort(s.Sort),
		"track_total_hits": true,
		"track_scores":     true,
	}, nil
}
