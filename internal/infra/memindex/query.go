package memindex

import (
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"course-search-service/internal/domain"
)

// translate renders an IndexQuery as a bleve query. Text clauses become a
// disjunction of per-term, per-field term or fuzzy queries; filters are
// ANDed with them.
func (ix *Index) translate(q domain.IndexQuery) query.Query {
	if q.MatchAll() {
		return bleve.NewMatchAllQuery()
	}

	clauses := make([]query.Query, 0, len(q.Must)+len(q.Filters))
	for _, m := range q.Must {
		clauses = append(clauses, ix.textQuery(m))
	}
	for _, f := range q.Filters {
		clauses = append(clauses, filterQuery(f))
	}

	if len(clauses) == 1 {
		return clauses[0]
	}
	return bleve.NewConjunctionQuery(clauses...)
}

func (ix *Index) textQuery(m domain.TextMatch) query.Query {
	terms := ix.analyze(m)
	if len(terms) == 0 {
		return bleve.NewMatchNoneQuery()
	}

	disjuncts := make([]query.Query, 0, len(terms)*len(m.Fields))
	for _, field := range m.Fields {
		for _, term := range terms {
			disjuncts = append(disjuncts, termQuery(field, term, editDistance(m.Fuzziness, term)))
		}
	}

	return bleve.NewDisjunctionQuery(disjuncts...)
}

// analyze tokenizes the query text the way plain text fields are indexed.
func (ix *Index) analyze(m domain.TextMatch) []string {
	analyzer := ix.mapping.AnalyzerNamed(plainAnalyzer)
	if analyzer == nil {
		return m.Terms()
	}

	tokens := analyzer.Analyze([]byte(m.Query))
	terms := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		terms = append(terms, string(tok.Term))
	}
	return terms
}

func editDistance(f domain.Fuzziness, term string) int {
	if f != domain.FuzzinessAuto {
		return 0
	}
	return domain.AutoFuzziness(term)
}

func termQuery(field domain.FieldBoost, term string, edits int) query.Query {
	boost := field.Boost
	if boost == 0 {
		boost = 1
	}

	if edits == 0 {
		q := bleve.NewTermQuery(term)
		q.SetField(field.Field)
		q.SetBoost(boost)
		return q
	}

	q := bleve.NewFuzzyQuery(term)
	q.SetField(field.Field)
	q.SetFuzziness(edits)
	q.SetBoost(boost)
	return q
}

func filterQuery(f domain.Filter) query.Query {
	switch f := f.(type) {
	case domain.TermFilter:
		q := bleve.NewTermQuery(f.Value)
		q.SetField(f.Field)
		return q
	case domain.RangeFilter:
		return rangeQuery(f)
	default:
		panic("memindex: unsupported filter type")
	}
}

func rangeQuery(f domain.RangeFilter) query.Query {
	inclusive := true

	start, startIsTime := f.GTE.(domain.TimeBound)
	end, endIsTime := f.LTE.(domain.TimeBound)
	if startIsTime || endIsTime {
		var from, to time.Time
		if startIsTime {
			from = start.Time
		}
		if endIsTime {
			to = end.Time
		}
		q := bleve.NewDateRangeInclusiveQuery(from, to, &inclusive, &inclusive)
		q.SetField(f.Field)
		return q
	}

	q := bleve.NewNumericRangeInclusiveQuery(numeric(f.GTE), numeric(f.LTE), &inclusive, &inclusive)
	q.SetField(f.Field)
	return q
}

func numeric(b domain.Bound) *float64 {
	var v float64
	switch b := b.(type) {
	case domain.IntBound:
		v = float64(b)
	case domain.DecimalBound:
		v = b.InexactFloat64()
	default:
		return nil
	}
	return &v
}

// sortOrder appends score and id tie-breakers to the resolved sort.
func sortOrder(s *domain.Sort) []string {
	order := make([]string, 0, 3)
	if s != nil {
		field := s.Field
		if s.Order == domain.SortOrderDesc {
			field = "-" + field
		}
		order = append(order, field)
	}
	return append(order, "-_score", "_id")
}
