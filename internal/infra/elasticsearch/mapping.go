package elasticsearch

import "course-search-service/internal/domain"

// Title terms are indexed as edge n-grams (2..20) and searched with the
// standard analyzer, so a two-letter fragment matches whole titles exactly.
const (
	autocompleteAnalyzer = "autocomplete"
	autocompleteFilter   = "autocomplete_filter"
	autocompleteMinGram  = 2
	autocompleteMaxGram  = 20
)

func keyword() map[string]any { return map[string]any{"type": "keyword"} }

// IndexDefinition returns the settings and mappings used to create the index.
func IndexDefinition() map[string]any {
	return map[string]any{
		"settings": map[string]any{
			"analysis": map[string]any{
				"filter": map[string]any{
					autocompleteFilter: map[string]any{
						"type":     "edge_ngram",
						"min_gram": autocompleteMinGram,
						"max_gram": autocompleteMaxGram,
					},
				},
				"analyzer": map[string]any{
					autocompleteAnalyzer: map[string]any{
						"type":      "custom",
						"tokenizer": "standard",
						"filter":    []string{"lowercase", autocompleteFilter},
					},
				},
			},
		},
		"mappings": map[string]any{
			"properties": map[string]any{
				domain.FieldID: keyword(),
				domain.FieldTitle: map[string]any{
					"type":            "text",
					"analyzer":        autocompleteAnalyzer,
					"search_analyzer": "standard",
					"fields": map[string]any{
						"keyword": keyword(),
					},
				},
				domain.FieldDescription: map[string]any{"type": "text"},
				domain.FieldCategory:    keyword(),
				domain.FieldType:        keyword(),
				domain.FieldGradeRange:  keyword(),
				domain.FieldMinAge:      map[string]any{"type": "integer"},
				domain.FieldMaxAge:      map[string]any{"type": "integer"},
				domain.FieldPrice: map[string]any{
					"type":           "scaled_float",
					"scaling_factor": 100,
				},
				domain.FieldNextSessionDate: map[string]any{
					"type":   "date",
					"format": "date_hour_minute_second||strict_date_optional_time",
				},
				domain.FieldSuggest: map[string]any{"type": "completion"},
			},
		},
	}
}
