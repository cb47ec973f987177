package memindex

import (
	"fmt"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/token/edgengram"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/unicode"
	"github.com/blevesearch/bleve/v2/mapping"

	"course-search-service/internal/domain"
)

const (
	// plainAnalyzer splits on word boundaries and lowercases, with no stop words.
	plainAnalyzer = "plain"
	// autocompleteAnalyzer additionally emits 2..20 character edge n-grams.
	autocompleteAnalyzer = "autocomplete"
	autocompleteFilter   = "autocomplete_filter"
)

// buildIndexMapping mirrors the Elasticsearch course mapping: title is
// indexed as edge n-grams but queried with plainAnalyzer.
func buildIndexMapping() (mapping.IndexMapping, error) {
	indexMapping := bleve.NewIndexMapping()

	if err := indexMapping.AddCustomTokenFilter(autocompleteFilter, map[string]interface{}{
		"type": edgengram.Name,
		"min":  2.0,
		"max":  20.0,
	}); err != nil {
		return nil, fmt.Errorf("registering %s: %w", autocompleteFilter, err)
	}

	if err := indexMapping.AddCustomAnalyzer(plainAnalyzer, map[string]interface{}{
		"type":          custom.Name,
		"tokenizer":     unicode.Name,
		"token_filters": []string{lowercase.Name},
	}); err != nil {
		return nil, fmt.Errorf("registering %s: %w", plainAnalyzer, err)
	}

	if err := indexMapping.AddCustomAnalyzer(autocompleteAnalyzer, map[string]interface{}{
		"type":          custom.Name,
		"tokenizer":     unicode.Name,
		"token_filters": []string{lowercase.Name, autocompleteFilter},
	}); err != nil {
		return nil, fmt.Errorf("registering %s: %w", autocompleteAnalyzer, err)
	}

	indexMapping.DefaultAnalyzer = plainAnalyzer

	docMapping := bleve.NewDocumentMapping()

	title := bleve.NewTextFieldMapping()
	title.Analyzer = autocompleteAnalyzer
	docMapping.AddFieldMappingsAt(domain.FieldTitle, title)

	description := bleve.NewTextFieldMapping()
	description.Analyzer = plainAnalyzer
	docMapping.AddFieldMappingsAt(domain.FieldDescription, description)

	for _, field := range []string{domain.FieldID, domain.FieldCategory, domain.FieldType, domain.FieldGradeRange} {
		kw := bleve.NewTextFieldMapping()
		kw.Analyzer = keyword.Name
		docMapping.AddFieldMappingsAt(field, kw)
	}

	for _, field := range []string{domain.FieldMinAge, domain.FieldMaxAge, domain.FieldPrice} {
		docMapping.AddFieldMappingsAt(field, bleve.NewNumericFieldMapping())
	}

	docMapping.AddFieldMappingsAt(domain.FieldNextSessionDate, bleve.NewDateTimeFieldMapping())

	indexMapping.DefaultMapping = docMapping

	return indexMapping, nil
}

// document is the field set handed to bleve for one course.
func document(c *domain.Course) map[string]interface{} {
	return map[string]interface{}{
		domain.FieldID:              c.ID,
		domain.FieldTitle:           c.Title,
		domain.FieldDescription:     c.Description,
		domain.FieldCategory:        c.Category,
		domain.FieldType:            string(c.Type),
		domain.FieldGradeRange:      c.GradeRange,
		domain.FieldMinAge:          float64(c.MinAge),
		domain.FieldMaxAge:          float64(c.MaxAge),
		domain.FieldPrice:           c.Price.InexactFloat64(),
		domain.FieldNextSessionDate: c.NextSessionDate.Time,
	}
}
