package provider

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"course-search-service/internal/domain"
)

// Seed payload formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// CourseRecord is one course in a seed payload (file or remote endpoint).
type CourseRecord struct {
	ID              string               `json:"id" yaml:"id"`
	Title           string               `json:"title" yaml:"title"`
	Description     string               `json:"description" yaml:"description"`
	Category        string               `json:"category" yaml:"category"`
	Type            string               `json:"type" yaml:"type"`
	GradeRange      string               `json:"gradeRange" yaml:"gradeRange"`
	MinAge          int                  `json:"minAge" yaml:"minAge"`
	MaxAge          int                  `json:"maxAge" yaml:"maxAge"`
	Price           decimal.Decimal      `json:"price" yaml:"price"`
	NextSessionDate domain.LocalDateTime `json:"nextSessionDate" yaml:"nextSessionDate"`
}

// ToDomain converts the record to a course. Only the type is checked here;
// the loader validates the remaining invariants.
func (r *CourseRecord) ToDomain() (*domain.Course, error) {
	courseType, err := domain.ParseCourseType(r.Type)
	if err != nil {
		return nil, fmt.Errorf("course %s: %w", r.ID, err)
	}

	return &domain.Course{
		ID:              r.ID,
		Title:           r.Title,
		Description:     r.Description,
		Category:        r.Category,
		Type:            courseType,
		GradeRange:      r.GradeRange,
		MinAge:          r.MinAge,
		MaxAge:          r.MaxAge,
		Price:           r.Price,
		NextSessionDate: r.NextSessionDate,
	}, nil
}

// FormatFromPath picks the payload format from a file extension.
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: unsupported seed file extension %q", domain.ErrSeedData, filepath.Ext(path))
	}
}

// DecodeCourses parses a top-level array of course records.
func DecodeCourses(data []byte, format string) ([]*domain.Course, error) {
	var records []CourseRecord

	switch format {
	case FormatJSON:
		if err := json.NewDecoder(bytes.NewReader(data)).Decode(&records); err != nil {
			return nil, fmt.Errorf("%w: decoding json: %w", domain.ErrSeedData, err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("%w: decoding yaml: %w", domain.ErrSeedData, err)
		}
	default:
		return nil, fmt.Errorf("%w: unknown format %q", domain.ErrSeedData, format)
	}

	return ToCourses(records)
}

// ToCourses converts records, stopping at the first invalid one.
func ToCourses(records []CourseRecord) ([]*domain.Course, error) {
	courses := make([]*domain.Course, 0, len(records))
	for i := range records {
		c, err := records[i].ToDomain()
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %w", domain.ErrSeedData, i, err)
		}
		courses = append(courses, c)
	}
	return courses, nil
}
