// Package file reads the seed dataset from the bundled sample or a local file.
package file

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"go.uber.org/zap"

	"course-search-service/internal/domain"
	"course-search-service/internal/infra/provider"
)

//go:embed sample-courses.json
var sampleCourses []byte

// SampleCourses returns the bundled dataset as raw JSON.
func SampleCourses() []byte {
	return sampleCourses
}

// Source implements domain.SeedSource over a JSON or YAML document.
type Source struct {
	name   string
	path   string // empty reads the embedded sample
	logger *zap.Logger
}

// NewEmbedded returns a source over the bundled sample dataset.
func NewEmbedded(logger *zap.Logger) *Source {
	return &Source{name: "embedded", logger: logger}
}

// NewFile returns a source over a local .json, .yaml or .yml file.
func NewFile(path string, logger *zap.Logger) (*Source, error) {
	if _, err := provider.FormatFromPath(path); err != nil {
		return nil, err
	}
	return &Source{name: "file", path: path, logger: logger}, nil
}

// Name returns the source identifier.
func (s *Source) Name() string {
	return s.name
}

// Fetch reads and parses the whole dataset.
func (s *Source) Fetch(ctx context.Context) ([]*domain.Course, error) {
	if s.path == "" {
		return provider.DecodeCourses(sampleCourses, provider.FormatJSON)
	}

	format, err := provider.FormatFromPath(s.path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", domain.ErrSeedData, s.path, err)
	}

	courses, err := provider.DecodeCourses(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}

	s.logger.Debug("seed file read",
		zap.String("path", s.path),
		zap.Int("count", len(courses)),
	)

	return courses, nil
}
