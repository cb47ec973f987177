package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"course-search-service/internal/app/service"
	"course-search-service/internal/domain"
)

func TestEmbedded_IsValidDataset(t *testing.T) {
	src := NewEmbedded(zap.NewNop())
	assert.Equal(t, "embedded", src.Name())

	courses, err := src.Fetch(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, courses)

	require.NoError(t, service.Prepare(courses))

	byTitle := map[string]*domain.Course{}
	for _, c := range courses {
		byTitle[c.Title] = c
	}

	java, ok := byTitle["Java Programming"]
	require.True(t, ok)
	assert.Equal(t, domain.CourseTypeCourse, java.Type)
	assert.Equal(t, "250.00", java.Price.StringFixed(2))
	assert.Equal(t, domain.Date(2025, 8, 15, 10, 0, 0), java.NextSessionDate)

	for _, ct := range domain.CourseTypes {
		found := false
		for _, c := range courses {
			if c.Type == ct {
				found = true
				break
			}
		}
		assert.True(t, found, "sample should contain a %s", ct)
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestFile_JSON(t *testing.T) {
	path := writeFile(t, "courses.json", `[
		{"id":"a1","title":"Chess Club","description":"Tactics","category":"Games","type":"CLUB",
		 "gradeRange":"2nd-12th","minAge":7,"maxAge":18,"price":"60.5","nextSessionDate":"2025-08-19T16:00"}
	]`)

	src, err := NewFile(path, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "file", src.Name())

	courses, err := src.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, domain.CourseTypeClub, courses[0].Type)
	assert.Equal(t, "60.50", courses[0].Price.StringFixed(2))
	assert.Equal(t, domain.Date(2025, 8, 19, 16, 0, 0), courses[0].NextSessionDate)
}

func TestFile_YAML(t *testing.T) {
	path := writeFile(t, "courses.yml", `
- id: y1
  title: Swimming Lessons
  description: Stroke technique
  category: Sports
  type: COURSE
  gradeRange: K-5th
  minAge: 5
  maxAge: 10
  price: 199.99
  nextSessionDate: "2025-08-17T11:00:00"
`)

	src, err := NewFile(path, zap.NewNop())
	require.NoError(t, err)

	courses, err := src.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "Swimming Lessons", courses[0].Title)
	assert.Equal(t, "199.99", courses[0].Price.String())
	assert.Equal(t, domain.Date(2025, 8, 17, 11, 0, 0), courses[0].NextSessionDate)
}

func TestFile_Errors(t *testing.T) {
	t.Run("unsupported extension", func(t *testing.T) {
		_, err := NewFile("courses.csv", zap.NewNop())
		assert.ErrorIs(t, err, domain.ErrSeedData)
	})

	t.Run("missing file", func(t *testing.T) {
		src, err := NewFile(filepath.Join(t.TempDir(), "missing.json"), zap.NewNop())
		require.NoError(t, err)
		_, err = src.Fetch(context.Background())
		assert.ErrorIs(t, err, domain.ErrSeedData)
	})

	t.Run("malformed json", func(t *testing.T) {
		src, err := NewFile(writeFile(t, "bad.json", `[{"id":`), zap.NewNop())
		require.NoError(t, err)
		_, err = src.Fetch(context.Background())
		assert.ErrorIs(t, err, domain.ErrSeedData)
	})

	t.Run("unknown type", func(t *testing.T) {
		src, err := NewFile(writeFile(t, "bad.json", `[{"id":"x","title":"X","type":"WORKSHOP","price":1,"nextSessionDate":"2025-01-01T00:00:00"}]`), zap.NewNop())
		require.NoError(t, err)
		_, err = src.Fetch(context.Background())
		assert.ErrorIs(t, err, domain.ErrSeedData)
		assert.ErrorIs(t, err, domain.ErrInvalidCourse)
	})

	t.Run("bad date", func(t *testing.T) {
		src, err := NewFile(writeFile(t, "bad.json", `[{"id":"x","title":"X","type":"CLUB","price":1,"nextSessionDate":"next tuesday"}]`), zap.NewNop())
		require.NoError(t, err)
		_, err = src.Fetch(context.Background())
		assert.ErrorIs(t, err, domain.ErrSeedData)
	})
}
