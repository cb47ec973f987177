// Package domain contains the course catalog model and the pure query,
// sort, mapping and suggestion logic. It has no infrastructure imports.
package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// CourseType represents the kind of offering.
type CourseType string

const (
	CourseTypeCourse  CourseType = "COURSE"
	CourseTypeOneTime CourseType = "ONE_TIME"
	CourseTypeClub    CourseType = "CLUB"
)

// CourseTypes lists every valid course type in declaration order.
var CourseTypes = []CourseType{CourseTypeCourse, CourseTypeOneTime, CourseTypeClub}

// Valid reports whether t is one of the known course types.
func (t CourseType) Valid() bool {
	switch t {
	case CourseTypeCourse, CourseTypeOneTime, CourseTypeClub:
		return true
	}
	return false
}

// String returns the display form, which is the enum name.
func (t CourseType) String() string {
	return string(t)
}

// ParseCourseType converts s into a CourseType. Matching is case-sensitive.
func ParseCourseType(s string) (CourseType, error) {
	t := CourseType(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: unknown course type %q", ErrInvalidCourse, s)
	}
	return t, nil
}

// DefaultSuggestionWeight is the completion weight given to every seeded course.
const DefaultSuggestionWeight = 1

// Completion is the autocomplete payload stored alongside a course.
type Completion struct {
	Input  []string
	Weight int
}

// NewCompletion builds the completion payload for a title.
func NewCompletion(title string) *Completion {
	return &Completion{
		Input:  []string{title},
		Weight: DefaultSuggestionWeight,
	}
}

// Course is a single indexed course offering.
type Course struct {
	ID              string
	Title           string
	Description     string
	Category        string
	Type            CourseType
	GradeRange      string
	MinAge          int
	MaxAge          int
	Price           decimal.Decimal
	NextSessionDate LocalDateTime
	Suggest         *Completion
}

// Validate checks the document invariants enforced before indexing.
func (c *Course) Validate() error {
	switch {
	case strings.TrimSpace(c.ID) == "":
		return fmt.Errorf("%w: id is required", ErrInvalidCourse)
	case strings.TrimSpace(c.Title) == "":
		return fmt.Errorf("%w: course %s: title is required", ErrInvalidCourse, c.ID)
	case !c.Type.Valid():
		return fmt.Errorf("%w: course %s: unknown type %q", ErrInvalidCourse, c.ID, c.Type)
	case c.MinAge < 0:
		return fmt.Errorf("%w: course %s: minAge must not be negative", ErrInvalidCourse, c.ID)
	case c.MinAge > c.MaxAge:
		return fmt.Errorf("%w: course %s: minAge %d exceeds maxAge %d", ErrInvalidCourse, c.ID, c.MinAge, c.MaxAge)
	case c.Price.IsNegative():
		return fmt.Errorf("%w: course %s: price must not be negative", ErrInvalidCourse, c.ID)
	case c.NextSessionDate.IsZero():
		return fmt.Errorf("%w: course %s: nextSessionDate is required", ErrInvalidCourse, c.ID)
	}
	return nil
}
