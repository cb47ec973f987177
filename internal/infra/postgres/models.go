package postgres

import (
	"time"

	"github.com/shopspring/decimal"

	"course-search-service/internal/domain"
)

// CourseModel is the GORM model for the courses table.
type CourseModel struct {
	ID              string          `gorm:"type:varchar(64);primaryKey"`
	Title           string          `gorm:"type:varchar(500);not null"`
	Description     string          `gorm:"type:text"`
	Category        string          `gorm:"type:varchar(100);not null;index"`
	Type            string          `gorm:"type:varchar(20);not null;index"`
	GradeRange      string          `gorm:"type:varchar(50)"`
	MinAge          int             `gorm:"not null"`
	MaxAge          int             `gorm:"not null"`
	Price           decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	NextSessionDate time.Time       `gorm:"type:timestamp;not null;index"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the table name for CourseModel.
func (CourseModel) TableName() string {
	return "courses"
}

// ToDomain converts CourseModel to domain.Course.
func (m *CourseModel) ToDomain() *domain.Course {
	return &domain.Course{
		ID:              m.ID,
		Title:           m.Title,
		Description:     m.Description,
		Category:        m.Category,
		Type:            domain.CourseType(m.Type),
		GradeRange:      m.GradeRange,
		MinAge:          m.MinAge,
		MaxAge:          m.MaxAge,
		Price:           m.Price,
		NextSessionDate: domain.NewLocalDateTime(m.NextSessionDate),
	}
}

// FromDomain creates a CourseModel from domain.Course.
func FromDomain(c *domain.Course) *CourseModel {
	return &CourseModel{
		ID:              c.ID,
		Title:           c.Title,
		Description:     c.Description,
		Category:        c.Category,
		Type:            string(c.Type),
		GradeRange:      c.GradeRange,
		MinAge:          c.MinAge,
		MaxAge:          c.MaxAge,
		Price:           c.Price.Round(2),
		NextSessionDate: c.NextSessionDate.Time,
	}
}
