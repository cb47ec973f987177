package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// addCourseIndexes indexes the columns catalog exports filter and order on.
func addCourseIndexes() *gormigrate.Migration {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_courses_category ON courses(category);",
		"CREATE INDEX IF NOT EXISTS idx_courses_type ON courses(type);",
		"CREATE INDEX IF NOT EXISTS idx_courses_next_session_date ON courses(next_session_date);",
	}

	return &gormigrate.Migration{
		ID: "002_add_course_indexes",
		Migrate: func(tx *gorm.DB) error {
			for _, idx := range indexes {
				if err := tx.Exec(idx).Error; err != nil {
					return err
				}
			}
			return nil
		},
		Rollback: func(tx *gorm.DB) error {
			for _, name := range []string{"idx_courses_category", "idx_courses_type", "idx_courses_next_session_date"} {
				if err := tx.Exec("DROP INDEX IF EXISTS " + name).Error; err != nil {
					return err
				}
			}
			return nil
		},
	}
}
