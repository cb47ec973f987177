package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// createCoursesTable creates the course catalog table.
func createCoursesTable() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "001_create_courses",
		Migrate: func(tx *gorm.DB) error {
			return tx.Exec(`
				CREATE TABLE IF NOT EXISTS courses (
					id VARCHAR(64) PRIMARY KEY,
					title VARCHAR(500) NOT NULL,
					description TEXT,
					category VARCHAR(100) NOT NULL,
					type VARCHAR(20) NOT NULL,
					grade_range VARCHAR(50),
					min_age INTEGER NOT NULL,
					max_age INTEGER NOT NULL,
					price DECIMAL(10,2) NOT NULL,
					next_session_date TIMESTAMP NOT NULL,

					created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,

					CONSTRAINT chk_courses_type CHECK (type IN ('COURSE', 'ONE_TIME', 'CLUB')),
					CONSTRAINT chk_courses_ages CHECK (min_age >= 0 AND min_age <= max_age),
					CONSTRAINT chk_courses_price CHECK (price >= 0)
				);
			`).Error
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Exec("DROP TABLE IF EXISTS courses;").Error
		},
	}
}
