// Package migrations versions the course catalog schema with gormigrate.
package migrations

import (
	"fmt"

	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// TableName records which catalog migrations have been applied.
const TableName = "catalog_migrations"

var options = &gormigrate.Options{
	TableName:                 TableName,
	IDColumnName:              "id",
	IDColumnSize:              255,
	UseTransaction:            true,
	ValidateUnknownMigrations: true,
}

// Migrations returns the course catalog migrations in order.
func Migrations() []*gormigrate.Migration {
	return []*gormigrate.Migration{
		createCoursesTable(),
		addCourseIndexes(),
	}
}

// Run applies every pending migration in one transaction. A database that
// carries a migration this binary does not know is refused.
func Run(db *gorm.DB) error {
	if err := gormigrate.New(db, options, Migrations()).Migrate(); err != nil {
		return fmt.Errorf("migrating course catalog: %w", err)
	}
	return nil
}

// Rollback undoes the most recently applied migration.
func Rollback(db *gorm.DB) error {
	if err := gormigrate.New(db, options, Migrations()).RollbackLast(); err != nil {
		return fmt.Errorf("rolling back course catalog: %w", err)
	}
	return nil
}

// Applied lists the ids of applied migrations in id order.
func Applied(db *gorm.DB) ([]string, error) {
	var ids []string
	if err := db.Table(TableName).Order("id").Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("listing catalog migrations: %w", err)
	}
	return ids, nil
}
