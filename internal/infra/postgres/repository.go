package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"course-search-service/internal/domain"
)

const upsertBatchSize = 100

// Repository is the course catalog table. It implements domain.SeedSource.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Name returns the seed source identifier.
func (r *Repository) Name() string {
	return "postgres"
}

// Fetch returns every course in the catalog ordered by id.
func (r *Repository) Fetch(ctx context.Context) ([]*domain.Course, error) {
	var models []CourseModel
	if err := r.db.WithContext(ctx).Order("id").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("%w: reading catalog: %w", domain.ErrSeedData, err)
	}

	courses := make([]*domain.Course, len(models))
	for i := range models {
		courses[i] = models[i].ToDomain()
	}

	return courses, nil
}

// Count returns the number of catalog rows.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&CourseModel{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("counting courses: %w", err)
	}

	return count, nil
}

// BulkUpsert creates or replaces courses keyed by id.
func (r *Repository) BulkUpsert(ctx context.Context, courses []*domain.Course) error {
	if len(courses) == 0 {
		return nil
	}

	now := time.Now().UTC()
	models := make([]*CourseModel, len(courses))
	for i, c := range courses {
		models[i] = FromDomain(c)
		models[i].UpdatedAt = now
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "description", "category", "type", "grade_range",
			"min_age", "max_age", "price", "next_session_date", "updated_at",
		}),
	}).CreateInBatches(models, upsertBatchSize).Error
	if err != nil {
		return fmt.Errorf("bulk upserting courses: %w", err)
	}

	return nil
}
