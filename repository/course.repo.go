package repository

import (
	"context"

	"elearn/models"

	"gorm.io/gorm"
)

// CourseRepository persists courses and maintains the denormalized
// enrollment counter.
type CourseRepository struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// WithTx returns a repository bound to the given transaction handle.
func (r *CourseRepository) WithTx(tx *gorm.DB) *CourseRepository {
	return &CourseRepository{db: tx}
}

func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	if err := r.db.WithContext(ctx).Create(course).Error; err != nil {
		return translateDBError(err)
	}
	return nil
}

func (r *CourseRepository) GetByID(ctx context.Context, id uint) (*models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).Preload("Author").First(&course, id).Error; err != nil {
		return nil, translateDBError(err)
	}
	return &course, nil
}

// CourseFilter carries the catalog listing filters.
type CourseFilter struct {
	Category    string
	Level       string
	AuthorID    uint
	IsPublished *bool
	MinPrice    *float64
	MaxPrice    *float64
	Search      string
	Page        int
	Limit       int
	Sort        string
}

// List returns courses matching the filter with pagination. Search is a plain
// LIKE match on title and description.
func (r *CourseRepository) List(ctx context.Context, filter CourseFilter) ([]models.Course, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Course{})

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Level != "" {
		query = query.Where("level = ?", filter.Level)
	}
	if filter.AuthorID != 0 {
		query = query.Where("author_id = ?", filter.AuthorID)
	}
	if filter.IsPublished != nil {
		query = query.Where("is_published = ?", *filter.IsPublished)
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", *filter.MaxPrice)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateDBError(err)
	}

	sort := filter.Sort
	if sort == "" {
		sort = "created_at desc"
	}

	offset := (filter.Page - 1) * filter.Limit
	var courses []models.Course
	if err := query.Preload("Author").Order(sort).Offset(offset).Limit(filter.Limit).Find(&courses).Error; err != nil {
		return nil, 0, translateDBError(err)
	}
	return courses, total, nil
}

// ListByCategory returns published courses of one category, best-rated and
// most-enrolled first.
func (r *CourseRepository) ListByCategory(ctx context.Context, category string) ([]models.Course, error) {
	var courses []models.Course
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("category = ? AND is_published = ?", category, true).
		Order("rating desc, enrollment_count desc").
		Find(&courses).Error
	if err != nil {
		return nil, translateDBError(err)
	}
	return courses, nil
}

func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	if err := r.db.WithContext(ctx).Save(course).Error; err != nil {
		return translateDBError(err)
	}
	return nil
}

// IncrementEnrollmentCount adds one to the course counter. Must be called in
// the same transaction as the enrollment insert it reflects.
func (r *CourseRepository) IncrementEnrollmentCount(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Model(&models.Course{}).
		Where("id = ?", id).
		UpdateColumn("enrollment_count", gorm.Expr("enrollment_count + 1"))
	if res.Error != nil {
		return translateDBError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DecrementEnrollmentCount subtracts one from the course counter. The counter
// is guarded against going negative; a zero counter that should be decremented
// indicates drift and fails with ErrPreconditionFailed.
func (r *CourseRepository) DecrementEnrollmentCount(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Model(&models.Course{}).
		Where("id = ? AND enrollment_count > 0", id).
		UpdateColumn("enrollment_count", gorm.Expr("enrollment_count - 1"))
	if res.Error != nil {
		return translateDBError(res.Error)
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.Course{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return translateDBError(err)
		}
		if count == 0 {
			return ErrNotFound
		}
		return ErrPreconditionFailed
	}
	return nil
}

// RecountEnrollments recomputes the counter from the actual enrollment rows
// (non-dropped). Used by cascade deletes and the reconciliation job.
func (r *CourseRepository) RecountEnrollments(ctx context.Context, id uint) error {
	sub := r.db.WithContext(ctx).Model(&models.Enrollment{}).
		Select("COUNT(*)").
		Where("course_id = ? AND status <> ?", id, models.EnrollmentDropped)

	res := r.db.WithContext(ctx).Model(&models.Course{}).
		Where("id = ?", id).
		UpdateColumn("enrollment_count", gorm.Expr("(?)", sub))
	if res.Error != nil {
		return translateDBError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteCascade removes the course and all its enrollments in one transaction.
func (r *CourseRepository) DeleteCascade(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var course models.Course
		if err := tx.First(&course, id).Error; err != nil {
			return translateDBError(err)
		}
		if err := tx.Unscoped().Where("course_id = ?", id).Delete(&models.Enrollment{}).Error; err != nil {
			return translateDBError(err)
		}
		if err := tx.Unscoped().Delete(&models.Course{}, id).Error; err != nil {
			return translateDBError(err)
		}
		return nil
	})
}
