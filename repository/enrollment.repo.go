package repository

import (
	"context"
	"time"

	"elearn/models"

	"gorm.io/gorm"
)

// EnrollmentRepository persists enrollments. Status changes are conditional
// single-statement updates so concurrent callers cannot race a transition past
// a terminal state, and the progress=100 auto-completion is applied in the
// same UPDATE as the progress write.
type EnrollmentRepository struct {
	db *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// WithTx returns a repository bound to the given transaction handle.
func (r *EnrollmentRepository) WithTx(tx *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: tx}
}

// Create inserts a new enrollment. A duplicate (student, course) pair fails
// with ErrConstraintViolation via the composite unique index.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if enrollment.EnrolledAt.IsZero() {
		enrollment.EnrolledAt = time.Now()
	}
	if err := r.db.WithContext(ctx).Create(enrollment).Error; err != nil {
		return translateDBError(err)
	}
	return nil
}

func (r *EnrollmentRepository) GetByID(ctx context.Context, id uint) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	if err := r.db.WithContext(ctx).Preload("Student").Preload("Course").First(&enrollment, id).Error; err != nil {
		return nil, translateDBError(err)
	}
	return &enrollment, nil
}

// GetByStudentAndCourse returns the enrollment for a (student, course) pair.
func (r *EnrollmentRepository) GetByStudentAndCourse(ctx context.Context, studentID, courseID uint) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		First(&enrollment).Error
	if err != nil {
		return nil, translateDBError(err)
	}
	return &enrollment, nil
}

// EnrollmentFilter carries the listing filters.
type EnrollmentFilter struct {
	StudentID uint
	CourseID  uint
	Status    models.EnrollmentStatus
	Page      int
	Limit     int
}

func (r *EnrollmentRepository) List(ctx context.Context, filter EnrollmentFilter) ([]models.Enrollment, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Enrollment{})

	if filter.StudentID != 0 {
		query = query.Where("student_id = ?", filter.StudentID)
	}
	if filter.CourseID != 0 {
		query = query.Where("course_id = ?", filter.CourseID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateDBError(err)
	}

	query = query.Preload("Student").Preload("Course").Order("enrolled_at desc")
	if filter.Limit > 0 {
		offset := (filter.Page - 1) * filter.Limit
		query = query.Offset(offset).Limit(filter.Limit)
	}

	var enrollments []models.Enrollment
	if err := query.Find(&enrollments).Error; err != nil {
		return nil, 0, translateDBError(err)
	}
	return enrollments, total, nil
}

// SetProgress writes progress for a non-terminal enrollment. RowsAffected 0
// means the enrollment is missing or terminal; callers disambiguate.
func (r *EnrollmentRepository) SetProgress(ctx context.Context, id uint, progress int) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Enrollment{}).
		Where("id = ? AND status IN ?", id, []models.EnrollmentStatus{models.EnrollmentPending, models.EnrollmentActive}).
		Updates(map[string]interface{}{
			"progress":         progress,
			"last_accessed_at": time.Now(),
		})
	if res.Error != nil {
		return 0, translateDBError(res.Error)
	}
	return res.RowsAffected, nil
}

// CompleteFromActive transitions ACTIVE -> COMPLETED, stamping progress and
// completed-at in the same statement. There is no observable intermediate
// state of progress=100 with status still ACTIVE.
func (r *EnrollmentRepository) CompleteFromActive(ctx context.Context, id uint) (int64, error) {
	now := time.Now()
	res := r.db.WithContext(ctx).Model(&models.Enrollment{}).
		Where("id = ? AND status = ?", id, models.EnrollmentActive).
		Updates(map[string]interface{}{
			"status":           models.EnrollmentCompleted,
			"progress":         100,
			"completed_at":     now,
			"last_accessed_at": now,
		})
	if res.Error != nil {
		return 0, translateDBError(res.Error)
	}
	return res.RowsAffected, nil
}

// DropFromNonTerminal transitions PENDING/ACTIVE -> DROPPED.
func (r *EnrollmentRepository) DropFromNonTerminal(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Enrollment{}).
		Where("id = ? AND status IN ?", id, []models.EnrollmentStatus{models.EnrollmentPending, models.EnrollmentActive}).
		UpdateColumn("status", models.EnrollmentDropped)
	if res.Error != nil {
		return 0, translateDBError(res.Error)
	}
	return res.RowsAffected, nil
}

// ActivateFromPending transitions PENDING -> ACTIVE (payment confirmation).
func (r *EnrollmentRepository) ActivateFromPending(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Enrollment{}).
		Where("id = ? AND status = ?", id, models.EnrollmentPending).
		Updates(map[string]interface{}{
			"status":         models.EnrollmentActive,
			"payment_status": models.PaymentPaid,
		})
	if res.Error != nil {
		return 0, translateDBError(res.Error)
	}
	return res.RowsAffected, nil
}

// UpdateReview sets the optional rating/review fields.
func (r *EnrollmentRepository) UpdateReview(ctx context.Context, id uint, rating *int, review string) error {
	values := map[string]interface{}{"last_accessed_at": time.Now()}
	if rating != nil {
		values["rating"] = *rating
	}
	if review != "" {
		values["review"] = review
	}
	res := r.db.WithContext(ctx).Model(&models.Enrollment{}).Where("id = ?", id).Updates(values)
	if res.Error != nil {
		return translateDBError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete hard-removes the enrollment row, freeing the (student, course) pair.
func (r *EnrollmentRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Unscoped().Delete(&models.Enrollment{}, id)
	if res.Error != nil {
		return translateDBError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
