package service

import (
	"context"
	"errors"
	"fmt"

	"elearn/models"
	"elearn/repository"

	"gorm.io/gorm"
)

// EnrollmentService owns the enrollment state machine and keeps the course
// enrollment counter consistent with it. Creation and removal always adjust
// the counter in the same transaction as the enrollment write, so callers can
// never update one without the other.
type EnrollmentService struct {
	db *gorm.DB
}

func NewEnrollmentService(db *gorm.DB) *EnrollmentService {
	return &EnrollmentService{db: db}
}

// CreateEnrollmentInput carries the payment context of a new enrollment.
type CreateEnrollmentInput struct {
	StudentID     uint
	CourseID      uint
	Status        models.EnrollmentStatus
	PaymentStatus models.PaymentStatus
	PaymentAmount float64
}

// Create inserts the enrollment and increments the course counter in one
// transaction. A duplicate (student, course) pair fails with
// repository.ErrConstraintViolation and leaves the counter untouched.
func (s *EnrollmentService) Create(ctx context.Context, input CreateEnrollmentInput) (*models.Enrollment, error) {
	if input.Status == "" {
		input.Status = models.EnrollmentActive
	}
	if input.PaymentStatus == "" {
		input.PaymentStatus = models.PaymentFree
	}

	enrollment := &models.Enrollment{
		StudentID:     input.StudentID,
		CourseID:      input.CourseID,
		Status:        input.Status,
		PaymentStatus: input.PaymentStatus,
		PaymentAmount: input.PaymentAmount,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repository.NewEnrollmentRepository(tx).Create(ctx, enrollment); err != nil {
			return err
		}
		return repository.NewCourseRepository(tx).IncrementEnrollmentCount(ctx, input.CourseID)
	})
	if err != nil {
		return nil, err
	}
	return enrollment, nil
}

// Remove deletes the enrollment and decrements the course counter in one
// transaction. Dropped enrollments were already subtracted from the counter
// when they were dropped, so removing one does not decrement again.
func (s *EnrollmentService) Remove(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var enrollment models.Enrollment
		if err := tx.First(&enrollment, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return repository.ErrNotFound
			}
			return err
		}

		if err := repository.NewEnrollmentRepository(tx).Delete(ctx, id); err != nil {
			return err
		}
		if enrollment.Status != models.EnrollmentDropped {
			if err := repository.NewCourseRepository(tx).DecrementEnrollmentCount(ctx, enrollment.CourseID); err != nil {
				return err
			}
		}
		return nil
	})
}

// UpdateProgress writes a new progress value. Reaching 100 while ACTIVE
// auto-completes the enrollment in the same update, so no reader ever sees
// progress=100 with status still ACTIVE. Terminal enrollments reject the
// update with ErrInvalidTransition.
func (s *EnrollmentService) UpdateProgress(ctx context.Context, id uint, progress int) (*models.Enrollment, error) {
	if progress < 0 || progress > 100 {
		return nil, fmt.Errorf("%w: progress must be between 0 and 100", ErrValidation)
	}

	repo := repository.NewEnrollmentRepository(s.db)

	var (
		rows int64
		err  error
	)
	if progress == 100 {
		rows, err = repo.CompleteFromActive(ctx, id)
	} else {
		rows, err = repo.SetProgress(ctx, id, progress)
	}
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		// Missing, terminal, or (for progress=100) not yet ACTIVE.
		if _, err := repo.GetByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, ErrInvalidTransition
	}

	return repo.GetByID(ctx, id)
}

// MarkCompleted transitions ACTIVE -> COMPLETED. Calling it on an enrollment
// that is already completed is a no-op success.
func (s *EnrollmentService) MarkCompleted(ctx context.Context, id uint) (*models.Enrollment, error) {
	repo := repository.NewEnrollmentRepository(s.db)

	rows, err := repo.CompleteFromActive(ctx, id)
	if err != nil {
		return nil, err
	}
	if rows > 0 {
		return repo.GetByID(ctx, id)
	}

	enrollment, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if enrollment.Status == models.EnrollmentCompleted {
		return enrollment, nil
	}
	return nil, ErrInvalidTransition
}

// Drop transitions a non-completed enrollment to DROPPED and decrements the
// course counter in the same transaction. Dropping an already-dropped
// enrollment is a no-op; dropping a completed one fails.
func (s *EnrollmentService) Drop(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repository.NewEnrollmentRepository(tx)

		rows, err := repo.DropFromNonTerminal(ctx, id)
		if err != nil {
			return err
		}
		if rows == 0 {
			enrollment, err := repo.GetByID(ctx, id)
			if err != nil {
				return err
			}
			if enrollment.Status == models.EnrollmentDropped {
				return nil
			}
			return ErrInvalidTransition
		}

		var enrollment models.Enrollment
		if err := tx.First(&enrollment, id).Error; err != nil {
			return err
		}
		return repository.NewCourseRepository(tx).DecrementEnrollmentCount(ctx, enrollment.CourseID)
	})
}

// Activate confirms payment for a PENDING enrollment.
func (s *EnrollmentService) Activate(ctx context.Context, id uint) (*models.Enrollment, error) {
	repo := repository.NewEnrollmentRepository(s.db)

	rows, err := repo.ActivateFromPending(ctx, id)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		if _, err := repo.GetByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, ErrInvalidTransition
	}
	return repo.GetByID(ctx, id)
}
