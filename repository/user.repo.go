package repository

import (
	"context"
	"strings"

	"elearn/models"

	"gorm.io/gorm"
)

// UserRepository persists users and owns the conditional balance updates that
// serialize concurrent purchases without a global lock.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// WithTx returns a repository bound to the given transaction handle.
func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{db: tx}
}

// Create inserts a new user. Email is stored lowercased so uniqueness is
// case-insensitive.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return translateDBError(err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translateDBError(err)
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	email = strings.ToLower(strings.TrimSpace(email))
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translateDBError(err)
	}
	return &user, nil
}

// List returns users filtered by role with pagination.
func (r *UserRepository) List(ctx context.Context, role string, page, limit int) ([]models.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.User{})
	if role != "" {
		query = query.Where("role = ?", role)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateDBError(err)
	}

	var users []models.User
	offset := (page - 1) * limit
	if err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return nil, 0, translateDBError(err)
	}
	return users, total, nil
}

func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return translateDBError(err)
	}
	return nil
}

// DebitBalance atomically deducts amount from the user's balance, but only if
// the balance covers it. The check and the decrement are a single UPDATE so
// two concurrent debits can never drive the balance negative. Returns the
// remaining balance, or ErrPreconditionFailed when the condition did not hold.
func (r *UserRepository) DebitBalance(ctx context.Context, id uint, amount float64) (float64, error) {
	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND balance >= ?", id, amount).
		UpdateColumn("balance", gorm.Expr("balance - ?", amount))
	if res.Error != nil {
		return 0, translateDBError(res.Error)
	}
	if res.RowsAffected == 0 {
		// Distinguish a missing user from a lost balance race.
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return 0, translateDBError(err)
		}
		if count == 0 {
			return 0, ErrNotFound
		}
		return 0, ErrPreconditionFailed
	}

	var user models.User
	if err := r.db.WithContext(ctx).Select("balance").First(&user, id).Error; err != nil {
		return 0, translateDBError(err)
	}
	return user.Balance, nil
}

// CreditBalance atomically adds amount to the user's balance. Used by deposits
// and by the purchase compensation path.
func (r *UserRepository) CreditBalance(ctx context.Context, id uint, amount float64) (float64, error) {
	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("balance", gorm.Expr("balance + ?", amount))
	if res.Error != nil {
		return 0, translateDBError(res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, ErrNotFound
	}

	var user models.User
	if err := r.db.WithContext(ctx).Select("balance").First(&user, id).Error; err != nil {
		return 0, translateDBError(err)
	}
	return user.Balance, nil
}

// DeleteCascade removes the user, their enrollments and, for instructors, the
// courses they authored together with those courses' enrollments. Everything
// happens in one transaction so readers never observe a half-cascaded state.
func (r *UserRepository) DeleteCascade(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, id).Error; err != nil {
			return translateDBError(err)
		}

		// Courses that keep existing lose this student's enrollments, so their
		// counters are recomputed inside the same transaction.
		var affected []uint
		if err := tx.Model(&models.Enrollment{}).
			Where("student_id = ?", id).
			Distinct().Pluck("course_id", &affected).Error; err != nil {
			return translateDBError(err)
		}

		if err := tx.Unscoped().Where("student_id = ?", id).Delete(&models.Enrollment{}).Error; err != nil {
			return translateDBError(err)
		}

		if user.CanAuthorCourses() {
			var courseIDs []uint
			if err := tx.Model(&models.Course{}).Where("author_id = ?", id).Pluck("id", &courseIDs).Error; err != nil {
				return translateDBError(err)
			}
			if len(courseIDs) > 0 {
				if err := tx.Unscoped().Where("course_id IN ?", courseIDs).Delete(&models.Enrollment{}).Error; err != nil {
					return translateDBError(err)
				}
				if err := tx.Unscoped().Where("author_id = ?", id).Delete(&models.Course{}).Error; err != nil {
					return translateDBError(err)
				}
			}
		}

		courses := NewCourseRepository(tx)
		for _, courseID := range affected {
			if err := courses.RecountEnrollments(ctx, courseID); err != nil && err != ErrNotFound {
				return err
			}
		}

		if err := tx.Unscoped().Delete(&models.User{}, id).Error; err != nil {
			return translateDBError(err)
		}
		return nil
	})
}
