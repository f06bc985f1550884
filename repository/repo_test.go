package repository

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"elearn/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBSeq atomic.Int64

// newTestDB opens an isolated in-memory database. A single connection keeps
// the database alive for the whole test and serializes concurrent statements.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:repotest%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.Enrollment{},
		&models.WalletTransaction{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string, role models.UserRole, balance float64) *models.User {
	t.Helper()

	user := &models.User{
		Name:     "Test User",
		Email:    email,
		Password: "hashed-password",
		Role:     role,
		Balance:  balance,
		IsActive: true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedCourse(t *testing.T, db *gorm.DB, authorID uint, price float64) *models.Course {
	t.Helper()

	course := &models.Course{
		Title:       "Test Course",
		Description: "A course used in tests",
		AuthorID:    authorID,
		Category:    models.CategoryProgramming,
		Level:       models.LevelBeginner,
		Price:       price,
		IsPublished: true,
	}
	require.NoError(t, db.Create(course).Error)
	return course
}

func seedEnrollment(t *testing.T, db *gorm.DB, studentID, courseID uint, status models.EnrollmentStatus) *models.Enrollment {
	t.Helper()

	enrollment := &models.Enrollment{
		StudentID:     studentID,
		CourseID:      courseID,
		Status:        status,
		PaymentStatus: models.PaymentFree,
	}
	require.NoError(t, NewEnrollmentRepository(db).Create(context.Background(), enrollment))
	return enrollment
}
