package repository

import (
	"context"
	"testing"

	"elearn/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrollmentCounter(t *testing.T) {
	db := newTestDB(t)
	repo := NewCourseRepository(db)
	ctx := context.Background()

	instructor := seedUser(t, db, "teacher@example.com", models.RoleInstructor, 0)
	course := seedCourse(t, db, instructor.ID, 10)

	require.NoError(t, repo.IncrementEnrollmentCount(ctx, course.ID))
	require.NoError(t, repo.IncrementEnrollmentCount(ctx, course.ID))

	fresh, err := repo.GetByID(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), fresh.EnrollmentCount)

	require.NoError(t, repo.DecrementEnrollmentCount(ctx, course.ID))
	require.NoError(t, repo.DecrementEnrollmentCount(ctx, course.ID))

	// Decrementing past zero signals counter drift instead of going negative.
	err = repo.DecrementEnrollmentCount(ctx, course.ID)
	assert.ErrorIs(t, err, ErrPreconditionFailed)

	fresh, err = repo.GetByID(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), fresh.EnrollmentCount)
}

func TestEnrollmentCounterMissingCourse(t *testing.T) {
	db := newTestDB(t)
	repo := NewCourseRepository(db)
	ctx := context.Background()

	assert.ErrorIs(t, repo.IncrementEnrollmentCount(ctx, 9999), ErrNotFound)
	assert.ErrorIs(t, repo.DecrementEnrollmentCount(ctx, 9999), ErrNotFound)
	assert.ErrorIs(t, repo.RecountEnrollments(ctx, 9999), ErrNotFound)
}

func TestRecountEnrollmentsSkipsDropped(t *testing.T) {
	db := newTestDB(t)
	repo := NewCourseRepository(db)
	ctx := context.Background()

	instructor := seedUser(t, db, "teacher@example.com", models.RoleInstructor, 0)
	a := seedUser(t, db, "a@example.com", models.RoleStudent, 0)
	b := seedUser(t, db, "b@example.com", models.RoleStudent, 0)
	c := seedUser(t, db, "c@example.com", models.RoleStudent, 0)
	course := seedCourse(t, db, instructor.ID, 10)

	seedEnrollment(t, db, a.ID, course.ID, models.EnrollmentActive)
	seedEnrollment(t, db, b.ID, course.ID, models.EnrollmentCompleted)
	seedEnrollment(t, db, c.ID, course.ID, models.EnrollmentDropped)

	require.NoError(t, repo.RecountEnrollments(ctx, course.ID))

	fresh, err := repo.GetByID(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), fresh.EnrollmentCount)
}

func TestCourseList(t *testing.T) {
	db := newTestDB(t)
	repo := NewCourseRepository(db)
	ctx := context.Background()

	instructor := seedUser(t, db, "teacher@example.com", models.RoleInstructor, 0)

	published := true
	unpublished := false
	courses := []models.Course{
		{Title: "Go Basics", Description: "Learn Go", AuthorID: instructor.ID, Category: models.CategoryProgramming, Level: models.LevelBeginner, Price: 10, IsPublished: published},
		{Title: "Advanced Go", Description: "Concurrency patterns", AuthorID: instructor.ID, Category: models.CategoryProgramming, Level: models.LevelAdvanced, Price: 50, IsPublished: published},
		{Title: "Design 101", Description: "Color theory", AuthorID: instructor.ID, Category: models.CategoryDesign, Level: models.LevelBeginner, Price: 30, IsPublished: unpublished},
	}
	require.NoError(t, db.Create(&courses).Error)

	list, total, err := repo.List(ctx, CourseFilter{Category: models.CategoryProgramming, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, list, 2)

	list, total, err = repo.List(ctx, CourseFilter{IsPublished: &published, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	min := 20.0
	max := 60.0
	list, total, err = repo.List(ctx, CourseFilter{MinPrice: &min, MaxPrice: &max, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	list, total, err = repo.List(ctx, CourseFilter{Search: "concurrency", Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	assert.Equal(t, "Advanced Go", list[0].Title)
}

func TestCourseDeleteCascade(t *testing.T) {
	db := newTestDB(t)
	repo := NewCourseRepository(db)
	ctx := context.Background()

	instructor := seedUser(t, db, "teacher@example.com", models.RoleInstructor, 0)
	student := seedUser(t, db, "student@example.com", models.RoleStudent, 0)
	course := seedCourse(t, db, instructor.ID, 10)
	seedEnrollment(t, db, student.ID, course.ID, models.EnrollmentActive)

	require.NoError(t, repo.DeleteCascade(ctx, course.ID))

	_, err := repo.GetByID(ctx, course.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	var enrollments int64
	db.Model(&models.Enrollment{}).Where("course_id = ?", course.ID).Count(&enrollments)
	assert.Zero(t, enrollments)

	assert.ErrorIs(t, repo.DeleteCascade(ctx, course.ID), ErrNotFound)
}
