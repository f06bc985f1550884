package service

import (
	"testing"

	"elearn/models"
	"elearn/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateIncrementsCounter(t *testing.T) {
	db := newTestDB(t)
	svc := NewEnrollmentService(db)

	instructor := seedUser(t, db, "teacher@example.com", models.RoleInstructor, 0)
	student := seedUser(t, db, "student@example.com", models.RoleStudent, 0)
	course := seedCourse(t, db, instructor.ID, 10)

	enrollment, err := svc.Create(testCtx, CreateEnrollmentInput{
		StudentID: student.ID,
		CourseID:  course.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentActive, enrollment.Status)
	assert.Equal(t, int64(1), courseCounter(t, db, course.ID))

	// A duplicate pair rolls the whole transaction back, counter included.
	_, err = svc.Create(testCtx, CreateEnrollmentInput{
		StudentID: student.ID,
		CourseID:  course.ID,
	})
	assert.ErrorIs(t, err, repository.ErrConstraintViolation)
	assert.Equal(t, int64(1), courseCounter(t, db, course.ID))
}

func TestRemoveDecrementsCounter(t *testing.T) {
	db := newTestDB(t)
	svc := NewEnrollmentService(db)

	instructor := seedUser(t, db, "teacher@example.com", models.RoleInstructor, 0)
	student := seedUser(t, db, "student@example.com", models.RoleStudent, 0)
	course := seedCourse(t, db, instructor.ID, 10)

	enrollment, err := svc.Create(testCtx, CreateEnrollmentInput{StudentID: student.ID, CourseID: course.ID})
	require.NoError(t, err)
	require.Equal(t, int64(1), courseCounter(t, db, course.ID))

	require.NoError(t, svc.Remove(testCtx, enrollment.ID))
	assert.Equal(t, int64(0), courseCounter(t, db, course.ID))

	assert.ErrorIs(t, svc.Remove(testCtx, enrollment.ID), repository.ErrNotFound)
}

func TestRemoveDroppedDoesNotDecrementTwice(t *testing.T) {
	db := newTestDB(t)
	svc := NewEnrollmentService(db)

	instructor := seedUser(t, db, "teacher@example.com", models.RoleInstructor, 0)
	student := seedUser(t, db, "student@example.com", models.RoleStudent, 0)
	course := seedCourse(t, db, instructor.ID, 10)

	enrollment, err := svc.Create(testCtx, CreateEnrollmentInput{StudentID: student.ID, CourseID: course.ID})
	require.NoError(t, err)

	// Drop already subtracted the enrollment from the counter.
	require.NoError(t, svc.Drop(testCtx, enrollment.ID))
	require.Equal(t, int64(0), courseCounter(t, db, course.ID))

	require.NoError(t, svc.Remove(testCtx, enrollment.ID))
	assert.Equal(t, int64(0), courseCounter(t, db, course.ID))
}

func TestUpdateProgress(t *testing.T) {
	db := newTestDB(t)
	svc := NewEnrollmentService(db)

	instructor := seedUser(t, db, "teacher@example.com", models.RoleInstructor, 0)
	student := seedUser(t, db, "student@example.com", models.RoleStudent, 0)
	course := seedCourse(t, db, instructor.ID, 10)

	enrollment, err := svc.Create(testCtx, CreateEnrollmentInput{StudentID: student.ID, CourseID: course.ID})
	require.NoError(t, err)

	updated, err := svc.UpdateProgress(testCtx, enrollment.ID, 42)
	require.NoError(t, err)
	assert.Equal(t, 42, updated.Progress)
	assert.Equal(t, models.EnrollmentActive, updated.Status)

	_, err = svc.UpdateProgress(testCtx, enrollment.ID, 101)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.UpdateProgress(testCtx, enrollment.ID, -1)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.UpdateProgress(testCtx, 9999, 10)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUpdateProgressAutoCompletes(t *testing.T) {
	db := newTestDB(t)
	svc := NewEnrollmentService(db)

	instructor := seedUser(t, db, "teacher@example.com", models.RoleInstructor, 0)
	student := seedUser(t, db, "student@example.com", models.RoleStudent, 0)
	course := seedCourse(t, db, instructor.ID, 10)

	enrollment, err := svc.Create(testCtx, CreateEnrollmentInput{StudentID: student.ID, CourseID: course.ID})
	require.NoError(t, err)

	updated, err := svc.UpdateProgress(testCtx, enrollment.ID, 100)
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentCompleted, updated.Status)
	assert.Equal(t, 100, updated.Progress)
	assert.NotNil(t, updated.CompletedAt)

	// Completed is terminal for progress writes.
	_, err = svc.UpdateProgress(testCtx, enrollment.ID, 50)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateProgressHundredRequiresActive(t *testing.T) {
	db := newTestDB(t)
	svc := NewEnrollmentService(db)

	instructor := seedUser(t, db, "teacher@example.com", models.RoleInstructor, 0)
	student := seedUser(t, db, "student@example.com", models.RoleStudent, 0)
	course := seedCourse(t, db, instructor.ID, 10)

	enrollment, err := svc.Create(testCtx, CreateEnrollmentInput{
		StudentID: student.ID,
		CourseID:  course.ID,
		Status:    models.EnrollmentPending,
	})
	require.NoError(t, err)

	_, err = svc.UpdateProgress(testCtx, enrollment.ID, 100)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestMarkCompletedIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewEnrollmentService(db)

	instructor := seedUser(t, db, "teacher@example.com", models.RoleInstructor, 0)
	student := seedUser(t, db, "student@example.com", models.RoleStudent, 0)
	course := seedCourse(t, db, instructor.ID, 10)

	enrollment, err := svc.Create(testCtx, CreateEnrollmentInput{StudentID: student.ID, CourseID: course.ID})
	require.NoError(t, err)

	first, err := svc.MarkCompleted(testCtx, enrollment.ID)
	require.NoError(t, err)
	require.NotNil(t, first.CompletedAt)

	// Repeating the call succeeds and keeps the original completion time.
	second, err := svc.MarkCompleted(testCtx, enrollment.ID)
	require.NoError(t, err)
	require.NotNil(t, second.CompletedAt)
	assert.Equal(t, first.CompletedAt.Unix(), second.CompletedAt.Unix())
}

func TestMarkCompletedRejectsDropped(t *testing.T) {
	db := newTestDB(t)
	svc := NewEnrollmentService(db)

	instructor := seedUser(t, db, "teacher@example.com", models.RoleInstructor, 0)
	student := seedUser(t, db, "student@example.com", models.RoleStudent, 0)
	course := seedCourse(t, db, instructor.ID, 10)

	enrollment, err := svc.Create(testCtx, CreateEnrollmentInput{StudentID: student.ID, CourseID: course.ID})
	require.NoError(t, err)
	require.NoError(t, svc.Drop(testCtx, enrollment.ID))

	_, err = svc.MarkCompleted(testCtx, enrollment.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = svc.MarkCompleted(testCtx, 9999)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDrop(t *testing.T) {
	db := newTestDB(t)
	svc := NewEnrollmentService(db)

	instructor := seedUser(t, db, "teacher@example.com", models.RoleInstructor, 0)
	student := seedUser(t, db, "student@example.com", models.RoleStudent, 0)
	other := seedUser(t, db, "other@example.com", models.RoleStudent, 0)
	course := seedCourse(t, db, instructor.ID, 10)

	enrollment, err := svc.Create(testCtx, CreateEnrollmentInput{StudentID: student.ID, CourseID: course.ID})
	require.NoError(t, err)
	completed, err := svc.Create(testCtx, CreateEnrollmentInput{StudentID: other.ID, CourseID: course.ID})
	require.NoError(t, err)
	_, err = svc.MarkCompleted(testCtx, completed.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), courseCounter(t, db, course.ID))

	require.NoError(t, svc.Drop(testCtx, enrollment.ID))
	assert.Equal(t, int64(1), courseCounter(t, db, course.ID))

	// Dropping again is a no-op and must not decrement twice.
	require.NoError(t, svc.Drop(testCtx, enrollment.ID))
	assert.Equal(t, int64(1), courseCounter(t, db, course.ID))

	// Completed enrollments cannot be dropped.
	assert.ErrorIs(t, svc.Drop(testCtx, completed.ID), ErrInvalidTransition)
}

func TestActivate(t *testing.T) {
	db := newTestDB(t)
	svc := NewEnrollmentService(db)

	instructor := seedUser(t, db, "teacher@example.com", models.RoleInstructor, 0)
	student := seedUser(t, db, "student@example.com", models.RoleStudent, 0)
	course := seedCourse(t, db, instructor.ID, 10)

	enrollment, err := svc.Create(testCtx, CreateEnrollmentInput{
		StudentID:     student.ID,
		CourseID:      course.ID,
		Status:        models.EnrollmentPending,
		PaymentStatus: models.PaymentPending,
	})
	require.NoError(t, err)

	activated, err := svc.Activate(testCtx, enrollment.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentActive, activated.Status)
	assert.Equal(t, models.PaymentPaid, activated.PaymentStatus)

	// Already active, nothing pending to confirm.
	_, err = svc.Activate(testCtx, enrollment.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}
