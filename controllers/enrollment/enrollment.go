package enrollmentController

import (
	"errors"

	"elearn/database"
	"elearn/middleware"
	"elearn/models"
	"elearn/repository"
	"elearn/service"
	"elearn/utils"

	"github.com/gofiber/fiber/v2"
)

func mapServiceError(c *fiber.Ctx, err error, action string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
	case errors.Is(err, service.ErrInvalidTransition):
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Enrollment status does not allow this operation!", nil)
	case errors.Is(err, service.ErrValidation):
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, err.Error(), nil)
	default:
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to "+action+"!", nil)
	}
}

// GetAllEnrollments lists enrollments with filters and pagination
func GetAllEnrollments(c *fiber.Ctx) error {
	filter, ok := c.Locals("validatedEnrollmentList").(*repository.EnrollmentFilter)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
	}

	enrollments := repository.NewEnrollmentRepository(database.Database.Db)
	list, total, err := enrollments.List(c.UserContext(), *filter)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", fiber.Map{
		"enrollments": list,
		"pagination": fiber.Map{
			"total": total,
			"page":  filter.Page,
			"limit": filter.Limit,
		},
	})
}

// GetEnrollmentByID returns one enrollment with student and course preloaded
func GetEnrollmentByID(c *fiber.Ctx) error {
	enrollmentID := c.Locals("enrollmentID").(uint)

	enrollments := repository.NewEnrollmentRepository(database.Database.Db)
	enrollment, err := enrollments.GetByID(c.UserContext(), enrollmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment fetched successfully!", enrollment)
}

// CreateEnrollment creates an enrollment directly, without payment (admin
// path). The course counter is adjusted in the same transaction.
func CreateEnrollment(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCreateEnrollment").(*struct {
		StudentID     uint    `json:"student_id"`
		CourseID      uint    `json:"course_id"`
		PaymentStatus string  `json:"payment_status"`
		PaymentAmount float64 `json:"payment_amount"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db
	ctx := c.UserContext()

	users := repository.NewUserRepository(db)
	if _, err := users.GetByID(ctx, reqData.StudentID); err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Student not found!", nil)
	}

	courses := repository.NewCourseRepository(db)
	course, err := courses.GetByID(ctx, reqData.CourseID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	payment := models.PaymentStatus(reqData.PaymentStatus)
	if payment == "" {
		if course.Price == 0 {
			payment = models.PaymentFree
		} else {
			payment = models.PaymentPending
		}
	}
	amount := reqData.PaymentAmount
	if amount == 0 {
		amount = course.Price
	}

	status := models.EnrollmentActive
	if payment == models.PaymentPending {
		status = models.EnrollmentPending
	}

	lifecycle := service.NewEnrollmentService(db)
	enrollment, err := lifecycle.Create(ctx, service.CreateEnrollmentInput{
		StudentID:     reqData.StudentID,
		CourseID:      reqData.CourseID,
		Status:        status,
		PaymentStatus: payment,
		PaymentAmount: amount,
	})
	if err != nil {
		if errors.Is(err, repository.ErrConstraintViolation) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Student is already enrolled in this course!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create enrollment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Enrollment created successfully!", enrollment)
}

// UpdateProgress writes a new progress value; reaching 100 auto-completes
func UpdateProgress(c *fiber.Ctx) error {
	enrollmentID := c.Locals("enrollmentID").(uint)
	progress := c.Locals("validatedProgress").(int)

	lifecycle := service.NewEnrollmentService(database.Database.Db)
	enrollment, err := lifecycle.UpdateProgress(c.UserContext(), enrollmentID, progress)
	if err != nil {
		return mapServiceError(c, err, "update progress")
	}

	if enrollment.Status == models.EnrollmentCompleted {
		go utils.SendCompletionEmail(enrollment.Student.Name, enrollment.Student.Email, enrollment.Course.Title)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress updated successfully!", enrollment)
}

// MarkCompleted marks the enrollment completed; repeating it is a no-op
func MarkCompleted(c *fiber.Ctx) error {
	enrollmentID := c.Locals("enrollmentID").(uint)

	lifecycle := service.NewEnrollmentService(database.Database.Db)
	enrollment, err := lifecycle.MarkCompleted(c.UserContext(), enrollmentID)
	if err != nil {
		return mapServiceError(c, err, "complete enrollment")
	}

	go utils.SendCompletionEmail(enrollment.Student.Name, enrollment.Student.Email, enrollment.Course.Title)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment marked as completed!", enrollment)
}

// DropEnrollment drops a non-completed enrollment
func DropEnrollment(c *fiber.Ctx) error {
	enrollmentID := c.Locals("enrollmentID").(uint)

	lifecycle := service.NewEnrollmentService(database.Database.Db)
	if err := lifecycle.Drop(c.UserContext(), enrollmentID); err != nil {
		return mapServiceError(c, err, "drop enrollment")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment dropped successfully!", nil)
}

// UpdateEnrollment updates rating/review and optionally confirms payment
func UpdateEnrollment(c *fiber.Ctx) error {
	enrollmentID := c.Locals("enrollmentID").(uint)

	reqData, ok := c.Locals("validatedUpdateEnrollment").(*struct {
		Rating *int    `json:"rating"`
		Review string  `json:"review"`
		Status *string `json:"status"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db
	ctx := c.UserContext()
	lifecycle := service.NewEnrollmentService(db)

	if reqData.Status != nil {
		var err error
		switch models.EnrollmentStatus(*reqData.Status) {
		case models.EnrollmentActive:
			_, err = lifecycle.Activate(ctx, enrollmentID)
		case models.EnrollmentCompleted:
			_, err = lifecycle.MarkCompleted(ctx, enrollmentID)
		case models.EnrollmentDropped:
			err = lifecycle.Drop(ctx, enrollmentID)
		default:
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid status!", nil)
		}
		if err != nil {
			return mapServiceError(c, err, "update enrollment")
		}
	}

	enrollments := repository.NewEnrollmentRepository(db)
	if reqData.Rating != nil || reqData.Review != "" {
		if err := enrollments.UpdateReview(ctx, enrollmentID, reqData.Rating, reqData.Review); err != nil {
			return mapServiceError(c, err, "update enrollment")
		}
	}

	enrollment, err := enrollments.GetByID(ctx, enrollmentID)
	if err != nil {
		return mapServiceError(c, err, "update enrollment")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment updated successfully!", enrollment)
}

// DeleteEnrollment removes the enrollment and decrements the course counter
func DeleteEnrollment(c *fiber.Ctx) error {
	enrollmentID := c.Locals("enrollmentID").(uint)

	lifecycle := service.NewEnrollmentService(database.Database.Db)
	if err := lifecycle.Remove(c.UserContext(), enrollmentID); err != nil {
		return mapServiceError(c, err, "delete enrollment")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment deleted successfully!", nil)
}

// GetEnrollmentsByStudent lists a student's enrollments
func GetEnrollmentsByStudent(c *fiber.Ctx) error {
	studentID := c.Locals("targetStudentID").(uint)
	status := models.EnrollmentStatus(c.Query("status"))

	enrollments := repository.NewEnrollmentRepository(database.Database.Db)
	list, total, err := enrollments.List(c.UserContext(), repository.EnrollmentFilter{
		StudentID: studentID,
		Status:    status,
	})
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch student enrollments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Student enrollments fetched successfully!", fiber.Map{
		"count":       total,
		"enrollments": list,
	})
}

// GetEnrollmentsByCourse lists a course's enrollments
func GetEnrollmentsByCourse(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)
	status := models.EnrollmentStatus(c.Query("status"))

	enrollments := repository.NewEnrollmentRepository(database.Database.Db)
	list, total, err := enrollments.List(c.UserContext(), repository.EnrollmentFilter{
		CourseID: courseID,
		Status:   status,
	})
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course enrollments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course enrollments fetched successfully!", fiber.Map{
		"count":       total,
		"enrollments": list,
	})
}
