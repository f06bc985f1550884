package enrollmentValidator

import (
	"strconv"

	"elearn/middleware"
	"elearn/models"
	"elearn/repository"

	"github.com/gofiber/fiber/v2"
)

// EnrollmentID validates the :id path parameter
func EnrollmentID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("id"), 10, 32)
		if err != nil || id == 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid enrollment id!", nil)
		}

		c.Locals("enrollmentID", uint(id))
		return c.Next()
	}
}

// StudentID validates the :studentId path parameter
func StudentID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("studentId"), 10, 32)
		if err != nil || id == 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid student id!", nil)
		}

		c.Locals("targetStudentID", uint(id))
		return c.Next()
	}
}

// CreateEnrollment validator middleware
func CreateEnrollment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			StudentID     uint    `json:"student_id"`
			CourseID      uint    `json:"course_id"`
			PaymentStatus string  `json:"payment_status"`
			PaymentAmount float64 `json:"payment_amount"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.StudentID == 0 {
			errors["student_id"] = "Student id is required!"
		}
		if reqData.CourseID == 0 {
			errors["course_id"] = "Course id is required!"
		}
		if reqData.PaymentStatus != "" {
			switch models.PaymentStatus(reqData.PaymentStatus) {
			case models.PaymentPaid, models.PaymentPending, models.PaymentFree:
			default:
				errors["payment_status"] = "Payment status must be PAID, PENDING or FREE!"
			}
		}
		if reqData.PaymentAmount < 0 {
			errors["payment_amount"] = "Payment amount cannot be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCreateEnrollment", reqData)
		return c.Next()
	}
}

// UpdateProgress validator middleware
func UpdateProgress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Progress *int `json:"progress"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Progress == nil {
			errors["progress"] = "Progress is required!"
		} else if *reqData.Progress < 0 || *reqData.Progress > 100 {
			errors["progress"] = "Progress must be between 0 and 100!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedProgress", *reqData.Progress)
		return c.Next()
	}
}

// UpdateEnrollment validator middleware
func UpdateEnrollment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Rating *int    `json:"rating"`
			Review string  `json:"review"`
			Status *string `json:"status"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Rating != nil && (*reqData.Rating < 1 || *reqData.Rating > 5) {
			errors["rating"] = "Rating must be between 1 and 5!"
		}
		if reqData.Status != nil {
			switch models.EnrollmentStatus(*reqData.Status) {
			case models.EnrollmentActive, models.EnrollmentCompleted, models.EnrollmentDropped:
			default:
				errors["status"] = "Status must be ACTIVE, COMPLETED or DROPPED!"
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedUpdateEnrollment", reqData)
		return c.Next()
	}
}

// EnrollmentList validates list query parameters and builds the filter
func EnrollmentList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			StudentID uint   `query:"student_id"`
			CourseID  uint   `query:"course_id"`
			Status    string `query:"status"`
			Page      int    `query:"page"`
			Limit     int    `query:"limit"`
		})
		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		if reqData.Status != "" {
			switch models.EnrollmentStatus(reqData.Status) {
			case models.EnrollmentPending, models.EnrollmentActive, models.EnrollmentCompleted, models.EnrollmentDropped:
			default:
				return middleware.ValidationErrorResponse(c, map[string]string{
					"status": "Status must be PENDING, ACTIVE, COMPLETED or DROPPED!",
				})
			}
		}

		if reqData.Page < 1 {
			reqData.Page = 1
		}
		if reqData.Limit < 1 {
			reqData.Limit = 10
		}

		c.Locals("validatedEnrollmentList", &repository.EnrollmentFilter{
			StudentID: reqData.StudentID,
			CourseID:  reqData.CourseID,
			Status:    models.EnrollmentStatus(reqData.Status),
			Page:      reqData.Page,
			Limit:     reqData.Limit,
		})
		return c.Next()
	}
}
