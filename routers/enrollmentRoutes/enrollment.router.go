package enrollmentRoutes

import (
	controllers "elearn/controllers/enrollment"
	"elearn/middleware"
	"elearn/models"
	courseValidators "elearn/validators/course"
	validators "elearn/validators/enrollment"

	"github.com/gofiber/fiber/v2"
)

// SetupEnrollmentRoutes sets up enrollment lifecycle routes
func SetupEnrollmentRoutes(app *fiber.App) {
	enrollGroup := app.Group("/enrollment")

	enrollGroup.Get("/list", middleware.JWTMiddleware, validators.EnrollmentList(), controllers.GetAllEnrollments)
	enrollGroup.Get("/student/:studentId", middleware.JWTMiddleware, validators.StudentID(), controllers.GetEnrollmentsByStudent)
	enrollGroup.Get("/course/:id", middleware.JWTMiddleware, courseValidators.CourseID(), controllers.GetEnrollmentsByCourse)
	enrollGroup.Get("/:id", middleware.JWTMiddleware, validators.EnrollmentID(), controllers.GetEnrollmentByID)

	// Direct creation bypasses payment (admin only)
	enrollGroup.Post("/create", middleware.JWTMiddleware, middleware.RequireRoles(models.RoleAdmin), validators.CreateEnrollment(), controllers.CreateEnrollment)

	// Lifecycle transitions
	enrollGroup.Put("/:id/progress", middleware.JWTMiddleware, validators.EnrollmentID(), validators.UpdateProgress(), controllers.UpdateProgress)
	enrollGroup.Post("/:id/complete", middleware.JWTMiddleware, validators.EnrollmentID(), controllers.MarkCompleted)
	enrollGroup.Post("/:id/drop", middleware.JWTMiddleware, validators.EnrollmentID(), controllers.DropEnrollment)
	enrollGroup.Put("/:id", middleware.JWTMiddleware, validators.EnrollmentID(), validators.UpdateEnrollment(), controllers.UpdateEnrollment)
	enrollGroup.Delete("/:id", middleware.JWTMiddleware, middleware.RequireRoles(models.RoleAdmin), validators.EnrollmentID(), controllers.DeleteEnrollment)
}
