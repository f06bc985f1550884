package courseRoutes

import (
	controllers "elearn/controllers/course"
	"elearn/middleware"
	"elearn/models"
	validators "elearn/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up course browsing and management routes
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/course")

	// Browsing
	courseGroup.Get("/list", validators.CourseList(), controllers.GetAllCourses)
	courseGroup.Get("/category/:category", validators.Category(), controllers.GetCoursesByCategory)
	courseGroup.Get("/:id", validators.CourseID(), controllers.GetCourseDetails)
	courseGroup.Get("/:id/stats", validators.CourseID(), controllers.GetCourseStats)

	// Management (instructors and admins)
	courseGroup.Post("/create", middleware.JWTMiddleware, middleware.RequireRoles(models.RoleInstructor, models.RoleAdmin), validators.CreateCourse(), controllers.CreateCourse)
	courseGroup.Put("/:id", middleware.JWTMiddleware, middleware.RequireRoles(models.RoleInstructor, models.RoleAdmin), validators.CourseID(), validators.UpdateCourse(), controllers.UpdateCourse)
	courseGroup.Delete("/:id", middleware.JWTMiddleware, middleware.RequireRoles(models.RoleInstructor, models.RoleAdmin), validators.CourseID(), controllers.DeleteCourse)
}
