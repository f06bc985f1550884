package userRoutes

import (
	controllers "elearn/controllers/user"
	"elearn/middleware"
	"elearn/models"
	validators "elearn/validators/user"

	"github.com/gofiber/fiber/v2"
)

// SetupUserRoutes sets up user profile and admin user management routes
func SetupUserRoutes(app *fiber.App) {
	userGroup := app.Group("/user")

	userGroup.Get("/profile", middleware.JWTMiddleware, controllers.GetProfile)

	// Admin user management
	userGroup.Get("/list", middleware.JWTMiddleware, middleware.RequireRoles(models.RoleAdmin), controllers.GetAllUsers)
	userGroup.Get("/:id", middleware.JWTMiddleware, middleware.RequireRoles(models.RoleAdmin), validators.UserID(), controllers.GetUserByID)
	userGroup.Delete("/:id", middleware.JWTMiddleware, middleware.RequireRoles(models.RoleAdmin), validators.UserID(), controllers.DeleteUser)
}
