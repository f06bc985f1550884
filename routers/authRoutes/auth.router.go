package authRoutes

import (
	controllers "elearn/controllers/auth"
	validators "elearn/validators/auth"

	"github.com/gofiber/fiber/v2"
)

// SetupAuthRoutes sets up registration and login routes
func SetupAuthRoutes(app *fiber.App) {
	authGroup := app.Group("/auth")

	authGroup.Post("/register", validators.Register(), controllers.Register)
	authGroup.Post("/login", validators.Login(), controllers.Login)
}
