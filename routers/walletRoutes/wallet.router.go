package walletRoutes

import (
	controllers "elearn/controllers/wallet"
	"elearn/middleware"
	"elearn/models"
	validators "elearn/validators/wallet"

	"github.com/gofiber/fiber/v2"
)

// SetupWalletRoutes sets up wallet and purchase routes
func SetupWalletRoutes(app *fiber.App) {
	walletGroup := app.Group("/wallet")

	walletGroup.Get("/balance", middleware.JWTMiddleware, controllers.GetWalletBalance)
	walletGroup.Post("/deposit", middleware.JWTMiddleware, validators.Deposit(), controllers.Deposit)
	walletGroup.Get("/history", middleware.JWTMiddleware, controllers.GetWalletHistory)
	walletGroup.Post("/purchase/:courseId", middleware.JWTMiddleware, validators.PurchaseCourseID(), controllers.PurchaseCourse)

	// Admin credit
	walletGroup.Post("/add-balance", middleware.JWTMiddleware, middleware.RequireRoles(models.RoleAdmin), validators.AddBalance(), controllers.AddBalance)
}
