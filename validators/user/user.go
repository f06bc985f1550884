package userValidator

import (
	"strconv"

	"elearn/middleware"

	"github.com/gofiber/fiber/v2"
)

// UserID validates the :id path parameter
func UserID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("id"), 10, 32)
		if err != nil || id == 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user id!", nil)
		}

		c.Locals("targetUserID", uint(id))
		return c.Next()
	}
}
