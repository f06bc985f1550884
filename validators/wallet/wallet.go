package walletValidator

import (
	"strconv"

	"elearn/middleware"

	"github.com/gofiber/fiber/v2"
)

// Deposit validator middleware
func Deposit() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Amount float64 `json:"amount"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Amount <= 0 {
			errors["amount"] = "Amount must be greater than 0!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedDeposit", reqData)
		return c.Next()
	}
}

// AddBalance validator middleware (admin credit)
func AddBalance() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			UserID uint    `json:"userId"`
			Amount float64 `json:"amount"`
			Reason string  `json:"reason"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.UserID == 0 {
			errors["userId"] = "User id is required!"
		}
		if reqData.Amount <= 0 {
			errors["amount"] = "Amount must be greater than 0!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedAddBalance", reqData)
		return c.Next()
	}
}

// PurchaseCourseID validates the :courseId path parameter
func PurchaseCourseID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("courseId"), 10, 32)
		if err != nil || id == 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course id!", nil)
		}

		c.Locals("courseID", uint(id))
		return c.Next()
	}
}
