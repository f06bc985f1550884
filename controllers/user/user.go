package userController

import (
	"errors"

	"elearn/database"
	"elearn/middleware"
	"elearn/repository"

	"github.com/gofiber/fiber/v2"
)

// GetProfile returns the authenticated user's profile
func GetProfile(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	users := repository.NewUserRepository(database.Database.Db)
	user, err := users.GetByID(c.UserContext(), userID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile fetched successfully!", user)
}

// GetUserByID returns a user by id
func GetUserByID(c *fiber.Ctx) error {
	userID := c.Locals("targetUserID").(uint)

	users := repository.NewUserRepository(database.Database.Db)
	user, err := users.GetByID(c.UserContext(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch user!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User fetched successfully!", user)
}

// GetAllUsers lists users with role filter and pagination (admin only)
func GetAllUsers(c *fiber.Ctx) error {
	role := c.Query("role")
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	users := repository.NewUserRepository(database.Database.Db)
	list, total, err := users.List(c.UserContext(), role, page, limit)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch users!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Users fetched successfully!", fiber.Map{
		"users": list,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// DeleteUser removes a user together with their enrollments and, for
// instructors, their courses and those courses' enrollments (admin only)
func DeleteUser(c *fiber.Ctx) error {
	userID := c.Locals("targetUserID").(uint)

	users := repository.NewUserRepository(database.Database.Db)
	if err := users.DeleteCascade(c.UserContext(), userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete user!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User and related records deleted successfully!", nil)
}
