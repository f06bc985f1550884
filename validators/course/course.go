package courseValidator

import (
	"strconv"
	"strings"

	"elearn/middleware"
	"elearn/models"
	"elearn/repository"

	"github.com/gofiber/fiber/v2"
)

func isValidCategory(category string) bool {
	for _, valid := range models.ValidCategories() {
		if category == valid {
			return true
		}
	}
	return false
}

func isValidLevel(level string) bool {
	switch level {
	case models.LevelBeginner, models.LevelIntermediate, models.LevelAdvanced:
		return true
	}
	return false
}

// CourseID validates the :id path parameter
func CourseID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("id"), 10, 32)
		if err != nil || id == 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course id!", nil)
		}

		c.Locals("courseID", uint(id))
		return c.Next()
	}
}

// CreateCourse validator middleware
func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title       string   `json:"title"`
			Description string   `json:"description"`
			Category    string   `json:"category"`
			Level       string   `json:"level"`
			Duration    int64    `json:"duration"`
			Price       float64  `json:"price"`
			Thumbnail   string   `json:"thumbnail"`
			Tags        []string `json:"tags"`
			IsPublished bool     `json:"is_published"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		// Validate Title
		if strings.TrimSpace(reqData.Title) == "" {
			errors["title"] = "Title is required!"
		} else if len(strings.TrimSpace(reqData.Title)) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}

		// Validate Description
		if strings.TrimSpace(reqData.Description) == "" {
			errors["description"] = "Description is required!"
		}

		// Validate Category
		if !isValidCategory(reqData.Category) {
			errors["category"] = "Invalid category!"
		}

		// Validate Level
		if !isValidLevel(reqData.Level) {
			errors["level"] = "Level must be BEGINNER, INTERMEDIATE or ADVANCED!"
		}

		// Validate Price
		if reqData.Price < 0 {
			errors["price"] = "Price cannot be negative!"
		}

		// Validate Duration
		if reqData.Duration < 0 {
			errors["duration"] = "Duration cannot be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCreateCourse", reqData)
		return c.Next()
	}
}

// UpdateCourse validator middleware
func UpdateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title       *string  `json:"title"`
			Description *string  `json:"description"`
			Category    *string  `json:"category"`
			Level       *string  `json:"level"`
			Duration    *int64   `json:"duration"`
			Price       *float64 `json:"price"`
			Thumbnail   *string  `json:"thumbnail"`
			IsPublished *bool    `json:"is_published"`
			Rating      *float64 `json:"rating"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Title != nil && len(strings.TrimSpace(*reqData.Title)) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}
		if reqData.Category != nil && !isValidCategory(*reqData.Category) {
			errors["category"] = "Invalid category!"
		}
		if reqData.Level != nil && !isValidLevel(*reqData.Level) {
			errors["level"] = "Level must be BEGINNER, INTERMEDIATE or ADVANCED!"
		}
		if reqData.Price != nil && *reqData.Price < 0 {
			errors["price"] = "Price cannot be negative!"
		}
		if reqData.Rating != nil && (*reqData.Rating < 0 || *reqData.Rating > 5) {
			errors["rating"] = "Rating must be between 0 and 5!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedUpdateCourse", reqData)
		return c.Next()
	}
}

// CourseList validates list query parameters and builds the filter
func CourseList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Category  string   `query:"category"`
			Level     string   `query:"level"`
			AuthorID  uint     `query:"author_id"`
			Published *bool    `query:"published"`
			MinPrice  *float64 `query:"min_price"`
			MaxPrice  *float64 `query:"max_price"`
			Search    string   `query:"search"`
			Page      int      `query:"page"`
			Limit     int      `query:"limit"`
			Sort      string   `query:"sort"`
		})
		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		errors := make(map[string]string)

		if reqData.Category != "" && !isValidCategory(reqData.Category) {
			errors["category"] = "Invalid category!"
		}
		if reqData.Level != "" && !isValidLevel(reqData.Level) {
			errors["level"] = "Level must be BEGINNER, INTERMEDIATE or ADVANCED!"
		}
		if reqData.MinPrice != nil && reqData.MaxPrice != nil && *reqData.MinPrice > *reqData.MaxPrice {
			errors["price"] = "min_price cannot exceed max_price!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		if reqData.Page < 1 {
			reqData.Page = 1
		}
		if reqData.Limit < 1 {
			reqData.Limit = 10
		}

		c.Locals("validatedCourseList", &repository.CourseFilter{
			Category:    reqData.Category,
			Level:       reqData.Level,
			AuthorID:    reqData.AuthorID,
			IsPublished: reqData.Published,
			MinPrice:    reqData.MinPrice,
			MaxPrice:    reqData.MaxPrice,
			Search:      reqData.Search,
			Page:        reqData.Page,
			Limit:       reqData.Limit,
			Sort:        reqData.Sort,
		})
		return c.Next()
	}
}

// Category validates the :category path parameter
func Category() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !isValidCategory(c.Params("category")) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid category!", nil)
		}
		return c.Next()
	}
}
