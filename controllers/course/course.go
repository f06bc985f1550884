package courseController

import (
	"encoding/json"
	"errors"

	"elearn/database"
	"elearn/middleware"
	"elearn/models"
	"elearn/repository"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CreateCourse creates a new course. Only instructors and admins can author
// courses.
func CreateCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedCreateCourse").(*struct {
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
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	users := repository.NewUserRepository(database.Database.Db)
	author, err := users.GetByID(c.UserContext(), userID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Author not found!", nil)
	}
	if !author.CanAuthorCourses() {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Only instructors can create courses!", nil)
	}

	course := models.Course{
		Title:       reqData.Title,
		Description: reqData.Description,
		AuthorID:    author.ID,
		Category:    reqData.Category,
		Level:       reqData.Level,
		Duration:    reqData.Duration,
		Price:       reqData.Price,
		IsPublished: reqData.IsPublished,
	}
	if reqData.Thumbnail != "" {
		course.Thumbnail = reqData.Thumbnail
	}
	if len(reqData.Tags) > 0 {
		if raw, err := json.Marshal(reqData.Tags); err == nil {
			course.Tags = datatypes.JSON(raw)
		}
	}

	courses := repository.NewCourseRepository(database.Database.Db)
	if err := courses.Create(c.UserContext(), &course); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	course.Author = *author
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", course)
}

// GetAllCourses lists courses with filters, pagination and sorting
func GetAllCourses(c *fiber.Ctx) error {
	filter, ok := c.Locals("validatedCourseList").(*repository.CourseFilter)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
	}

	courses := repository.NewCourseRepository(database.Database.Db)
	list, total, err := courses.List(c.UserContext(), *filter)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	pages := total / int64(filter.Limit)
	if total%int64(filter.Limit) != 0 {
		pages++
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"courses": list,
		"pagination": fiber.Map{
			"total": total,
			"page":  filter.Page,
			"limit": filter.Limit,
			"pages": pages,
		},
	})
}

// GetCourseDetails returns one course with its author
func GetCourseDetails(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)

	courses := repository.NewCourseRepository(database.Database.Db)
	course, err := courses.GetByID(c.UserContext(), courseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully!", course)
}

// UpdateCourse updates course fields
func UpdateCourse(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)

	reqData, ok := c.Locals("validatedUpdateCourse").(*struct {
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
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	courses := repository.NewCourseRepository(database.Database.Db)
	course, err := courses.GetByID(c.UserContext(), courseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course!", nil)
	}

	if reqData.Title != nil {
		course.Title = *reqData.Title
	}
	if reqData.Description != nil {
		course.Description = *reqData.Description
	}
	if reqData.Category != nil {
		course.Category = *reqData.Category
	}
	if reqData.Level != nil {
		course.Level = *reqData.Level
	}
	if reqData.Duration != nil {
		course.Duration = *reqData.Duration
	}
	if reqData.Price != nil {
		// Price changes never retroactively affect existing enrollments;
		// PaymentAmount was captured at purchase time.
		course.Price = *reqData.Price
	}
	if reqData.Thumbnail != nil {
		course.Thumbnail = *reqData.Thumbnail
	}
	if reqData.IsPublished != nil {
		course.IsPublished = *reqData.IsPublished
	}
	if reqData.Rating != nil {
		course.Rating = *reqData.Rating
	}

	if err := courses.Update(c.UserContext(), course); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!", course)
}

// DeleteCourse removes the course and all its enrollments
func DeleteCourse(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)

	courses := repository.NewCourseRepository(database.Database.Db)
	if err := courses.DeleteCascade(c.UserContext(), courseID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course and related enrollments deleted successfully!", nil)
}

// GetCourseStats returns aggregate statistics for one course
func GetCourseStats(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)
	db := database.Database.Db

	courses := repository.NewCourseRepository(db)
	course, err := courses.GetByID(c.UserContext(), courseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course!", nil)
	}

	var stats struct {
		Total        int64   `json:"totalEnrollments"`
		Active       int64   `json:"activeStudents"`
		Completed    int64   `json:"completedStudents"`
		AvgProgress  float64 `json:"averageProgress"`
		TotalReviews int64   `json:"totalReviews"`
	}

	query := func() *gorm.DB {
		return db.WithContext(c.UserContext()).Model(&models.Enrollment{}).Where("course_id = ?", courseID)
	}
	query().Count(&stats.Total)
	query().Where("status = ?", models.EnrollmentActive).Count(&stats.Active)
	query().Where("status = ?", models.EnrollmentCompleted).Count(&stats.Completed)
	query().Where("review <> ''").Count(&stats.TotalReviews)

	var avg *float64
	query().Select("AVG(progress)").Scan(&avg)
	if avg != nil {
		stats.AvgProgress = *avg
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course statistics fetched successfully!", fiber.Map{
		"stats":         stats,
		"averageRating": course.Rating,
	})
}

// GetCoursesByCategory lists published courses of a category
func GetCoursesByCategory(c *fiber.Ctx) error {
	category := c.Params("category")

	courses := repository.NewCourseRepository(database.Database.Db)
	list, err := courses.ListByCategory(c.UserContext(), category)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"count":   len(list),
		"courses": list,
	})
}
