package main

import (
	"log"
	"time"

	"elearn/config"
	"elearn/database"
	"elearn/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
)

func hashPassword(plain string) string {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), config.AppConfig.SaltRound)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}
	return string(hashed)
}

func main() {
	// Load config and connect to database
	config.LoadConfig()
	database.ConnectDb()

	db := database.Database.Db

	var count int64
	db.Model(&models.User{}).Count(&count)
	if count > 0 {
		log.Printf("Database already has %d users, skipping seed", count)
		return
	}

	// Users
	admin := models.User{
		Name:     "Site Admin",
		Email:    "admin@elearn.local",
		Password: hashPassword("admin12345"),
		Role:     models.RoleAdmin,
		IsActive: true,
		Balance:  0,
	}
	instructor := models.User{
		Name:     "Jane Instructor",
		Email:    "jane@elearn.local",
		Password: hashPassword("teach12345"),
		Role:     models.RoleInstructor,
		Bio:      "Teaches programming and data science",
		IsActive: true,
	}
	students := []models.User{
		{Name: "Alice Student", Email: "alice@elearn.local", Password: hashPassword("learn12345"), Role: models.RoleStudent, IsActive: true, Balance: 500},
		{Name: "Bob Student", Email: "bob@elearn.local", Password: hashPassword("learn12345"), Role: models.RoleStudent, IsActive: true, Balance: 150},
		{Name: "Carol Student", Email: "carol@elearn.local", Password: hashPassword("learn12345"), Role: models.RoleStudent, IsActive: true, Balance: 25},
	}

	if err := db.Create(&admin).Error; err != nil {
		log.Fatalf("Failed to seed admin: %v", err)
	}
	if err := db.Create(&instructor).Error; err != nil {
		log.Fatalf("Failed to seed instructor: %v", err)
	}
	if err := db.Create(&students).Error; err != nil {
		log.Fatalf("Failed to seed students: %v", err)
	}
	log.Printf("Seeded %d users", 2+len(students))

	// Courses
	courses := []models.Course{
		{
			Title:       "Go for Backend Developers",
			Description: "Build production web services in Go",
			AuthorID:    instructor.ID,
			Category:    models.CategoryProgramming,
			Level:       models.LevelIntermediate,
			Duration:    1200,
			Price:       99.99,
			Tags:        datatypes.JSON([]byte(`["go","backend","api"]`)),
			IsPublished: true,
		},
		{
			Title:       "Intro to Data Science",
			Description: "Statistics, visualization and a first model",
			AuthorID:    instructor.ID,
			Category:    models.CategoryDataScience,
			Level:       models.LevelBeginner,
			Duration:    900,
			Price:       49.99,
			Tags:        datatypes.JSON([]byte(`["data","statistics"]`)),
			IsPublished: true,
		},
		{
			Title:       "Open Source Basics",
			Description: "How to contribute to open source projects",
			AuthorID:    instructor.ID,
			Category:    models.CategoryOther,
			Level:       models.LevelBeginner,
			Duration:    240,
			Price:       0,
			IsPublished: true,
		},
	}
	if err := db.Create(&courses).Error; err != nil {
		log.Fatalf("Failed to seed courses: %v", err)
	}
	log.Printf("Seeded %d courses", len(courses))

	// Enrollments
	now := time.Now()
	enrollments := []models.Enrollment{
		{
			StudentID:     students[0].ID,
			CourseID:      courses[0].ID,
			Status:        models.EnrollmentActive,
			Progress:      40,
			PaymentStatus: models.PaymentPaid,
			PaymentAmount: courses[0].Price,
			EnrolledAt:    now.AddDate(0, 0, -14),
		},
		{
			StudentID:     students[1].ID,
			CourseID:      courses[1].ID,
			Status:        models.EnrollmentActive,
			Progress:      10,
			PaymentStatus: models.PaymentPaid,
			PaymentAmount: courses[1].Price,
			EnrolledAt:    now.AddDate(0, 0, -3),
		},
		{
			StudentID:     students[2].ID,
			CourseID:      courses[2].ID,
			Status:        models.EnrollmentActive,
			Progress:      0,
			PaymentStatus: models.PaymentFree,
			PaymentAmount: 0,
			EnrolledAt:    now,
		},
	}
	if err := db.Create(&enrollments).Error; err != nil {
		log.Fatalf("Failed to seed enrollments: %v", err)
	}

	// Keep the denormalized counters in line with the seeded rows
	for _, course := range courses {
		var enrolled int64
		db.Model(&models.Enrollment{}).
			Where("course_id = ? AND status <> ?", course.ID, models.EnrollmentDropped).
			Count(&enrolled)
		db.Model(&models.Course{}).Where("id = ?", course.ID).Update("enrollment_count", enrolled)
	}

	log.Printf("Seeded %d enrollments", len(enrollments))
	log.Println("Seeding complete")
}
