package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Course categories
const (
	CategoryProgramming = "Programming"
	CategoryDesign      = "Design"
	CategoryBusiness    = "Business"
	CategoryMarketing   = "Marketing"
	CategoryDataScience = "Data Science"
	CategoryOther       = "Other"
)

// Course levels
const (
	LevelBeginner     = "BEGINNER"
	LevelIntermediate = "INTERMEDIATE"
	LevelAdvanced     = "ADVANCED"
)

// Course represents a learning course created by an instructor.
// EnrollmentCount is denormalized: it tracks the number of non-dropped
// enrollments and is only ever updated in the same transaction as the
// enrollment write it reflects.
type Course struct {
	gorm.Model
	Title           string         `json:"title" gorm:"not null"`
	Description     string         `json:"description" gorm:"type:text"`
	AuthorID        uint           `json:"author_id" gorm:"index;not null"`
	Category        string         `json:"category" gorm:"index;not null"`
	Level           string         `json:"level" gorm:"type:varchar(20);default:'BEGINNER'"`
	Duration        int64          `json:"duration" gorm:"default:0"` // duration in hours
	Price           float64        `json:"price" gorm:"not null;default:0"`
	Thumbnail       string         `json:"thumbnail" gorm:"default:'default-course.jpg'"`
	Tags            datatypes.JSON `json:"tags"`
	IsPublished     bool           `json:"is_published" gorm:"default:false"`
	Rating          float64        `json:"rating" gorm:"default:0"`
	EnrollmentCount int64          `json:"enrollment_count" gorm:"not null;default:0"`

	Author User `json:"author" gorm:"foreignKey:AuthorID"`
}

// ValidCategories lists the accepted course categories.
func ValidCategories() []string {
	return []string{
		CategoryProgramming,
		CategoryDesign,
		CategoryBusiness,
		CategoryMarketing,
		CategoryDataScience,
		CategoryOther,
	}
}
