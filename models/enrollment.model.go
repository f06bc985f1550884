package models

import (
	"time"

	"gorm.io/gorm"
)

// EnrollmentStatus defines the lifecycle state of an enrollment
type EnrollmentStatus string

const (
	EnrollmentPending   EnrollmentStatus = "PENDING"
	EnrollmentActive    EnrollmentStatus = "ACTIVE"
	EnrollmentCompleted EnrollmentStatus = "COMPLETED"
	EnrollmentDropped   EnrollmentStatus = "DROPPED"
)

// IsTerminal reports whether no further progress mutation is accepted.
func (s EnrollmentStatus) IsTerminal() bool {
	return s == EnrollmentCompleted || s == EnrollmentDropped
}

// PaymentStatus defines how the enrollment was paid for
type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "PAID"
	PaymentPending PaymentStatus = "PENDING"
	PaymentFree    PaymentStatus = "FREE"
)

// Enrollment links a student to a course. A student can enroll at most once
// per course, enforced by the composite unique index.
type Enrollment struct {
	gorm.Model
	StudentID      uint             `json:"student_id" gorm:"not null;uniqueIndex:idx_student_course"`
	CourseID       uint             `json:"course_id" gorm:"not null;uniqueIndex:idx_student_course"`
	Status         EnrollmentStatus `json:"status" gorm:"type:varchar(20);default:'ACTIVE'"`
	Progress       int              `json:"progress" gorm:"default:0"` // completion percentage (0-100)
	Rating         *int             `json:"rating"`
	Review         string           `json:"review" gorm:"type:text"`
	PaymentStatus  PaymentStatus    `json:"payment_status" gorm:"type:varchar(20);default:'FREE'"`
	PaymentAmount  float64          `json:"payment_amount" gorm:"default:0"` // price at purchase time
	EnrolledAt     time.Time        `json:"enrolled_at" gorm:"not null"`
	CompletedAt    *time.Time       `json:"completed_at"`
	LastAccessedAt *time.Time       `json:"last_accessed_at"`

	Student User   `json:"student" gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE"`
	Course  Course `json:"course" gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`
}
