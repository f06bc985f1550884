package models

import (
	"time"

	"gorm.io/gorm"
)

// UserRole defines the role of a user
type UserRole string

const (
	RoleStudent    UserRole = "STUDENT"
	RoleInstructor UserRole = "INSTRUCTOR"
	RoleAdmin      UserRole = "ADMIN"
)

type User struct {
	gorm.Model
	Name      string     `json:"name" gorm:"not null"`
	Email     string     `json:"email" gorm:"unique;not null"`
	Password  string     `json:"-" gorm:"not null"`
	Role      UserRole   `json:"role" gorm:"type:varchar(20);default:'STUDENT'"`
	Bio       string     `json:"bio" gorm:"type:text"`
	Avatar    string     `json:"avatar" gorm:"default:'default-avatar.png'"`
	Balance   float64    `json:"balance" gorm:"not null;default:0"`
	IsActive  bool       `json:"is_active" gorm:"default:true"`
	LastLogin *time.Time `json:"last_login"`
}

// CanAuthorCourses reports whether the user is allowed to create courses.
func (u *User) CanAuthorCourses() bool {
	return u.Role == RoleInstructor || u.Role == RoleAdmin
}
