package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleStudent    = "student"
	RoleInstructor = "instructor"
	RoleAdmin      = "admin"
)

type User struct {
	gorm.Model
	Fullname     string     `gorm:"not null;index" json:"fullname"`
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	PhoneNumber  string     `gorm:"default:''" json:"phoneNumber"`
	Avatar       string     `gorm:"not null" json:"avatar"`
	Role         string     `gorm:"type:varchar(20);default:'student'" json:"role"` // student, instructor, admin
	Password     string     `gorm:"not null" json:"-"`
	RefreshToken string     `gorm:"type:text" json:"-"`
	LastLogin    *time.Time `json:"lastLogin"`

	FailedLoginAttempts int        `gorm:"default:0" json:"-"`
	LastFailedLogin     *time.Time `json:"-"`
	BlockedUntil        *time.Time `json:"-"`

	IsDeleted bool `gorm:"default:false" json:"-"`
}

// ValidRole reports whether role is one of the platform roles.
func ValidRole(role string) bool {
	switch role {
	case RoleStudent, RoleInstructor, RoleAdmin:
		return true
	}
	return false
}
