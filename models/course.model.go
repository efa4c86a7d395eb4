package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	EnrollmentPending  = "pending"
	EnrollmentApproved = "approved"
	EnrollmentRejected = "rejected"
)

type Course struct {
	gorm.Model
	Title            string             `gorm:"not null" json:"title"`
	Description      string             `gorm:"type:text;not null" json:"description"`
	Price            decimal.Decimal    `gorm:"type:decimal(14,2);not null" json:"price"`
	Image            string             `gorm:"not null" json:"image"`
	CreatedBy        uint               `gorm:"index;not null" json:"createdBy"`
	AdminID          uint               `gorm:"index" json:"adminId"`
	Instructor       *User              `gorm:"foreignKey:CreatedBy" json:"instructor,omitempty"`
	StudentsEnrolled []CourseEnrollment `gorm:"foreignKey:CourseID" json:"studentsEnrolled,omitempty"`
	IsDeleted        bool               `gorm:"default:false" json:"-"`
}

// CourseEnrollment is one entry of a course's enrolled students list.
type CourseEnrollment struct {
	gorm.Model
	CourseID      uint       `gorm:"uniqueIndex:idx_course_student;not null" json:"courseId"`
	StudentID     uint       `gorm:"uniqueIndex:idx_course_student;not null" json:"studentId"`
	Status        string     `gorm:"type:varchar(20);not null;default:'pending'" json:"status"` // pending, approved, rejected
	TransactionID uint       `gorm:"index;default:0" json:"transactionId"`
	DecidedAt     *time.Time `json:"decidedAt"`
	Student       *User      `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Course        *Course    `gorm:"foreignKey:CourseID" json:"course,omitempty"`
}

// ValidEnrollmentStatus reports whether status is one of the enrollment states.
func ValidEnrollmentStatus(status string) bool {
	switch status {
	case EnrollmentPending, EnrollmentApproved, EnrollmentRejected:
		return true
	}
	return false
}
