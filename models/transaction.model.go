package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	TransactionPending  = "pending"
	TransactionApproved = "approved"
	TransactionRejected = "rejected"
)

// Transaction is the payment snapshot of one enrollment request.
type Transaction struct {
	gorm.Model
	AdminID         uint            `gorm:"index;not null" json:"adminId"`
	CourseID        uint            `gorm:"index;not null" json:"courseId"`
	CourseName      string          `gorm:"not null" json:"courseName"`
	InstructorID    uint            `gorm:"index;not null" json:"instructorId"`
	InstructorName  string          `gorm:"not null" json:"instructorName"`
	InstructorEmail string          `gorm:"not null" json:"instructorEmail"`
	UserID          uint            `gorm:"index;not null" json:"userId"`
	UserName        string          `gorm:"not null" json:"userName"`
	UserEmail       string          `gorm:"not null" json:"userEmail"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"totalAmount"`
	AdminCommission decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"adminCommission"`
	InstructorShare decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"instructorShare"`
	Provider        string          `gorm:"not null" json:"provider"`
	Status          string          `gorm:"type:varchar(20);not null;default:'pending'" json:"status"` // pending, approved, rejected
	BankRefID       string          `gorm:"type:varchar(64);uniqueIndex" json:"bankRefId"`
	DecidedBy       uint            `gorm:"default:0" json:"decidedBy"`
	DecidedAt       *time.Time      `json:"decidedAt"`
}
