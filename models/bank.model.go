package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	ProviderBkash = "bkash"
	ProviderNagad = "Nagad"
)

// Bank is the simulated wallet of a user. Each user owns at most one.
type Bank struct {
	gorm.Model
	UserID            uint            `gorm:"uniqueIndex;not null" json:"userId"`
	Provider          string          `gorm:"type:varchar(20);not null" json:"provider"` // bkash, Nagad
	AccountNumber     string          `gorm:"type:varchar(11);not null" json:"accountNumber"`
	AccountHolderName string          `gorm:"not null" json:"accountHolderName"`
	SecretKey         string          `gorm:"not null" json:"-"`
	Balance           decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"balance"`
	IsDeleted         bool            `gorm:"default:false" json:"-"`
}
