// Package testutil builds sqlite backed fixtures for package tests.
package testutil

import (
	"edulearn/config"
	"edulearn/database"
	"edulearn/middleware"
	"edulearn/models"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	Password  = "password123"
	SecretKey = "1234"
)

var seq atomic.Int64

// NewDB opens a migrated in-memory database and installs it as the global one.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	config.Testing()

	db, err := database.Open(sqlite.Open(":memory:"))
	require.NoError(t, err)
	database.Database = database.DbInstance{Db: db}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func hash(t *testing.T, s string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(s), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

// CreateUser stores a user with Password as its password.
func CreateUser(t *testing.T, db *gorm.DB, role string) models.User {
	t.Helper()
	n := seq.Add(1)
	user := models.User{
		Fullname: fmt.Sprintf("%s %d", role, n),
		Email:    fmt.Sprintf("%s%d@example.com", role, n),
		Avatar:   "https://res.cloudinary.com/demo/image/upload/v1/avatar.png",
		Role:     role,
		Password: hash(t, Password),
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

// CreateBank gives user a wallet holding balance, protected by SecretKey.
func CreateBank(t *testing.T, db *gorm.DB, user models.User, balance string) models.Bank {
	t.Helper()
	bank := models.Bank{
		UserID:            user.ID,
		Provider:          models.ProviderBkash,
		AccountNumber:     "01712345678",
		AccountHolderName: user.Fullname,
		SecretKey:         hash(t, SecretKey),
		Balance:           decimal.RequireFromString(balance),
	}
	require.NoError(t, db.Create(&bank).Error)
	return bank
}

// CreateCourse stores a course owned by instructor with the given price.
func CreateCourse(t *testing.T, db *gorm.DB, instructor models.User, adminID uint, price string) models.Course {
	t.Helper()
	course := models.Course{
		Title:       fmt.Sprintf("Course %d", seq.Add(1)),
		Description: "An introduction",
		Price:       decimal.RequireFromString(price),
		Image:       "https://res.cloudinary.com/demo/image/upload/v1/course.png",
		CreatedBy:   instructor.ID,
		AdminID:     adminID,
	}
	require.NoError(t, db.Create(&course).Error)
	return course
}

// CreateLecture stores a lecture in course.
func CreateLecture(t *testing.T, db *gorm.DB, course models.Course) models.Lecture {
	t.Helper()
	lecture := models.Lecture{
		CourseID:     course.ID,
		Title:        fmt.Sprintf("Lecture %d", seq.Add(1)),
		Description:  "Watch this",
		Resource:     "https://res.cloudinary.com/demo/video/upload/v1/lecture.mp4",
		ResourceType: models.ResourceVideo,
	}
	require.NoError(t, db.Create(&lecture).Error)
	return lecture
}

// Balance reloads the wallet balance of userID.
func Balance(t *testing.T, db *gorm.DB, userID uint) decimal.Decimal {
	t.Helper()
	var bank models.Bank
	require.NoError(t, db.Where("user_id = ?", userID).First(&bank).Error)
	return bank.Balance
}

// AssertAmount fails unless got equals the decimal literal want.
func AssertAmount(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.Truef(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

// Bearer returns an Authorization header value for user.
func Bearer(t *testing.T, user models.User) string {
	t.Helper()
	token, err := middleware.GenerateAccessToken(user)
	require.NoError(t, err)
	return "Bearer " + token
}
