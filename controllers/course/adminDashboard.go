package controllers

import (
	"edulearn/database"
	"edulearn/logger"
	"edulearn/middleware"
	"edulearn/models"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/now"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type groupCount struct {
	Label string
	Count int64
}

func countBy(query *gorm.DB, column string) map[string]int64 {
	var rows []groupCount
	query.Select(column + " AS label, COUNT(*) AS count").Group(column).Scan(&rows)

	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.Label] = r.Count
	}
	return out
}

func sumCommission(query *gorm.DB) decimal.Decimal {
	total := decimal.Zero
	if err := query.Select("COALESCE(SUM(admin_commission), 0)").Row().Scan(&total); err != nil {
		logger.Log.Error("summing commission", zap.Error(err))
	}
	return total
}

// DashboardStats summarises users, courses, payments and commission (Admin only)
func DashboardStats(c *fiber.Ctx) error {
	db := database.Database.Db

	usersByRole := countBy(db.Model(&models.User{}).Where("is_deleted = false"), "role")
	transactionsByStatus := countBy(db.Model(&models.Transaction{}), "status")

	var totalCourses int64
	db.Model(&models.Course{}).Where("is_deleted = false").Count(&totalCourses)

	var pendingEnrollments int64
	db.Model(&models.CourseEnrollment{}).Where("status = ?", models.EnrollmentPending).Count(&pendingEnrollments)

	approved := func() *gorm.DB {
		return db.Model(&models.Transaction{}).Where("status = ?", models.TransactionApproved)
	}
	monthStart := now.BeginningOfMonth()

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard stats fetched.", fiber.Map{
		"usersByRole":          usersByRole,
		"totalCourses":         totalCourses,
		"pendingEnrollments":   pendingEnrollments,
		"transactionsByStatus": transactionsByStatus,
		"commission": fiber.Map{
			"total":     sumCommission(approved()),
			"thisMonth": sumCommission(approved().Where("decided_at >= ?", monthStart)),
		},
	})
}
