package controllers

import (
	"edulearn/database"
	"edulearn/logger"
	"edulearn/middleware"
	"edulearn/models"
	"edulearn/services/settlement"
	"edulearn/utils"
	courseValidator "edulearn/validators/course"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EnrollCourse reserves the course price from the student's wallet and
// creates a pending enrollment request
func EnrollCourse(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	courseId := c.Locals("id").(uint)

	reqData, ok := c.Locals("validatedEnroll").(*courseValidator.EnrollRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	out, err := settlement.RequestEnrollment(database.Database.Db, userId, courseId, reqData.SecretKey)
	if err != nil {
		return err
	}

	txn := out.Transaction
	utils.SendEnrollmentRequestedEmails(txn.UserEmail, txn.UserName, txn.InstructorEmail, txn.InstructorName, txn.CourseName, txn.TotalAmount)

	logger.Log.Info("enrollment requested",
		zap.Uint("courseId", courseId),
		zap.Uint("studentId", userId),
		zap.String("bankRefId", txn.BankRefID))

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Enrollment request sent to the instructor.", fiber.Map{
		"enrollment":  out.Enrollment,
		"transaction": txn,
	})
}

func pendingEnrollments(c *fiber.Ctx, query *gorm.DB) error {
	page, limit, offset := middleware.Pagination(c)

	query = query.Where("course_enrollments.status = ?", models.EnrollmentPending)

	var total int64
	query.Count(&total)

	var enrollments []models.CourseEnrollment
	if err := query.
		Preload("Student").
		Preload("Course").
		Order("course_enrollments.created_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Pending enrollments fetched.", fiber.Map{
		"enrollments": enrollments,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// InstructorPendingEnrollments lists pending requests on the caller's courses
func InstructorPendingEnrollments(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	query := database.Database.Db.Model(&models.CourseEnrollment{}).
		Joins("JOIN courses ON courses.id = course_enrollments.course_id").
		Where("courses.created_by = ? AND courses.is_deleted = false", userId)

	return pendingEnrollments(c, query)
}

// AdminPendingEnrollments lists every pending request (Admin only)
func AdminPendingEnrollments(c *fiber.Ctx) error {
	return pendingEnrollments(c, database.Database.Db.Model(&models.CourseEnrollment{}))
}
