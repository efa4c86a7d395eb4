package controllers

import (
	"edulearn/database"
	"edulearn/logger"
	"edulearn/middleware"
	"edulearn/models"
	"edulearn/services/settlement"
	"edulearn/utils/media"
	courseValidator "edulearn/validators/course"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AddCourse creates a course owned by the caller; payments go to the platform admin
func AddCourse(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	reqData, ok := c.Locals("validatedCourse").(*courseValidator.CreateCourseRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	admin, err := settlement.PlatformAdmin(db)
	if err != nil {
		return err
	}

	file, err := c.FormFile("image")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Image is required!", nil)
	}
	image, err := media.Default.Upload(c.UserContext(), file)
	if err != nil {
		logger.Log.Error("uploading course image", zap.Error(err))
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Failed to upload image!", nil)
	}

	course := models.Course{
		Title:       reqData.Title,
		Description: reqData.Description,
		Price:       reqData.Amount,
		Image:       image.URL,
		CreatedBy:   userId,
		AdminID:     admin.ID,
	}

	if err := db.Create(&course).Error; err != nil {
		_ = media.Default.Destroy(c.UserContext(), image.URL)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully.", course)
}

func UpdateCourse(c *fiber.Ctx) error {
	course, err := ownedCourse(c, c.Locals("id").(uint))
	if err != nil {
		return err
	}

	reqData, ok := c.Locals("validatedCourseUpdate").(*courseValidator.UpdateCourseRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	updates := make(map[string]interface{})
	if reqData.Title != nil {
		updates["title"] = strings.TrimSpace(*reqData.Title)
	}
	if reqData.Description != nil {
		updates["description"] = strings.TrimSpace(*reqData.Description)
	}
	if reqData.Price != nil {
		updates["price"] = reqData.Price.Round(2)
	}

	if err := database.Database.Db.Model(course).Updates(updates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully.", course)
}

func UpdateCourseImage(c *fiber.Ctx) error {
	course, err := ownedCourse(c, c.Locals("id").(uint))
	if err != nil {
		return err
	}

	file, err := c.FormFile("image")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Image is required!", nil)
	}
	image, err := media.Default.Upload(c.UserContext(), file)
	if err != nil {
		logger.Log.Error("uploading course image", zap.Uint("courseId", course.ID), zap.Error(err))
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Failed to upload image!", nil)
	}

	oldImage := course.Image
	if err := database.Database.Db.Model(course).Update("image", image.URL).Error; err != nil {
		_ = media.Default.Destroy(c.UserContext(), image.URL)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update image!", nil)
	}
	if err := media.Default.Destroy(c.UserContext(), oldImage); err != nil {
		logger.Log.Warn("removing old course image", zap.String("url", oldImage), zap.Error(err))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course image updated.", course)
}

// DeleteCourse hides the course and its lectures; refused while requests are pending
func DeleteCourse(c *fiber.Ctx) error {
	course, err := ownedCourse(c, c.Locals("id").(uint))
	if err != nil {
		return err
	}

	db := database.Database.Db

	var pending int64
	db.Model(&models.CourseEnrollment{}).Where("course_id = ? AND status = ?", course.ID, models.EnrollmentPending).Count(&pending)
	if pending > 0 {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Course has pending enrollment requests!", fiber.Map{"pending": pending})
	}

	tx := db.Begin()

	if err := tx.Model(course).Update("is_deleted", true).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course!", nil)
	}
	if err := tx.Model(&models.Lecture{}).Where("course_id = ?", course.ID).Update("is_deleted", true).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete lectures!", nil)
	}

	if err := tx.Commit().Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted successfully.", nil)
}

// AllCourses lists every active course with its instructor
func AllCourses(c *fiber.Ctx) error {
	page, limit, offset := middleware.Pagination(c)

	query := database.Database.Db.Model(&models.Course{}).Where("is_deleted = false")
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		query = query.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	var total int64
	query.Count(&total)

	var courses []models.Course
	if err := query.Preload("Instructor", publicInstructor).Order("created_at DESC").Offset(offset).Limit(limit).Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched.", fiber.Map{
		"courses": courses,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// MyCourses lists the caller's own courses with their enrollment entries
func MyCourses(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	var courses []models.Course
	if err := database.Database.Db.
		Where("created_by = ? AND is_deleted = false", userId).
		Preload("StudentsEnrolled").
		Order("created_at DESC").
		Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched.", courses)
}

// CourseDetails returns a course with its students, lecture count and instructor earnings
func CourseDetails(c *fiber.Ctx) error {
	course, err := findCourse(c.Locals("id").(uint))
	if err != nil {
		return err
	}

	userId := c.Locals("userId").(uint)
	role, _ := c.Locals("role").(string)
	if course.CreatedBy != userId && role != models.RoleAdmin {
		return errNotOwner
	}

	db := database.Database.Db

	var enrollments []models.CourseEnrollment
	if err := db.Where("course_id = ?", course.ID).Preload("Student").Order("created_at DESC").Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	var lectureCount int64
	db.Model(&models.Lecture{}).Where("course_id = ? AND is_deleted = false", course.ID).Count(&lectureCount)

	earnings := decimal.Zero
	row := db.Model(&models.Transaction{}).
		Where("course_id = ? AND status = ?", course.ID, models.TransactionApproved).
		Select("COALESCE(SUM(instructor_share), 0)").
		Row()
	if err := row.Scan(&earnings); err != nil {
		logger.Log.Error("summing course earnings", zap.Uint("courseId", course.ID), zap.Error(err))
	}

	course.StudentsEnrolled = enrollments

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course details fetched.", fiber.Map{
		"course":       course,
		"lectureCount": lectureCount,
		"earnings":     earnings,
	})
}
