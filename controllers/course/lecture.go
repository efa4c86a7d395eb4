package controllers

import (
	"edulearn/database"
	"edulearn/logger"
	"edulearn/middleware"
	"edulearn/models"
	"edulearn/utils/media"
	courseValidator "edulearn/validators/course"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func AddLecture(c *fiber.Ctx) error {
	course, err := ownedCourse(c, c.Locals("id").(uint))
	if err != nil {
		return err
	}

	reqData, ok := c.Locals("validatedLecture").(*courseValidator.CreateLectureRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	file, err := c.FormFile("resource")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Resource file is required!", nil)
	}
	resource, err := media.Default.Upload(c.UserContext(), file)
	if err != nil {
		logger.Log.Error("uploading lecture resource", zap.Uint("courseId", course.ID), zap.Error(err))
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Failed to upload resource!", nil)
	}

	lecture := models.Lecture{
		CourseID:     course.ID,
		Title:        reqData.Title,
		Description:  reqData.Description,
		Resource:     resource.URL,
		ResourceType: resourceType(resource, file.Filename),
	}

	if err := database.Database.Db.Create(&lecture).Error; err != nil {
		_ = media.Default.Destroy(c.UserContext(), resource.URL)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create lecture!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Lecture created successfully.", lecture)
}

func resourceType(asset *media.Asset, filename string) string {
	switch asset.ResourceType {
	case models.ResourceVideo, models.ResourceImage, models.ResourceRaw:
		return asset.ResourceType
	}
	return media.ResourceType(filename)
}

// GetLectures lists a course's lectures for its owner, an admin or an approved student
func GetLectures(c *fiber.Ctx) error {
	course, err := findCourse(c.Locals("id").(uint))
	if err != nil {
		return err
	}
	if !canView(c, course) {
		return errNotEnrolled
	}

	var lectures []models.Lecture
	if err := database.Database.Db.Where("course_id = ? AND is_deleted = false", course.ID).Order("id").Find(&lectures).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch lectures!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lectures fetched.", fiber.Map{
		"course":   course,
		"lectures": lectures,
	})
}

func UpdateLecture(c *fiber.Ctx) error {
	lecture, _, err := ownedLecture(c, c.Locals("lectureId").(uint))
	if err != nil {
		return err
	}

	reqData, ok := c.Locals("validatedLectureUpdate").(*courseValidator.UpdateLectureRequest)
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

	if err := database.Database.Db.Model(lecture).Updates(updates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update lecture!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lecture updated successfully.", lecture)
}

func UpdateLectureResource(c *fiber.Ctx) error {
	lecture, _, err := ownedLecture(c, c.Locals("lectureId").(uint))
	if err != nil {
		return err
	}

	file, err := c.FormFile("resource")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Resource file is required!", nil)
	}
	resource, err := media.Default.Upload(c.UserContext(), file)
	if err != nil {
		logger.Log.Error("uploading lecture resource", zap.Uint("lectureId", lecture.ID), zap.Error(err))
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Failed to upload resource!", nil)
	}

	oldResource := lecture.Resource
	if err := database.Database.Db.Model(lecture).Updates(map[string]interface{}{
		"resource":      resource.URL,
		"resource_type": resourceType(resource, file.Filename),
	}).Error; err != nil {
		_ = media.Default.Destroy(c.UserContext(), resource.URL)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update resource!", nil)
	}
	if err := media.Default.Destroy(c.UserContext(), oldResource); err != nil {
		logger.Log.Warn("removing old lecture resource", zap.String("url", oldResource), zap.Error(err))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lecture resource updated.", lecture)
}

func DeleteLecture(c *fiber.Ctx) error {
	lecture, _, err := ownedLecture(c, c.Locals("lectureId").(uint))
	if err != nil {
		return err
	}

	db := database.Database.Db
	tx := db.Begin()

	if err := tx.Model(lecture).Update("is_deleted", true).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete lecture!", nil)
	}
	if err := tx.Model(&models.MCQ{}).Where("lecture_id = ?", lecture.ID).Update("is_deleted", true).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete lecture questions!", nil)
	}

	if err := tx.Commit().Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete lecture!", nil)
	}

	if err := media.Default.Destroy(c.UserContext(), lecture.Resource); err != nil {
		logger.Log.Warn("removing lecture resource", zap.String("url", lecture.Resource), zap.Error(err))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lecture deleted successfully.", nil)
}
