package controllers

import (
	"edulearn/database"
	"edulearn/middleware"
	"edulearn/models"
	courseValidator "edulearn/validators/course"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func CreateMCQ(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	reqData, ok := c.Locals("validatedMCQ").(*courseValidator.CreateMCQRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	lecture, _, err := ownedLecture(c, reqData.LectureID)
	if err != nil {
		return err
	}

	mcq := models.MCQ{
		LectureID:  lecture.ID,
		Question:   reqData.Question,
		Options:    reqData.Options,
		CorrectAns: reqData.CorrectAns,
		CreatedBy:  userId,
	}

	if err := database.Database.Db.Create(&mcq).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create MCQ!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "MCQ created successfully.", mcq)
}

// GetMCQ lists a lecture's questions; students do not see the answers
func GetMCQ(c *fiber.Ctx) error {
	lecture, course, err := findLecture(c.Locals("lectureId").(uint))
	if err != nil {
		return err
	}
	if !canView(c, course) {
		return errNotEnrolled
	}

	var mcqs []models.MCQ
	if err := database.Database.Db.Where("lecture_id = ? AND is_deleted = false", lecture.ID).Order("id").Find(&mcqs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch MCQs!", nil)
	}

	role, _ := c.Locals("role").(string)
	if course.CreatedBy != c.Locals("userId").(uint) && role != models.RoleAdmin {
		for i := range mcqs {
			mcqs[i].CorrectAns = ""
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "MCQs fetched.", mcqs)
}

func findMCQ(id uint) (*models.MCQ, error) {
	var mcq models.MCQ
	if err := database.Database.Db.Where("id = ? AND is_deleted = false", id).First(&mcq).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errMCQNotFound
		}
		return nil, err
	}
	return &mcq, nil
}

func ownedMCQ(c *fiber.Ctx, id uint) (*models.MCQ, error) {
	mcq, err := findMCQ(id)
	if err != nil {
		return nil, err
	}
	if _, _, err := ownedLecture(c, mcq.LectureID); err != nil {
		return nil, err
	}
	return mcq, nil
}

func UpdateMCQ(c *fiber.Ctx) error {
	mcq, err := ownedMCQ(c, c.Locals("id").(uint))
	if err != nil {
		return err
	}

	reqData, ok := c.Locals("validatedMCQUpdate").(*courseValidator.UpdateMCQRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	question := mcq.Question
	if reqData.Question != nil {
		question = strings.TrimSpace(*reqData.Question)
	}
	options := append([]string(nil), mcq.Options...)
	if reqData.Options != nil {
		options = reqData.Options
	}
	correctAns := mcq.CorrectAns
	if reqData.CorrectAns != nil {
		correctAns = strings.TrimSpace(*reqData.CorrectAns)
	}

	if errs := courseValidator.MCQErrors(question, options, correctAns); len(errs) > 0 {
		return middleware.ValidationErrorResponse(c, errs)
	}

	mcq.Question = question
	mcq.Options = options
	mcq.CorrectAns = correctAns

	if err := database.Database.Db.Save(mcq).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update MCQ!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "MCQ updated successfully.", mcq)
}

func DeleteMCQ(c *fiber.Ctx) error {
	mcq, err := ownedMCQ(c, c.Locals("id").(uint))
	if err != nil {
		return err
	}

	if err := database.Database.Db.Model(mcq).Update("is_deleted", true).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete MCQ!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "MCQ deleted successfully.", nil)
}

// AnswerMCQ checks a student's answer to a question of a course they joined
func AnswerMCQ(c *fiber.Ctx) error {
	mcq, err := findMCQ(c.Locals("id").(uint))
	if err != nil {
		return err
	}
	_, course, err := findLecture(mcq.LectureID)
	if err != nil {
		return err
	}
	if !canView(c, course) {
		return errNotEnrolled
	}

	reqData, ok := c.Locals("validatedAnswer").(*courseValidator.AnswerRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	correct := strings.TrimSpace(reqData.Answer) == mcq.CorrectAns

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Answer checked.", fiber.Map{
		"correct":    correct,
		"correctAns": mcq.CorrectAns,
	})
}
