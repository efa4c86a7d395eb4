package controllers

import (
	"edulearn/database"
	"edulearn/middleware"
	"edulearn/models"
	"math"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PublicCourses lists active courses without authentication
func PublicCourses(c *fiber.Ctx) error {
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

func studentCoursesByStatus(c *fiber.Ctx, status string) ([]models.Course, error) {
	userId := c.Locals("userId").(uint)

	var courses []models.Course
	err := database.Database.Db.
		Joins("JOIN course_enrollments ON course_enrollments.course_id = courses.id").
		Where("course_enrollments.student_id = ? AND course_enrollments.status = ? AND courses.is_deleted = false", userId, status).
		Preload("Instructor", publicInstructor).
		Order("course_enrollments.updated_at DESC").
		Find(&courses).Error
	return courses, err
}

// StudentCourses lists the courses the caller was approved for
func StudentCourses(c *fiber.Ctx) error {
	courses, err := studentCoursesByStatus(c, models.EnrollmentApproved)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrolled courses fetched.", courses)
}

// PendingCourses lists the courses awaiting the instructor's decision
func PendingCourses(c *fiber.Ctx) error {
	courses, err := studentCoursesByStatus(c, models.EnrollmentPending)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Pending courses fetched.", courses)
}

// AvailableCourses lists courses the caller has never requested
func AvailableCourses(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	db := database.Database.Db

	requested := db.Model(&models.CourseEnrollment{}).Select("course_id").Where("student_id = ?", userId)

	var courses []models.Course
	if err := db.
		Where("is_deleted = false AND created_by <> ?", userId).
		Where("id NOT IN (?)", requested).
		Preload("Instructor", publicInstructor).
		Order("created_at DESC").
		Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Available courses fetched.", courses)
}

// CompleteLecture records a lecture as watched by an approved student
func CompleteLecture(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	courseId := c.Locals("courseId").(uint)

	lecture, course, err := findLecture(c.Locals("lectureId").(uint))
	if err != nil {
		return err
	}
	if course.ID != courseId {
		return errLectureNotFound
	}
	if !isApprovedStudent(course.ID, userId) {
		return errNotEnrolled
	}

	var perf models.Performance
	err = database.Database.Db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(models.Performance{StudentID: userId, CourseID: course.ID}).
			Attrs(models.Performance{CompleteLectures: []uint{}}).
			FirstOrCreate(&perf).Error; err != nil {
			return err
		}
		if perf.HasLecture(lecture.ID) {
			return nil
		}
		perf.CompleteLectures = append(perf.CompleteLectures, lecture.ID)
		return tx.Model(&perf).Update("complete_lectures", perf.CompleteLectures).Error
	})
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save progress!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lecture marked as complete.", perf)
}

// Progress reports how many lectures of a course the caller completed
func Progress(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	course, err := findCourse(c.Locals("courseId").(uint))
	if err != nil {
		return err
	}
	if !isApprovedStudent(course.ID, userId) {
		return errNotEnrolled
	}

	db := database.Database.Db

	var lectureIDs []uint
	db.Model(&models.Lecture{}).Where("course_id = ? AND is_deleted = false", course.ID).Pluck("id", &lectureIDs)

	var perf models.Performance
	db.Where("student_id = ? AND course_id = ?", userId, course.ID).Limit(1).Find(&perf)

	completed := 0
	for _, id := range lectureIDs {
		if perf.HasLecture(id) {
			completed++
		}
	}

	percentage := 0.0
	if len(lectureIDs) > 0 {
		percentage = math.Round(float64(completed)/float64(len(lectureIDs))*10000) / 100
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched.", fiber.Map{
		"courseId":         course.ID,
		"completed":        completed,
		"totalLectures":    len(lectureIDs),
		"percentage":       percentage,
		"completeLectures": perf.CompleteLectures,
	})
}
