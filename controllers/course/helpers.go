package controllers

import (
	"edulearn/database"
	"edulearn/models"
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var (
	errCourseNotFound  = fiber.NewError(fiber.StatusNotFound, "Course not found!")
	errLectureNotFound = fiber.NewError(fiber.StatusNotFound, "Lecture not found!")
	errMCQNotFound     = fiber.NewError(fiber.StatusNotFound, "MCQ not found!")
	errNotOwner        = fiber.NewError(fiber.StatusForbidden, "You are not the owner of this course!")
	errNotEnrolled     = fiber.NewError(fiber.StatusForbidden, "You are not enrolled in this course!")
)

func findCourse(courseID uint) (*models.Course, error) {
	var course models.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = false", courseID).First(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errCourseNotFound
		}
		return nil, err
	}
	return &course, nil
}

// ownedCourse loads a course the caller created.
func ownedCourse(c *fiber.Ctx, courseID uint) (*models.Course, error) {
	course, err := findCourse(courseID)
	if err != nil {
		return nil, err
	}
	if course.CreatedBy != c.Locals("userId").(uint) {
		return nil, errNotOwner
	}
	return course, nil
}

// findLecture loads a lecture together with its course.
func findLecture(lectureID uint) (*models.Lecture, *models.Course, error) {
	var lecture models.Lecture
	if err := database.Database.Db.Where("id = ? AND is_deleted = false", lectureID).First(&lecture).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, errLectureNotFound
		}
		return nil, nil, err
	}
	course, err := findCourse(lecture.CourseID)
	if err != nil {
		return nil, nil, err
	}
	return &lecture, course, nil
}

func ownedLecture(c *fiber.Ctx, lectureID uint) (*models.Lecture, *models.Course, error) {
	lecture, course, err := findLecture(lectureID)
	if err != nil {
		return nil, nil, err
	}
	if course.CreatedBy != c.Locals("userId").(uint) {
		return nil, nil, errNotOwner
	}
	return lecture, course, nil
}

func isApprovedStudent(courseID, studentID uint) bool {
	var count int64
	database.Database.Db.Model(&models.CourseEnrollment{}).
		Where("course_id = ? AND student_id = ? AND status = ?", courseID, studentID, models.EnrollmentApproved).
		Count(&count)
	return count > 0
}

// canView reports whether the caller may see the content of course: its
// owner, an admin or an approved student.
func canView(c *fiber.Ctx, course *models.Course) bool {
	userId := c.Locals("userId").(uint)
	role, _ := c.Locals("role").(string)
	return course.CreatedBy == userId || role == models.RoleAdmin || isApprovedStudent(course.ID, userId)
}

// publicInstructor limits a preloaded course instructor to the fields shown on course cards.
func publicInstructor(db *gorm.DB) *gorm.DB {
	return db.Select("id", "fullname", "avatar")
}
