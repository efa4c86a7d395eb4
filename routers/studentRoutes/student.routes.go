package studentRoutes

import (
	controllers "edulearn/controllers/course"
	"edulearn/middleware"
	"edulearn/models"
	"edulearn/validators"
	courseValidator "edulearn/validators/course"

	"github.com/gofiber/fiber/v2"
)

func SetupStudentRoutes(app *fiber.App) {
	studentGroup := app.Group("/api/v1/student")

	// Public
	studentGroup.Get("/public-courses", controllers.PublicCourses)

	student := []fiber.Handler{middleware.JWTMiddleware, middleware.RequireRole(models.RoleStudent)}
	studentGroup.Get("/my-course", append(student, controllers.StudentCourses)...)
	studentGroup.Get("/pending-courses", append(student, controllers.PendingCourses)...)
	studentGroup.Get("/available-course", append(student, controllers.AvailableCourses)...)

	// Progress
	studentGroup.Post("/course/:courseId/lecture/:lectureId/complete",
		append(student, validators.IDParam("courseId", "lectureId"), controllers.CompleteLecture)...)
	studentGroup.Get("/course/:courseId/progress",
		append(student, validators.IDParam("courseId"), controllers.Progress)...)

	// MCQ
	studentGroup.Post("/mcq/:id/answer",
		append(student, validators.IDParam("id"), courseValidator.Answer(), controllers.AnswerMCQ)...)
}
