package instructorRoutes

import (
	controllers "edulearn/controllers/course"
	"edulearn/middleware"
	"edulearn/models"
	"edulearn/validators"
	courseValidator "edulearn/validators/course"

	"github.com/gofiber/fiber/v2"
)

func SetupInstructorRoutes(app *fiber.App) {
	instructorGroup := app.Group("/api/v1/instructor", middleware.JWTMiddleware)
	instructor := middleware.RequireRole(models.RoleInstructor, models.RoleAdmin)

	instructorGroup.Get("/all-course", instructor, controllers.AllCourses)
	instructorGroup.Get("/my-course", instructor, controllers.MyCourses)
	instructorGroup.Get("/pending-enrollments", instructor, controllers.InstructorPendingEnrollments)
	instructorGroup.Get("/course/:id/details", instructor, validators.IDParam("id"), controllers.CourseDetails)

	// MCQ
	instructorGroup.Post("/create-mcq", instructor, courseValidator.CreateMCQ(), controllers.CreateMCQ)
	instructorGroup.Get("/get-mcq/:lectureId", validators.IDParam("lectureId"), controllers.GetMCQ)
	instructorGroup.Patch("/update-mcq/:id", instructor, validators.IDParam("id"), courseValidator.UpdateMCQ(), controllers.UpdateMCQ)
	instructorGroup.Delete("/delete-mcq/:id", instructor, validators.IDParam("id"), controllers.DeleteMCQ)
}
