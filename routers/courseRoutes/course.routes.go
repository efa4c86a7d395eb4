package courseRoutes

import (
	controllers "edulearn/controllers/course"
	"edulearn/middleware"
	"edulearn/models"
	"edulearn/validators"
	courseValidator "edulearn/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up course and lecture management plus enrollment requests
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/api/v1/course", middleware.JWTMiddleware)
	owner := middleware.RequireRole(models.RoleInstructor, models.RoleAdmin)

	// Course CRUD
	courseGroup.Post("/add-course", owner, courseValidator.CreateCourse(), controllers.AddCourse)
	courseGroup.Patch("/:id", owner, validators.IDParam("id"), courseValidator.UpdateCourse(), controllers.UpdateCourse)
	courseGroup.Patch("/:id/image", owner, validators.IDParam("id"), validators.RequireFile("image"), controllers.UpdateCourseImage)
	courseGroup.Delete("/:id", owner, validators.IDParam("id"), controllers.DeleteCourse)

	// Lectures
	courseGroup.Post("/:id/lectures", owner, validators.IDParam("id"), courseValidator.CreateLecture(), controllers.AddLecture)
	courseGroup.Get("/:id/lectures", validators.IDParam("id"), controllers.GetLectures)
	courseGroup.Patch("/lectures/:lectureId", owner, validators.IDParam("lectureId"), courseValidator.UpdateLecture(), controllers.UpdateLecture)
	courseGroup.Patch("/lectures/:lectureId/resource", owner, validators.IDParam("lectureId"), validators.RequireFile("resource"), controllers.UpdateLectureResource)
	courseGroup.Delete("/lectures/:lectureId", owner, validators.IDParam("lectureId"), controllers.DeleteLecture)

	// Enrollment
	courseGroup.Post("/enrolled/:id", middleware.RequireRole(models.RoleStudent), validators.IDParam("id"), courseValidator.EnrollCourse(), controllers.EnrollCourse)
}
