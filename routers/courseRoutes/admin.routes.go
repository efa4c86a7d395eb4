package courseRoutes

import (
	controllers "edulearn/controllers/course"
	"edulearn/middleware"
	"edulearn/models"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminRoutes sets up the platform admin views
func SetupAdminRoutes(app *fiber.App) {
	adminGroup := app.Group("/api/v1/admin", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin))

	adminGroup.Get("/pending-enrollments", controllers.AdminPendingEnrollments)
	adminGroup.Get("/dashboard/stats", controllers.DashboardStats)
}
