package userRoutes

import (
	authController "edulearn/controllers/auth"
	"edulearn/middleware"
	"edulearn/models"
	"edulearn/validators"
	authValidator "edulearn/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App) {
	userGroup := app.Group("/api/v1/user")

	userGroup.Post("/register", authValidator.Register(), authController.Register)
	userGroup.Post("/login", authValidator.Login(), authController.Login)
	userGroup.Post("/refresh-token", authController.RefreshToken)

	userGroup.Post("/logout", middleware.JWTMiddleware, authController.Logout)
	userGroup.Post("/update-password", middleware.JWTMiddleware, authValidator.UpdatePassword(), authController.UpdatePassword)
	userGroup.Post("/update-account", middleware.JWTMiddleware, authValidator.UpdateAccount(), authController.UpdateAccount)
	userGroup.Post("/change-profile", middleware.JWTMiddleware, validators.RequireFile("avatar"), authController.ChangeProfile)
	userGroup.Get("/me", middleware.JWTMiddleware, authController.Me)

	// Admin routes
	userGroup.Get("/all-users", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin), authController.AllUsers)
}
