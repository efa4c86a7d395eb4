package bankRoutes

import (
	bankController "edulearn/controllers/bank"
	"edulearn/middleware"
	"edulearn/models"
	bankValidator "edulearn/validators/bank"

	"github.com/gofiber/fiber/v2"
)

func SetupBankRoutes(app *fiber.App) {
	bankGroup := app.Group("/api/v1/bank", middleware.JWTMiddleware)

	bankGroup.Post("/setup", bankValidator.Setup(), bankController.Setup)
	bankGroup.Post("/add-balance", bankValidator.AddBalance(), bankController.AddBalance)
	bankGroup.Get("/account", bankController.Account)
	bankGroup.Get("/transactions", bankController.Transactions)
	bankGroup.Get("/ledger", bankController.Ledger)

	bankGroup.Post("/instructor-validation",
		middleware.RequireRole(models.RoleInstructor, models.RoleAdmin),
		bankValidator.Decision(),
		bankController.InstructorValidation)

	// Admin routes
	bankGroup.Get("/all-transactions", middleware.RequireRole(models.RoleAdmin), bankController.AllTransactions)
}
