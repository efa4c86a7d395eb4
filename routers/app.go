// Package routers assembles the HTTP application.
package routers

import (
	"edulearn/config"
	"edulearn/middleware"
	"edulearn/routers/bankRoutes"
	"edulearn/routers/courseRoutes"
	"edulearn/routers/instructorRoutes"
	"edulearn/routers/studentRoutes"
	"edulearn/routers/userRoutes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// New builds the fiber app with every route group mounted.
func New() *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler,
		BodyLimit:    100 * 1024 * 1024,
	})

	app.Use(recover.New())

	origin := "*"
	if config.AppConfig != nil && config.AppConfig.CorsOrigin != "" {
		origin = config.AppConfig.CorsOrigin
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origin,
		AllowCredentials: origin != "*",
		AllowMethods:     "GET,POST,PATCH,PUT,DELETE",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization",
	}))

	if config.AppConfig == nil || config.AppConfig.AppEnv != "test" {
		app.Use(logger.New(logger.Config{
			Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
		}))
	}

	// Serve static files from the public folder
	app.Static("/", "./public")

	userRoutes.SetupUserRoutes(app)
	bankRoutes.SetupBankRoutes(app)
	courseRoutes.SetupCourseRoutes(app)
	courseRoutes.SetupAdminRoutes(app)
	instructorRoutes.SetupInstructorRoutes(app)
	studentRoutes.SetupStudentRoutes(app)

	app.Get("/health", func(c *fiber.Ctx) error {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "OK", nil)
	})

	return app
}
