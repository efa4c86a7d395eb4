package middleware

import (
	"edulearn/logger"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// statusCoder is implemented by domain errors that know their HTTP status.
type statusCoder interface {
	StatusCode() int
}

func JsonResponse(c *fiber.Ctx, statusCode int, status bool, message string, data interface{}) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"statusCode": statusCode,
		"status":     status,
		"message":    message,
		"data":       data,
	})
}

func ValidationErrorResponse(c *fiber.Ctx, errors map[string]string) error {
	return JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Validation failed!", errors)
}

// ErrorHandler renders every error returned from a handler as the JSON envelope.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error!"

	var fe *fiber.Error
	var sc statusCoder
	switch {
	case errors.As(err, &fe):
		code = fe.Code
		message = fe.Message
	case errors.As(err, &sc):
		code = sc.StatusCode()
		message = err.Error()
	default:
		logger.Log.Error("unhandled error",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}

	return c.Status(code).JSON(fiber.Map{
		"statusCode": code,
		"status":     false,
		"message":    message,
		"data":       nil,
	})
}
