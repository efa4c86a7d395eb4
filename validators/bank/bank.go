package bankValidator

import (
	"edulearn/middleware"
	"edulearn/models"
	"edulearn/validators"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type SetupRequest struct {
	Provider          string          `json:"provider" validate:"required,oneof=bkash Nagad"`
	AccountNumber     string          `json:"accountNumber" validate:"required,accountnumber"`
	AccountHolderName string          `json:"accountHolderName" validate:"notblank"`
	Balance           decimal.Decimal `json:"balance"`
	SecretKey         string          `json:"secretKey" validate:"required,min=4"`
}

type AddBalanceRequest struct {
	AccountNumber string          `json:"accountNumber" validate:"required,accountnumber"`
	Balance       decimal.Decimal `json:"balance"`
	SecretKey     string          `json:"secretKey" validate:"required"`
}

type DecisionRequest struct {
	CourseID  uint   `json:"courseId" validate:"required"`
	StudentID uint   `json:"studentId" validate:"required"`
	Status    string `json:"status" validate:"required,oneof=approved rejected"`
}

// Setup validates the bank account creation request
func Setup() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(SetupRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := validators.Check(reqData)
		if reqData.Balance.IsNegative() {
			errors["balance"] = "Balance cannot be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		reqData.Balance = reqData.Balance.Round(2)
		c.Locals("validatedBankSetup", reqData)
		return c.Next()
	}
}

// AddBalance validates a wallet top-up request
func AddBalance() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(AddBalanceRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := validators.Check(reqData)
		if !reqData.Balance.Round(2).IsPositive() {
			errors["balance"] = "Amount must be greater than 0!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		reqData.Balance = reqData.Balance.Round(2)
		c.Locals("validatedAddBalance", reqData)
		return c.Next()
	}
}

// Decision validates the instructor's approve or reject request
func Decision() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(DecisionRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := validators.Check(reqData)
		if len(errors) == 0 && !models.ValidEnrollmentStatus(reqData.Status) {
			errors["status"] = "Invalid status!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedDecision", reqData)
		return c.Next()
	}
}
