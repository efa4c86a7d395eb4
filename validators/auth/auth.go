package authValidator

import (
	"edulearn/middleware"
	"edulearn/validators"
	"strings"

	"github.com/gofiber/fiber/v2"
)

type RegisterRequest struct {
	Fullname    string `json:"fullname" form:"fullname" validate:"notblank,min=3"`
	Email       string `json:"email" form:"email" validate:"required,email"`
	PhoneNumber string `json:"phoneNumber" form:"phoneNumber" validate:"omitempty,bdphone"`
	Password    string `json:"password" form:"password" validate:"required,min=6"`
	Role        string `json:"role" form:"role" validate:"omitempty,oneof=student instructor admin"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdatePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6,nefield=OldPassword"`
}

type UpdateAccountRequest struct {
	Fullname string `json:"fullname" validate:"notblank,min=3"`
	Email    string `json:"email" validate:"required,email"`
}

// Register validates the multipart signup form including the avatar file
func Register() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(RegisterRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.Email = strings.ToLower(strings.TrimSpace(reqData.Email))
		reqData.Fullname = strings.TrimSpace(reqData.Fullname)

		errors := validators.Check(reqData)

		if file, err := c.FormFile("avatar"); err != nil || file.Size == 0 {
			errors["avatar"] = "Avatar is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedRegister", reqData)
		return c.Next()
	}
}

// Login validator middleware
func Login() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(LoginRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.Email = strings.ToLower(strings.TrimSpace(reqData.Email))

		if errors := validators.Check(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedLogin", reqData)
		return c.Next()
	}
}

func UpdatePassword() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdatePasswordRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := validators.Check(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedUpdatePassword", reqData)
		return c.Next()
	}
}

func UpdateAccount() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateAccountRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.Email = strings.ToLower(strings.TrimSpace(reqData.Email))
		reqData.Fullname = strings.TrimSpace(reqData.Fullname)

		if errors := validators.Check(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedUpdateAccount", reqData)
		return c.Next()
	}
}
