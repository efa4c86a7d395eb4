package courseValidator

import (
	"edulearn/middleware"
	"edulearn/validators"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type CreateCourseRequest struct {
	Title       string          `json:"title" form:"title" validate:"notblank,min=3"`
	Description string          `json:"description" form:"description" validate:"notblank"`
	Price       string          `json:"price" form:"price" validate:"required"`
	Amount      decimal.Decimal `json:"-" form:"-"`
}

type UpdateCourseRequest struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
}

type CreateLectureRequest struct {
	Title       string `json:"title" form:"title" validate:"notblank"`
	Description string `json:"description" form:"description" validate:"notblank"`
}

type UpdateLectureRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

type EnrollRequest struct {
	SecretKey string `json:"secretKey" validate:"required"`
}

// CreateCourse validates the multipart course form and its image
func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateCourseRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.Title = strings.TrimSpace(reqData.Title)
		reqData.Description = strings.TrimSpace(reqData.Description)

		errors := validators.Check(reqData)

		if reqData.Price != "" {
			price, err := decimal.NewFromString(strings.TrimSpace(reqData.Price))
			if err != nil || price.IsNegative() {
				errors["price"] = "Price must be a number of at least 0!"
			}
			reqData.Amount = price.Round(2)
		}

		if file, err := c.FormFile("image"); err != nil || file.Size == 0 {
			errors["image"] = "Image is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

// UpdateCourse accepts any subset of title, description and price
func UpdateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateCourseRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.Title == nil && reqData.Description == nil && reqData.Price == nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Nothing to update!", nil)
		}

		errors := make(map[string]string)
		if reqData.Title != nil && len(strings.TrimSpace(*reqData.Title)) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}
		if reqData.Description != nil && strings.TrimSpace(*reqData.Description) == "" {
			errors["description"] = "Description is required!"
		}
		if reqData.Price != nil && reqData.Price.IsNegative() {
			errors["price"] = "Price cannot be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourseUpdate", reqData)
		return c.Next()
	}
}

// CreateLecture validates the multipart lecture form and its resource file
func CreateLecture() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateLectureRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.Title = strings.TrimSpace(reqData.Title)
		reqData.Description = strings.TrimSpace(reqData.Description)

		errors := validators.Check(reqData)
		if file, err := c.FormFile("resource"); err != nil || file.Size == 0 {
			errors["resource"] = "Resource file is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedLecture", reqData)
		return c.Next()
	}
}

func UpdateLecture() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateLectureRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.Title == nil && reqData.Description == nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Nothing to update!", nil)
		}

		errors := make(map[string]string)
		if reqData.Title != nil && strings.TrimSpace(*reqData.Title) == "" {
			errors["title"] = "Title is required!"
		}
		if reqData.Description != nil && strings.TrimSpace(*reqData.Description) == "" {
			errors["description"] = "Description is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedLectureUpdate", reqData)
		return c.Next()
	}
}

// EnrollCourse validates the wallet secret sent with an enrollment request
func EnrollCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(EnrollRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := validators.Check(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedEnroll", reqData)
		return c.Next()
	}
}
