package courseValidator

import (
	"edulearn/middleware"
	"edulearn/validators"
	"strings"

	"github.com/gofiber/fiber/v2"
)

type CreateMCQRequest struct {
	LectureID  uint     `json:"lectureId" validate:"required"`
	Question   string   `json:"question"`
	Options    []string `json:"option"`
	CorrectAns string   `json:"correctAns"`
}

type UpdateMCQRequest struct {
	Question   *string  `json:"question"`
	Options    []string `json:"option"`
	CorrectAns *string  `json:"correctAns"`
}

type AnswerRequest struct {
	Answer string `json:"answer" validate:"notblank"`
}

// MCQErrors checks that a question is complete and its answer is one of its
// options. Options are trimmed in place.
func MCQErrors(question string, options []string, correctAns string) map[string]string {
	errors := make(map[string]string)

	if strings.TrimSpace(question) == "" {
		errors["question"] = "Question is required!"
	}

	if len(options) < 2 {
		errors["option"] = "At least 2 options are required!"
	} else {
		seen := make(map[string]bool, len(options))
		for i := range options {
			options[i] = strings.TrimSpace(options[i])
			if options[i] == "" {
				errors["option"] = "Options cannot be empty!"
				break
			}
			if seen[options[i]] {
				errors["option"] = "Options must be unique!"
				break
			}
			seen[options[i]] = true
		}
	}

	correctAns = strings.TrimSpace(correctAns)
	if correctAns == "" {
		errors["correctAns"] = "Correct answer is required!"
	} else if _, bad := errors["option"]; !bad {
		found := false
		for _, o := range options {
			if o == correctAns {
				found = true
				break
			}
		}
		if !found {
			errors["correctAns"] = "Correct answer must be one of the options!"
		}
	}

	return errors
}

func CreateMCQ() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateMCQRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.Question = strings.TrimSpace(reqData.Question)
		reqData.CorrectAns = strings.TrimSpace(reqData.CorrectAns)

		errors := validators.Check(reqData)
		for k, v := range MCQErrors(reqData.Question, reqData.Options, reqData.CorrectAns) {
			errors[k] = v
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedMCQ", reqData)
		return c.Next()
	}
}

// UpdateMCQ only parses the partial update; the merged question is checked
// by the controller with MCQErrors.
func UpdateMCQ() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateMCQRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.Question == nil && reqData.Options == nil && reqData.CorrectAns == nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Nothing to update!", nil)
		}

		c.Locals("validatedMCQUpdate", reqData)
		return c.Next()
	}
}

func Answer() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(AnswerRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := validators.Check(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedAnswer", reqData)
		return c.Next()
	}
}
