// Package validators holds the shared request validation helpers used by the
// per-area validator middlewares.
package validators

import (
	"edulearn/middleware"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var (
	phoneRegex         = regexp.MustCompile(`^01[3-9]\d{8}$`)
	accountNumberRegex = regexp.MustCompile(`^[0-9]{11}$`)
)

// Validate is the shared validator instance; error keys use JSON field names.
var Validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("bdphone", func(fl validator.FieldLevel) bool {
		return phoneRegex.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("accountnumber", func(fl validator.FieldLevel) bool {
		return accountNumberRegex.MatchString(fl.Field().String())
	})

	return v
}

// Check validates s and returns the failures keyed by JSON field name.
func Check(s interface{}) map[string]string {
	errs := make(map[string]string)

	err := Validate.Struct(s)
	if err == nil {
		return errs
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs["body"] = err.Error()
		return errs
	}
	for _, fe := range verrs {
		errs[fe.Field()] = message(fe)
	}
	return errs
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s is required!", field)
	case "email":
		return "Invalid email!"
	case "bdphone":
		return "Invalid phone number!"
	case "accountnumber":
		return "Account number must be 11 digits!"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters long!", field, fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must have at least %s items!", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s!", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long!", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s!", field, fe.Param())
	case "unique":
		return fmt.Sprintf("%s must not contain duplicates!", field)
	case "nefield":
		return fmt.Sprintf("%s must differ from %s!", field, fe.Param())
	}
	return fmt.Sprintf("%s is invalid!", field)
}

// IDParam parses the route parameter name as a positive id and stores it in
// Locals under the same name as a uint.
func IDParam(names ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		for _, name := range names {
			raw := strings.TrimSpace(c.Params(name))
			id, err := strconv.ParseUint(raw, 10, 64)
			if err != nil || id == 0 {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, fmt.Sprintf("Invalid %s!", name), nil)
			}
			c.Locals(name, uint(id))
		}
		return c.Next()
	}
}

// RequireFile rejects multipart requests that do not carry the file field.
func RequireFile(field string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if file, err := c.FormFile(field); err != nil || file.Size == 0 {
			return middleware.ValidationErrorResponse(c, map[string]string{
				field: fmt.Sprintf("%s file is required!", field),
			})
		}
		return c.Next()
	}
}
