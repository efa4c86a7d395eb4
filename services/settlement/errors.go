package settlement

import "github.com/gofiber/fiber/v2"

// Error is a settlement failure carrying the HTTP status it maps to.
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) StatusCode() int {
	return e.Code
}

var (
	ErrCourseNotFound         = &Error{fiber.StatusNotFound, "Course not found!"}
	ErrStudentNotFound        = &Error{fiber.StatusNotFound, "Student not found!"}
	ErrInstructorNotFound     = &Error{fiber.StatusNotFound, "Course instructor not found!"}
	ErrAdminNotFound          = &Error{fiber.StatusNotFound, "Platform admin not found!"}
	ErrBankNotFound           = &Error{fiber.StatusNotFound, "Bank account not found! Please set up your bank first."}
	ErrAdminBankNotFound      = &Error{fiber.StatusNotFound, "Admin bank account not found!"}
	ErrInstructorBankNotFound = &Error{fiber.StatusNotFound, "Instructor bank account not found!"}
	ErrEnrollmentNotFound     = &Error{fiber.StatusNotFound, "Enrollment request not found!"}
	ErrInvalidSecret          = &Error{fiber.StatusBadRequest, "Invalid secret key!"}
	ErrInvalidStatus          = &Error{fiber.StatusBadRequest, "Status must be approved or rejected!"}
	ErrInsufficientBalance    = &Error{fiber.StatusPaymentRequired, "Insufficient balance!"}
	ErrSelfEnrollment         = &Error{fiber.StatusForbidden, "You cannot enroll in your own course!"}
	ErrNotAllowed             = &Error{fiber.StatusForbidden, "Only the course instructor or an admin can decide this enrollment!"}
	ErrAlreadyPending         = &Error{fiber.StatusConflict, "Enrollment request is already pending!"}
	ErrAlreadyEnrolled        = &Error{fiber.StatusConflict, "Already enrolled in this course!"}
	ErrAlreadyDecided         = &Error{fiber.StatusConflict, "Enrollment has already been decided!"}
)
