package response

import (
	"github.com/gofiber/fiber/v2"
)

// Machine-readable error codes for the { error, code } body.
const (
	CodeForbidden          = "forbidden"
	CodeUnauthenticated    = "unauthenticated"
	CodeNotGranted         = "not_granted"
	CodeInvariantViolation = "invariant_violation"
	CodeInvalidRole        = "invalid_role"
	CodeBadRequest         = "bad_request"
	CodeNotFound           = "not_found"
	CodeInternal           = "internal"
)

// SuccessBody is the standardized success JSON shape.
type SuccessBody struct {
	Status   string      `json:"status"`
	Message  string      `json:"message"`
	Data     interface{} `json:"data"`
	Metadata interface{} `json:"metadata,omitempty"`
}

// ErrorBody is the standardized error JSON shape: a message plus a machine
// code the dashboard switches on.
type ErrorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

const statusSuccess = "success"

// Success sends 200 OK with the standard success format.
func Success(c *fiber.Ctx, message string, data interface{}, metadata interface{}) error {
	if metadata == nil {
		metadata = map[string]interface{}{}
	}
	return c.Status(fiber.StatusOK).JSON(SuccessBody{
		Status:   statusSuccess,
		Message:  message,
		Data:     data,
		Metadata: metadata,
	})
}

// SuccessCreated sends 201 Created with the standard success format.
func SuccessCreated(c *fiber.Ctx, message string, data interface{}, metadata interface{}) error {
	if metadata == nil {
		metadata = map[string]interface{}{}
	}
	return c.Status(fiber.StatusCreated).JSON(SuccessBody{
		Status:   statusSuccess,
		Message:  message,
		Data:     data,
		Metadata: metadata,
	})
}

// Error sends the standard error body with the given HTTP status.
func Error(c *fiber.Ctx, message string, statusCode int, code string) error {
	if code == "" {
		code = CodeInternal
	}
	return c.Status(statusCode).JSON(ErrorBody{Error: message, Code: code})
}

// Forbidden sends 403.
func Forbidden(c *fiber.Ctx, message string) error {
	return Error(c, message, fiber.StatusForbidden, CodeForbidden)
}

// Unauthorized sends 401.
func Unauthorized(c *fiber.Ctx, message string) error {
	return Error(c, message, fiber.StatusUnauthorized, CodeUnauthenticated)
}

// BadRequest sends 400.
func BadRequest(c *fiber.Ctx, message string, code string) error {
	if code == "" {
		code = CodeBadRequest
	}
	return Error(c, message, fiber.StatusBadRequest, code)
}

// Internal sends 500 with a generic message (persistence failures are not
// surfaced verbatim).
func Internal(c *fiber.Ctx) error {
	return Error(c, "Internal Server Error", fiber.StatusInternalServerError, CodeInternal)
}
