package response

import (
	"errors"

	"portfolio-backend/internal/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// SuccessBody is the standardized success JSON shape.
type SuccessBody struct {
	Status   string      `json:"status"`
	Message  string      `json:"message"`
	Data     interface{} `json:"data"`
	Metadata interface{} `json:"metadata,omitempty"`
}

// ErrorBody is the standardized error JSON shape.
type ErrorBody struct {
	Status string      `json:"status"`
	Error  ErrorDetail `json:"error"`
}

// ErrorDetail is the nested error object.
type ErrorDetail struct {
	Message    string      `json:"message"`
	StatusCode int         `json:"statusCode"`
	Reason     string      `json:"reason,omitempty"`
	Details    interface{} `json:"details,omitempty"`
}

const statusSuccess = "success"
const statusError = "error"

// Success sends a 200 OK response with the standard success format.
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

// SuccessCreated sends a 201 Created response with the standard success format.
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

// Error sends a response with the standard error format.
func Error(c *fiber.Ctx, message string, statusCode int, details interface{}) error {
	return Reasoned(c, message, statusCode, "", details)
}

// Reasoned is Error with a machine-readable reason code.
func Reasoned(c *fiber.Ctx, message string, statusCode int, reason string, details interface{}) error {
	if details == nil {
		details = map[string]interface{}{}
	}
	return c.Status(statusCode).JSON(ErrorBody{
		Status: statusError,
		Error: ErrorDetail{
			Message:    message,
			StatusCode: statusCode,
			Reason:     reason,
			Details:    details,
		},
	})
}

// StatusOf maps a domain error kind to its HTTP status.
func StatusOf(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindInvalidInput, domain.KindInsufficientQuantity:
		return fiber.StatusBadRequest
	case domain.KindForbidden:
		return fiber.StatusForbidden
	case domain.KindNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// FromError writes err in the standard envelope. Domain rejections keep their
// message and reason; anything else becomes an opaque 500.
func FromError(c *fiber.Ctx, err error) error {
	var de *domain.Error
	if errors.As(err, &de) {
		status := StatusOf(de.Kind)
		if status == fiber.StatusInternalServerError {
			log.Error().Err(err).Str("reason", string(de.Kind)).Str("path", c.Path()).Msg("Invariant violation")
			return Reasoned(c, "Internal Server Error", status, string(de.Kind), nil)
		}
		return Reasoned(c, de.Error(), status, string(de.Kind), nil)
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return Error(c, fe.Message, fe.Code, nil)
	}
	log.Error().Err(err).Str("path", c.Path()).Msg("Unhandled error")
	return Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
}

// Unauthorized sends 401 with the same shape as other errors (status "error", error.message).
// Use this for auth middleware so all errors are consistent.
func Unauthorized(c *fiber.Ctx, message string) error {
	return Error(c, message, fiber.StatusUnauthorized, nil)
}
