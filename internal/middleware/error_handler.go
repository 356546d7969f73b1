package middleware

import (
	"errors"

	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler is the global error handler. Domain errors keep their status
// and reason; everything else is an opaque 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return response.FromError(c, err)
}

// finalStatus is the status the client will see once ErrorHandler has run.
func finalStatus(c *fiber.Ctx, err error) int {
	if err == nil {
		return c.Response().StatusCode()
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return response.StatusOf(domain.KindOf(err))
}
