package handlers

import (
	"errors"
	"log/slog"

	"inventory/internal/views"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler renders the error page. *fiber.Error values keep their status
// and message; anything else is logged and shown as a generic 500.
func ErrorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "An unexpected error occurred. Please try again later."

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
		} else {
			logger.ErrorContext(c.UserContext(), "Unhandled request error",
				slog.String("method", c.Method()),
				slog.String("path", c.Path()),
				slog.String("error", err.Error()),
			)
		}

		c.Status(code)
		if renderErr := c.Render("errors/error", fiber.Map{
			"title":   message,
			"status":  code,
			"message": message,
		}, views.Layout); renderErr != nil {
			logger.ErrorContext(c.UserContext(), "Failed to render error page", slog.String("error", renderErr.Error()))
			return c.Status(code).SendString(message)
		}
		return nil
	}
}
