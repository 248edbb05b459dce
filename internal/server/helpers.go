package server

import (
	"log/slog"
	"strconv"
	"strings"

	"hotgist/internal/models"
	"hotgist/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// fail writes err with the status its code maps to. Server-side failures
// are logged; client errors are not.
func (s *Server) fail(c *fiber.Ctx, err error) error {
	if status := models.StatusFor(err); status >= fiber.StatusInternalServerError {
		s.logger.ErrorContext(c.UserContext(), "request failed",
			slog.String("path", c.Path()),
			slog.Int("status", status),
			slog.String("error", err.Error()))
	}
	return models.RespondWithAppError(c, err)
}

// queryInt parses an optional integer query parameter. A value that is not
// an integer is an INVALID_FILTER error.
func queryInt(c *fiber.Ctx, key string) (*int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, models.NewInvalidFilterError(key + " must be an integer")
	}
	return &v, nil
}

// queryBool treats "true" and "1" as true and anything else as false.
func queryBool(c *fiber.Ctx, key string) bool {
	v := strings.ToLower(strings.TrimSpace(c.Query(key)))
	return v == "true" || v == "1"
}

// parseBody decodes the JSON body into req and validates it.
func parseBody(c *fiber.Ctx, req any) error {
	if err := c.BodyParser(req); err != nil {
		return models.NewValidationError("Invalid request body")
	}
	return validation.Struct(req)
}

func derefOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}
