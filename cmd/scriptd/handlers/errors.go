package handlers

import (
	"errors"
	"net/http"

	"github.com/callready/scriptd/cmd/scriptd/service"
	"github.com/labstack/echo/v4"
)

// serviceError maps the service error taxonomy to HTTP responses. Anything
// outside the taxonomy is a storage or programming failure and surfaces
// as a 500 without internals.
func serviceError(c echo.Context, err error) error {
	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		return c.JSON(http.StatusBadRequest, map[string]any{
			"error":   "validation failed",
			"details": validationErr.Errors,
		})
	}

	var notFoundErr *service.NotFoundError
	if errors.As(err, &notFoundErr) {
		return c.JSON(http.StatusNotFound, map[string]any{
			"error": "script not found",
		})
	}

	var accessErr *service.AccessDeniedError
	if errors.As(err, &accessErr) {
		return c.JSON(http.StatusForbidden, map[string]any{
			"error": "access denied",
		})
	}

	c.Logger().Error(err)
	return c.JSON(http.StatusInternalServerError, map[string]any{
		"error": "internal error",
	})
}
