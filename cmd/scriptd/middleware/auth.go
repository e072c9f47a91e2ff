package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// OwnerKey is the context key for storing the authenticated owner id
	OwnerKey ContextKey = "owner"
)

// ExtractOwner requires the X-User-ID header and stores it in the request
// context. Every script operation is scoped to this owner; requests without
// it are rejected before reaching a handler.
func ExtractOwner() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			owner := c.Request().Header.Get("X-User-ID")

			if owner == "" {
				return c.JSON(http.StatusUnauthorized, map[string]any{
					"error": "X-User-ID header is required",
				})
			}

			c.Set(string(OwnerKey), owner)
			return next(c)
		}
	}
}

// GetOwner retrieves the authenticated owner id from the request context
func GetOwner(c echo.Context) string {
	if owner, ok := c.Get(string(OwnerKey)).(string); ok {
		return owner
	}
	return ""
}
