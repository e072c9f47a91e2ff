package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// RequestValidator adapts go-playground/validator to echo's Validator
// interface for request-body validation tags
type RequestValidator struct {
	validate *validator.Validate
}

// NewRequestValidator creates a request validator
func NewRequestValidator() *RequestValidator {
	return &RequestValidator{validate: validator.New()}
}

// Validate implements echo.Validator
func (v *RequestValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
