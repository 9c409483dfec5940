package validators

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// RequestValidator implements echo.Validator over go-playground/validator
type RequestValidator struct {
	validate *validator.Validate
}

// NewValidator creates a new RequestValidator
func NewValidator() *RequestValidator {
	return &RequestValidator{validate: validator.New()}
}

// Validate validates a bound request struct, mapping failures to 400
func (v *RequestValidator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
