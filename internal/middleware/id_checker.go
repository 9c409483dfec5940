package middleware

import (
	"net/http"
	"regexp"

	"github.com/labstack/echo/v4"
)

var objectIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

// IsValidObjectID reports whether s is a 24-character hex ObjectID
func IsValidObjectID(s string) bool {
	return objectIDPattern.MatchString(s)
}

// IDChecker validates that the named path parameters are 24-character hex
// ObjectIDs before any handler runs, rejecting with 400 otherwise.
func IDChecker(params ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			for _, param := range params {
				if !IsValidObjectID(c.Param(param)) {
					return echo.NewHTTPError(http.StatusBadRequest, "Please enter a valid id number")
				}
			}
			return next(c)
		}
	}
}
