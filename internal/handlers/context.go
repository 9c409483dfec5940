package handlers

import (
	"github.com/fridayblog/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// currentUser returns the authenticated user's claims set by the JWT
// middleware, or nil when the request carries no identity.
func currentUser(c echo.Context) *models.JwtCustomClaims {
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	if !ok {
		return nil
	}
	return claims
}
