package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/fridayblog/backend/internal/cascade"
	"github.com/fridayblog/backend/internal/models"
	"github.com/fridayblog/backend/internal/notifier"
	"github.com/fridayblog/backend/internal/repositories"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

// UserHandler handles registration, authentication and profile requests
type UserHandler struct {
	userRepository repositories.UserRepository
	coordinator    *cascade.Coordinator
	outbox         *notifier.Outbox
	jwtSecret      string
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository, coordinator *cascade.Coordinator, outbox *notifier.Outbox, jwtSecret string) *UserHandler {
	return &UserHandler{
		userRepository: userRepo,
		coordinator:    coordinator,
		outbox:         outbox,
		jwtSecret:      jwtSecret,
	}
}

// RegisterUserRoutes registers user-related routes
func (h *UserHandler) RegisterUserRoutes(g *echo.Group, auth, idCheck echo.MiddlewareFunc) {
	g.POST("", h.Register)
	g.GET("", h.GetUsers)
	g.POST("/login", h.Login)
	g.GET("/me", h.GetCurrentUser, auth)
	g.PATCH("", h.UpdateUser, auth)
	g.PATCH("/reset-password", h.ResetPassword)
	g.PATCH("/change-password", h.ChangePassword, auth)
	g.DELETE("/:id", h.DeleteUser, idCheck, auth)
}

// Register creates a new user with a hashed password
func (h *UserHandler) Register(c echo.Context) error {
	var req models.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password")
	}

	user := &models.User{
		FullName:          req.FullName,
		Email:             req.Email,
		Password:          string(hashedPassword),
		PhoneNumber:       req.PhoneNumber,
		PreferredHashtags: req.PreferredHashtags,
	}
	if req.Preferences != nil {
		user.Preferences = *req.Preferences
	}

	if err := h.userRepository.CreateUser(c.Request().Context(), user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return echo.NewHTTPError(http.StatusConflict, "User with this email already registered")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, user)
}

// GetUsers retrieves all users
func (h *UserHandler) GetUsers(c echo.Context) error {
	users, err := h.userRepository.GetUsers(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, users)
}

// Login authenticates a user and returns the user with an access token
func (h *UserHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByEmail(c.Request().Context(), req.Email)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if user == nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Password does not match")
	}

	token, err := h.generateJWT(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}

	return c.JSON(http.StatusOK, models.AuthenticatedUser{
		User:   *user,
		Tokens: models.Tokens{AccessToken: token},
	})
}

// GetCurrentUser returns the session info carried by the access token
func (h *UserHandler) GetCurrentUser(c echo.Context) error {
	claims := currentUser(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	return c.JSON(http.StatusOK, claims)
}

// UpdateUser applies a partial update to the current user's profile
func (h *UserHandler) UpdateUser(c echo.Context) error {
	claims := currentUser(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.userRepository.UpdateUser(c.Request().Context(), claims.UserID, &req)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if user == nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}
	return c.JSON(http.StatusOK, user)
}

// ResetPassword generates a new password for the given email and produces an
// email notification intent carrying it
func (h *UserHandler) ResetPassword(c echo.Context) error {
	var req models.ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	newPassword := strings.Split(uuid.NewString(), "-")[0]
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password")
	}

	user, err := h.userRepository.UpdatePasswordByEmail(c.Request().Context(), req.Email, string(hashedPassword))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if user == nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	body := fmt.Sprintf(`<h3> Important change in your user data </h3>
<p> Your password has been reset. <br> new password is: %s </p>
<br>
<p> Please do not share with others </p>
<br>
<p> Best </p>
<h3> from Friday Blog </h3>`, newPassword)

	if err := h.outbox.Enqueue(c.Request().Context(), models.NotificationChannelEmail,
		user.Email, "Password Reset Information", body); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Mail has been sent to user email"})
}

// ChangePassword replaces the current user's password and, when the user
// opted in, produces an SMS notification intent
func (h *UserHandler) ChangePassword(c echo.Context) error {
	claims := currentUser(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password")
	}

	user, err := h.userRepository.UpdatePassword(c.Request().Context(), claims.UserID, string(hashedPassword))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if user == nil {
		return echo.NewHTTPError(http.StatusNotFound, "User password has not been changed")
	}

	if claims.Preferences.SendSMS && claims.PhoneNumber != "" {
		msg := fmt.Sprintf("Your password has been changed successfully. New password is %s", req.Password)
		if err := h.outbox.Enqueue(c.Request().Context(), models.NotificationChannelSMS,
			claims.PhoneNumber, "", msg); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusOK, user)
}

// DeleteUser removes a user along with authored blogs, comments, reading
// lists and like memberships; the response is gated on the whole cascade
func (h *UserHandler) DeleteUser(c echo.Context) error {
	_, err := h.coordinator.DeleteUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, cascade.ErrRootNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User id is not being removed")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "User has been removed"})
}

// generateJWT generates an access token for a given user
func (h *UserHandler) generateJWT(user *models.User) (string, error) {
	claims := &models.JwtCustomClaims{
		UserID:            user.ID.Hex(),
		Email:             user.Email,
		FullName:          user.FullName,
		PhoneNumber:       user.PhoneNumber,
		PreferredHashtags: user.PreferredHashtags,
		Preferences:       user.Preferences,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * 72)), // Token expires in 72 hours
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	t, err := token.SignedString([]byte(h.jwtSecret))
	if err != nil {
		return "", err
	}
	return t, nil
}
