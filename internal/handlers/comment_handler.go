package handlers

import (
	"net/http"

	"github.com/fridayblog/backend/internal/models"
	"github.com/fridayblog/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	commentRepository repositories.CommentRepository
	blogRepository    repositories.BlogRepository
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentRepo repositories.CommentRepository, blogRepo repositories.BlogRepository) *CommentHandler {
	return &CommentHandler{
		commentRepository: commentRepo,
		blogRepository:    blogRepo,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group, auth, idCheck echo.MiddlewareFunc) {
	g.GET("", h.GetComments)
	g.GET("/:id", h.GetComment, idCheck, auth)
	g.POST("", h.CreateComment, auth)
	g.PATCH("/:id", h.UpdateComment, idCheck, auth)
	g.DELETE("/:id", h.DeleteComment, idCheck, auth)
}

// GetComments retrieves all comments
func (h *CommentHandler) GetComments(c echo.Context) error {
	comments, err := h.commentRepository.GetComments(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, comments)
}

// GetComment retrieves a comment by ID
func (h *CommentHandler) GetComment(c echo.Context) error {
	comment, err := h.commentRepository.GetCommentByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if comment == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Comment cannot be found")
	}
	return c.JSON(http.StatusOK, comment)
}

// CreateComment creates a new comment. The referenced blog must exist at
// creation time.
func (h *CommentHandler) CreateComment(c echo.Context) error {
	claims := currentUser(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	blog, err := h.blogRepository.GetBlogByID(c.Request().Context(), req.BlogID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if blog == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Blog is not found")
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid user identity")
	}

	comment := &models.Comment{
		BlogID:  blog.ID,
		UserID:  userID,
		Author:  claims.FullName,
		Content: req.Content,
	}

	if err := h.commentRepository.CreateComment(c.Request().Context(), comment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, comment)
}

// UpdateComment updates a comment's content
func (h *CommentHandler) UpdateComment(c echo.Context) error {
	var req models.UpdateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	comment, err := h.commentRepository.UpdateComment(c.Request().Context(), c.Param("id"), &req)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if comment == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Comment cannot be found")
	}
	return c.JSON(http.StatusOK, comment)
}

// DeleteComment removes a comment
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	comment, err := h.commentRepository.DeleteComment(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if comment == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Comment cannot be found")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Comment is removed."})
}
