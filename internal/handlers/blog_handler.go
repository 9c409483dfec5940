package handlers

import (
	"errors"
	"net/http"

	"github.com/fridayblog/backend/internal/cascade"
	"github.com/fridayblog/backend/internal/models"
	"github.com/fridayblog/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BlogHandler handles HTTP requests related to blogs
type BlogHandler struct {
	blogRepository repositories.BlogRepository
	coordinator    *cascade.Coordinator
}

// NewBlogHandler creates a new BlogHandler
func NewBlogHandler(blogRepo repositories.BlogRepository, coordinator *cascade.Coordinator) *BlogHandler {
	return &BlogHandler{
		blogRepository: blogRepo,
		coordinator:    coordinator,
	}
}

// RegisterBlogRoutes registers blog-related routes. Paths are preserved from
// the public API: static segments before the parameterized ones.
func (h *BlogHandler) RegisterBlogRoutes(g *echo.Group, auth, idCheck echo.MiddlewareFunc) {
	g.GET("", h.GetBlogs)
	g.GET("/popular-blogs", h.GetPopularBlogs)
	g.GET("/popular-blogs/:category", h.GetPopularBlogsByCategory)
	g.GET("/search-by-keywords", h.SearchBlogsByKeywords)
	g.GET("/recommend-me", h.GetRecommendedBlogs, auth)
	g.GET("/:id", h.GetBlog, idCheck, auth)
	g.POST("", h.CreateBlog, auth)
	g.PATCH("/:id", h.UpdateBlog, idCheck, auth)
	g.PATCH("/:id/like-flag", h.SendLikeFlag, idCheck, auth)
	g.DELETE("/:id", h.DeleteBlog, idCheck, auth)
}

// GetBlogs retrieves all blogs
func (h *BlogHandler) GetBlogs(c echo.Context) error {
	blogs, err := h.blogRepository.GetBlogs(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, blogs)
}

// GetBlog retrieves a blog by ID
func (h *BlogHandler) GetBlog(c echo.Context) error {
	blog, err := h.blogRepository.GetBlogByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if blog == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Blog cannot be found")
	}
	return c.JSON(http.StatusOK, blog)
}

// GetPopularBlogs retrieves blogs ranked by like count
func (h *BlogHandler) GetPopularBlogs(c echo.Context) error {
	blogs, err := h.blogRepository.GetPopularBlogs(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, blogs)
}

// GetPopularBlogsByCategory retrieves blogs in a category ranked by like count
func (h *BlogHandler) GetPopularBlogsByCategory(c echo.Context) error {
	blogs, err := h.blogRepository.GetPopularBlogsByCategory(c.Request().Context(), c.Param("category"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, blogs)
}

// GetRecommendedBlogs retrieves blogs matching the current user's preferred hashtags
func (h *BlogHandler) GetRecommendedBlogs(c echo.Context) error {
	claims := currentUser(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	blogs, err := h.blogRepository.GetRecommendedBlogs(c.Request().Context(), claims.PreferredHashtags)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, blogs)
}

// SearchBlogsByKeywords performs a search for each given word across every
// text field of the blog collection
func (h *BlogHandler) SearchBlogsByKeywords(c echo.Context) error {
	var req models.SearchBlogsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	if req.Keywords == "" {
		return echo.NewHTTPError(http.StatusBadRequest,
			"Keywords are missing. Please write keywords with a space between such as 'coffee newyork'")
	}

	blogs, err := h.blogRepository.SearchBlogsByKeywords(c.Request().Context(), req.Keywords)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, blogs)
}

// CreateBlog creates a new blog stamped with the current user's identity
func (h *BlogHandler) CreateBlog(c echo.Context) error {
	claims := currentUser(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateBlogRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid user identity")
	}

	blog := &models.Blog{
		UserID:   userID,
		Author:   claims.FullName,
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
		Hashtags: req.Hashtags,
	}

	if err := h.blogRepository.CreateBlog(c.Request().Context(), blog); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, blog)
}

// UpdateBlog applies a partial update to an existing blog
func (h *BlogHandler) UpdateBlog(c echo.Context) error {
	var req models.UpdateBlogRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	blog, err := h.blogRepository.UpdateBlog(c.Request().Context(), c.Param("id"), &req)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if blog == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Blog cannot be found")
	}
	return c.JSON(http.StatusOK, blog)
}

// SendLikeFlag likes or unlikes a blog for the current user. Membership and
// counter move in one atomic update; repeating a like or unlike is a no-op
// reported with an informational message.
func (h *BlogHandler) SendLikeFlag(c echo.Context) error {
	claims := currentUser(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.LikeFlagRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	blogID := c.Param("id")

	if *req.Liked {
		blog, alreadyLiked, err := h.blogRepository.AddLike(c.Request().Context(), blogID, claims.UserID)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		if blog == nil {
			return echo.NewHTTPError(http.StatusNotFound, "Blog cannot be found")
		}
		if alreadyLiked {
			return c.JSON(http.StatusOK, echo.Map{"message": "Current user has already liked this blog"})
		}
		return c.JSON(http.StatusOK, blog)
	}

	blog, notLiked, err := h.blogRepository.RemoveLike(c.Request().Context(), blogID, claims.UserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if blog == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Blog cannot be found")
	}
	if notLiked {
		return c.JSON(http.StatusOK, echo.Map{"message": "Current user did not liked this blog"})
	}
	return c.JSON(http.StatusOK, blog)
}

// DeleteBlog removes a blog along with its comments and reading-list
// references; the response is gated on the whole cascade
func (h *BlogHandler) DeleteBlog(c echo.Context) error {
	_, err := h.coordinator.DeleteBlog(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, cascade.ErrRootNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Blog cannot be found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Blog is removed."})
}
