package handlers

import (
	"net/http"

	"github.com/fridayblog/backend/internal/models"
	"github.com/fridayblog/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReadingListHandler handles HTTP requests related to reading lists
type ReadingListHandler struct {
	readingListRepository repositories.ReadingListRepository
	blogRepository        repositories.BlogRepository
}

// NewReadingListHandler creates a new ReadingListHandler
func NewReadingListHandler(readingListRepo repositories.ReadingListRepository, blogRepo repositories.BlogRepository) *ReadingListHandler {
	return &ReadingListHandler{
		readingListRepository: readingListRepo,
		blogRepository:        blogRepo,
	}
}

// RegisterReadingListRoutes registers reading-list-related routes
func (h *ReadingListHandler) RegisterReadingListRoutes(g *echo.Group, auth, idCheck, blogIDCheck echo.MiddlewareFunc) {
	g.GET("", h.GetReadingLists, auth)
	g.GET("/:id", h.GetReadingList, idCheck, auth)
	g.POST("", h.CreateReadingList, auth)
	g.PATCH("/:id", h.UpdateReadingList, idCheck, auth)
	g.PATCH("/:id/add-blog/:blogId", h.AddBlogToReadingList, blogIDCheck, auth)
	g.PATCH("/:id/remove-blog/:blogId", h.RemoveBlogFromReadingList, blogIDCheck, auth)
	g.DELETE("/:id", h.DeleteReadingList, idCheck, auth)
}

// GetReadingLists retrieves all reading lists
func (h *ReadingListHandler) GetReadingLists(c echo.Context) error {
	lists, err := h.readingListRepository.GetReadingLists(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, lists)
}

// GetReadingList retrieves a reading list by ID
func (h *ReadingListHandler) GetReadingList(c echo.Context) error {
	list, err := h.readingListRepository.GetReadingListByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if list == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Readinglist cannot be found")
	}
	return c.JSON(http.StatusOK, list)
}

// CreateReadingList creates a new reading list owned by the current user
func (h *ReadingListHandler) CreateReadingList(c echo.Context) error {
	claims := currentUser(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateReadingListRequest
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

	list := &models.ReadingList{
		UserID: userID,
		Name:   req.Name,
	}

	if err := h.readingListRepository.CreateReadingList(c.Request().Context(), list); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, list)
}

// UpdateReadingList renames a reading list
func (h *ReadingListHandler) UpdateReadingList(c echo.Context) error {
	var req models.UpdateReadingListRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	list, err := h.readingListRepository.UpdateReadingList(c.Request().Context(), c.Param("id"), &req)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if list == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Readinglist cannot be found")
	}
	return c.JSON(http.StatusOK, list)
}

// DeleteReadingList removes a reading list
func (h *ReadingListHandler) DeleteReadingList(c echo.Context) error {
	list, err := h.readingListRepository.DeleteReadingList(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if list == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Readinglist cannot be found")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Readinglist is removed."})
}

// AddBlogToReadingList adds a blog reference to a reading list. The blog must
// exist; adding one that is already in the list is a no-op.
func (h *ReadingListHandler) AddBlogToReadingList(c echo.Context) error {
	blogID := c.Param("blogId")

	blog, err := h.blogRepository.GetBlogByID(c.Request().Context(), blogID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if blog == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Blog not found")
	}

	list, alreadyAdded, err := h.readingListRepository.AddBlog(c.Request().Context(), c.Param("id"), blogID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if list == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Readinglist cannot be found")
	}
	if alreadyAdded {
		return c.JSON(http.StatusOK, echo.Map{"message": "Current user has already added this blog to playlist"})
	}
	return c.JSON(http.StatusOK, list)
}

// RemoveBlogFromReadingList removes a blog reference from a reading list.
// Removing a blog that is not in the list is a no-op.
func (h *ReadingListHandler) RemoveBlogFromReadingList(c echo.Context) error {
	list, notAdded, err := h.readingListRepository.RemoveBlog(c.Request().Context(), c.Param("id"), c.Param("blogId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if list == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Readinglist cannot be found")
	}
	if notAdded {
		return c.JSON(http.StatusOK, echo.Map{"message": "Current user did not add this blog to playlist before"})
	}
	return c.JSON(http.StatusOK, list)
}
