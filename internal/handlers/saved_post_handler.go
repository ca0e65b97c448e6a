package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/travo-app/travo-server/internal/models"
	"github.com/travo-app/travo-server/internal/repositories"
)

// SavedPostHandler handles bookmarking posts
type SavedPostHandler struct {
	savedRepository repositories.SavedPostRepository
	postRepository  repositories.PostRepository
}

// NewSavedPostHandler creates a new SavedPostHandler
func NewSavedPostHandler(savedRepo repositories.SavedPostRepository, postRepo repositories.PostRepository) *SavedPostHandler {
	return &SavedPostHandler{
		savedRepository: savedRepo,
		postRepository:  postRepo,
	}
}

// RegisterSavedPostRoutes registers saved post routes
func (h *SavedPostHandler) RegisterSavedPostRoutes(g *echo.Group) {
	g.POST("/posts/:post_id/save", h.SavePost)
	g.DELETE("/posts/:post_id/save", h.UnsavePost)
	g.GET("/me/saved", h.GetSavedPosts)
}

// SavePost bookmarks a post for the caller. Saving is private: the post
// author is never notified.
func (h *SavedPostHandler) SavePost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	postID := c.Param("post_id")

	if _, err := h.postRepository.GetPostByID(c.Request().Context(), postID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	saved, err := h.savedRepository.IsPostSaved(currentUserID, postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if saved {
		return echo.NewHTTPError(http.StatusConflict, "Post already saved")
	}

	savedPost := &models.SavedPost{
		UserID: currentUserID,
		PostID: postID,
	}
	if err := h.savedRepository.SavePost(savedPost); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, savedPost)
}

// UnsavePost removes a bookmark
func (h *SavedPostHandler) UnsavePost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	postID := c.Param("post_id")

	if err := h.savedRepository.UnsavePost(currentUserID, postID); err != nil {
		if err.Error() == "saved post not found" {
			return echo.NewHTTPError(http.StatusNotFound, "Saved post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}

// GetSavedPosts lists the caller's bookmarked posts, newest bookmark first.
// Posts deleted since they were saved are skipped.
func (h *SavedPostHandler) GetSavedPosts(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	saved, err := h.savedRepository.GetSavedPostsByUser(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	posts := make([]models.Post, 0, len(saved))
	for _, s := range saved {
		post, err := h.postRepository.GetPostByID(c.Request().Context(), s.PostID)
		if err != nil {
			continue
		}
		posts = append(posts, *post)
	}

	return c.JSON(http.StatusOK, echo.Map{"posts": posts})
}
