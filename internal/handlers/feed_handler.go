package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/travo-app/travo-server/internal/models"
	"github.com/travo-app/travo-server/internal/repositories"
)

// FeedHandler serves the home feed: recent posts from followed users.
type FeedHandler struct {
	postRepository   repositories.PostRepository
	userRepository   repositories.UserRepository
	followRepository repositories.FollowRepository
	likeRepository   repositories.LikeRepository
	savedRepository  repositories.SavedPostRepository
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	followRepo repositories.FollowRepository,
	likeRepo repositories.LikeRepository,
	savedRepo repositories.SavedPostRepository,
) *FeedHandler {
	return &FeedHandler{
		postRepository:   postRepo,
		userRepository:   userRepo,
		followRepository: followRepo,
		likeRepository:   likeRepo,
		savedRepository:  savedRepo,
	}
}

// RegisterFeedRoutes registers feed routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
}

// FeedItem is a post enriched with author display data and the caller's
// like/save state.
type FeedItem struct {
	models.Post
	Author  models.UserCompact `json:"author"`
	Liked   bool               `json:"liked"`
	Saved   bool               `json:"saved"`
}

// GetFeed returns recent posts from the users the caller follows. When the
// caller follows nobody, it falls back to the global recent feed.
func (h *FeedHandler) GetFeed(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	followingIDs, err := h.followRepository.GetFollowingIDs(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	skip, limit := paginationParams(c)
	var posts []models.Post
	if len(followingIDs) == 0 {
		posts, err = h.postRepository.GetAllPosts(c.Request().Context(), skip, limit)
	} else {
		posts, err = h.postRepository.GetPostsByAuthorIDs(c.Request().Context(), followingIDs, skip, limit)
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	items := make([]FeedItem, 0, len(posts))
	authorCache := make(map[uint]models.UserCompact)
	for i := range posts {
		post := posts[i]
		item := FeedItem{Post: post}

		if author, ok := authorCache[post.AuthorID]; ok {
			item.Author = author
		} else if user, err := h.userRepository.GetUserByID(post.AuthorID); err == nil {
			compact := user.ToCompact()
			authorCache[post.AuthorID] = compact
			item.Author = compact
		}

		postID := post.ID.Hex()
		item.Liked, _ = h.likeRepository.HasUserLikedPost(postID, currentUserID)
		item.Saved, _ = h.savedRepository.IsPostSaved(currentUserID, postID)

		items = append(items, item)
	}

	return c.JSON(http.StatusOK, echo.Map{"posts": items})
}
