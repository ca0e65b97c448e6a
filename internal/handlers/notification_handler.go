package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/travo-app/travo-server/internal/models"
	"github.com/travo-app/travo-server/internal/notifications"
	"github.com/travo-app/travo-server/internal/repositories"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// listLimit caps how many notifications the inbox returns. Older entries are
// reachable only until they age out of the newest 20.
const listLimit = 20

// NotificationHandler serves the notification inbox and read-state endpoints.
type NotificationHandler struct {
	notificationRepository repositories.NotificationRepository
	userRepository         repositories.UserRepository
	postRepository         repositories.PostRepository
	log                    *zap.Logger

	now func() time.Time
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(
	notificationRepo repositories.NotificationRepository,
	userRepo repositories.UserRepository,
	postRepo repositories.PostRepository,
	log *zap.Logger,
) *NotificationHandler {
	return &NotificationHandler{
		notificationRepository: notificationRepo,
		userRepository:         userRepo,
		postRepository:         postRepo,
		log:                    log,
		now:                    time.Now,
	}
}

// RegisterNotificationRoutes registers notification-related routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.GetNotifications)
	g.PUT("/notifications/read-all", h.MarkAllAsRead)
	g.PUT("/notifications/:id/read", h.MarkAsRead)
}

// NotificationGroups buckets notifications by how recently they were created.
// All four buckets are always present in the response, empty or not, so
// clients can render section headers without nil checks.
type NotificationGroups struct {
	Today     []notifications.ResolvedNotification `json:"today"`
	Yesterday []notifications.ResolvedNotification `json:"yesterday"`
	ThisWeek  []notifications.ResolvedNotification `json:"thisWeek"`
	Earlier   []notifications.ResolvedNotification `json:"earlier"`
}

// NotificationListResponse is the inbox payload.
type NotificationListResponse struct {
	UnreadCount int64              `json:"unreadCount"`
	Groups      NotificationGroups `json:"groups"`
}

// GetNotifications returns the caller's 20 most recent notifications grouped
// by recency, plus the total unread count. Read state is untouched: reading
// the list does not mark anything as read.
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	items, err := h.notificationRepository.GetByRecipientID(currentUserID, listLimit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	unreadCount, err := h.notificationRepository.GetUnreadCount(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, NotificationListResponse{
		UnreadCount: unreadCount,
		Groups:      groupByRecency(h.enrich(c, items), h.now()),
	})
}

// enrich joins each notification with its actor's display data and, when a
// post is targeted, the post thumbnail. An actor or post that has since been
// deleted leaves those fields empty rather than dropping the notification.
func (h *NotificationHandler) enrich(c echo.Context, items []models.Notification) []notifications.ResolvedNotification {
	ctx := c.Request().Context()
	enriched := make([]notifications.ResolvedNotification, 0, len(items))
	actorCache := make(map[uint]models.UserCompact)
	for i := range items {
		item := notifications.ResolvedNotification{Notification: items[i]}

		if actor, ok := actorCache[items[i].ActorID]; ok {
			item.Actor = actor
		} else if user, err := h.userRepository.GetUserByID(items[i].ActorID); err == nil {
			compact := user.ToCompact()
			actorCache[items[i].ActorID] = compact
			item.Actor = compact
		}

		if items[i].TargetPostID != "" {
			if post, err := h.postRepository.GetPostByID(ctx, items[i].TargetPostID); err == nil {
				item.PostThumbnail = post.Thumbnail()
			}
		}

		enriched = append(enriched, item)
	}
	return enriched
}

// groupByRecency splits items into buckets relative to now. "Today" and
// "yesterday" follow calendar days in now's location; "thisWeek" holds
// anything older whose age is still under seven days; everything at or past
// seven days lands in "earlier". Bucketing happens at read time, so the same
// notification migrates between buckets as days pass.
func groupByRecency(items []notifications.ResolvedNotification, now time.Time) NotificationGroups {
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	startOfYesterday := startOfToday.AddDate(0, 0, -1)
	weekAgo := now.AddDate(0, 0, -7)

	groups := NotificationGroups{
		Today:     []notifications.ResolvedNotification{},
		Yesterday: []notifications.ResolvedNotification{},
		ThisWeek:  []notifications.ResolvedNotification{},
		Earlier:   []notifications.ResolvedNotification{},
	}
	for _, item := range items {
		created := item.CreatedAt.In(now.Location())
		switch {
		case !created.Before(startOfToday):
			groups.Today = append(groups.Today, item)
		case !created.Before(startOfYesterday):
			groups.Yesterday = append(groups.Yesterday, item)
		case created.After(weekAgo):
			groups.ThisWeek = append(groups.ThisWeek, item)
		default:
			groups.Earlier = append(groups.Earlier, item)
		}
	}
	return groups
}

// MarkAsRead marks a single notification as read. Only the recipient may
// flip the flag; marking an already-read notification is a no-op success.
func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	notificationID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid notification ID")
	}

	notification, err := h.notificationRepository.GetNotificationByID(uint(notificationID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Notification not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if notification.RecipientID != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to modify this notification")
	}

	if !notification.Read {
		if err := h.notificationRepository.MarkAsRead(uint(notificationID)); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		notification.Read = true
	}

	return c.JSON(http.StatusOK, notification)
}

// MarkAllAsRead marks every unread notification of the caller as read and
// reports how many were flipped.
func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	updated, err := h.notificationRepository.MarkAllAsRead(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "All notifications marked as read",
		"updated": updated,
	})
}
