// Package notifications decides whether a domain event (like, comment,
// follow, mention) produces a notification, persists it, and fans it out to
// the recipient's live connection and registered devices.
package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/travo-app/travo-server/internal/models"
	"github.com/travo-app/travo-server/internal/realtime"
	"github.com/travo-app/travo-server/internal/repositories"
	"go.uber.org/zap"
)

// DedupWindow is the rolling window inside which a second notification with
// the same (recipient, actor, kind, target post) is suppressed. The guard is
// a read-then-insert without a transaction, so it is best-effort.
const DedupWindow = time.Hour

// Pusher delivers an event to a user's live connection, if any.
type Pusher interface {
	Push(userID uint, event realtime.Event) error
}

// DevicePusher sends a mobile push to a set of FCM device tokens and returns
// the tokens that could not be delivered to.
type DevicePusher interface {
	SendToDevices(ctx context.Context, tokens []string, title, body string, data map[string]string) ([]string, error)
}

// NotifyOptions carries the kind-specific identifiers of a Notify call.
type NotifyOptions struct {
	TargetPostID    string // required for like, comment, mention
	TargetCommentID uint   // required for mention
	Message         string // required for mention: the comment text
}

// ResolvedNotification is a notification joined with the actor's display
// data and the target post's thumbnail, as pushed to clients.
type ResolvedNotification struct {
	models.Notification
	Actor         models.UserCompact `json:"actor"`
	PostThumbnail string             `json:"post_thumbnail,omitempty"`
}

// Factory creates notifications for domain events. All dependencies are
// injected at construction; there is no ambient global delivery channel.
type Factory struct {
	store    repositories.NotificationRepository
	users    repositories.UserRepository
	posts    repositories.PostRepository
	devices  repositories.DeviceTokenRepository
	registry Pusher
	fcm      DevicePusher // nil disables mobile push
	log      *zap.Logger

	now func() time.Time
}

// NewFactory creates a Factory. fcm may be nil, in which case notifications
// are delivered over the live channel only.
func NewFactory(
	store repositories.NotificationRepository,
	users repositories.UserRepository,
	posts repositories.PostRepository,
	devices repositories.DeviceTokenRepository,
	registry Pusher,
	fcm DevicePusher,
	log *zap.Logger,
) *Factory {
	return &Factory{
		store:    store,
		users:    users,
		posts:    posts,
		devices:  devices,
		registry: registry,
		fcm:      fcm,
		log:      log,
		now:      time.Now,
	}
}

// Notify records that actorID's action should notify recipientID and pushes
// the result to the recipient's live connection.
//
// Returns (nil, nil) when the notification is suppressed: a self-triggered
// action, or a duplicate inside DedupWindow. A persistence failure is
// returned to the caller; callers treat notifications as best-effort and must
// not fail the triggering action over it. Once the record is persisted,
// resolution or delivery problems never surface as errors.
func (f *Factory) Notify(ctx context.Context, recipientID, actorID uint, kind models.NotificationKind, opts NotifyOptions) (*models.Notification, error) {
	if recipientID == actorID {
		return nil, nil
	}

	recent, err := f.store.FindRecent(recipientID, actorID, kind, opts.TargetPostID, f.now().Add(-DedupWindow))
	if err != nil {
		return nil, fmt.Errorf("dedup lookup: %w", err)
	}
	if recent != nil {
		return nil, nil
	}

	if err := validateKind(kind, opts); err != nil {
		return nil, err
	}

	notification := &models.Notification{
		RecipientID:     recipientID,
		ActorID:         actorID,
		Kind:            kind,
		TargetPostID:    opts.TargetPostID,
		TargetCommentID: opts.TargetCommentID,
		Message:         opts.Message,
		Read:            false,
	}
	if err := f.store.CreateNotification(notification); err != nil {
		return nil, fmt.Errorf("persist notification: %w", err)
	}

	resolved, err := f.resolve(ctx, notification)
	if err != nil {
		// The record is durable; the recipient will still see it through
		// the notifications API.
		f.log.Warn("notification resolution failed, skipping push",
			zap.Uint("notification_id", notification.ID), zap.Error(err))
		return notification, nil
	}

	f.deliver(resolved)
	return notification, nil
}

func validateKind(kind models.NotificationKind, opts NotifyOptions) error {
	if !kind.Valid() {
		return &ValidationError{Kind: kind}
	}
	switch kind {
	case models.NotificationLike, models.NotificationComment:
		if opts.TargetPostID == "" {
			return &ValidationError{Kind: kind, Field: "target post"}
		}
	case models.NotificationMention:
		if opts.TargetPostID == "" {
			return &ValidationError{Kind: kind, Field: "target post"}
		}
		if opts.TargetCommentID == 0 {
			return &ValidationError{Kind: kind, Field: "target comment"}
		}
		if opts.Message == "" {
			return &ValidationError{Kind: kind, Field: "message"}
		}
	}
	return nil
}

// resolve joins the notification with the actor's display data and, when a
// post is targeted, its thumbnail. The thumbnail join is non-fatal.
func (f *Factory) resolve(ctx context.Context, n *models.Notification) (*ResolvedNotification, error) {
	actor, err := f.users.GetUserByID(n.ActorID)
	if err != nil {
		return nil, fmt.Errorf("resolve actor %d: %w", n.ActorID, err)
	}

	resolved := &ResolvedNotification{Notification: *n, Actor: actor.ToCompact()}
	if n.TargetPostID != "" {
		if post, err := f.posts.GetPostByID(ctx, n.TargetPostID); err == nil {
			resolved.PostThumbnail = post.Thumbnail()
		}
	}
	return resolved, nil
}

// deliver pushes to the live connection and, when FCM is configured, to the
// recipient's registered devices. Both paths are fire-and-forget.
func (f *Factory) deliver(resolved *ResolvedNotification) {
	event := realtime.Event{Event: "notification", Data: resolved}
	if err := f.registry.Push(resolved.RecipientID, event); err != nil {
		f.log.Warn("live push failed",
			zap.Uint("recipient_id", resolved.RecipientID),
			zap.Uint("notification_id", resolved.ID),
			zap.Error(err))
	}

	if f.fcm == nil || f.devices == nil {
		return
	}
	go f.pushToDevices(resolved)
}

func (f *Factory) pushToDevices(resolved *ResolvedNotification) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	deviceTokens, err := f.devices.GetTokensByUserID(resolved.RecipientID)
	if err != nil {
		f.log.Warn("device token lookup failed", zap.Uint("recipient_id", resolved.RecipientID), zap.Error(err))
		return
	}
	if len(deviceTokens) == 0 {
		return
	}

	tokens := make([]string, 0, len(deviceTokens))
	for _, t := range deviceTokens {
		tokens = append(tokens, t.Token)
	}

	title, body := pushText(resolved)
	data := map[string]string{
		"kind":            string(resolved.Kind),
		"notification_id": fmt.Sprintf("%d", resolved.ID),
	}
	if resolved.TargetPostID != "" {
		data["target_post_id"] = resolved.TargetPostID
	}

	failed, err := f.fcm.SendToDevices(ctx, tokens, title, body, data)
	if err != nil {
		f.log.Warn("mobile push failed", zap.Uint("recipient_id", resolved.RecipientID), zap.Error(err))
		return
	}
	for _, token := range failed {
		if err := f.devices.DeleteToken(token); err != nil {
			f.log.Warn("pruning dead device token failed", zap.Error(err))
		}
	}
}

func pushText(resolved *ResolvedNotification) (title, body string) {
	name := resolved.Actor.DisplayName
	if name == "" {
		name = resolved.Actor.Username
	}
	switch resolved.Kind {
	case models.NotificationLike:
		return name + " liked your photo", ""
	case models.NotificationComment:
		return name + " commented on your photo", ""
	case models.NotificationFollow:
		return name + " started following you", ""
	case models.NotificationMention:
		return name + " mentioned you in a comment", resolved.Message
	}
	return "New activity on Travo", ""
}
