package models

import "time"

// NotificationKind is the closed set of events a user can be notified about.
type NotificationKind string

const (
	NotificationLike    NotificationKind = "like"
	NotificationComment NotificationKind = "comment"
	NotificationFollow  NotificationKind = "follow"
	NotificationMention NotificationKind = "mention"
)

// Valid reports whether k is one of the known kinds.
func (k NotificationKind) Valid() bool {
	switch k {
	case NotificationLike, NotificationComment, NotificationFollow, NotificationMention:
		return true
	}
	return false
}

// Notification is a durable record that a user was notified about an event
// (PostgreSQL). Fields other than Read are write-once at creation time.
type Notification struct {
	ID              uint             `json:"id" gorm:"primaryKey"`
	RecipientID     uint             `json:"recipient_id" gorm:"index"`
	ActorID         uint             `json:"actor_id" gorm:"index"`
	Kind            NotificationKind `json:"kind" gorm:"size:20;index"`
	TargetPostID    string           `json:"target_post_id,omitempty"`    // MongoDB ObjectID hex; empty for follow
	TargetCommentID uint             `json:"target_comment_id,omitempty"` // set for mention
	Message         string           `json:"message,omitempty"`           // comment text carrying the mention
	Read            bool             `json:"read" gorm:"default:false;index"`
	CreatedAt       time.Time        `json:"created_at" gorm:"index"`
}
