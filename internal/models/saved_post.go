package models

import "time"

// SavedPost is a bookmark linking a user to a post they saved for later.
type SavedPost struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_user_saved_post"`
	PostID    string    `json:"post_id" gorm:"index;uniqueIndex:idx_user_saved_post"` // MongoDB ObjectID hex
	CreatedAt time.Time `json:"created_at"`
}
