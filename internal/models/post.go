package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Location pins a post to a place on the map.
type Location struct {
	Name      string  `json:"name" bson:"name"`
	Latitude  float64 `json:"latitude" bson:"latitude"`
	Longitude float64 `json:"longitude" bson:"longitude"`
}

// Weather is the conditions snapshot captured when the photo was taken.
type Weather struct {
	Condition string  `json:"condition" bson:"condition"`
	TempC     float64 `json:"temp_c" bson:"temp_c"`
}

// Post is a travel photo post stored in MongoDB.
type Post struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	AuthorID      uint               `json:"author_id" bson:"author_id"`
	Caption       string             `json:"caption" bson:"caption"`
	ImageURLs     []string           `json:"image_urls" bson:"image_urls"`
	Location      *Location          `json:"location,omitempty" bson:"location,omitempty"`
	Weather       *Weather           `json:"weather,omitempty" bson:"weather,omitempty"`
	LikesCount    int                `json:"likes_count" bson:"likes_count"`
	CommentsCount int                `json:"comments_count" bson:"comments_count"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}

// Thumbnail returns the image used when the post is referenced from a
// notification or a saved-posts list. Empty when the post has no images.
func (p *Post) Thumbnail() string {
	if len(p.ImageURLs) == 0 {
		return ""
	}
	return p.ImageURLs[0]
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Caption   string    `json:"caption" validate:"required,min=1,max=2000"`
	ImageURLs []string  `json:"image_urls" validate:"required,min=1,dive,url"`
	Location  *Location `json:"location,omitempty"`
	Weather   *Weather  `json:"weather,omitempty"`
}

// UpdatePostRequest defines the request body for updating an existing post
type UpdatePostRequest struct {
	Caption   string    `json:"caption,omitempty" validate:"omitempty,min=1,max=2000"`
	ImageURLs []string  `json:"image_urls,omitempty" validate:"omitempty,dive,url"`
	Location  *Location `json:"location,omitempty"`
}
