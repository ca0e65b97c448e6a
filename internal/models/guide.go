package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Guide is a destination guide written by a user, stored in MongoDB.
type Guide struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	AuthorID      uint               `json:"author_id" bson:"author_id"`
	Title         string             `json:"title" bson:"title"`
	Destination   string             `json:"destination" bson:"destination"`
	Body          string             `json:"body" bson:"body"`
	CoverImageURL string             `json:"cover_image_url,omitempty" bson:"cover_image_url,omitempty"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}

// CreateGuideRequest defines the request body for creating a guide
type CreateGuideRequest struct {
	Title         string `json:"title" validate:"required,min=3,max=120"`
	Destination   string `json:"destination" validate:"required,min=2,max=80"`
	Body          string `json:"body" validate:"required,min=10"`
	CoverImageURL string `json:"cover_image_url,omitempty" validate:"omitempty,url"`
}

// UpdateGuideRequest defines the request body for updating a guide
type UpdateGuideRequest struct {
	Title         string `json:"title,omitempty" validate:"omitempty,min=3,max=120"`
	Destination   string `json:"destination,omitempty" validate:"omitempty,min=2,max=80"`
	Body          string `json:"body,omitempty" validate:"omitempty,min=10"`
	CoverImageURL string `json:"cover_image_url,omitempty" validate:"omitempty,url"`
}
