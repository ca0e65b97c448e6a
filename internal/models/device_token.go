package models

import "time"

// DeviceToken is an FCM registration token for one of a user's devices, used
// to push notifications while the mobile app is backgrounded.
type DeviceToken struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index"`
	Token     string    `json:"token" gorm:"uniqueIndex"`
	Platform  string    `json:"platform" gorm:"size:10"` // ios | android
	CreatedAt time.Time `json:"created_at"`
}

// RegisterDeviceRequest defines the request body for registering a device token
type RegisterDeviceRequest struct {
	Token    string `json:"token" validate:"required"`
	Platform string `json:"platform" validate:"required,oneof=ios android"`
}
