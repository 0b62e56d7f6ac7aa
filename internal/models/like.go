package models

import (
	"time"

	"github.com/google/uuid"
)

// Like records at most one row per (user, image) pair; the composite unique
// index is what makes concurrent toggles safe.
type Like struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_likes_user_image" json:"user_id"`
	ImageID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_likes_user_image;index" json:"image_id"`

	CreatedAt time.Time `json:"created_at"`
}
