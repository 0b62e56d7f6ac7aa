package models

import (
	"time"

	"github.com/google/uuid"
)

type Image struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	URL          string    `gorm:"type:text;not null" json:"url"`
	StorageKey   string    `gorm:"size:512;not null" json:"-"`
	UploadedByID uuid.UUID `gorm:"type:uuid;not null;index" json:"uploaded_by_id"`
	UploadedBy   *User     `gorm:"foreignKey:UploadedByID" json:"uploaded_by,omitempty"`
	CreatedAt    time.Time `json:"created_at"`

	// LikeCount is derived per query by counting likes; never stored.
	LikeCount int64 `gorm:"->;-:migration" json:"like_count"`
}
