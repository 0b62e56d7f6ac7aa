package dto

import (
	"time"

	"github.com/google/uuid"
)

type UploaderResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Role  string    `json:"role"`
	Email string    `json:"email,omitempty"`
}

type ImageResponse struct {
	ID         uuid.UUID         `json:"id"`
	URL        string            `json:"url"`
	UploadedBy *UploaderResponse `json:"uploaded_by,omitempty"`
	LikeCount  int64             `json:"like_count"`
	CreatedAt  time.Time         `json:"created_at"`
}

type GalleryResponse struct {
	Page        int             `json:"page"`
	TotalPages  int             `json:"totalPages"`
	TotalImages int64           `json:"totalImages"`
	Images      []ImageResponse `json:"images"`
}

type ToggleLikeResponse struct {
	Liked   bool   `json:"liked"`
	Message string `json:"message"`
}
