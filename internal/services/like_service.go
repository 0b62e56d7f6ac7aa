package services

import (
	"errors"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/gallery-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrImageNotFound = errors.New("image not found")

type LikeService struct {
	db *gorm.DB
}

func NewLikeService(db *gorm.DB) *LikeService {
	return &LikeService{db: db}
}

// Toggle flips the like state for the (user, image) pair and reports the
// resulting state. The unique index on (user_id, image_id) is the arbiter
// under concurrency: a lost insert race means the like already exists, so it
// is reported as liked rather than surfaced as an error.
func (s *LikeService) Toggle(userID, imageID uuid.UUID) (bool, error) {
	var image models.Image
	if err := s.db.Select("id").First(&image, "id = ?", imageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrImageNotFound
		}
		return false, fmt.Errorf("failed to look up image: %w", err)
	}

	var existing models.Like
	err := s.db.Where("user_id = ? AND image_id = ?", userID, imageID).First(&existing).Error
	if err == nil {
		if err := s.db.Delete(&existing).Error; err != nil {
			return false, fmt.Errorf("failed to remove like: %w", err)
		}
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("failed to look up like: %w", err)
	}

	like := models.Like{
		ID:      uuid.New(),
		UserID:  userID,
		ImageID: imageID,
	}
	if err := s.db.Create(&like).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return true, nil
		}
		return false, fmt.Errorf("failed to create like: %w", err)
	}
	return true, nil
}
