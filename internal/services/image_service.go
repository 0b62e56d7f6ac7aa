package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"path/filepath"

	"github.com/ahmetcoskunkizilkaya/gallery-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/gallery-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/gallery-backend/internal/storage"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrNotOwner   = errors.New("not authorized")
)

const (
	DefaultPage  = 1
	DefaultLimit = 8
	MaxLimit     = 50

	SortNewest  = "newest"
	SortOldest  = "oldest"
	SortPopular = "popular"
)

type ImageService struct {
	db    *gorm.DB
	store storage.ObjectStorage
}

func NewImageService(db *gorm.DB, store storage.ObjectStorage) *ImageService {
	return &ImageService{db: db, store: store}
}

// withLikeCounts is the shared aggregation: every listing derives like_count
// by counting ledger rows, so the count can never drift from the ledger.
func (s *ImageService) withLikeCounts() *gorm.DB {
	return s.db.Model(&models.Image{}).
		Select("images.*, COUNT(likes.id) AS like_count").
		Joins("LEFT JOIN likes ON likes.image_id = images.id").
		Group("images.id")
}

// List returns one gallery page. All parameters are validated before any
// query runs.
func (s *ImageService) List(page, limit int, sort string) (*dto.GalleryResponse, error) {
	if page < 1 {
		return nil, fmt.Errorf("%w: page must be at least 1", ErrValidation)
	}
	if limit < 1 || limit > MaxLimit {
		return nil, fmt.Errorf("%w: limit must be between 1 and %d", ErrValidation, MaxLimit)
	}
	if sort != SortNewest && sort != SortOldest && sort != SortPopular {
		return nil, fmt.Errorf("%w: sort must be one of newest, oldest, popular", ErrValidation)
	}

	var total int64
	if err := s.db.Model(&models.Image{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count images: %w", err)
	}

	query := s.withLikeCounts()
	switch sort {
	case SortOldest:
		query = query.Order("images.created_at ASC")
	case SortPopular:
		// tie-break on recency for deterministic pages
		query = query.Order("like_count DESC, images.created_at DESC")
	default:
		query = query.Order("images.created_at DESC")
	}

	var images []models.Image
	if err := query.
		Offset((page - 1) * limit).
		Limit(limit).
		Preload("UploadedBy").
		Find(&images).Error; err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}

	return &dto.GalleryResponse{
		Page:        page,
		TotalPages:  int(math.Ceil(float64(total) / float64(limit))),
		TotalImages: total,
		Images:      toImageResponses(images, false),
	}, nil
}

// ListAll is the privileged unrestricted listing: no pagination, newest
// first, uploader email included.
func (s *ImageService) ListAll() ([]dto.ImageResponse, error) {
	var images []models.Image
	if err := s.withLikeCounts().
		Order("images.created_at DESC").
		Preload("UploadedBy").
		Find(&images).Error; err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	return toImageResponses(images, true), nil
}

// ListLikedBy returns the images the given account has liked, newest first.
func (s *ImageService) ListLikedBy(userID uuid.UUID) ([]dto.ImageResponse, error) {
	var images []models.Image
	if err := s.db.Model(&models.Image{}).
		Select("images.*, COUNT(all_likes.id) AS like_count").
		Joins("JOIN likes user_likes ON user_likes.image_id = images.id AND user_likes.user_id = ?", userID).
		Joins("LEFT JOIN likes all_likes ON all_likes.image_id = images.id").
		Group("images.id").
		Order("images.created_at DESC").
		Preload("UploadedBy").
		Find(&images).Error; err != nil {
		return nil, fmt.Errorf("failed to list liked images: %w", err)
	}
	return toImageResponses(images, false), nil
}

// Upload stores the blob first, then the record. A failed record insert
// triggers a compensating object delete so the store does not accumulate
// orphans.
func (s *ImageService) Upload(ctx context.Context, userID uuid.UUID, filename, contentType string, size int64, body io.Reader) (*models.Image, error) {
	ext := filepath.Ext(filename)
	key := "image-gallery/" + uuid.New().String() + ext

	url, err := s.store.Put(ctx, key, contentType, body, size)
	if err != nil {
		return nil, fmt.Errorf("failed to store image: %w", err)
	}

	image := models.Image{
		ID:           uuid.New(),
		URL:          url,
		StorageKey:   key,
		UploadedByID: userID,
	}
	if err := s.db.Create(&image).Error; err != nil {
		if derr := s.store.Delete(ctx, key); derr != nil {
			slog.Error("failed to remove orphaned store object", "key", key, "error", derr)
		}
		return nil, fmt.Errorf("failed to create image record: %w", err)
	}
	return &image, nil
}

// Delete removes the image record and every like referencing it in one
// transaction, then releases the store object. Owner or admin only.
func (s *ImageService) Delete(ctx context.Context, imageID, userID uuid.UUID, role string) error {
	var image models.Image
	if err := s.db.First(&image, "id = ?", imageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrImageNotFound
		}
		return fmt.Errorf("failed to look up image: %w", err)
	}

	if image.UploadedByID != userID && role != models.RoleAdmin {
		return ErrNotOwner
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("image_id = ?", imageID).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Image{}, "id = ?", imageID).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}

	if err := s.store.Delete(ctx, image.StorageKey); err != nil {
		slog.Error("failed to remove store object for deleted image", "key", image.StorageKey, "error", err)
	}
	return nil
}

func toImageResponses(images []models.Image, includeEmail bool) []dto.ImageResponse {
	out := make([]dto.ImageResponse, 0, len(images))
	for _, img := range images {
		resp := dto.ImageResponse{
			ID:        img.ID,
			URL:       img.URL,
			LikeCount: img.LikeCount,
			CreatedAt: img.CreatedAt,
		}
		if img.UploadedBy != nil {
			resp.UploadedBy = &dto.UploaderResponse{
				ID:   img.UploadedBy.ID,
				Name: img.UploadedBy.Name,
				Role: img.UploadedBy.Role,
			}
			if includeEmail {
				resp.UploadedBy.Email = img.UploadedBy.Email
			}
		}
		out = append(out, resp)
	}
	return out
}
