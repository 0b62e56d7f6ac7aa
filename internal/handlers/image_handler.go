package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/ahmetcoskunkizilkaya/gallery-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/gallery-backend/internal/principal"
	"github.com/ahmetcoskunkizilkaya/gallery-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const maxUploadBytes = 5 * 1024 * 1024

type ImageHandler struct {
	imageService *services.ImageService
	likeService  *services.LikeService
}

func NewImageHandler(imageService *services.ImageService, likeService *services.LikeService) *ImageHandler {
	return &ImageHandler{imageService: imageService, likeService: likeService}
}

// List handles GET /api/images with page, limit and sort query params.
func (h *ImageHandler) List(c *fiber.Ctx) error {
	page, err := parsePositiveInt(c.Query("page"), services.DefaultPage)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Message: "page must be a positive integer",
		})
	}
	limit, err := parsePositiveInt(c.Query("limit"), services.DefaultLimit)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Message: "limit must be a positive integer",
		})
	}
	sort := c.Query("sort", services.SortNewest)

	resp, err := h.imageService.List(page, limit, sort)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Message: "Internal server error",
		})
	}
	return c.JSON(resp)
}

// AdminList handles GET /api/images/admin/all.
func (h *ImageHandler) AdminList(c *fiber.Ctx) error {
	images, err := h.imageService.ListAll()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Message: "Internal server error",
		})
	}
	return c.JSON(images)
}

// Liked handles GET /api/images/liked.
func (h *ImageHandler) Liked(c *fiber.Ctx) error {
	p, ok := principal.Get(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Message: "Authentication failed",
		})
	}

	images, err := h.imageService.ListLikedBy(p.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Message: "Internal server error",
		})
	}
	return c.JSON(images)
}

// Upload handles POST /api/images/upload (multipart, field "image").
func (h *ImageHandler) Upload(c *fiber.Ctx) error {
	p, ok := principal.Get(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Message: "Authentication failed",
		})
	}

	file, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Message: "No file uploaded",
		})
	}
	if file.Size > maxUploadBytes {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Message: "File must be smaller than 5MB",
		})
	}
	contentType := file.Header.Get(fiber.HeaderContentType)
	if !strings.HasPrefix(contentType, "image/") {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Message: "Only image files are allowed",
		})
	}

	src, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Message: "Failed to read uploaded file",
		})
	}
	defer src.Close()

	image, err := h.imageService.Upload(c.Context(), p.UserID, file.Filename, contentType, file.Size, src)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Message: "Failed to upload image",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(dto.ImageResponse{
		ID:  image.ID,
		URL: image.URL,
		UploadedBy: &dto.UploaderResponse{
			ID:   p.UserID,
			Name: p.User.Name,
			Role: p.Role,
		},
		CreatedAt: image.CreatedAt,
	})
}

// ToggleLike handles POST /api/images/:id/like.
func (h *ImageHandler) ToggleLike(c *fiber.Ctx) error {
	p, ok := principal.Get(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Message: "Authentication failed",
		})
	}

	imageID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Message: "Invalid image id",
		})
	}

	liked, err := h.likeService.Toggle(p.UserID, imageID)
	if err != nil {
		if errors.Is(err, services.ErrImageNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Message: "Image not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Message: "Internal server error",
		})
	}

	message := "Image unliked"
	if liked {
		message = "Image liked"
	}
	return c.JSON(dto.ToggleLikeResponse{Liked: liked, Message: message})
}

// Delete handles DELETE /api/images/:id (owner or admin).
func (h *ImageHandler) Delete(c *fiber.Ctx) error {
	p, ok := principal.Get(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Message: "Authentication failed",
		})
	}

	imageID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Message: "Invalid image id",
		})
	}

	if err := h.imageService.Delete(c.Context(), imageID, p.UserID, p.Role); err != nil {
		if errors.Is(err, services.ErrImageNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Message: "Image not found",
			})
		}
		if errors.Is(err, services.ErrNotOwner) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Message: "Not authorized",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(fiber.Map{"message": "Image deleted successfully"})
}

func parsePositiveInt(raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, errors.New("not a positive integer")
	}
	return n, nil
}
