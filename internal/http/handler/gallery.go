package handler

import (
	"log/slog"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/ondrasimku/gallery-service/internal/storage"
)

var imageName = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|webp)$`)

type GalleryItem struct {
	URL string `json:"url"`
}

type GalleryHandler struct {
	storage storage.Storage
	logger  *slog.Logger
}

func NewGalleryHandler(storage storage.Storage, logger *slog.Logger) *GalleryHandler {
	return &GalleryHandler{
		storage: storage,
		logger:  logger,
	}
}

// IsImageName reports whether name carries one of the gallery extensions.
func IsImageName(name string) bool {
	return imageName.MatchString(name)
}

// List rescans storage on every call; order follows the directory listing.
func (h *GalleryHandler) List(c *gin.Context) {
	images, err := h.storage.List(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list gallery", "error", err)
		c.JSON(http.StatusInternalServerError, failure("Failed to list gallery"))
		return
	}

	items := make([]GalleryItem, 0, len(images))
	for _, image := range images {
		if !IsImageName(image.Filename) {
			continue
		}
		items = append(items, GalleryItem{URL: image.URL()})
	}

	c.JSON(http.StatusOK, items)
}
