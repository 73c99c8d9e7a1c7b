package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ondrasimku/gallery-service/internal/storage"
)

type FileHandler struct {
	storage storage.Storage
	logger  *slog.Logger
}

func NewFileHandler(storage storage.Storage, logger *slog.Logger) *FileHandler {
	return &FileHandler{
		storage: storage,
		logger:  logger,
	}
}

// Serve streams a stored file. Anything that is not a direct child of the
// storage directory is reported as not found.
func (h *FileHandler) Serve(c *gin.Context) {
	filename := c.Param("filename")

	file, image, err := h.storage.Open(c.Request.Context(), filename)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			h.logger.Debug("File not found", "filename", filename)
			c.JSON(http.StatusNotFound, failure("File not found"))
			return
		}
		h.logger.Error("Failed to open file", "filename", filename, "error", err)
		c.JSON(http.StatusInternalServerError, failure("Failed to read file"))
		return
	}
	defer file.Close()

	c.Header("Content-Type", image.ContentType)
	http.ServeContent(c.Writer, c.Request, image.Filename, image.ModTime, file)
}
