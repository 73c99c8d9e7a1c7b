package handler

import (
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ondrasimku/gallery-service/internal/storage"
)

// FormField is the multipart field carrying the uploaded image.
const FormField = "image"

// multipartOverhead is the slack allowed on top of the file ceiling for
// part headers and boundaries.
const multipartOverhead = 1 << 20

type UploadHandler struct {
	storage storage.Storage
	maxSize int64
	logger  *slog.Logger
}

func NewUploadHandler(storage storage.Storage, maxSize int64, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{
		storage: storage,
		maxSize: maxSize,
		logger:  logger,
	}
}

func (h *UploadHandler) Upload(c *gin.Context) {
	// Part headers are only inspected after the form is parsed, so a body
	// over the cap is reported as too large whatever its declared type.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxSize+multipartOverhead)

	form, err := c.MultipartForm()
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.logger.Warn("Request body too large", "limit", maxErr.Limit)
			c.JSON(http.StatusRequestEntityTooLarge, failure("File too large"))
			return
		}
		h.logger.Warn("Failed to parse multipart form", "error", err)
		c.JSON(http.StatusBadRequest, failure("No image file provided"))
		return
	}

	file, reason := singleFile(form)
	if file == nil {
		h.logger.Warn("Rejected upload", "reason", reason, "parts", len(form.File))
		c.JSON(http.StatusBadRequest, failure(reason))
		return
	}

	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		h.logger.Warn("Unsupported MIME type", "contentType", contentType, "filename", file.Filename)
		c.JSON(http.StatusBadRequest, failure("Only image files allowed"))
		return
	}

	if file.Size > h.maxSize {
		h.logger.Warn("File too large", "size", file.Size, "max", h.maxSize)
		c.JSON(http.StatusRequestEntityTooLarge, failure("File too large"))
		return
	}

	src, err := file.Open()
	if err != nil {
		h.logger.Error("Failed to open uploaded file", "error", err)
		c.JSON(http.StatusInternalServerError, failure("Upload failed"))
		return
	}
	defer src.Close()

	image, err := h.storage.Save(c.Request.Context(), src, storage.SaveOptions{
		OriginalName: file.Filename,
		ContentType:  contentType,
		MaxSize:      h.maxSize,
	})
	if err != nil {
		if errors.Is(err, storage.ErrTooLarge) {
			h.logger.Warn("File too large", "max", h.maxSize)
			c.JSON(http.StatusRequestEntityTooLarge, failure("File too large"))
			return
		}
		if errors.Is(err, storage.ErrInvalidName) {
			h.logger.Warn("Invalid file name", "filename", file.Filename)
			c.JSON(http.StatusBadRequest, failure("Invalid file name"))
			return
		}
		h.logger.Error("Failed to save file", "error", err)
		c.JSON(http.StatusInternalServerError, failure("Upload failed"))
		return
	}

	h.logger.Info("File uploaded successfully", "filename", image.Filename, "size", image.Size)
	c.JSON(http.StatusOK, Response{
		Success: true,
		URL:     image.URL(),
	})
}

// singleFile returns the only file part of the form, which must be sent
// under FormField. On rejection it returns the message for the client.
func singleFile(form *multipart.Form) (*multipart.FileHeader, string) {
	total := 0
	for _, headers := range form.File {
		total += len(headers)
	}

	files := form.File[FormField]
	switch {
	case total == 0:
		return nil, "No image file provided"
	case total != 1 || len(files) != 1:
		return nil, "Only a single image file is allowed"
	}

	return files[0], ""
}
