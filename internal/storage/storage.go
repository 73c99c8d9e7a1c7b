package storage

import (
	"context"
	"errors"
	"io"

	"github.com/ondrasimku/gallery-service/internal/domain"
)

var (
	ErrNotFound = errors.New("file not found")
	ErrTooLarge = errors.New("file too large")

	ErrInvalidName = errors.New("invalid file name")
)

type SaveOptions struct {
	OriginalName string
	ContentType  string
	MaxSize      int64
}

type Storage interface {
	Save(ctx context.Context, r io.Reader, opts SaveOptions) (domain.Image, error)
	Open(ctx context.Context, filename string) (io.ReadSeekCloser, domain.Image, error)
	List(ctx context.Context) ([]domain.Image, error)
}
