package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ondrasimku/gallery-service/internal/domain"
	"github.com/ondrasimku/gallery-service/internal/storage"
)

// whitespaceRun covers ASCII and Unicode spaces, including U+00A0,
// U+202F and the byte order mark.
var whitespaceRun = regexp.MustCompile(`[\s\v\p{Z}\x{FEFF}]+`)

type LocalStorage struct {
	baseDir string
	now     func() time.Time
}

// NewLocalStorage makes sure baseDir exists. Only the last path element is
// created; a concurrent creator winning the race is not an error.
func NewLocalStorage(baseDir string) (*LocalStorage, error) {
	if err := os.Mkdir(baseDir, 0755); err != nil && !errors.Is(err, fs.ErrExist) {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	info, err := os.Stat(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to stat storage directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage path %s is not a directory", baseDir)
	}

	return &LocalStorage{
		baseDir: baseDir,
		now:     time.Now,
	}, nil
}

func (s *LocalStorage) Dir() string {
	return s.baseDir
}

// SanitizeName collapses every whitespace run into a single underscore.
func SanitizeName(name string) string {
	return whitespaceRun.ReplaceAllString(name, "_")
}

// GenerateFilename builds "<unix millis>-<sanitized name>".
func GenerateFilename(now time.Time, originalName string) string {
	return strconv.FormatInt(now.UnixMilli(), 10) + "-" + SanitizeName(originalName)
}

func (s *LocalStorage) Save(ctx context.Context, r io.Reader, opts storage.SaveOptions) (domain.Image, error) {
	if err := ctx.Err(); err != nil {
		return domain.Image{}, err
	}

	filename := GenerateFilename(s.now(), baseName(opts.OriginalName))
	filePath, err := s.resolve(filename)
	if err != nil {
		return domain.Image{}, fmt.Errorf("%w: %q", storage.ErrInvalidName, opts.OriginalName)
	}

	// Same-millisecond uploads of one name overwrite each other.
	file, err := os.Create(filePath)
	if err != nil {
		return domain.Image{}, fmt.Errorf("failed to create file: %w", err)
	}

	src := r
	if opts.MaxSize > 0 {
		src = io.LimitReader(r, opts.MaxSize+1)
	}

	size, copyErr := io.Copy(file, src)
	closeErr := file.Close()

	switch {
	case copyErr != nil:
		os.Remove(filePath)
		return domain.Image{}, fmt.Errorf("failed to write file: %w", copyErr)
	case opts.MaxSize > 0 && size > opts.MaxSize:
		os.Remove(filePath)
		return domain.Image{}, storage.ErrTooLarge
	case closeErr != nil:
		os.Remove(filePath)
		return domain.Image{}, fmt.Errorf("failed to close file: %w", closeErr)
	}

	return domain.Image{
		Filename:    filename,
		ContentType: opts.ContentType,
		Size:        size,
		ModTime:     s.now(),
	}, nil
}

func (s *LocalStorage) Open(ctx context.Context, filename string) (io.ReadSeekCloser, domain.Image, error) {
	filePath, err := s.resolve(filename)
	if err != nil {
		return nil, domain.Image{}, err
	}

	file, err := os.Open(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.Image{}, storage.ErrNotFound
		}
		return nil, domain.Image{}, fmt.Errorf("failed to open file: %w", err)
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, domain.Image{}, fmt.Errorf("failed to stat file: %w", err)
	}
	if !stat.Mode().IsRegular() {
		file.Close()
		return nil, domain.Image{}, storage.ErrNotFound
	}

	return file, domain.Image{
		Filename:    filename,
		ContentType: ContentTypeByName(filename),
		Size:        stat.Size(),
		ModTime:     stat.ModTime(),
	}, nil
}

// List returns the regular files in the storage directory in the order
// os.ReadDir yields them.
func (s *LocalStorage) List(ctx context.Context) ([]domain.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read storage directory: %w", err)
	}

	images := make([]domain.Image, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		images = append(images, domain.Image{
			Filename:    entry.Name(),
			ContentType: ContentTypeByName(entry.Name()),
		})
	}

	return images, nil
}

// baseName drops any client-side directory, with either separator
// (older browsers send C:\fakepath\name.png).
func baseName(name string) string {
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// resolve maps a bare file name to a path that is a direct child of the
// storage directory.
func (s *LocalStorage) resolve(filename string) (string, error) {
	if filename == "" || filename == "." || filename == ".." ||
		strings.ContainsAny(filename, `/\`) || strings.ContainsRune(filename, 0) {
		return "", storage.ErrNotFound
	}

	base, err := filepath.Abs(s.baseDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve storage directory: %w", err)
	}

	filePath := filepath.Join(base, filename)
	rel, err := filepath.Rel(base, filePath)
	if err != nil || rel != filename {
		return "", storage.ErrNotFound
	}

	return filePath, nil
}

func ContentTypeByName(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	}
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
