package local

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ondrasimku/gallery-service/internal/storage"
)

func newTestStorage(t *testing.T) *LocalStorage {
	t.Helper()
	s, err := NewLocalStorage(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)
	return s
}

func TestNewLocalStorage_CreatesSingleLevel(t *testing.T) {
	root := t.TempDir()

	dir := filepath.Join(root, "uploads")
	_, err := NewLocalStorage(dir)
	require.NoError(t, err)
	assert.DirExists(t, dir)

	// Second start against an existing directory is fine.
	_, err = NewLocalStorage(dir)
	assert.NoError(t, err)

	// Missing parents are not created.
	_, err = NewLocalStorage(filepath.Join(root, "missing", "uploads"))
	assert.Error(t, err)
}

func TestNewLocalStorage_RejectsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "uploads")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	_, err := NewLocalStorage(path)
	assert.Error(t, err)
}

func TestGenerateFilename(t *testing.T) {
	now := time.UnixMilli(1700000000123)

	cases := map[string]string{
		"my photo.png":                       "1700000000123-my_photo.png",
		"a  \t b.jpg":                        "1700000000123-a_b.jpg",
		"plain.webp":                         "1700000000123-plain.webp",
		" leading space.jpeg":                "1700000000123-_leading_space.jpeg",
		"Screenshot at 10.00.00\u202fPM.png": "1700000000123-Screenshot_at_10.00.00_PM.png",
		"my\u00a0photo.png":                  "1700000000123-my_photo.png",
		"a\vb.png":                           "1700000000123-a_b.png",
		"a\u3000\u2003 b.png":                "1700000000123-a_b.png",
		"\ufeffbom.png":                      "1700000000123-_bom.png",
		"line\u2028sep.png":                  "1700000000123-line_sep.png",
	}
	for in, want := range cases {
		assert.Equal(t, want, GenerateFilename(now, in), "GenerateFilename(%q)", in)
	}
}

func TestBaseName(t *testing.T) {
	assert.Equal(t, "a.png", baseName(`C:\fakepath\a.png`))
	assert.Equal(t, "a.png", baseName("dir/a.png"))
	assert.Equal(t, "a.png", baseName("a.png"))
	assert.Equal(t, "", baseName(`dir\`))
}

func TestSaveOpenList(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	content := "not really a png"

	img, err := s.Save(ctx, strings.NewReader(content), storage.SaveOptions{
		OriginalName: "my photo.png",
		ContentType:  "image/png",
		MaxSize:      1024,
	})
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^\d+-my_photo\.png$`), img.Filename)
	assert.Equal(t, "/uploads/"+img.Filename, img.URL())
	assert.Equal(t, int64(len(content)), img.Size)

	rc, info, err := s.Open(ctx, img.Filename)
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
	assert.Equal(t, "image/png", info.ContentType)

	images, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, img.Filename, images[0].Filename)
}

func TestSave_ClientPathIsStripped(t *testing.T) {
	s := newTestStorage(t)

	img, err := s.Save(context.Background(), strings.NewReader("x"), storage.SaveOptions{
		OriginalName: `C:\fakepath\holiday pic.jpg`,
	})
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^\d+-holiday_pic\.jpg$`), img.Filename)
	assert.FileExists(t, filepath.Join(s.Dir(), img.Filename))
}

func TestSave_InvalidName(t *testing.T) {
	s := newTestStorage(t)

	_, err := s.Save(context.Background(), strings.NewReader("x"), storage.SaveOptions{
		OriginalName: "bad\x00name.png",
	})
	assert.ErrorIs(t, err, storage.ErrInvalidName)

	entries, err := os.ReadDir(s.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSave_TooLargeLeavesNoFile(t *testing.T) {
	s := newTestStorage(t)

	_, err := s.Save(context.Background(), strings.NewReader(strings.Repeat("x", 11)), storage.SaveOptions{
		OriginalName: "big.png",
		MaxSize:      10,
	})
	assert.ErrorIs(t, err, storage.ErrTooLarge)

	entries, err := os.ReadDir(s.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSave_ExactlyMaxSize(t *testing.T) {
	s := newTestStorage(t)

	img, err := s.Save(context.Background(), strings.NewReader(strings.Repeat("x", 10)), storage.SaveOptions{
		OriginalName: "edge.png",
		MaxSize:      10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(10), img.Size)
}

func TestSave_SameMillisecondOverwrites(t *testing.T) {
	s := newTestStorage(t)
	fixed := time.UnixMilli(42)
	s.now = func() time.Time { return fixed }
	ctx := context.Background()

	first, err := s.Save(ctx, strings.NewReader("first"), storage.SaveOptions{OriginalName: "a.png"})
	require.NoError(t, err)
	second, err := s.Save(ctx, strings.NewReader("second"), storage.SaveOptions{OriginalName: "a.png"})
	require.NoError(t, err)
	require.Equal(t, first.Filename, second.Filename)

	data, err := os.ReadFile(filepath.Join(s.Dir(), first.Filename))
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestOpen_ConfinedToDirectory(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "secret.txt"), []byte("secret"), 0644))
	s, err := NewLocalStorage(filepath.Join(root, "uploads"))
	require.NoError(t, err)
	require.NoError(t, os.Mkdir(filepath.Join(s.Dir(), "nested"), 0755))

	for _, name := range []string{
		"",
		".",
		"..",
		"../secret.txt",
		"..\\secret.txt",
		"/etc/passwd",
		"../../etc/passwd",
		"nested",
		"missing.png",
	} {
		rc, _, err := s.Open(context.Background(), name)
		if rc != nil {
			rc.Close()
		}
		assert.ErrorIs(t, err, storage.ErrNotFound, "Open(%q)", name)
	}
}

func TestList_SkipsDirectories(t *testing.T) {
	s := newTestStorage(t)
	require.NoError(t, os.Mkdir(filepath.Join(s.Dir(), "sub.png"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "notes.txt"), []byte("n"), 0644))

	images, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, "notes.txt", images[0].Filename)
}

func TestContentTypeByName(t *testing.T) {
	cases := map[string]string{
		"a.JPG":  "image/jpeg",
		"a.jpeg": "image/jpeg",
		"a.png":  "image/png",
		"a.webp": "image/webp",
		"a":      "application/octet-stream",
	}
	for in, want := range cases {
		assert.Equal(t, want, ContentTypeByName(in), "ContentTypeByName(%q)", in)
	}
}
