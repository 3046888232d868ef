// Package image stores post images on local disk, S3 or MinIO.
package image

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	appcfg "github.com/blogicum/blogicum/internal/config"
)

// KeyPrefix is the folder every post image key starts with.
const KeyPrefix = "post_images/"

var allowedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".webp": {},
}

var (
	ErrUnsupportedFormat = errors.New("upload a valid image: jpg, jpeg, png, gif or webp")
	ErrTooLarge          = errors.New("image is too large")
	ErrEmpty             = errors.New("the submitted file is empty")
)

// Store persists image objects and maps keys to public URLs.
type Store interface {
	Put(ctx context.Context, key, contentType string, r io.Reader, size int64) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// Upload is a file received from a form.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// New builds the store selected by cfg.Backend.
func New(ctx context.Context, cfg appcfg.StorageConfig, mediaDir string) (Store, error) {
	switch cfg.Backend {
	case "", appcfg.StorageLocal:
		return NewLocal(mediaDir, "/media/")
	case appcfg.StorageS3:
		return NewS3(cfg.S3)
	case appcfg.StorageMinIO:
		return NewMinIO(ctx, cfg.MinIO)
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.Backend)
	}
}

// Validate checks the extension whitelist and the size limit (0 disables it).
func Validate(u Upload, maxBytes int64) error {
	if u.Size <= 0 {
		return ErrEmpty
	}
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(u.Filename)))
	if _, ok := allowedExtensions[ext]; !ok {
		return ErrUnsupportedFormat
	}
	if maxBytes > 0 && u.Size > maxBytes {
		return fmt.Errorf("%w: limit is %d MB", ErrTooLarge, maxBytes/(1<<20))
	}
	return nil
}

// ObjectKey returns a fresh key that keeps the upload's extension.
func ObjectKey(filename string) string {
	return KeyPrefix + uuid.NewString() + strings.ToLower(filepath.Ext(strings.TrimSpace(filename)))
}

// Save validates u and writes it to store under a new key.
func Save(ctx context.Context, store Store, u Upload, maxBytes int64) (string, error) {
	if err := Validate(u, maxBytes); err != nil {
		return "", err
	}
	key := ObjectKey(u.Filename)
	if err := store.Put(ctx, key, detectContentType(u), u.Body, u.Size); err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}
	return key, nil
}

func detectContentType(u Upload) string {
	if ct := strings.TrimSpace(u.ContentType); ct != "" && ct != "application/octet-stream" {
		return ct
	}
	if ct := mime.TypeByExtension(strings.ToLower(path.Ext(u.Filename))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

func normalizeKey(key string) (string, error) {
	key = strings.TrimLeft(strings.ReplaceAll(strings.TrimSpace(key), "\\", "/"), "/")
	clean := path.Clean(key)
	if key == "" || clean == "." || strings.HasPrefix(clean, "../") || clean == ".." {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return clean, nil
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}
