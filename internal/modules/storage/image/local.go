package image

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const (
	defaultFilePerm = 0o644
	defaultDirPerm  = 0o755
)

// Local keeps images under a directory served by the app itself.
type Local struct {
	root    string
	baseURL string
}

// NewLocal creates root if needed. baseURL is the route serving root.
func NewLocal(root, baseURL string) (*Local, error) {
	if root == "" {
		return nil, errors.New("media directory is required")
	}
	if err := os.MkdirAll(root, defaultDirPerm); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	return &Local{root: root, baseURL: baseURL}, nil
}

// Root returns the directory images are written to.
func (l *Local) Root() string { return l.root }

func (l *Local) Put(_ context.Context, key, _ string, r io.Reader, _ int64) error {
	target, err := l.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(target), defaultDirPerm); err != nil {
		return err
	}
	f, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, defaultFilePerm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(target)
		return err
	}
	return f.Close()
}

func (l *Local) Delete(_ context.Context, key string) error {
	target, err := l.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (l *Local) URL(key string) string {
	return joinURL(l.baseURL, key)
}

func (l *Local) path(key string) (string, error) {
	clean, err := normalizeKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(l.root, filepath.FromSlash(clean)), nil
}
