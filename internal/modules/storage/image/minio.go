package image

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	appcfg "github.com/blogicum/blogicum/internal/config"
)

// MinIO stores images in a MinIO bucket, creating it on startup.
type MinIO struct {
	cli       *minio.Client
	bucket    string
	publicURL string
}

func NewMinIO(ctx context.Context, opts appcfg.MinIOOptions) (*MinIO, error) {
	endpoint := strings.TrimSpace(opts.Endpoint)
	if endpoint == "" || opts.Bucket == "" {
		return nil, fmt.Errorf("incomplete minio config: endpoint/bucket are required")
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, opts.Bucket)
	if err != nil {
		return nil, fmt.Errorf("minio bucket check: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, opts.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("minio bucket create: %w", err)
		}
	}

	publicURL := strings.TrimSpace(opts.PublicURL)
	if publicURL == "" {
		scheme := "http"
		if opts.UseSSL {
			scheme = "https"
		}
		publicURL = fmt.Sprintf("%s://%s/%s", scheme, endpoint, opts.Bucket)
	}

	return &MinIO{cli: client, bucket: opts.Bucket, publicURL: publicURL}, nil
}

func (m *MinIO) Put(ctx context.Context, key, contentType string, r io.Reader, size int64) error {
	clean, err := normalizeKey(key)
	if err != nil {
		return err
	}
	_, err = m.cli.PutObject(ctx, m.bucket, clean, r, size, minio.PutObjectOptions{ContentType: contentType})
	return err
}

func (m *MinIO) Delete(ctx context.Context, key string) error {
	clean, err := normalizeKey(key)
	if err != nil {
		return err
	}
	return m.cli.RemoveObject(ctx, m.bucket, clean, minio.RemoveObjectOptions{})
}

func (m *MinIO) URL(key string) string {
	return joinURL(m.publicURL, key)
}
