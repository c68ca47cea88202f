package storage

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"adminpanel/config"
	"adminpanel/internal/domain"
)

const avatarPrefix = "avatars"

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// MinioStorage stores avatars in an S3 compatible bucket.
type MinioStorage struct {
	put        func(ctx context.Context, key string, up *domain.Upload) error
	bucket     string
	publicBase string
	maxBytes   int64
}

// NewMinioStorage connects to the bucket in cfg, creating it when missing.
func NewMinioStorage(ctx context.Context, cfg config.S3Config) (*MinioStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	s := newStorage(cfg)
	s.put = func(ctx context.Context, key string, up *domain.Upload) error {
		_, err := client.PutObject(ctx, cfg.Bucket, key, up.Body, up.Size, minio.PutObjectOptions{
			ContentType: up.ContentType,
		})
		return err
	}
	return s, nil
}

func newStorage(cfg config.S3Config) *MinioStorage {
	return &MinioStorage{
		bucket:     cfg.Bucket,
		publicBase: cfg.PublicBase(),
		maxBytes:   cfg.AvatarMaxBytes,
	}
}

// Upload validates up and stores it under avatars/<uuid>-<name>, returning its public URL.
func (s *MinioStorage) Upload(ctx context.Context, up *domain.Upload) (string, error) {
	if err := s.check(up); err != nil {
		return "", err
	}
	key := ObjectKey(up.Filename)
	if err := s.put(ctx, key, up); err != nil {
		return "", fmt.Errorf("failed to upload avatar: %w", err)
	}
	return s.publicURL(key), nil
}

func (s *MinioStorage) check(up *domain.Upload) error {
	if up == nil || up.Body == nil || up.Size <= 0 {
		return domain.ErrUnsupportedImage
	}
	if !strings.HasPrefix(strings.ToLower(up.ContentType), "image/") {
		return domain.ErrUnsupportedImage
	}
	if s.maxBytes > 0 && up.Size > s.maxBytes {
		return domain.ErrImageTooLarge
	}
	return nil
}

func (s *MinioStorage) publicURL(key string) string {
	return s.publicBase + "/" + s.bucket + "/" + key
}

// ObjectKey returns a unique avatar key for filename.
func ObjectKey(filename string) string {
	return path.Join(avatarPrefix, uuid.NewString()+"-"+SanitizeFilename(filename))
}

// SanitizeFilename keeps the base name and replaces characters outside [A-Za-z0-9._-] with "_".
func SanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))
	name = strings.Trim(unsafeName.ReplaceAllString(name, "_"), "._")
	if name == "" {
		return "avatar"
	}
	return name
}
