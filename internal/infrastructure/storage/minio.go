package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"foodgram-backend/internal/config"
)

const recipeImagePrefix = "recipes/images/"

// MinIOStorage handles file uploads to MinIO
type MinIOStorage struct {
	client    *minio.Client
	bucket    string
	processor *ImageProcessor
}

// NewMinIOStorage khởi tạo MinIO client và tạo bucket nếu chưa có
func NewMinIOStorage(ctx context.Context, cfg config.MinIOConfig) (*MinIOStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &MinIOStorage{
		client:    client,
		bucket:    cfg.Bucket,
		processor: NewImageProcessor(),
	}, nil
}

// Upload uploads data under key and returns its public URL.
func (s *MinIOStorage) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("failed to upload to minio: %w", err)
	}
	return s.objectURL(key), nil
}

// SaveRecipeImage decodes a base64 data URI, normalizes the image and uploads it.
func (s *MinIOStorage) SaveRecipeImage(ctx context.Context, dataURI string) (string, error) {
	raw, err := DecodeDataURI(dataURI)
	if err != nil {
		return "", err
	}
	img, err := s.processor.Process(raw)
	if err != nil {
		return "", err
	}
	key := fmt.Sprintf("%s%s.%s", recipeImagePrefix, uuid.NewString(), img.Extension)
	return s.Upload(ctx, key, img.Data, img.ContentType)
}

// Owns reports whether rawURL names a recipe image in this bucket.
func (s *MinIOStorage) Owns(rawURL string) bool {
	_, ok := s.keyFromURL(rawURL)
	return ok
}

// DeleteByURL removes an object previously returned by SaveRecipeImage. URLs from elsewhere are ignored.
func (s *MinIOStorage) DeleteByURL(ctx context.Context, rawURL string) error {
	key, ok := s.keyFromURL(rawURL)
	if !ok {
		return nil
	}
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// Format: http://localhost:9000/foodgram/recipes/images/<uuid>.png
func (s *MinIOStorage) objectURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", s.client.EndpointURL().String(), s.bucket, key)
}

func (s *MinIOStorage) keyFromURL(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host != s.client.EndpointURL().Host {
		return "", false
	}
	key, ok := strings.CutPrefix(u.Path, "/"+s.bucket+"/")
	return key, ok && strings.HasPrefix(key, recipeImagePrefix) && key != recipeImagePrefix
}
