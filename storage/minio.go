// Package storage holds the object-store backend for uploaded post images.
package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"yatube/domain"
	"yatube/errs"
)

// contentTypes whitelists what the post form accepts as an image.
var contentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// ImageService stores post images in a MinIO bucket and implements
// the domain.ImageService interface. Objects get a random UUID name
// so uploads never collide.
type ImageService struct {
	client   *minio.Client
	endpoint string
	bucket   string
}

// NewImageService connects to MinIO. The bucket must already exist.
func NewImageService(endpoint, accessKey, secretKey, bucket string, useSSL bool) (*ImageService, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("err connecting to minio: %w", err)
	}
	return &ImageService{
		client:   client,
		endpoint: endpoint,
		bucket:   bucket,
	}, nil
}

var _ domain.ImageService = &ImageService{}

// Upload validates the image and stores it under a fresh object name.
// It returns the public URL to save on the post record.
func (s *ImageService) Upload(ctx context.Context, img *domain.Image) (string, error) {
	if img.Size > domain.MaxUploadSize {
		return "", errs.Errorf(errs.EINVALID, "Image must not be larger than 5 MB.")
	}
	if !contentTypes[img.ContentType] {
		return "", errs.Errorf(errs.EINVALID, "Image must be a jpeg, png or gif.")
	}
	objectName := "posts/" + uuid.New().String() + filepath.Ext(img.Filename)
	_, err := s.client.PutObject(ctx, s.bucket, objectName, img.File, img.Size,
		minio.PutObjectOptions{
			ContentType: img.ContentType,
		})
	if err != nil {
		return "", fmt.Errorf("err uploading image to minio: %w", err)
	}
	return s.url(objectName), nil
}

// Delete removes a previously uploaded image. URLs that don't point into
// our bucket are ignored, as are already-gone objects.
func (s *ImageService) Delete(ctx context.Context, url string) error {
	prefix := s.url("")
	if !strings.HasPrefix(url, prefix) {
		return nil
	}
	objectName := strings.TrimPrefix(url, prefix)
	return s.client.RemoveObject(ctx, s.bucket, objectName, minio.RemoveObjectOptions{})
}

func (s *ImageService) url(objectName string) string {
	scheme := "http"
	if s.client.EndpointURL().Scheme == "https" {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.endpoint, s.bucket, objectName)
}
