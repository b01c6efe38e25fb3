package domain

import (
	"context"
	"io"
)

// MaxUploadSize determines the maximum filesize of an image to be uploaded.
const MaxUploadSize int64 = 5 << 20 // 5 Megabyte

// Image represents an image file submitted with the post form. Images are
// kept in the object store only, the post record just carries the resulting
// URL, so there is no dedicated images table.
type Image struct {
	File        io.Reader
	Filename    string
	ContentType string
	Size        int64
}

// ImageService stores and removes post images.
type ImageService interface {
	// Upload stores the image and returns the public URL to save on the post.
	Upload(ctx context.Context, img *Image) (string, error)
	// Delete removes a previously uploaded image by its URL.
	// Unknown URLs are not an error.
	Delete(ctx context.Context, url string) error
}
