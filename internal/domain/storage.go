package domain

import (
	"context"
	"errors"
	"io"
)

// Sentinel errors for avatar uploads.
var (
	ErrUnsupportedImage = errors.New("unsupported image type")
	ErrImageTooLarge    = errors.New("image too large")
)

// Upload is a file received from a form or multipart request.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// AvatarStorage stores avatar images and returns their public URL.
type AvatarStorage interface {
	Upload(ctx context.Context, up *Upload) (publicURL string, err error)
}
