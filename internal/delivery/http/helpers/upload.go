package helpers

import (
	"errors"
	"fmt"
	"net/http"

	"adminpanel/internal/domain"
)

// ErrMalformedForm is returned for request bodies that cannot be parsed as a form.
var ErrMalformedForm = errors.New("malformed form")

// multipartOverhead is the room left for the non-file parts of a multipart body.
const multipartOverhead = 1 << 20

// ParseMultipart caps the body of r at maxBytes plus form overhead and parses
// it. Form-encoded bodies are parsed as well; only their PostForm is filled.
func ParseMultipart(w http.ResponseWriter, r *http.Request, maxBytes int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartOverhead)
	err := r.ParseMultipartForm(maxBytes)
	if err == nil || errors.Is(err, http.ErrNotMultipart) {
		return nil
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return domain.ErrImageTooLarge
	}
	return fmt.Errorf("%w: %v", ErrMalformedForm, err)
}

// FormUpload returns the file posted under field, or nil when none was sent.
// The returned close func releases the file and is never nil.
func FormUpload(r *http.Request, field string) (*domain.Upload, func(), error) {
	noop := func() {}
	if r.MultipartForm == nil {
		return nil, noop, nil
	}
	file, hdr, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, noop, nil
		}
		return nil, noop, fmt.Errorf("%w: %v", ErrMalformedForm, err)
	}
	if hdr.Size == 0 && hdr.Filename == "" {
		_ = file.Close()
		return nil, noop, nil
	}
	up := &domain.Upload{
		Filename:    hdr.Filename,
		ContentType: hdr.Header.Get("Content-Type"),
		Size:        hdr.Size,
		Body:        file,
	}
	return up, func() { _ = file.Close() }, nil
}
