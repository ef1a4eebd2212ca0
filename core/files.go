package core

import (
	"context"
	"io"

	"github.com/pkg/errors"
)

// Accepted upload content types.
const (
	MIMEPDF  = "application/pdf"
	MIMEJPEG = "image/jpeg"
	MIMEPNG  = "image/png"
)

var (
	DocumentTypes = []string{MIMEPDF, MIMEJPEG, MIMEPNG}
	ImageTypes    = []string{MIMEJPEG, MIMEPNG}

	ErrUnsupportedFileType = errors.New("file type not allowed (PDF, JPEG or PNG only)")
	ErrFileTooLarge        = errors.New("file is too large")
	ErrFileRequired        = errors.New("file is required")
)

type (
	// Upload is a file received from a client.
	Upload struct {
		Filename string
		Content  io.Reader
	}

	// StoredFile describes a persisted upload.
	StoredFile struct {
		Name        string
		URL         string
		ContentType string
		Size        int64
	}

	// FileStore persists uploads.
	FileStore interface {
		// Save sniffs the content, refuses types not listed in allowed and stores it under a collision-resistant name.
		Save(ctx context.Context, up Upload, allowed ...string) (StoredFile, error)
		// SaveImage stores a JPEG/PNG scaled down to at most maxWidth pixels wide.
		SaveImage(ctx context.Context, up Upload, maxWidth int) (StoredFile, error)
		// Delete removes the file behind url; unknown files are ignored.
		Delete(ctx context.Context, url string) error
	}
)

// FileFieldError turns FileStore input errors into a ValidationError on field; other errors are returned as-is.
func FileFieldError(err error, field string) error {
	switch errors.Cause(err) {
	case ErrUnsupportedFileType, ErrFileTooLarge, ErrFileRequired:
		return NewValidationError(errors.Cause(err), FieldError{Field: field, Error: errors.Cause(err).Error()})
	}
	return err
}
