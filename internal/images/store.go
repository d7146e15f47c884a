// Package images stores product photos in an S3-compatible bucket, with a
// local-disk backend for credential-less development.
package images

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("image not found")

type Image struct {
	// ID is the storage key, unique within the backend.
	ID         string    `json:"id"`
	URL        string    `json:"url"`
	FileName   string    `json:"file_name"`
	Bytes      int64     `json:"bytes"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type Store interface {
	// Put stores one image and returns its public description.
	Put(ctx context.Context, fileName, contentType string, data []byte) (Image, error)

	// List returns stored images, newest first.
	List(ctx context.Context) ([]Image, error)

	// Delete removes an image by its ID; ErrNotFound when absent.
	Delete(ctx context.Context, id string) error
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// objectName builds a collision-free storage name from the uploaded file
// name: timestamp plus a short random suffix, original name sanitized.
func objectName(fileName string, now time.Time) string {
	base := unsafeChars.ReplaceAllString(fileName, "_")
	if base == "" {
		base = "image"
	}
	return fmt.Sprintf("%d_%s_%s", now.Unix(), shortID(), base)
}

func shortID() string {
	return strings.SplitN(uuid.NewString(), "-", 2)[0]
}
