package storage

import (
	"context"
	"errors"
	"regexp"
	"strings"
)

var ErrBlobNotFound = errors.New("blob not found")

// BlobRef identifies an uploaded object
type BlobRef struct {
	Path        string `json:"path"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// BlobStore keeps uploaded registration documents
type BlobStore interface {
	// Upload writes data at path, replacing any previous object
	Upload(ctx context.Context, path string, data []byte, contentType string) (BlobRef, error)
	// URL returns a time-limited download URL for ref
	URL(ctx context.Context, ref BlobRef) (string, error)
}

var (
	whitespace   = regexp.MustCompile(`\s+`)
	unsafeChars  = regexp.MustCompile(`[^A-Za-z0-9._-]`)
	repeatedDash = regexp.MustCompile(`-{2,}`)
)

// SanitizeBlobName turns a user supplied file name into a safe object key segment
func SanitizeBlobName(name string) string {
	name = whitespace.ReplaceAllString(strings.TrimSpace(name), "-")
	name = unsafeChars.ReplaceAllString(name, "")
	name = repeatedDash.ReplaceAllString(name, "-")
	if name == "" || strings.Trim(name, ".") == "" {
		return "file"
	}
	return name
}
