// Package uploads stores uploaded files (patient photos) on local disk or S3.
package uploads

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Store puts files under a slash-separated path.
type Store interface {
	Put(ctx context.Context, path string, r io.Reader, contentType string) error
	// Delete removes path. A missing path is not an error.
	Delete(ctx context.Context, path string) error
	// URL returns where a client can fetch path.
	URL(path string) string
}

// Info describes a stored upload.
type Info struct {
	Path        string
	FileName    string
	Size        int64
	ContentType string
}

// SavePhoto stores a patient photo with a unique path and returns upload info.
// The path is generated as: patients/YYYY/MM/uuid-filename
func SavePhoto(ctx context.Context, store Store, filename string, r io.Reader, size int64, contentType string) (Info, error) {
	now := time.Now().UTC()
	dateDir := fmt.Sprintf("patients/%04d/%02d", now.Year(), now.Month())
	uniqueName := fmt.Sprintf("%s-%s", uuid.New().String()[:8], SanitizeFilename(filename))
	path := filepath.ToSlash(filepath.Join(dateDir, uniqueName))

	if err := store.Put(ctx, path, r, contentType); err != nil {
		return Info{}, fmt.Errorf("failed to upload photo: %w", err)
	}

	return Info{
		Path:        path,
		FileName:    filename,
		Size:        size,
		ContentType: contentType,
	}, nil
}

// SanitizeFilename keeps the base name and replaces anything other than
// letters, digits, '-', '_' and '.' with '_'.
func SanitizeFilename(filename string) string {
	filename = filepath.Base(filename)

	result := make([]byte, 0, len(filename))
	for i := 0; i < len(filename); i++ {
		c := filename[i]
		if isAllowedFilenameChar(c) {
			result = append(result, c)
		} else {
			result = append(result, '_')
		}
	}

	if len(result) == 0 || string(result) == "." || string(result) == ".." {
		return "file"
	}
	if len(result) > 100 {
		// Truncate but preserve extension if present
		ext := filepath.Ext(string(result))
		if len(ext) > 0 && len(ext) < 10 {
			result = append(result[:100-len(ext)], ext...)
		} else {
			result = result[:100]
		}
	}
	return string(result)
}

func isAllowedFilenameChar(c byte) bool {
	return (c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') ||
		c == '-' || c == '_' || c == '.'
}
