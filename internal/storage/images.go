// Package storage places uploaded post images on disk.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ImageStore writes post images under a media root. Only the placement and
// naming contract lives here; serving and transformation belong to the
// hosting layer.
type ImageStore struct {
	root string
}

// NewImageStore creates a store rooted at dir.
func NewImageStore(dir string) *ImageStore {
	return &ImageStore{root: dir}
}

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// Save stores the upload under posts/ with a random name, keeping the
// original extension, and returns the media-relative path.
func (s *ImageStore) Save(originalName string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("unsupported image type %q", ext)
	}

	rel := filepath.Join("posts", uuid.NewString()+ext)
	abs := filepath.Join(s.root, rel)

	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", fmt.Errorf("create media directory: %w", err)
	}

	f, err := os.Create(abs)
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(abs)
		return "", fmt.Errorf("write image file: %w", err)
	}
	return rel, nil
}
