package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Media stores uploaded reference images and generated thumbnails on disk
// under a single root. Paths handed out and accepted are always relative to
// the root, so database rows stay portable across deployments.
type Media struct {
	root string
}

// NewMedia creates a media store rooted at dir.
func NewMedia(dir string) *Media {
	return &Media{root: dir}
}

// SaveTemplateImage stores the raw reference image upload for a template
// and returns its media path. A re-upload overwrites the previous image.
func (m *Media) SaveTemplateImage(templateID string, data []byte) (string, error) {
	rel := filepath.Join("templates", templateID, "reference")
	return rel, m.write(rel, data)
}

// SaveThumbnail stores the annotated thumbnail for a check-in record and
// returns its media path.
func (m *Media) SaveThumbnail(recordID string, png []byte) (string, error) {
	rel := filepath.Join("thumbs", recordID+".png")
	return rel, m.write(rel, png)
}

// Read returns the bytes stored at a media path.
func (m *Media) Read(rel string) ([]byte, error) {
	abs, err := m.resolve(rel)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	return data, err
}

// RemoveTemplateImage deletes a template's stored reference image. Missing
// files are not an error.
func (m *Media) RemoveTemplateImage(templateID string) error {
	abs, err := m.resolve(filepath.Join("templates", templateID))
	if err != nil {
		return err
	}
	return os.RemoveAll(abs)
}

func (m *Media) write(rel string, data []byte) error {
	abs, err := m.resolve(rel)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return fmt.Errorf("create media dir: %w", err)
	}
	if err := os.WriteFile(abs, data, 0o644); err != nil {
		return fmt.Errorf("write media file: %w", err)
	}
	return nil
}

// resolve joins a relative media path onto the root, rejecting traversal
// outside it.
func (m *Media) resolve(rel string) (string, error) {
	clean := filepath.Clean(rel)
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid media path %q", rel)
	}
	return filepath.Join(m.root, clean), nil
}
