// Package collection provides sources of candidate library images.
package collection

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/josegonz115/flair-ai/internal/port"
)

// imageExtensions is the allow-list of indexable file types.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

// LocalSource serves images from a directory on the local filesystem.
// Enumeration order is the lexical filename order of os.ReadDir, which is
// stable across invocations.
type LocalSource struct{}

// NewLocalSource creates a local filesystem collection source.
func NewLocalSource() *LocalSource {
	return &LocalSource{}
}

// List returns the paths of every image file directly under location, in
// lexical order. Non-image files and subdirectories are ignored.
func (s *LocalSource) List(ctx context.Context, location string) ([]string, error) {
	entries, err := os.ReadDir(location)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", port.ErrCollectionUnavailable, err)
	}

	var ids []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if imageExtensions[ext] {
			ids = append(ids, filepath.Join(location, entry.Name()))
		}
	}
	return ids, nil
}

// Read returns the raw bytes of one image file.
func (s *LocalSource) Read(ctx context.Context, id string) ([]byte, error) {
	return os.ReadFile(id)
}
