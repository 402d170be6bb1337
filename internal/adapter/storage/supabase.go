// Package storage provides the Supabase Storage client used to publish
// matched images and to serve previously scraped boards as a search library.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/josegonz115/flair-ai/internal/port"
)

// imageExtensions mirrors the collection allow-list for bucket listings.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

// SupabaseConfig holds the Supabase Storage connection settings.
type SupabaseConfig struct {
	BaseURL string // e.g. https://xyz.supabase.co
	APIKey  string // service role or anon key
	Bucket  string // e.g. images
}

// SupabaseStore talks to the Supabase Storage REST API. It implements both
// port.ObjectStore (publishing matches) and port.CollectionSource (searching
// against a bucket prefix such as "username/board").
type SupabaseStore struct {
	cfg        SupabaseConfig
	httpClient *http.Client
}

// NewSupabaseStore creates a Supabase Storage client.
func NewSupabaseStore(cfg SupabaseConfig) *SupabaseStore {
	return &SupabaseStore{
		cfg:        cfg,
		httpClient: &http.Client{},
	}
}

// Upload stores data under objectPath in the bucket and returns its public
// URL. Existing objects are overwritten.
func (s *SupabaseStore) Upload(ctx context.Context, objectPath string, data []byte, contentType string) (string, error) {
	url := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.cfg.BaseURL, s.cfg.Bucket, objectPath)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("create upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "true")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload object: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("supabase upload error (%d): %s", resp.StatusCode, string(body))
	}

	return s.PublicURL(objectPath), nil
}

// PublicURL returns the public URL of an object in the bucket.
func (s *SupabaseStore) PublicURL(objectPath string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.cfg.BaseURL, s.cfg.Bucket, objectPath)
}

// List enumerates image objects under a bucket prefix (e.g. "user/board"),
// sorted by name ascending so enumeration order is stable.
func (s *SupabaseStore) List(ctx context.Context, prefix string) ([]string, error) {
	url := fmt.Sprintf("%s/storage/v1/object/list/%s", s.cfg.BaseURL, s.cfg.Bucket)
	payload := map[string]interface{}{
		"prefix": prefix,
		"limit":  1000,
		"sortBy": map[string]string{"column": "name", "order": "asc"},
	}
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal list payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payloadBytes))
	if err != nil {
		return nil, fmt.Errorf("create list request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", port.ErrCollectionUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: supabase list error (%d): %s",
			port.ErrCollectionUnavailable, resp.StatusCode, string(body))
	}

	var objects []struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&objects); err != nil {
		return nil, fmt.Errorf("%w: decode list response: %v", port.ErrCollectionUnavailable, err)
	}

	var ids []string
	for _, obj := range objects {
		ext := strings.ToLower(path.Ext(obj.Name))
		if imageExtensions[ext] {
			ids = append(ids, prefix+"/"+obj.Name)
		}
	}
	return ids, nil
}

// Read downloads one object from the bucket.
func (s *SupabaseStore) Read(ctx context.Context, id string) ([]byte, error) {
	url := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.cfg.BaseURL, s.cfg.Bucket, id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create download request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download object: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("supabase download error (%d): %s", resp.StatusCode, string(body))
	}

	return io.ReadAll(resp.Body)
}
