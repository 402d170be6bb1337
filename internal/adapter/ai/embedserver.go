package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"net/http"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/josegonz115/flair-ai/internal/port"
)

// EmbedServerConfig holds the configuration for the embedding inference
// server (an Ollama-compatible /api/embed endpoint serving an image model).
type EmbedServerConfig struct {
	BaseURL   string // e.g. http://localhost:11434
	Model     string // e.g. resnet50-pool
	Token     string // Bearer token (empty = no auth)
	Dimension int    // expected vector length, 0 = don't check
}

// EmbedServerProvider implements port.ImageEmbedder against a remote
// inference server. The model is loaded once server-side; this client is
// stateless and safe for concurrent use.
type EmbedServerProvider struct {
	cfg        EmbedServerConfig
	httpClient *http.Client
}

// NewEmbedServerProvider creates a new embedding-server client.
func NewEmbedServerProvider(cfg EmbedServerConfig) *EmbedServerProvider {
	return &EmbedServerProvider{
		cfg:        cfg,
		httpClient: &http.Client{},
	}
}

// ModelName returns the embedding model identifier.
func (p *EmbedServerProvider) ModelName() string {
	return p.cfg.Model
}

// Dimension returns the configured vector length (0 if unknown).
func (p *EmbedServerProvider) Dimension() int {
	return p.cfg.Dimension
}

// EmbedImage generates the embedding vector for a single image. Bytes that do
// not decode as PNG/JPEG/GIF fail with port.ErrExtraction before any network
// call.
func (p *EmbedServerProvider) EmbedImage(ctx context.Context, img []byte) ([]float32, error) {
	vectors, err := p.EmbedImages(ctx, [][]byte{img})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedImages generates embeddings for multiple images in one call. The
// response preserves input order.
func (p *EmbedServerProvider) EmbedImages(ctx context.Context, images [][]byte) ([][]float32, error) {
	inputs := make([]string, len(images))
	for i, img := range images {
		if _, _, err := image.Decode(bytes.NewReader(img)); err != nil {
			return nil, fmt.Errorf("%w: decode image %d: %v", port.ErrExtraction, i, err)
		}
		inputs[i] = base64.StdEncoding.EncodeToString(img)
	}

	payload := map[string]interface{}{
		"model": p.cfg.Model,
		"input": inputs,
	}

	body, err := p.post(ctx, "/api/embed", payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", port.ErrExtraction, err)
	}

	var resp struct {
		Embeddings [][]float32 `json:"embeddings"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", port.ErrExtraction, err)
	}
	if len(resp.Embeddings) != len(images) {
		return nil, fmt.Errorf("%w: server returned %d embeddings for %d images",
			port.ErrExtraction, len(resp.Embeddings), len(images))
	}
	for i, vec := range resp.Embeddings {
		if p.cfg.Dimension > 0 && len(vec) != p.cfg.Dimension {
			return nil, fmt.Errorf("%w: embedding %d has dimension %d, want %d",
				port.ErrExtraction, i, len(vec), p.cfg.Dimension)
		}
	}

	return resp.Embeddings, nil
}

// post is a helper for POST requests to the embed server (with optional
// bearer token).
func (p *EmbedServerProvider) post(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL+path, bytes.NewReader(payloadBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+p.cfg.Token)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("embed server error (%d): %s", resp.StatusCode, string(body))
	}

	return io.ReadAll(resp.Body)
}
