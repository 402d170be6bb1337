package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/josegonz115/flair-ai/internal/port"
)

func tinyPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func embedServer(t *testing.T, embeddings [][]float32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embed" {
			http.NotFound(w, r)
			return
		}
		var payload struct {
			Model string   `json:"model"`
			Input []string `json:"input"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"embeddings": embeddings[:len(payload.Input)],
		})
	}))
}

func TestEmbedImage(t *testing.T) {
	srv := embedServer(t, [][]float32{{0.1, 0.2, 0.3}})
	defer srv.Close()

	provider := NewEmbedServerProvider(EmbedServerConfig{
		BaseURL: srv.URL, Model: "test-model", Dimension: 3,
	})

	vec, err := provider.EmbedImage(context.Background(), tinyPNG(t))
	if err != nil {
		t.Fatalf("EmbedImage failed: %v", err)
	}
	if len(vec) != 3 || vec[0] != 0.1 {
		t.Errorf("Unexpected vector: %v", vec)
	}
}

func TestEmbedImagesPreservesOrder(t *testing.T) {
	srv := embedServer(t, [][]float32{{1, 0}, {0, 1}})
	defer srv.Close()

	provider := NewEmbedServerProvider(EmbedServerConfig{BaseURL: srv.URL, Model: "m"})

	img := tinyPNG(t)
	vecs, err := provider.EmbedImages(context.Background(), [][]byte{img, img})
	if err != nil {
		t.Fatalf("EmbedImages failed: %v", err)
	}
	if len(vecs) != 2 {
		t.Fatalf("Expected 2 vectors, got %d", len(vecs))
	}
	if vecs[0][0] != 1 || vecs[1][1] != 1 {
		t.Errorf("Response order not preserved: %v", vecs)
	}
}

func TestEmbedImageRejectsCorruptBytes(t *testing.T) {
	// Corrupt bytes must fail before any network call.
	provider := NewEmbedServerProvider(EmbedServerConfig{BaseURL: "http://127.0.0.1:0", Model: "m"})

	_, err := provider.EmbedImage(context.Background(), []byte("not an image"))
	if !errors.Is(err, port.ErrExtraction) {
		t.Errorf("Expected ErrExtraction for corrupt bytes, got %v", err)
	}
}

func TestEmbedImageDimensionMismatch(t *testing.T) {
	srv := embedServer(t, [][]float32{{0.1, 0.2}})
	defer srv.Close()

	provider := NewEmbedServerProvider(EmbedServerConfig{
		BaseURL: srv.URL, Model: "m", Dimension: 2048,
	})

	_, err := provider.EmbedImage(context.Background(), tinyPNG(t))
	if !errors.Is(err, port.ErrExtraction) {
		t.Errorf("Expected ErrExtraction for dimension mismatch, got %v", err)
	}
}

func TestEmbedImageServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	provider := NewEmbedServerProvider(EmbedServerConfig{BaseURL: srv.URL, Model: "m"})

	_, err := provider.EmbedImage(context.Background(), tinyPNG(t))
	if !errors.Is(err, port.ErrExtraction) {
		t.Errorf("Expected ErrExtraction for server error, got %v", err)
	}
}

func TestEmbedImageDeterministic(t *testing.T) {
	srv := embedServer(t, [][]float32{{0.5, 0.5}})
	defer srv.Close()

	provider := NewEmbedServerProvider(EmbedServerConfig{BaseURL: srv.URL, Model: "m"})
	img := tinyPNG(t)

	first, err := provider.EmbedImage(context.Background(), img)
	if err != nil {
		t.Fatalf("EmbedImage failed: %v", err)
	}
	second, err := provider.EmbedImage(context.Background(), img)
	if err != nil {
		t.Fatalf("EmbedImage failed: %v", err)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("Embedding not deterministic at %d: %v vs %v", i, first[i], second[i])
		}
	}
}
