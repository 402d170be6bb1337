package index

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/josegonz115/flair-ai/internal/port"
)

type fakeSource struct {
	ids     []string
	data    map[string][]byte
	listErr error
}

func (f *fakeSource) List(ctx context.Context, location string) ([]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.ids, nil
}

func (f *fakeSource) Read(ctx context.Context, id string) ([]byte, error) {
	data, ok := f.data[id]
	if !ok {
		return nil, fmt.Errorf("no such item: %s", id)
	}
	return data, nil
}

// fakeEmbedder maps image bytes to fixed vectors. Content "corrupt" fails,
// and per-call delays let tests scramble completion order.
type fakeEmbedder struct {
	vectors map[string][]float32
	delays  map[string]time.Duration
}

func (f *fakeEmbedder) ModelName() string { return "fake" }
func (f *fakeEmbedder) Dimension() int    { return 2 }

func (f *fakeEmbedder) EmbedImage(ctx context.Context, image []byte) ([]float32, error) {
	if d, ok := f.delays[string(image)]; ok {
		time.Sleep(d)
	}
	vec, ok := f.vectors[string(image)]
	if !ok {
		return nil, fmt.Errorf("%w: unembeddable content", port.ErrExtraction)
	}
	return vec, nil
}

func (f *fakeEmbedder) EmbedImages(ctx context.Context, images [][]byte) ([][]float32, error) {
	out := make([][]float32, len(images))
	for i, img := range images {
		vec, err := f.EmbedImage(ctx, img)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func TestBuildPreservesEnumerationOrder(t *testing.T) {
	source := &fakeSource{
		ids: []string{"a.jpg", "b.jpg", "c.jpg"},
		data: map[string][]byte{
			"a.jpg": []byte("a"),
			"b.jpg": []byte("b"),
			"c.jpg": []byte("c"),
		},
	}
	// First-enumerated items finish last.
	embedder := &fakeEmbedder{
		vectors: map[string][]float32{
			"a": {1, 0},
			"b": {0, 1},
			"c": {1, 1},
		},
		delays: map[string]time.Duration{
			"a": 30 * time.Millisecond,
			"b": 15 * time.Millisecond,
		},
	}

	lib, err := NewBuilder(source, embedder, 3).Build(context.Background(), "lib")
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	want := []string{"a.jpg", "b.jpg", "c.jpg"}
	if len(lib.Entries) != len(want) {
		t.Fatalf("Expected %d entries, got %d", len(want), len(lib.Entries))
	}
	for i, w := range want {
		if lib.Entries[i].Path != w {
			t.Errorf("Entry %d: expected %s, got %s", i, w, lib.Entries[i].Path)
		}
	}
}

func TestBuildSkipsFailedItems(t *testing.T) {
	// 5 items, 1 corrupt: the index must hold exactly 4 entries, no error.
	source := &fakeSource{
		ids: []string{"0.jpg", "1.jpg", "2.jpg", "3.jpg", "4.jpg"},
		data: map[string][]byte{
			"0.jpg": []byte("v0"),
			"1.jpg": []byte("v1"),
			"2.jpg": []byte("corrupt"),
			"3.jpg": []byte("v3"),
			"4.jpg": []byte("v4"),
		},
	}
	embedder := &fakeEmbedder{
		vectors: map[string][]float32{
			"v0": {1, 0}, "v1": {0, 1}, "v3": {1, 1}, "v4": {0, 0},
		},
	}

	lib, err := NewBuilder(source, embedder, 2).Build(context.Background(), "lib")
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(lib.Entries) != 4 {
		t.Fatalf("Expected 4 entries, got %d", len(lib.Entries))
	}
	for _, e := range lib.Entries {
		if e.Path == "2.jpg" {
			t.Error("Corrupt item must not appear in the index")
		}
	}
	// Surviving entries keep enumeration order with the gap closed.
	want := []string{"0.jpg", "1.jpg", "3.jpg", "4.jpg"}
	for i, w := range want {
		if lib.Entries[i].Path != w {
			t.Errorf("Entry %d: expected %s, got %s", i, w, lib.Entries[i].Path)
		}
	}
}

func TestBuildUnreadableItemSkipped(t *testing.T) {
	source := &fakeSource{
		ids:  []string{"gone.jpg", "ok.jpg"},
		data: map[string][]byte{"ok.jpg": []byte("ok")},
	}
	embedder := &fakeEmbedder{vectors: map[string][]float32{"ok": {1, 0}}}

	lib, err := NewBuilder(source, embedder, 1).Build(context.Background(), "lib")
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(lib.Entries) != 1 || lib.Entries[0].Path != "ok.jpg" {
		t.Errorf("Expected single entry ok.jpg, got %v", lib.Entries)
	}
}

func TestBuildEmptyLibrary(t *testing.T) {
	source := &fakeSource{
		ids:  []string{"bad.jpg"},
		data: map[string][]byte{"bad.jpg": []byte("corrupt")},
	}
	embedder := &fakeEmbedder{vectors: map[string][]float32{}}

	_, err := NewBuilder(source, embedder, 1).Build(context.Background(), "lib")
	if !errors.Is(err, port.ErrEmptyLibrary) {
		t.Errorf("Expected ErrEmptyLibrary, got %v", err)
	}
}

func TestBuildCollectionUnavailable(t *testing.T) {
	source := &fakeSource{
		listErr: fmt.Errorf("%w: no such directory", port.ErrCollectionUnavailable),
	}
	embedder := &fakeEmbedder{}

	_, err := NewBuilder(source, embedder, 1).Build(context.Background(), "missing")
	if !errors.Is(err, port.ErrCollectionUnavailable) {
		t.Errorf("Expected ErrCollectionUnavailable, got %v", err)
	}
}
