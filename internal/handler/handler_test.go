package handler

import (
	"encoding/base64"
	"testing"

	"github.com/josegonz115/flair-ai/internal/domain"
)

func TestParseBoardURL(t *testing.T) {
	username, boardName, ok := parseBoardURL("https://pinterest.com/thammili/fashion")
	if !ok {
		t.Fatal("Expected valid board URL to parse")
	}
	if username != "thammili" || boardName != "fashion" {
		t.Errorf("Expected thammili/fashion, got %s/%s", username, boardName)
	}

	if _, _, ok := parseBoardURL("https://example.com/not/pinterest"); ok {
		t.Error("Expected non-Pinterest URL to be rejected")
	}

	_, boardName, ok = parseBoardURL("https://www.pinterest.com/user/board?page=2")
	if !ok || boardName != "board" {
		t.Errorf("Expected query string excluded from board name, got %q", boardName)
	}
}

func TestDecodeBase64Images(t *testing.T) {
	raw := []byte{0xff, 0xd8, 0xff}
	plain := base64.StdEncoding.EncodeToString(raw)
	dataURL := "data:image/jpeg;base64," + plain

	decoded, err := decodeBase64Images([]string{plain, dataURL})
	if err != nil {
		t.Fatalf("decodeBase64Images failed: %v", err)
	}

	for i, d := range decoded {
		if string(d) != string(raw) {
			t.Errorf("Image %d: expected raw bytes back, got %v", i, d)
		}
	}

	if _, err := decodeBase64Images([]string{"!!!not base64!!!"}); err == nil {
		t.Error("Expected error for invalid base64")
	}
}

func TestJobTrackerLifecycle(t *testing.T) {
	tracker := NewJobTracker()
	tracker.CreateJob("job-1", "user/board")

	job, ok := tracker.GetJob("job-1")
	if !ok || job.Status != "running" {
		t.Fatalf("Expected running job, got %+v", job)
	}

	tracker.UpdateProgress("job-1", 2, 10)
	job, _ = tracker.GetJob("job-1")
	if job.Progress != 2 || job.Total != 10 {
		t.Errorf("Expected progress 2/10, got %d/%d", job.Progress, job.Total)
	}

	uploaded := []domain.UploadedPin{{Src: "a", PublicURL: "https://cdn/a"}}
	tracker.CompleteJob("job-1", uploaded, nil)
	job, _ = tracker.GetJob("job-1")
	if job.Status != "complete" {
		t.Errorf("Expected complete status, got %s", job.Status)
	}
	if len(job.Uploaded) != 1 {
		t.Errorf("Expected uploaded pins on completion, got %d", len(job.Uploaded))
	}
	if job.Progress != job.Total {
		t.Errorf("Expected progress pinned to total on completion, got %d/%d", job.Progress, job.Total)
	}
}

func TestJobTrackerSubscribers(t *testing.T) {
	tracker := NewJobTracker()
	tracker.CreateJob("job-2", "user/board")

	ch := tracker.Subscribe("job-2")
	tracker.UpdateProgress("job-2", 1, 5)

	select {
	case update := <-ch:
		if update.Progress != 1 {
			t.Errorf("Expected progress update 1, got %d", update.Progress)
		}
	default:
		t.Error("Expected a buffered update for subscriber")
	}

	tracker.Unsubscribe("job-2", ch)
	if _, open := <-ch; open {
		t.Error("Expected channel closed after unsubscribe")
	}
}

func TestJobTrackerUnknownJob(t *testing.T) {
	tracker := NewJobTracker()
	if _, ok := tracker.GetJob("missing"); ok {
		t.Error("Expected missing job to be absent")
	}
	// Updates for unknown jobs are silently dropped.
	tracker.UpdateProgress("missing", 1, 1)
	tracker.CompleteJob("missing", nil, nil)
}
