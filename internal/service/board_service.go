package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/josegonz115/flair-ai/internal/domain"
	"github.com/josegonz115/flair-ai/internal/port"
)

// DefaultPinQuality is the image resolution requested from the board page.
// 736x keeps enough detail for embeddings without holding full-size files.
const DefaultPinQuality = "736x"

// BoardService scrapes reference boards and ingests their pins into object
// storage, where they become a searchable library prefix.
type BoardService struct {
	scraper port.BoardScraper
	objects port.ObjectStore
}

// NewBoardService creates a board service. objects may be nil, in which case
// ingestion is unavailable.
func NewBoardService(scraper port.BoardScraper, objects port.ObjectStore) *BoardService {
	return &BoardService{scraper: scraper, objects: objects}
}

// BoardInfo returns the board title and pin count.
func (s *BoardService) BoardInfo(ctx context.Context, username, boardName string) (*domain.BoardInfo, error) {
	return s.scraper.GetBoardInfo(ctx, username, boardName)
}

// ScrapePins returns the board's image references at the given quality
// (empty means DefaultPinQuality).
func (s *BoardService) ScrapePins(ctx context.Context, username, boardName, quality string) ([]domain.Pin, error) {
	if quality == "" {
		quality = DefaultPinQuality
	}
	return s.scraper.ScrapePins(ctx, username, boardName, quality)
}

// IngestBoard downloads every scraped pin and uploads it to object storage
// under {username}/{board}/pin_{i}.jpg. A pin that fails to download or
// upload is logged and skipped; the rest of the batch continues. progress,
// if non-nil, is called after each pin with (done, total).
func (s *BoardService) IngestBoard(ctx context.Context, username, boardName, quality string, progress func(done, total int)) ([]domain.UploadedPin, error) {
	if s.objects == nil {
		return nil, fmt.Errorf("no object store configured")
	}

	pins, err := s.ScrapePins(ctx, username, boardName, quality)
	if err != nil {
		return nil, fmt.Errorf("scrape pins: %w", err)
	}
	if len(pins) == 0 {
		return nil, fmt.Errorf("no pins found on board %s/%s", username, boardName)
	}

	var uploaded []domain.UploadedPin
	for i, pin := range pins {
		if progress != nil {
			progress(i, len(pins))
		}

		data, err := s.scraper.DownloadPin(ctx, pin.Src)
		if err != nil {
			slog.Error("pin download failed", "src", pin.Src, "error", err)
			continue
		}

		dest := fmt.Sprintf("%s/%s/pin_%d.jpg", username, boardName, i)
		url, err := s.objects.Upload(ctx, dest, data, "image/jpeg")
		if err != nil {
			slog.Error("pin upload failed", "src", pin.Src, "error", err)
			continue
		}

		uploaded = append(uploaded, domain.UploadedPin{Src: pin.Src, PublicURL: url})
	}
	if progress != nil {
		progress(len(pins), len(pins))
	}

	slog.Info("board ingested", "board", username+"/"+boardName, "pins", len(pins), "uploaded", len(uploaded))
	return uploaded, nil
}
