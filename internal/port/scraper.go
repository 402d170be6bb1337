package port

import (
	"context"

	"github.com/josegonz115/flair-ai/internal/domain"
)

// BoardScraper abstracts the third-party board page being scraped for
// reference images.
type BoardScraper interface {
	// GetBoardInfo returns the board title and pin count.
	GetBoardInfo(ctx context.Context, username, boardName string) (*domain.BoardInfo, error)

	// ScrapePins returns every image reference on the board page at the
	// given quality.
	ScrapePins(ctx context.Context, username, boardName, quality string) ([]domain.Pin, error)

	// DownloadPin fetches one pin's image bytes.
	DownloadPin(ctx context.Context, src string) ([]byte, error)
}
