// Package scraper fetches pin image references from public Pinterest board
// pages. It is deliberately thin: no pagination, no API auth, just the
// server-rendered page.
package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/josegonz115/flair-ai/internal/domain"
)

var (
	sizeSegment = regexp.MustCompile(`/\d+x/`)
	nonDigits   = regexp.MustCompile(`\D`)
)

// PinterestScraper scrapes public board pages for image references.
type PinterestScraper struct {
	baseURL    string
	httpClient *http.Client
}

// NewPinterestScraper creates a scraper. baseURL defaults to the public
// Pinterest site when empty.
func NewPinterestScraper(baseURL string) *PinterestScraper {
	if baseURL == "" {
		baseURL = "https://pinterest.com/"
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &PinterestScraper{
		baseURL:    baseURL,
		httpClient: &http.Client{},
	}
}

// GetBoardInfo returns the board title and pin count from the board page
// header.
func (s *PinterestScraper) GetBoardInfo(ctx context.Context, username, boardName string) (*domain.BoardInfo, error) {
	doc, err := s.fetchBoard(ctx, username, boardName)
	if err != nil {
		return nil, fmt.Errorf("fetch board info: %w", err)
	}

	title := "Unknown Board"
	if h1 := doc.Find("h1").First(); h1.Length() > 0 {
		title = strings.TrimSpace(h1.Text())
	}

	count := 0
	countText := doc.Find(`header div[data-test-id="board-count-info"]`).First().Text()
	if countText != "" {
		count, _ = strconv.Atoi(nonDigits.ReplaceAllString(countText, ""))
	}

	return &domain.BoardInfo{
		Username:  username,
		BoardName: boardName,
		Title:     title,
		TotalPins: count,
	}, nil
}

// ScrapePins returns every image reference on the board page, rewritten to
// the requested quality ("236x", "564x", "736x", "1200x", or "original").
func (s *PinterestScraper) ScrapePins(ctx context.Context, username, boardName, quality string) ([]domain.Pin, error) {
	doc, err := s.fetchBoard(ctx, username, boardName)
	if err != nil {
		return nil, fmt.Errorf("scrape pins: %w", err)
	}

	var pins []domain.Pin
	doc.Find("img").Each(func(_ int, img *goquery.Selection) {
		src, ok := img.Attr("src")
		if !ok || src == "" {
			return
		}
		if quality == "original" {
			src = sizeSegment.ReplaceAllString(src, "/")
		} else {
			src = sizeSegment.ReplaceAllString(src, "/"+quality+"/")
		}
		alt, _ := img.Attr("alt")
		pins = append(pins, domain.Pin{Src: src, Alt: alt})
	})

	return pins, nil
}

// DownloadPin fetches one pin's image bytes.
func (s *PinterestScraper) DownloadPin(ctx context.Context, src string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("create pin request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download pin: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download pin: status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

func (s *PinterestScraper) fetchBoard(ctx context.Context, username, boardName string) (*goquery.Document, error) {
	url := s.baseURL + username + "/" + boardName
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("board page returned status %d", resp.StatusCode)
	}

	return goquery.NewDocumentFromReader(resp.Body)
}
