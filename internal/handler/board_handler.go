package handler

import (
	"context"
	"regexp"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/josegonz115/flair-ai/internal/service"
)

var boardURLPattern = regexp.MustCompile(`pinterest\.com/([^/]+)/([^/?#]+)`)

// parseBoardURL extracts the username and board name from a Pinterest board
// URL.
func parseBoardURL(url string) (username, boardName string, ok bool) {
	m := boardURLPattern.FindStringSubmatch(url)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// BoardHandler handles board scraping endpoints.
type BoardHandler struct {
	boards  *service.BoardService
	tracker *JobTracker
}

// NewBoardHandler creates a new board handler.
func NewBoardHandler(boards *service.BoardService, tracker *JobTracker) *BoardHandler {
	return &BoardHandler{boards: boards, tracker: tracker}
}

// Register sets up board routes.
func (h *BoardHandler) Register(router fiber.Router) {
	router.Post("/scrape-board", h.ScrapeBoard)
}

type scrapeBoardBody struct {
	PinterestURL   string `json:"pinterest_url"`
	Username       string `json:"username"`
	BoardName      string `json:"board_name"`
	Quality        string `json:"quality"`
	DownloadImages bool   `json:"download_images"`
}

// ScrapeBoard returns a board's info and pins. With download_images set, it
// also starts a background job ingesting the pins into object storage and
// returns the job id for progress tracking.
func (h *BoardHandler) ScrapeBoard(c fiber.Ctx) error {
	var body scrapeBoardBody
	if err := c.Bind().JSON(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	username, boardName := body.Username, body.BoardName
	if body.PinterestURL != "" {
		var ok bool
		username, boardName, ok = parseBoardURL(body.PinterestURL)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid Pinterest board URL format"})
		}
	}
	if username == "" || boardName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Pinterest board URL is required"})
	}

	info, err := h.boards.BoardInfo(c.Context(), username, boardName)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "failed to access Pinterest board"})
	}

	pins, err := h.boards.ScrapePins(c.Context(), username, boardName, body.Quality)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}

	if !body.DownloadImages {
		return c.JSON(fiber.Map{
			"board_info": info,
			"pins":       pins,
		})
	}

	jobID := uuid.New().String()
	board := username + "/" + boardName
	h.tracker.CreateJob(jobID, board)

	quality := body.Quality
	go func() {
		uploaded, err := h.boards.IngestBoard(context.Background(), username, boardName, quality,
			func(done, total int) {
				h.tracker.UpdateProgress(jobID, done, total)
			})
		h.tracker.CompleteJob(jobID, uploaded, err)
	}()

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"board_info": info,
		"pins_count": len(pins),
		"job_id":     jobID,
	})
}
