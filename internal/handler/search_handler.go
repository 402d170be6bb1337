package handler

import (
	"encoding/base64"
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/josegonz115/flair-ai/internal/adapter/store"
	"github.com/josegonz115/flair-ai/internal/port"
	"github.com/josegonz115/flair-ai/internal/service"
)

// SearchHandler handles similarity search endpoints.
type SearchHandler struct {
	search         *service.SearchService
	boards         *service.BoardService
	store          *store.PostgresStore
	maxQueryImages int
}

// NewSearchHandler creates a new search handler. store may be nil.
func NewSearchHandler(search *service.SearchService, boards *service.BoardService, st *store.PostgresStore, maxQueryImages int) *SearchHandler {
	return &SearchHandler{
		search:         search,
		boards:         boards,
		store:          st,
		maxQueryImages: maxQueryImages,
	}
}

// Register sets up search routes.
func (h *SearchHandler) Register(router fiber.Router) {
	router.Post("/find-similar", h.FindSimilar)
	router.Post("/fashion-finder", h.FashionFinder)
	router.Get("/searches", h.ListSearches)
	router.Get("/audit/logs", h.ListAuditLogs)
}

type searchRequestBody struct {
	Images           []string `json:"images"`
	PinterestURL     string   `json:"pinterest_url"`
	Username         string   `json:"username"`
	BoardName        string   `json:"board_name"`
	UseSupabase      bool     `json:"use_supabase"`
	LibraryDirectory string   `json:"library_directory"`
	K                int      `json:"k"`
	NBest            int      `json:"n_best"`
	Fusion           string   `json:"fusion"`
	PublishMatches   bool     `json:"publish_matches"`
}

// FindSimilar runs a similarity search of the supplied query images against a
// library: a local directory, or a previously ingested board in the storage
// bucket.
func (h *SearchHandler) FindSimilar(c fiber.Ctx) error {
	var body searchRequestBody
	if err := c.Bind().JSON(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if len(body.Images) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "no images provided"})
	}
	if len(body.Images) > h.maxQueryImages {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "maximum of " + strconv.Itoa(h.maxQueryImages) + " images allowed",
		})
	}

	queryImages, err := decodeBase64Images(body.Images)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	req := service.SearchRequest{
		QueryImages: queryImages,
		LibraryDir:  body.LibraryDirectory,
		Username:    body.Username,
		BoardName:   body.BoardName,
		UseBucket:   body.UseSupabase,
		TopK:        body.K,
		TopN:        body.NBest,
		Fusion:      body.Fusion,
		Publish:     body.PublishMatches,
	}

	// A board URL shorthand implies the bucket library for that board.
	if body.PinterestURL != "" {
		username, boardName, ok := parseBoardURL(body.PinterestURL)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid Pinterest board URL format"})
		}
		req.Username = username
		req.BoardName = boardName
		req.UseBucket = true
	}

	result, err := h.search.FindSimilar(c.Context(), req)
	if err != nil {
		return c.Status(searchErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(result)
}

type fashionFinderBody struct {
	PinterestURL   string   `json:"pinterest_url"`
	Images         []string `json:"images"`
	Quality        string   `json:"quality"`
	K              int      `json:"k"`
	NBest          int      `json:"n_best"`
	PublishMatches bool     `json:"publish_matches"`
}

// FashionFinder combines board scraping and similarity search: it ingests the
// board's pins into the storage bucket, then searches the supplied query
// images against them. With no query images it just returns the scrape.
func (h *SearchHandler) FashionFinder(c fiber.Ctx) error {
	var body fashionFinderBody
	if err := c.Bind().JSON(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if body.PinterestURL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Pinterest board URL is required"})
	}
	if len(body.Images) > h.maxQueryImages {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "maximum of " + strconv.Itoa(h.maxQueryImages) + " images allowed",
		})
	}

	username, boardName, ok := parseBoardURL(body.PinterestURL)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid Pinterest board URL format"})
	}

	info, err := h.boards.BoardInfo(c.Context(), username, boardName)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "failed to access Pinterest board"})
	}

	uploaded, err := h.boards.IngestBoard(c.Context(), username, boardName, body.Quality, nil)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}

	if len(body.Images) == 0 {
		return c.JSON(fiber.Map{
			"board_info":     info,
			"scraped_images": uploaded,
			"similar_images": []any{},
		})
	}

	queryImages, err := decodeBase64Images(body.Images)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	result, err := h.search.FindSimilar(c.Context(), service.SearchRequest{
		QueryImages: queryImages,
		Username:    username,
		BoardName:   boardName,
		UseBucket:   true,
		TopK:        body.K,
		TopN:        body.NBest,
		Publish:     body.PublishMatches,
	})
	if err != nil {
		return c.Status(searchErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"board_info":            info,
		"scraped_images_count":  len(uploaded),
		"uploaded_images_count": len(queryImages),
		"similarity_results":    result.PerQuery,
		"best_overall_matches":  result.BestOverall,
	})
}

// ListSearches returns recent search history.
func (h *SearchHandler) ListSearches(c fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "50"))

	records, err := h.search.ListSearches(c.Context(), limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"searches": records,
		"count":    len(records),
	})
}

// ListAuditLogs returns recent audit logs with an optional action filter.
func (h *SearchHandler) ListAuditLogs(c fiber.Ctx) error {
	if h.store == nil {
		return c.JSON(fiber.Map{"logs": []any{}, "count": 0})
	}

	limit, _ := strconv.Atoi(c.Query("limit", "100"))
	logs, err := h.store.ListAuditLogs(c.Context(), limit, c.Query("action", ""))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"logs":  logs,
		"count": len(logs),
	})
}

// decodeBase64Images decodes each query image, tolerating a data-URL prefix.
func decodeBase64Images(images []string) ([][]byte, error) {
	decoded := make([][]byte, len(images))
	for i, img := range images {
		if idx := strings.Index(img, "base64,"); idx >= 0 {
			img = img[idx+len("base64,"):]
		}
		data, err := base64.StdEncoding.DecodeString(img)
		if err != nil {
			return nil, errors.New("image " + strconv.Itoa(i) + " is not valid base64")
		}
		decoded[i] = data
	}
	return decoded, nil
}

// searchErrorStatus maps search failures to HTTP statuses.
func searchErrorStatus(err error) int {
	switch {
	case errors.Is(err, port.ErrEmptyQuerySet),
		errors.Is(err, port.ErrExtraction),
		errors.Is(err, port.ErrFusionNotFound):
		return fiber.StatusBadRequest
	case errors.Is(err, port.ErrEmptyLibrary),
		errors.Is(err, port.ErrCollectionUnavailable):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}
