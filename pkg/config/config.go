package config

import (
	"os"
	"strconv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Server
	Port    string
	AppName string

	// Database (optional — empty disables history/audit persistence)
	DatabaseURL string

	// Embedding server
	EmbedURL       string
	EmbedModel     string
	EmbedToken     string // Bearer token (empty = local)
	EmbedDimension int

	// Supabase Storage
	SupabaseURL    string
	SupabaseKey    string
	SupabaseBucket string

	// Pinterest
	PinterestBaseURL string

	// Search
	TopK           int
	TopNBest       int
	MaxQueryImages int
	IndexWorkers   int

	// Frontend
	FrontendURL string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Port:    envOrDefault("PORT", "5000"),
		AppName: envOrDefault("APP_NAME", "Flair AI"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		EmbedURL:       envOrDefault("EMBED_URL", "http://localhost:11434"),
		EmbedModel:     envOrDefault("EMBED_MODEL", "resnet50-pool"),
		EmbedToken:     os.Getenv("EMBED_TOKEN"),
		EmbedDimension: envOrDefaultInt("EMBEDDING_DIMENSION", 2048),

		SupabaseURL:    os.Getenv("SUPABASE_URL"),
		SupabaseKey:    os.Getenv("SUPABASE_KEY"),
		SupabaseBucket: envOrDefault("SUPABASE_BUCKET", "images"),

		PinterestBaseURL: envOrDefault("PINTEREST_BASE_URL", "https://pinterest.com/"),

		TopK:           envOrDefaultInt("TOP_K", 5),
		TopNBest:       envOrDefaultInt("TOP_N_BEST", 3),
		MaxQueryImages: envOrDefaultInt("MAX_QUERY_IMAGES", 5),
		IndexWorkers:   envOrDefaultInt("INDEX_WORKERS", 8),

		FrontendURL: envOrDefault("FRONTEND_URL", "http://localhost:3000"),
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrDefaultInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return fallback
}
