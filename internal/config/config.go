package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"ytnote/internal/retry"
	"ytnote/internal/storage"
	"ytnote/internal/template"
)

// Config holds all configuration for the application.
type Config struct {
	VaultPath          string
	YouTubeAPIKey      string
	YouTubeAPIEndpoint string
	DBPath             string
	APIPort            string
	LogLevel           slog.Level
	LogFormat          string
	NotesFolder        string
	CreatePaths        bool
	RequestTimeout     time.Duration
	MaxRetries         int
	InitialBackoff     time.Duration
	MaxBackoff         time.Duration
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates required fields.
// If a .env file exists in the current directory or one of its parents, it will be loaded automatically.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	loadDotEnv()

	cfg := &Config{
		VaultPath:          getEnv("VAULT_PATH", ""),
		YouTubeAPIKey:      getEnv("YOUTUBE_API_KEY", ""),
		YouTubeAPIEndpoint: getEnv("YOUTUBE_API_ENDPOINT", ""),
		DBPath:             getEnv("DB_PATH", "./data/ytnote.db"),
		APIPort:            getEnv("API_PORT", "9000"),
		LogFormat:          strings.ToLower(getEnv("LOG_FORMAT", "text")),
		NotesFolder:        getEnv("NOTES_FOLDER", "/"),
	}

	if cfg.VaultPath == "" {
		return nil, fmt.Errorf("VAULT_PATH is required")
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error: %w", err)
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}

	var err error
	if cfg.CreatePaths, err = strconv.ParseBool(getEnv("CREATE_PATHS", "true")); err != nil {
		return nil, fmt.Errorf("CREATE_PATHS must be a boolean: %w", err)
	}

	defaults := retry.DefaultConfig()
	if cfg.MaxRetries, err = strconv.Atoi(getEnv("MAX_RETRIES", strconv.Itoa(defaults.MaxRetries))); err != nil {
		return nil, fmt.Errorf("MAX_RETRIES must be a valid integer: %w", err)
	}
	if cfg.MaxRetries < 0 {
		return nil, fmt.Errorf("MAX_RETRIES must not be negative")
	}

	durations := []struct {
		key  string
		def  time.Duration
		dest *time.Duration
	}{
		{"REQUEST_TIMEOUT", 60 * time.Second, &cfg.RequestTimeout},
		{"INITIAL_BACKOFF", defaults.InitialBackoff, &cfg.InitialBackoff},
		{"MAX_BACKOFF", defaults.MaxBackoff, &cfg.MaxBackoff},
	}
	for _, d := range durations {
		v, err := time.ParseDuration(getEnv(d.key, d.def.String()))
		if err != nil {
			return nil, fmt.Errorf("%s must be a duration such as 30s: %w", d.key, err)
		}
		if v < 0 {
			return nil, fmt.Errorf("%s must not be negative", d.key)
		}
		*d.dest = v
	}
	if cfg.MaxBackoff < cfg.InitialBackoff {
		return nil, fmt.Errorf("MAX_BACKOFF (%s) must not be below INITIAL_BACKOFF (%s)", cfg.MaxBackoff, cfg.InitialBackoff)
	}

	// Create the database directory if it doesn't exist
	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// RetryConfig returns the retry policy for YouTube API calls.
func (c *Config) RetryConfig() retry.Config {
	rc := retry.DefaultConfig()
	rc.MaxRetries = c.MaxRetries
	rc.InitialBackoff = c.InitialBackoff
	rc.MaxBackoff = c.MaxBackoff
	return rc
}

// DefaultSettings returns the settings used until the user saves their own.
func (c *Config) DefaultSettings() storage.Settings {
	return storage.Settings{
		GoogleCloudAPIKey: c.YouTubeAPIKey,
		Folder:            c.NotesFolder,
		ChapterFormat:     template.DefaultChapterFormat,
		HashtagFormat:     template.DefaultHashtagFormat,
		Template:          template.DefaultTemplate,
		CreatePaths:       c.CreatePaths,
	}
}

// loadDotEnv loads the first .env file found in the working directory or up to
// five of its parents. Missing files are ignored.
func loadDotEnv() {
	wd, err := os.Getwd()
	if err != nil {
		return
	}

	dir := wd
	for i := 0; i < 6; i++ {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
