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
)

// Config holds all configuration for the application.
type Config struct {
	APIPort   string
	DBPath    string
	LogLevel  slog.Level
	LogFormat string

	JWTSecret string
	JWTTTL    time.Duration

	LLMBaseURL   string
	LLMModelName string
	LLMAPIKey    string

	// ChatMaxCandidates caps how many ranked documents survive the relevance filter.
	ChatMaxCandidates int
	// ChatContextDocs is the number of documents serialized into the answer prompt.
	ChatContextDocs int
	// ChatMaxLinks is the number of location references returned for file requests.
	ChatMaxLinks int
	// ChatMaxQuestionRunes rejects longer chat questions before ranking.
	ChatMaxQuestionRunes int

	FetchTimeout  time.Duration
	FetchMaxBytes int64

	TelegramBotToken string
	TelegramAPIURL   string
	RedisURL         string
	SessionTTL       time.Duration
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates required fields.
// If a .env file exists in the current directory or a parent directory, it is loaded first.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	_ = godotenv.Load()

	// Walk up to find a .env next to the project root
	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ {
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	cfg := &Config{
		APIPort:          getEnv("API_PORT", "3000"),
		DBPath:           getEnv("DB_PATH", "./data/filestation.db"),
		LogFormat:        strings.ToLower(getEnv("LOG_FORMAT", "text")),
		JWTSecret:        getEnv("JWT_SECRET", ""),
		LLMBaseURL:       getEnv("LLM_BASE_URL", "http://localhost:8080"),
		LLMModelName:     getEnv("LLM_MODEL", "Llama-3.1-8B-Instruct"),
		LLMAPIKey:        getEnv("LLM_API_KEY", "dummy-key"),
		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramAPIURL:   getEnv("TELEGRAM_API_URL", "https://api.telegram.org"),
		RedisURL:         getEnv("REDIS_URL", ""),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	level, err := parseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	if cfg.ChatMaxCandidates, err = getPositiveInt("CHAT_MAX_CANDIDATES", 10); err != nil {
		return nil, err
	}
	if cfg.ChatContextDocs, err = getPositiveInt("CHAT_CONTEXT_DOCS", 5); err != nil {
		return nil, err
	}
	if cfg.ChatMaxLinks, err = getPositiveInt("CHAT_MAX_LINKS", 3); err != nil {
		return nil, err
	}
	if cfg.ChatMaxQuestionRunes, err = getPositiveInt("CHAT_MAX_QUESTION_RUNES", 2000); err != nil {
		return nil, err
	}
	maxBytes, err := getPositiveInt("FETCH_MAX_BYTES", 10<<20)
	if err != nil {
		return nil, err
	}
	cfg.FetchMaxBytes = int64(maxBytes)

	if cfg.JWTTTL, err = getTTL("JWT_TTL", 7*24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.FetchTimeout, err = getDuration("FETCH_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.SessionTTL, err = getTTL("SESSION_TTL", 30*24*time.Hour); err != nil {
		return nil, err
	}

	// Create the data directory for the SQLite file
	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getPositiveInt(key string, defaultValue int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	if value <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", key)
	}
	return value, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid duration: %w", key, err)
	}
	if value <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", key)
	}
	return value, nil
}

// getTTL is getDuration that also accepts 0, meaning no expiry.
func getTTL(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid duration: %w", key, err)
	}
	if value < 0 {
		return 0, fmt.Errorf("%s must not be negative", key)
	}
	return value, nil
}

func parseLevel(raw string) (slog.Level, error) {
	switch strings.ToLower(raw) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error (got %q)", raw)
	}
}
