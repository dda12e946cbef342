// Package config loads application configuration from the environment,
// optionally seeded from a .env file.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds every tunable for the server and the CLIs.
type Config struct {
	// HTTP server
	Port string

	// Storage
	DBPath string

	// Gemini. The API key itself is read by the genai client from
	// GOOGLE_API_KEY / GEMINI_API_KEY.
	GeminiModel string

	// Issuer site automation (web imports)
	IssuerLoginURL        string
	IssuerTransactionsURL string
	IssuerUsername        string
	IssuerPassword        string

	// Optional GCS archival of raw import payloads
	GCSBucket string

	// Notion export
	NotionToken      string
	NotionDatabaseID string

	// Import worker
	JobQueueSize int
}

// Load reads .env (when present) and the environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:   getEnv("PORT", "8080"),
		DBPath: getEnv("DB_PATH", "./data/epxe.db"),

		GeminiModel: getEnv("GEMINI_MODEL", "gemini-2.5-flash"),

		IssuerLoginURL:        getEnv("ISSUER_LOGIN_URL", ""),
		IssuerTransactionsURL: getEnv("ISSUER_TRANSACTIONS_URL", ""),
		IssuerUsername:        getEnv("ISSUER_USERNAME", ""),
		IssuerPassword:        getEnv("ISSUER_PASSWORD", ""),

		GCSBucket: getEnv("GCS_BUCKET", ""),

		NotionToken:      getEnv("NOTION_TOKEN", ""),
		NotionDatabaseID: getEnv("NOTION_DATABASE_ID", ""),

		JobQueueSize: getEnvInt("JOB_QUEUE_SIZE", 16),
	}
}

// Validate checks the configuration and returns one error naming every
// problem found.
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port %q: must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.DBPath == "" {
		problems = append(problems, "database path cannot be empty")
	} else if dir := filepath.Dir(c.DBPath); dir != "." && dir != "" {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				problems = append(problems, fmt.Sprintf("cannot create database directory %q: %v", dir, err))
			}
		}
	}

	for name, raw := range map[string]string{
		"ISSUER_LOGIN_URL":        c.IssuerLoginURL,
		"ISSUER_TRANSACTIONS_URL": c.IssuerTransactionsURL,
	} {
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			problems = append(problems, fmt.Sprintf("invalid %s %q: must be an http(s) URL", name, raw))
		}
	}

	if c.JobQueueSize < 1 {
		problems = append(problems, fmt.Sprintf("invalid job queue size %d: must be at least 1", c.JobQueueSize))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(problems, "; "))
	}
	return nil
}

// WebImportConfigured reports whether the issuer-site automation has
// everything it needs for a web import run.
func (c *Config) WebImportConfigured() bool {
	return c.IssuerLoginURL != "" && c.IssuerTransactionsURL != "" &&
		c.IssuerUsername != "" && c.IssuerPassword != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
