package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Server is the API server configuration, read from the environment.
type Server struct {
	Port           string
	Production     bool
	DatabaseURL    string // empty = in-memory store
	ShareLinkTTL   time.Duration
	AllowedOrigins []string
	ScenarioDir    string // bundled example scenarios
	Verbose        bool
}

const defaultShareLinkTTL = 7 * 24 * time.Hour

// LoadServer reads the server configuration. Files in envFiles are loaded
// first when they exist; variables already set in the environment win.
func LoadServer(envFiles ...string) (*Server, error) {
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg := &Server{
		Port:         getenv("API_PORT", "8080"),
		Production:   os.Getenv("API_ENV") == "production",
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		ShareLinkTTL: defaultShareLinkTTL,
		ScenarioDir:  getenv("SCENARIO_DIR", "./examples/scenarios"),
		Verbose:      os.Getenv("LOG_VERBOSE") == "true",
	}

	if ttl := os.Getenv("SHARE_LINK_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			return nil, fmt.Errorf("invalid SHARE_LINK_TTL %q: %w", ttl, err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("SHARE_LINK_TTL must be positive, got %s", d)
		}
		cfg.ShareLinkTTL = d
	}

	cfg.AllowedOrigins = splitList(getenv("CORS_ALLOWED_ORIGINS", "*"))
	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
