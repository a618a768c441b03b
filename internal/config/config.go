package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	// Presentations served under /presentations/
	PresentationsDir string

	// Stylesheets and scripts served under /assets/
	AssetsDir string

	// Base URL the loader fetches documents from. Defaults to this server.
	BaseURL string

	// Loader timing
	DebounceDelay time.Duration
	FetchTimeout  time.Duration

	// Reload the selected presentation when its file changes
	Watch bool

	// Allowed origins for the selector front-end
	CORSOrigins []string
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Port: envOr("PORT", "8090"),

		PresentationsDir: envOr("SLIDEDECK_PRESENTATIONS_DIR", "presentations"),
		AssetsDir:        envOr("SLIDEDECK_ASSETS_DIR", "assets"),
		BaseURL:          os.Getenv("SLIDEDECK_BASE_URL"),

		DebounceDelay: envDuration("SLIDEDECK_DEBOUNCE", 800*time.Millisecond),
		FetchTimeout:  envDuration("SLIDEDECK_FETCH_TIMEOUT", 30*time.Second),

		Watch: envBool("SLIDEDECK_WATCH", true),

		CORSOrigins: envList("SLIDEDECK_CORS_ORIGINS", []string{"*"}),
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:" + cfg.Port
	}
	if cfg.DebounceDelay <= 0 {
		cfg.DebounceDelay = 800 * time.Millisecond
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 30 * time.Second
	}

	return cfg
}

func (c Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("PORT must be numeric, got %q", c.Port)
	}
	info, err := os.Stat(c.PresentationsDir)
	if err != nil {
		return fmt.Errorf("SLIDEDECK_PRESENTATIONS_DIR: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("SLIDEDECK_PRESENTATIONS_DIR %s is not a directory", c.PresentationsDir)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
