package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/acgh213/socialkit/internal/sanitize"
)

var ErrInvalidConfiguration = errors.New("invalid configuration")

type Config struct {
	Env               string
	Port              string
	SiteURL           string
	Languages         []string
	DoFollow          bool
	HeaderAnchors     bool
	ExtraStrippedTags []string
	PreviewMaxBytes   int64
	PreviewTimeout    time.Duration
	PreviewRateLimit  int
	CSRFEnabled       bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:               getEnv("APP_ENV", "development"),
		Port:              getEnv("PORT", "8080"),
		SiteURL:           strings.TrimRight(getEnv("SITE_URL", ""), "/"),
		Languages:         splitList(getEnv("LANGUAGES", "")),
		ExtraStrippedTags: splitList(getEnv("MARKDOWN_STRIP_TAGS", "")),
	}

	var err error
	if cfg.DoFollow, err = getBool("MARKDOWN_DOFOLLOW", false); err != nil {
		return nil, err
	}
	if cfg.HeaderAnchors, err = getBool("MARKDOWN_HEADER_ANCHORS", false); err != nil {
		return nil, err
	}
	if cfg.CSRFEnabled, err = getBool("CSRF_ENABLED", true); err != nil {
		return nil, err
	}

	cfg.PreviewMaxBytes, err = strconv.ParseInt(getEnv("PREVIEW_MAX_BYTES", "262144"), 10, 64)
	if err != nil || cfg.PreviewMaxBytes <= 0 {
		return nil, fmt.Errorf("%w: PREVIEW_MAX_BYTES must be a positive integer", ErrInvalidConfiguration)
	}

	cfg.PreviewTimeout, err = time.ParseDuration(getEnv("PREVIEW_TIMEOUT", "5s"))
	if err != nil || cfg.PreviewTimeout <= 0 {
		return nil, fmt.Errorf("%w: PREVIEW_TIMEOUT must be a positive duration", ErrInvalidConfiguration)
	}

	cfg.PreviewRateLimit, err = strconv.Atoi(getEnv("PREVIEW_RATE_LIMIT", "60"))
	if err != nil || cfg.PreviewRateLimit < 0 {
		return nil, fmt.Errorf("%w: PREVIEW_RATE_LIMIT must be a non-negative integer", ErrInvalidConfiguration)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks values that Load cannot reject while parsing.
func (c *Config) Validate() error {
	if c.SiteURL != "" {
		u, err := url.Parse(c.SiteURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%w: SITE_URL %q must be an absolute URL", ErrInvalidConfiguration, c.SiteURL)
		}
	}
	return nil
}

// SanitizeOptions returns the markdown pipeline options for this site.
func (c *Config) SanitizeOptions() sanitize.Options {
	return sanitize.Options{
		ExtraStrippedTags: c.ExtraStrippedTags,
		DoFollow:          c.DoFollow,
		AddHeaderAnchors:  c.HeaderAnchors,
		SiteBaseURL:       c.SiteURL,
		LocaleCodes:       c.Languages,
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getBool(key string, fallback bool) (bool, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%w: %s must be a boolean", ErrInvalidConfiguration, key)
	}
	return b, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
