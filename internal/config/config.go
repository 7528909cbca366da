// Package config reads the render service configuration from the
// environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/famtree/pkg/connector"
	"github.com/matzehuels/famtree/pkg/errors"
)

type Config struct {
	HTTPAddr     string        // FAMTREE_HTTP_ADDR (default ":8080")
	RedisURL     string        // FAMTREE_REDIS_URL (optional, empty = file or no cache)
	CacheDir     string        // FAMTREE_CACHE_DIR (optional, used when RedisURL is empty)
	CacheTTL     time.Duration // FAMTREE_CACHE_TTL (default 24h)
	Preset       string        // FAMTREE_PRESET (default "default")
	AvatarBase   string        // FAMTREE_AVATAR_BASE (optional)
	LinkBase     string        // FAMTREE_LINK_BASE (optional, e.g. "/family/")
	MaxBodyBytes int64         // FAMTREE_MAX_BODY_BYTES (default 1 MiB)
}

func Load() (*Config, error) {
	c := &Config{
		HTTPAddr:   envOrDefault("FAMTREE_HTTP_ADDR", ":8080"),
		RedisURL:   os.Getenv("FAMTREE_REDIS_URL"),
		CacheDir:   os.Getenv("FAMTREE_CACHE_DIR"),
		Preset:     envOrDefault("FAMTREE_PRESET", connector.PresetDefault),
		AvatarBase: os.Getenv("FAMTREE_AVATAR_BASE"),
		LinkBase:   os.Getenv("FAMTREE_LINK_BASE"),
	}
	if !connector.IsPreset(c.Preset) {
		return nil, fmt.Errorf("FAMTREE_PRESET: unknown preset %q", c.Preset)
	}

	// Site-relative bases are joined as-is; anything else must be http(s).
	if c.AvatarBase != "" && !strings.HasPrefix(c.AvatarBase, "/") {
		if err := errors.ValidateURL(c.AvatarBase); err != nil {
			return nil, fmt.Errorf("FAMTREE_AVATAR_BASE: %w", err)
		}
	}

	ttl, err := time.ParseDuration(envOrDefault("FAMTREE_CACHE_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("FAMTREE_CACHE_TTL: %w", err)
	}
	if ttl < 0 {
		return nil, fmt.Errorf("FAMTREE_CACHE_TTL: must not be negative")
	}
	c.CacheTTL = ttl

	maxBody, err := strconv.ParseInt(envOrDefault("FAMTREE_MAX_BODY_BYTES", "1048576"), 10, 64)
	if err != nil || maxBody <= 0 {
		return nil, fmt.Errorf("FAMTREE_MAX_BODY_BYTES: want a positive integer")
	}
	c.MaxBodyBytes = maxBody

	return c, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
