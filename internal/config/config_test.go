package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"FAMTREE_HTTP_ADDR", "FAMTREE_REDIS_URL", "FAMTREE_CACHE_DIR", "FAMTREE_CACHE_TTL",
		"FAMTREE_PRESET", "FAMTREE_AVATAR_BASE", "FAMTREE_LINK_BASE", "FAMTREE_MAX_BODY_BYTES"} {
		t.Setenv(k, "")
	}

	c, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if c.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q", c.HTTPAddr)
	}
	if c.CacheTTL != 24*time.Hour {
		t.Errorf("CacheTTL = %v", c.CacheTTL)
	}
	if c.Preset != "default" {
		t.Errorf("Preset = %q", c.Preset)
	}
	if c.MaxBodyBytes != 1<<20 {
		t.Errorf("MaxBodyBytes = %d", c.MaxBodyBytes)
	}
	if c.RedisURL != "" || c.CacheDir != "" {
		t.Errorf("unexpected cache settings: %+v", c)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("FAMTREE_HTTP_ADDR", "127.0.0.1:9000")
	t.Setenv("FAMTREE_REDIS_URL", "redis://localhost:6379/2")
	t.Setenv("FAMTREE_CACHE_TTL", "90m")
	t.Setenv("FAMTREE_PRESET", "compact")
	t.Setenv("FAMTREE_AVATAR_BASE", "https://cdn.example.com/avatars")
	t.Setenv("FAMTREE_MAX_BODY_BYTES", "2048")

	c, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if c.HTTPAddr != "127.0.0.1:9000" || c.RedisURL != "redis://localhost:6379/2" {
		t.Errorf("addr/redis = %q %q", c.HTTPAddr, c.RedisURL)
	}
	if c.CacheTTL != 90*time.Minute || c.Preset != "compact" || c.MaxBodyBytes != 2048 {
		t.Errorf("config = %+v", c)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"FAMTREE_PRESET", "neon"},
		{"FAMTREE_CACHE_TTL", "soon"},
		{"FAMTREE_CACHE_TTL", "-1h"},
		{"FAMTREE_MAX_BODY_BYTES", "0"},
		{"FAMTREE_MAX_BODY_BYTES", "lots"},
		{"FAMTREE_AVATAR_BASE", "ftp://cdn.example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("Load() accepted %s=%q", tt.key, tt.value)
			}
		})
	}
}

func TestLoadRelativeAvatarBase(t *testing.T) {
	t.Setenv("FAMTREE_PRESET", "")
	t.Setenv("FAMTREE_AVATAR_BASE", "/static/avatars/")
	c, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if c.AvatarBase != "/static/avatars/" {
		t.Errorf("AvatarBase = %q", c.AvatarBase)
	}
}
