package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Server:   ServerConfig{Port: 8080},
		Database: DatabaseConfig{Driver: "sqlite", DSN: "recipes.db"},
		Edamam:   EdamamConfig{AppID: "id", AppKey: "key"},
		Cache: CacheConfig{
			Driver:          "memory",
			MaxSize:         10,
			TTL:             time.Hour,
			CleanupInterval: time.Minute,
		},
		Scraper:   ScraperConfig{AllowedSources: []string{"allrecipes"}},
		RateLimit: RateLimitConfig{Enabled: true, Requests: 10, Window: time.Minute},
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing port", func(c *Config) { c.Server.Port = 0 }, "server port"},
		{"unknown driver", func(c *Config) { c.Database.Driver = "mysql" }, "unsupported database driver"},
		{"missing dsn", func(c *Config) { c.Database.DSN = "" }, "database dsn"},
		{"missing edamam key", func(c *Config) { c.Edamam.AppKey = "" }, "edamam"},
		{"openrouter without key", func(c *Config) { c.OpenRouter.Enabled = true }, "openrouter api key"},
		{"redis without address", func(c *Config) { c.Cache.Driver = "redis"; c.Cache.RedisAddr = "" }, "redis address"},
		{"redis with address", func(c *Config) { c.Cache.Driver = "redis"; c.Cache.RedisAddr = "localhost:6379" }, ""},
		{"unknown cache driver", func(c *Config) { c.Cache.Driver = "memcached" }, "unsupported cache driver"},
		{"zero cache size", func(c *Config) { c.Cache.MaxSize = 0 }, "cache max size"},
		{"zero ttl", func(c *Config) { c.Cache.TTL = 0 }, "cache ttl"},
		{"no sources", func(c *Config) { c.Scraper.AllowedSources = nil }, "scraper source"},
		{"bad rate limit", func(c *Config) { c.RateLimit.Requests = 0 }, "rate limit"},
		{"rate limit disabled", func(c *Config) { c.RateLimit = RateLimitConfig{} }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := validateConfig(cfg)
			if tt.errMsg == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.errMsg) {
				t.Fatalf("error = %v, want containing %q", err, tt.errMsg)
			}
		})
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("EDAMAM_APP_ID", "app-id")
	t.Setenv("EDAMAM_APP_KEY", "app-key-123456")
	t.Setenv("DATABASE_DRIVER", "postgres")
	t.Setenv("DATABASE_DSN", "postgres://localhost/recipes")
	t.Setenv("RATE_LIMIT_REQUESTS", "5")
	t.Setenv("DEDUP_WINDOW", "2s")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Edamam.AppID != "app-id" || cfg.Edamam.AppKey != "app-key-123456" {
		t.Fatalf("edamam = %+v", cfg.Edamam)
	}
	if cfg.Database.Driver != "postgres" || cfg.Database.DSN != "postgres://localhost/recipes" {
		t.Fatalf("database = %+v", cfg.Database)
	}
	if cfg.RateLimit.Requests != 5 || cfg.DedupWindow != 2*time.Second {
		t.Fatalf("rate limit = %+v, dedup = %v", cfg.RateLimit, cfg.DedupWindow)
	}
	if cfg.Server.Port != 8080 || cfg.Cache.Driver != "memory" || cfg.Cache.TTL != time.Hour {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
	if len(cfg.Scraper.AllowedSources) != 1 || cfg.Scraper.AllowedSources[0] != "allrecipes" {
		t.Fatalf("allowed sources = %v", cfg.Scraper.AllowedSources)
	}
}

func TestLoadConfigMissingCredentials(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("EDAMAM_APP_ID", "")
	t.Setenv("EDAMAM_APP_KEY", "")
	t.Setenv("EDAMAM_API_KEY", "")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error without edamam credentials")
	}
}

func TestMaskAPIKey(t *testing.T) {
	if got := MaskAPIKey("short"); got != "****" {
		t.Fatalf("MaskAPIKey(short) = %q", got)
	}
	if got := MaskAPIKey("abcdefghijkl"); got != "abcd...ijkl" {
		t.Fatalf("MaskAPIKey = %q", got)
	}
}

// chdir changes the working directory for the duration of the test,
// restoring it on cleanup (equivalent of testing.T.Chdir on Go < 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}
