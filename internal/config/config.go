// Package config loads runtime settings from the environment and hands
// them to the rest of the service as an explicit struct. Nothing else in
// the codebase reads environment variables directly.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Addr        string
	DatabaseDSN string

	Auth     AuthConfig
	Upload   UploadConfig
	Classify ClassifyConfig
	Rate     RateConfig
}

// AuthConfig contains token-signing settings.
type AuthConfig struct {
	Secret   string        // HS256 signing secret
	TokenTTL time.Duration // bearer token lifetime
}

// UploadConfig contains image upload and blob storage settings.
type UploadConfig struct {
	Backend  string // "disk" or "s3"
	Dir      string // disk backend: directory for uploaded images
	MaxBytes int64  // per-file upload cap

	S3Bucket       string
	S3Region       string
	S3AccessKey    string
	S3SecretKey    string
	S3BaseEndpoint string // MinIO-compatible endpoint override
}

// ClassifyConfig contains model server settings.
type ClassifyConfig struct {
	ModelServerURL string // empty means the static fallback classifier
	Labels         []string
}

// RateConfig contains per-IP rate limiting settings.
type RateConfig struct {
	Burst  int
	PerSec int
}

// defaultLabels is the ordered output layer of the bundled classifier.
var defaultLabels = []string{
	"Acne",
	"Eczema",
	"Melanoma",
	"Psoriasis",
	"Rosacea",
	"Vitiligo",
	"Healthy Skin",
}

// Load reads configuration from environment variables with sensible
// defaults. It fails when the auth secret is unset.
func Load() (*Config, error) {
	cfg := loadEnv()
	if cfg.Auth.Secret == "" {
		return nil, fmt.Errorf("DERMAVIEW_AUTH_SECRET is not set; required for production")
	}
	return cfg, nil
}

// LoadWithDefaults is like Load but substitutes an insecure development
// secret when none is configured. Never use it in production.
func LoadWithDefaults() *Config {
	cfg := loadEnv()
	if cfg.Auth.Secret == "" {
		cfg.Auth.Secret = "dev-only-secret"
	}
	return cfg
}

func loadEnv() *Config {
	return &Config{
		Addr:        getEnv("DERMAVIEW_ADDR", ":8080"),
		DatabaseDSN: getEnv("DERMAVIEW_PG_DSN", ""),
		Auth: AuthConfig{
			Secret:   getEnv("DERMAVIEW_AUTH_SECRET", ""),
			TokenTTL: getDuration("DERMAVIEW_TOKEN_TTL", 7*24*time.Hour),
		},
		Upload: UploadConfig{
			Backend:        getEnv("DERMAVIEW_BLOB_BACKEND", "disk"),
			Dir:            getEnv("DERMAVIEW_UPLOAD_DIR", "uploads"),
			MaxBytes:       getInt64("DERMAVIEW_MAX_UPLOAD_BYTES", 10<<20),
			S3Bucket:       getEnv("DERMAVIEW_S3_BUCKET", "dermaview"),
			S3Region:       getEnv("DERMAVIEW_S3_REGION", "us-east-1"),
			S3AccessKey:    getEnv("DERMAVIEW_S3_ACCESS_KEY", ""),
			S3SecretKey:    getEnv("DERMAVIEW_S3_SECRET_KEY", ""),
			S3BaseEndpoint: getEnv("DERMAVIEW_S3_ENDPOINT", ""),
		},
		Classify: ClassifyConfig{
			ModelServerURL: getEnv("DERMAVIEW_MODEL_URL", ""),
			Labels:         getList("DERMAVIEW_LABELS", defaultLabels),
		},
		Rate: RateConfig{
			Burst:  getInt("DERMAVIEW_RATE_BURST", 20),
			PerSec: getInt("DERMAVIEW_RATE_PER_SEC", 10),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}

func getList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
