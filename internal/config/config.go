package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config represents the complete service configuration
type Config struct {
	Port        int      `env:"PORT" envDefault:"8080"`
	DatabaseURL string   `env:"DATABASE_URL,required,notEmpty"`
	AutoMigrate bool     `env:"AUTO_MIGRATE" envDefault:"false"`
	CORSOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	Log       LogConfig
	Auth      AuthConfig
	Redis     RedisConfig
	Minio     MinioConfig
	Subdomain SubdomainConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
}

// LogConfig contains logger settings
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// AuthConfig contains session token settings
type AuthConfig struct {
	JWTSecret  string        `env:"JWT_SECRET"`
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"168h"`
	// SecureCookies switches to the __Secure- cookie name and the Secure flag.
	SecureCookies bool `env:"SECURE_COOKIES" envDefault:"false"`
	// GeneratedSecret is true when JWT_SECRET was empty and a random one was made.
	GeneratedSecret bool
}

// RedisConfig contains cache connection settings
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

// MinioConfig contains object storage settings
type MinioConfig struct {
	Endpoint  string `env:"MINIO_ENDPOINT" envDefault:"localhost:9000"`
	AccessKey string `env:"MINIO_ACCESS_KEY" envDefault:"minioadmin"`
	SecretKey string `env:"MINIO_SECRET_KEY" envDefault:"minioadmin"`
	UseSSL    bool   `env:"MINIO_USE_SSL" envDefault:"false"`
	Bucket    string `env:"MINIO_BUCKET" envDefault:"trainerdesk-uploads"`
}

// SubdomainConfig contains tenant routing and slug allocation settings
type SubdomainConfig struct {
	BaseDomain  string   `env:"BASE_DOMAIN" envDefault:"trainerdesk.app"`
	Reserved    []string `env:"RESERVED_SUBDOMAINS" envDefault:"www,trainerdesk" envSeparator:","`
	MaxAttempts int      `env:"SUBDOMAIN_MAX_ATTEMPTS" envDefault:"100"`
}

// CacheConfig contains cache lifetimes and refresh cadence
type CacheConfig struct {
	StatsTTL             time.Duration `env:"STATS_CACHE_TTL" envDefault:"1m"`
	PageTTL              time.Duration `env:"PAGE_CACHE_TTL" envDefault:"10m"`
	StatsRefreshInterval time.Duration `env:"STATS_REFRESH_INTERVAL" envDefault:"5m"`
}

// RateLimitConfig contains request throttling settings
type RateLimitConfig struct {
	AuthPerMinute int     `env:"AUTH_RATE_LIMIT" envDefault:"10"`
	PageRPS       float64 `env:"PAGE_RATE_LIMIT" envDefault:"20"`
}

// Load reads configuration from the environment, honouring a local .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if cfg.Auth.JWTSecret == "" {
		secret, err := randomSecret(32)
		if err != nil {
			return nil, fmt.Errorf("failed to generate JWT secret: %w", err)
		}
		cfg.Auth.JWTSecret = secret
		cfg.Auth.GeneratedSecret = true
	}

	cfg.Subdomain.Reserved = withBaseLabel(normalizeLabels(cfg.Subdomain.Reserved), cfg.Subdomain.BaseDomain)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that env tags cannot express
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.Subdomain.MaxAttempts <= 0 {
		return errors.New("SUBDOMAIN_MAX_ATTEMPTS must be positive")
	}
	if len(c.Subdomain.Reserved) == 0 {
		return errors.New("RESERVED_SUBDOMAINS must list at least one label")
	}
	if c.Auth.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	if c.RateLimit.AuthPerMinute <= 0 || c.RateLimit.PageRPS <= 0 {
		return errors.New("rate limits must be positive")
	}
	return nil
}

func normalizeLabels(labels []string) []string {
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		l = strings.ToLower(strings.TrimSpace(l))
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}

// withBaseLabel reserves the product's own label, "fitpro" for fitpro.io, so the
// bare base domain is never served as a tenant page.
func withBaseLabel(reserved []string, baseDomain string) []string {
	label, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(baseDomain)), ".")
	if label == "" || slices.Contains(reserved, label) {
		return reserved
	}
	return append(reserved, label)
}

func randomSecret(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
