// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetPublicRateLimit() float64
	GetPublicRateBurst() int
}

// IntakeConfig provides settings for the offer intake service.
type IntakeConfig interface {
	GetAllowedOrigins() []string
	GetDedupeWindow() time.Duration
	GetTrustProxyHeader() bool
}

// AdminConfig provides settings for the admin endpoints.
type AdminConfig interface {
	GetAdminKey() string
}

// CommerceConfig provides credentials for the commerce platform client.
type CommerceConfig interface {
	GetCommerceAPIBaseURL() string
	GetCommerceAccessToken() string
	GetDiscountTTL() time.Duration
}

// MarketConfig provides fallback market settings for draft order bundling.
type MarketConfig interface {
	GetBaseCurrency() string
	GetBaseCountry() string
}

// EmailConfig provides settings for email sending.
type EmailConfig interface {
	GetEmailEnabled() bool
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFromName() string
	GetEmailFromAddress() string
	GetOpsEmail() string
}

// SchedulerConfig provides settings for the asynq expiry sweeper.
type SchedulerConfig interface {
	GetRedisAddr() string
	GetSweepInterval() time.Duration
	GetOfferMaxAge() time.Duration
}

// =============================================================================
// Config struct
// =============================================================================

// Config is the immutable application configuration, constructed once at
// process start and passed explicitly into each component's constructor.
type Config struct {
	Env             string
	HTTPAddr        string
	DatabaseURL     string
	CORSAllowAll    bool
	CORSOrigins     []string
	PublicRateLimit float64
	PublicRateBurst int

	AllowedOrigins   []string
	DedupeWindow     time.Duration
	TrustProxyHeader bool

	AdminKey string

	CommerceAPIBaseURL  string
	CommerceAccessToken string
	DiscountTTL         time.Duration

	BaseCurrency string
	BaseCountry  string

	EmailEnabled     bool
	SMTPHost         string
	SMTPPort         int
	SMTPUsername     string
	SMTPPassword     string
	EmailFromName    string
	EmailFromAddress string
	OpsEmail         string

	RedisAddr     string
	SweepInterval time.Duration
	OfferMaxAge   time.Duration
}

// Load reads configuration from the environment (and an optional .env file)
// and validates required settings.
func Load() (*Config, error) {
	_ = godotenv.Load()

	smtpHost := getEnv("SMTP_HOST", "")
	emailEnabled := strings.EqualFold(getEnv("EMAIL_ENABLED", "true"), "true")

	cfg := &Config{
		Env:             getEnv("APP_ENV", "development"),
		HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		CORSAllowAll:    strings.EqualFold(getEnv("CORS_ALLOW_ALL", "true"), "true"),
		CORSOrigins:     splitCSV(getEnv("CORS_ORIGINS", "")),
		PublicRateLimit: getEnvFloat("PUBLIC_RATE_LIMIT", 5),
		PublicRateBurst: getEnvInt("PUBLIC_RATE_BURST", 10),

		AllowedOrigins:   splitCSV(getEnv("ALLOWED_ORIGINS", "")),
		DedupeWindow:     mustDuration(getEnv("DEDUPE_WINDOW", "24h")),
		TrustProxyHeader: strings.EqualFold(getEnv("TRUST_PROXY_HEADER", "true"), "true"),

		AdminKey: getEnv("ADMIN_KEY", ""),

		CommerceAPIBaseURL:  getEnv("COMMERCE_API_BASE_URL", ""),
		CommerceAccessToken: getEnv("COMMERCE_ACCESS_TOKEN", ""),
		DiscountTTL:         mustDuration(getEnv("DISCOUNT_TTL", "168h")),

		BaseCurrency: getEnv("BASE_CURRENCY", "EUR"),
		BaseCountry:  getEnv("BASE_COUNTRY", "DE"),

		EmailEnabled:     emailEnabled && smtpHost != "",
		SMTPHost:         smtpHost,
		SMTPPort:         getEnvInt("SMTP_PORT", 587),
		SMTPUsername:     getEnv("SMTP_USERNAME", ""),
		SMTPPassword:     getEnv("SMTP_PASSWORD", ""),
		EmailFromName:    getEnv("EMAIL_FROM_NAME", "Offerdesk"),
		EmailFromAddress: getEnv("EMAIL_FROM_ADDRESS", ""),
		OpsEmail:         getEnv("OPS_EMAIL", ""),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		SweepInterval: mustDuration(getEnv("SWEEP_INTERVAL", "1h")),
		OfferMaxAge:   mustDuration(getEnv("OFFER_MAX_AGE", "720h")),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.AdminKey == "" {
		return nil, fmt.Errorf("ADMIN_KEY is required")
	}
	if cfg.CommerceAPIBaseURL == "" || cfg.CommerceAccessToken == "" {
		return nil, fmt.Errorf("COMMERCE_API_BASE_URL and COMMERCE_ACCESS_TOKEN are required")
	}
	if cfg.EmailEnabled && cfg.EmailFromAddress == "" {
		return nil, fmt.Errorf("EMAIL_FROM_ADDRESS is required when email is enabled")
	}
	if cfg.DedupeWindow <= 0 {
		return nil, fmt.Errorf("DEDUPE_WINDOW must be a positive duration")
	}
	if cfg.DiscountTTL <= 0 {
		return nil, fmt.Errorf("DISCOUNT_TTL must be a positive duration")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

// =============================================================================
// Interface implementations
// =============================================================================

func (c *Config) GetDatabaseURL() string          { return c.DatabaseURL }
func (c *Config) GetHTTPAddr() string             { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool           { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string        { return c.CORSOrigins }
func (c *Config) GetPublicRateLimit() float64     { return c.PublicRateLimit }
func (c *Config) GetPublicRateBurst() int         { return c.PublicRateBurst }
func (c *Config) GetAllowedOrigins() []string     { return c.AllowedOrigins }
func (c *Config) GetDedupeWindow() time.Duration  { return c.DedupeWindow }
func (c *Config) GetTrustProxyHeader() bool       { return c.TrustProxyHeader }
func (c *Config) GetAdminKey() string             { return c.AdminKey }
func (c *Config) GetCommerceAPIBaseURL() string   { return c.CommerceAPIBaseURL }
func (c *Config) GetCommerceAccessToken() string  { return c.CommerceAccessToken }
func (c *Config) GetDiscountTTL() time.Duration   { return c.DiscountTTL }
func (c *Config) GetBaseCurrency() string         { return c.BaseCurrency }
func (c *Config) GetBaseCountry() string          { return c.BaseCountry }
func (c *Config) GetEmailEnabled() bool           { return c.EmailEnabled }
func (c *Config) GetSMTPHost() string             { return c.SMTPHost }
func (c *Config) GetSMTPPort() int                { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string         { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string         { return c.SMTPPassword }
func (c *Config) GetEmailFromName() string        { return c.EmailFromName }
func (c *Config) GetEmailFromAddress() string     { return c.EmailFromAddress }
func (c *Config) GetOpsEmail() string             { return c.OpsEmail }
func (c *Config) GetRedisAddr() string            { return c.RedisAddr }
func (c *Config) GetSweepInterval() time.Duration { return c.SweepInterval }
func (c *Config) GetOfferMaxAge() time.Duration   { return c.OfferMaxAge }
