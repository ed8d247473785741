// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"net/http"
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
	GetDatabaseMaxConns() int32
	GetDatabaseMinConns() int32
}

// JWTConfig provides JWT validation settings for middleware.
type JWTConfig interface {
	GetJWTAccessSecret() string
}

// AuthServiceConfig provides settings needed by the auth service.
type AuthServiceConfig interface {
	JWTConfig
	GetAccessTokenTTL() time.Duration
	GetRefreshTokenTTL() time.Duration
}

// CookieConfig provides settings for refresh token cookies.
type CookieConfig interface {
	GetRefreshCookieName() string
	GetRefreshCookieDomain() string
	GetRefreshCookiePath() string
	GetRefreshCookieSecure() bool
	GetRefreshCookieSameSite() http.SameSite
	GetRefreshTokenTTL() time.Duration
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// MinIOConfig provides settings for MinIO S3-compatible storage.
type MinIOConfig interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinIOMaxFileSize() int64
	GetMinioBucketCustomerDocuments() string
	IsMinIOEnabled() bool
}

// SchedulerConfig provides settings for the Redis backed task scheduler.
type SchedulerConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
	GetMetricsAddr() string
}

// EmailConfig provides settings for SMTP delivery.
type EmailConfig interface {
	GetEmailEnabled() bool
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFromName() string
	GetEmailFromAddress() string
	GetDeactivationReportEmail() string
}

// AuditConfig provides settings for the optional audit broker.
type AuditConfig interface {
	GetAMQPURL() string
	GetAuditExchange() string
	IsAuditBrokerEnabled() bool
}

// LeadDeactivationConfig provides the raw stale-lead settings.
// Status values are validated by the leads domain when the job is built.
type LeadDeactivationConfig interface {
	GetAutoDeactivateAfterDays() int
	GetAutoDeactivateStatuses() []string
	GetAutoDeactivateSchedule() string
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                          string
	HTTPAddr                     string
	DatabaseURL                  string
	DatabaseMaxConns             int32
	DatabaseMinConns             int32
	JWTAccessSecret              string
	AccessTokenTTL               time.Duration
	RefreshTokenTTL              time.Duration
	CORSAllowAll                 bool
	CORSOrigins                  []string
	CORSAllowCreds               bool
	RefreshCookieName            string
	RefreshCookieDomain          string
	RefreshCookiePath            string
	RefreshCookieSecure          bool
	RefreshCookieSameSite        http.SameSite
	MinIOEndpoint                string
	MinIOAccessKey               string
	MinIOSecretKey               string
	MinIOUseSSL                  bool
	MinIOMaxFileSize             int64
	MinioBucketCustomerDocuments string
	RedisURL                     string
	RedisTLSInsecure             bool
	AsynqQueueName               string
	AsynqConcurrency             int
	MetricsAddr                  string
	EmailEnabled                 bool
	SMTPHost                     string
	SMTPPort                     int
	SMTPUsername                 string
	SMTPPassword                 string
	EmailFromName                string
	EmailFromAddress             string
	DeactivationReportEmail      string
	AMQPURL                      string
	AuditExchange                string
	PhoneRegion                  string
	AutoDeactivateAfterDays      int
	AutoDeactivateStatuses       []string
	AutoDeactivateSchedule       string
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string     { return c.DatabaseURL }
func (c *Config) GetDatabaseMaxConns() int32 { return c.DatabaseMaxConns }
func (c *Config) GetDatabaseMinConns() int32 { return c.DatabaseMinConns }

// JWTConfig implementation
func (c *Config) GetJWTAccessSecret() string { return c.JWTAccessSecret }

// AuthServiceConfig implementation
func (c *Config) GetAccessTokenTTL() time.Duration  { return c.AccessTokenTTL }
func (c *Config) GetRefreshTokenTTL() time.Duration { return c.RefreshTokenTTL }

// CookieConfig implementation
func (c *Config) GetRefreshCookieName() string            { return c.RefreshCookieName }
func (c *Config) GetRefreshCookieDomain() string          { return c.RefreshCookieDomain }
func (c *Config) GetRefreshCookiePath() string            { return c.RefreshCookiePath }
func (c *Config) GetRefreshCookieSecure() bool            { return c.RefreshCookieSecure }
func (c *Config) GetRefreshCookieSameSite() http.SameSite { return c.RefreshCookieSameSite }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// MinIOConfig implementation
func (c *Config) GetMinIOEndpoint() string   { return c.MinIOEndpoint }
func (c *Config) GetMinIOAccessKey() string  { return c.MinIOAccessKey }
func (c *Config) GetMinIOSecretKey() string  { return c.MinIOSecretKey }
func (c *Config) GetMinIOUseSSL() bool       { return c.MinIOUseSSL }
func (c *Config) GetMinIOMaxFileSize() int64 { return c.MinIOMaxFileSize }
func (c *Config) GetMinioBucketCustomerDocuments() string {
	return c.MinioBucketCustomerDocuments
}
func (c *Config) IsMinIOEnabled() bool { return c.MinIOEndpoint != "" }

// SchedulerConfig implementation
func (c *Config) GetRedisURL() string        { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool  { return c.RedisTLSInsecure }
func (c *Config) GetAsynqQueueName() string  { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int   { return c.AsynqConcurrency }
func (c *Config) GetMetricsAddr() string     { return c.MetricsAddr }

// EmailConfig implementation
func (c *Config) GetEmailEnabled() bool              { return c.EmailEnabled }
func (c *Config) GetSMTPHost() string                { return c.SMTPHost }
func (c *Config) GetSMTPPort() int                   { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string            { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string            { return c.SMTPPassword }
func (c *Config) GetEmailFromName() string           { return c.EmailFromName }
func (c *Config) GetEmailFromAddress() string        { return c.EmailFromAddress }
func (c *Config) GetDeactivationReportEmail() string { return c.DeactivationReportEmail }

// AuditConfig implementation
func (c *Config) GetAMQPURL() string         { return c.AMQPURL }
func (c *Config) GetAuditExchange() string   { return c.AuditExchange }
func (c *Config) IsAuditBrokerEnabled() bool { return c.AMQPURL != "" }

// LeadDeactivationConfig implementation
func (c *Config) GetAutoDeactivateAfterDays() int    { return c.AutoDeactivateAfterDays }
func (c *Config) GetAutoDeactivateStatuses() []string { return c.AutoDeactivateStatuses }
func (c *Config) GetAutoDeactivateSchedule() string  { return c.AutoDeactivateSchedule }

const (
	defaultDeactivateAfterDays = 90
	defaultDeactivateSchedule  = "daily"
)

var validSchedules = map[string]bool{
	"daily":   true,
	"weekly":  true,
	"monthly": true,
}

// Lead status wire values accepted in AUTO_DEACTIVATE_STATUSES.
var validLeadStatuses = map[string]bool{
	"new":           true,
	"converted":     true,
	"not_converted": true,
}

// Load reads configuration from environment variables.
// Values needed only by the HTTP server are checked by RequireHTTP.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	refreshCookieSecure := strings.EqualFold(getEnv("REFRESH_COOKIE_SECURE", ""), "true")
	if getEnv("REFRESH_COOKIE_SECURE", "") == "" {
		refreshCookieSecure = strings.EqualFold(getEnv("APP_ENV", "development"), "production")
	}

	deactivateAfterDays, err := parsePositiveInt("AUTO_DEACTIVATE_AFTER_DAYS", getEnv("AUTO_DEACTIVATE_AFTER_DAYS", strconv.Itoa(defaultDeactivateAfterDays)))
	if err != nil {
		return nil, err
	}

	schedule := strings.ToLower(strings.TrimSpace(getEnv("AUTO_DEACTIVATE_SCHEDULE", defaultDeactivateSchedule)))
	if !validSchedules[schedule] {
		return nil, fmt.Errorf("AUTO_DEACTIVATE_SCHEDULE must be one of daily, weekly, monthly (got %q)", schedule)
	}

	deactivateStatuses := splitCSV(getEnv("AUTO_DEACTIVATE_STATUSES", ""))
	for i, status := range deactivateStatuses {
		deactivateStatuses[i] = strings.ToLower(status)
		if !validLeadStatuses[deactivateStatuses[i]] {
			return nil, fmt.Errorf("AUTO_DEACTIVATE_STATUSES entries must be new, converted or not_converted (got %q)", status)
		}
	}

	maxConns, err := parsePositiveInt("DB_MAX_CONNS", getEnv("DB_MAX_CONNS", "10"))
	if err != nil {
		return nil, err
	}
	minConns, err := strconv.Atoi(strings.TrimSpace(getEnv("DB_MIN_CONNS", "1")))
	if err != nil || minConns < 0 || minConns > maxConns {
		return nil, fmt.Errorf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS (got %q)", getEnv("DB_MIN_CONNS", "1"))
	}

	smtpPort, err := parsePositiveInt("SMTP_PORT", getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Env:                          getEnv("APP_ENV", "development"),
		HTTPAddr:                     getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:                  getEnv("DATABASE_URL", ""),
		DatabaseMaxConns:             int32(maxConns),
		DatabaseMinConns:             int32(minConns),
		JWTAccessSecret:              getEnv("JWT_ACCESS_SECRET", ""),
		AccessTokenTTL:               mustDuration(getEnv("JWT_ACCESS_TTL", "15m")),
		RefreshTokenTTL:              mustDuration(getEnv("JWT_REFRESH_TTL", "720h")),
		CORSAllowAll:                 corsAllowAll,
		CORSOrigins:                  corsOrigins,
		CORSAllowCreds:               strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
		RefreshCookieName:            getEnv("REFRESH_COOKIE_NAME", "crm_refresh"),
		RefreshCookieDomain:          getEnv("REFRESH_COOKIE_DOMAIN", ""),
		RefreshCookiePath:            getEnv("REFRESH_COOKIE_PATH", "/api/v1/auth"),
		RefreshCookieSecure:          refreshCookieSecure,
		RefreshCookieSameSite:        parseSameSite(getEnv("REFRESH_COOKIE_SAMESITE", "Lax")),
		MinIOEndpoint:                getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey:               getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:               getEnv("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:                  strings.EqualFold(getEnv("MINIO_USE_SSL", "false"), "true"),
		MinIOMaxFileSize:             mustInt64(getEnv("MINIO_MAX_FILE_SIZE", "26214400")),
		MinioBucketCustomerDocuments: getEnv("MINIO_BUCKET_CUSTOMER_DOCUMENTS", "customer-documents"),
		RedisURL:                     getEnv("REDIS_URL", ""),
		RedisTLSInsecure:             strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		AsynqQueueName:               getEnv("ASYNQ_QUEUE", "default"),
		AsynqConcurrency:             int(mustInt64(getEnv("ASYNQ_CONCURRENCY", "5"))),
		MetricsAddr:                  getEnv("SCHEDULER_METRICS_ADDR", ":9091"),
		SMTPHost:                     getEnv("SMTP_HOST", ""),
		SMTPPort:                     smtpPort,
		SMTPUsername:                 getEnv("SMTP_USERNAME", ""),
		SMTPPassword:                 getEnv("SMTP_PASSWORD", ""),
		EmailFromName:                getEnv("EMAIL_FROM_NAME", "Dealership CRM"),
		EmailFromAddress:             getEnv("EMAIL_FROM_ADDRESS", ""),
		DeactivationReportEmail:      getEnv("DEACTIVATION_REPORT_EMAIL", ""),
		AMQPURL:                      getEnv("AMQP_URL", ""),
		AuditExchange:                getEnv("AUDIT_EXCHANGE", "ex.audit"),
		PhoneRegion:                  strings.ToUpper(getEnv("PHONE_DEFAULT_REGION", "AE")),
		AutoDeactivateAfterDays:      deactivateAfterDays,
		AutoDeactivateStatuses:       deactivateStatuses,
		AutoDeactivateSchedule:       schedule,
	}
	cfg.EmailEnabled = strings.EqualFold(getEnv("EMAIL_ENABLED", "false"), "true") && cfg.SMTPHost != ""

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.EmailEnabled && cfg.EmailFromAddress == "" {
		return nil, fmt.Errorf("EMAIL_FROM_ADDRESS is required when email is enabled")
	}

	return cfg, nil
}

// RequireHTTP checks the settings the API server cannot start without.
func (c *Config) RequireHTTP() error {
	if c.JWTAccessSecret == "" {
		return fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		return fmt.Errorf("JWT_ACCESS_TTL and JWT_REFRESH_TTL must be positive durations")
	}
	if c.CORSAllowAll && c.CORSAllowCreds {
		return fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}
	return nil
}

// getEnv treats blank values as unset.
func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && strings.TrimSpace(val) != "" {
		return val
	}
	return fallback
}

func parsePositiveInt(key, value string) (int, error) {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer (got %q)", key, value)
	}
	return parsed, nil
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt64(value string) int64 {
	result, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0
	}
	return result
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

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}

func parseSameSite(value string) http.SameSite {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "none":
		return http.SameSiteNoneMode
	case "strict":
		return http.SameSiteStrictMode
	default:
		return http.SameSiteLaxMode
	}
}
