package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the gateway.
type Config struct {
	App      AppConfig
	Upstream UpstreamConfig
	Auth     AuthConfig
	Cache    CacheConfig
	Schedule ScheduleConfig
	Logger   LoggerConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// UpstreamConfig holds LibreBooking connection values.
type UpstreamConfig struct {
	BaseURL          string
	AuthPath         string
	ReservationsPath string
	AccountsPath     string
	Username         string
	Password         string
	TimeoutSeconds   int
	AuthRetries      int
}

// AuthConfig defines token issuance parameters.
type AuthConfig struct {
	JWTSecret            string
	TokenTTLSeconds      int
	SessionMarginSeconds int
}

// CacheConfig configures the schedule result cache.
type CacheConfig struct {
	TTLMinutes int
	MaxEntries int
	RedisAddr  string
	RedisPass  string
	RedisDB    int
}

// ScheduleConfig drives target-week resolution and fetch spans.
type ScheduleConfig struct {
	Timezone       string
	CutoverWeekday string
	CutoverHour    int
	ListRetries    int
	PublicWeeks    int
	ResourceWeeks  int
	UserWeeks      int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "booking-gateway"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Upstream: UpstreamConfig{
			BaseURL:          os.Getenv("LIBREBOOKING_BASE_URL"),
			AuthPath:         getEnv("LIBREBOOKING_AUTH_PATH", "/auth"),
			ReservationsPath: getEnv("LIBREBOOKING_RESERVATIONS_PATH", "/reservations"),
			AccountsPath:     getEnv("LIBREBOOKING_ACCOUNTS_PATH", "/accounts"),
			Username:         os.Getenv("LIBREBOOKING_USERNAME"),
			Password:         os.Getenv("LIBREBOOKING_PASSWORD"),
			TimeoutSeconds:   getEnvAsInt("LIBREBOOKING_TIMEOUT_SECONDS", 15),
			AuthRetries:      getEnvAsInt("LIBREBOOKING_AUTH_RETRIES", 3),
		},
		Auth: AuthConfig{
			JWTSecret:            getEnv("AUTH_JWT_SECRET", "dev-secret"),
			TokenTTLSeconds:      getEnvAsInt("AUTH_TOKEN_TTL_SECONDS", 86400),
			SessionMarginSeconds: getEnvAsInt("AUTH_SESSION_MARGIN_SECONDS", 120),
		},
		Cache: CacheConfig{
			TTLMinutes: getEnvAsInt("CACHE_TTL_MINUTES", 30),
			MaxEntries: getEnvAsInt("CACHE_MAX_ENTRIES", 1000),
			RedisAddr:  os.Getenv("REDIS_ADDR"),
			RedisPass:  os.Getenv("REDIS_PASSWORD"),
			RedisDB:    redisDB,
		},
		Schedule: ScheduleConfig{
			Timezone:       getEnv("SCHEDULE_TIMEZONE", "Europe/Rome"),
			CutoverWeekday: getEnv("SCHEDULE_CUTOVER_WEEKDAY", "Saturday"),
			CutoverHour:    getEnvAsInt("SCHEDULE_CUTOVER_HOUR", 8),
			ListRetries:    getEnvAsInt("SCHEDULE_LIST_RETRIES", 3),
			PublicWeeks:    getEnvAsInt("SCHEDULE_PUBLIC_WEEKS", 2),
			ResourceWeeks:  getEnvAsInt("SCHEDULE_RESOURCE_WEEKS", 4),
			UserWeeks:      getEnvAsInt("SCHEDULE_USER_WEEKS", 4),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if cfg.Upstream.BaseURL == "" {
		return nil, fmt.Errorf("LIBREBOOKING_BASE_URL is required")
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Timeout returns the upstream HTTP client timeout.
func (u UpstreamConfig) Timeout() time.Duration {
	if u.TimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(u.TimeoutSeconds) * time.Second
}

// TokenTTL returns the outer credential lifetime.
func (a AuthConfig) TokenTTL() time.Duration {
	if a.TokenTTLSeconds <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(a.TokenTTLSeconds) * time.Second
}

// SessionMargin is the safety margin subtracted from the upstream session expiry.
func (a AuthConfig) SessionMargin() time.Duration {
	if a.SessionMarginSeconds < 0 {
		return 0
	}
	return time.Duration(a.SessionMarginSeconds) * time.Second
}

// TTL returns the result cache entry lifetime.
func (c CacheConfig) TTL() time.Duration {
	if c.TTLMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(c.TTLMinutes) * time.Minute
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}
