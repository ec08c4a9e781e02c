package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Store backend selectors.
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Store    StoreConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Notify   NotifyConfig
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

// StoreConfig selects and parameterizes the guest store backend.
type StoreConfig struct {
	Backend             string
	FilePath            string
	ListCacheTTLSeconds int
}

// PostgresConfig holds DB connection values. Either DSN or the discrete
// fields may be supplied; DSN wins when both are present.
type PostgresConfig struct {
	DSN           string
	Host          string
	Port          string
	User          string
	Password      string
	Database      string
	MaxConns      int32
	RunMigrations bool
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// NotifyConfig holds the optional confirmation webhook endpoint.
type NotifyConfig struct {
	WebhookURL string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	backend := getEnv("GUEST_STORE_BACKEND", BackendFile)
	if backend != BackendFile && backend != BackendPostgres {
		return nil, fmt.Errorf("invalid GUEST_STORE_BACKEND %q: want %q or %q", backend, BackendFile, BackendPostgres)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "rsvp-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Store: StoreConfig{
			Backend:             backend,
			FilePath:            getEnv("GUEST_FILE_PATH", "data/guests.json"),
			ListCacheTTLSeconds: getEnvAsInt("LIST_CACHE_TTL_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:           os.Getenv("POSTGRES_DSN"),
			Host:          getEnv("POSTGRES_HOST", "127.0.0.1"),
			Port:          getEnv("POSTGRES_PORT", "5432"),
			User:          getEnv("POSTGRES_USER", "postgres"),
			Password:      os.Getenv("POSTGRES_PASSWORD"),
			Database:      getEnv("POSTGRES_DB", "rsvp"),
			MaxConns:      int32(getEnvAsInt("POSTGRES_MAX_CONNS", 5)),
			RunMigrations: getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Notify: NotifyConfig{
			WebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
		},
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

// ConnString resolves the pool connection string from the DSN or the
// discrete credential fields.
func (p PostgresConfig) ConnString() string {
	if p.DSN != "" {
		return p.DSN
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(p.User, p.Password),
		Host:   fmt.Sprintf("%s:%s", p.Host, p.Port),
		Path:   p.Database,
	}
	return u.String()
}

// ListCacheTTL returns the listing cache TTL duration.
func (s StoreConfig) ListCacheTTL() time.Duration {
	if s.ListCacheTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(s.ListCacheTTLSeconds) * time.Second
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

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
