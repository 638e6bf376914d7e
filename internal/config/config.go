package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Identity provider kinds accepted by AUTH_PROVIDER.
const (
	AuthProviderStatic   = "static"
	AuthProviderFirebase = "firebase"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Cache        CacheConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Trends       TrendsConfig
	Store        StoreConfig
	Notification NotificationConfig
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

// PostgresConfig holds DB connection values. An empty DSN selects the
// in-memory ticket store.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	SeedIfEmpty    bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// CacheConfig controls the cached ticket-list view.
type CacheConfig struct {
	Enabled    bool
	TTLSeconds int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
	// Format is "json" or "console".
	Format string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	Provider              string
	IdentityBaseURL       string
	IdentityAPIKey        string
	// StaticUsers holds "email:bcrypt-hash" pairs for the static provider.
	StaticUsers           []string
	BcryptCost            int
}

// TrendsConfig configures the text-generation endpoint used for trend reports.
type TrendsConfig struct {
	BaseURL        string
	APIKey         string
	Model          string
	MaxTokens      int
	TimeoutSeconds int
}

// StoreConfig holds in-memory store behavior.
type StoreConfig struct {
	// SeedFile overrides the embedded seed dataset when set.
	SeedFile            string
	ListLatencyMillis   int
	UpdateLatencyMillis int
}

// NotificationConfig holds notification endpoints. WebhookURL receives a JSON
// POST per status change; EmailFrom feeds the log-only email stub.
type NotificationConfig struct {
	EmailFrom  string
	WebhookURL string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	maxConns := int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10))
	minConns := int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2))
	runMigrations := getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true)
	seedIfEmpty := getEnvAsBool("POSTGRES_SEED_IF_EMPTY", true)
	connMaxIdle := int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30))
	connMaxLife := int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300))

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "helpdesk-dashboard"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 90),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       maxConns,
			MinConns:       minConns,
			RunMigrations:  runMigrations,
			SeedIfEmpty:    seedIfEmpty,
			ConnMaxIdleSec: connMaxIdle,
			ConnMaxLifeSec: connMaxLife,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Cache: CacheConfig{
			Enabled:    getEnvAsBool("TICKET_CACHE_ENABLED", false),
			TTLSeconds: getEnvAsInt("TICKET_CACHE_TTL_SECONDS", 60),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: strings.ToLower(getEnv("LOG_FORMAT", "json")),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			Provider:              strings.ToLower(getEnv("AUTH_PROVIDER", AuthProviderStatic)),
			IdentityBaseURL:       getEnv("AUTH_IDENTITY_BASE_URL", "https://identitytoolkit.googleapis.com"),
			IdentityAPIKey:        os.Getenv("AUTH_IDENTITY_API_KEY"),
			StaticUsers:           getEnvAsList("AUTH_STATIC_USERS"),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
		Trends: TrendsConfig{
			BaseURL:        getEnv("TRENDS_BASE_URL", "https://api.openai.com/v1"),
			APIKey:         os.Getenv("TRENDS_API_KEY"),
			Model:          getEnv("TRENDS_MODEL", "gpt-4o-mini"),
			MaxTokens:      getEnvAsInt("TRENDS_MAX_TOKENS", 1024),
			TimeoutSeconds: getEnvAsInt("TRENDS_TIMEOUT_SECONDS", 60),
		},
		Store: StoreConfig{
			SeedFile:            os.Getenv("STORE_SEED_FILE"),
			ListLatencyMillis:   getEnvAsInt("STORE_LIST_LATENCY_MS", 0),
			UpdateLatencyMillis: getEnvAsInt("STORE_UPDATE_LATENCY_MS", 0),
		},
		Notification: NotificationConfig{
			EmailFrom:  getEnv("NOTIFY_EMAIL_FROM", "noreply@example.com"),
			WebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
		},
	}

	switch cfg.Auth.Provider {
	case AuthProviderStatic, AuthProviderFirebase:
	default:
		return nil, fmt.Errorf("invalid AUTH_PROVIDER %q", cfg.Auth.Provider)
	}
	switch cfg.Logger.Format {
	case "json", "console":
	default:
		return nil, fmt.Errorf("invalid LOG_FORMAT %q", cfg.Logger.Format)
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

// TTL returns the cache entry lifetime.
func (c CacheConfig) TTL() time.Duration {
	if c.TTLSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(c.TTLSeconds) * time.Second
}

// Timeout returns the per-request timeout for the text-generation endpoint.
func (t TrendsConfig) Timeout() time.Duration {
	if t.TimeoutSeconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(t.TimeoutSeconds) * time.Second
}

// ListLatency returns the simulated delay applied to ticket listing.
func (s StoreConfig) ListLatency() time.Duration {
	return time.Duration(s.ListLatencyMillis) * time.Millisecond
}

// UpdateLatency returns the simulated delay applied to status updates.
func (s StoreConfig) UpdateLatency() time.Duration {
	return time.Duration(s.UpdateLatencyMillis) * time.Millisecond
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

func getEnvAsList(key string) []string {
	val := os.Getenv(key)
	if val == "" {
		return nil
	}
	var items []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}
