package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database    DatabaseConfig
	Redis       RedisConfig
	JWT         JWTConfig
	CORS        CORSConfig
	Log         LogConfig
	Planner     PlannerConfig
	Reservation ReservationConfig
	PlanExport  PlanExportConfig
	Catalog     CatalogConfig
}

// CatalogConfig tunes read caching of pathway/offering catalog rows.
type CatalogConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret            string
	Expiration        time.Duration
	RefreshExpiration time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// PlannerConfig governs the exact (branch-and-bound) planning strategy and
// the proposal cache shared by every strategy.
type PlannerConfig struct {
	ProposalTTL        time.Duration
	ExactTimeout       time.Duration
	ExactMaxNodes      int
	ExactAsyncNodeHint int
	Workers            int
}

// ReservationConfig governs the hold/commit/release lifecycle of seat
// reservations.
type ReservationConfig struct {
	DefaultHoldDuration time.Duration
	SweepInterval       time.Duration
}

// PlanExportConfig configures CSV/PDF plan export and its signed download
// URLs.
type PlanExportConfig struct {
	StorageDir      string
	SignedURLSecret string
	SignedURLTTL    time.Duration
	CleanupInterval time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:            v.GetString("JWT_SECRET"),
		Expiration:        parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
		RefreshExpiration: parseDuration(v.GetString("REFRESH_TOKEN_EXPIRATION"), 7*24*time.Hour),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Planner = PlannerConfig{
		ProposalTTL:        parseDuration(v.GetString("PLANNER_PROPOSAL_TTL"), 30*time.Minute),
		ExactTimeout:       parseDuration(v.GetString("PLANNER_EXACT_TIMEOUT"), 10*time.Second),
		ExactMaxNodes:      v.GetInt("PLANNER_EXACT_MAX_NODES"),
		ExactAsyncNodeHint: v.GetInt("PLANNER_EXACT_ASYNC_NODE_HINT"),
		Workers:            v.GetInt("PLANNER_WORKERS"),
	}

	cfg.Reservation = ReservationConfig{
		DefaultHoldDuration: parseDuration(v.GetString("RESERVATION_HOLD_DURATION"), 15*time.Minute),
		SweepInterval:       parseDuration(v.GetString("RESERVATION_SWEEP_INTERVAL"), time.Minute),
	}

	cfg.Catalog = CatalogConfig{
		CacheEnabled: v.GetBool("CATALOG_CACHE_ENABLED"),
		CacheTTL:     parseDuration(v.GetString("CATALOG_CACHE_TTL"), 5*time.Minute),
	}

	cfg.PlanExport = PlanExportConfig{
		StorageDir:      v.GetString("PLAN_EXPORT_STORAGE_DIR"),
		SignedURLSecret: v.GetString("PLAN_EXPORT_SIGNED_URL_SECRET"),
		SignedURLTTL:    parseDuration(v.GetString("PLAN_EXPORT_SIGNED_URL_TTL"), 24*time.Hour),
		CleanupInterval: parseDuration(v.GetString("PLAN_EXPORT_CLEANUP_INTERVAL"), time.Hour),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "pathway_planner")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("REFRESH_TOKEN_EXPIRATION", "168h")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("PLANNER_PROPOSAL_TTL", "30m")
	v.SetDefault("PLANNER_EXACT_TIMEOUT", "10s")
	v.SetDefault("PLANNER_EXACT_MAX_NODES", 200000)
	v.SetDefault("PLANNER_EXACT_ASYNC_NODE_HINT", 50000)
	v.SetDefault("PLANNER_WORKERS", 2)

	v.SetDefault("CATALOG_CACHE_ENABLED", false)
	v.SetDefault("CATALOG_CACHE_TTL", "5m")

	v.SetDefault("RESERVATION_HOLD_DURATION", "15m")
	v.SetDefault("RESERVATION_SWEEP_INTERVAL", "1m")

	v.SetDefault("PLAN_EXPORT_STORAGE_DIR", "./exports")
	v.SetDefault("PLAN_EXPORT_SIGNED_URL_SECRET", "dev_plan_export_secret")
	v.SetDefault("PLAN_EXPORT_SIGNED_URL_TTL", "24h")
	v.SetDefault("PLAN_EXPORT_CLEANUP_INTERVAL", "1h")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
