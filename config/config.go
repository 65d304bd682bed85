package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Backend kinds accepted in DASHBOARD_BACKEND. Empty selects the in-memory
// local store.
const (
	BackendLocal     = ""
	BackendFirestore = "firestore"
	BackendRedis     = "redis"
	BackendPostgres  = "postgres"
)

type Config struct {
	Server   ServerConfig
	App      AppConfig
	Backend  string
	Firebase FirebaseConfig
	Session  SessionConfig
	Redis    RedisConfig
	Database DatabaseConfig
}

type ServerConfig struct {
	Port               string
	CORSAllowedOrigins []string
	APIKey             string
	WriteRateLimit     float64
	WriteRateBurst     int
	RequireIDToken     bool
}

type AppConfig struct {
	ID          string
	Environment string
	LogLevel    string
	LogFormat   string
	Version     string
	SeedFile    string
}

type FirebaseConfig struct {
	ProjectID       string
	CredentialsPath string
}

// Configured reports whether a Firebase project is set up.
func (f FirebaseConfig) Configured() bool {
	return f.ProjectID != ""
}

type SessionConfig struct {
	Token          string
	File           string
	RevalidateSpec string
	// DevUserID is the fixed identity used by the Redis and Postgres backends
	// when Firebase is not configured (non-production only).
	DevUserID string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type DatabaseConfig struct {
	DSN      string
	MaxConns int
	MinConns int
}

func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:               getEnv("PORT", "8080"),
			CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
			APIKey:             getEnv("API_KEY", ""),
			WriteRateLimit:     getEnvAsFloat("WRITE_RATE_LIMIT", 10),
			WriteRateBurst:     getEnvAsInt("WRITE_RATE_BURST", 20),
			RequireIDToken:     getEnvAsBool("REQUIRE_ID_TOKEN", false),
		},
		App: AppConfig{
			ID:          getEnv("DASHBOARD_APP_ID", "default-app-id"),
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			LogFormat:   getEnv("LOG_FORMAT", "json"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			SeedFile:    getEnv("DASHBOARD_SEED_FILE", ""),
		},
		Backend: strings.ToLower(getEnv("DASHBOARD_BACKEND", BackendLocal)),
		Firebase: FirebaseConfig{
			ProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
			CredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		},
		Session: SessionConfig{
			Token:          getEnv("DASHBOARD_AUTH_TOKEN", ""),
			File:           getEnv("DASHBOARD_SESSION_FILE", ".dashboard/session.json"),
			RevalidateSpec: getEnv("DASHBOARD_SESSION_REVALIDATE", "@every 10m"),
			DevUserID:      getEnv("DASHBOARD_USER_ID", "demo-user"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Database: DatabaseConfig{
			DSN:      getEnv("DB_DSN", ""),
			MaxConns: getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns: getEnvAsInt("DB_MIN_CONNS", 2),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.App.ID == "" {
		return fmt.Errorf("DASHBOARD_APP_ID is required")
	}
	// WRITE_RATE_LIMIT=0 turns the write limiter off.
	if c.Server.WriteRateLimit < 0 {
		return fmt.Errorf("WRITE_RATE_LIMIT must not be negative")
	}
	if c.Server.WriteRateLimit > 0 && c.Server.WriteRateBurst <= 0 {
		return fmt.Errorf("WRITE_RATE_BURST must be positive when WRITE_RATE_LIMIT is set")
	}

	switch c.Backend {
	case BackendLocal:
	case BackendFirestore:
		if !c.Firebase.Configured() {
			return fmt.Errorf("FIREBASE_PROJECT_ID is required for the firestore backend")
		}
	case BackendRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("REDIS_ADDR is required for the redis backend")
		}
	case BackendPostgres:
		if c.Database.DSN == "" {
			return fmt.Errorf("DB_DSN is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown DASHBOARD_BACKEND %q", c.Backend)
	}

	if c.Remote() && !c.Firebase.Configured() && c.IsProduction() {
		return errors.New("FIREBASE_PROJECT_ID is required for remote backends in production")
	}
	if c.Server.RequireIDToken && !c.Firebase.Configured() {
		return errors.New("REQUIRE_ID_TOKEN needs FIREBASE_PROJECT_ID")
	}
	if c.Server.RequireIDToken && !c.Remote() {
		return errors.New("REQUIRE_ID_TOKEN needs a remote DASHBOARD_BACKEND; local mode has no signed-in user")
	}
	return nil
}

// Remote reports whether a remote backend was selected.
func (c *Config) Remote() bool {
	return c.Backend != BackendLocal
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	value, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsList splits a comma-separated value, dropping empty entries.
func getEnvAsList(key string, defaultValue []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
