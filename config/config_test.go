package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DASHBOARD_BACKEND", "")
	t.Setenv("DASHBOARD_APP_ID", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "default-app-id", cfg.App.ID)
	assert.Equal(t, BackendLocal, cfg.Backend)
	assert.False(t, cfg.Remote())
	assert.Equal(t, "@every 10m", cfg.Session.RevalidateSpec)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.Server.CORSAllowedOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DASHBOARD_BACKEND", "Redis")
	t.Setenv("REDIS_ADDR", "cache:6380")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("WRITE_RATE_LIMIT", "2.5")
	t.Setenv("REQUIRE_ID_TOKEN", "not-a-bool")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, BackendRedis, cfg.Backend)
	assert.Equal(t, "cache:6380", cfg.Redis.Addr)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSAllowedOrigins)
	assert.Equal(t, 2.5, cfg.Server.WriteRateLimit)
	assert.False(t, cfg.Server.RequireIDToken)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:  ServerConfig{Port: "8080", WriteRateLimit: 1, WriteRateBurst: 1},
			App:     AppConfig{ID: "app", Environment: "development"},
			Session: SessionConfig{DevUserID: "demo-user"},
			Redis:   RedisConfig{Addr: "localhost:6379"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"local", func(c *Config) {}, ""},
		{"unknown backend", func(c *Config) { c.Backend = "mongo" }, "unknown DASHBOARD_BACKEND"},
		{"firestore without project", func(c *Config) { c.Backend = BackendFirestore }, "FIREBASE_PROJECT_ID"},
		{"firestore with project", func(c *Config) {
			c.Backend = BackendFirestore
			c.Firebase.ProjectID = "p"
		}, ""},
		{"postgres without dsn", func(c *Config) { c.Backend = BackendPostgres }, "DB_DSN"},
		{"redis in development", func(c *Config) { c.Backend = BackendRedis }, ""},
		{"redis in production without firebase", func(c *Config) {
			c.Backend = BackendRedis
			c.App.Environment = "production"
		}, "production"},
		{"id tokens need firebase", func(c *Config) {
			c.Backend = BackendRedis
			c.Server.RequireIDToken = true
		}, "REQUIRE_ID_TOKEN"},
		{"id tokens need a remote backend", func(c *Config) {
			c.Firebase.ProjectID = "p"
			c.Server.RequireIDToken = true
		}, "remote DASHBOARD_BACKEND"},
		{"id tokens with firestore", func(c *Config) {
			c.Backend = BackendFirestore
			c.Firebase.ProjectID = "p"
			c.Server.RequireIDToken = true
		}, ""},
		{"zero burst", func(c *Config) { c.Server.WriteRateBurst = 0 }, "WRITE_RATE_BURST"},
		{"negative limit", func(c *Config) { c.Server.WriteRateLimit = -1 }, "WRITE_RATE_LIMIT"},
		{"limiter disabled", func(c *Config) {
			c.Server.WriteRateLimit = 0
			c.Server.WriteRateBurst = 0
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
