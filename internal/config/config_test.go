package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("MAX_FILE_SIZE", "")
	t.Setenv("PROGRESS_CEILING", "")
	t.Setenv("PUBLIC_URL", "")
	t.Setenv("AUTHORIZED_DOMAINS", "")

	cfg := Load()

	assert.Equal(t, int64(5*1024*1024), cfg.Storage.MaxFileSize)
	assert.Equal(t, 95, cfg.Progress.Ceiling)
	assert.Equal(t, 50*time.Millisecond, cfg.Progress.TickInterval)
	assert.Equal(t, time.Second, cfg.Progress.StageInterval)
	assert.Equal(t, []string{"localhost"}, cfg.Auth.AuthorizedDomains)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("MAX_FILE_SIZE", "1024")
	t.Setenv("GEMINI_TIMEOUT", "5s")
	t.Setenv("DB_ENABLED", "false")
	t.Setenv("AUTHORIZED_DOMAINS", "app.example.com, localhost ,")

	cfg := Load()

	assert.Equal(t, int64(1024), cfg.Storage.MaxFileSize)
	assert.Equal(t, 5*time.Second, cfg.Gemini.Timeout)
	assert.False(t, cfg.Database.Enabled)
	assert.Equal(t, []string{"app.example.com", "localhost"}, cfg.Auth.AuthorizedDomains)
}

func TestGetEnvAsDuration_InvalidFallsBack(t *testing.T) {
	t.Setenv("SOME_DURATION", "not-a-duration")
	assert.Equal(t, 2*time.Second, getEnvAsDuration("SOME_DURATION", "2s"))
}

func TestHostOf(t *testing.T) {
	assert.Equal(t, "localhost", hostOf("http://localhost:3000"))
	assert.Equal(t, "app.example.com", hostOf("https://app.example.com/signin"))
	assert.Equal(t, "plain", hostOf("plain"))
}

func TestInitDatabase_UnreachableHost(t *testing.T) {
	cfg := &Config{
		Server: ServerConfig{Env: "test"},
		Database: DatabaseConfig{
			Enabled:  true,
			Host:     "127.0.0.1",
			Port:     "1",
			User:     "postgres",
			Password: "postgres",
			DBName:   "placement_copilot",
		},
	}

	db, err := InitDatabase(cfg)
	assert.Nil(t, db)
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "placement_copilot")
	}
}
