package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Gemini    GeminiConfig
	Storage   StorageConfig
	Worker    WorkerConfig
	Auth      AuthConfig
	Progress  ProgressConfig
	Workspace WorkspaceConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Enabled  bool
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type GeminiConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

type StorageConfig struct {
	MaxFileSize int64
}

type WorkerConfig struct {
	Concurrency int
	QueueSize   int
}

type AuthConfig struct {
	JWTSecret         string
	TokenTTL          time.Duration
	VerificationTTL   time.Duration
	BcryptCost        int
	PublicURL         string
	AuthorizedDomains []string
}

// ProgressConfig drives the cosmetic progress indicator shown while an
// analysis is in flight.
type ProgressConfig struct {
	TickInterval  time.Duration
	StageInterval time.Duration
	Ceiling       int
	Pause         time.Duration
}

type WorkspaceConfig struct {
	TTL           time.Duration
	SweepInterval time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	publicURL := getEnv("PUBLIC_URL", "http://localhost:3000")

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Enabled:  getEnvAsBool("DB_ENABLED", true),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "placement_copilot"),
		},
		Gemini: GeminiConfig{
			APIKey:  getEnv("GEMINI_API_KEY", ""),
			Model:   getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			Timeout: getEnvAsDuration("GEMINI_TIMEOUT", "60s"),
		},
		Storage: StorageConfig{
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 5*1024*1024),
		},
		Worker: WorkerConfig{
			Concurrency: getEnvAsInt("WORKER_CONCURRENCY", 4),
			QueueSize:   getEnvAsInt("WORKER_QUEUE_SIZE", 100),
		},
		Auth: AuthConfig{
			JWTSecret:         getEnv("JWT_SECRET", "change-me-in-production-at-least-32-bytes"),
			TokenTTL:          getEnvAsDuration("TOKEN_TTL", "168h"),
			VerificationTTL:   getEnvAsDuration("VERIFICATION_TTL", "24h"),
			BcryptCost:        getEnvAsInt("BCRYPT_COST", 12),
			PublicURL:         publicURL,
			AuthorizedDomains: getEnvAsList("AUTHORIZED_DOMAINS", hostOf(publicURL)),
		},
		Progress: ProgressConfig{
			TickInterval:  getEnvAsDuration("PROGRESS_TICK", "50ms"),
			StageInterval: getEnvAsDuration("PROGRESS_STAGE_TICK", "1s"),
			Ceiling:       getEnvAsInt("PROGRESS_CEILING", 95),
			Pause:         getEnvAsDuration("PROGRESS_PAUSE", "1s"),
		},
		Workspace: WorkspaceConfig{
			TTL:           getEnvAsDuration("WORKSPACE_TTL", "2h"),
			SweepInterval: getEnvAsDuration("WORKSPACE_SWEEP_INTERVAL", "5m"),
		},
	}
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}

func getEnvAsList(key string, defaultValue string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, defaultValue), ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// hostOf strips scheme, port and path from a URL-ish string.
func hostOf(rawURL string) string {
	host := rawURL
	if i := strings.Index(host, "://"); i >= 0 {
		host = host[i+3:]
	}
	if i := strings.IndexAny(host, ":/"); i >= 0 {
		host = host[:i]
	}
	return host
}
