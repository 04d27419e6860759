package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreDriverMemory   = "memory"
	StoreDriverPostgres = "postgres"
	StoreDriverRedis    = "redis"
	StoreDriverSQLite   = "sqlite"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Store     StoreConfig
	Scheduler SchedulerConfig
	Ai        AIConfig
	Events    EventsConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	WsLogFilePath      string
	CorsAllowedOrigins string
	JwtSecret          string
	OtelEnabled        bool
}

type DatabaseConfig struct {
	Connection string
}

type StoreConfig struct {
	Driver        string
	SQLitePath    string
	RedisURL      string
	RedisKey      string
	MemoryLatency time.Duration
	PlanTTL       time.Duration
}

type SchedulerConfig struct {
	Debounce    time.Duration
	SaveTimeout time.Duration
}

type AIConfig struct {
	LLMProvider       string // "ollama" or "huggingface"
	LLMModel          string
	OllamaBaseURL     string
	HuggingFaceAPIKey string
}

type EventsConfig struct {
	Topic    string
	NatsURL  string
	RedisURL string
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	// An empty REDIS_URL disables hub fan-out but the redis store driver still needs an address.
	redisURL := getEnv("REDIS_URL", "")
	storeRedisURL := redisURL
	if storeRedisURL == "" {
		storeRedisURL = "redis://localhost:6379"
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			WsLogFilePath:      getEnv("WS_LOG_FILE_PATH", "logs/websocket.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			JwtSecret:          getEnv("JWT_SECRET", ""),
			OtelEnabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Store: StoreConfig{
			Driver:        strings.ToLower(getEnv("STORE_DRIVER", StoreDriverMemory)),
			SQLitePath:    getEnv("SQLITE_PATH", "data/workspace.db"),
			RedisURL:      storeRedisURL,
			RedisKey:      getEnv("REDIS_WORKSPACE_KEY", "cogniflow:workspace:items"),
			MemoryLatency: getEnvAsDuration("MEMORY_STORE_LATENCY_MS", 500*time.Millisecond, time.Millisecond),
			PlanTTL:       getEnvAsDuration("PLAN_TTL_MINUTES", 30*time.Minute, time.Minute),
		},
		Scheduler: SchedulerConfig{
			Debounce:    getEnvAsDuration("SAVE_DEBOUNCE_MS", 1500*time.Millisecond, time.Millisecond),
			SaveTimeout: getEnvAsDuration("SAVE_TIMEOUT_MS", 10*time.Second, time.Millisecond),
		},
		Ai: AIConfig{
			LLMProvider:       getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:          getEnv("LLM_MODEL", "llama3"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			HuggingFaceAPIKey: getEnv("HUGGINGFACE_API_KEY", ""),
		},
		Events: EventsConfig{
			Topic:    getEnv("EVENTS_TOPIC", "workspace_events"),
			NatsURL:  getEnv("NATS_URL", ""),
			RedisURL: redisURL,
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration reads an integer count of unit. Negative values fall back.
func getEnvAsDuration(key string, fallback, unit time.Duration) time.Duration {
	n := getEnvAsInt(key, -1)
	if n < 0 {
		return fallback
	}
	return time.Duration(n) * unit
}
