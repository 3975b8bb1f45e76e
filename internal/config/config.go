package config

import (
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Task store backends.
const (
	StoreREST     = "rest"
	StorePostgres = "postgres"
)

// Config holds application configuration from environment.
type Config struct {
	HTTPPort string
	LogLevel string

	BackendURL     string
	BackendAnonKey string
	// BackendJWTSecret verifies access tokens locally; empty leaves verification to the backend.
	BackendJWTSecret string
	BackendTimeout   time.Duration

	TaskStore        string
	DatabaseURL      string
	DBPoolSize       int
	EnforceOwnership bool

	SessionCookie string
	CookieSecure  bool

	RedisURL      string
	RedisPoolSize int
	FlashTTL      int // seconds

	KafkaBrokers    []string
	KafkaTopic      string
	KafkaPartitions int
}

var (
	cfg     *Config
	cfgOnce sync.Once
)

// Get returns the application config (loads once from env).
func Get() *Config {
	cfgOnce.Do(func() {
		cfg = Load()
	})
	return cfg
}

// Load reads a fresh Config from the environment.
func Load() *Config {
	return &Config{
		HTTPPort:         getEnv("HTTP_PORT", "8080"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		BackendURL:       strings.TrimRight(os.Getenv("BACKEND_URL"), "/"),
		BackendAnonKey:   os.Getenv("BACKEND_ANON_KEY"),
		BackendJWTSecret: os.Getenv("BACKEND_JWT_SECRET"),
		BackendTimeout:   time.Duration(getIntEnv("BACKEND_TIMEOUT_SEC", 10)) * time.Second,
		TaskStore:        strings.ToLower(getEnv("TASK_STORE", StoreREST)),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		DBPoolSize:       getIntEnv("DB_POOL_SIZE", 10),
		EnforceOwnership: getBoolEnv("ENFORCE_OWNERSHIP", true),
		SessionCookie:    getEnv("SESSION_COOKIE", "sb-access-token"),
		CookieSecure:     getBoolEnv("COOKIE_SECURE", false),
		RedisURL:         os.Getenv("REDIS_URL"),
		RedisPoolSize:    getIntEnv("REDIS_POOL_SIZE", 10),
		FlashTTL:         getIntEnv("FLASH_TTL_SEC", 60),
		KafkaBrokers:     getSliceEnv("KAFKA_BROKERS"),
		KafkaTopic:       getEnv("KAFKA_TASK_TOPIC", "task-activity"),
		KafkaPartitions:  getIntEnv("KAFKA_PARTITIONS", 3),
	}
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getIntEnv(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

func getBoolEnv(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultVal
}

// getSliceEnv splits a comma separated list; unset means no entries.
func getSliceEnv(key string) []string {
	var out []string
	for _, s := range strings.Split(os.Getenv(key), ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
