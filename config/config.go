package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPort           = "8080"
	defaultDatabasePath   = "dwh.db"
	defaultMaxBodyBytes   = 1 << 20
	defaultRequestTimeout = 60

	// room for the timeout middleware to write its 504 before the server
	// drops the connection
	writeTimeoutMargin = 5 * time.Second
)

type Config struct {
	// HTTP listener port
	Port string

	// database path, without driver parameters
	DatabasePath string

	// origins allowed by the CORS handler; "*" allows any
	CORSAllowedOrigins []string

	// run the whole ingestion sequence in one transaction
	AtomicIngestion bool

	// request limits
	MaxBodyBytes   int64
	RequestTimeout time.Duration

	// log levels, parsed by the logging package
	LogLevel   string
	DBLogLevel string
}

// WriteTimeout is the http.Server write deadline. It outlasts RequestTimeout
// so handlers that run out of time still get a response to the client.
func (c Config) WriteTimeout() time.Duration {
	return c.RequestTimeout + writeTimeoutMargin
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvIntOrDefault(envVar string, defaultVal int) int {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		slog.Warn("Invalid integer setting, using default", "var", envVar, "value", valStr, "default", defaultVal, "error", err)
		return defaultVal
	}
	return val
}

func getEnvBoolOrDefault(envVar string, defaultVal bool) bool {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.ParseBool(valStr)
	if err != nil {
		slog.Warn("Invalid boolean setting, using default", "var", envVar, "value", valStr, "default", defaultVal)
		return defaultVal
	}
	return val
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func LoadConfig() (Config, error) {
	dbPath := getEnvOrDefault("DATABASE_PATH", defaultDatabasePath)
	if strings.Contains(dbPath, "?") {
		return Config{}, fmt.Errorf("DATABASE_PATH must be a plain file path, got '%s'", dbPath)
	}
	if dbPath != ":memory:" {
		absDB, err := filepath.Abs(dbPath)
		if err != nil {
			return Config{}, fmt.Errorf("failed to get absolute path for database '%s': %w", dbPath, err)
		}
		dbPath = absDB
	}

	port := getEnvOrDefault("PORT", defaultPort)
	if n, err := strconv.Atoi(port); err != nil || n <= 0 || n > 65535 {
		return Config{}, fmt.Errorf("invalid PORT '%s'", port)
	}

	origins := splitList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "*"))
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	cfg := Config{
		Port:               port,
		DatabasePath:       dbPath,
		CORSAllowedOrigins: origins,
		AtomicIngestion:    getEnvBoolOrDefault("INGEST_ATOMIC", false),
		MaxBodyBytes:       int64(getEnvIntOrDefault("MAX_BODY_BYTES", defaultMaxBodyBytes)),
		RequestTimeout:     time.Duration(getEnvIntOrDefault("REQUEST_TIMEOUT_SECONDS", defaultRequestTimeout)) * time.Second,
		LogLevel:           getEnvOrDefault("LOG_LEVEL", "info"),
		DBLogLevel:         getEnvOrDefault("DB_LOG_LEVEL", "warn"),
	}

	return cfg, nil
}
