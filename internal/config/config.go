package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port           int
	Environment    string
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	Username        string
	Password        string
	Database        string
	Schema          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
}

type LogConfig struct {
	Level string
}

// Load reads the configuration from the environment. A .env file in the
// working directory is picked up by godotenv before any lookup happens.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           getEnvAsInt("PORT", 8080),
			Environment:    getEnv("APP_ENV", "development"),
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"https://*", "http://*"}),
		},
		Database: DatabaseConfig{
			Host:            getEnv("BLUEPRINT_DB_HOST", "localhost"),
			Port:            getEnvAsInt("BLUEPRINT_DB_PORT", 5432),
			Username:        getEnv("BLUEPRINT_DB_USERNAME", "postgres"),
			Password:        getEnv("BLUEPRINT_DB_PASSWORD", "postgres"),
			Database:        getEnv("BLUEPRINT_DB_DATABASE", "taskboard"),
			Schema:          getEnv("BLUEPRINT_DB_SCHEMA", "public"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 100),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", time.Hour),
			AutoMigrate:     getEnvAsBool("DB_AUTO_MIGRATE", false),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}
}

// IsDevelopment reports whether the app runs with developer defaults
// (console logging, verbose SQL).
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

// DSN builds the libpq style connection string used by the postgres dialector.
func (c DatabaseConfig) DSN() string {
	parts := []string{
		"host=" + c.Host,
		"user=" + c.Username,
		"password=" + c.Password,
		"dbname=" + c.Database,
		"port=" + strconv.Itoa(c.Port),
		"sslmode=" + c.SSLMode,
	}
	if c.Schema != "" {
		parts = append(parts, "search_path="+c.Schema)
	}
	return strings.Join(parts, " ")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var values []string
	for _, v := range strings.Split(valueStr, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return defaultValue
	}
	return values
}
