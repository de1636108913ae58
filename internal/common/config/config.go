package config

import (
	"os"
	"strconv"
)

// ============================================================
// Configuration
// ============================================================

type Config struct {
	Port         string
	Environment  string
	ReadTimeout  int
	WriteTimeout int

	LogLevel  string
	LogFormat string

	SnapshotDir string
	DocsPath    string
	BodyLimitMB int

	LayoutURL    string
	ProxyTimeout int
}

// Load reads the configuration from the environment.
func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "3000"),
		Environment:  getEnv("ENV", "development"),
		ReadTimeout:  getEnvAsInt("READ_TIMEOUT", 10),
		WriteTimeout: getEnvAsInt("WRITE_TIMEOUT", 10),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "json"),
		SnapshotDir:  getEnv("SNAPSHOT_DIR", "data/snapshots"),
		DocsPath:     getEnv("DOCS_PATH", "docs/layout.openapi.yaml"),
		BodyLimitMB:  getEnvAsInt("BODY_LIMIT_MB", 4),
		LayoutURL:    getEnv("LAYOUT_URL", "http://localhost:3001"),
		ProxyTimeout: getEnvAsInt("PROXY_TIMEOUT", 15),
	}
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}
