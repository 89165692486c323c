// Package config loads goldpen configuration from the environment.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds all application configuration.
type Config struct {
	// OpenAI
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	// MongoDB
	MongoURI string
	MongoDB  string

	// HTTP server
	HTTPAddr string

	// Scheduler
	GenerateHour     int
	SnapshotInterval time.Duration

	// Kitco scraper
	KitcoBaseURL string

	// Misc
	Debug bool
}

// Load reads configuration from environment variables. A .env file is
// loaded first when present.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	return &Config{
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-3.5-turbo"),

		MongoURI: getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:  getEnv("MONGO_DB", "goldpen"),

		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),

		GenerateHour:     getEnvInt("GENERATE_HOUR", 1),
		SnapshotInterval: getEnvDuration("SNAPSHOT_INTERVAL", 30*time.Minute),

		KitcoBaseURL: getEnv("KITCO_BASE_URL", ""),

		Debug: getEnvBool("DEBUG", false),
	}
}

// Validate warns about configuration that will degrade functionality.
func (c *Config) Validate() {
	if c.OpenAIAPIKey == "" {
		log.Warn().Msg("OPENAI_API_KEY is not set, article generation will fail")
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
		log.Warn().Str("key", key).Str("value", value).Msg("Invalid integer value, using default")
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
		log.Warn().Str("key", key).Str("value", value).Msg("Invalid boolean value, using default")
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
		log.Warn().Str("key", key).Str("value", value).Msg("Invalid duration value, using default")
	}
	return defaultValue
}
