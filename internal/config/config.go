package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DatabaseURL string

	// Redis
	RedisURL string

	// Gemini AI. An empty key disables phrase generation and chat
	// suggestions instead of failing startup.
	GeminiAPIKey string

	// Agent jobs
	AgentsEnabled   bool
	SchedulerTZ     string
	GeneratorHour   int
	GeneratorMinute int
	ScraperHour     int
	ScraperMinute   int

	// Frontend
	FrontendURL string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:            getEnvOrDefault("PORT", "8080"),
		Env:             getEnvOrDefault("ENV", "development"),
		DatabaseURL:     mustGetEnv("DATABASE_URL"),
		RedisURL:        mustGetEnv("REDIS_URL"),
		GeminiAPIKey:    getEnvOrDefault("GEMINI_API_KEY", ""),
		AgentsEnabled:   getEnvAsBoolOrDefault("AGENTS_ENABLED", true),
		SchedulerTZ:     getEnvOrDefault("SCHEDULER_TZ", "Asia/Shanghai"),
		GeneratorHour:   getEnvAsIntOrDefault("GENERATOR_HOUR", 8),
		GeneratorMinute: getEnvAsIntOrDefault("GENERATOR_MINUTE", 0),
		ScraperHour:     getEnvAsIntOrDefault("SCRAPER_HOUR", 8),
		ScraperMinute:   getEnvAsIntOrDefault("SCRAPER_MINUTE", 5),
		FrontendURL:     getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"),
	}

	return cfg
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

func getEnvAsBoolOrDefault(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}
