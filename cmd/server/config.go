package main

import (
	"os"
	"strconv"
	"time"

	"github.com/firehistory/backend/internal/presentation"
)

type Config struct {
	DatabaseURL       string
	Port              string
	Env               string
	LogLevel          string
	LogConsole        bool
	OpenAIAPIKey      string
	OpenAIModel       string
	OpenAIBaseURL     string
	RedisAddr         string
	AssistantCacheTTL time.Duration
	OpenBucketMinDays int
	QueryTimeout      time.Duration
	ColorThreshold    float64 // percentage burnt splitting polygon fills; negative keeps one fill
}

func loadConfig() *Config {
	env := getEnv("GO_ENV", "development")
	return &Config{
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		Port:              getEnv("PORT", "8080"),
		Env:               env,
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogConsole:        getBool("LOG_CONSOLE", env == "development"),
		OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL:     getEnv("OPENAI_BASE_URL", ""),
		RedisAddr:         getEnv("REDIS_ADDR", ""),
		AssistantCacheTTL: getDuration("ASSISTANT_CACHE_TTL", 24*time.Hour),
		OpenBucketMinDays: getInt("FIRE_AGE_OPEN_BUCKET_MIN_DAYS", 90),
		QueryTimeout:      getDuration("QUERY_TIMEOUT", 30*time.Second),
		ColorThreshold:    getFloat("MAP_COLOR_THRESHOLD", -1),
	}
}

// MapColor picks the fire polygon fill from ColorThreshold
func (c *Config) MapColor() presentation.ColorFunc {
	if c.ColorThreshold < 0 {
		return presentation.DefaultColor()
	}
	return presentation.ThresholdColor(c.ColorThreshold, presentation.FireOrange, presentation.FireRed)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return defaultValue
}

func getFloat(key string, defaultValue float64) float64 {
	if f, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return f
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d > 0 {
		return d
	}
	return defaultValue
}
