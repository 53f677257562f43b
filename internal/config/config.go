package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	AppEnv             string
	Port               string
	LogLevel           string
	LogFormat          string
	RedisURL           string
	SentimentThreshold float64
	AlertCooldown      time.Duration
	MaxConcurrent      int
	ProcessTimeout     time.Duration
	RoutingConfigPath  string
}

func Load() (*Config, error) {
	cfg := &Config{
		AppEnv:            getEnv("APP_ENV", "development"),
		Port:              getEnv("PORT", "8080"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFormat:         getEnv("LOG_FORMAT", "text"),
		RedisURL:          getEnv("REDIS_URL", ""),
		RoutingConfigPath: getEnv("ROUTING_CONFIG", ""),
	}

	var err error
	cfg.SentimentThreshold, err = getEnvFloat("SENTIMENT_THRESHOLD", 0.3)
	if err != nil {
		return nil, err
	}
	if cfg.SentimentThreshold <= 0 || cfg.SentimentThreshold > 1 {
		return nil, fmt.Errorf("SENTIMENT_THRESHOLD must be in (0,1], got %v", cfg.SentimentThreshold)
	}

	cooldownMinutes, err := getEnvInt("ALERT_COOLDOWN_MINUTES", 15)
	if err != nil {
		return nil, err
	}
	if cooldownMinutes < 1 {
		return nil, fmt.Errorf("ALERT_COOLDOWN_MINUTES must be at least 1, got %d", cooldownMinutes)
	}
	cfg.AlertCooldown = time.Duration(cooldownMinutes) * time.Minute

	cfg.MaxConcurrent, err = getEnvInt("MAX_CONCURRENT", 10)
	if err != nil {
		return nil, err
	}
	if cfg.MaxConcurrent < 1 {
		return nil, fmt.Errorf("MAX_CONCURRENT must be at least 1, got %d", cfg.MaxConcurrent)
	}

	timeoutSeconds, err := getEnvInt("PROCESS_TIMEOUT_SECONDS", 5)
	if err != nil {
		return nil, err
	}
	if timeoutSeconds < 1 {
		return nil, fmt.Errorf("PROCESS_TIMEOUT_SECONDS must be at least 1, got %d", timeoutSeconds)
	}
	cfg.ProcessTimeout = time.Duration(timeoutSeconds) * time.Second

	switch cfg.LogFormat {
	case "text", "json":
	default:
		return nil, fmt.Errorf("LOG_FORMAT must be \"text\" or \"json\", got %q", cfg.LogFormat)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return value, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %w", key, err)
	}
	return value, nil
}
