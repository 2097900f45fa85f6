package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds everything the bot reads from the environment.
type Config struct {
	Port string

	TelegramBotToken string
	WebhookURL       string

	OpenRouterModel    string
	OpenRouterReferrer string
	OpenRouterTitle    string

	// memory | postgres | redis
	SessionBackend string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Load reads configuration from the environment, with .env support.
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	redisDB := 0
	if v := strings.TrimSpace(os.Getenv("REDIS_DB")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("REDIS_DB must be a number: %w", err)
		}
		redisDB = n
	}

	cfg := &Config{
		Port: getEnv("PORT", "8080"),

		TelegramBotToken: strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN")),
		WebhookURL:       strings.TrimSpace(os.Getenv("WEBHOOK_URL")),

		OpenRouterModel:    getEnv("OPENROUTER_MODEL", "x-ai/grok-4.1-fast:free"),
		OpenRouterReferrer: os.Getenv("OPENROUTER_REFERRER"),
		OpenRouterTitle:    getEnv("OPENROUTER_TITLE", "Telegram Grok Vision Bot"),

		SessionBackend: strings.ToLower(getEnv("SESSION_BACKEND", "memory")),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,
	}

	if cfg.TelegramBotToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	return cfg, nil
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
