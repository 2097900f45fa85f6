package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		envValue     string
		expected     string
	}{
		{
			name:         "env variable set",
			key:          "TEST_KEY",
			defaultValue: "default",
			envValue:     "custom",
			expected:     "custom",
		},
		{
			name:         "env variable not set",
			key:          "TEST_KEY_NOT_SET",
			defaultValue: "default",
			envValue:     "",
			expected:     "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.envValue)

			result := getEnv(tt.key, tt.defaultValue)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestLoad_MissingToken(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")

	cfg, err := Load()
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "TELEGRAM_BOT_TOKEN")
}

func TestLoad_WithDefaults(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:test-token")
	t.Setenv("PORT", "")
	t.Setenv("OPENROUTER_MODEL", "")
	t.Setenv("OPENROUTER_REFERRER", "")
	t.Setenv("OPENROUTER_TITLE", "")
	t.Setenv("SESSION_BACKEND", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("REDIS_DB", "")
	t.Setenv("WEBHOOK_URL", "")

	cfg, err := Load()
	assert.NoError(t, err)
	assert.NotNil(t, cfg)
	assert.Equal(t, "123:test-token", cfg.TelegramBotToken)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "x-ai/grok-4.1-fast:free", cfg.OpenRouterModel)
	assert.Equal(t, "", cfg.OpenRouterReferrer)
	assert.Equal(t, "Telegram Grok Vision Bot", cfg.OpenRouterTitle)
	assert.Equal(t, "memory", cfg.SessionBackend)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, "", cfg.WebhookURL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "  123:trimmed  ")
	t.Setenv("OPENROUTER_MODEL", "x-ai/grok-4")
	t.Setenv("OPENROUTER_REFERRER", "https://example.com")
	t.Setenv("SESSION_BACKEND", "Redis")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("WEBHOOK_URL", "https://bot.example.com")

	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, "123:trimmed", cfg.TelegramBotToken)
	assert.Equal(t, "x-ai/grok-4", cfg.OpenRouterModel)
	assert.Equal(t, "https://example.com", cfg.OpenRouterReferrer)
	assert.Equal(t, "redis", cfg.SessionBackend)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, "https://bot.example.com", cfg.WebhookURL)
}

func TestLoad_BadRedisDB(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:test-token")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg, err := Load()
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "REDIS_DB")
}
