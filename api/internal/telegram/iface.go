package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Completer is the LLM side of the bot: single-turn text chat and image
// analysis, both authenticated with the calling user's own key.
type Completer interface {
	Chat(ctx context.Context, apiKey, userText string) (string, error)
	AnalyzeImage(ctx context.Context, apiKey, prompt, imageURL string) (string, error)
}

// BotAPI is the slice of *tgbotapi.BotAPI the router needs.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetFile(config tgbotapi.FileConfig) (tgbotapi.File, error)
}
