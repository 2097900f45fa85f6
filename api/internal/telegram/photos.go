package telegram

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// handlePhoto relays a photo to the vision endpoint. The image is never
// downloaded here: Telegram's file URL is handed to the model directly.
func (r *Router) handlePhoto(ctx context.Context, msg *tgbotapi.Message) {
	cid := msg.Chat.ID
	uid := msg.From.ID

	apiKey, err := r.Sessions.GetKey(ctx, uid)
	if err != nil {
		r.Log.Error("session get key", zap.Int64("user_id", uid), zap.Error(err))
		r.send(cid, storeFailedText)
		return
	}
	if apiKey == "" {
		r.send(cid, noKeyText)
		return
	}

	// largest size is last
	ph := msg.Photo[len(msg.Photo)-1]
	file, err := r.Bot.GetFile(tgbotapi.FileConfig{FileID: ph.FileID})
	if err != nil {
		r.Log.Error("telegram get file", zap.Int64("user_id", uid), zap.Error(err))
		r.send(cid, imageFetchFailedText)
		return
	}
	imageURL := fmt.Sprintf("https://api.telegram.org/file/bot%s/%s", r.Token, file.FilePath)

	prompt := strings.TrimSpace(msg.Caption)
	if prompt == "" {
		prompt = defaultVisionPrompt
	}

	reply, err := r.LLM.AnalyzeImage(ctx, apiKey, prompt, imageURL)
	if err != nil {
		r.Log.Error("vision completion", zap.Int64("user_id", uid), zap.Error(err))
		r.send(cid, visionErrorText(err))
		return
	}
	r.send(cid, reply)
}
