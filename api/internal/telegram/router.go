package telegram

import (
	"context"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"grok-vision-bot/api/internal/store"
)

// Telegram rejects messages over 4096 chars; chunk a bit below that.
const maxMessageLen = 4000

type Router struct {
	Bot      BotAPI
	Token    string
	LLM      Completer
	Sessions store.SessionStore
	Log      *zap.Logger

	locks sync.Map // userID -> *sync.Mutex
}

// HandleUpdate processes one Telegram update. Whatever happens inside
// stays inside: a fault in one update must not take down the polling
// loop or the webhook server.
func (r *Router) HandleUpdate(upd tgbotapi.Update) {
	defer func() {
		if p := recover(); p != nil {
			r.Log.Error("handler panic",
				zap.Int("update_id", upd.UpdateID),
				zap.Any("panic", p))
		}
	}()

	// Callback queries, edits, member events and channel posts are not
	// message traffic for this bot.
	if upd.Message == nil {
		return
	}
	msg := upd.Message
	if msg.From == nil {
		return
	}

	ctx := context.Background()
	switch {
	case msg.Text != "":
		r.handleText(ctx, msg)
	case len(msg.Photo) > 0:
		r.handlePhoto(ctx, msg)
	}
	// Stickers, documents, voice and the rest are ignored.
}

// send delivers text to a chat, splitting into consecutive chunks when
// it exceeds the Telegram limit. Chunks are counted in runes so
// multi-byte text never breaks mid-character.
func (r *Router) send(chatID int64, text string) {
	runes := []rune(text)
	if len(runes) <= maxMessageLen {
		r.sendRaw(chatID, text)
		return
	}
	for i := 0; i < len(runes); i += maxMessageLen {
		end := i + maxMessageLen
		if end > len(runes) {
			end = len(runes)
		}
		r.sendRaw(chatID, string(runes[i:end]))
	}
}

// sendRaw performs one sendMessage call. A failed send is logged and
// swallowed so the remaining chunks still go out.
func (r *Router) sendRaw(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := r.Bot.Send(msg); err != nil {
		r.Log.Error("send message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
