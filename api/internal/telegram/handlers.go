package telegram

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

func (r *Router) handleText(ctx context.Context, msg *tgbotapi.Message) {
	cid := msg.Chat.ID
	uid := msg.From.ID
	text := strings.TrimSpace(msg.Text)

	// Recognized commands win over everything, including a pending key.
	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			r.send(cid, startText)
			return
		case "set_api_key":
			r.markPending(ctx, cid, uid)
			return
		case "forget_key":
			r.forgetKey(ctx, cid, uid)
			return
		}
		// Anything else is not a command of this bot; treat as plain text.
	}

	if r.captureKeyIfPending(ctx, cid, uid, text) {
		return
	}

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

	reply, err := r.LLM.Chat(ctx, apiKey, text)
	if err != nil {
		r.Log.Error("chat completion", zap.Int64("user_id", uid), zap.Error(err))
		r.send(cid, chatErrorText(err))
		return
	}
	r.send(cid, reply)
}

func (r *Router) markPending(ctx context.Context, chatID, userID int64) {
	var err error
	r.withUserLock(userID, func() {
		err = r.Sessions.MarkPending(ctx, userID)
	})

	if err != nil {
		r.Log.Error("session mark pending", zap.Int64("user_id", userID), zap.Error(err))
		r.send(chatID, storeFailedText)
		return
	}
	r.send(chatID, setKeyText)
}

// forgetKey drops both the key and the pending marker. Confirmed even
// when nothing was stored.
func (r *Router) forgetKey(ctx context.Context, chatID, userID int64) {
	var keyErr, pendingErr error
	r.withUserLock(userID, func() {
		keyErr = r.Sessions.DeleteKey(ctx, userID)
		pendingErr = r.Sessions.ClearPending(ctx, userID)
	})

	if keyErr != nil || pendingErr != nil {
		r.Log.Error("session forget",
			zap.Int64("user_id", userID),
			zap.NamedError("key_err", keyErr),
			zap.NamedError("pending_err", pendingErr))
		r.send(chatID, storeFailedText)
		return
	}
	r.send(chatID, keyRemovedText)
}

// captureKeyIfPending stores text as the user's API key when they just
// ran /set_api_key. Reports whether the message was consumed. The
// pending marker is cleared even if the write fails, so a bad store
// never traps the user in key-entry mode. The key text itself is never
// logged. Sends happen after the lock is released.
func (r *Router) captureKeyIfPending(ctx context.Context, chatID, userID int64, text string) bool {
	var pending bool
	var checkErr, saveErr error
	r.withUserLock(userID, func() {
		pending, checkErr = r.Sessions.IsPending(ctx, userID)
		if checkErr != nil || !pending {
			return
		}

		saveErr = r.Sessions.SetKey(ctx, userID, text)
		if err := r.Sessions.ClearPending(ctx, userID); err != nil {
			r.Log.Error("session clear pending", zap.Int64("user_id", userID), zap.Error(err))
		}
	})

	if checkErr != nil {
		r.Log.Error("session pending check", zap.Int64("user_id", userID), zap.Error(checkErr))
		r.send(chatID, storeFailedText)
		return true
	}
	if !pending {
		return false
	}

	if saveErr != nil {
		r.Log.Error("session save key", zap.Int64("user_id", userID), zap.Error(saveErr))
		r.send(chatID, storeFailedText)
		return true
	}
	r.send(chatID, keySavedText)
	return true
}
