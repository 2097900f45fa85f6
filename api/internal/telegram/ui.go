package telegram

import (
	"errors"
	"fmt"

	"grok-vision-bot/api/internal/openrouter"
)

// Fixed reply texts. All messages go out as plain text, so the asterisks
// render literally, same as the bot has always behaved.
const (
	startText = "👋 Hi! I’m a Grok-powered bot via OpenRouter.\n\n" +
		"I can:\n" +
		"• Chat with you using text\n" +
		"• Analyze images you send (photos)\n\n" +
		"To use me, you need *your own* OpenRouter API key:\n" +
		"1️⃣ Get an API key from OpenRouter.\n" +
		"2️⃣ Use /set_api_key and send me your key.\n" +
		"3️⃣ Then send text or photos and I’ll use Grok to respond.\n\n" +
		"You can remove your key with /forget_key."

	setKeyText = "🔑 Please send me your *OpenRouter API key* as the **next message**.\n\n" +
		"It will be kept only in memory in this simple version " +
		"(if the bot restarts, you’ll need to set it again).\n\n" +
		"You can clear it later with /forget_key."

	keySavedText   = "✅ Your OpenRouter API key has been saved."
	keyRemovedText = "✅ Your stored API key has been removed."

	noKeyText = "⚠️ You haven’t set an OpenRouter API key yet.\nUse /set_api_key first."

	imageFetchFailedText = "❌ Couldn’t fetch the image from Telegram."

	storeFailedText = "❌ Couldn’t access your session right now. Please try again."

	apiErrorPrefix    = "❌ OpenRouter error "
	chatErrorPrefix   = "❌ Error talking to Grok: "
	visionErrorPrefix = "❌ Error while analyzing the image: "

	defaultVisionPrompt = "Describe this image in detail and point out anything interesting or unusual."
)

// A non-2xx answer from OpenRouter is shown with its status and body;
// transport failures get the per-operation wording.
func chatErrorText(err error) string {
	var se *openrouter.StatusError
	if errors.As(err, &se) {
		return fmt.Sprintf("%s%d: %s", apiErrorPrefix, se.Code, se.Body)
	}
	return chatErrorPrefix + err.Error()
}

func visionErrorText(err error) string {
	var se *openrouter.StatusError
	if errors.As(err, &se) {
		return fmt.Sprintf("%s%d: %s", apiErrorPrefix, se.Code, se.Body)
	}
	return visionErrorPrefix + err.Error()
}
