package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Client wraps the Bot API send operations the relay pipeline consumes.
// It implements relay.Forwarder.
type Client struct {
	BotAPI *tgbotapi.BotAPI
}

// NewClient creates a transport client over an authorized bot.
func NewClient(bot *tgbotapi.BotAPI) *Client {
	return &Client{BotAPI: bot}
}

// ForwardMessage forwards a message by its transport ID from the source
// chat to the target chat, preserving media and attribution.
func (c *Client) ForwardMessage(targetChatID, sourceChatID int64, messageID int) error {
	fwd := tgbotapi.NewForward(targetChatID, sourceChatID, messageID)
	_, err := c.BotAPI.Send(fwd)
	return err
}

// SendMessage sends a plain-text message to the given chat.
func (c *Client) SendMessage(chatID int64, text string) error {
	_, err := c.BotAPI.Send(tgbotapi.NewMessage(chatID, text))
	return err
}
