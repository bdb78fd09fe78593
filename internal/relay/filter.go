// Package relay implements the message intake -> persistence ->
// forwarding pipeline between the source and target chats.
package relay

import (
	"strings"

	"github.com/qwf666/GroupMsgSyncTools/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Eligible decides whether an inbound message should be relayed. Messages
// are rejected when they come from a chat other than the configured
// source, when the sender is a bot account, or when they are commands
// (commands go through the dispatch layer instead). Pure, no I/O.
func Eligible(msg *tgbotapi.Message, sourceChatID int64) bool {
	if msg == nil || msg.Chat == nil {
		return false
	}
	if msg.Chat.ID != sourceChatID {
		return false
	}
	if msg.From != nil && msg.From.IsBot {
		return false
	}
	if msg.Text != "" && strings.HasPrefix(msg.Text, "/") {
		return false
	}
	return true
}

// ClassifyMessage maps a message to one of the stored message types by
// inspecting which content field is present.
func ClassifyMessage(msg *tgbotapi.Message) string {
	switch {
	case msg.Text != "":
		return models.TypeText
	case msg.Photo != nil:
		return models.TypePhoto
	case msg.Video != nil:
		return models.TypeVideo
	case msg.Document != nil:
		return models.TypeDocument
	case msg.Audio != nil:
		return models.TypeAudio
	case msg.Voice != nil:
		return models.TypeVoice
	case msg.Sticker != nil:
		return models.TypeSticker
	case msg.VideoNote != nil:
		return models.TypeVideoNote
	case msg.Animation != nil:
		return models.TypeAnimation
	default:
		return models.TypeUnknown
	}
}

// RecordFromMessage builds the MessageRecord persisted for an eligible
// inbound message. Telegram reports the message date in seconds; records
// store milliseconds.
func RecordFromMessage(msg *tgbotapi.Message) *models.MessageRecord {
	record := &models.MessageRecord{
		MessageID:   msg.MessageID,
		ChatID:      msg.Chat.ID,
		MessageType: ClassifyMessage(msg),
		Timestamp:   int64(msg.Date) * 1000,
	}

	if msg.From != nil {
		userID := msg.From.ID
		record.FromUserID = &userID
		if msg.From.UserName != "" {
			username := msg.From.UserName
			record.FromUsername = &username
		}
		if msg.From.FirstName != "" {
			firstName := msg.From.FirstName
			record.FromFirstName = &firstName
		}
	}

	if msg.Text != "" {
		text := msg.Text
		record.Text = &text
	}

	return record
}
