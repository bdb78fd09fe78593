package models

// Message types recognized by the ingest classifier. Anything that does
// not carry one of the known content fields is stored as TypeUnknown.
const (
	TypeText      = "text"
	TypePhoto     = "photo"
	TypeVideo     = "video"
	TypeDocument  = "document"
	TypeAudio     = "audio"
	TypeVoice     = "voice"
	TypeSticker   = "sticker"
	TypeVideoNote = "video_note"
	TypeAnimation = "animation"
	TypeUnknown   = "unknown"
)

// MessageRecord represents one observed inbound message in the SQLite
// database. Records are append-only: the single permitted mutation is the
// synced=false -> synced=true transition performed by MarkSynced.
type MessageRecord struct {
	// ID is the store-assigned primary key, monotonically increasing.
	ID int64 `gorm:"primaryKey;autoIncrement"`
	// MessageID is the Telegram message ID, scoped per chat.
	MessageID int `gorm:"not null;index:idx_message_id"`
	// ChatID is the Telegram chat the message was observed in.
	ChatID int64 `gorm:"not null;index:idx_chat_id"`
	// FromUserID is the sender's Telegram user ID, if known.
	FromUserID *int64
	// FromUsername is the sender's @username, if set.
	FromUsername *string
	// FromFirstName is the sender's first name, if set.
	FromFirstName *string
	// Text is the plain-text body; nil for non-text message types.
	Text *string
	// MessageType is one of the Type* constants above.
	MessageType string `gorm:"not null"`
	// Timestamp is the message origin time in milliseconds since epoch.
	Timestamp int64 `gorm:"not null;index:idx_timestamp"`
	// Synced reports whether forwarding to the target chat was confirmed.
	Synced bool `gorm:"not null;default:false;index:idx_synced"`
	// SyncTimestamp is set exactly once, when Synced flips to true.
	SyncTimestamp *int64
}

// TableName - set the table name.
func (MessageRecord) TableName() string {
	return "messages"
}

// Sender returns the best available display name for the record's sender.
func (r *MessageRecord) Sender() string {
	if r.FromFirstName != nil && *r.FromFirstName != "" {
		return *r.FromFirstName
	}
	if r.FromUsername != nil && *r.FromUsername != "" {
		return *r.FromUsername
	}
	return ""
}

// SyncStats holds the aggregate counters rendered by the /stats command.
// Only synced records are counted.
type SyncStats struct {
	TotalMessages int64  `json:"total_messages"`
	TodayMessages int64  `json:"today_messages"`
	LastSyncTime  *int64 `json:"last_sync_time,omitempty"`
}
