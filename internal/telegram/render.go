package telegram

import (
	"fmt"
	"strings"
	"time"

	"github.com/qwf666/GroupMsgSyncTools/internal/models"
)

const (
	// PreviewLength caps the per-record text preview in query results.
	PreviewLength = 50
	// DisplayLimit caps how many records a single query reply shows.
	DisplayLimit = 10
)

// formatPreview renders a record's body for the query listing: text
// truncated to PreviewLength runes with an ellipsis, or a [type]
// placeholder for non-text messages.
func formatPreview(rec *models.MessageRecord) string {
	if rec.Text == nil || *rec.Text == "" {
		return "[" + rec.MessageType + "]"
	}
	runes := []rune(*rec.Text)
	if len(runes) > PreviewLength {
		return string(runes[:PreviewLength]) + "..."
	}
	return *rec.Text
}

// formatTime renders a millisecond timestamp in local time.
func formatTime(ms int64) string {
	return time.UnixMilli(ms).Format("2006-01-02 15:04:05")
}

// renderStats formats the /stats reply.
func (s *BotService) renderStats(stats models.SyncStats) string {
	lastSync := s.Localizer.GetString(s.Lang, "stats_never")
	if stats.LastSyncTime != nil {
		lastSync = formatTime(*stats.LastSyncTime)
	}
	return s.Localizer.Format(s.Lang, "stats_template",
		stats.TotalMessages, stats.TodayMessages, lastSync)
}

// renderQueryResults formats the /query reply: up to DisplayLimit rows
// plus a remainder count when the match set is larger.
func (s *BotService) renderQueryResults(records []models.MessageRecord) string {
	var b strings.Builder
	b.WriteString(s.Localizer.Format(s.Lang, "query_header", len(records)))

	shown := len(records)
	if shown > DisplayLimit {
		shown = DisplayLimit
	}
	for i := 0; i < shown; i++ {
		rec := &records[i]
		sender := rec.Sender()
		if sender == "" {
			sender = s.Localizer.GetString(s.Lang, "unknown_sender")
		}
		fmt.Fprintf(&b, "%d. [%s] %s: %s\n", i+1, formatTime(rec.Timestamp), sender, formatPreview(rec))
	}

	if len(records) > DisplayLimit {
		b.WriteString(s.Localizer.Format(s.Lang, "query_more", len(records)-DisplayLimit))
	}
	return b.String()
}
