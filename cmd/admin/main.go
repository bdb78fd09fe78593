// Admin CLI for the message store: inspect sync statistics, list records
// the relay pipeline left unsynced, and re-drive them through delivery.
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/qwf666/GroupMsgSyncTools/internal/config"
	"github.com/qwf666/GroupMsgSyncTools/internal/localization"
	"github.com/qwf666/GroupMsgSyncTools/internal/relay"
	"github.com/qwf666/GroupMsgSyncTools/internal/storage"
	"github.com/qwf666/GroupMsgSyncTools/internal/telegram"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer store.Close()

	if len(os.Args) < 2 {
		fmt.Println("Usage: admin <stats|unsynced|resync> [limit]")
		os.Exit(1)
	}

	limit := 0
	if len(os.Args) > 2 {
		limit, err = strconv.Atoi(os.Args[2])
		if err != nil || limit < 0 {
			fmt.Println("Invalid limit. Please provide a non-negative integer.")
			os.Exit(1)
		}
	}

	switch os.Args[1] {
	case "stats":
		printStats(store)
	case "unsynced":
		printUnsynced(store, limit)
	case "resync":
		resync(cfg, store, limit)
	default:
		fmt.Println("Unknown command")
		os.Exit(1)
	}
}

func printStats(store storage.Storage) {
	stats, err := store.GetStats()
	if err != nil {
		log.Fatalf("Error getting stats: %v", err)
	}
	fmt.Printf("Total synced messages: %d\n", stats.TotalMessages)
	fmt.Printf("Today's messages:      %d\n", stats.TodayMessages)
	if stats.LastSyncTime != nil {
		fmt.Printf("Last sync time:        %s\n", time.UnixMilli(*stats.LastSyncTime).Format(time.RFC3339))
	} else {
		fmt.Println("Last sync time:        never")
	}
}

func printUnsynced(store storage.Storage, limit int) {
	records, err := store.ListUnsynced(limit)
	if err != nil {
		log.Fatalf("Error listing unsynced messages: %v", err)
	}
	if len(records) == 0 {
		fmt.Println("No unsynced messages.")
		return
	}
	for _, rec := range records {
		fmt.Printf("#%d message=%d chat=%d type=%s time=%s\n",
			rec.ID, rec.MessageID, rec.ChatID, rec.MessageType,
			time.UnixMilli(rec.Timestamp).Format(time.RFC3339))
	}
}

// resync re-drives unsynced records through forward/fallback delivery.
// Records that fail again simply stay unsynced.
func resync(cfg *config.Config, store storage.Storage, limit int) {
	records, err := store.ListUnsynced(limit)
	if err != nil {
		log.Fatalf("Error listing unsynced messages: %v", err)
	}
	if len(records) == 0 {
		fmt.Println("No unsynced messages.")
		return
	}

	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		log.Fatalf("Failed to authorize bot: %v", err)
	}

	localizer, err := localization.NewBuiltinLocalizer()
	if cfg.LocalePath != "" {
		localizer, err = localization.NewLocalizer(cfg.LocalePath)
	}
	if err != nil {
		log.Fatalf("Failed to create localizer: %v", err)
	}

	pipe := relay.NewPipeline(store, telegram.NewClient(bot), cfg.SourceChatID, cfg.TargetChatID)
	pipe.Retry = relay.RetryPolicy{Attempts: cfg.ForwardRetries, Backoff: cfg.ForwardRetryBackoff}
	pipe.FallbackPrefix = localizer.GetString(cfg.Language, "forward_failed_prefix")

	recovered := 0
	for i := range records {
		rec := &records[i]
		outcome := pipe.Reprocess(rec.ID, rec.MessageID, rec.Text)
		fmt.Printf("#%d message=%d -> %s\n", rec.ID, rec.MessageID, outcome)
		if outcome == relay.OutcomeForwarded || outcome == relay.OutcomeFallbackSent {
			recovered++
		}
	}
	fmt.Printf("Resynced %d of %d messages.\n", recovered, len(records))
}
