// Package telegram handles the integration with the Telegram Bot API.
// It is responsible for receiving updates from Telegram, dispatching
// operator commands, and feeding source-chat messages into the relay
// pipeline.
package telegram

import (
	"errors"
	"log"
	"strings"

	"github.com/qwf666/GroupMsgSyncTools/internal/config"
	"github.com/qwf666/GroupMsgSyncTools/internal/localization"
	"github.com/qwf666/GroupMsgSyncTools/internal/query"
	"github.com/qwf666/GroupMsgSyncTools/internal/relay"
	"github.com/qwf666/GroupMsgSyncTools/internal/storage"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// ErrConflict indicates another bot instance is already consuming the
// same update stream (Telegram 409).
var ErrConflict = errors.New("another bot instance is polling with this token")

// replySender is the send surface command handling depends on.
// Satisfied by *tgbotapi.BotAPI; swapped for a mock in tests.
type replySender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// BotService receives Telegram updates and routes them: commands go to
// the explicit dispatch switch below, everything else goes to the relay
// pipeline. Dispatch order is fixed in code, not by handler registration.
type BotService struct {
	BotAPI    *tgbotapi.BotAPI
	Pipeline  *relay.Pipeline
	Query     *query.Service
	Localizer *localization.Localizer
	Lang      string

	sender replySender
}

// NewBotService authorizes the bot and wires the relay pipeline and the
// operator-facing query surface.
func NewBotService(cfg *config.Config, store storage.Storage, q *query.Service, localizer *localization.Localizer) (*BotService, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, err
	}
	bot.Debug = false
	log.Printf("✅ Authorized on account %s", bot.Self.UserName)

	pipe := relay.NewPipeline(store, NewClient(bot), cfg.SourceChatID, cfg.TargetChatID)
	pipe.Dedupe = cfg.DedupeMessages
	pipe.Retry = relay.RetryPolicy{Attempts: cfg.ForwardRetries, Backoff: cfg.ForwardRetryBackoff}
	pipe.FallbackPrefix = localizer.GetString(cfg.Language, "forward_failed_prefix")

	return &BotService{
		BotAPI:    bot,
		Pipeline:  pipe,
		Query:     q,
		Localizer: localizer,
		Lang:      cfg.Language,
		sender:    bot,
	}, nil
}

// Bootstrap prepares the bot for long polling: removes any leftover
// webhook (a webhook and polling cannot coexist), registers the command
// menu and probes getUpdates once so a second running instance surfaces
// as ErrConflict instead of a silent polling fight.
func (s *BotService) Bootstrap() error {
	if _, err := s.BotAPI.Request(tgbotapi.DeleteWebhookConfig{DropPendingUpdates: true}); err != nil {
		log.Printf("WARN: Webhook deletion attempt failed: %v", err)
	} else {
		log.Println("Webhook deleted (if existed)")
	}

	commands := tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: "stats", Description: s.Localizer.GetString(s.Lang, "cmd_stats_desc")},
		tgbotapi.BotCommand{Command: "query", Description: s.Localizer.GetString(s.Lang, "cmd_query_desc")},
		tgbotapi.BotCommand{Command: "help", Description: s.Localizer.GetString(s.Lang, "cmd_help_desc")},
	)
	if _, err := s.BotAPI.Request(commands); err != nil {
		log.Printf("WARN: Failed to register commands: %v", err)
	} else {
		log.Println("Commands registered successfully")
	}

	probe := tgbotapi.NewUpdate(0)
	probe.Limit = 1
	if _, err := s.BotAPI.GetUpdates(probe); err != nil {
		if isConflict(err) {
			return ErrConflict
		}
		log.Printf("WARN: getUpdates probe failed: %v", err)
	}
	return nil
}

// isConflict reports whether err is a Telegram 409 response.
func isConflict(err error) bool {
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == 409
	}
	return strings.Contains(err.Error(), "409") || strings.Contains(err.Error(), "Conflict")
}

// Run is the main loop for receiving Telegram updates. Updates are
// processed one at a time: a new message is not relayed while a prior
// relay is still in flight.
func (s *BotService) Run() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	u.AllowedUpdates = []string{"message", "edited_message"}
	updates := s.BotAPI.GetUpdatesChan(u)

	log.Println("Bot started successfully in polling mode")

	for update := range updates {
		switch {
		case update.Message != nil:
			if update.Message.IsCommand() {
				s.handleCommand(update.Message)
				continue
			}
			outcome := s.Pipeline.Process(update.Message)
			if outcome != relay.OutcomeSkipped {
				log.Printf("Relay outcome for message %d: %s", update.Message.MessageID, outcome)
			}
		case update.EditedMessage != nil:
			// Edit propagation is out of scope; the update is drained so
			// long polling does not redeliver it.
		}
	}
}

// Stop ends the update loop. In-flight pipeline work finishes first.
func (s *BotService) Stop() {
	s.BotAPI.StopReceivingUpdates()
}

// handleCommand dispatches an operator command. A failing handler replies
// with a localized error and never takes the process down.
func (s *BotService) handleCommand(msg *tgbotapi.Message) {
	log.Printf("Command /%s received from chat %d", msg.Command(), msg.Chat.ID)

	switch msg.Command() {
	case "stats":
		s.handleStatsCommand(msg)
	case "query":
		s.handleQueryCommand(msg)
	case "help", "start":
		s.reply(msg.Chat.ID, s.Localizer.GetString(s.Lang, "help_text"))
	default:
		// Unknown commands are ignored; they may target other bots in
		// the same group.
	}
}

func (s *BotService) handleStatsCommand(msg *tgbotapi.Message) {
	stats, err := s.Query.Stats()
	if err != nil {
		log.Printf("ERROR: Failed to get stats: %v", err)
		s.reply(msg.Chat.ID, s.Localizer.GetString(s.Lang, "error_stats"))
		return
	}
	s.reply(msg.Chat.ID, s.renderStats(stats))
}

func (s *BotService) handleQueryCommand(msg *tgbotapi.Message) {
	keyword := strings.TrimSpace(msg.CommandArguments())
	if keyword == "" {
		s.reply(msg.Chat.ID, s.Localizer.GetString(s.Lang, "query_usage"))
		return
	}

	records, err := s.Query.Search(keyword)
	if err != nil {
		log.Printf("ERROR: Failed to query messages: %v", err)
		s.reply(msg.Chat.ID, s.Localizer.GetString(s.Lang, "error_query"))
		return
	}

	if len(records) == 0 {
		s.reply(msg.Chat.ID, s.Localizer.Format(s.Lang, "query_no_results", keyword))
		return
	}

	s.reply(msg.Chat.ID, s.renderQueryResults(records))
}

// reply sends text to chatID; send failures are logged, never propagated.
func (s *BotService) reply(chatID int64, text string) {
	if _, err := s.sender.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.Printf("ERROR: Failed to send reply to chat %d: %v", chatID, err)
	}
}
