package relay

import (
	"log"
	"time"

	"github.com/qwf666/GroupMsgSyncTools/internal/storage"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Forwarder is the outbound transport surface the pipeline depends on.
// Implemented by telegram.Client.
type Forwarder interface {
	ForwardMessage(targetChatID, sourceChatID int64, messageID int) error
	SendMessage(chatID int64, text string) error
}

// Outcome is the terminal state of one pipeline invocation.
type Outcome int

const (
	// OutcomeSkipped - the message was not eligible for relay.
	OutcomeSkipped Outcome = iota
	// OutcomeDuplicate - dedupe is on and a record for this message exists.
	OutcomeDuplicate
	// OutcomeDropped - persisting the record failed; no forward attempted.
	OutcomeDropped
	// OutcomeForwarded - the original message reached the target chat.
	OutcomeForwarded
	// OutcomeFallbackSent - forward failed but the text fallback got through.
	OutcomeFallbackSent
	// OutcomeUnsynced - forward and fallback both failed; the record stays
	// unsynced until externally reprocessed.
	OutcomeUnsynced
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeDuplicate:
		return "duplicate"
	case OutcomeDropped:
		return "dropped"
	case OutcomeForwarded:
		return "forwarded"
	case OutcomeFallbackSent:
		return "fallback_sent"
	case OutcomeUnsynced:
		return "unsynced"
	}
	return "unknown"
}

// RetryPolicy bounds forward attempts. Attempts=1 means a single attempt
// and no retry, which is the default behavior.
type RetryPolicy struct {
	Attempts int
	Backoff  time.Duration
}

// Do runs fn up to Attempts times, sleeping Backoff between failures.
func (p RetryPolicy) Do(fn func() error) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for i := 0; i < attempts; i++ {
		if i > 0 && p.Backoff > 0 {
			time.Sleep(p.Backoff)
		}
		if err = fn(); err == nil {
			return nil
		}
	}
	return err
}

// Pipeline drives one eligible message from intake to a terminal state:
// persist first, then forward, then fall back to plain text if the
// message had any.
type Pipeline struct {
	Store          storage.Storage
	Forwarder      Forwarder
	SourceChatID   int64
	TargetChatID   int64
	Dedupe         bool
	Retry          RetryPolicy
	FallbackPrefix string

	// now is swappable for tests.
	now func() time.Time
}

// NewPipeline creates a relay pipeline.
func NewPipeline(store storage.Storage, fwd Forwarder, sourceChatID, targetChatID int64) *Pipeline {
	return &Pipeline{
		Store:          store,
		Forwarder:      fwd,
		SourceChatID:   sourceChatID,
		TargetChatID:   targetChatID,
		Retry:          RetryPolicy{Attempts: 1},
		FallbackPrefix: "[转发失败] ",
		now:            time.Now,
	}
}

// Process runs the full state machine for one inbound message. A failed
// save aborts before any forward attempt: forwarding without a durable
// record would break the audit trail.
func (p *Pipeline) Process(msg *tgbotapi.Message) Outcome {
	if !Eligible(msg, p.SourceChatID) {
		return OutcomeSkipped
	}

	if p.Dedupe {
		exists, err := p.Store.MessageExists(msg.Chat.ID, msg.MessageID)
		if err != nil {
			log.Printf("WARN: Dedupe check failed for message %d: %v", msg.MessageID, err)
		} else if exists {
			log.Printf("Skipping duplicate message %d from chat %d", msg.MessageID, msg.Chat.ID)
			return OutcomeDuplicate
		}
	}

	record := RecordFromMessage(msg)
	id, err := p.Store.SaveMessage(record)
	if err != nil {
		log.Printf("ERROR: Failed to save message to database: %v", err)
		return OutcomeDropped
	}

	return p.deliver(id, msg.MessageID, record.Text)
}

// deliver attempts the forward and, on failure, the text fallback.
// Shared by Process and the admin resync path.
func (p *Pipeline) deliver(recordID int64, messageID int, text *string) Outcome {
	err := p.Retry.Do(func() error {
		return p.Forwarder.ForwardMessage(p.TargetChatID, p.SourceChatID, messageID)
	})
	if err == nil {
		p.markSynced(recordID)
		log.Printf("Message %d forwarded successfully", messageID)
		return OutcomeForwarded
	}
	log.Printf("ERROR: Failed to forward message %d: %v", messageID, err)

	if text == nil || *text == "" {
		return OutcomeUnsynced
	}

	if sendErr := p.Forwarder.SendMessage(p.TargetChatID, p.FallbackPrefix+*text); sendErr != nil {
		log.Printf("ERROR: Failed to send fallback message for %d: %v", messageID, sendErr)
		return OutcomeUnsynced
	}
	p.markSynced(recordID)
	return OutcomeFallbackSent
}

// Reprocess re-drives an unsynced record through forward/fallback. This
// is the external reprocessing path for records the live pipeline left
// behind.
func (p *Pipeline) Reprocess(recordID int64, messageID int, text *string) Outcome {
	return p.deliver(recordID, messageID, text)
}

// markSynced records the delivery confirmation. The message already
// reached the target at this point, so a failure here leaves a known
// inconsistency; it is logged and not retried.
func (p *Pipeline) markSynced(recordID int64) {
	if err := p.Store.MarkSynced(recordID, p.now().UnixMilli()); err != nil {
		log.Printf("ERROR: Message record %d delivered but not marked synced: %v", recordID, err)
	}
}
