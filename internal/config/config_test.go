package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/qwf666/GroupMsgSyncTools/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("SOURCE_CHAT_ID", "-1001")
	t.Setenv("TARGET_CHAT_ID", "-1002")
}

// TestLoadDefaults verifies defaults for everything optional.
func TestLoadDefaults(t *testing.T) {
	setRequired(t)
	t.Setenv("HTTP_ADDR", "placeholder")
	os.Unsetenv("HTTP_ADDR")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.BotToken)
	assert.Equal(t, int64(-1001), cfg.SourceChatID)
	assert.Equal(t, int64(-1002), cfg.TargetChatID)
	assert.Equal(t, "./data/messages.db", cfg.DBPath)
	assert.Equal(t, "zh", cfg.Language)
	assert.Empty(t, cfg.LocalePath)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.False(t, cfg.DedupeMessages)
	assert.Equal(t, 1, cfg.ForwardRetries)
	assert.Equal(t, 2*time.Second, cfg.ForwardRetryBackoff)
}

// TestLoadMissingToken verifies BOT_TOKEN is required.
func TestLoadMissingToken(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")
	t.Setenv("SOURCE_CHAT_ID", "-1001")
	t.Setenv("TARGET_CHAT_ID", "-1002")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BOT_TOKEN")
}

// TestLoadMissingChatIDs verifies both chat identifiers are required.
func TestLoadMissingChatIDs(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("SOURCE_CHAT_ID", "-1001")
	t.Setenv("TARGET_CHAT_ID", "0")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TARGET_CHAT_ID")
}

// TestLoadOverrides verifies env values take effect.
func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("DEDUPE_MESSAGES", "true")
	t.Setenv("FORWARD_RETRIES", "3")
	t.Setenv("FORWARD_RETRY_BACKOFF", "500ms")
	t.Setenv("HTTP_ADDR", "")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.True(t, cfg.DedupeMessages)
	assert.Equal(t, 3, cfg.ForwardRetries)
	assert.Equal(t, 500*time.Millisecond, cfg.ForwardRetryBackoff)
	assert.Empty(t, cfg.HTTPAddr)
}

// TestLoadHTTPAddrDefaultOnlyWhenUnset verifies the :8080 default applies
// only when HTTP_ADDR is absent; an explicitly empty value must stay
// empty so the HTTP server can be disabled from the environment.
func TestLoadHTTPAddrDefaultOnlyWhenUnset(t *testing.T) {
	setRequired(t)

	// t.Setenv registers the restore; Unsetenv makes the variable truly
	// absent for this test.
	t.Setenv("HTTP_ADDR", "placeholder")
	os.Unsetenv("HTTP_ADDR")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPAddr)

	t.Setenv("HTTP_ADDR", "")
	cfg, err = config.Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.HTTPAddr)
}

// TestLoadClampsRetries verifies a nonsensical retry count falls back to
// a single attempt.
func TestLoadClampsRetries(t *testing.T) {
	setRequired(t)
	t.Setenv("FORWARD_RETRIES", "0")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.ForwardRetries)
}
