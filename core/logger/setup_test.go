package logger

import (
	"bytes"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreconfig "github.com/m3rciful/giftbot/core/config"
)

func TestResolveSettingsDefaults(t *testing.T) {
	s := resolveSettings(nil)
	assert.Equal(t, slog.LevelInfo, s.level)
	assert.Equal(t, formatJSON, s.format)
	assert.Equal(t, defaultKeyOrder, s.keyOrder)
	assert.Equal(t, defaultDebugEvery, s.debugEvery)
	assert.True(t, s.stacks)
	assert.Empty(t, s.mainFile)
}

func TestResolveSettingsFromConfig(t *testing.T) {
	cfg := &coreconfig.Config{Logging: coreconfig.LoggingConfig{
		Level:       "WARNING",
		Profile:     "Dev",
		KeysOrder:   "ts, event ,,level",
		DebugSample: "all",
		Stacks:      "off",
		Dir:         "logs",
		BotFile:     "bot.log",
		ErrorsFile:  "errors.log",
	}}
	s := resolveSettings(cfg)
	assert.Equal(t, slog.LevelWarn, s.level)
	assert.Equal(t, formatKV, s.format, "dev profile defaults to kv")
	assert.Equal(t, "dev", s.profile)
	assert.Equal(t, []string{"ts", "event", "level"}, s.keyOrder)
	assert.Equal(t, 1, s.debugEvery)
	assert.False(t, s.stacks)
	assert.Equal(t, filepath.Join("logs", "bot.log"), s.mainFile)
	assert.Equal(t, filepath.Join("logs", "errors.log"), s.errorsFile)

	cfg.Logging.Format = "json"
	assert.Equal(t, formatJSON, resolveSettings(cfg).format)
}

func TestAlertsSinkGetsWarnAndAbove(t *testing.T) {
	var main, alerts bytes.Buffer
	mw := newAsyncWriter([]io.Writer{&main}, 1024)
	aw := newAsyncWriter([]io.Writer{&alerts}, 1024)
	log := slog.New(newStructuredHandler(handlerConfig{
		level:  slog.LevelInfo,
		writer: mw,
		alerts: aw,
		format: formatKV,
	}))

	LogEvent(Background(), log, slog.LevelInfo, "review.start")
	LogEvent(Background(), log, slog.LevelWarn, "admin.auth", slog.String("status", "fail"))
	require.NoError(t, mw.Close())
	require.NoError(t, aw.Close())

	assert.Contains(t, main.String(), "event=review.start")
	assert.Contains(t, main.String(), "event=admin.auth")
	assert.NotContains(t, alerts.String(), "review.start")
	assert.Contains(t, alerts.String(), "event=admin.auth")
}
