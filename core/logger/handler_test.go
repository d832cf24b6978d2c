package logger

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capture logs one event through a fresh handler and returns the line.
func capture(t *testing.T, format logFormat, ctx context.Context, component, event string, attrs ...slog.Attr) string {
	t.Helper()
	buf := &bytes.Buffer{}
	aw := newAsyncWriter([]io.Writer{buf}, 1024)
	log := slog.New(newStructuredHandler(handlerConfig{
		level:  slog.LevelDebug,
		writer: aw,
		format: format,
	})).With("component", component)
	LogEvent(ctx, log, slog.LevelInfo, event, attrs...)
	require.NoError(t, aw.Close())
	return strings.TrimSpace(buf.String())
}

func assertInOrder(t *testing.T, line string, parts ...string) {
	t.Helper()
	pos := -1
	for _, p := range parts {
		idx := strings.Index(line, p)
		require.GreaterOrEqualf(t, idx, 0, "%s missing in %s", p, line)
		require.Greaterf(t, idx, pos, "%s out of order in %s", p, line)
		pos = idx
	}
}

func TestHandlerKVLeadsWithSchemaKeys(t *testing.T) {
	ctx := WithUpdateMeta(WithRID(Background(), "rid-123"), 42, 7, 9)
	line := capture(t, formatKV, ctx, ComponentIntake, "intake.start",
		slog.String("cause", "unit"),
		slog.String("status", "ok"),
	)
	tokens := strings.Fields(line)
	require.GreaterOrEqual(t, len(tokens), 6)
	for i, prefix := range []string{"ts=", "level=INFO", "component=service.intake", "event=intake.start", "status=ok", "rid=rid-123"} {
		assert.Truef(t, strings.HasPrefix(tokens[i], prefix), "token %d = %s, want %s", i, tokens[i], prefix)
	}
	assert.Contains(t, line, "user_id=7")
	assert.Contains(t, line, "chat_id=9")
	assert.Contains(t, line, "update_id=42")
}

func TestHandlerJSONOrder(t *testing.T) {
	ctx := WithRID(Background(), "rid-json")
	line := capture(t, formatJSON, ctx, ComponentReview, "admin.export",
		slog.String("status", "fail"),
		slog.String("err", "boom"),
	)
	require.True(t, strings.HasPrefix(line, "{"), line)
	assertInOrder(t, line, `{"ts":`, `"level":"INFO"`, `"component":"service.review"`, `"event":"admin.export"`, `"status":"fail"`, `"rid":"rid-json"`)
	assert.Contains(t, line, `"ts_unix_nano"`)
}

func TestHandlerCompactsRID(t *testing.T) {
	raw := "123:456:789"
	ctx := WithRID(Background(), raw)

	kv := capture(t, formatKV, ctx, ComponentTG, "rid.test")
	assert.Contains(t, kv, "rid="+CompactRID(raw))
	assert.NotContains(t, kv, "rid_full=", "kv output carries the compact rid only")

	js := capture(t, formatJSON, ctx, ComponentTG, "rid.test")
	assert.Contains(t, js, `"rid":"`+CompactRID(raw)+`"`)
	assert.Contains(t, js, `"rid_full":"`+raw+`"`)
}

func TestHandlerDomainKeysOrdered(t *testing.T) {
	line := capture(t, formatKV, Background(), ComponentIntake, "flow.unhandled",
		slog.String("err", "x"),
		slog.String("action", "review"),
		slog.String("state", "admin.main"),
		slog.String("status", "skip"),
	)
	assertInOrder(t, line, "component=service.intake", "event=flow.unhandled", "status=skip", "state=admin.main", "action=review", "err=x")
}

func TestHandlerDefaultsAndEnumerations(t *testing.T) {
	line := capture(t, formatKV, Background(), "", "",
		slog.String("status", "OK"),
		slog.String("outcome", "bogus"),
		slog.String("note", ""),
	)
	assert.Contains(t, line, "component=app")
	assert.Contains(t, line, "event=unknown")
	assert.Contains(t, line, "status=ok")
	assert.NotContains(t, line, "outcome=")
	assert.NotContains(t, line, "note=")
}

func TestHandlerMasksSecrets(t *testing.T) {
	line := capture(t, formatKV, Background(), ComponentIntake, "intake.submitted",
		slog.String("status", "ok"),
		slog.String("email", "ann@example.org"),
		slog.String("phone", "+15550100"),
		slog.String("password", "hunter2"),
		slog.Duration("wait_duration", 1500*time.Millisecond),
	)
	for _, want := range []string{"email=a***@example.org", "phone=***00", "password=***", "wait_duration_ms=1500"} {
		assert.Contains(t, line, want)
	}
	for _, leaked := range []string{"ann@", "5550100", "hunter2"} {
		assert.NotContains(t, line, leaked)
	}
}

func TestHandlerDropsStacksWhenDisabled(t *testing.T) {
	buf := &bytes.Buffer{}
	aw := newAsyncWriter([]io.Writer{buf}, 1024)
	log := slog.New(newStructuredHandler(handlerConfig{writer: aw, format: formatKV}))
	LogEvent(Background(), log, slog.LevelError, "tg.panic", slog.String("stack", "goroutine 1"))
	require.NoError(t, aw.Close())
	assert.NotContains(t, buf.String(), "goroutine")
}

func TestHandlerLevelGate(t *testing.T) {
	h := newStructuredHandler(handlerConfig{level: slog.LevelWarn})
	assert.False(t, h.Enabled(Background(), slog.LevelInfo))
	assert.True(t, h.Enabled(Background(), slog.LevelError))
}
