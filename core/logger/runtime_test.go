package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextMetadata(t *testing.T) {
	ctx := WithRID(context.Background(), "12:34:56")
	ctx = WithUpdateMeta(ctx, 12, 56, 34)
	ctx = WithHandler(ctx, "gift")

	assert.Equal(t, "12:34:56", RIDFrom(ctx))
	assert.Equal(t, 12, UpdateIDFrom(ctx))
	assert.Equal(t, int64(56), UserIDFrom(ctx))
	assert.Equal(t, int64(34), ChatIDFrom(ctx))
	assert.Equal(t, "gift", HandlerFrom(ctx))

	assert.Zero(t, UserIDFrom(context.Background()))
}

func TestSanitizeLimit(t *testing.T) {
	assert.Equal(t, "ab\tc", Sanitize("a\x00b\tc\x7f"))
	assert.Equal(t, "🎁 G", SanitizeLimit("🎁 Get gift", 3))
	assert.Empty(t, SanitizeLimit("x", 0))
}

func TestCompactRID(t *testing.T) {
	assert.Equal(t, "c.y.1k", CompactRID("12:34:56"))
	assert.Equal(t, "not-a-rid", CompactRID("not-a-rid"))
	assert.Equal(t, "1:x:2", CompactRID("1:x:2"))
}
