package keyboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReply(t *testing.T) {
	m := Reply([]string{"🎁 Get gift"}, []string{"a", "b"})
	require.Len(t, m.ReplyKeyboard, 2)
	assert.True(t, m.ResizeKeyboard)
	assert.Equal(t, "🎁 Get gift", m.ReplyKeyboard[0][0].Text)
	assert.Len(t, m.ReplyKeyboard[1], 2)
}

func TestColumn(t *testing.T) {
	m := Column(Button{Text: "List", Unique: "approved_list"}, Button{Text: "Review", Unique: "review"})
	require.Len(t, m.InlineKeyboard, 2)
	assert.Equal(t, "review", m.InlineKeyboard[1][0].Unique)
}

func TestGrid(t *testing.T) {
	m := Grid(
		[]Button{{Text: "Yes", Unique: "approve", Data: "1"}, {Text: "No", Unique: "reject"}},
		[]Button{{Text: "Stop", Unique: "stop"}},
	)
	require.Len(t, m.InlineKeyboard, 2)
	assert.Len(t, m.InlineKeyboard[0], 2)
	assert.Equal(t, "1", m.InlineKeyboard[0][0].Data)
}

func TestContactAndRemove(t *testing.T) {
	m := Contact("📱 Share contact")
	require.Len(t, m.ReplyKeyboard, 1)
	assert.True(t, m.ReplyKeyboard[0][0].Contact)
	assert.True(t, m.OneTimeKeyboard)
	assert.True(t, Remove().RemoveKeyboard)
}
