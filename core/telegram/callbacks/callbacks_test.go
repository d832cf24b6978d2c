package callbacks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	tele "gopkg.in/telebot.v4"
)

func TestParse(t *testing.T) {
	cases := []struct {
		name         string
		cb           *tele.Callback
		key, payload string
	}{
		{name: "nil", cb: nil},
		{name: "unique set", cb: &tele.Callback{Unique: "approve", Data: "7"}, key: "approve", payload: "7"},
		{name: "encoded", cb: &tele.Callback{Data: "\freview"}, key: "review"},
		{name: "encoded with payload", cb: &tele.Callback{Data: "\fapprove|42"}, key: "approve", payload: "42"},
		{name: "plain", cb: &tele.Callback{Data: "stop"}, key: "stop"},
		{name: "padded", cb: &tele.Callback{Data: "\f reject |x|y"}, key: "reject", payload: "x|y"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			key, payload := Parse(tc.cb)
			assert.Equal(t, tc.key, key)
			assert.Equal(t, tc.payload, payload)
		})
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	assert.Equal(t, "\freview", Encode("review", ""))

	key, payload := Parse(&tele.Callback{Data: Encode("approve", "3")})
	assert.Equal(t, "approve", key)
	assert.Equal(t, "3", payload)
}
