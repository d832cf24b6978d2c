// Package callbacks decodes inline button presses.
package callbacks

import (
	"strings"

	tele "gopkg.in/telebot.v4"
)

const (
	prefix    = "\f"
	separator = "|"
)

// Parse returns the button unique and its payload. Telebot sends inline
// button data as "\f<unique>|<payload>"; plain data is treated as a bare
// unique so buttons built by other clients still route.
func Parse(cb *tele.Callback) (unique, payload string) {
	if cb == nil {
		return "", ""
	}
	if cb.Unique != "" {
		return cb.Unique, cb.Data
	}
	unique, payload, _ = strings.Cut(strings.TrimPrefix(cb.Data, prefix), separator)
	return strings.TrimSpace(unique), payload
}

// Key returns the unique of the callback carried by c, or "".
func Key(c tele.Context) string {
	unique, _ := Parse(c.Callback())
	return unique
}

// Encode builds the data string for unique and payload the way Telebot does.
func Encode(unique, payload string) string {
	if payload == "" {
		return prefix + unique
	}
	return prefix + unique + separator + payload
}
