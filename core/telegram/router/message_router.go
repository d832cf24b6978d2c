package router

import (
	"time"

	tg "github.com/m3rciful/giftbot/core/telegram"
	"github.com/m3rciful/giftbot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// Conversation is the dialog engine fed by text and contact updates.
type Conversation interface {
	InProgress(userID int64) bool
	HandleText(c tele.Context) error
	HandleContact(c tele.Context) error
}

// TextOptions controls fallback behaviour for text updates.
type TextOptions struct {
	UnknownText tele.HandlerFunc
	// AdminID guards admin-only commands reached through an alias.
	AdminID int64
}

// TextRoutes builds handlers for text and contact routing. Text from a user in
// the middle of a conversation goes to the conversation; otherwise it is
// matched against command aliases, then the registry fallback.
func TextRoutes(conv Conversation, reg *tg.Registry, opts TextOptions) []tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()
		text := c.Text()

		if conv != nil && c.Sender() != nil && conv.InProgress(c.Sender().ID) {
			return handleWithSummary(c, "fsm", start, func() error {
				return conv.HandleText(c)
			})
		}

		if reg != nil {
			if key, cmd, ok := reg.LookupCommand(text); ok && cmd.Handler != nil {
				h := cmd.Handler
				if cmd.AdminOnly {
					h = middleware.AdminOnlyMiddleware(middleware.AdminOptions{AdminID: opts.AdminID})(h)
				}
				return handleWithSummary(c, normalizeHandlerName(key), start, func() error {
					return h(c)
				})
			}
		}

		if reg != nil {
			if fb := reg.TextFallback(); fb != nil {
				return handleWithSummary(c, "fallback", start, func() error {
					return fb(c)
				})
			}
		}

		if opts.UnknownText != nil {
			return handleWithSummary(c, "unknown_text", start, func() error {
				return opts.UnknownText(c)
			})
		}

		logSkipped(c, "unknown_text", start)
		return nil
	}

	contactHandler := func(c tele.Context) error {
		start := time.Now()
		if conv == nil {
			logSkipped(c, "contact", start)
			return nil
		}
		return handleWithSummary(c, "contact", start, func() error {
			return conv.HandleContact(c)
		})
	}

	return []tg.Route{
		{
			Endpoint: tele.OnText,
			Handler:  handler,
		},
		{
			Endpoint: tele.OnContact,
			Handler:  contactHandler,
		},
	}
}
