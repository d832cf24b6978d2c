// Package handlers binds the conversation engine to Telegram updates.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/giftbot/app/flow"
	"github.com/m3rciful/giftbot/core/logger"
	tg "github.com/m3rciful/giftbot/core/telegram"
	"github.com/m3rciful/giftbot/core/telegram/callbacks"
	tghelpers "github.com/m3rciful/giftbot/core/telegram/helpers"
)

// Engine is the conversation engine driven by the handlers.
type Engine interface {
	InProgress(userID int64) bool
	Handle(ctx context.Context, ev flow.Event) flow.Response
}

// Handlers translates updates into flow events and renders the responses.
type Handlers struct {
	engine Engine
}

// New returns Handlers for engine.
func New(engine Engine) *Handlers {
	return &Handlers{engine: engine}
}

// Register adds the bot commands and review callbacks to reg. /admin is
// marked admin-only; the router enforces it when an admin id is configured.
func (h *Handlers) Register(reg *tg.Registry) error {
	err := errors.Join(
		reg.RegisterCommand(flow.CommandStart, tg.Command{
			Handler:     h.command(flow.CommandStart),
			Description: "Start the bot",
		}),
		reg.RegisterCommand(flow.CommandGift, tg.Command{
			Handler:     h.command(flow.CommandGift),
			Description: "Get your gift",
			Aliases:     []string{flow.GiftButtonText},
		}),
		reg.RegisterCommand(flow.CommandCancel, tg.Command{
			Handler:     h.command(flow.CommandCancel),
			Description: "Cancel the current form",
		}),
		reg.RegisterCommand(flow.CommandAdmin, tg.Command{
			Handler:     h.command(flow.CommandAdmin),
			Description: "Administrator panel",
			AdminOnly:   true,
			Hidden:      true,
		}),
	)
	if err != nil {
		return fmt.Errorf("handlers: %w", err)
	}

	for _, action := range []string{
		flow.ActionApprovedList,
		flow.ActionReview,
		flow.ActionApprove,
		flow.ActionReject,
		flow.ActionStop,
	} {
		if err := reg.RegisterCallback(action, h.HandleCallback); err != nil {
			return fmt.Errorf("handlers: %w", err)
		}
	}
	reg.SetCallbackNotFound(h.HandleCallback)
	reg.SetTextFallback(h.HandleText)
	return nil
}

// InProgress reports whether userID is inside a conversation.
func (h *Handlers) InProgress(userID int64) bool {
	return h.engine.InProgress(userID)
}

// HandleText feeds a text message to the engine.
func (h *Handlers) HandleText(c tele.Context) error {
	uid, ok := tghelpers.SenderID(c)
	if !ok {
		return nil
	}
	return h.dispatch(c, flow.TextEvent(uid, c.Text()))
}

// HandleContact feeds a shared contact to the engine.
func (h *Handlers) HandleContact(c tele.Context) error {
	uid, ok := tghelpers.SenderID(c)
	msg := c.Message()
	if !ok || msg == nil || msg.Contact == nil {
		return nil
	}
	return h.dispatch(c, flow.ContactEvent(uid, msg.Contact.PhoneNumber, msg.Contact.UserID))
}

// HandleCallback feeds an inline button press to the engine.
func (h *Handlers) HandleCallback(c tele.Context) error {
	uid, ok := tghelpers.SenderID(c)
	if !ok {
		return nil
	}
	return h.dispatch(c, flow.CallbackEvent(uid, callbacks.Key(c)))
}

func (h *Handlers) command(name string) tele.HandlerFunc {
	return func(c tele.Context) error {
		uid, ok := tghelpers.SenderID(c)
		if !ok {
			return nil
		}
		return h.dispatch(c, flow.CommandEvent(uid, name))
	}
}

func (h *Handlers) dispatch(c tele.Context, ev flow.Event) error {
	ctx := tghelpers.BuildContext(c)
	return render(ctx, c, h.engine.Handle(ctx, ev))
}

// render delivers outputs in order and stops at the first failure.
func render(ctx context.Context, c tele.Context, resp flow.Response) error {
	for _, out := range resp {
		var err error
		switch out.Kind {
		case flow.OutputMessage:
			err = tghelpers.SendText(c, out.Text, &tele.SendOptions{ReplyMarkup: markup(out.Keyboard)})
		case flow.OutputEdit:
			err = tghelpers.EditOrSendText(c, out.Text, markup(out.Keyboard))
		case flow.OutputNotice:
			if c.Callback() == nil {
				err = tghelpers.SendText(c, out.Text)
			} else {
				err = tghelpers.Notify(c, out.Text)
			}
		case flow.OutputFile:
			err = sendFile(ctx, c, out.File)
		default:
			err = fmt.Errorf("handlers: unknown output kind %d", out.Kind)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

var errNoFile = errors.New("handlers: file output without file")

func sendFile(ctx context.Context, c tele.Context, f *flow.File) error {
	if f == nil {
		return errNoFile
	}
	if f.Remove {
		defer func() {
			if err := os.Remove(f.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
				logger.Warn(ctx, logger.ComponentTG, "file.remove",
					slog.String("status", "fail"),
					slog.String("file", f.Name),
					slog.Any("err", err),
				)
			}
		}()
	}
	doc := &tele.Document{
		File:     tele.FromDisk(f.Path),
		FileName: f.Name,
		Caption:  f.Caption,
	}
	return tghelpers.SendDocument(c, doc)
}
