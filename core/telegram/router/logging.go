package router

import (
	"log/slog"
	"strings"
	"time"

	"github.com/m3rciful/giftbot/core/logger"
	tghelpers "github.com/m3rciful/giftbot/core/telegram/helpers"
	"github.com/m3rciful/giftbot/core/telegram/middleware"
	"github.com/m3rciful/giftbot/core/telegram/netutil"

	tele "gopkg.in/telebot.v4"
)

// handleWithSummary runs fn under handlerName and logs one summary line.
func handleWithSummary(c tele.Context, handlerName string, start time.Time, fn func() error, extras ...slog.Attr) error {
	tghelpers.WithHandler(c, handlerName)
	err := fn()
	status := logger.Status(err)
	logHandlerSummary(c, handlerName, start, status, err, extras...)
	return err
}

// logSkipped records an update no handler took.
func logSkipped(c tele.Context, handlerName string, start time.Time) {
	logHandlerSummary(c, handlerName, start, "skip", nil)
}

func logHandlerSummary(c tele.Context, handlerName string, start time.Time, status string, err error, extras ...slog.Attr) {
	ctx := tghelpers.WithHandler(c, handlerName)
	tally := middleware.Replies(c)

	attrs := []slog.Attr{
		slog.String("status", status),
		slog.String("handler", handlerName),
		slog.String("outcome", logger.Status(err)),
		slog.Int("messages", tally.Messages),
		slog.Int("edits", tally.Edits),
		slog.Int("files", tally.Files),
		slog.Int("toasts", tally.Toasts),
		slog.Bool("kb", tally.Keyboard),
		slog.Duration("duration", logger.Took(start)),
	}
	if err != nil {
		attrs = append(attrs,
			slog.String("err", logger.SanitizeLimit(netutil.Redact(err), 256)),
			slog.String("err_code", netutil.Classify(err)),
		)
	}
	attrs = append(attrs, extras...)
	logger.LogEvent(ctx, logger.Component(logger.ComponentTG), slog.LevelInfo, "handler.handled", attrs...)
}

func normalizeHandlerName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "unknown"
	}
	name = strings.TrimPrefix(name, "/")
	name = strings.ReplaceAll(name, " ", "_")
	return strings.ToLower(name)
}
