package middleware

import (
	"log/slog"
	"sync"
	"time"

	"github.com/m3rciful/giftbot/core/logger"
	tghelpers "github.com/m3rciful/giftbot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// slowWait is the lock wait above which a debug line is emitted.
const slowWait = 250 * time.Millisecond

// Serial runs downstream handlers one at a time under lock. Anything else that
// touches conversation state (e.g. a background sweeper) must take the same lock.
func Serial(lock sync.Locker) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			start := time.Now()
			lock.Lock()
			defer lock.Unlock()
			if waited := time.Since(start); waited > slowWait {
				logger.Debug(tghelpers.BuildContext(c), logger.ComponentTG, "serial.wait",
					slog.Duration("duration", logger.RoundMS(waited)),
				)
			}
			return next(c)
		}
	}
}
