package telegram

import (
	"sync"

	"github.com/m3rciful/giftbot/core/telegram/middleware"
	"github.com/m3rciful/giftbot/core/telegram/state"
)

// MiddlewareOptions selects the optional parts of the shared chain.
type MiddlewareOptions struct {
	// Lock, when set, serializes every update handler.
	Lock sync.Locker
	// Sessions, when set, exposes the sender's conversation state to handlers.
	Sessions state.Manager
}

// DefaultMiddlewares builds the shared middleware chain for bots.
func DefaultMiddlewares(opts MiddlewareOptions) []Middleware {
	mws := []Middleware{
		{Name: "recover", Use: middleware.RecoverMiddleware},
		{Name: "logger", Use: middleware.LoggerMiddleware},
		{Name: "replies", Use: middleware.CountReplies},
	}
	if opts.Lock != nil {
		mws = append(mws, Middleware{Name: "serial", Use: middleware.Serial(opts.Lock)})
	}
	if opts.Sessions != nil {
		mws = append(mws, Middleware{Name: "session", Use: state.WithSession(opts.Sessions)})
	}
	return mws
}
