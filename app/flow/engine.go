// Package flow implements the user intake and admin review conversations.
//
// Both conversations share one session per Telegram user. Every inbound
// event goes through Engine.Handle, which evaluates a transition table keyed
// by (state, trigger) and returns a Response for the transport to render.
package flow

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/m3rciful/giftbot/app/registry"
	"github.com/m3rciful/giftbot/core/logger"
	"github.com/m3rciful/giftbot/core/telegram/state"
)

// Conversation states.
const (
	StateIdle        = state.StateIdle
	StateName        = state.State("intake.name")
	StateEmail       = state.State("intake.email")
	StateBirthYear   = state.State("intake.birth_year")
	StateContact     = state.State("intake.contact")
	StateAdminAuth   = state.State("admin.auth")
	StateAdminMain   = state.State("admin.main")
	StateAdminReview = state.State("admin.review")
)

const (
	componentIntake = "service.intake"
	componentReview = "service.review"
)

// GiftSender delivers the gift document to a user and reports success.
type GiftSender interface {
	Send(ctx context.Context, userID int64) bool
}

// Exporter writes approved applications to a file and returns its path.
type Exporter interface {
	Export(ctx context.Context, apps []registry.Application) (string, error)
}

// Options wires an Engine.
type Options struct {
	Registry      *registry.Registry
	Sessions      state.Manager
	Gifts         GiftSender
	Exporter      Exporter
	AdminPassword string
	Now           func() time.Time
}

// Engine runs the intake and review state machines.
type Engine struct {
	reg      *registry.Registry
	sessions state.Manager
	gifts    GiftSender
	exporter Exporter
	password string
	now      func() time.Time
}

// NewEngine validates opts and returns an Engine.
func NewEngine(opts Options) (*Engine, error) {
	switch {
	case opts.Registry == nil:
		return nil, errors.New("flow: registry is required")
	case opts.Sessions == nil:
		return nil, errors.New("flow: session manager is required")
	case opts.Gifts == nil:
		return nil, errors.New("flow: gift sender is required")
	case opts.Exporter == nil:
		return nil, errors.New("flow: exporter is required")
	case strings.TrimSpace(opts.AdminPassword) == "":
		return nil, errors.New("flow: admin password is required")
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Engine{
		reg:      opts.Registry,
		sessions: opts.Sessions,
		gifts:    opts.Gifts,
		exporter: opts.Exporter,
		password: strings.TrimSpace(opts.AdminPassword),
		now:      now,
	}, nil
}

// InProgress reports whether userID is inside a conversation.
func (e *Engine) InProgress(userID int64) bool {
	return e.sessions.InProgress(userID)
}

// State returns the current conversation state of userID.
func (e *Engine) State(userID int64) state.State {
	return e.sessions.State(userID)
}

// Handle dispatches ev against the transition table. Commands valid in every
// state are checked first, then the sender's current state. Any event keeps
// an open session from expiring.
func (e *Engine) Handle(ctx context.Context, ev Event) Response {
	e.sessions.Touch(ev.UserID)
	key := ev.trigger()
	if st, ok := globalSteps[key]; ok {
		return st(e, ctx, ev)
	}
	current := e.sessions.State(ev.UserID)
	if st, ok := transitions[current][key]; ok {
		return st(e, ctx, ev)
	}
	return e.unhandled(ctx, current, ev)
}

func (e *Engine) unhandled(ctx context.Context, current state.State, ev Event) Response {
	logger.Debug(ctx, componentIntake, "flow.unhandled",
		slog.String("status", "skip"),
		slog.String("state", string(current)),
		slog.String("kind", ev.Kind.String()),
		slog.String("action", ev.Action),
	)
	switch ev.Kind {
	case EventCallback:
		return reply(notice(msgMenuInactive))
	case EventText:
		if current == StateIdle {
			return reply(message(msgIdleHint, KeyboardUserMain))
		}
	}
	return nil
}

func (e *Engine) publishCounts() {
	pending, approved := e.reg.Counts()
	recordCounts(pending, approved)
}
