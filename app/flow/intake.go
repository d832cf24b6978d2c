package flow

import (
	"context"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/m3rciful/giftbot/app/metrics"
	"github.com/m3rciful/giftbot/app/registry"
	"github.com/m3rciful/giftbot/core/logger"
	"github.com/m3rciful/giftbot/core/telegram/state"
)

const (
	keyName      = "name"
	keyEmail     = "email"
	keyBirthYear = "birth_year"

	minBirthYear = 1900
)

var emailRe = regexp.MustCompile(`^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+$`)

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return emailRe.MatchString(s)
}

// ParseBirthYear parses s and checks minBirthYear < year <= currentYear.
func ParseBirthYear(s string, currentYear int) (int, bool) {
	year, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	if year <= minBirthYear || year > currentYear {
		return 0, false
	}
	return year, true
}

func (e *Engine) start(ctx context.Context, ev Event) Response {
	return reply(message(msgWelcome, KeyboardUserMain))
}

func (e *Engine) cancel(ctx context.Context, ev Event) Response {
	prev := e.sessions.State(ev.UserID)
	e.sessions.Clear(ev.UserID)
	logger.Info(ctx, componentIntake, "flow.cancel",
		slog.String("status", "ok"),
		slog.String("state", string(prev)),
	)
	return reply(message(msgCancelled, KeyboardUserMain))
}

// requestGift handles the gift trigger. Users already on record are not let
// into the form: approved users get the gift again, pending users are told
// to wait.
func (e *Engine) requestGift(ctx context.Context, ev Event) Response {
	uid := ev.UserID
	if e.reg.IsDuplicate(uid, "", "") {
		metrics.RecordDuplicate(metrics.StageTrigger)
		if e.reg.IsApproved(uid) {
			ok := e.gifts.Send(ctx, uid)
			logger.Info(ctx, componentIntake, "intake.regift",
				slog.String("status", okStatus(ok)),
			)
			if !ok {
				return reply(message(msgGiftFailed, KeyboardUserMain))
			}
			return nil
		}
		logger.Info(ctx, componentIntake, "intake.already_pending",
			slog.String("status", "skip"),
		)
		return reply(message(msgAlreadyPending, KeyboardUserMain))
	}

	e.sessions.Clear(uid)
	e.sessions.SetState(uid, StateName)
	logger.Info(ctx, componentIntake, "intake.start", slog.String("status", "ok"))
	return reply(message(msgAskName, KeyboardRemove))
}

func (e *Engine) collectName(ctx context.Context, ev Event) Response {
	name := strings.TrimSpace(ev.Text)
	if name == "" {
		return reply(message(msgAskName, KeyboardNone))
	}
	e.sessions.SetTemp(ev.UserID, keyName, name)
	e.sessions.SetState(ev.UserID, StateEmail)
	return reply(message(msgAskEmail, KeyboardNone))
}

func (e *Engine) collectEmail(ctx context.Context, ev Event) Response {
	email := strings.TrimSpace(ev.Text)
	if !ValidEmail(email) {
		logger.Debug(ctx, componentIntake, "intake.invalid_email", slog.String("status", "retry"))
		return reply(message(msgBadEmail, KeyboardNone))
	}
	e.sessions.SetTemp(ev.UserID, keyEmail, email)
	e.sessions.SetState(ev.UserID, StateBirthYear)
	return reply(message(msgAskYear, KeyboardNone))
}

func (e *Engine) collectBirthYear(ctx context.Context, ev Event) Response {
	current := e.now().Year()
	year, ok := ParseBirthYear(ev.Text, current)
	if !ok {
		logger.Debug(ctx, componentIntake, "intake.invalid_year", slog.String("status", "retry"))
		return reply(message(badYear(current), KeyboardNone))
	}
	e.sessions.SetTemp(ev.UserID, keyBirthYear, year)
	e.sessions.SetState(ev.UserID, StateContact)
	return reply(message(msgAskContact, KeyboardContact))
}

func (e *Engine) askContactAgain(ctx context.Context, ev Event) Response {
	return reply(message(msgAskContact, KeyboardContact))
}

// commit finishes the form. The duplicate check is repeated with the full
// email and phone because the trigger-time check only knew the user id.
func (e *Engine) commit(ctx context.Context, ev Event) Response {
	uid := ev.UserID
	if ev.Contact == nil || strings.TrimSpace(ev.Contact.Phone) == "" {
		return reply(message(msgAskContact, KeyboardContact))
	}
	if ev.Contact.UserID != 0 && ev.Contact.UserID != uid {
		return reply(message(msgForeignPhone, KeyboardContact))
	}

	app := e.draft(uid)
	app.Phone = strings.TrimSpace(ev.Contact.Phone)
	if !app.Complete() {
		// session lost part of the form (e.g. expired mid-way); start over
		e.sessions.Clear(uid)
		logger.Warn(ctx, componentIntake, "intake.incomplete", slog.String("status", "fail"))
		metrics.RecordSubmission("incomplete")
		return reply(message(msgCancelled, KeyboardUserMain))
	}

	if e.reg.IsDuplicate(uid, app.Email, app.Phone) {
		e.sessions.Clear(uid)
		metrics.RecordDuplicate(metrics.StageCommit)
		metrics.RecordSubmission("duplicate")
		logger.Info(ctx, componentIntake, "intake.duplicate", slog.String("status", "skip"))
		return reply(message(msgDuplicate, KeyboardUserMain))
	}

	e.reg.Submit(app)
	e.sessions.Clear(uid)
	metrics.RecordSubmission("ok")
	e.publishCounts()
	logger.Info(ctx, componentIntake, "intake.submitted",
		slog.String("status", "ok"),
		slog.Int("birth_year", app.BirthYear),
	)
	return reply(message(msgSubmitted, KeyboardUserMain))
}

func (e *Engine) draft(uid int64) registry.Application {
	app := registry.Application{UserID: uid}
	app.Name, _ = state.Get[string](e.sessions, uid, keyName)
	app.Email, _ = state.Get[string](e.sessions, uid, keyEmail)
	app.BirthYear, _ = state.Get[int](e.sessions, uid, keyBirthYear)
	return app
}

func recordCounts(pending, approved int) {
	metrics.SetApplications(pending, approved)
}

func okStatus(ok bool) string {
	if ok {
		return "ok"
	}
	return "fail"
}
