package flow

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"strings"

	"github.com/m3rciful/giftbot/app/metrics"
	"github.com/m3rciful/giftbot/app/registry"
	"github.com/m3rciful/giftbot/core/logger"
	"github.com/m3rciful/giftbot/core/telegram/state"
)

const (
	keySnapshot = "review_snapshot"
	keyIndex    = "review_index"

	exportFileName = "approved_applications.xlsx"
)

func (e *Engine) beginAdmin(ctx context.Context, ev Event) Response {
	e.sessions.Clear(ev.UserID)
	e.sessions.SetState(ev.UserID, StateAdminAuth)
	return reply(message(msgAskPassword, KeyboardRemove))
}

func (e *Engine) authenticate(ctx context.Context, ev Event) Response {
	given := strings.TrimSpace(ev.Text)
	ok := subtle.ConstantTimeCompare([]byte(given), []byte(e.password)) == 1
	metrics.RecordAdminAuth(ok)
	if !ok {
		e.sessions.Clear(ev.UserID)
		logger.Warn(ctx, componentReview, "admin.auth", slog.String("status", "fail"))
		return reply(message(msgWrongPassword, KeyboardUserMain))
	}
	e.sessions.SetState(ev.UserID, StateAdminMain)
	logger.Info(ctx, componentReview, "admin.auth", slog.String("status", "ok"))
	return reply(message(msgAdminPanel, KeyboardAdminMain))
}

// approvedList exports the approved set. The state is left as is, so an
// export requested in the middle of a review keeps the cursor.
func (e *Engine) approvedList(ctx context.Context, ev Event) Response {
	apps := e.reg.Approved.All()
	if len(apps) == 0 {
		return reply(notice(msgApprovedEmpty))
	}
	path, err := e.exporter.Export(ctx, apps)
	metrics.RecordExport(err == nil)
	if err != nil {
		logger.Error(ctx, componentReview, "admin.export",
			slog.String("status", "fail"),
			slog.Any("err", err),
		)
		return reply(notice(msgExportFailed))
	}
	logger.Info(ctx, componentReview, "admin.export",
		slog.String("status", "ok"),
		slog.Int("count", len(apps)),
	)
	return reply(
		file(File{Path: path, Name: exportFileName, Caption: msgExportCaption, Remove: true}),
		message(msgBackToMenu, KeyboardAdminMain),
	)
}

func (e *Engine) startReview(ctx context.Context, ev Event) Response {
	snapshot := e.reg.Pending.All()
	if len(snapshot) == 0 {
		return reply(notice(msgNothingPending))
	}
	e.sessions.SetTemp(ev.UserID, keySnapshot, snapshot)
	e.sessions.SetTemp(ev.UserID, keyIndex, 0)
	e.sessions.SetState(ev.UserID, StateAdminReview)
	logger.Info(ctx, componentReview, "review.start",
		slog.String("status", "ok"),
		slog.Int("count", len(snapshot)),
	)
	return e.renderReview(ctx, ev.UserID)
}

// approve moves the snapshot item under the cursor to the approved set. The
// snapshot is not re-read, so an item changed since review start is still
// approved as captured.
func (e *Engine) approve(ctx context.Context, ev Event) Response {
	snapshot, idx := e.cursor(ev.UserID)
	if idx >= len(snapshot) {
		return e.renderReview(ctx, ev.UserID)
	}
	app, removed := e.reg.Approve(snapshot[idx])
	metrics.RecordDecision(ActionApprove)
	e.publishCounts()

	delivered := e.gifts.Send(ctx, app.UserID)
	logger.Info(ctx, componentReview, "review.approve",
		slog.String("status", okStatus(delivered)),
		slog.Int("position", idx+1),
		slog.Bool("removed", removed),
	)

	e.sessions.SetTemp(ev.UserID, keyIndex, idx+1)
	out := e.renderReview(ctx, ev.UserID)
	if !delivered {
		out = append(Response{notice(msgGiftNotSent)}, out...)
	}
	return out
}

func (e *Engine) reject(ctx context.Context, ev Event) Response {
	snapshot, idx := e.cursor(ev.UserID)
	if idx < len(snapshot) {
		metrics.RecordDecision(ActionReject)
		logger.Info(ctx, componentReview, "review.reject",
			slog.String("status", "ok"),
			slog.Int("position", idx+1),
		)
		e.sessions.SetTemp(ev.UserID, keyIndex, idx+1)
	}
	return e.renderReview(ctx, ev.UserID)
}

func (e *Engine) stopReview(ctx context.Context, ev Event) Response {
	_, idx := e.cursor(ev.UserID)
	e.dropCursor(ev.UserID)
	e.sessions.SetState(ev.UserID, StateAdminMain)
	logger.Info(ctx, componentReview, "review.stop",
		slog.String("status", "ok"),
		slog.Int("position", idx),
	)
	return reply(edit(msgReviewStopped, KeyboardAdminMain))
}

func (e *Engine) renderReview(ctx context.Context, userID int64) Response {
	snapshot, idx := e.cursor(userID)
	if idx >= len(snapshot) {
		e.dropCursor(userID)
		e.sessions.SetState(userID, StateAdminMain)
		logger.Info(ctx, componentReview, "review.done", slog.String("status", "ok"))
		return reply(edit(msgAllProcessed, KeyboardAdminMain))
	}
	return reply(edit(formatApplication(idx, snapshot[idx]), KeyboardReview))
}

func (e *Engine) cursor(userID int64) ([]registry.Application, int) {
	snapshot, _ := state.Get[[]registry.Application](e.sessions, userID, keySnapshot)
	idx, _ := state.Get[int](e.sessions, userID, keyIndex)
	return snapshot, idx
}

func (e *Engine) dropCursor(userID int64) {
	e.sessions.ClearTemp(userID, keySnapshot)
	e.sessions.ClearTemp(userID, keyIndex)
}
