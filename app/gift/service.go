// Package gift delivers the gift document to approved users.
package gift

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/giftbot/app/metrics"
	"github.com/m3rciful/giftbot/core/logger"
)

var (
	// ErrNotBound is returned when Send runs before a bot was bound.
	ErrNotBound = errors.New("gift: sender not bound")
	// ErrMissingDocument is returned when the gift file cannot be read.
	ErrMissingDocument = errors.New("gift: document not found")
)

// Sender is the part of *tele.Bot used to deliver the document.
type Sender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// Config describes the document.
type Config struct {
	Path     string
	FileName string
	Caption  string
}

// Service sends the configured document. It is usable before the bot starts
// and reports ErrNotBound until Bind is called.
type Service struct {
	cfg    Config
	sender atomic.Pointer[senderBox]
}

type senderBox struct{ Sender }

// NewService returns a Service for cfg.
func NewService(cfg Config) *Service {
	return &Service{cfg: cfg}
}

// Bind attaches the transport used for delivery.
func (s *Service) Bind(sender Sender) {
	if sender == nil {
		s.sender.Store(nil)
		return
	}
	s.sender.Store(&senderBox{sender})
}

// Send delivers the gift to userID and reports success. Failures are logged
// and counted; they are never returned to the conversation.
func (s *Service) Send(ctx context.Context, userID int64) bool {
	err := s.deliver(userID)
	metrics.RecordGift(err == nil)
	if err != nil {
		logger.Error(ctx, logger.ComponentGift, "gift.send",
			slog.String("status", "fail"),
			slog.Int64("user_id", userID),
			slog.Any("err", err),
		)
		return false
	}
	logger.Info(ctx, logger.ComponentGift, "gift.send",
		slog.String("status", "ok"),
		slog.Int64("user_id", userID),
	)
	return true
}

func (s *Service) deliver(userID int64) error {
	box := s.sender.Load()
	if box == nil {
		return ErrNotBound
	}
	if _, err := os.Stat(s.cfg.Path); err != nil {
		return fmt.Errorf("%w: %s", ErrMissingDocument, s.cfg.Path)
	}
	doc := &tele.Document{
		File:     tele.FromDisk(s.cfg.Path),
		FileName: s.cfg.FileName,
		Caption:  s.cfg.Caption,
	}
	if _, err := box.Send(tele.ChatID(userID), doc); err != nil {
		return fmt.Errorf("gift: send document: %w", err)
	}
	return nil
}
