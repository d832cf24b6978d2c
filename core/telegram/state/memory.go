package state

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/m3rciful/giftbot/core/logger"
)

type memoryManager struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
	now      func() time.Time
}

// Option customises the in-memory manager.
type Option func(*memoryManager)

// WithClock overrides the clock used for UpdatedAt stamps.
func WithClock(now func() time.Time) Option {
	return func(m *memoryManager) {
		if now != nil {
			m.now = now
		}
	}
}

// NewMemoryManager returns a process-local Manager. Nothing survives a
// restart.
func NewMemoryManager(opts ...Option) Manager {
	m := &memoryManager{
		sessions: make(map[int64]*Session),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// touch returns the session for userID, creating it, and stamps it. Caller holds mu.
func (m *memoryManager) touch(userID int64) *Session {
	sess, ok := m.sessions[userID]
	if !ok {
		sess = &Session{State: StateIdle, Data: make(map[string]any)}
		m.sessions[userID] = sess
	}
	sess.UpdatedAt = m.now()
	return sess
}

func (m *memoryManager) State(userID int64) State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if sess, ok := m.sessions[userID]; ok {
		return sess.State
	}
	return StateIdle
}

func (m *memoryManager) SetState(userID int64, st State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.touch(userID).State = st
}

func (m *memoryManager) Touch(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sess, ok := m.sessions[userID]; ok {
		sess.UpdatedAt = m.now()
	}
}

func (m *memoryManager) InProgress(userID int64) bool {
	return m.State(userID) != StateIdle
}

func (m *memoryManager) Temp(userID int64, key string) (any, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[userID]
	if !ok {
		return nil, false
	}
	v, ok := sess.Data[key]
	return v, ok
}

func (m *memoryManager) SetTemp(userID int64, key string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.touch(userID).Data[key] = value
}

func (m *memoryManager) ClearTemp(userID int64, key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sess, ok := m.sessions[userID]; ok {
		delete(sess.Data, key)
	}
}

func (m *memoryManager) Snapshot(userID int64) Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[userID]
	if !ok {
		return Session{State: StateIdle, Data: map[string]any{}}
	}
	return Session{State: sess.State, Data: maps.Clone(sess.Data), UpdatedAt: sess.UpdatedAt}
}

func (m *memoryManager) Clear(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
}

func (m *memoryManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *memoryManager) Expire(cutoff time.Time) []int64 {
	m.mu.Lock()
	var expired []int64
	for id, sess := range m.sessions {
		if sess.UpdatedAt.Before(cutoff) {
			expired = append(expired, id)
			delete(m.sessions, id)
		}
	}
	remaining := len(m.sessions)
	m.mu.Unlock()

	slices.Sort(expired)
	if len(expired) > 0 {
		logger.Debug(context.Background(), logger.ComponentSessions, "sessions.drop",
			slog.String("status", "ok"),
			slog.Int("count", len(expired)),
			slog.Int("remaining", remaining),
		)
	}
	return expired
}
