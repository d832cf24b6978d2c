package state

import "time"

// State tags the conversation step a user is in.
type State string

// StateIdle means no conversation is open.
const StateIdle State = "idle"

// Session is one user's conversation: the step tag plus the answers
// collected so far.
type Session struct {
	State     State
	Data      map[string]any
	UpdatedAt time.Time
}

// Manager stores sessions keyed by Telegram user id. Every write and every
// Touch refreshes UpdatedAt, which Expire compares against.
type Manager interface {
	State(userID int64) State
	SetState(userID int64, st State)
	InProgress(userID int64) bool
	// Touch marks an existing session as active without changing it.
	Touch(userID int64)

	Temp(userID int64, key string) (any, bool)
	SetTemp(userID int64, key string, value any)
	ClearTemp(userID int64, key string)

	// Snapshot returns a copy safe to read without the store's lock.
	Snapshot(userID int64) Session
	Clear(userID int64)
	Len() int

	// Expire removes sessions not touched since cutoff and returns the affected user IDs.
	Expire(cutoff time.Time) []int64
}

// Get reads a temp value as T. A value of another type reports false.
func Get[T any](m Manager, userID int64, key string) (T, bool) {
	var zero T
	raw, ok := m.Temp(userID, key)
	if !ok {
		return zero, false
	}
	v, ok := raw.(T)
	return v, ok
}
