package state

import tele "gopkg.in/telebot.v4"

const stateKey = "fsm_state"

// WithSession records the sender's state tag on the handler context before
// the update is dispatched, so log lines can report the state the update
// arrived in.
func WithSession(mgr Manager) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if sender := c.Sender(); sender != nil && mgr != nil {
				c.Set(stateKey, mgr.State(sender.ID))
			}
			return next(c)
		}
	}
}

// StateFrom returns the state tag stored by WithSession.
func StateFrom(c tele.Context) (State, bool) {
	if c == nil {
		return "", false
	}
	st, ok := c.Get(stateKey).(State)
	return st, ok
}
