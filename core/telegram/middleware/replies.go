package middleware

import (
	"sync"

	tele "gopkg.in/telebot.v4"
)

const tallyKey = "reply_tally"

// Tally is the number of replies a handler produced for one update.
type Tally struct {
	Messages int
	Edits    int
	Files    int
	Toasts   int
	Keyboard bool
}

// tallyBox is shared between the handler goroutine and sender workers.
type tallyBox struct {
	mu sync.Mutex
	t  Tally
}

func (b *tallyBox) add(fn func(t *Tally)) {
	b.mu.Lock()
	fn(&b.t)
	b.mu.Unlock()
}

// replyContext wraps tele.Context to count outgoing replies.
type replyContext struct {
	tele.Context
	box *tallyBox
}

func hasMarkup(opts []interface{}) bool {
	for _, o := range opts {
		switch v := o.(type) {
		case *tele.SendOptions:
			if v != nil && v.ReplyMarkup != nil {
				return true
			}
		case *tele.ReplyMarkup:
			if v != nil {
				return true
			}
		}
	}
	return false
}

func (r replyContext) Send(what interface{}, opts ...interface{}) error {
	err := r.Context.Send(what, opts...)
	if err != nil {
		return err
	}
	kb := hasMarkup(opts)
	_, isDoc := what.(*tele.Document)
	r.box.add(func(t *Tally) {
		if isDoc {
			t.Files++
		} else {
			t.Messages++
		}
		t.Keyboard = t.Keyboard || kb
	})
	return nil
}

func (r replyContext) EditOrSend(what interface{}, opts ...interface{}) error {
	err := r.Context.EditOrSend(what, opts...)
	if err == nil {
		kb := hasMarkup(opts)
		r.box.add(func(t *Tally) {
			t.Edits++
			t.Keyboard = t.Keyboard || kb
		})
	}
	return err
}

func (r replyContext) Respond(resp ...*tele.CallbackResponse) error {
	err := r.Context.Respond(resp...)
	if err == nil && len(resp) > 0 && resp[0] != nil && resp[0].Text != "" {
		r.box.add(func(t *Tally) { t.Toasts++ })
	}
	return err
}

// CountReplies tallies messages, edits, files and toasts sent while handling an update.
func CountReplies(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		box := &tallyBox{}
		c.Set(tallyKey, box)
		return next(replyContext{Context: c, box: box})
	}
}

// Replies returns the current tally, or a zero Tally outside CountReplies.
func Replies(c tele.Context) Tally {
	box, ok := c.Get(tallyKey).(*tallyBox)
	if !ok || box == nil {
		return Tally{}
	}
	box.mu.Lock()
	defer box.mu.Unlock()
	return box.t
}
