package middleware

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	tghelpers "github.com/m3rciful/giftbot/core/telegram/helpers"
)

type fakeContext struct {
	tele.Context

	user   *tele.User
	update tele.Update
	store  map[string]interface{}
}

func newContext(userID int64) *fakeContext {
	return &fakeContext{
		user:   &tele.User{ID: userID},
		update: tele.Update{ID: 9, Message: &tele.Message{Text: "secret password"}},
		store:  map[string]interface{}{},
	}
}

func (f *fakeContext) Sender() *tele.User                { return f.user }
func (f *fakeContext) Chat() *tele.Chat                  { return &tele.Chat{ID: f.user.ID, Type: tele.ChatPrivate} }
func (f *fakeContext) Update() tele.Update               { return f.update }
func (f *fakeContext) Text() string                      { return f.update.Message.Text }
func (f *fakeContext) Get(key string) interface{}        { return f.store[key] }
func (f *fakeContext) Set(key string, value interface{}) { f.store[key] = value }

func (f *fakeContext) Send(interface{}, ...interface{}) error       { return nil }
func (f *fakeContext) EditOrSend(interface{}, ...interface{}) error { return nil }
func (f *fakeContext) Respond(...*tele.CallbackResponse) error      { return nil }

func TestAdminOnly(t *testing.T) {
	calls := 0
	next := func(tele.Context) error { calls++; return nil }
	rejected := 0
	guard := AdminOnlyMiddleware(AdminOptions{
		AdminID:  1,
		OnReject: func(tele.Context) error { rejected++; return nil },
	})(next)

	require.NoError(t, guard(newContext(1)))
	require.NoError(t, guard(newContext(2)))
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, rejected)

	open := AdminOnlyMiddleware(AdminOptions{})(next)
	require.NoError(t, open(newContext(2)))
	assert.Equal(t, 2, calls)
}

func TestCountReplies(t *testing.T) {
	c := newContext(5)
	h := CountReplies(func(c tele.Context) error {
		if err := c.Send("hi", &tele.SendOptions{ReplyMarkup: &tele.ReplyMarkup{}}); err != nil {
			return err
		}
		if err := c.Send(&tele.Document{FileName: "a.xlsx"}); err != nil {
			return err
		}
		if err := c.EditOrSend("edited"); err != nil {
			return err
		}
		if err := c.Respond(&tele.CallbackResponse{Text: "toast"}); err != nil {
			return err
		}
		return c.Respond()
	})
	require.NoError(t, h(c))

	assert.Equal(t, Tally{Messages: 1, Edits: 1, Files: 1, Toasts: 1, Keyboard: true}, Replies(c))
	assert.Equal(t, Tally{}, Replies(newContext(6)))
}

func TestLoggerMiddlewareStoresContext(t *testing.T) {
	c := newContext(5)
	var rid string
	h := LoggerMiddleware(func(c tele.Context) error {
		rid, _ = c.Get(tghelpers.RIDKey).(string)
		_, ok := tghelpers.ContextFrom(c)
		assert.True(t, ok)
		return nil
	})
	require.NoError(t, h(c))
	assert.NotEmpty(t, rid)
}

func TestRecoverSwallowsPanic(t *testing.T) {
	h := RecoverMiddleware(func(tele.Context) error { panic("boom") })
	var err error
	assert.NotPanics(t, func() { err = h(newContext(1)) })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")

	want := errors.New("plain")
	h = RecoverMiddleware(func(tele.Context) error { return want })
	assert.ErrorIs(t, h(newContext(1)), want)
}

func TestSerialExcludesConcurrentHandlers(t *testing.T) {
	var (
		lock    sync.Mutex
		wg      sync.WaitGroup
		inside  int
		maxSeen int
		countMu sync.Mutex
	)
	h := Serial(&lock)(func(tele.Context) error {
		countMu.Lock()
		inside++
		if inside > maxSeen {
			maxSeen = inside
		}
		countMu.Unlock()

		time.Sleep(time.Millisecond)

		countMu.Lock()
		inside--
		countMu.Unlock()
		return nil
	})
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			_ = h(newContext(id))
		}(int64(i + 1))
	}
	wg.Wait()
	assert.Equal(t, 1, maxSeen)
}

func TestUpdateKind(t *testing.T) {
	assert.Equal(t, "callback", updateKind(tele.Update{Callback: &tele.Callback{}}))
	assert.Equal(t, "contact", updateKind(tele.Update{Message: &tele.Message{Contact: &tele.Contact{}}}))
	assert.Equal(t, "command", updateKind(tele.Update{Message: &tele.Message{Text: "/start"}}))
	assert.Equal(t, "text", updateKind(tele.Update{Message: &tele.Message{Text: "Ann"}}))
	assert.Equal(t, "other", updateKind(tele.Update{}))
}
