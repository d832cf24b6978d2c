package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	tg "github.com/m3rciful/giftbot/core/telegram"
	tghelpers "github.com/m3rciful/giftbot/core/telegram/helpers"
)

type fakeContext struct {
	tele.Context

	user      *tele.User
	text      string
	callback  *tele.Callback
	store     map[string]interface{}
	responses int
}

func newContext(userID int64, text string) *fakeContext {
	return &fakeContext{user: &tele.User{ID: userID}, text: text, store: map[string]interface{}{}}
}

func (f *fakeContext) Sender() *tele.User                { return f.user }
func (f *fakeContext) Chat() *tele.Chat                  { return &tele.Chat{ID: f.user.ID} }
func (f *fakeContext) Update() tele.Update               { return tele.Update{ID: 3} }
func (f *fakeContext) Text() string                      { return f.text }
func (f *fakeContext) Callback() *tele.Callback          { return f.callback }
func (f *fakeContext) Get(key string) interface{}        { return f.store[key] }
func (f *fakeContext) Set(key string, value interface{}) { f.store[key] = value }
func (f *fakeContext) Respond(...*tele.CallbackResponse) error {
	f.responses++
	return nil
}

type fakeConversation struct {
	active   map[int64]bool
	texts    []string
	contacts int
}

func (f *fakeConversation) InProgress(userID int64) bool { return f.active[userID] }
func (f *fakeConversation) HandleText(c tele.Context) error {
	f.texts = append(f.texts, c.Text())
	return nil
}
func (f *fakeConversation) HandleContact(tele.Context) error {
	f.contacts++
	return nil
}

func routeFor(routes []tg.Route, endpoint string) tele.HandlerFunc {
	for _, r := range routes {
		if r.Endpoint == endpoint {
			return r.Handler
		}
	}
	return nil
}

func TestTextRoutesDispatch(t *testing.T) {
	reg := tg.NewRegistry()
	var ran []string
	require.NoError(t, reg.RegisterCommand("/gift", tg.Command{
		Description: "Gift",
		Aliases:     []string{"🎁 Get gift"},
		Handler:     func(tele.Context) error { ran = append(ran, "gift"); return nil },
	}))
	require.NoError(t, reg.RegisterCommand("/admin", tg.Command{
		Description: "Admin",
		AdminOnly:   true,
		Aliases:     []string{"admin panel"},
		Handler:     func(tele.Context) error { ran = append(ran, "admin"); return nil },
	}))
	reg.SetTextFallback(func(tele.Context) error { ran = append(ran, "fallback"); return nil })

	conv := &fakeConversation{active: map[int64]bool{7: true}}
	routes := TextRoutes(conv, reg, TextOptions{AdminID: 1})
	text := routeFor(routes, tele.OnText)
	require.NotNil(t, text)

	require.NoError(t, text(newContext(7, "Ann")))
	require.NoError(t, text(newContext(8, "🎁 Get gift")))
	require.NoError(t, text(newContext(8, "admin panel")))
	require.NoError(t, text(newContext(1, "admin panel")))
	require.NoError(t, text(newContext(8, "hello")))

	assert.Equal(t, []string{"Ann"}, conv.texts)
	assert.Equal(t, []string{"gift", "admin", "fallback"}, ran)

	contact := routeFor(routes, tele.OnContact)
	require.NoError(t, contact(newContext(7, "")))
	assert.Equal(t, 1, conv.contacts)
}

func TestCallbackRouteAnswersOnce(t *testing.T) {
	reg := tg.NewRegistry()
	require.NoError(t, reg.RegisterCallback("review", func(tele.Context) error { return nil }))
	require.NoError(t, reg.RegisterCallback("approve", func(c tele.Context) error {
		return tghelpers.Notify(c, "done")
	}))
	route := CallbackRoute(reg, CallbackOptions{})
	assert.Equal(t, tele.OnCallback, route.Endpoint)

	c := newContext(1, "")
	c.callback = &tele.Callback{Data: "\freview"}
	require.NoError(t, route.Handler(c))
	assert.Equal(t, 1, c.responses)

	c = newContext(1, "")
	c.callback = &tele.Callback{Data: "\fapprove"}
	require.NoError(t, route.Handler(c))
	assert.Equal(t, 1, c.responses)

	c = newContext(1, "")
	c.callback = &tele.Callback{Data: "\fmissing"}
	require.NoError(t, route.Handler(c))
	assert.Equal(t, 1, c.responses)
}

func TestNormalizeHandlerName(t *testing.T) {
	assert.Equal(t, "gift", normalizeHandlerName("/Gift"))
	assert.Equal(t, "unknown", normalizeHandlerName(" "))
	assert.Equal(t, "get_gift", normalizeHandlerName("get gift"))
}
