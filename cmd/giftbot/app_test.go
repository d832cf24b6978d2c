package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	appconfig "github.com/m3rciful/giftbot/app/config"
	"github.com/m3rciful/giftbot/app/registry"
	coreconfig "github.com/m3rciful/giftbot/core/config"
	coretelegram "github.com/m3rciful/giftbot/core/telegram"
)

func testConfig() *appconfig.Config {
	return &appconfig.Config{
		Config: coreconfig.Config{
			Telegram: coreconfig.TelegramConfig{Token: "t", AdminID: 1, RunMode: coreconfig.RunModeLongpoll},
		},
		Admin:   appconfig.AdminConfig{Password: "pw"},
		Gift:    appconfig.GiftConfig{Path: "gift.pdf", FileName: "gift.pdf"},
		Session: appconfig.SessionConfig{TTL: time.Hour, SweepSchedule: "@every 1m"},
	}
}

func TestNewAppRejectsWrongInputs(t *testing.T) {
	_, err := NewApp(context.Background(), "nope", registry.New())
	assert.Error(t, err)

	_, err = NewApp(context.Background(), testConfig(), "nope")
	assert.Error(t, err)
}

func TestTelegramRunOptions(t *testing.T) {
	app, err := NewApp(context.Background(), testConfig(), registry.New())
	require.NoError(t, err)

	opts, err := app.TelegramRunOptions()
	require.NoError(t, err)

	assert.True(t, opts.Synchronous)
	assert.Equal(t, 1, opts.DispatcherOptions.Workers)
	assert.NotNil(t, opts.DispatcherOptions.Observe)
	assert.NotNil(t, opts.OnStart)
	assert.NotNil(t, opts.OnStop)

	endpoints := map[interface{}]bool{}
	for _, r := range opts.Routes {
		endpoints[r.Endpoint] = true
	}
	for _, ep := range []interface{}{"/start", "/gift", "/cancel", "/admin", tele.OnText, tele.OnContact, tele.OnCallback} {
		assert.True(t, endpoints[ep], "missing route %v", ep)
	}

	names := make([]string, 0, len(opts.Middlewares))
	for _, mw := range opts.Middlewares {
		names = append(names, mw.Name)
	}
	assert.Contains(t, names, "serial")
	assert.Contains(t, names, "session")
}

func TestLifecycleHooks(t *testing.T) {
	app, err := NewApp(context.Background(), testConfig(), registry.New())
	require.NoError(t, err)
	require.NoError(t, app.start(context.Background(), coretelegram.Runtime{}))
	require.NoError(t, app.stop(context.Background(), coretelegram.Runtime{}))
}
