package bootstrap

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreconfig "github.com/m3rciful/giftbot/core/config"
)

type store struct{ name string }

func TestRunProvidesServices(t *testing.T) {
	var loggerCalled bool
	st := &store{name: "memory"}
	svc, err := Run(context.Background(), Options[string]{
		Config:    &coreconfig.Config{},
		AppConfig: "app",
		Storage:   st,
		LoggerInit: func(*coreconfig.Config) error {
			loggerCalled = true
			return nil
		},
		Services: ProviderFunc[string](func(_ context.Context, cfg interface{}, storage Storage) (string, error) {
			return cfg.(string) + ":" + storage.(*store).name, nil
		}),
	})
	require.NoError(t, err)
	assert.True(t, loggerCalled)
	assert.Equal(t, "app:memory", svc)
}

func TestRunErrors(t *testing.T) {
	provider := ProviderFunc[int](func(context.Context, interface{}, Storage) (int, error) {
		return 1, nil
	})
	noopLogger := func(*coreconfig.Config) error { return nil }

	_, err := Run(context.Background(), Options[int]{Services: provider, LoggerInit: noopLogger})
	assert.Error(t, err, "nil config")

	_, err = Run(context.Background(), Options[int]{Config: &coreconfig.Config{}, LoggerInit: noopLogger})
	assert.Error(t, err, "nil provider")

	boom := errors.New("boom")
	_, err = Run(context.Background(), Options[int]{
		Config:     &coreconfig.Config{},
		LoggerInit: func(*coreconfig.Config) error { return boom },
		Services:   provider,
	})
	assert.ErrorIs(t, err, boom)

	_, err = Run(context.Background(), Options[int]{
		Config:     &coreconfig.Config{},
		LoggerInit: noopLogger,
		Services: ProviderFunc[int](func(context.Context, interface{}, Storage) (int, error) {
			return 0, boom
		}),
	})
	assert.ErrorIs(t, err, boom)
}
