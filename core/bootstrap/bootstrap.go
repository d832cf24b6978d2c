package bootstrap

import (
	"context"
	"fmt"

	coreconfig "github.com/m3rciful/giftbot/core/config"
	"github.com/m3rciful/giftbot/core/logger"
)

// Options control the generic bootstrap pipeline shared between bots.
type Options[T any] struct {
	Config *coreconfig.Config
	// AppConfig is handed to the service provider untouched.
	AppConfig interface{}
	Storage   Storage

	LoggerInit func(*coreconfig.Config) error
	Services   ServiceProvider[T]
}

// Run initializes the logger and then builds application services.
func Run[T any](ctx context.Context, opts Options[T]) (T, error) {
	var zero T
	if opts.Config == nil {
		return zero, fmt.Errorf("bootstrap: nil config provided")
	}
	if opts.Services == nil {
		return zero, fmt.Errorf("bootstrap: nil service provider")
	}

	loggerInit := opts.LoggerInit
	if loggerInit == nil {
		loggerInit = logger.InitLogger
	}
	if err := loggerInit(opts.Config); err != nil {
		return zero, fmt.Errorf("bootstrap: logger init failed: %w", err)
	}

	svc, err := opts.Services.Provide(ctx, opts.AppConfig, opts.Storage)
	if err != nil {
		return zero, fmt.Errorf("bootstrap: services: %w", err)
	}
	return svc, nil
}
