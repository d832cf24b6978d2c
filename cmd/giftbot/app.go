package main

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	appconfig "github.com/m3rciful/giftbot/app/config"
	"github.com/m3rciful/giftbot/app/export"
	"github.com/m3rciful/giftbot/app/flow"
	"github.com/m3rciful/giftbot/app/gift"
	"github.com/m3rciful/giftbot/app/handlers"
	"github.com/m3rciful/giftbot/app/metrics"
	"github.com/m3rciful/giftbot/app/registry"
	"github.com/m3rciful/giftbot/app/sessions"
	"github.com/m3rciful/giftbot/core/bootstrap"
	"github.com/m3rciful/giftbot/core/logger"
	coretelegram "github.com/m3rciful/giftbot/core/telegram"
	"github.com/m3rciful/giftbot/core/telegram/router"
	tgsender "github.com/m3rciful/giftbot/core/telegram/sender"
	"github.com/m3rciful/giftbot/core/telegram/state"
)

const shutdownTimeout = 5 * time.Second

// App holds the wired services of the bot.
type App struct {
	cfg      *appconfig.Config
	lock     *sync.Mutex
	sessions state.Manager
	gifts    *gift.Service
	handlers *handlers.Handlers
	sweeper  *sessions.Sweeper
	metrics  *metrics.Server
}

// NewApp builds the services. storage must be the application registry.
func NewApp(_ context.Context, raw interface{}, storage bootstrap.Storage) (*App, error) {
	cfg, ok := raw.(*appconfig.Config)
	if !ok || cfg == nil {
		return nil, fmt.Errorf("app: unexpected config %T", raw)
	}
	reg, ok := storage.(*registry.Registry)
	if !ok || reg == nil {
		return nil, fmt.Errorf("app: unexpected storage %T", storage)
	}

	lock := &sync.Mutex{}
	mgr := state.NewMemoryManager()
	gifts := gift.NewService(gift.Config{
		Path:     cfg.Gift.Path,
		FileName: cfg.Gift.FileName,
		Caption:  cfg.Gift.Caption,
	})

	engine, err := flow.NewEngine(flow.Options{
		Registry:      reg,
		Sessions:      mgr,
		Gifts:         gifts,
		Exporter:      export.NewExporter(cfg.Export.Dir),
		AdminPassword: cfg.Admin.Password,
	})
	if err != nil {
		return nil, err
	}

	sweeper, err := sessions.New(sessions.Options{
		Sessions: mgr,
		Lock:     lock,
		TTL:      cfg.Session.TTL,
		Schedule: cfg.Session.SweepSchedule,
	})
	if err != nil {
		return nil, err
	}

	srv, err := metrics.Listen(cfg.Metrics.Listen)
	if err != nil {
		return nil, err
	}

	return &App{
		cfg:      cfg,
		lock:     lock,
		sessions: mgr,
		gifts:    gifts,
		handlers: handlers.New(engine),
		sweeper:  sweeper,
		metrics:  srv,
	}, nil
}

// TelegramRunOptions wires routes, middlewares and lifecycle hooks.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg := coretelegram.NewRegistry()
	if err := a.handlers.Register(reg); err != nil {
		return coretelegram.RunOptions{}, err
	}

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{AdminID: a.cfg.Telegram.AdminID})
	routes = append(routes, router.TextRoutes(a.handlers, reg, router.TextOptions{AdminID: a.cfg.Telegram.AdminID})...)
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{}))

	return coretelegram.RunOptions{
		Config:   a.cfg.CoreConfig(),
		Registry: reg,
		// one worker keeps replies to a chat in order
		DispatcherOptions: tgsender.Options{Workers: 1, Observe: metrics.RecordOutbound},
		Middlewares: coretelegram.DefaultMiddlewares(coretelegram.MiddlewareOptions{
			Lock:     a.lock,
			Sessions: a.sessions,
		}),
		Routes:      routes,
		Synchronous: true,
		OnStart:     a.start,
		OnStop:      a.stop,
	}, nil
}

func (a *App) start(ctx context.Context, rt coretelegram.Runtime) error {
	if rt.Bot != nil {
		a.gifts.Bind(rt.Bot)
	}
	a.sweeper.Start()
	a.metrics.Start()
	metrics.SetApplications(0, 0)
	logger.Info(ctx, logger.ComponentApp, "services.start",
		slog.String("status", "ok"),
		slog.String("addr", a.metrics.Addr()),
	)
	return nil
}

func (a *App) stop(ctx context.Context, _ coretelegram.Runtime) error {
	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	a.sweeper.Stop(stopCtx)
	a.gifts.Bind(nil)
	if err := a.metrics.Shutdown(stopCtx); err != nil {
		return fmt.Errorf("app: metrics shutdown: %w", err)
	}
	return nil
}
