package logger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/m3rciful/giftbot/core/buildinfo"
	coreconfig "github.com/m3rciful/giftbot/core/config"
)

const writerBufSize = 64 * 1024

var (
	initOnce   sync.Once
	shutdownMu sync.Mutex
	closed     bool

	writers []*asyncWriter
	files   []io.Closer

	levelVar slog.LevelVar

	debugGate = newDebugSampler(defaultDebugEvery)
	traceAll  bool

	// L is the base logger. Use Component or the Info/Warn/... helpers for scoped output.
	L *slog.Logger
)

// settings is the logging section resolved to concrete values.
type settings struct {
	level      slog.Level
	format     logFormat
	keyOrder   []string
	profile    string
	debugEvery int
	stacks     bool
	mainFile   string
	errorsFile string
}

func resolveSettings(cfg *coreconfig.Config) settings {
	s := settings{
		level:      slog.LevelInfo,
		format:     formatJSON,
		keyOrder:   append([]string(nil), defaultKeyOrder...),
		debugEvery: defaultDebugEvery,
		stacks:     true,
	}
	if cfg == nil {
		return s
	}
	lc := cfg.Logging

	s.profile = strings.ToLower(strings.TrimSpace(lc.Profile))
	if s.profile == "" {
		s.profile = "prod"
	}

	switch strings.ToLower(strings.TrimSpace(lc.Format)) {
	case "kv", "text", "pretty":
		s.format = formatKV
	case "json":
	default:
		if s.profile == "debug" || s.profile == "dev" {
			s.format = formatKV
		}
	}

	switch strings.ToLower(strings.TrimSpace(lc.Level)) {
	case "debug":
		s.level = slog.LevelDebug
	case "warn", "warning":
		s.level = slog.LevelWarn
	case "error":
		s.level = slog.LevelError
	}

	if order := splitKeys(lc.KeysOrder); len(order) > 0 {
		s.keyOrder = order
	}
	s.debugEvery = parseSampleRate(lc.DebugSample)
	s.stacks = !isFalsy(lc.Stacks)

	if dir := strings.TrimSpace(lc.Dir); dir != "" {
		if f := strings.TrimSpace(lc.BotFile); f != "" {
			s.mainFile = filepath.Join(dir, f)
		}
		if f := strings.TrimSpace(lc.ErrorsFile); f != "" {
			s.errorsFile = filepath.Join(dir, f)
		}
	}
	return s
}

func splitKeys(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "default" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// InitLogger configures the global structured logger. It may be called only once.
// Stdout always receives every line; logging.bot_file mirrors it and
// logging.errors_file collects WARN and above.
func InitLogger(cfg *coreconfig.Config) error {
	var initErr error
	initOnce.Do(func() {
		s := resolveSettings(cfg)
		levelVar.Set(s.level)
		debugGate.Set(s.debugEvery)
		traceAll = isTruthy(os.Getenv("TRACE")) || isTruthy(os.Getenv("LOG_TRACE"))

		mainSinks := []io.Writer{os.Stdout}
		if s.mainFile != "" {
			f, err := openLogFile(s.mainFile)
			if err != nil {
				initErr = err
				return
			}
			mainSinks = append(mainSinks, f)
		}
		main := newAsyncWriter(mainSinks, writerBufSize)
		writers = append(writers, main)

		var alerts *asyncWriter
		if s.errorsFile != "" {
			f, err := openLogFile(s.errorsFile)
			if err != nil {
				initErr = err
				return
			}
			alerts = newAsyncWriter([]io.Writer{f}, writerBufSize)
			writers = append(writers, alerts)
		}

		L = slog.New(newStructuredHandler(handlerConfig{
			level:    &levelVar,
			writer:   main,
			alerts:   alerts,
			format:   s.format,
			keyOrder: s.keyOrder,
			stacks:   s.stacks,
		}))
		slog.SetDefault(L)

		attrs := []slog.Attr{
			slog.String("component", ComponentApp),
			slog.String("go_version", runtime.Version()),
			slog.String("cfg_profile", s.profile),
		}
		attrs = append(attrs, buildinfo.Attrs()...)
		L.LogAttrs(context.Background(), slog.LevelInfo, "startup", attrs...)
	})
	return initErr
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("logger: create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logger: open %s: %w", path, err)
	}
	files = append(files, f)
	return f, nil
}

// Shutdown flushes buffered log output and closes opened sinks.
func Shutdown() error {
	shutdownMu.Lock()
	defer shutdownMu.Unlock()
	if closed {
		return nil
	}
	closed = true

	var errs []error
	for _, w := range writers {
		errs = append(errs, w.Flush(), w.Close())
	}
	for _, c := range files {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

func isTruthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

func isFalsy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "0", "false", "off", "no":
		return true
	}
	return false
}

// ShouldSampleDebug reports whether a high-volume debug line should be
// written. TRACE=1 in the environment lets every line through.
func ShouldSampleDebug() bool {
	return traceAll || debugGate.Allow()
}
