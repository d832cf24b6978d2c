package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreconfig "github.com/m3rciful/giftbot/core/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFullFile(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: tkn
  admin_id: 10
admin:
  password: secret
gift:
  path: /srv/gift.pdf
  caption: Enjoy
export:
  dir: /tmp/exports
session:
  ttl: 2h
  sweep_schedule: "@every 1m"
metrics:
  listen: ":9090"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "tkn", cfg.Telegram.Token)
	assert.Equal(t, int64(10), cfg.Telegram.AdminID)
	assert.Equal(t, coreconfig.RunModeLongpoll, cfg.Telegram.RunMode)
	assert.Equal(t, "secret", cfg.Admin.Password)
	assert.Equal(t, "/srv/gift.pdf", cfg.Gift.Path)
	assert.Equal(t, DefaultGiftFileName, cfg.Gift.FileName)
	assert.Equal(t, "Enjoy", cfg.Gift.Caption)
	assert.Equal(t, "/tmp/exports", cfg.Export.Dir)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "@every 1m", cfg.Session.SweepSchedule)
	assert.Equal(t, ":9090", cfg.Metrics.Listen)
	assert.Same(t, &cfg.Config, cfg.CoreConfig())
}

func TestLoadEnvOverridesSecrets(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: tkn
admin:
  password: from-yaml
gift:
  path: /srv/gift.pdf
`)
	t.Setenv("ADMIN_PASSWORD", "from-env")
	t.Setenv("GIFT_PDF_PATH", "/env/gift.pdf")
	t.Setenv("METRICS_LISTEN", "127.0.0.1:9100")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Admin.Password)
	assert.Equal(t, "/env/gift.pdf", cfg.Gift.Path)
	assert.Equal(t, "127.0.0.1:9100", cfg.Metrics.Listen)
}

func TestNormalizeDefaults(t *testing.T) {
	cfg := &Config{
		Config: coreconfig.Config{Telegram: coreconfig.TelegramConfig{Token: "t"}},
		Admin:  AdminConfig{Password: "p"},
		Gift:   GiftConfig{Path: " gift.pdf "},
	}
	require.NoError(t, Normalize(cfg))
	assert.Equal(t, "gift.pdf", cfg.Gift.Path)
	assert.Equal(t, DefaultGiftCaption, cfg.Gift.Caption)
	assert.Equal(t, DefaultSessionTTL, cfg.Session.TTL)
	assert.Equal(t, DefaultSweepSchedule, cfg.Session.SweepSchedule)
	assert.Empty(t, cfg.Metrics.Listen)
}

func TestNormalizeTrimsAdminPassword(t *testing.T) {
	cfg := &Config{
		Config: coreconfig.Config{Telegram: coreconfig.TelegramConfig{Token: "t"}},
		Admin:  AdminConfig{Password: "  hunter2\n"},
		Gift:   GiftConfig{Path: "gift.pdf"},
	}
	require.NoError(t, Normalize(cfg))
	assert.Equal(t, "hunter2", cfg.Admin.Password)
}

func TestNormalizeErrors(t *testing.T) {
	base := func() *Config {
		return &Config{
			Config: coreconfig.Config{Telegram: coreconfig.TelegramConfig{Token: "t"}},
			Admin:  AdminConfig{Password: "p"},
			Gift:   GiftConfig{Path: "gift.pdf"},
		}
	}

	cfg := base()
	cfg.Admin.Password = ""
	assert.ErrorIs(t, Normalize(cfg), ErrNoAdminPassword)

	cfg = base()
	cfg.Admin.Password = " \t\n"
	assert.ErrorIs(t, Normalize(cfg), ErrNoAdminPassword)

	cfg = base()
	cfg.Gift.Path = "  "
	assert.ErrorIs(t, Normalize(cfg), ErrNoGiftPath)

	cfg = base()
	cfg.Session.TTL = -time.Second
	assert.Error(t, Normalize(cfg))

	cfg = base()
	cfg.Session.SweepSchedule = "every now and then"
	assert.Error(t, Normalize(cfg))

	cfg = base()
	cfg.Telegram.Token = ""
	assert.Error(t, Normalize(cfg))

	assert.Error(t, Normalize(nil))
}
