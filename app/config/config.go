// Package config loads the gift bot configuration: the shared core settings
// plus admin, gift, export, session and metrics sections.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	coreconfig "github.com/m3rciful/giftbot/core/config"
)

const (
	DefaultGiftFileName  = "gift.pdf"
	DefaultGiftCaption   = "🎁 Your gift!"
	DefaultSessionTTL    = 24 * time.Hour
	DefaultSweepSchedule = "@every 10m"
)

var (
	// ErrNoAdminPassword is returned when admin.password is empty.
	ErrNoAdminPassword = errors.New("config: admin.password is required")
	// ErrNoGiftPath is returned when gift.path is empty.
	ErrNoGiftPath = errors.New("config: gift.path is required")
)

// AdminConfig holds review panel settings.
type AdminConfig struct {
	Password string `yaml:"password" envconfig:"ADMIN_PASSWORD"`
}

// GiftConfig describes the document delivered to approved users.
type GiftConfig struct {
	Path     string `yaml:"path" envconfig:"GIFT_PDF_PATH"`
	FileName string `yaml:"file_name" envconfig:"GIFT_FILE_NAME"`
	Caption  string `yaml:"caption" envconfig:"GIFT_CAPTION"`
}

// ExportConfig controls where spreadsheet exports are written.
type ExportConfig struct {
	// Dir defaults to the OS temp directory.
	Dir string `yaml:"dir" envconfig:"EXPORT_DIR"`
}

// SessionConfig controls idle conversation expiry.
type SessionConfig struct {
	TTL           time.Duration `yaml:"ttl" envconfig:"SESSION_TTL"`
	SweepSchedule string        `yaml:"sweep_schedule" envconfig:"SESSION_SWEEP_SCHEDULE"`
}

// MetricsConfig controls the Prometheus endpoint. An empty Listen disables it.
type MetricsConfig struct {
	Listen string `yaml:"listen" envconfig:"METRICS_LISTEN"`
}

// Config is the full bot configuration.
type Config struct {
	coreconfig.Config `yaml:",inline"`

	Admin   AdminConfig   `yaml:"admin"`
	Gift    GiftConfig    `yaml:"gift"`
	Export  ExportConfig  `yaml:"export"`
	Session SessionConfig `yaml:"session"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// CoreConfig exposes the embedded core configuration.
func (c *Config) CoreConfig() *coreconfig.Config {
	if c == nil {
		return nil
	}
	return &c.Config
}

// Load reads path, overlays the environment and validates the result.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := coreconfig.Decode(path, &cfg); err != nil {
		return nil, err
	}
	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize validates cfg and fills defaults.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}
	if err := coreconfig.Normalize(&cfg.Config); err != nil {
		return err
	}

	cfg.Admin.Password = strings.TrimSpace(cfg.Admin.Password)
	if cfg.Admin.Password == "" {
		return ErrNoAdminPassword
	}

	cfg.Gift.Path = strings.TrimSpace(cfg.Gift.Path)
	if cfg.Gift.Path == "" {
		return ErrNoGiftPath
	}
	if strings.TrimSpace(cfg.Gift.FileName) == "" {
		cfg.Gift.FileName = DefaultGiftFileName
	}
	if cfg.Gift.Caption == "" {
		cfg.Gift.Caption = DefaultGiftCaption
	}

	cfg.Export.Dir = strings.TrimSpace(cfg.Export.Dir)

	if cfg.Session.TTL < 0 {
		return fmt.Errorf("config: session.ttl must be >= 0")
	}
	if cfg.Session.TTL == 0 {
		cfg.Session.TTL = DefaultSessionTTL
	}
	cfg.Session.SweepSchedule = strings.TrimSpace(cfg.Session.SweepSchedule)
	if cfg.Session.SweepSchedule == "" {
		cfg.Session.SweepSchedule = DefaultSweepSchedule
	}
	if _, err := cron.ParseStandard(cfg.Session.SweepSchedule); err != nil {
		return fmt.Errorf("config: invalid session.sweep_schedule %q: %w", cfg.Session.SweepSchedule, err)
	}

	cfg.Metrics.Listen = strings.TrimSpace(cfg.Metrics.Listen)
	return nil
}
