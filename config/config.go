package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Config struct {
	Env            string `env:"ENVIRONMENT" envDefault:"development"`
	ServerPort     int    `env:"SERVER_PORT" envDefault:"3010"`
	BasicAuthCreds string `env:"BASIC_AUTH_CREDS"`
	DatabasePath   string `env:"DATABASE_PATH" envDefault:"stockwatch.sqlite"`

	Monitor struct {
		PollInterval time.Duration `env:"POLL_INTERVAL" envDefault:"5m"`
		HarvestLimit int           `env:"HARVEST_LIMIT" envDefault:"0"` // 0 means no cap
	}
	Vendor struct {
		APIBase string        `env:"VENDOR_API_BASE" envDefault:"https://www.webhallen.com"`
		Timeout time.Duration `env:"VENDOR_TIMEOUT" envDefault:"15s"`
	}
	Render struct {
		Mode              string        `env:"RENDER_MODE" envDefault:"browser"` // browser or http
		NavigationTimeout time.Duration `env:"NAVIGATION_TIMEOUT" envDefault:"30s"`
		SettleDelay       time.Duration `env:"SETTLE_DELAY" envDefault:"3s"`
		Headless          bool          `env:"BROWSER_HEADLESS" envDefault:"true"`
		BrowserBin        string        `env:"BROWSER_BIN"`
		ProfileRoot       string        `env:"BROWSER_PROFILE_ROOT"` // Empty means the OS temp dir
	}
	Webhook struct {
		Timeout time.Duration `env:"WEBHOOK_TIMEOUT" envDefault:"10s"`
	}
	Mailgun struct {
		Domain      string `env:"MAILGUN_DOMAIN"`
		APIKey      string `env:"MAILGUN_API_KEY"`
		SenderFrom  string `env:"MAILGUN_SENDER_FROM" envDefault:"stockwatch@localhost"`
		TimeoutSecs int    `env:"MAILGUN_TIMEOUT_SECS" envDefault:"10"`
	}

	log   *zap.Logger
	creds map[string]string
}

func NewConfig(lc fx.Lifecycle, log *zap.Logger) *Config {
	cfg, err := Load()
	if err != nil {
		log.Sugar().Panicw("failed to parse config", "err", err)
	}
	cfg.log = log

	creds, err := cfg.parseCreds()
	if err != nil {
		if cfg.Env == "development" {
			cfg.log.Sugar().Infof("%s (credentials will be set to default in development env)", err)
			creds = map[string]string{"admin": "password"}
		} else {
			cfg.log.Sugar().Panic(err)
		}
	}
	cfg.creds = creds

	return cfg
}

// Load reads the config from the environment without credential handling.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if cfg.Monitor.PollInterval <= 0 {
		return nil, fmt.Errorf("POLL_INTERVAL must be positive, got %s", cfg.Monitor.PollInterval)
	}
	return cfg, nil
}

func (cfg *Config) GetCreds() map[string]string {
	return cfg.creds
}

func (cfg *Config) MailgunEnabled() bool {
	return cfg.Mailgun.Domain != "" && cfg.Mailgun.APIKey != ""
}

func (cfg *Config) parseCreds() (map[string]string, error) {
	if cfg.BasicAuthCreds == "" {
		return nil, errors.New("BASIC_AUTH_CREDS envvar must be populated")
	}

	creds := strings.Split(cfg.BasicAuthCreds, ",")
	if len(creds) == 0 {
		return nil, errors.New("BASIC_AUTH_CREDS envvar should be filled with comma-separated values -- user1:pass1,user2:pass2")
	}

	result := make(map[string]string)
	for _, cred := range creds {
		userPass := strings.Split(cred, ":")
		if len(userPass) != 2 {
			return nil, fmt.Errorf("failed to parse '%s', each credential should be delimited by a colon -- user1:pass1,user2:pass2", cred)
		}

		user, pass := userPass[0], userPass[1]
		result[strings.Trim(user, " ")] = strings.Trim(pass, " ")
	}

	return result, nil
}
