package lib

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/fiffu/stockwatch/config"
	"github.com/fiffu/stockwatch/lib/monitor"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrInvalidURL = errors.New("invalid url")
)

type CycleTrigger interface {
	TriggerNow() bool
}

type Service struct {
	cfg *config.Config
	log *zap.Logger
	db  *gorm.DB

	cycles CycleTrigger
	*users
	*watchlist
}

func NewService(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger, db *gorm.DB, mon *monitor.Monitor) *Service {
	return New(cfg, log, db, mon)
}

func New(cfg *config.Config, log *zap.Logger, db *gorm.DB, cycles CycleTrigger) *Service {
	return &Service{
		cfg, log, db,
		cycles,
		&users{log, db},
		&watchlist{log, db},
	}
}

// TriggerCycle starts a monitor cycle in the background. It returns false
// when one is already running.
func (svc *Service) TriggerCycle(ctx context.Context) bool {
	started := svc.cycles.TriggerNow()
	svc.log.Sugar().Infow("Manual cycle requested", "started", started)
	return started
}

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return err
}

func parseHTTPURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: %q must be an absolute http(s) url", ErrInvalidURL, raw)
	}
	return raw, nil
}

// parseTarget accepts a webhook url or a mailto: address. Empty is allowed.
func parseTarget(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	if u, err := url.Parse(raw); err == nil && strings.EqualFold(u.Scheme, "mailto") {
		if u.Opaque == "" || !strings.Contains(u.Opaque, "@") {
			return "", fmt.Errorf("%w: %q has no address", ErrInvalidURL, raw)
		}
		return raw, nil
	}
	return parseHTTPURL(raw)
}
