// Package render turns a page URL into its markup, either through a headless
// browser or a plain HTTP fetch.
package render

import (
	"context"
	"net/http"
	"time"

	"github.com/fiffu/stockwatch/config"
	"go.uber.org/zap"
)

// Renderer returns the markup of the page at url. Implementations own any
// session they open and release it before returning.
type Renderer interface {
	Render(ctx context.Context, url string) (string, error)
}

const (
	ModeBrowser = "browser"
	ModeHTTP    = "http"
)

func NewRenderer(cfg *config.Config, log *zap.Logger, transport http.RoundTripper) Renderer {
	switch cfg.Render.Mode {
	case ModeHTTP:
		log.Sugar().Infow("Using plain HTTP renderer", "timeout", cfg.Render.NavigationTimeout)
		return NewHTTPRenderer(transport, cfg.Render.NavigationTimeout)

	default:
		log.Sugar().Infow("Using browser renderer",
			"timeout", cfg.Render.NavigationTimeout, "settle", cfg.Render.SettleDelay, "headless", cfg.Render.Headless)
		return &BrowserRenderer{
			log:         log,
			bin:         cfg.Render.BrowserBin,
			headless:    cfg.Render.Headless,
			navTimeout:  cfg.Render.NavigationTimeout,
			settle:      cfg.Render.SettleDelay,
			profileRoot: cfg.Render.ProfileRoot,
		}
	}
}

func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
