package render

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/stealth"
	"go.uber.org/zap"
)

// BrowserRenderer launches a fresh headless browser per call so that client
// side rendered stock indicators and listings are present in the markup.
type BrowserRenderer struct {
	log         *zap.Logger
	bin         string
	headless    bool
	navTimeout  time.Duration
	settle      time.Duration
	profileRoot string // Parent of the per-call user data dirs, os.TempDir() when empty
}

func (r *BrowserRenderer) Render(ctx context.Context, url string) (string, error) {
	profile, err := os.MkdirTemp(r.profileRoot, "stockwatch-profile-")
	if err != nil {
		return "", fmt.Errorf("create browser profile: %w", err)
	}
	defer r.removeProfile(profile)

	l := launcher.New().Headless(r.headless).UserDataDir(profile)
	if r.bin != "" {
		l = l.Bin(r.bin)
	}
	controlURL, err := l.Context(ctx).Launch()
	if err != nil {
		return "", fmt.Errorf("launch browser: %w", err)
	}
	// Cleanup waits for the process to exit, so it must only be deferred
	// once the browser has started, and must run after Kill.
	defer l.Cleanup()
	defer l.Kill()

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return "", fmt.Errorf("connect browser: %w", err)
	}
	defer func() {
		if err := browser.Close(); err != nil {
			r.log.Sugar().Warnw("Failed to close browser", "err", err)
		}
	}()

	page, err := stealth.Page(browser)
	if err != nil {
		return "", fmt.Errorf("open page: %w", err)
	}
	defer page.Close()

	nav := page.Timeout(r.navTimeout)
	if err := nav.Navigate(url); err != nil {
		return "", fmt.Errorf("navigate %s: %w", url, err)
	}
	if err := nav.WaitLoad(); err != nil {
		return "", fmt.Errorf("wait load %s: %w", url, err)
	}
	nav.CancelTimeout()

	sleep(ctx, r.settle)

	markup, err := page.HTML()
	if err != nil {
		return "", fmt.Errorf("read markup %s: %w", url, err)
	}
	return markup, nil
}

func (r *BrowserRenderer) removeProfile(dir string) {
	if err := os.RemoveAll(dir); err != nil {
		r.log.Sugar().Warnw("Failed to remove browser profile", "dir", dir, "err", err)
	}
}
