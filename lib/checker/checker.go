// Package checker decides whether a product URL is currently purchasable.
//
// Adapters are matched against the URL's hostname in registration order; the
// generic adapter is registered last and matches anything.
package checker

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/fiffu/stockwatch/config"
	"github.com/fiffu/stockwatch/lib/models"
	"github.com/fiffu/stockwatch/lib/render"
	"go.uber.org/zap"
)

// ErrNoProductID means the adapter could not derive a vendor product id from
// the URL. The product should be skipped rather than marked unavailable.
var ErrNoProductID = errors.New("no product id in url")

type Adapter interface {
	Name() string
	Check(ctx context.Context, productURL string) (*models.Verdict, error)
}

// Predicate selects an adapter by hostname.
type Predicate func(host string) bool

type entry struct {
	match   Predicate
	adapter Adapter
}

type Checker struct {
	log      *zap.Logger
	adapters []entry
}

func NewChecker(log *zap.Logger) *Checker {
	return &Checker{log: log}
}

// NewDefaultChecker registers the known vendors followed by the generic adapter.
func NewDefaultChecker(cfg *config.Config, log *zap.Logger, transport http.RoundTripper, renderer render.Renderer) *Checker {
	c := NewChecker(log)
	c.Register(HostContains("webhallen.com"), NewWebhallenAdapter(transport, cfg.Vendor.APIBase, cfg.Vendor.Timeout))
	c.Register(Any, NewGenericAdapter(renderer))
	return c
}

// Register appends an adapter. Earlier registrations take precedence.
func (c *Checker) Register(match Predicate, adapter Adapter) {
	c.adapters = append(c.adapters, entry{match, adapter})
}

func (c *Checker) AdapterFor(host string) (Adapter, bool) {
	for _, e := range c.adapters {
		if e.match(host) {
			return e.adapter, true
		}
	}
	return nil, false
}

// Check returns the availability verdict for productURL. Failures to reach or
// parse the product fail closed to an unavailable verdict with a nil error;
// only ErrNoProductID and unroutable URLs are returned as errors, and callers
// should skip the product for this cycle.
func (c *Checker) Check(ctx context.Context, productURL string) (*models.Verdict, error) {
	u, err := url.Parse(productURL)
	if err != nil {
		return nil, fmt.Errorf("parse product url: %w", err)
	}

	adapter, ok := c.AdapterFor(u.Hostname())
	if !ok {
		return nil, fmt.Errorf("no adapter for host %q", u.Hostname())
	}

	verdict, err := adapter.Check(ctx, productURL)
	switch {
	case errors.Is(err, ErrNoProductID):
		return nil, err

	case err != nil:
		c.log.Sugar().Warnw("Availability check failed", "adapter", adapter.Name(), "url", productURL, "err", err)
		return &models.Verdict{Available: false}, nil
	}
	return verdict, nil
}
