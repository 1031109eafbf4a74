package monitor

import (
	"context"
	"errors"
	"fmt"

	"github.com/fiffu/stockwatch/lib/checker"
	"github.com/fiffu/stockwatch/lib/models"
	"github.com/fiffu/stockwatch/senders"
	"go.uber.org/zap"
)

type CheckResult struct {
	Previous  models.ProductStatus
	Current   models.ProductStatus
	Available bool
	Notified  bool
}

func (r *CheckResult) Changed() bool {
	return r.Previous != r.Current
}

func (m *Monitor) checkProducts(ctx context.Context, log *zap.Logger, cm *cycleMetrics) {
	var products models.Products
	tx := m.db.WithContext(ctx).Preload("User").Order("id").Find(&products)
	if err := tx.Error; err != nil {
		log.Sugar().Errorw("Failed to load products", "err", err)
		return
	}

	for i := range products {
		p := &products[i]
		cm.products += 1

		var res *CheckResult
		err := guard(func() (err error) {
			res, err = m.CheckProduct(ctx, p)
			return err
		})
		switch {
		case errors.Is(err, checker.ErrNoProductID):
			cm.skipped += 1
			productChecks.WithLabelValues("skipped").Inc()
			log.Sugar().Warnw("Skipping product without vendor id", "product_id", p.ID, "url", p.URL)
			continue

		case err != nil:
			cm.checkErrored += 1
			productChecks.WithLabelValues("failed").Inc()
			log.Sugar().Warnw("Product check failed", "product_id", p.ID, "url", p.URL, "err", err)
			continue
		}

		productChecks.WithLabelValues("ok").Inc()
		if res.Notified {
			cm.notified += 1
		}
		if res.Changed() {
			switch res.Current {
			case models.StatusInStock:
				cm.becameInStock += 1
			case models.StatusOutOfStock:
				cm.becameOOS += 1
			}
			log.Sugar().Infow("Product status changed", "product_id", p.ID, "url", p.URL,
				"from", res.Previous, "to", res.Current)
		}
	}
}

// CheckProduct checks one product, records its status transition and notifies
// the owner when it becomes available. The status update stands even if the
// notification fails. p.User must be loaded to reach the owner's webhook.
func (m *Monitor) CheckProduct(ctx context.Context, p *models.Product) (*CheckResult, error) {
	verdict, err := m.checker.Check(ctx, p.URL)
	if err != nil {
		return nil, err
	}

	next, notify := Transition(p.LastStatus, verdict.Available)
	res := &CheckResult{Previous: p.LastStatus, Current: next, Available: verdict.Available}

	if res.Changed() {
		tx := m.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", p.ID).Update("last_status", next)
		if err := tx.Error; err != nil {
			return nil, fmt.Errorf("update status: %w", err)
		}
		p.LastStatus = next
	}

	if notify {
		err := m.notifier.Notify(ctx, p.User.WebhookURL, senders.AvailableMessage(p.URL, verdict))
		observeNotification("available", err)
		res.Notified = err == nil
	}
	return res, nil
}
