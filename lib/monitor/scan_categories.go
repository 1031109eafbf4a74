package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/fiffu/stockwatch/lib/models"
	"github.com/fiffu/stockwatch/lib/render"
	"github.com/fiffu/stockwatch/senders"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ScanResult struct {
	Harvested int
	Added     int
	Retained  int
	Revived   int // Previously gone, listed again
	Vanished  int // Newly marked gone
	Notified  int
	Truncated bool // Listing exceeded the harvest limit, nothing was marked gone
}

func (m *Monitor) scanCategories(ctx context.Context, log *zap.Logger, cm *cycleMetrics) {
	var cats models.Categories
	tx := m.db.WithContext(ctx).Preload("User").Order("id").Find(&cats)
	if err := tx.Error; err != nil {
		log.Sugar().Errorw("Failed to load categories", "err", err)
		return
	}

	for i := range cats {
		cat := &cats[i]
		cm.categories += 1

		var res *ScanResult
		err := guard(func() (err error) {
			res, err = m.ScanCategory(ctx, cat)
			return err
		})
		if err != nil {
			cm.scanErrored += 1
			categoryScans.WithLabelValues("failed").Inc()
			log.Sugar().Warnw("Category scan failed", "category_id", cat.ID, "url", cat.URL, "err", err)
			continue
		}

		cm.addScan(res)
		categoryScans.WithLabelValues("ok").Inc()
		log.Sugar().Debugw("Scanned category", "category_id", cat.ID, "url", cat.URL,
			"harvested", res.Harvested, "truncated", res.Truncated, "added", res.Added, "vanished", res.Vanished)
	}
}

// ScanCategory renders the category listing, reconciles the harvested product
// links with the stored snapshot and notifies about each newly found product.
// When the harvest limit cuts the listing short, absent rows are left alone
// since they may sit past the cap.
//
// The snapshot and last_scanned are written in one transaction, so on any
// error the category is left as it was and will be retried next cycle.
// Notifications go out only after the transaction commits. cat.User must be
// loaded for the owner's webhook fallback to apply.
func (m *Monitor) ScanCategory(ctx context.Context, cat *models.Category) (*ScanResult, error) {
	markup, err := m.renderer.Render(ctx, cat.URL)
	if err != nil {
		return nil, fmt.Errorf("render category: %w", err)
	}

	harvested, truncated, err := render.HarvestProductLinks(cat.URL, markup, m.harvestLimit)
	if err != nil {
		return nil, fmt.Errorf("harvest links: %w", err)
	}

	now := m.now()
	res := &ScanResult{Harvested: len(harvested), Truncated: truncated}
	var diff SnapshotDiff

	err = m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.CategoryProducts
		if err := tx.Where("category_id = ?", cat.ID).Order("id").Find(&existing).Error; err != nil {
			return fmt.Errorf("load snapshot: %w", err)
		}

		diff = Diff(existing.URLs(), harvested)
		if truncated {
			// Rows past the cap may still be listed
			diff.Vanished = nil
		}
		if err := applyDiff(tx, cat.ID, existing, diff, now, res); err != nil {
			return err
		}

		tx = tx.Model(&models.Category{}).Where("id = ?", cat.ID).Update("last_scanned", now)
		if err := tx.Error; err != nil {
			return fmt.Errorf("update last_scanned: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	cat.LastScanned.Time, cat.LastScanned.Valid = now, true

	target := cat.NotifyTarget()
	for _, productURL := range diff.Added {
		if target == "" {
			break
		}
		err := m.notifier.Notify(ctx, target, senders.DiscoveryMessage(cat.URL, productURL))
		observeNotification("discovery", err)
		if err == nil {
			res.Notified += 1
		}
	}

	return res, nil
}

func applyDiff(tx *gorm.DB, categoryID uint, existing models.CategoryProducts, diff SnapshotDiff, now time.Time, res *ScanResult) error {
	if len(diff.Added) > 0 {
		rows := make(models.CategoryProducts, len(diff.Added))
		for i, u := range diff.Added {
			rows[i] = models.CategoryProduct{
				CategoryID: categoryID,
				URL:        u,
				Status:     models.ListingUnknown,
				FirstSeen:  now,
				LastSeen:   now,
			}
		}
		create := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows)
		if err := create.Error; err != nil {
			return fmt.Errorf("insert listings: %w", err)
		}
		res.Added = len(rows)
	}

	byURL := make(map[string]*models.CategoryProduct, len(existing))
	for i := range existing {
		byURL[existing[i].URL] = &existing[i]
	}

	var seenIDs, revivedIDs, goneIDs []uint
	for _, u := range diff.Retained {
		row := byURL[u]
		if row.Status == models.ListingGone {
			revivedIDs = append(revivedIDs, row.ID)
		} else {
			seenIDs = append(seenIDs, row.ID)
		}
	}
	for _, u := range diff.Vanished {
		if row := byURL[u]; row.Status != models.ListingGone {
			goneIDs = append(goneIDs, row.ID)
		}
	}

	if err := updateListings(tx, seenIDs, map[string]any{"last_seen": now}); err != nil {
		return fmt.Errorf("touch listings: %w", err)
	}
	if err := updateListings(tx, revivedIDs, map[string]any{"last_seen": now, "status": models.ListingUnknown}); err != nil {
		return fmt.Errorf("revive listings: %w", err)
	}
	if err := updateListings(tx, goneIDs, map[string]any{"last_seen": now, "status": models.ListingGone}); err != nil {
		return fmt.Errorf("mark listings gone: %w", err)
	}

	res.Retained = len(seenIDs) + len(revivedIDs)
	res.Revived = len(revivedIDs)
	res.Vanished = len(goneIDs)
	return nil
}

func updateListings(tx *gorm.DB, ids []uint, values map[string]any) error {
	if len(ids) == 0 {
		return nil
	}
	return tx.Model(&models.CategoryProduct{}).Where("id IN ?", ids).Updates(values).Error
}
