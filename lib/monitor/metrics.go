package monitor

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

var (
	cyclesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stockwatch_cycles_total",
		Help: "Completed monitoring cycles.",
	})
	cycleDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "stockwatch_cycle_duration_seconds",
		Help:    "Wall time of a monitoring cycle.",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	})
	categoryScans = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stockwatch_category_scans_total",
		Help: "Category scans by result.",
	}, []string{"result"})
	listingChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stockwatch_listing_changes_total",
		Help: "Category listing rows by change kind.",
	}, []string{"change"})
	productChecks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stockwatch_product_checks_total",
		Help: "Product availability checks by result.",
	}, []string{"result"})
	notifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stockwatch_notifications_total",
		Help: "Notification attempts by kind and result.",
	}, []string{"kind", "result"})
)

func observeCycle(elapsed time.Duration) {
	cyclesTotal.Inc()
	cycleDuration.Observe(elapsed.Seconds())
}

func observeNotification(kind string, err error) {
	result := "sent"
	if err != nil {
		result = "failed"
	}
	notifications.WithLabelValues(kind, result).Inc()
}

type cycleMetrics struct {
	categories    int
	scanErrored   int
	discovered    int
	vanished      int
	products      int
	checkErrored  int
	skipped       int
	becameInStock int
	becameOOS     int
	notified      int
}

func (m *cycleMetrics) addScan(r *ScanResult) {
	m.discovered += r.Added
	m.vanished += r.Vanished
	m.notified += r.Notified

	listingChanges.WithLabelValues("added").Add(float64(r.Added))
	listingChanges.WithLabelValues("retained").Add(float64(r.Retained))
	listingChanges.WithLabelValues("revived").Add(float64(r.Revived))
	listingChanges.WithLabelValues("vanished").Add(float64(r.Vanished))
}

func (m *cycleMetrics) report(log *zap.Logger, elapsed time.Duration) {
	args := make([]any, 0)
	if m.scanErrored != 0 {
		args = append(args, "scan_errored", m.scanErrored)
	}
	if m.discovered != 0 {
		args = append(args, "discovered", m.discovered)
	}
	if m.vanished != 0 {
		args = append(args, "vanished", m.vanished)
	}
	if m.checkErrored != 0 {
		args = append(args, "check_errored", m.checkErrored)
	}
	if m.skipped != 0 {
		args = append(args, "skipped", m.skipped)
	}
	if m.becameInStock != 0 {
		args = append(args, "in_stock", m.becameInStock)
	}
	if m.becameOOS != 0 {
		args = append(args, "out_of_stock", m.becameOOS)
	}
	if m.notified != 0 {
		args = append(args, "notified", m.notified)
	}
	args = append(args, "elapsed_msecs", int(elapsed.Milliseconds()))

	log.Sugar().Infow(
		fmt.Sprintf("Processed %d categories and %d products", m.categories, m.products),
		args...,
	)
}
