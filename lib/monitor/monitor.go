// Package monitor runs the periodic cycle that scans tracked categories for
// new products and checks tracked products for availability.
package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fiffu/stockwatch/config"
	"github.com/fiffu/stockwatch/lib/checker"
	"github.com/fiffu/stockwatch/lib/models"
	"github.com/fiffu/stockwatch/lib/render"
	"github.com/fiffu/stockwatch/senders"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AvailabilityChecker interface {
	Check(ctx context.Context, productURL string) (*models.Verdict, error)
}

type Notifier interface {
	Notify(ctx context.Context, target string, msg *senders.Message) error
}

type Monitor struct {
	db       *gorm.DB
	log      *zap.Logger
	checker  AvailabilityChecker
	renderer render.Renderer
	notifier Notifier
	trigger  Trigger

	running      sync.Mutex // Held for the duration of a cycle
	stopOnce     sync.Once
	idle         chan struct{} // Closed once running is held for good
	harvestLimit int
	now          func() time.Time
}

func NewMonitor(
	lc fx.Lifecycle, cfg *config.Config, db *gorm.DB, log *zap.Logger,
	chk *checker.Checker, renderer render.Renderer, dispatcher *senders.Dispatcher,
) *Monitor {
	trigger := NewCronTrigger(cfg.Monitor.PollInterval, log)
	m := New(db, log, chk, renderer, dispatcher, trigger, cfg.Monitor.HarvestLimit)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return m.Start()
		},
		OnStop: func(ctx context.Context) error {
			log.Sugar().Info("Trying to stop monitor")
			return m.Stop(ctx)
		},
	})

	return m
}

func New(
	db *gorm.DB, log *zap.Logger,
	chk AvailabilityChecker, renderer render.Renderer, notifier Notifier,
	trigger Trigger, harvestLimit int,
) *Monitor {
	return &Monitor{
		db:           db,
		log:          log,
		checker:      chk,
		renderer:     renderer,
		notifier:     notifier,
		trigger:      trigger,
		harvestLimit: harvestLimit,
		idle:         make(chan struct{}),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Start hands the cycle to the trigger, which fires once immediately and then
// on every interval.
func (m *Monitor) Start() error {
	return m.trigger.Start(func() {
		m.RunCycle(context.Background())
	})
}

// Stop prevents further ticks and waits for an in-flight cycle to finish, or
// for ctx to expire.
func (m *Monitor) Stop(ctx context.Context) error {
	stopped := m.trigger.Stop()
	select {
	case <-stopped.Done():
	case <-ctx.Done():
		return ctx.Err()
	}

	// Manual cycles are not tracked by the trigger
	m.stopOnce.Do(func() {
		go func() {
			m.running.Lock()
			close(m.idle)
		}()
	})
	select {
	case <-m.idle:
		m.log.Sugar().Info("Monitor stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunCycle runs one full cycle unless another is already in flight, in which
// case it returns false without doing anything.
func (m *Monitor) RunCycle(ctx context.Context) bool {
	if !m.running.TryLock() {
		m.log.Sugar().Info("Cycle already in flight, skipping")
		return false
	}
	defer m.running.Unlock()

	m.runCycle(ctx)
	return true
}

// TriggerNow starts a cycle in the background. It returns false if a cycle is
// already in flight.
func (m *Monitor) TriggerNow() bool {
	if !m.running.TryLock() {
		return false
	}
	go func() {
		defer m.running.Unlock()
		m.runCycle(context.Background())
	}()
	return true
}

func (m *Monitor) runCycle(ctx context.Context) {
	startedAt := m.now()
	log := m.log.With(zap.String("cycle_id", uuid.NewString()))
	defer func() {
		if r := recover(); r != nil {
			log.Sugar().Errorw("Cycle panicked", "panic", r)
		}
	}()

	cm := &cycleMetrics{}
	m.scanCategories(ctx, log, cm)
	m.checkProducts(ctx, log, cm)

	elapsed := m.now().Sub(startedAt)
	cm.report(log, elapsed)
	observeCycle(elapsed)
}

// guard isolates one unit of work so that a panic inside it is reported as an
// error instead of ending the cycle.
func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}
