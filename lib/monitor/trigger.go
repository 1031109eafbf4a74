package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Trigger fires tick once immediately on Start and then periodically. Ticks
// never overlap: a tick due while the previous one still runs is skipped.
type Trigger interface {
	Start(tick func()) error
	// Stop prevents further ticks. The returned context is done once any
	// running tick has returned.
	Stop() context.Context
}

type cronTrigger struct {
	interval time.Duration
	log      *zap.Logger
	cron     *cron.Cron
}

func NewCronTrigger(interval time.Duration, log *zap.Logger) Trigger {
	return &cronTrigger{interval: interval, log: log}
}

func (t *cronTrigger) Start(tick func()) error {
	logger := cronLogger{t.log.Sugar()}
	c := cron.New(
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)

	id, err := c.AddFunc(fmt.Sprintf("@every %s", t.interval), tick)
	if err != nil {
		return fmt.Errorf("schedule every %s: %w", t.interval, err)
	}
	// Run the wrapped job so the immediate tick shares the skip guard
	first := c.Entry(id).WrappedJob

	t.cron = c
	c.Start()
	go first.Run()

	t.log.Sugar().Infow("Monitor scheduled", "interval", t.interval.String())
	return nil
}

func (t *cronTrigger) Stop() context.Context {
	if t.cron == nil {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		return ctx
	}
	return t.cron.Stop()
}

type cronLogger struct {
	log *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, append(keysAndValues, "err", err)...)
}
