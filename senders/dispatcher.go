package senders

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Dispatcher delivers notifications on a best-effort basis: one attempt, no
// retry. Failures are logged and returned for accounting only.
type Dispatcher struct {
	log      *zap.Logger
	registry Registry
}

func NewDispatcher(log *zap.Logger, registry Registry) *Dispatcher {
	return &Dispatcher{log, registry}
}

func (d *Dispatcher) Notify(ctx context.Context, target string, msg *Message) error {
	if target == "" {
		d.log.Sugar().Warnw("Dropping notification without target", "subject", msg.Subject)
		return fmt.Errorf("no notification target")
	}

	platform := PlatformFor(target)
	sender, ok := d.registry[platform]
	if !ok {
		d.log.Sugar().Warnw("Dropping notification for unsupported platform", "platform", platform)
		return fmt.Errorf("unsupported notifier platform: %s", platform)
	}

	id, err := sender.Send(ctx, target, msg)
	if err != nil {
		d.log.Sugar().Warnw("Failed to send notification", "platform", platform, "subject", msg.Subject, "err", err)
		return err
	}
	d.log.Sugar().Infow("Sent notification", "platform", platform, "subject", msg.Subject, "message_id", id)
	return nil
}
