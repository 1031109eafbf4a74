package senders

import (
	"context"
	"net/http"
	"strings"

	"github.com/fiffu/stockwatch/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	PlatformWebhook = "webhook"
	PlatformEmail   = "email"
)

type Message struct {
	Subject string
	Text    string
}

type Sender interface {
	Send(ctx context.Context, target string, msg *Message) (string, error)
}

type Registry map[string]Sender

func NewSenderRegistry(lc fx.Lifecycle, log *zap.Logger, cfg *config.Config, transport http.RoundTripper) Registry {
	base := base{log, cfg, transport}
	registry := Registry{
		PlatformWebhook: &webhookSender{base},
	}
	if cfg.MailgunEnabled() {
		registry[PlatformEmail] = &mailgunSender{base}
	} else {
		log.Sugar().Info("Email notifications are disabled since no Mailgun credentials are defined")
	}
	return registry
}

// PlatformFor maps a notification target to the platform that delivers it.
// mailto: targets are emailed, anything else is treated as a webhook URL.
func PlatformFor(target string) string {
	if strings.HasPrefix(strings.ToLower(target), "mailto:") {
		return PlatformEmail
	}
	return PlatformWebhook
}

type base struct {
	log       *zap.Logger
	cfg       *config.Config
	transport http.RoundTripper
}
