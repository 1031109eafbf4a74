package senders

import (
	"context"
	"fmt"
	"net/url"

	"github.com/carlmjohnson/requests"
)

type webhookPayload struct {
	Content string `json:"content"`
}

type webhookSender struct {
	base
}

func (s *webhookSender) Send(ctx context.Context, target string, msg *Message) (string, error) {
	u, err := url.Parse(target)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return "", fmt.Errorf("invalid webhook url: %q", target)
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Webhook.Timeout)
	defer cancel()

	err = requests.URL(target).
		Transport(s.transport).
		BodyJSON(&webhookPayload{Content: msg.Text}).
		Fetch(ctx)
	return "", err
}
