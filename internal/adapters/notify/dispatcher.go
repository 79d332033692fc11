// Package notify delivers owner mail, chat messages and integration webhooks
package notify

import (
	"context"

	"pushverify/internal/platform/logger"
	dom "pushverify/internal/services/gitqueue/domain"
)

// Dispatcher fans notifications out to the configured transports
// a nil transport is skipped with a debug log
type Dispatcher struct {
	Mail    *Mailer
	Chat    *Chat
	Webhook *Webhook
}

var _ dom.Notifier = (*Dispatcher)(nil)

// SendEmail implements dom.Notifier
func (d *Dispatcher) SendEmail(ctx context.Context, recipients []string, htmlBody, subject string) error {
	if d.Mail == nil {
		logger.C(ctx).Debug().Str("subject", subject).Msg("mail disabled; dropping message")
		return nil
	}
	return d.Mail.Send(ctx, recipients, htmlBody, subject)
}

// SendChat implements dom.Notifier
func (d *Dispatcher) SendChat(ctx context.Context, recipients []string, text string) error {
	if d.Chat == nil {
		logger.C(ctx).Debug().Msg("chat disabled; dropping message")
		return nil
	}
	return d.Chat.Send(ctx, recipients, text)
}

// FireWebhook implements dom.Notifier
func (d *Dispatcher) FireWebhook(ctx context.Context, leftType, leftID, rightType, rightID string) {
	d.Webhook.Fire(ctx, leftType, leftID, rightType, rightID)
}
