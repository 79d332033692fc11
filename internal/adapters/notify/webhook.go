package notify

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pushverify/internal/platform/logger"
)

// WebhookReason is the reason field sent with every event
const WebhookReason = "pushmanager"

const defaultWebhookTimeout = 3 * time.Second

// WebhookOptions configures the webhook client
type WebhookOptions struct {
	URL     string
	Timeout time.Duration
}

// Webhook posts form encoded link events; it never returns errors
type Webhook struct {
	url  string
	http *http.Client
	log  logger.Logger
}

// NewWebhook returns a client that does nothing when URL is empty
func NewWebhook(o WebhookOptions) *Webhook {
	if o.Timeout <= 0 {
		o.Timeout = defaultWebhookTimeout
	}
	return &Webhook{
		url:  strings.TrimSpace(o.URL),
		http: &http.Client{Timeout: o.Timeout},
		log:  *logger.Named("webhook"),
	}
}

// Fire links (leftType, leftID) to (rightType, rightID); failures are logged and dropped
func (w *Webhook) Fire(ctx context.Context, leftType, leftID, rightType, rightID string) {
	if w == nil || w.url == "" {
		return
	}
	form := url.Values{
		"reason":      {WebhookReason},
		"left_type":   {leftType},
		"left_token":  {leftID},
		"right_type":  {rightType},
		"right_token": {rightID},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, strings.NewReader(form.Encode()))
	if err != nil {
		w.log.Error().Err(err).Msg("webhook request build failed")
		return
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := w.http.Do(req)
	if err != nil {
		w.log.Error().Err(err).Str("right_type", rightType).Msg("webhook post failed")
		return
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode/100 != 2 {
		w.log.Warn().Int("status", resp.StatusCode).Str("right_type", rightType).Msg("webhook rejected")
	}
}
