package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	perr "pushverify/internal/platform/errors"
)

// ChatOptions configures the chat relay client
type ChatOptions struct {
	URL     string
	Timeout time.Duration
}

// Chat posts short messages to a chat relay as JSON
type Chat struct {
	url  string
	http *http.Client
}

type chatBody struct {
	Recipients []string `json:"recipients"`
	Text       string   `json:"text"`
}

// NewChat returns nil when no relay URL is configured
func NewChat(o ChatOptions) *Chat {
	if strings.TrimSpace(o.URL) == "" {
		return nil
	}
	if o.Timeout <= 0 {
		o.Timeout = 5 * time.Second
	}
	return &Chat{url: o.URL, http: &http.Client{Timeout: o.Timeout}}
}

// Send posts {recipients, text}; any non 2xx status is an error
func (c *Chat) Send(ctx context.Context, recipients []string, text string) error {
	body, err := json.Marshal(chatBody{Recipients: recipients, Text: text})
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeJSON, "chat: encode")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeInvalidArgument, "chat: build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "chat: post")
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode/100 != 2 {
		return perr.Unavailablef("chat: relay returned %d", resp.StatusCode)
	}
	return nil
}
