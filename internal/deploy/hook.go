// Package deploy notifies an external deploy hook after content changes.
// Strictly best-effort: a failed notification is logged and swallowed, never
// surfaced to the operation that triggered it.
package deploy

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Notifier fires a POST at a configured hook URL. The zero URL disables it.
type Notifier struct {
	URL     string
	Client  *http.Client
	Log     zerolog.Logger
	Timeout time.Duration
}

// NewNotifier creates a notifier; url may be empty to disable notification.
func NewNotifier(url string, log zerolog.Logger) *Notifier {
	return &Notifier{
		URL:     url,
		Client:  http.DefaultClient,
		Log:     log,
		Timeout: 10 * time.Second,
	}
}

// Notify posts to the hook, logging the outcome. Callers run it in a
// goroutine; it deliberately returns nothing.
func (n *Notifier) Notify(reason string) {
	if n == nil || n.URL == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), n.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.URL, nil)
	if err != nil {
		n.Log.Warn().Err(err).Msg("deploy hook: building request failed")
		return
	}
	resp, err := n.Client.Do(req)
	if err != nil {
		n.Log.Warn().Err(err).Str("reason", reason).Msg("deploy hook failed")
		return
	}
	resp.Body.Close()
	n.Log.Info().Str("reason", reason).Int("status", resp.StatusCode).Msg("deploy hook triggered")
}
