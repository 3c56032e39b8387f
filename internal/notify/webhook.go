package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	domain "github.com/oshokin/safety-checkin/internal/domain/checkin"
	"github.com/oshokin/safety-checkin/internal/logger"
)

const (
	// defaultWebhookAttempts is used when no attempt count is given.
	defaultWebhookAttempts = 3
	// defaultWebhookBackoff is multiplied by the attempt number between tries.
	defaultWebhookBackoff = time.Second
	// defaultWebhookTimeout bounds a single POST.
	defaultWebhookTimeout = 5 * time.Second
)

// errWebhookRejected is returned when the endpoint answers outside 2xx.
var errWebhookRejected = errors.New("webhook rejected notice")

// Webhook posts notices as JSON and retries with linear backoff.
type Webhook struct {
	url      string
	attempts int
	backoff  time.Duration
	client   *http.Client
}

// WebhookOption configures a Webhook.
type WebhookOption func(*Webhook)

// WithAttempts sets the number of delivery attempts.
func WithAttempts(attempts int) WebhookOption {
	return func(w *Webhook) {
		if attempts > 0 {
			w.attempts = attempts
		}
	}
}

// WithBackoff sets the base delay between attempts.
func WithBackoff(backoff time.Duration) WebhookOption {
	return func(w *Webhook) {
		if backoff >= 0 {
			w.backoff = backoff
		}
	}
}

// WithHTTPClient replaces the default client.
func WithHTTPClient(client *http.Client) WebhookOption {
	return func(w *Webhook) {
		if client != nil {
			w.client = client
		}
	}
}

// NewWebhook creates a sink posting to url.
func NewWebhook(url string, opts ...WebhookOption) *Webhook {
	w := &Webhook{
		url:      url,
		attempts: defaultWebhookAttempts,
		backoff:  defaultWebhookBackoff,
		client:   &http.Client{Timeout: defaultWebhookTimeout},
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Notify posts the notice until it is accepted, attempts run out or ctx ends.
func (w *Webhook) Notify(ctx context.Context, notice *domain.Notice) error {
	body, err := encode(notice)
	if err != nil {
		return err
	}

	var lastErr error

	for attempt := 1; attempt <= w.attempts; attempt++ {
		if lastErr = w.post(ctx, body); lastErr == nil {
			return nil
		}

		logger.WarnKV(ctx, "Webhook delivery failed", "attempt", attempt, "url", w.url, "error", lastErr)

		if attempt == w.attempts {
			break
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("webhook delivery interrupted: %w", ctx.Err())
		case <-time.After(time.Duration(attempt) * w.backoff):
		}
	}

	return fmt.Errorf("webhook delivery failed after %d attempts: %w", w.attempts, lastErr)
}

func (w *Webhook) post(ctx context.Context, body []byte) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create webhook request: %w", err)
	}

	request.Header.Set("Content-Type", "application/json")

	response, err := w.client.Do(request)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}

	_ = response.Body.Close()

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%w: %s", errWebhookRejected, response.Status)
	}

	return nil
}
