package events

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/lead-cli/internal/resilience"
)

// WebhookBus delivers events as JSON POSTs to a configured endpoint.
// Delivery happens on a background goroutine per event: the publisher is
// never blocked by the sink, only rate-limited deliveries queue up behind
// the limiter. Failures are logged and dropped, matching the at-most-once
// contract.
type WebhookBus struct {
	url     string
	client  *http.Client
	limiter *rate.Limiter
	retry   resilience.RetryConfig

	wg sync.WaitGroup
}

// NewWebhookBus builds a webhook sink. ratePerSec <= 0 disables limiting.
func NewWebhookBus(url string, ratePerSec float64, burst int) *WebhookBus {
	limit := rate.Inf
	if ratePerSec > 0 {
		limit = rate.Limit(ratePerSec)
	}
	if burst <= 0 {
		burst = 1
	}
	return &WebhookBus{
		url:     url,
		client:  &http.Client{Timeout: 10 * time.Second},
		limiter: rate.NewLimiter(limit, burst),
		retry:   resilience.DefaultRetryConfig(),
	}
}

func (b *WebhookBus) Publish(ctx context.Context, p Payload) {
	env, err := NewEnvelope(p)
	if err != nil {
		zap.L().Warn("webhook event dropped", zap.Error(err))
		return
	}

	// Detach from the caller's context so an import finishing (or a request
	// completing) does not cancel in-flight deliveries.
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
		defer cancel()

		if err := b.limiter.Wait(dctx); err != nil {
			zap.L().Warn("webhook event dropped",
				zap.String("type", env.EventType),
				zap.Error(err),
			)
			return
		}

		if err := resilience.Do(dctx, b.retry, func(ctx context.Context) error {
			return b.post(ctx, env)
		}); err != nil {
			zap.L().Warn("webhook delivery failed",
				zap.String("type", env.EventType),
				zap.String("event_id", env.EventID.String()),
				zap.Error(err),
			)
		}
	}()
}

// Flush waits for in-flight deliveries. Used on shutdown and in tests.
func (b *WebhookBus) Flush() {
	b.wg.Wait()
}

func (b *WebhookBus) post(ctx context.Context, env Envelope) error {
	body, err := json.Marshal(env)
	if err != nil {
		return eris.Wrap(err, "webhook: marshal envelope")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.url, bytes.NewReader(body))
	if err != nil {
		return eris.Wrap(err, "webhook: build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return eris.Wrap(err, "webhook: post")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		err := eris.Errorf("webhook: status %d", resp.StatusCode)
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return resilience.NewTransientError(err, resp.StatusCode)
		}
		return err
	}
	return nil
}
