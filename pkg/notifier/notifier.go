package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// EndpointSource lists the webhook endpoint URLs to deliver to. The
// flag store's webhook registry satisfies this.
type EndpointSource interface {
	ListWebhooks(ctx context.Context) ([]string, error)
}

// Notifier fans flag change events out to all registered endpoints.
type Notifier struct {
	endpoints EndpointSource
	client    *http.Client
	cfg       Config
	log       *slog.Logger
}

// Option customizes a Notifier.
type Option func(*Notifier)

// WithHTTPClient overrides the HTTP client, mainly for tests.
func WithHTTPClient(client *http.Client) Option {
	return func(n *Notifier) {
		if client != nil {
			n.client = client
		}
	}
}

// New creates a notifier delivering to the endpoints listed by source.
func New(source EndpointSource, cfg Config, log *slog.Logger, opts ...Option) *Notifier {
	if log == nil {
		log = slog.Default()
	}
	n := &Notifier{
		endpoints: source,
		cfg:       cfg.withDefaults(),
		log:       log.With(slog.String("component", "notifier")),
		client: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Notify posts the event to every registered endpoint. Per-endpoint
// failures are logged and do not stop delivery to the remaining
// endpoints; the joined error is returned for callers that care.
func (n *Notifier) Notify(ctx context.Context, event Event) error {
	urls, err := n.endpoints.ListWebhooks(ctx)
	if err != nil {
		return fmt.Errorf("list webhook endpoints: %w", err)
	}
	if len(urls) == 0 {
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	var errs []error
	for _, endpoint := range urls {
		if err := n.deliver(ctx, endpoint, payload); err != nil {
			n.log.ErrorContext(ctx, "webhook delivery failed",
				slog.String("endpoint", endpoint),
				slog.String("event_type", event.EventType),
				slog.String("flag_key", event.FlagKey),
				slog.Any("error", err))
			errs = append(errs, err)
			continue
		}
		n.log.DebugContext(ctx, "webhook delivered",
			slog.String("endpoint", endpoint),
			slog.String("event_type", event.EventType),
			slog.String("flag_key", event.FlagKey))
	}
	return errors.Join(errs...)
}

// deliver posts the payload to one endpoint, retrying transient
// failures with exponential backoff.
func (n *Notifier) deliver(ctx context.Context, endpoint string, payload []byte) error {
	if err := validateEndpoint(endpoint); err != nil {
		return err
	}

	var lastErr error
	for attempt := 0; attempt <= n.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(n.backoffDelay(attempt)):
			}
		}

		status, err := n.attempt(ctx, endpoint, payload)
		if err == nil {
			return nil
		}
		lastErr = err

		if isPermanentStatus(status) {
			return fmt.Errorf("%w: %w", ErrPermanentFailure, err)
		}
	}
	return fmt.Errorf("%w after %d attempts: %w", ErrDeliveryFailed, n.cfg.MaxRetries+1, lastErr)
}

// attempt makes a single POST and reports the response status, zero
// when no response was received.
func (n *Notifier) attempt(ctx context.Context, endpoint string, payload []byte) (int, error) {
	reqCtx, cancel := context.WithTimeout(ctx, n.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "flagkit-notifier/1.0")

	if n.cfg.SigningSecret != "" {
		now := time.Now()
		req.Header.Set(HeaderSignature, SignPayload(n.cfg.SigningSecret, payload, now))
		req.Header.Set(HeaderTimestamp, strconv.FormatInt(now.Unix(), 10))
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, fmt.Errorf("endpoint returned status %d", resp.StatusCode)
	}
	return resp.StatusCode, nil
}

func (n *Notifier) backoffDelay(attempt int) time.Duration {
	delay := n.cfg.RetryInterval << (attempt - 1)
	if delay > n.cfg.MaxRetryInterval || delay <= 0 {
		delay = n.cfg.MaxRetryInterval
	}
	return delay
}

func validateEndpoint(endpoint string) error {
	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme must be http or https", ErrInvalidURL)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: host is required", ErrInvalidURL)
	}
	return nil
}

// isPermanentStatus reports whether a response status should not be
// retried. Most 4xx codes will not change on retry; 408, 425, and 429
// are timing or rate-limit conditions that may clear.
func isPermanentStatus(status int) bool {
	if status < 400 || status >= 500 {
		return false
	}
	switch status {
	case http.StatusRequestTimeout, http.StatusTooEarly, http.StatusTooManyRequests:
		return false
	}
	return true
}
