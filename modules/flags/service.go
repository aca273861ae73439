package flags

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/dmitrymomot/flagkit/pkg/experiment"
	"github.com/dmitrymomot/flagkit/pkg/flag"
	"github.com/dmitrymomot/flagkit/pkg/notifier"
)

// ErrInvalidWebhookURL rejects webhook registrations that are not
// absolute http(s) URLs.
var ErrInvalidWebhookURL = errors.New("invalid webhook URL")

// WebhookRegistry is the endpoint registry half of the flag store.
type WebhookRegistry interface {
	AddWebhook(ctx context.Context, url string) error
	RemoveWebhook(ctx context.Context, url string) error
	ListWebhooks(ctx context.Context) ([]string, error)
}

// Notifier delivers flag change events. *notifier.Notifier satisfies it.
type Notifier interface {
	Notify(ctx context.Context, event notifier.Event) error
}

// Recorder accepts exposure events without blocking.
// *experiment.Recorder satisfies it.
type Recorder interface {
	Record(e experiment.Exposure)
}

// Summarizer computes experiment summaries. *experiment.Aggregator
// satisfies it.
type Summarizer interface {
	Summarize(ctx context.Context, flagKey string, from, to time.Time) (experiment.Summary, error)
}

// Service implements flag administration, evaluation, and experiment
// reporting on top of the stores.
type Service struct {
	store      flag.Store
	webhooks   WebhookRegistry
	notifier   Notifier
	recorder   Recorder
	summarizer Summarizer
	log        *slog.Logger
	now        func() time.Time
	deliveries sync.WaitGroup
}

// ServiceOption customizes a Service.
type ServiceOption func(*Service)

// WithNotifier wires webhook delivery for flag mutations.
func WithNotifier(n Notifier) ServiceOption {
	return func(s *Service) { s.notifier = n }
}

// WithRecorder wires exposure recording for evaluations.
func WithRecorder(r Recorder) ServiceOption {
	return func(s *Service) { s.recorder = r }
}

// WithSummarizer wires experiment summary reads.
func WithSummarizer(sum Summarizer) ServiceOption {
	return func(s *Service) { s.summarizer = sum }
}

// WithLogger overrides the service logger.
func WithLogger(log *slog.Logger) ServiceOption {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates the flag service.
func NewService(store flag.Store, webhooks WebhookRegistry, opts ...ServiceOption) *Service {
	s := &Service{
		store:    store,
		webhooks: webhooks,
		log:      slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateFlag validates and stores a new flag, then fires flag_created.
// Returns flag.ErrFlagExists when the key is already taken.
func (s *Service) CreateFlag(ctx context.Context, f flag.Flag) (flag.Flag, error) {
	if err := f.Validate(); err != nil {
		return flag.Flag{}, err
	}

	now := s.now().UTC()
	f.CreatedAt = now
	f.UpdatedAt = now
	if err := s.store.CreateFlag(ctx, f); err != nil {
		return flag.Flag{}, err
	}

	s.fireEvent(ctx, notifier.EventFlagCreated, f.Key, nil, flagJSON(f))
	return f, nil
}

// GetFlag returns the stored flag, or flag.ErrFlagNotFound.
func (s *Service) GetFlag(ctx context.Context, key string) (flag.Flag, error) {
	return s.store.GetFlag(ctx, key)
}

// ListFlags returns all stored flags ordered by key.
func (s *Service) ListFlags(ctx context.Context) ([]flag.Flag, error) {
	return s.store.ListFlags(ctx)
}

// UpdateFlag replaces the stored definition under key, preserving the
// key and creation timestamp, then fires flag_updated.
func (s *Service) UpdateFlag(ctx context.Context, key string, f flag.Flag) (flag.Flag, error) {
	existing, err := s.store.GetFlag(ctx, key)
	if err != nil {
		return flag.Flag{}, err
	}

	f.Key = key
	f.CreatedAt = existing.CreatedAt
	f.UpdatedAt = s.now().UTC()
	if err := f.Validate(); err != nil {
		return flag.Flag{}, err
	}

	if err := s.store.SaveFlag(ctx, f); err != nil {
		return flag.Flag{}, err
	}

	s.fireEvent(ctx, notifier.EventFlagUpdated, key, flagJSON(existing), flagJSON(f))
	return f, nil
}

// DeleteFlag removes the flag and fires flag_deleted.
func (s *Service) DeleteFlag(ctx context.Context, key string) error {
	existing, err := s.store.GetFlag(ctx, key)
	if err != nil {
		return err
	}

	if err := s.store.DeleteFlag(ctx, key); err != nil {
		return err
	}

	s.fireEvent(ctx, notifier.EventFlagDeleted, key, flagJSON(existing), nil)
	return nil
}

// AddWebhook registers a webhook endpoint URL.
func (s *Service) AddWebhook(ctx context.Context, endpoint string) error {
	u, err := url.Parse(endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidWebhookURL, endpoint)
	}
	return s.webhooks.AddWebhook(ctx, endpoint)
}

// RemoveWebhook unregisters a webhook endpoint URL.
func (s *Service) RemoveWebhook(ctx context.Context, endpoint string) error {
	return s.webhooks.RemoveWebhook(ctx, endpoint)
}

// ListWebhooks returns the registered endpoint URLs.
func (s *Service) ListWebhooks(ctx context.Context) ([]string, error) {
	return s.webhooks.ListWebhooks(ctx)
}

// Evaluate resolves the flag for the given context. When record is
// set and the decision assigned a variant or rollout bucket, an
// exposure is queued on the recorder with the supplied metric.
func (s *Service) Evaluate(ctx context.Context, key string, ectx flag.Context, record bool, metric float64) (flag.Decision, error) {
	f, err := s.store.GetFlag(ctx, key)
	if err != nil {
		return flag.Decision{}, err
	}

	decision := flag.Evaluate(f, ectx, s.now().UTC())

	if record && s.recorder != nil {
		if variant, ok := exposureVariant(f, decision); ok {
			s.recorder.Record(experiment.NewExposure(key, variant, metric))
		}
	}
	return decision, nil
}

// Summarize returns the experiment summary for an existing flag.
func (s *Service) Summarize(ctx context.Context, key string, from, to time.Time) (experiment.Summary, error) {
	if _, err := s.store.GetFlag(ctx, key); err != nil {
		return experiment.Summary{}, err
	}
	if s.summarizer == nil {
		return experiment.Summary{FlagKey: key, Variants: map[string]experiment.VariantSummary{}, From: from, To: to}, nil
	}
	return s.summarizer.Summarize(ctx, key, from, to)
}

// exposureVariant names the experiment arm for a decision. Variant
// assignments use the variant name; rollout buckets count as
// "enabled" or "control" depending on admission. Other reasons are
// not exposures.
func exposureVariant(f flag.Flag, d flag.Decision) (string, bool) {
	switch d.Reason {
	case flag.ReasonVariantAssignment:
		return d.Variant, true
	case flag.ReasonRolloutBucket:
		if f.Rollout != nil && d.Bucket != nil && *d.Bucket < f.Rollout.Percentage {
			return "enabled", true
		}
		return "control", true
	}
	return "", false
}

// fireEvent delivers a change event without blocking the mutation.
// The request context may be cancelled as soon as the response is
// written, so delivery runs detached from it.
func (s *Service) fireEvent(ctx context.Context, eventType, key string, oldValue, newValue json.RawMessage) {
	if s.notifier == nil {
		return
	}
	event := notifier.NewEvent(eventType, key, oldValue, newValue)
	s.deliveries.Add(1)
	go func() {
		defer s.deliveries.Done()
		deliverCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Minute)
		defer cancel()
		if err := s.notifier.Notify(deliverCtx, event); err != nil {
			s.log.WarnContext(deliverCtx, "flag change event delivery failed",
				slog.String("event_type", eventType),
				slog.String("flag_key", key),
				slog.Any("error", err))
		}
	}()
}

// Close waits for in-flight change event deliveries to finish, or
// returns the context error when ctx expires first.
func (s *Service) Close(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.deliveries.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func flagJSON(f flag.Flag) json.RawMessage {
	data, err := json.Marshal(f)
	if err != nil {
		return nil
	}
	return data
}
