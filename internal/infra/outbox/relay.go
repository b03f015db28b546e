package outbox

import (
	"context"
	"fmt"
	"time"
)

// Delivery outcomes reported to metrics
const (
	StatusPublished = "published"
	StatusFailed    = "failed"
)

// RelayConfig batch shape and pacing.
// A failed event waits RetryBackoff before its second attempt, twice as long before
// the third and so on, capped at MaxRetryBackoff.
type RelayConfig struct {
	PollInterval    time.Duration
	BatchSize       int
	MaxAttempts     int
	RetryBackoff    time.Duration
	MaxRetryBackoff time.Duration
}

// BatchResult outcome of one batch
type BatchResult struct {
	Published int
	Failed    int
}

// Relay moves committed outbox events to a sink.
// Each batch runs in one transaction; rows locked by another relay instance are skipped,
// so several replicas can run side by side. Delivery is at least once.
type Relay struct {
	repo      Repository
	txManager TransactionManager
	sink      Sink
	cfg       RelayConfig
	metrics   Metrics
	logger    Logger
	now       func() time.Time
}

func NewRelay(repo Repository, txManager TransactionManager, sink Sink, cfg RelayConfig, metrics Metrics, logger Logger) *Relay {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 2 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 10
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = 5 * time.Second
	}
	if cfg.MaxRetryBackoff < cfg.RetryBackoff {
		cfg.MaxRetryBackoff = 30 * time.Minute
	}
	return &Relay{
		repo:      repo,
		txManager: txManager,
		sink:      sink,
		cfg:       cfg,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

// Run polls until ctx is cancelled
func (r *Relay) Run(ctx context.Context) {
	r.logger.Info("Outbox relay started: sink=%s, interval=%s, batch=%d", r.sink.Name(), r.cfg.PollInterval, r.cfg.BatchSize)

	ticker := time.NewTicker(r.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Outbox relay stopped")
			return
		case <-ticker.C:
			r.drain(ctx)
		}
	}
}

// drain relays batches while they come back full and clean.
// After any failed delivery the rest waits for the next tick.
func (r *Relay) drain(ctx context.Context) {
	for ctx.Err() == nil {
		result, err := r.RelayBatch(ctx)
		if err != nil {
			r.logger.Error("Outbox relay: batch failed: %v", err)
			return
		}
		if result.Failed > 0 || result.Published < r.cfg.BatchSize {
			return
		}
	}
}

// RelayBatch delivers one batch of due events
func (r *Relay) RelayBatch(ctx context.Context) (BatchResult, error) {
	var result BatchResult

	err := r.txManager.Do(ctx, func(ctx context.Context) error {
		result = BatchResult{}

		events, err := r.repo.FetchUnpublished(ctx, uint64(r.cfg.BatchSize), r.cfg.MaxAttempts)
		if err != nil {
			return fmt.Errorf("fetch unpublished: %w", err)
		}

		for _, event := range events {
			if pubErr := r.sink.Publish(ctx, event); pubErr != nil {
				attempt := event.Attempts + 1
				retryAt := r.now().Add(r.backoff(attempt))
				r.logger.Warn("Outbox relay: event %s attempt %d failed, next at %s: %v",
					event.EventID, attempt, retryAt.Format(time.RFC3339), pubErr)
				r.metrics.ObserveOutbox(r.sink.Name(), StatusFailed)
				if err := r.repo.MarkFailed(ctx, event.ID, pubErr, retryAt); err != nil {
					return fmt.Errorf("mark event %d failed: %w", event.ID, err)
				}
				result.Failed++
				continue
			}

			if err := r.repo.MarkPublished(ctx, event.ID); err != nil {
				return fmt.Errorf("mark event %d published: %w", event.ID, err)
			}
			result.Published++
			r.metrics.ObserveOutbox(r.sink.Name(), StatusPublished)
			r.logger.Debug("Outbox relay: event %s published to %s", event.EventID, r.sink.Name())
		}
		return nil
	})
	if err != nil {
		return BatchResult{}, err
	}
	return result, nil
}

// backoff delay after the given failed attempt (1-based)
func (r *Relay) backoff(attempt int) time.Duration {
	delay := r.cfg.RetryBackoff
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= r.cfg.MaxRetryBackoff {
			return r.cfg.MaxRetryBackoff
		}
	}
	return delay
}
