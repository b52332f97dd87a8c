package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/polkiloo/rewardportal/internal/domain/model"
)

// RelayFacade exposes the subset of application functionality required by the relay.
type RelayFacade interface {
	PendingEvents(ctx context.Context, limit int) ([]model.Event, error)
	PublishEvent(ctx context.Context, event model.Event) error
}

// EventRelay polls the withdrawal outbox and publishes events concurrently.
type EventRelay struct {
	facade       RelayFacade
	pollInterval time.Duration
	batchSize    int
	workers      int
	logger       *slog.Logger

	jobs   chan model.Event
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewEventRelay constructs the outbox relay worker pool.
func NewEventRelay(facade RelayFacade, pollInterval time.Duration, batchSize, workers int, logger *slog.Logger) *EventRelay {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	if pollInterval <= 0 {
		pollInterval = time.Second
	}
	return &EventRelay{
		facade:       facade,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		workers:      workers,
		logger:       logger,
	}
}

// Start launches background publishing. Calling Start on a running relay is a no-op.
func (r *EventRelay) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.jobs = make(chan model.Event, r.batchSize*r.workers)

	for i := 0; i < r.workers; i++ {
		r.wg.Add(1)
		go r.worker(runCtx, r.jobs)
	}

	r.wg.Add(1)
	go r.dispatch(runCtx, r.jobs)
}

// Stop cancels polling and waits for in-flight publishes to finish.
func (r *EventRelay) Stop() {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.mu.Unlock()

	r.wg.Wait()
}

func (r *EventRelay) dispatch(ctx context.Context, jobs chan<- model.Event) {
	defer r.wg.Done()
	defer close(jobs)
	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.fetchAndDispatch(ctx, jobs)
		}
	}
}

func (r *EventRelay) fetchAndDispatch(ctx context.Context, jobs chan<- model.Event) {
	events, err := r.facade.PendingEvents(ctx, r.batchSize)
	if err != nil {
		if ctx.Err() == nil {
			r.logger.Error("fetch pending events failed", slog.String("error", err.Error()))
		}
		return
	}
	for _, event := range events {
		select {
		case <-ctx.Done():
			return
		case jobs <- event:
		}
	}
}

func (r *EventRelay) worker(ctx context.Context, jobs <-chan model.Event) {
	defer r.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-jobs:
			if !ok {
				return
			}
			r.handleEvent(ctx, event)
		}
	}
}

// handleEvent leaves failed events unpublished; they are retried once their lease expires.
func (r *EventRelay) handleEvent(ctx context.Context, event model.Event) {
	if err := r.facade.PublishEvent(ctx, event); err != nil {
		r.logger.Warn("publish event failed",
			slog.Int64("event_id", event.ID),
			slog.String("kind", string(event.Kind)),
			slog.String("error", err.Error()),
		)
	}
}
