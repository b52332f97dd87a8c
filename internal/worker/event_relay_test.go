package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/polkiloo/rewardportal/internal/domain/model"
	testhelpers "github.com/polkiloo/rewardportal/internal/test"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.After(timeout)
	for !cond() {
		select {
		case <-deadline:
			t.Fatal("timeout waiting for relay")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestNewEventRelayDefaults(t *testing.T) {
	relay := NewEventRelay(&testhelpers.RelayFacadeStub{}, 0, 0, 0, testLogger())
	if relay.batchSize != 1 {
		t.Fatalf("expected batch size default to 1, got %d", relay.batchSize)
	}
	if relay.workers != 1 {
		t.Fatalf("expected workers default to 1, got %d", relay.workers)
	}
	if relay.pollInterval != time.Second {
		t.Fatalf("expected poll interval default to 1s, got %v", relay.pollInterval)
	}
}

func TestEventRelayPublishesPendingEvents(t *testing.T) {
	facade := &testhelpers.RelayFacadeStub{Batches: [][]model.Event{
		{{ID: 1, Kind: model.EventWithdrawalSubmitted}, {ID: 2, Kind: model.EventWithdrawalApproved}},
		{{ID: 3, Kind: model.EventWithdrawalSubmitted}},
	}}
	relay := NewEventRelay(facade, 5*time.Millisecond, 2, 2, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	relay.Start(ctx)
	relay.Start(ctx)

	waitFor(t, time.Second, func() bool { return len(facade.PublishedIDs()) == 3 })
	relay.Stop()

	seen := map[int64]bool{}
	for _, id := range facade.PublishedIDs() {
		if seen[id] {
			t.Fatalf("event %d published twice", id)
		}
		seen[id] = true
	}
}

func TestEventRelayKeepsRunningAfterFailures(t *testing.T) {
	var calls int32
	facade := &testhelpers.RelayFacadeStub{
		PendingFn: func(context.Context, int) ([]model.Event, error) {
			switch atomic.AddInt32(&calls, 1) {
			case 1:
				return nil, errors.New("database unavailable")
			case 2:
				return []model.Event{{ID: 9}}, nil
			default:
				return nil, nil
			}
		},
		PublishErr: map[int64]error{9: errors.New("broker down")},
	}
	relay := NewEventRelay(facade, 5*time.Millisecond, 1, 1, testLogger())
	relay.Start(context.Background())

	waitFor(t, time.Second, func() bool { return facade.Attempts() > 0 })
	waitFor(t, time.Second, func() bool { return atomic.LoadInt32(&calls) > 2 })
	relay.Stop()

	if len(facade.PublishedIDs()) != 0 {
		t.Fatalf("failed publish must not be recorded as published: %v", facade.PublishedIDs())
	}
}

func TestEventRelayStopWithoutStart(t *testing.T) {
	relay := NewEventRelay(&testhelpers.RelayFacadeStub{}, time.Millisecond, 1, 1, testLogger())
	relay.Stop()
}

func TestEventRelayRestartsAfterStop(t *testing.T) {
	facade := &testhelpers.RelayFacadeStub{Batches: [][]model.Event{{{ID: 1}}}}
	relay := NewEventRelay(facade, 5*time.Millisecond, 1, 1, testLogger())

	relay.Start(context.Background())
	waitFor(t, time.Second, func() bool { return len(facade.PublishedIDs()) == 1 })
	relay.Stop()

	facade.Enqueue([]model.Event{{ID: 2}})
	relay.Start(context.Background())
	waitFor(t, time.Second, func() bool { return len(facade.PublishedIDs()) == 2 })
	relay.Stop()
}
