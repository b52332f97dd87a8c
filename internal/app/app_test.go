package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/rewardportal/internal/config"
	"github.com/polkiloo/rewardportal/internal/domain/model"
	testhelpers "github.com/polkiloo/rewardportal/internal/test"
	"github.com/polkiloo/rewardportal/internal/worker"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newTestRelay(facade worker.RelayFacade) *worker.EventRelay {
	return worker.NewEventRelay(facade, 10*time.Millisecond, 1, 1, testLogger())
}

func TestNewHTTPServer(t *testing.T) {
	cfg := &config.Config{RunAddress: ":9999"}
	router := gin.New()
	server := newHTTPServer(serverParams{Config: cfg, Router: router})
	if server.Addr != ":9999" {
		t.Fatalf("expected address :9999, got %q", server.Addr)
	}
	if server.Handler != router {
		t.Fatalf("expected handler to be router")
	}
}

func TestNewEventRelayUsesConfig(t *testing.T) {
	relay := newEventRelay(workerParams{
		Facade: &PortalFacade{},
		Config: &config.Config{EventPollInterval: 15 * time.Second, EventBatchSize: 3, RelayWorkers: 4},
		Logger: testLogger(),
	})
	if relay == nil {
		t.Fatal("expected event relay instance")
	}
}

func TestRegisterLifecycleStartStop(t *testing.T) {
	recorder := &testhelpers.LifecycleRecorder{}
	shutdowner := &testhelpers.ShutdownerStub{Called: make(chan struct{}, 1)}
	server := &http.Server{Addr: "127.0.0.1:0", Handler: http.NewServeMux()}
	facade := &testhelpers.RelayFacadeStub{}
	facade.Enqueue([]model.Event{{ID: 1, Kind: model.EventWithdrawalSubmitted}})

	registerLifecycle(lifecycleParams{
		Lifecycle:  recorder,
		Shutdowner: shutdowner,
		Logger:     testLogger(),
		Server:     server,
		Relay:      newTestRelay(facade),
		Config:     &config.Config{ShutdownTimeout: 100 * time.Millisecond},
	})

	if len(recorder.Hooks) != 1 {
		t.Fatalf("expected one hook registered, got %d", len(recorder.Hooks))
	}

	ctx, cancel := context.WithCancel(context.Background())
	if err := recorder.Start(ctx); err != nil {
		t.Fatalf("on start failed: %v", err)
	}
	// The relay keeps running after the start context is gone.
	cancel()

	deadline := time.Now().Add(time.Second)
	for len(facade.PublishedIDs()) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("expected relay to publish queued event")
		}
		time.Sleep(5 * time.Millisecond)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = recorder.Stop(context.Background())
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expected on stop to finish")
	}
}

func TestRegisterLifecycleShutdownOnServerError(t *testing.T) {
	recorder := &testhelpers.LifecycleRecorder{}
	shutdowner := &testhelpers.ShutdownerStub{Called: make(chan struct{}, 1)}

	registerLifecycle(lifecycleParams{
		Lifecycle:  recorder,
		Shutdowner: shutdowner,
		Logger:     testLogger(),
		Server:     &http.Server{Addr: "bad addr"},
		Relay:      newTestRelay(&testhelpers.RelayFacadeStub{}),
		Config:     &config.Config{ShutdownTimeout: time.Second},
	})

	if err := recorder.Start(context.Background()); err != nil {
		t.Fatalf("on start returned error: %v", err)
	}

	select {
	case <-shutdowner.Called:
	case <-time.After(time.Second):
		t.Fatal("expected shutdown to be triggered on server error")
	}

	_ = recorder.Stop(context.Background())
}

func TestPortalStopBeforeServing(t *testing.T) {
	rp := &portal{
		server:          &http.Server{Addr: "127.0.0.1:0"},
		relay:           newTestRelay(&testhelpers.RelayFacadeStub{}),
		shutdowner:      &testhelpers.ShutdownerStub{Called: make(chan struct{}, 1)},
		logger:          testLogger(),
		shutdownTimeout: 50 * time.Millisecond,
	}
	if err := rp.stop(context.Background()); err != nil {
		t.Fatalf("stopping an idle portal should succeed, got %v", err)
	}
}

func TestShutdownerStub(t *testing.T) {
	shutdowner := &testhelpers.ShutdownerStub{Called: make(chan struct{}, 1)}
	if err := shutdowner.Shutdown(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	select {
	case <-shutdowner.Called:
	default:
		t.Fatal("expected shutdown notification")
	}
}
