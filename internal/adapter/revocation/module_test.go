package revocation

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"go.uber.org/fx/fxtest"

	"github.com/polkiloo/rewardportal/internal/config"
	"github.com/polkiloo/rewardportal/internal/test"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func stubRedisClient(t *testing.T, stub *redisStub) {
	t.Helper()
	orig := newRedisClient
	newRedisClient = func(*config.Config) redisClient { return stub }
	t.Cleanup(func() { newRedisClient = orig })
}

func TestNewRevokerWithoutRedisIsNop(t *testing.T) {
	lc := &test.LifecycleRecorder{}
	revoker, err := newRevoker(revokerParams{Lifecycle: lc, Config: &config.Config{}, Logger: testLogger()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := revoker.(NopRevoker); !ok {
		t.Fatalf("expected nop revoker, got %T", revoker)
	}
	if len(lc.Hooks) != 0 {
		t.Fatalf("expected no lifecycle hooks, got %d", len(lc.Hooks))
	}
}

func TestNewRevokerUsesRedisWhenConfigured(t *testing.T) {
	stub := newRedisStub()
	stubRedisClient(t, stub)

	lc := fxtest.NewLifecycle(t)
	revoker, err := newRevoker(revokerParams{Lifecycle: lc, Config: &config.Config{RedisAddr: "localhost:6379"}, Logger: testLogger()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := revoker.(*RedisRevoker); !ok {
		t.Fatalf("expected redis revoker, got %T", revoker)
	}

	lc.RequireStart()
	lc.RequireStop()
	if !stub.closed {
		t.Fatal("expected redis client to be closed on stop")
	}
}

func TestNewRevokerFailsStartWhenRedisIsDown(t *testing.T) {
	stub := newRedisStub()
	stub.pingErr = errors.New("dial tcp: connection refused")
	stubRedisClient(t, stub)

	lc := &test.LifecycleRecorder{}
	if _, err := newRevoker(revokerParams{Lifecycle: lc, Config: &config.Config{RedisAddr: "localhost:6379"}, Logger: testLogger()}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lc.Hooks) != 1 {
		t.Fatalf("expected one lifecycle hook, got %d", len(lc.Hooks))
	}
	if err := lc.Start(context.Background()); !errors.Is(err, stub.pingErr) {
		t.Fatalf("expected ping error, got %v", err)
	}
}

func TestNewRedisClientUsesConfig(t *testing.T) {
	client := newRedisClient(&config.Config{RedisAddr: "localhost:6379", RedisDB: 2})
	defer client.Close()
	if client == nil {
		t.Fatal("expected client instance")
	}
}
