package test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"go.uber.org/fx"
)

func TestLifecycleRecorderOrdersHooks(t *testing.T) {
	var calls []string
	hook := func(name string) fx.Hook {
		return fx.Hook{
			OnStart: func(context.Context) error { calls = append(calls, "start "+name); return nil },
			OnStop:  func(context.Context) error { calls = append(calls, "stop "+name); return nil },
		}
	}
	lc := &LifecycleRecorder{}
	lc.Append(hook("storage"))
	lc.Append(fx.Hook{})
	lc.Append(hook("server"))

	if err := lc.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := lc.Stop(context.Background()); err != nil {
		t.Fatalf("stop: %v", err)
	}
	want := []string{"start storage", "start server", "stop server", "stop storage"}
	if !reflect.DeepEqual(calls, want) {
		t.Fatalf("expected %v, got %v", want, calls)
	}
}

func TestLifecycleRecorderReportsErrors(t *testing.T) {
	startErr := errors.New("ping failed")
	stopErr := errors.New("close failed")
	lc := &LifecycleRecorder{}
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error { return startErr },
		OnStop:  func(context.Context) error { return stopErr },
	})
	if err := lc.Start(context.Background()); !errors.Is(err, startErr) {
		t.Fatalf("expected start error, got %v", err)
	}
	if err := lc.Stop(context.Background()); !errors.Is(err, stopErr) {
		t.Fatalf("expected stop error, got %v", err)
	}
}
