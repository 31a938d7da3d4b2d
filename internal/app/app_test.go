package app

import (
	"context"
	"errors"
	"testing"
	"time"
)

// Run на in-memory зависимостях с эфемерными портами должен подняться
// и корректно завершиться по отмене контекста.
func TestRun_StartsAndStopsOnCancel(t *testing.T) {
	cfg := Config{
		HTTPAddr:    "127.0.0.1:0",
		MetricsAddr: "127.0.0.1:0",
	}

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, cfg)
	}()

	time.Sleep(200 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("Run did not stop after context cancellation")
	}
}
