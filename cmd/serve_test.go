package cmd

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// fakeServer blocks in Start until Shutdown has finished draining.
type fakeServer struct {
	started   chan struct{}
	stopped   chan struct{}
	drain     time.Duration
	drained   atomic.Bool
	hadDeadline atomic.Bool
	startErr  error
}

func newFakeServer(drain time.Duration) *fakeServer {
	return &fakeServer{started: make(chan struct{}), stopped: make(chan struct{}), drain: drain}
}

func (f *fakeServer) Start() error {
	if f.startErr != nil {
		return f.startErr
	}
	close(f.started)
	<-f.stopped
	return nil
}

func (f *fakeServer) Shutdown(ctx context.Context) error {
	_, ok := ctx.Deadline()
	f.hadDeadline.Store(ok)
	select {
	case <-time.After(f.drain):
	case <-ctx.Done():
		return ctx.Err()
	}
	f.drained.Store(true)
	close(f.stopped)
	return nil
}

func TestServeUntilDone_WaitsForDrain(t *testing.T) {
	srv := newFakeServer(50 * time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- serveUntilDone(ctx, srv, time.Second, zerolog.Nop()) }()

	<-srv.started
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("serveUntilDone did not return")
	}
	if !srv.drained.Load() {
		t.Error("returned before in-flight requests drained")
	}
	if !srv.hadDeadline.Load() {
		t.Error("shutdown context should carry a deadline")
	}
}

func TestServeUntilDone_DrainTimeout(t *testing.T) {
	srv := newFakeServer(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := serveUntilDone(ctx, srv, 20*time.Millisecond, zerolog.Nop())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestServeUntilDone_StartFailure(t *testing.T) {
	srv := newFakeServer(0)
	srv.startErr = errors.New("address already in use")

	err := serveUntilDone(context.Background(), srv, time.Second, zerolog.Nop())
	if !errors.Is(err, srv.startErr) {
		t.Errorf("expected start error, got %v", err)
	}
}
