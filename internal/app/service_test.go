package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/freshcart/internal/constants"
	"github.com/freshcart/internal/session"
	"github.com/freshcart/internal/storage"
)

type fakeService struct {
	name     string
	startErr error
	stopped  atomic.Bool
}

func (s *fakeService) Name() string { return s.name }

func (s *fakeService) Start(ctx context.Context) error {
	if s.startErr != nil {
		return s.startErr
	}
	<-ctx.Done()
	return nil
}

func (s *fakeService) Stop(ctx context.Context) error {
	s.stopped.Store(true)
	return nil
}

func TestRunnerStopsAllOnServiceError(t *testing.T) {
	failing := &fakeService{name: "failing", startErr: errors.New("boom")}
	idle := &fakeService{name: "idle"}
	runner := NewRunner(failing, idle)

	err := runner.Run(context.Background(), time.Second, nil)
	if err == nil || err.Error() != "boom" {
		t.Fatalf("expected boom, got %v", err)
	}
	if !failing.stopped.Load() || !idle.stopped.Load() {
		t.Fatalf("all services should be stopped")
	}
}

func TestRunnerCancelReturnsNil(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	runner := NewRunner(&fakeService{name: "idle"})
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	if err := runner.Run(ctx, time.Second, nil); err != nil {
		t.Fatalf("cancel should be a clean exit, got %v", err)
	}
}

func TestHydrationServiceResolvesSession(t *testing.T) {
	backend := storage.NewMemoryStorage()
	ctx := context.Background()
	_ = backend.Set(ctx, constants.StorageKeyUser, `{"id":"1","name":"Ada"}`)
	_ = backend.Set(ctx, constants.StorageKeyToken, "tok")
	store := session.NewStore(backend)
	svc := NewHydrationService(store)

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- svc.Start(runCtx) }()

	waitCtx, waitCancel := context.WithTimeout(ctx, time.Second)
	defer waitCancel()
	if err := store.WaitHydrated(waitCtx); err != nil {
		t.Fatalf("wait hydrated failed: %v", err)
	}
	if !store.IsAuthenticated() {
		t.Fatalf("expected authenticated after hydration, got %s", store.State())
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("hydration service exit failed: %v", err)
	}
	if err := svc.Stop(ctx); err != nil {
		t.Fatalf("stop failed: %v", err)
	}
}
