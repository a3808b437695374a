package workflow

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"cutout/internal/queue"
	"cutout/internal/services"
	"cutout/internal/stage"
	"cutout/internal/testsupport"
)

type stubHandler struct {
	mu         sync.Mutex
	calls      int
	prepareErr error
	execFn     func(context.Context, *queue.Item) error
}

func (s *stubHandler) Prepare(_ context.Context, _ *queue.Item) error {
	return s.prepareErr
}

func (s *stubHandler) Execute(ctx context.Context, item *queue.Item) error {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.execFn != nil {
		return s.execFn(ctx, item)
	}
	item.CutoutPath = fmt.Sprintf("/tmp/cutout-%d.png", item.ID)
	return nil
}

func (s *stubHandler) HealthCheck(context.Context) stage.Health {
	return stage.Healthy("stub")
}

func (s *stubHandler) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestProcessItemSuccess(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	handler := &stubHandler{}
	mgr := NewManager(cfg, store, handler, nil)

	item := testsupport.NewItem(t, store, "/tmp/a.png", "a")
	if err := mgr.processItem(context.Background(), item); err != nil {
		t.Fatalf("processItem failed: %v", err)
	}

	fetched, err := store.GetByID(context.Background(), item.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if fetched.Status != queue.StatusReady {
		t.Fatalf("status = %q, want ready", fetched.Status)
	}
	if fetched.CutoutPath == "" {
		t.Fatal("cutout path not persisted")
	}
}

func TestTransientFailureRequeuesBelowCap(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithMaxRetries(2))
	store := testsupport.MustOpenStore(t, cfg)
	handler := &stubHandler{execFn: func(context.Context, *queue.Item) error {
		return services.Wrap(services.ErrTransient, "process", "execute", "upstream hiccup", nil)
	}}
	mgr := NewManager(cfg, store, handler, nil)

	item := testsupport.NewItem(t, store, "/tmp/a.png", "a")
	if err := mgr.processItem(context.Background(), item); err == nil {
		t.Fatal("expected processing error")
	}

	fetched, _ := store.GetByID(context.Background(), item.ID)
	if fetched.Status != queue.StatusQueued {
		t.Fatalf("status = %q, want queued", fetched.Status)
	}
	if fetched.RetryCount != 1 {
		t.Fatalf("retry count = %d, want 1", fetched.RetryCount)
	}
	if fetched.ErrorMessage == "" {
		t.Fatal("error message must be preserved for the next attempt")
	}
}

func TestRepeatedFailuresExhaustRetryCap(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithMaxRetries(2))
	store := testsupport.MustOpenStore(t, cfg)
	handler := &stubHandler{execFn: func(context.Context, *queue.Item) error {
		return services.Wrap(services.ErrTransient, "process", "execute", "still failing", nil)
	}}
	mgr := NewManager(cfg, store, handler, nil)

	item := testsupport.NewItem(t, store, "/tmp/a.png", "a")

	// First failure: back to queued with one attempt burned.
	_ = mgr.processItem(context.Background(), item)
	fetched, _ := store.GetByID(context.Background(), item.ID)
	if fetched.Status != queue.StatusQueued || fetched.RetryCount != 1 {
		t.Fatalf("after first failure: %#v", fetched)
	}

	// Second failure reaches the cap and lands terminal.
	_ = mgr.processItem(context.Background(), fetched)
	fetched, _ = store.GetByID(context.Background(), item.ID)
	if fetched.Status != queue.StatusError {
		t.Fatalf("status = %q, want error", fetched.Status)
	}
	if fetched.RetryCount != 2 {
		t.Fatalf("retry count = %d, want 2", fetched.RetryCount)
	}

	next, err := store.NextEligible(context.Background(), cfg.Limits.MaxRetries)
	if err != nil {
		t.Fatalf("NextEligible failed: %v", err)
	}
	if next != nil {
		t.Fatalf("exhausted item must not be eligible, got %#v", next)
	}
}

func TestNonRetryableFailureIsTerminal(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithMaxRetries(2))
	store := testsupport.MustOpenStore(t, cfg)
	handler := &stubHandler{execFn: func(context.Context, *queue.Item) error {
		return services.Wrap(services.ErrValidation, "process", "execute", "corrupt source", nil)
	}}
	mgr := NewManager(cfg, store, handler, nil)

	item := testsupport.NewItem(t, store, "/tmp/a.png", "a")
	_ = mgr.processItem(context.Background(), item)

	fetched, _ := store.GetByID(context.Background(), item.ID)
	if fetched.Status != queue.StatusError {
		t.Fatalf("status = %q, want error", fetched.Status)
	}
	next, err := store.NextEligible(context.Background(), cfg.Limits.MaxRetries)
	if err != nil {
		t.Fatalf("NextEligible failed: %v", err)
	}
	if next != nil {
		t.Fatal("validation failures must not be re-dispatched")
	}
	if handler.callCount() != 1 {
		t.Fatalf("execute calls = %d, want 1", handler.callCount())
	}
}

func TestPrepareFailureSkipsExecute(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	handler := &stubHandler{prepareErr: services.Wrap(services.ErrValidation, "process", "prepare", "source missing", nil)}
	mgr := NewManager(cfg, store, handler, nil)

	item := testsupport.NewItem(t, store, "/tmp/a.png", "a")
	_ = mgr.processItem(context.Background(), item)

	if handler.callCount() != 0 {
		t.Fatalf("execute calls = %d, want 0", handler.callCount())
	}
	fetched, _ := store.GetByID(context.Background(), item.ID)
	if fetched.Status != queue.StatusError {
		t.Fatalf("status = %q, want error", fetched.Status)
	}
}

func TestSingleProcessingLane(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	release := make(chan struct{})
	started := make(chan int64, 4)
	handler := &stubHandler{execFn: func(ctx context.Context, item *queue.Item) error {
		started <- item.ID
		select {
		case <-release:
		case <-ctx.Done():
			return ctx.Err()
		}
		item.CutoutPath = fmt.Sprintf("/tmp/cutout-%d.png", item.ID)
		return nil
	}}
	mgr := NewManager(cfg, store, handler, nil)

	first := testsupport.NewItem(t, store, "/tmp/1.png", "one")
	testsupport.NewItem(t, store, "/tmp/2.png", "two")

	if err := mgr.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer mgr.Stop()

	select {
	case id := <-started:
		if id != first.ID {
			t.Fatalf("lane started with item %d, want %d", id, first.ID)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("lane never started processing")
	}

	// With the first item held mid-execute, nothing else may occupy the
	// processing slot.
	processing, err := store.List(context.Background(), queue.StatusProcessing)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(processing) != 1 {
		t.Fatalf("processing items = %d, want 1", len(processing))
	}

	close(release)

	deadline := time.After(10 * time.Second)
	for {
		stats, err := store.Stats(context.Background())
		if err != nil {
			t.Fatalf("Stats failed: %v", err)
		}
		if stats[queue.StatusReady] == 2 {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("batch never drained: %#v", stats)
		case <-time.After(20 * time.Millisecond):
		}
	}
}

func TestStartTwiceFails(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	mgr := NewManager(cfg, store, &stubHandler{}, nil)

	if err := mgr.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer mgr.Stop()
	if err := mgr.Start(context.Background()); err == nil {
		t.Fatal("second Start must fail")
	}
}

func TestStatusSummary(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	handler := &stubHandler{}
	mgr := NewManager(cfg, store, handler, nil)

	testsupport.NewItem(t, store, "/tmp/1.png", "one")
	summary := mgr.Status(context.Background())
	if summary.Running {
		t.Fatal("manager should not be running yet")
	}
	if summary.QueueStats[queue.StatusQueued] != 1 {
		t.Fatalf("queued = %d, want 1", summary.QueueStats[queue.StatusQueued])
	}
	if !summary.StageHealth.Ready {
		t.Fatal("stub stage must be healthy")
	}

	mgr.setLastError(errors.New("boom"))
	summary = mgr.Status(context.Background())
	if summary.LastError != "boom" {
		t.Fatalf("last error = %q", summary.LastError)
	}
}
