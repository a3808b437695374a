package workflow

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"cutout/internal/config"
	"cutout/internal/logging"
	"cutout/internal/queue"
	"cutout/internal/stage"
)

// Manager drains the queue sequentially through the processing stage. A
// single goroutine owns the lane, so at most one item holds the processing
// status at any instant.
type Manager struct {
	cfg     *config.Config
	store   *queue.Store
	handler stage.Handler
	logger  *slog.Logger

	pollInterval  time.Duration
	retryInterval time.Duration

	mu       sync.RWMutex
	running  bool
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	lastErr  error
	lastItem *queue.Item
}

// NewManager constructs a workflow manager.
func NewManager(cfg *config.Config, store *queue.Store, handler stage.Handler, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Manager{
		cfg:           cfg,
		store:         store,
		handler:       handler,
		logger:        logger.With(logging.String(logging.FieldComponent, "workflow")),
		pollInterval:  time.Duration(cfg.Workflow.QueuePollInterval) * time.Second,
		retryInterval: time.Duration(cfg.Workflow.ErrorRetryInterval) * time.Second,
	}
}

// Start begins background processing. Items stranded in processing by an
// earlier shutdown return to queued before the lane starts.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return errors.New("workflow already running")
	}
	if m.handler == nil {
		m.mu.Unlock()
		return errors.New("workflow stage not configured")
	}

	reset, err := m.store.ResetStuckProcessing(ctx)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	if reset > 0 {
		m.logger.Info("requeued interrupted items", logging.Int64("count", reset))
	}

	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.running = true
	m.wg.Add(1)
	m.mu.Unlock()

	go m.run(runCtx)
	return nil
}

// Stop terminates background processing and waits for the lane to drain.
func (m *Manager) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	cancel := m.cancel
	m.running = false
	m.cancel = nil
	m.mu.Unlock()

	cancel()
	m.wg.Wait()
}

// Running reports whether the lane is active.
func (m *Manager) Running() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.running
}

func (m *Manager) setLastError(err error) {
	m.mu.Lock()
	m.lastErr = err
	m.mu.Unlock()
}

func (m *Manager) setLastItem(item *queue.Item) {
	m.mu.Lock()
	if item != nil {
		copy := *item
		m.lastItem = &copy
	} else {
		m.lastItem = nil
	}
	m.mu.Unlock()
}
