package daemon

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"log/slog"

	"github.com/gofrs/flock"

	"cutout/internal/config"
	"cutout/internal/export"
	"cutout/internal/logging"
	"cutout/internal/queue"
	"cutout/internal/removal"
	"cutout/internal/workflow"
)

// Daemon coordinates background processing and enforces single-instance execution.
type Daemon struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *queue.Store
	workflow *workflow.Manager
	removal  *removal.Client
	exporter *export.Exporter

	lockPath string
	lock     *flock.Flock

	api *apiServer

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	PID          int
	QueueDBPath  string
	LockFilePath string
	Workflow     workflow.StatusSummary
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, store *queue.Store, logger *slog.Logger, wf *workflow.Manager, client *removal.Client) (*Daemon, error) {
	if cfg == nil || store == nil || wf == nil {
		return nil, errors.New("daemon requires config, store, and workflow manager")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	// The lock lives beside the queue database so stale workspaces and
	// stale locks are cleaned up together.
	lockPath := filepath.Join(filepath.Dir(store.Path()), "cutoutd.lock")
	d := &Daemon{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		workflow: wf,
		removal:  client,
		exporter: export.New(cfg, store, logger),
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}

	srv, err := newAPIServer(cfg, d, logger)
	if err != nil {
		return nil, err
	}
	d.api = srv
	return d, nil
}

// Start acquires the daemon lock and launches the workflow manager and API server.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another cutout daemon instance is already running")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)
	if err := d.workflow.Start(d.ctx); err != nil {
		_ = d.lock.Unlock()
		d.cancel()
		d.ctx = nil
		d.cancel = nil
		return fmt.Errorf("start workflow: %w", err)
	}

	if d.api != nil {
		if err := d.api.start(d.ctx); err != nil {
			d.workflow.Stop()
			_ = d.lock.Unlock()
			d.cancel()
			d.ctx = nil
			d.cancel = nil
			return err
		}
	}

	d.running.Store(true)
	d.logger.Info("cutout daemon started", logging.String("lock", d.lockPath))
	return nil
}

// Stop stops background processing and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.api.stop()
	d.workflow.Stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.ctx = nil
	d.running.Store(false)
	d.logger.Info("cutout daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Status reports current daemon and workflow state.
func (d *Daemon) Status(ctx context.Context) Status {
	return Status{
		Running:      d.running.Load(),
		PID:          os.Getpid(),
		QueueDBPath:  d.store.Path(),
		LockFilePath: d.lockPath,
		Workflow:     d.workflow.Status(ctx),
	}
}

// APIAddr returns the bound API listener address, or "" when the server
// is disabled or not started.
func (d *Daemon) APIAddr() string {
	if d.api == nil {
		return ""
	}
	return d.api.addr()
}
