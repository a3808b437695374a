package workflow

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"cutout/internal/logging"
	"cutout/internal/queue"
	"cutout/internal/services"
)

func (m *Manager) run(ctx context.Context) {
	defer m.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		item, err := m.store.NextEligible(ctx, m.cfg.Limits.MaxRetries)
		if err != nil {
			m.setLastError(err)
			m.logger.Error("failed to fetch next queue item",
				logging.Error(err),
				logging.String(logging.FieldEventType, "queue_fetch_failed"),
				logging.String(logging.FieldErrorHint, "check queue database access"))
			m.waitOrShutdown(ctx, m.retryInterval)
			continue
		}
		if item == nil {
			m.waitOrShutdown(ctx, m.pollInterval)
			continue
		}

		if err := m.processItem(ctx, item); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
		}
	}
}

func (m *Manager) processItem(ctx context.Context, item *queue.Item) error {
	requestID := uuid.NewString()
	itemCtx := services.WithRequestID(services.WithItemID(services.WithStage(ctx, "process"), item.ID), requestID)
	logger := logging.WithContext(itemCtx, m.logger)

	item.Status = queue.StatusProcessing
	item.ErrorMessage = ""
	if err := m.store.Update(itemCtx, item); err != nil {
		m.setLastError(err)
		logger.Error("failed to transition item to processing", logging.Error(err))
		return err
	}
	m.setLastItem(item)

	start := time.Now()
	logger.Info("processing started",
		logging.String(logging.FieldEventType, "stage_start"),
		logging.String("display_name", item.DisplayName),
		logging.Int("attempt", item.RetryCount+1))

	if err := m.handler.Prepare(itemCtx, item); err != nil {
		m.failItem(itemCtx, item, err)
		return err
	}
	if err := m.store.Update(itemCtx, item); err != nil {
		m.setLastError(err)
		logger.Error("failed to persist stage preparation", logging.Error(err))
		return err
	}

	execErr := m.handler.Execute(itemCtx, item)
	if execErr != nil {
		if errors.Is(execErr, context.Canceled) {
			// Shutdown mid-item: hand it back to the queue untouched so
			// the next start picks it up again.
			item.Requeue()
			_ = m.store.Update(context.WithoutCancel(itemCtx), item)
			logger.Debug("processing interrupted by shutdown")
			return execErr
		}
		m.failItem(itemCtx, item, execErr)
		return execErr
	}

	item.SetReady(item.CutoutPath)
	if err := m.store.Update(itemCtx, item); err != nil {
		m.setLastError(err)
		logger.Error("failed to persist stage result", logging.Error(err))
		return err
	}
	m.setLastItem(item)
	logger.Info("processing completed",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.Duration("stage_duration", time.Since(start)))
	return nil
}

// failItem records a processing failure. Retryable failures below the cap
// return the item to queued; everything else lands in the terminal error
// state. A single failed item never halts the rest of the batch.
func (m *Manager) failItem(ctx context.Context, item *queue.Item, stageErr error) {
	m.setLastError(stageErr)
	logger := logging.WithContext(ctx, m.logger)

	message := strings.TrimSpace(stageErr.Error())
	item.RetryCount++
	retryable := services.IsRetryable(stageErr)
	if !retryable {
		// Deterministic failures burn the whole allowance so the queue
		// never re-dispatches them.
		if item.RetryCount < m.cfg.Limits.MaxRetries {
			item.RetryCount = m.cfg.Limits.MaxRetries
		}
	}

	if retryable && item.RetryCount < m.cfg.Limits.MaxRetries {
		item.Requeue()
		item.ErrorMessage = message
		logger.Warn("processing failed, will retry",
			logging.Error(stageErr),
			logging.Int("attempt", item.RetryCount),
			logging.Int("max_retries", m.cfg.Limits.MaxRetries),
			logging.String(logging.FieldEventType, "stage_retry"))
	} else {
		item.SetFailed(message)
		logger.Error("processing failed",
			logging.Error(stageErr),
			logging.Int("attempt", item.RetryCount),
			logging.String(logging.FieldEventType, "stage_failure"))
	}

	if err := m.store.Update(ctx, item); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Debug("daemon shutting down, could not persist failure")
		} else {
			logger.Error("failed to persist processing failure", logging.Error(err))
		}
	}
	m.setLastItem(item)
}

func (m *Manager) waitOrShutdown(ctx context.Context, delay time.Duration) {
	if delay <= 0 {
		delay = time.Second
	}
	select {
	case <-ctx.Done():
	case <-time.After(delay):
	}
}
