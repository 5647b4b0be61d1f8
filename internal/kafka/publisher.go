package kafka

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"gitlab.ozon.dev/pupkingeorgij/agrimove/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/agrimove/internal/metrics"
	"gitlab.ozon.dev/pupkingeorgij/agrimove/internal/repository"
	"go.uber.org/zap"
)

var errPublisherStopped = errors.New("publisher shutdown during batch processing")

type PublisherConfig struct {
	PollInterval time.Duration
	BatchSize    int
	MaxAttempts  int
}

// Publisher moves outbox tasks to the broker. Tasks are claimed as
// PROCESSING in one transaction and then sent one by one; each ends DONE or
// FAILED with its attempt count raised. Tasks left unsent when the publisher
// stops mid-batch go back to CREATED.
type Publisher struct {
	db       db.DB
	repo     repository.OutboxTaskRepository
	producer Producer
	config   PublisherConfig
	logger   *zap.Logger
	timeNow  func() time.Time

	wg             sync.WaitGroup
	shutdownSignal chan struct{}
	stopOnce       sync.Once
}

func NewPublisher(database db.DB, repo repository.OutboxTaskRepository, producer Producer, config PublisherConfig, logger *zap.Logger) *Publisher {
	return &Publisher{
		db:             database,
		repo:           repo,
		producer:       producer,
		config:         config,
		logger:         logger.With(zap.String("component", "outbox_publisher")),
		timeNow:        time.Now,
		shutdownSignal: make(chan struct{}),
	}
}

// Run polls until ctx is cancelled or Shutdown is called.
func (p *Publisher) Run(ctx context.Context) {
	p.logger.Info("Starting outbox publisher", zap.Duration("poll_interval", p.config.PollInterval))
	p.wg.Add(1)
	defer p.wg.Done()

	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := p.processBatch(ctx); err != nil {
				metrics.OperationErrorsTotal.WithLabelValues("outbox_publish").Inc()
				p.logger.Error("Failed to process outbox batch", zap.Error(err))
			}
		case <-p.shutdownSignal:
			p.logger.Info("Outbox publisher received shutdown signal, stopping")
			return
		case <-ctx.Done():
			p.logger.Info("Outbox publisher context cancelled, stopping")
			return
		}
	}
}

func (p *Publisher) Shutdown(ctx context.Context) {
	p.stopOnce.Do(func() {
		p.logger.Info("Initiating outbox publisher shutdown")
		close(p.shutdownSignal)

		done := make(chan struct{})
		go func() {
			p.wg.Wait()
			close(done)
		}()
		select {
		case <-done:
			p.logger.Info("Outbox publisher shutdown complete")
		case <-ctx.Done():
			p.logger.Warn("Outbox publisher shutdown timed out")
		}

		if err := p.producer.Close(); err != nil {
			p.logger.Error("Failed to close producer", zap.Error(err))
		}
	})
}

func (p *Publisher) processBatch(ctx context.Context) error {
	tx, err := p.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for fetching tasks: %w", err)
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	tasks, err := p.repo.GetProcessableTasks(ctx, tx, p.config.BatchSize, p.config.MaxAttempts)
	if err != nil {
		return fmt.Errorf("failed to get processable tasks: %w", err)
	}

	if len(tasks) == 0 {
		return tx.Commit(ctx)
	}

	p.logger.Debug("Fetched outbox tasks", zap.Int("count", len(tasks)))

	for _, task := range tasks {
		err := p.repo.UpdateTaskStatusTx(ctx, tx, task.ID, repository.TaskStatusProcessing, task.Attempts, nil, nil)
		if err != nil {
			return fmt.Errorf("failed to mark task %s as PROCESSING: %w", task.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction after marking tasks as PROCESSING: %w", err)
	}

	for i, task := range tasks {
		select {
		case <-p.shutdownSignal:
			p.logger.Warn("Shutdown during batch processing", zap.Stringer("task_id", task.ID))
			return errors.Join(errPublisherStopped, p.release(ctx, tasks[i:]))
		case <-ctx.Done():
			return errors.Join(ctx.Err(), p.release(ctx, tasks[i:]))
		default:
		}

		if err := p.processSingleTask(ctx, task); err != nil {
			p.logger.Error("Failed to process task", zap.Stringer("task_id", task.ID), zap.Error(err))
		}
	}

	return nil
}

// release hands claimed but unsent tasks back to the next poll.
func (p *Publisher) release(ctx context.Context, tasks []*repository.OutboxTask) error {
	ctx = context.WithoutCancel(ctx)
	var errs []error
	for _, task := range tasks {
		if err := p.repo.UpdateTaskStatus(ctx, p.db, task.ID, repository.TaskStatusCreated, task.Attempts, task.LastError, nil); err != nil {
			errs = append(errs, fmt.Errorf("failed to release task %s: %w", task.ID, err))
		}
	}
	if len(errs) == 0 {
		p.logger.Info("Released unsent outbox tasks", zap.Int("count", len(tasks)))
	}
	return errors.Join(errs...)
}

func (p *Publisher) processSingleTask(ctx context.Context, task *repository.OutboxTask) error {
	key := []byte(task.Key)
	if len(key) == 0 {
		key = []byte(task.ID.String())
	}

	sendErr := p.producer.SendMessage(ctx, task.Topic, key, task.Payload)

	// The outcome is recorded even when ctx was cancelled during the send.
	ctx = context.WithoutCancel(ctx)
	if sendErr != nil {
		attempts := task.Attempts + 1
		errMsg := sendErr.Error()

		if attempts >= p.config.MaxAttempts {
			p.logger.Warn("Task reached max attempts, marking as FAILED permanently",
				zap.Stringer("task_id", task.ID),
				zap.Int("attempts", attempts),
			)
		}

		if updateErr := p.repo.UpdateTaskStatus(ctx, p.db, task.ID, repository.TaskStatusFailed, attempts, &errMsg, nil); updateErr != nil {
			return fmt.Errorf("failed to update task status after send failure: %w (send error: %w)", updateErr, sendErr)
		}
		return sendErr
	}

	now := p.timeNow().UTC()
	if err := p.repo.UpdateTaskStatus(ctx, p.db, task.ID, repository.TaskStatusDone, task.Attempts, nil, &now); err != nil {
		return fmt.Errorf("failed to update task status after successful send: %w", err)
	}
	return nil
}
