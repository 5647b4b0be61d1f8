package audit

//go:generate mockgen -source=sink.go -destination=mocks/sink.go -package=mock_audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gitlab.ozon.dev/pupkingeorgij/agrimove/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/agrimove/internal/repository"
	"go.uber.org/zap"
)

type Sink interface {
	Name() string
	Write(ctx context.Context, batch []Entry) error
}

// Sender is the part of a broker producer the audit pipeline needs.
type Sender interface {
	SendMessage(ctx context.Context, topic string, key []byte, value []byte) error
}

type OutboxWriter interface {
	CreateTx(ctx context.Context, tx db.Tx, task *repository.OutboxTask) error
}

type LogSink struct {
	logger *zap.Logger
}

func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Name() string { return "log" }

func (s *LogSink) Write(_ context.Context, batch []Entry) error {
	for _, e := range batch {
		s.logger.Info("audit",
			zap.Time("timestamp", e.Timestamp),
			zap.String("source", e.Source),
			zap.String("action", e.Action),
			zap.String("entity_type", e.EntityType),
			zap.String("entity_id", e.EntityID),
			zap.String("actor_id", e.ActorID),
			zap.String("handler", e.Handler),
			zap.Int("status_code", e.StatusCode),
			zap.String("old_status", e.OldStatus),
			zap.String("new_status", e.NewStatus),
		)
	}
	return nil
}

// ProducerSink sends each entry straight to the broker.
type ProducerSink struct {
	sender Sender
	topic  string
}

func NewProducerSink(sender Sender, topic string) *ProducerSink {
	return &ProducerSink{sender: sender, topic: topic}
}

func (s *ProducerSink) Name() string { return "kafka" }

func (s *ProducerSink) Write(ctx context.Context, batch []Entry) error {
	var errs []error
	for _, e := range batch {
		payload, err := json.Marshal(e)
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to marshal audit entry: %w", err))
			continue
		}
		if err := s.sender.SendMessage(ctx, s.topic, []byte(e.Key()), payload); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// OutboxSink stores a batch as outbox tasks in one transaction. The outbox
// publisher delivers them later.
type OutboxSink struct {
	db    db.DB
	repo  OutboxWriter
	topic string
}

func NewOutboxSink(database db.DB, repo OutboxWriter, topic string) *OutboxSink {
	return &OutboxSink{db: database, repo: repo, topic: topic}
}

func (s *OutboxSink) Name() string { return "outbox" }

func (s *OutboxSink) Write(ctx context.Context, batch []Entry) error {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin outbox transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	for _, e := range batch {
		payload, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("failed to marshal audit entry: %w", err)
		}
		task := &repository.OutboxTask{
			Topic:   s.topic,
			Key:     e.Key(),
			Payload: payload,
		}
		if err := s.repo.CreateTx(ctx, tx, task); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit outbox transaction: %w", err)
	}
	return nil
}
