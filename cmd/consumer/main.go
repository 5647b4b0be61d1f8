package main

import (
	"context"
	"encoding/json"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/agrimove/internal/audit"
	"gitlab.ozon.dev/pupkingeorgij/agrimove/internal/config"
	"gitlab.ozon.dev/pupkingeorgij/agrimove/internal/logger"
)

// Tails the audit topic and prints every entry.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	l := logger.New(cfg.LogLevel).With(zap.String("component", "audit_consumer"))
	defer func() { _ = l.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.KafkaBrokers,
		GroupID:        cfg.KafkaGroupID,
		Topic:          cfg.KafkaTopic,
		MinBytes:       10e3,
		MaxBytes:       10e6,
		CommitInterval: time.Second,
		MaxWait:        3 * time.Second,
	})
	defer func() {
		l.Info("Closing Kafka reader")
		if err := r.Close(); err != nil {
			l.Error("Failed to close Kafka reader", zap.Error(err))
		}
	}()

	l.Info("Consumer connected", zap.String("topic", cfg.KafkaTopic), zap.Strings("brokers", cfg.KafkaBrokers))

	for {
		m, err := r.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				l.Info("Shutdown signal received, stopping consumer")
				return
			}
			l.Error("Failed to read message", zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(5 * time.Second):
			}
			continue
		}

		var entry audit.Entry
		if err := json.Unmarshal(m.Value, &entry); err != nil {
			l.Warn("Skipping malformed audit entry",
				zap.Int64("offset", m.Offset),
				zap.ByteString("value", m.Value),
				zap.Error(err),
			)
			continue
		}

		l.Info("Audit entry",
			zap.Time("timestamp", entry.Timestamp),
			zap.Int("partition", m.Partition),
			zap.Int64("offset", m.Offset),
			zap.String("key", string(m.Key)),
			zap.String("source", entry.Source),
			zap.String("action", entry.Action),
			zap.String("entity_type", entry.EntityType),
			zap.String("entity_id", entry.EntityID),
			zap.String("actor_id", entry.ActorID),
			zap.Int("status_code", entry.StatusCode),
			zap.String("old_status", entry.OldStatus),
			zap.String("new_status", entry.NewStatus),
		)
	}
}
