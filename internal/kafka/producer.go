package kafka

//go:generate mockgen -source=producer.go -destination=mocks/producer.go -package=mock_kafka

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"
)

type Producer interface {
	SendMessage(ctx context.Context, topic string, key []byte, value []byte) error
	Close() error
}

// ConsoleProducer writes messages to out instead of a broker. It backs the
// kafka audit sink when no broker is configured.
type ConsoleProducer struct {
	out    io.Writer
	logger *zap.Logger
}

func NewConsoleProducer(out io.Writer, logger *zap.Logger) *ConsoleProducer {
	logger.Info("Initialized console producer")
	return &ConsoleProducer{out: out, logger: logger}
}

func (p *ConsoleProducer) SendMessage(ctx context.Context, topic string, key []byte, value []byte) error {
	if err := ctx.Err(); err != nil {
		p.logger.Warn("Console producer send cancelled", zap.String("topic", topic), zap.ByteString("key", key))
		return err
	}

	_, err := fmt.Fprintf(p.out, "--- BROKER (CONSOLE) ---\nTopic: %s\nKey: %s\nValue: %s\n--- END ---\n", topic, key, value)
	return err
}

func (p *ConsoleProducer) Close() error {
	p.logger.Info("Closing console producer")
	return nil
}
