package kafka

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeWriter struct {
	err    error
	calls  int
	got    []kafka.Message
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.calls++
	if w.err != nil {
		return w.err
	}
	w.got = append(w.got, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaProducer_SendMessage(t *testing.T) {
	w := &fakeWriter{}
	p := newKafkaProducer(w, BreakerConfig{MaxFailures: 3, OpenTimeout: time.Minute}, zap.NewNop())

	require.NoError(t, p.SendMessage(context.Background(), "audit_logs", []byte("k"), []byte("v")))
	require.Len(t, w.got, 1)
	assert.Equal(t, "audit_logs", w.got[0].Topic)
	assert.Equal(t, []byte("k"), w.got[0].Key)
	assert.Equal(t, []byte("v"), w.got[0].Value)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaProducer_BreakerOpens(t *testing.T) {
	w := &fakeWriter{err: errors.New("connection refused")}
	p := newKafkaProducer(w, BreakerConfig{MaxFailures: 3, OpenTimeout: time.Minute}, zap.NewNop())

	for i := 0; i < 3; i++ {
		err := p.SendMessage(context.Background(), "t", nil, nil)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrBrokerUnavailable)
	}
	assert.Equal(t, gobreaker.StateOpen, p.State())

	err := p.SendMessage(context.Background(), "t", nil, nil)
	assert.ErrorIs(t, err, ErrBrokerUnavailable)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 3, w.calls)
}

func TestConsoleProducer(t *testing.T) {
	var buf bytes.Buffer
	p := NewConsoleProducer(&buf, zap.NewNop())

	require.NoError(t, p.SendMessage(context.Background(), "audit_logs", []byte("req1"), []byte(`{"x":1}`)))
	assert.Contains(t, buf.String(), "Topic: audit_logs")
	assert.Contains(t, buf.String(), "Key: req1")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, p.SendMessage(ctx, "audit_logs", nil, nil), context.Canceled)
	assert.NoError(t, p.Close())
}
