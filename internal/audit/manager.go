package audit

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"gitlab.ozon.dev/pupkingeorgij/agrimove/internal/metrics"
	"go.uber.org/zap"
)

// Manager batches audit entries and hands every batch to a Sink from a
// pool of workers.
type Manager struct {
	workerCount int
	batchSize   int
	timeout     time.Duration

	sink   Sink
	logger *zap.Logger

	inputChan  chan Entry
	batchChan  chan []Entry
	shutdownCh chan struct{}
	once       sync.Once

	// intakeMu orders LogEntry sends before the close of shutdownCh.
	intakeMu sync.RWMutex
	closed   bool

	wg           sync.WaitGroup
	pendingMu    sync.Mutex
	pendingCount int
}

func NewManager(workerCount, batchSize int, timeout time.Duration, sink Sink, logger *zap.Logger) *Manager {
	return &Manager{
		workerCount: workerCount,
		batchSize:   batchSize,
		timeout:     timeout,
		sink:        sink,
		logger:      logger.With(zap.String("component", "audit"), zap.String("sink", sink.Name())),
		inputChan:   make(chan Entry, workerCount*batchSize*2),
		batchChan:   make(chan []Entry, workerCount*2),
		shutdownCh:  make(chan struct{}),
	}
}

func (m *Manager) Start(ctx context.Context) {
	m.logger.Info("Starting audit manager", zap.Int("workers", m.workerCount), zap.Int("batch_size", m.batchSize))
	m.wg.Add(1)
	go m.runAggregator()

	for i := 0; i < m.workerCount; i++ {
		m.wg.Add(1)
		go m.runWorker(i)
	}

	go m.monitorShutdown(ctx)
}

// Shutdown stops intake, flushes what was already queued and waits for the
// workers until ctx is done.
func (m *Manager) Shutdown(ctx context.Context) {
	m.once.Do(func() {
		m.logger.Info("Initiating audit manager shutdown")
		m.intakeMu.Lock()
		m.closed = true
		close(m.shutdownCh)
		m.intakeMu.Unlock()

		done := make(chan struct{})
		go func() {
			m.wg.Wait()
			close(done)
		}()

		select {
		case <-done:
			m.logger.Info("Audit manager shutdown completed")
		case <-ctx.Done():
			m.logger.Warn("Audit manager shutdown interrupted")
		}
	})
}

func (m *Manager) monitorShutdown(ctx context.Context) {
	select {
	case <-ctx.Done():
		m.logger.Debug("Context cancellation detected")
		m.Shutdown(context.Background())
	case <-m.shutdownCh:
	}
}

// LogEntry queues an entry. When the caller's context is gone or the manager
// is shutting down the entry is written to the log instead.
func (m *Manager) LogEntry(ctx context.Context, entry Entry) {
	m.updatePendingCount(1)

	m.intakeMu.RLock()
	defer m.intakeMu.RUnlock()

	if m.closed {
		m.emergencyLog(entry)
		return
	}

	select {
	case m.inputChan <- entry:
	case <-ctx.Done():
		m.emergencyLog(entry)
	}
}

// Pending reports entries accepted by LogEntry that no sink has seen yet.
func (m *Manager) Pending() int {
	m.pendingMu.Lock()
	defer m.pendingMu.Unlock()
	return m.pendingCount
}

// runAggregator only stops on shutdown so that every accepted entry is
// drained; monitorShutdown turns ctx cancellation into a shutdown.
func (m *Manager) runAggregator() {
	defer m.wg.Done()

	var (
		batch    []Entry
		timer    *time.Timer
		timeoutC <-chan time.Time
	)

	defer func() {
		if timer != nil {
			timer.Stop()
		}
		batch = m.drainInput(batch)
		if len(batch) > 0 {
			m.dispatchBatch(batch)
		}
		close(m.batchChan)
	}()

	for {
		select {
		case entry := <-m.inputChan:
			batch = append(batch, entry)
			if len(batch) >= m.batchSize {
				m.dispatchBatch(batch)
				batch = nil
				timeoutC = nil
			} else if len(batch) == 1 {
				if timer != nil {
					timer.Stop()
				}
				timer = time.NewTimer(m.timeout)
				timeoutC = timer.C
			}

		case <-timeoutC:
			m.dispatchBatch(batch)
			batch = nil
			timeoutC = nil

		case <-m.shutdownCh:
			return
		}
	}
}

func (m *Manager) drainInput(batch []Entry) []Entry {
	for {
		select {
		case entry := <-m.inputChan:
			batch = append(batch, entry)
		default:
			return batch
		}
	}
}

func (m *Manager) dispatchBatch(batch []Entry) {
	batchCopy := make([]Entry, len(batch))
	copy(batchCopy, batch)

	select {
	case m.batchChan <- batchCopy:
	default:
		m.writeBatch(-1, batchCopy)
	}
}

func (m *Manager) runWorker(id int) {
	defer m.wg.Done()
	m.logger.Debug("Worker started", zap.Int("worker", id))

	for batch := range m.batchChan {
		m.writeBatch(id, batch)
	}
	m.logger.Debug("Worker exiting", zap.Int("worker", id))
}

func (m *Manager) writeBatch(workerID int, batch []Entry) {
	defer m.updatePendingCount(-len(batch))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := m.sink.Write(ctx, batch); err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("audit_flush").Inc()
		m.logger.Error("Failed to write audit batch",
			zap.Int("worker", workerID),
			zap.Int("entries", len(batch)),
			zap.Error(err),
		)
		for _, entry := range batch {
			m.logEntryFields(entry)
		}
		return
	}
	metrics.AuditEntriesTotal.WithLabelValues(m.sink.Name()).Add(float64(len(batch)))
}

func (m *Manager) emergencyLog(entry Entry) {
	defer m.updatePendingCount(-1)
	m.logEntryFields(entry)
}

func (m *Manager) logEntryFields(entry Entry) {
	entryJSON, err := json.Marshal(entry)
	if err != nil {
		m.logger.Error("Failed to marshal audit entry", zap.Error(err))
		return
	}
	m.logger.Warn("Unsent audit entry", zap.String("entry", string(entryJSON)))
}

func (m *Manager) updatePendingCount(delta int) {
	m.pendingMu.Lock()
	defer m.pendingMu.Unlock()
	m.pendingCount += delta
}
