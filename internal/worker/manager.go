package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/andy11223386/akashicConnect/internal/queue"
)

const (
	// DefaultWorkerCount is the default number of worker goroutines
	DefaultWorkerCount = 2

	// DefaultBatchSize is the number of messages to read per batch
	DefaultBatchSize = 10

	// DefaultBlockTimeout is how long to block waiting for new messages
	DefaultBlockTimeout = 5 * time.Second

	readErrorBackoff = time.Second
)

// EventHandler processes one event. *Handler is the production implementation.
type EventHandler interface {
	HandleEvent(ctx context.Context, event queue.EngagementEvent) error
}

// Manager orchestrates worker goroutines that consume from the engagement stream.
type Manager struct {
	consumer    queue.Consumer
	handler     EventHandler
	stream      string
	group       string
	workerCount int
	batchSize   int64
	blockTime   time.Duration

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// ManagerConfig holds configuration for the worker manager.
type ManagerConfig struct {
	WorkerCount  int           // Number of worker goroutines
	BatchSize    int64         // Messages per read
	BlockTimeout time.Duration // Block time for XREADGROUP
}

// DefaultManagerConfig returns sensible defaults.
func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		WorkerCount:  DefaultWorkerCount,
		BatchSize:    DefaultBatchSize,
		BlockTimeout: DefaultBlockTimeout,
	}
}

// NewManager creates a new worker manager.
func NewManager(consumer queue.Consumer, handler EventHandler, cfg ManagerConfig) *Manager {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = DefaultWorkerCount
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.BlockTimeout <= 0 {
		cfg.BlockTimeout = DefaultBlockTimeout
	}

	return &Manager{
		consumer:    consumer,
		handler:     handler,
		stream:      queue.StreamEngagement,
		group:       queue.ConsumerGroupEngagement,
		workerCount: cfg.WorkerCount,
		batchSize:   cfg.BatchSize,
		blockTime:   cfg.BlockTimeout,
	}
}

// Start ensures the consumer group exists and launches the workers.
// Call Stop to shut them down.
func (m *Manager) Start(ctx context.Context) error {
	m.ctx, m.cancel = context.WithCancel(ctx)

	if err := m.consumer.EnsureGroup(m.ctx, m.stream, m.group); err != nil {
		m.cancel()
		return err
	}

	for i := 1; i <= m.workerCount; i++ {
		m.wg.Add(1)
		go m.runWorker(i, consumerNameForWorker(i))
	}

	log.Info().Str("component", "Manager").Int("workers", m.workerCount).
		Str("stream", m.stream).Str("group", m.group).Msg("workers started")
	return nil
}

// Stop cancels the workers and blocks until all of them have returned.
func (m *Manager) Stop() {
	if m.cancel == nil {
		return
	}
	m.cancel()
	m.wg.Wait()
	log.Info().Str("component", "Manager").Msg("all workers stopped")
}

func (m *Manager) runWorker(workerID int, consumerName string) {
	defer m.wg.Done()

	logger := log.With().Str("component", "Worker").Int("worker", workerID).Logger()
	logger.Debug().Str("consumer", consumerName).Msg("started")

	// Replay messages this consumer received but never acked before a restart.
	m.processPending(workerID, consumerName)

	for {
		select {
		case <-m.ctx.Done():
			logger.Debug().Msg("shutting down")
			return
		default:
			m.processMessages(workerID, consumerName)
		}
	}
}

func (m *Manager) processPending(workerID int, consumerName string) {
	for m.ctx.Err() == nil {
		messages, err := m.consumer.ReadPending(m.ctx, m.stream, m.group, consumerName, m.batchSize)
		if err != nil {
			log.Error().Str("component", "Worker").Int("worker", workerID).Err(err).Msg("read pending failed")
			return
		}
		if len(messages) == 0 {
			return
		}
		m.handleMessages(workerID, messages)
	}
}

func (m *Manager) processMessages(workerID int, consumerName string) {
	messages, err := m.consumer.Read(m.ctx, m.stream, m.group, consumerName, m.batchSize, m.blockTime)
	if err != nil {
		if m.ctx.Err() != nil {
			return
		}
		log.Error().Str("component", "Worker").Int("worker", workerID).Err(err).Msg("read failed")
		select {
		case <-time.After(readErrorBackoff):
		case <-m.ctx.Done():
		}
		return
	}

	m.handleMessages(workerID, messages)
}

// handleMessages acks every message, including ones whose handler failed, so
// a poison event cannot block the stream.
func (m *Manager) handleMessages(workerID int, messages []queue.Message) {
	for _, msg := range messages {
		if err := m.handler.HandleEvent(m.ctx, msg.Event); err != nil {
			log.Error().Str("component", "Worker").Int("worker", workerID).Str("msgID", msg.ID).
				Str("type", msg.Event.Type).Err(err).Msg("handler failed")
		}

		if err := m.consumer.Ack(m.ctx, m.stream, m.group, msg.ID); err != nil {
			log.Error().Str("component", "Worker").Int("worker", workerID).Str("msgID", msg.ID).Err(err).Msg("ack failed")
		}
	}
}

func consumerNameForWorker(workerID int) string {
	return fmt.Sprintf("worker-%d", workerID)
}
