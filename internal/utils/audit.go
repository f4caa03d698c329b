package utils

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/nova-solidum/app-onboarding/internal/logging"
	"github.com/nova-solidum/app-onboarding/internal/observability"
	"go.uber.org/zap"
)

// Audit constants
const (
	AuditActionRead   = "READ"
	AuditActionUpdate = "UPDATE"

	AuditResourceRegistration = "registration"
	AuditResourceCNPJLookup   = "cnpj_lookup"
)

var (
	ErrAuditWorkerStopped = errors.New("audit worker stopped")
	ErrAuditBufferFull    = errors.New("audit buffer full, entry dropped")
)

// AuditContext carries who performed an audited action and from where
type AuditContext struct {
	UserID    string
	UserEmail string
	IPAddress string
	UserAgent string
	RequestID string
}

// AuditQueue accepts audit entries for asynchronous persistence
type AuditQueue[T any] interface {
	Enqueue(ctx context.Context, entry T) error
}

// BatchSink persists a batch of audit entries
type BatchSink[T any] interface {
	WriteBatch(ctx context.Context, batch []T) error
}

// BatchSinkFunc adapts a function to BatchSink
type BatchSinkFunc[T any] func(ctx context.Context, batch []T) error

func (f BatchSinkFunc[T]) WriteBatch(ctx context.Context, batch []T) error {
	return f(ctx, batch)
}

// AuditWorker buffers audit entries on a channel and flushes them in batches
// from a small worker pool. Enqueue never blocks: a full buffer drops the entry.
// Buffer depth and drops are exported as Prometheus metrics per stream.
type AuditWorker[T any] struct {
	name          string
	sink          BatchSink[T]
	auditChan     chan T
	workers       int
	batchSize     int
	flushInterval time.Duration
	writeTimeout  time.Duration
	logger        *logging.SafeLogger

	wg      sync.WaitGroup
	mu      sync.RWMutex
	stopped bool
}

// NewAuditWorker creates a worker. Call Start before enqueueing.
func NewAuditWorker[T any](name string, sink BatchSink[T], workers, bufferSize int, logger *logging.SafeLogger) *AuditWorker[T] {
	if workers <= 0 {
		workers = 1
	}
	if bufferSize <= 0 {
		bufferSize = 100
	}
	observability.AuditQueueCapacity.WithLabelValues(name).Set(float64(bufferSize))
	return &AuditWorker[T]{
		name:          name,
		sink:          sink,
		auditChan:     make(chan T, bufferSize),
		workers:       workers,
		batchSize:     100,
		flushInterval: 100 * time.Millisecond,
		writeTimeout:  5 * time.Second,
		logger:        logger.With(zap.String("audit_stream", name)),
	}
}

// Start starts the worker pool
func (aw *AuditWorker[T]) Start() {
	aw.wg.Add(aw.workers)
	for i := 0; i < aw.workers; i++ {
		go func() {
			defer aw.wg.Done()
			aw.processAuditLogs()
		}()
	}

	aw.logger.Info("audit worker started",
		zap.Int("workers", aw.workers),
		zap.Int("buffer_size", cap(aw.auditChan)))
}

// processAuditLogs drains the channel, flushing every batchSize entries or flushInterval
func (aw *AuditWorker[T]) processAuditLogs() {
	ticker := time.NewTicker(aw.flushInterval)
	defer ticker.Stop()

	batch := make([]T, 0, aw.batchSize)
	for {
		select {
		case entry, ok := <-aw.auditChan:
			if !ok {
				if len(batch) > 0 {
					aw.flushBatch(batch)
				}
				return
			}
			batch = append(batch, entry)
			if len(batch) >= aw.batchSize {
				aw.flushBatch(batch)
				batch = make([]T, 0, aw.batchSize)
			}
		case <-ticker.C:
			aw.reportDepth()
			if len(batch) > 0 {
				aw.flushBatch(batch)
				batch = make([]T, 0, aw.batchSize)
			}
		}
	}
}

// flushBatch writes one batch. Failures are logged and the batch is dropped.
func (aw *AuditWorker[T]) flushBatch(batch []T) {
	ctx, cancel := context.WithTimeout(context.Background(), aw.writeTimeout)
	defer cancel()

	if err := aw.sink.WriteBatch(ctx, batch); err != nil {
		aw.logger.Error("failed to write audit batch",
			zap.Error(err),
			zap.Int("batch_size", len(batch)))
		return
	}

	aw.logger.Debug("audit batch written", zap.Int("batch_size", len(batch)))
}

// Enqueue hands an entry to the pool. When the buffer is full the entry is
// dropped, counted and ErrAuditBufferFull is returned.
func (aw *AuditWorker[T]) Enqueue(ctx context.Context, entry T) error {
	aw.mu.RLock()
	defer aw.mu.RUnlock()

	if aw.stopped {
		return ErrAuditWorkerStopped
	}

	select {
	case aw.auditChan <- entry:
		aw.reportDepth()
		return nil
	default:
		observability.AuditEntriesDropped.WithLabelValues(aw.name).Inc()
		return ErrAuditBufferFull
	}
}

func (aw *AuditWorker[T]) reportDepth() {
	observability.AuditQueueDepth.WithLabelValues(aw.name).Set(float64(len(aw.auditChan)))
}

// Stop flushes buffered entries and waits for the workers to exit
func (aw *AuditWorker[T]) Stop() {
	if aw == nil {
		return
	}
	aw.mu.Lock()
	if aw.stopped {
		aw.mu.Unlock()
		return
	}
	aw.stopped = true
	close(aw.auditChan)
	aw.mu.Unlock()

	aw.wg.Wait()
	aw.reportDepth()
	aw.logger.Info("audit worker stopped")
}

// SanitizeAuditData returns a JSON-shaped copy of data with sensitive keys redacted
func SanitizeAuditData(data interface{}) interface{} {
	if data == nil {
		return nil
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return data
	}

	var sanitized interface{}
	if err := json.Unmarshal(jsonData, &sanitized); err != nil {
		return data
	}

	sanitizeMap(sanitized)
	return sanitized
}

// sanitizeMap recursively redacts sensitive fields
func sanitizeMap(data interface{}) {
	switch v := data.(type) {
	case map[string]interface{}:
		for _, field := range []string{"password", "token", "secret", "key"} {
			if _, exists := v[field]; exists {
				v[field] = "[REDACTED]"
			}
		}
		for _, value := range v {
			sanitizeMap(value)
		}
	case []interface{}:
		for _, item := range v {
			sanitizeMap(item)
		}
	}
}
