package interaction

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/scizor/server/internal/utils/metrics"
)

const persistTimeout = 5 * time.Second

// Recorder persists interaction records asynchronously so the request path
// never pays for bookkeeping writes. Enqueueing never blocks: when the buffer
// is full the record is dropped and counted, which is acceptable for
// append-only usage history.
type Recorder struct {
	repo    Repository
	queue   chan *Record
	done    chan struct{}
	metrics *metrics.Metrics
	logger  *zap.Logger

	closeOnce sync.Once
}

// NewRecorder creates a recorder with the given buffer size and starts its
// background writer.
func NewRecorder(repo Repository, bufferSize int, m *metrics.Metrics, logger *zap.Logger) *Recorder {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	r := &Recorder{
		repo:    repo,
		queue:   make(chan *Record, bufferSize),
		done:    make(chan struct{}),
		metrics: m,
		logger:  logger,
	}
	go r.run()
	return r
}

// Record enqueues one record without blocking.
func (r *Recorder) Record(record *Record) {
	select {
	case r.queue <- record:
	default:
		r.metrics.RecordInteractionDrop()
		r.logger.Warn("interaction record dropped, buffer full",
			zap.String("user_id", record.UserID),
			zap.String("kind", record.Kind))
	}
}

func (r *Recorder) run() {
	defer close(r.done)
	for record := range r.queue {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		if err := r.repo.Create(ctx, record); err != nil {
			r.logger.Error("failed to persist interaction record",
				zap.String("user_id", record.UserID),
				zap.String("kind", record.Kind),
				zap.Error(err))
		}
		cancel()
	}
}

// Close stops accepting records and blocks until the queue is drained.
func (r *Recorder) Close() {
	r.closeOnce.Do(func() {
		close(r.queue)
	})
	<-r.done
}
