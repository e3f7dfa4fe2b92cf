// Package worker implements the background persistence queue for
// classification records. Persistence is detached from the request path:
// the handler responds first, the worker writes later.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/avdeyev/burnscan/internal/models"
	"go.uber.org/zap"
)

// ClassificationWriter is the persistence operation the worker needs.
type ClassificationWriter interface {
	Insert(ctx context.Context, c models.Classification) (int64, error)
}

// Persister consumes a bounded queue of classification records and writes
// them to the store. Writes are best effort: a failure is logged and the
// record is dropped, never retried and never surfaced to the caller.
type Persister struct {
	repo         ClassificationWriter
	log          *zap.Logger
	tasks        chan models.Classification
	writeTimeout time.Duration

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

// NewPersister constructs a Persister with the given queue capacity.
func NewPersister(repo ClassificationWriter, queueSize int, log *zap.Logger) *Persister {
	return &Persister{
		repo:         repo,
		log:          log,
		tasks:        make(chan models.Classification, queueSize),
		writeTimeout: 10 * time.Second,
		done:         make(chan struct{}),
	}
}

// Start launches the worker goroutine. The worker runs until Close is
// called; ctx only bounds individual writes indirectly through the write
// timeout, keeping in-flight persistence detached from any request context.
func (p *Persister) Start() {
	go func() {
		defer close(p.done)
		for rec := range p.tasks {
			p.persist(rec)
		}
	}()
}

// Enqueue schedules a record for background persistence. It never blocks:
// when the queue is full the record is dropped with an error log.
func (p *Persister) Enqueue(rec models.Classification) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		p.log.Error("persistence queue closed, dropping classification",
			zap.Int64("user_id", rec.UserID),
			zap.String("image_name", rec.ImageName),
		)
		return
	}
	select {
	case p.tasks <- rec:
	default:
		p.log.Error("persistence queue full, dropping classification",
			zap.Int64("user_id", rec.UserID),
			zap.String("image_name", rec.ImageName),
		)
	}
}

// Close stops intake, waits for queued records to drain, and stops the
// worker.
func (p *Persister) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()
	<-p.done
}

func (p *Persister) persist(rec models.Classification) {
	ctx, cancel := context.WithTimeout(context.Background(), p.writeTimeout)
	defer cancel()

	id, err := p.repo.Insert(ctx, rec)
	if err != nil {
		p.log.Error("failed to persist classification",
			zap.Int64("user_id", rec.UserID),
			zap.String("image_name", rec.ImageName),
			zap.Error(err),
		)
		return
	}
	p.log.Info("classification persisted",
		zap.Int64("id", id),
		zap.Int64("user_id", rec.UserID),
		zap.String("predicted_class", rec.PredictedClass),
	)
}
