package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rosterly/rosterly-be/internal/schedule"
	"github.com/rosterly/rosterly-be/internal/worker/domain"
	"github.com/rosterly/rosterly-be/shared/rabbitmq"
)

// Config holds worker configuration
type Config struct {
	Logger        *slog.Logger
	RabbitClient  *rabbitmq.Client
	Store         ScheduleStore
	Optimizer     schedule.Optimizer
	Concurrency   int
	PrefetchCount int
	JobTimeout    time.Duration
	StepDelay     time.Duration
}

// Worker consumes the scheduling queue and runs the generation pipeline.
// Handler invocations for different jobs may run concurrently; the queue
// guarantees a single delivery is never handed to two handlers at once.
type Worker struct {
	logger       *slog.Logger
	rabbitClient *rabbitmq.Client
	pipeline     *Pipeline
	concurrency  int
	prefetch     int
	jobTimeout   time.Duration
	workerID     string
	jobsChan     chan *domain.JobMessage
	wg           sync.WaitGroup
	stopChan     chan struct{}
}

// NewWorker creates a new worker instance
func NewWorker(cfg *Config) *Worker {
	workerID := "worker-" + uuid.New().String()[:8]

	return &Worker{
		logger:       cfg.Logger,
		rabbitClient: cfg.RabbitClient,
		pipeline:     NewPipeline(cfg.RabbitClient, cfg.Store, cfg.Optimizer, cfg.StepDelay, cfg.Logger),
		concurrency:  cfg.Concurrency,
		prefetch:     cfg.PrefetchCount,
		jobTimeout:   cfg.JobTimeout,
		workerID:     workerID,
		jobsChan:     make(chan *domain.JobMessage, cfg.Concurrency),
		stopChan:     make(chan struct{}),
	}
}

// Start begins consuming and processing jobs; it blocks until ctx ends.
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info("Starting worker",
		slog.String("worker_id", w.workerID),
		slog.Int("concurrency", w.concurrency),
		slog.Duration("job_timeout", w.jobTimeout),
	)

	deliveries, err := w.setupConsumer()
	if err != nil {
		return fmt.Errorf("failed to set up consumer: %w", err)
	}

	w.spawnWorkerPool(ctx)

	go w.startMessageDispatcher(ctx, deliveries)

	<-ctx.Done()
	w.logger.Info("Worker context canceled, stopping...")

	return nil
}

// Stop gracefully stops the worker pool
func (w *Worker) Stop() {
	w.logger.Info("Stopping worker...")
	close(w.stopChan)
	w.wg.Wait()
	w.logger.Info("Worker stopped")
}
