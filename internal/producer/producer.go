// Package producer translates validated generation requests into exactly
// one enqueue call on the scheduling queue.
package producer

import (
	"context"
	"log/slog"

	"github.com/rosterly/rosterly-be/internal/schedule"
)

// Producer hands generation requests to the work queue. It holds no state
// between requests and never awaits job execution.
type Producer struct {
	queue  schedule.Queue
	logger *slog.Logger
}

// New creates a Producer over the given queue port.
func New(queue schedule.Queue, logger *slog.Logger) *Producer {
	return &Producer{
		queue:  queue,
		logger: logger,
	}
}

// Submit validates the request, enqueues one generation job, and returns
// the jobID as soon as the enqueue resolves. Validation failures surface
// as schedule.ErrInvalidJob before any queue write happens.
func (p *Producer) Submit(ctx context.Context, req schedule.GenerationRequest, opts *schedule.EnqueueOptions) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	jobID, err := p.queue.Enqueue(ctx, schedule.QueueScheduling, schedule.JobGenerate, req, opts)
	if err != nil {
		p.logger.Error("Failed to enqueue generation job",
			slog.String("tenant_id", req.TenantID),
			slog.String("week_start", req.WeekStart),
			slog.Any("error", err),
		)
		return "", err
	}

	p.logger.Info("Generation job enqueued",
		slog.String("job_id", jobID),
		slog.String("tenant_id", req.TenantID),
		slog.String("week_start", req.WeekStart),
	)

	return jobID, nil
}
