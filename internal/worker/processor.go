package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/rosterly/rosterly-be/internal/schedule"
	"github.com/rosterly/rosterly-be/internal/worker/domain"
)

// processJob runs the generation pipeline for one claimed delivery. The
// job's only state is the queue record plus this stack frame.
func (w *Worker) processJob(ctx context.Context, msg *domain.JobMessage) error {
	w.logger.Info("Processing job",
		slog.String("job_id", msg.Job.JobID),
		slog.String("job_name", msg.Job.JobName),
		slog.String("worker_id", w.workerID),
	)

	if msg.Job.JobName != schedule.JobGenerate {
		return fmt.Errorf("%w: unknown job name %q", domain.ErrInvalidPayload, msg.Job.JobName)
	}

	var req schedule.GenerationRequest
	if err := json.Unmarshal(msg.Job.Payload, &req); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidPayload, err)
	}

	if err := req.Validate(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidPayload, err)
	}

	jobCtx, cancel := context.WithTimeout(ctx, w.jobTimeout)
	defer cancel()

	if err := w.pipeline.Run(jobCtx, req); err != nil {
		return fmt.Errorf("job %s: %w", msg.Job.JobID, err)
	}

	w.logger.Info("Job pipeline finished",
		slog.String("job_id", msg.Job.JobID),
		slog.String("tenant_id", req.TenantID),
		slog.String("week_start", req.WeekStart),
	)

	return nil
}
