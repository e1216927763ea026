package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/robfig/cron/v3"

	"github.com/rosterly/rosterly-be/internal/schedule"
)

// Enqueue publishes a job envelope to the work queue and returns its jobID.
// The jobID is assigned here, before any processing starts; the call never
// waits on worker availability. A delay routes the message through the wait
// queue with a per-message TTL; a repeat spec registers a cron firing that
// enqueues a fresh job (with a fresh jobID) on every tick.
func (c *Client) Enqueue(ctx context.Context, queueName, jobName string, payload any, opts *schedule.EnqueueOptions) (string, error) {
	if err := validateEnqueue(queueName, jobName, opts); err != nil {
		return "", err
	}

	if !c.IsConnected() {
		return "", fmt.Errorf("%w: not connected", schedule.ErrQueueUnavailable)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("%w: payload not serializable: %v", schedule.ErrInvalidJob, err)
	}

	var delay time.Duration
	if opts != nil {
		delay = opts.Delay
	}

	jobID := uuid.New().String()
	job := schedule.Job{
		JobID:      jobID,
		QueueName:  queueName,
		JobName:    jobName,
		Payload:    body,
		EnqueuedAt: time.Now().UTC(),
	}

	if err := c.publishJob(ctx, &job, delay); err != nil {
		return "", err
	}

	if opts != nil && opts.Repeat != "" {
		if err := c.scheduleRepeat(opts.Repeat, queueName, jobName, body); err != nil {
			return "", err
		}
	}

	c.logger.Debug("Job enqueued",
		slog.String("job_id", jobID),
		slog.String("queue", queueName),
		slog.String("job_name", jobName),
		slog.Duration("delay", delay),
	)

	return jobID, nil
}

// publishJob publishes one job envelope with retry and linear backoff.
func (c *Client) publishJob(ctx context.Context, job *schedule.Job, delay time.Duration) error {
	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job envelope: %w", err)
	}

	exchange := c.config.JobExchange
	routingKey := job.QueueName
	publishing := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		MessageId:    job.JobID,
		Timestamp:    job.EnqueuedAt,
	}

	if delay > 0 {
		// Publish straight to the wait queue via the default exchange; the
		// TTL expiry dead-letters the message into the work queue.
		exchange = ""
		routingKey = waitQueueName(job.QueueName)
		publishing.Expiration = expirationMillis(delay)
	}

	maxRetries := c.config.PublishRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}

	retryDelay := c.config.PublishRetryDelay
	if retryDelay <= 0 {
		retryDelay = 100 * time.Millisecond
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := c.channel.PublishWithContext(ctx, exchange, routingKey, false, false, publishing)
		if err == nil {
			if attempt > 0 {
				c.logger.Info("Job published after retry",
					slog.String("job_id", job.JobID),
					slog.Int("attempt", attempt+1),
				)
			}
			return nil
		}

		lastErr = err
		if attempt < maxRetries {
			c.logger.Warn("Failed to publish job, retrying...",
				slog.String("job_id", job.JobID),
				slog.Int("attempt", attempt+1),
				slog.Int("max_retries", maxRetries),
				slog.Any("error", err),
			)
			time.Sleep(retryDelay)
		}
	}

	c.logger.Error("Failed to publish job after all retries",
		slog.String("job_id", job.JobID),
		slog.Any("error", lastErr),
	)
	return fmt.Errorf("%w: %v", schedule.ErrQueueUnavailable, lastErr)
}

// scheduleRepeat registers a process-local cron firing that enqueues a
// fresh job on every tick. Schedules do not survive a restart.
func (c *Client) scheduleRepeat(spec, queueName, jobName string, payload json.RawMessage) error {
	c.cronMu.Lock()
	defer c.cronMu.Unlock()

	if c.cronRunner == nil {
		c.cronRunner = cron.New()
		c.cronRunner.Start()
	}

	_, err := c.cronRunner.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		job := schedule.Job{
			JobID:      uuid.New().String(),
			QueueName:  queueName,
			JobName:    jobName,
			Payload:    payload,
			EnqueuedAt: time.Now().UTC(),
		}

		if err := c.publishJob(ctx, &job, 0); err != nil {
			c.logger.Error("Failed to enqueue repeated job",
				slog.String("queue", queueName),
				slog.String("job_name", jobName),
				slog.Any("error", err),
			)
			return
		}

		c.logger.Info("Repeated job enqueued",
			slog.String("job_id", job.JobID),
			slog.String("queue", queueName),
			slog.String("spec", spec),
		)
	})
	if err != nil {
		return fmt.Errorf("%w: bad repeat spec %q: %v", schedule.ErrInvalidJob, spec, err)
	}

	return nil
}

// validateEnqueue checks enqueue arguments before any queue write occurs.
func validateEnqueue(queueName, jobName string, opts *schedule.EnqueueOptions) error {
	if queueName == "" {
		return fmt.Errorf("%w: queue name is required", schedule.ErrInvalidJob)
	}
	if jobName == "" {
		return fmt.Errorf("%w: job name is required", schedule.ErrInvalidJob)
	}
	if opts != nil {
		if opts.Delay < 0 {
			return fmt.Errorf("%w: delay must not be negative", schedule.ErrInvalidJob)
		}
		if opts.Repeat != "" {
			if _, err := cron.ParseStandard(opts.Repeat); err != nil {
				return fmt.Errorf("%w: bad repeat spec %q: %v", schedule.ErrInvalidJob, opts.Repeat, err)
			}
		}
	}
	return nil
}

func expirationMillis(d time.Duration) string {
	return strconv.FormatInt(d.Milliseconds(), 10)
}
