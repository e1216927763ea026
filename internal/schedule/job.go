package schedule

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	// QueueScheduling is the queue consumed by the schedule-generation worker
	QueueScheduling = "scheduling"

	// JobGenerate is the job name for a schedule-generation run
	JobGenerate = "generate"
)

// GenerationRequest is the payload of one schedule-generation job.
type GenerationRequest struct {
	TenantID  string `json:"tenant_id"`
	WeekStart string `json:"week_start"`
}

// Validate checks the request fields that must be present before any
// queue write happens.
func (r GenerationRequest) Validate() error {
	if r.TenantID == "" {
		return fmt.Errorf("%w: tenant_id is required", ErrInvalidJob)
	}
	if r.WeekStart == "" {
		return fmt.Errorf("%w: week_start is required", ErrInvalidJob)
	}
	return nil
}

// Job is the wire envelope stored in the work queue. The queue is the sole
// owner of the job from enqueue until a worker acks or nacks the delivery.
type Job struct {
	JobID      string          `json:"job_id"`
	QueueName  string          `json:"queue_name"`
	JobName    string          `json:"job_name"`
	Payload    json.RawMessage `json:"payload"`
	EnqueuedAt time.Time       `json:"enqueued_at"`
}
