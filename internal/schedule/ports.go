package schedule

import (
	"context"
	"time"
)

// EnqueueOptions carries the optional start delay and recurrence rule for
// an enqueue call.
type EnqueueOptions struct {
	// Delay defers visibility of the job to consumers
	Delay time.Duration

	// Repeat is a standard 5-field cron expression; when set, a fresh job
	// with the same payload is enqueued on every firing
	Repeat string
}

// Queue is the durable work-queue port. Enqueue returns a jobID unique
// within the queue's namespace before any processing has started; the call
// never blocks on worker availability.
type Queue interface {
	Enqueue(ctx context.Context, queueName, jobName string, payload any, opts *EnqueueOptions) (string, error)
}

// Broadcaster fans out a named event to all current subscribers of a
// channel. Delivery is best-effort with no replay; a subscriber that
// connects after Publish returns never sees the event.
type Broadcaster interface {
	Publish(ctx context.Context, channel, event string, payload any) error
}

// Subscription is one live attachment to a broadcast channel.
type Subscription interface {
	// Events yields decoded envelopes until the subscription closes
	Events() <-chan Envelope
	Close() error
}

// Subscriber attaches consumers to broadcast channels.
type Subscriber interface {
	Subscribe(ctx context.Context, channel string) (Subscription, error)
}

// Shift is one assignment inside a generated schedule.
type Shift struct {
	StaffID string `json:"staff_id"`
	Day     string `json:"day"`
	StartAt string `json:"start_at"`
	EndAt   string `json:"end_at"`
	Role    string `json:"role"`
}

// OptimizationResult is the output of the shift-planning collaborator.
type OptimizationResult struct {
	Shifts          []Shift  `json:"shifts"`
	Reasoning       string   `json:"reasoning"`
	Recommendations []string `json:"recommendations"`
	TotalLaborCost  float64  `json:"total_labor_cost"`
	TotalHours      float64  `json:"total_hours"`
}

// Optimizer computes shift assignments for one tenant's week. Treated as an
// opaque, potentially slow, fallible call; a failure aborts the pipeline
// like any other step failure.
type Optimizer interface {
	Optimize(ctx context.Context, req GenerationRequest) (*OptimizationResult, error)
}

// Record is the durable schedule row written after the pipeline's last
// computation step.
type Record struct {
	ScheduleID     string
	TenantID       string
	WeekStart      string
	Shifts         []Shift
	TotalLaborCost float64
	TotalHours     float64
	CreatedAt      time.Time
}
