package domain

import "github.com/rosterly/rosterly-be/internal/schedule"

// JobMessage pairs a decoded job envelope with its AMQP delivery tag. The
// worker keeps no other per-job state; the queue owns the job record.
type JobMessage struct {
	Job         schedule.Job
	DeliveryTag uint64
}
