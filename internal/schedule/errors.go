package schedule

import "errors"

var (
	// ErrInvalidJob is returned when an enqueue request is malformed
	// (empty queue/job name, empty tenant or week, bad repeat spec)
	ErrInvalidJob = errors.New("invalid job")

	// ErrQueueUnavailable is returned when the durable queue transport
	// cannot be reached at enqueue time
	ErrQueueUnavailable = errors.New("queue unavailable")

	// ErrBroadcastUnavailable is returned when the broadcast transport
	// cannot be reached; progress reporting is advisory, so the worker
	// logs and continues on this error
	ErrBroadcastUnavailable = errors.New("broadcast unavailable")

	// ErrScheduleNotFound is returned when a schedule record does not exist
	ErrScheduleNotFound = errors.New("schedule not found")
)
