package schedule

import "encoding/json"

// Event names emitted on a schedule channel. No other names are emitted.
const (
	EventProgress = "progress"
	EventComplete = "complete"
)

// ProgressEvent announces completion of one pipeline step. Ephemeral,
// never persisted.
type ProgressEvent struct {
	Step string `json:"step"`
	Pct  int    `json:"pct"`
}

// CompletionEvent marks the terminal state of a job's visible lifecycle.
type CompletionEvent struct {
	ScheduleID string `json:"scheduleId"`
}

// Envelope wraps a named event and its payload on the broadcast transport.
type Envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}
