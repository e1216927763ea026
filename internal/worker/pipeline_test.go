package worker

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rosterly/rosterly-be/internal/schedule"
)

type publishedEvent struct {
	channel string
	event   string
	payload any
}

type fakeBroadcaster struct {
	events []publishedEvent
	// failEvents maps an event name to an error returned on Publish
	failEvents map[string]error
	// failSteps maps a step name to an error returned when that step's
	// progress event is published
	failSteps map[string]error
}

func (f *fakeBroadcaster) Publish(ctx context.Context, channel, event string, payload any) error {
	if err, ok := f.failEvents[event]; ok {
		return err
	}
	if p, ok := payload.(schedule.ProgressEvent); ok {
		if err, found := f.failSteps[p.Step]; found {
			return err
		}
	}
	f.events = append(f.events, publishedEvent{channel: channel, event: event, payload: payload})
	return nil
}

type fakeStore struct {
	records []*schedule.Record
	err     error
}

func (f *fakeStore) CreateSchedule(ctx context.Context, rec *schedule.Record) error {
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, rec)
	return nil
}

type fakeOptimizer struct {
	result *schedule.OptimizationResult
	err    error
}

func (f *fakeOptimizer) Optimize(ctx context.Context, req schedule.GenerationRequest) (*schedule.OptimizationResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func plannedResult() *schedule.OptimizationResult {
	return &schedule.OptimizationResult{
		Shifts: []schedule.Shift{
			{StaffID: "s1", Day: "Mon", StartAt: "08:00", EndAt: "16:00", Role: "front-of-house"},
			{StaffID: "s2", Day: "Mon", StartAt: "15:00", EndAt: "23:00", Role: "front-of-house"},
		},
		TotalLaborCost: 296,
		TotalHours:     16,
	}
}

func newTestPipeline(b schedule.Broadcaster, s ScheduleStore, o schedule.Optimizer) *Pipeline {
	return NewPipeline(b, s, o, 0, slog.Default())
}

func TestPipeline_Run(t *testing.T) {
	req := schedule.GenerationRequest{TenantID: "demo", WeekStart: "2024-03-04"}

	t.Run("publishes progress in step order then completes", func(t *testing.T) {
		broadcaster := &fakeBroadcaster{}
		store := &fakeStore{}
		p := newTestPipeline(broadcaster, store, &fakeOptimizer{result: plannedResult()})

		err := p.Run(context.Background(), req)
		require.NoError(t, err)

		require.Len(t, broadcaster.events, len(GenerationSteps)+1)

		wantPcts := []int{25, 50, 75, 100}
		lastPct := 0
		for i, step := range GenerationSteps {
			ev := broadcaster.events[i]
			assert.Equal(t, "tenant:demo:schedule:2024-03-04", ev.channel)
			assert.Equal(t, schedule.EventProgress, ev.event)

			progress, ok := ev.payload.(schedule.ProgressEvent)
			require.True(t, ok)
			assert.Equal(t, step, progress.Step)
			assert.Equal(t, wantPcts[i], progress.Pct)
			assert.GreaterOrEqual(t, progress.Pct, lastPct)
			lastPct = progress.Pct
		}
		assert.Equal(t, 100, lastPct)

		final := broadcaster.events[len(broadcaster.events)-1]
		assert.Equal(t, schedule.EventComplete, final.event)
		completion, ok := final.payload.(schedule.CompletionEvent)
		require.True(t, ok)
		assert.Equal(t, "demo:2024-03-04", completion.ScheduleID)
	})

	t.Run("persists the schedule before announcing completion", func(t *testing.T) {
		broadcaster := &fakeBroadcaster{}
		store := &fakeStore{}
		p := newTestPipeline(broadcaster, store, &fakeOptimizer{result: plannedResult()})

		require.NoError(t, p.Run(context.Background(), req))

		require.Len(t, store.records, 1)
		rec := store.records[0]
		assert.Equal(t, "demo:2024-03-04", rec.ScheduleID)
		assert.Equal(t, "demo", rec.TenantID)
		assert.Equal(t, "2024-03-04", rec.WeekStart)
		assert.Len(t, rec.Shifts, 2)
		assert.Equal(t, 16.0, rec.TotalHours)
	})

	t.Run("optimizer failure aborts remaining steps without completion", func(t *testing.T) {
		broadcaster := &fakeBroadcaster{}
		store := &fakeStore{}
		p := newTestPipeline(broadcaster, store, &fakeOptimizer{err: errors.New("model timeout")})

		err := p.Run(context.Background(), req)
		require.Error(t, err)
		assert.Contains(t, err.Error(), StepOptimizeCost)

		// Only the two steps before the failure announced progress
		require.Len(t, broadcaster.events, 2)
		for _, ev := range broadcaster.events {
			assert.Equal(t, schedule.EventProgress, ev.event)
		}
		assert.Empty(t, store.records)
	})

	t.Run("broadcast outage does not fail the job", func(t *testing.T) {
		broadcaster := &fakeBroadcaster{
			failSteps: map[string]error{
				StepWeatherImpact: schedule.ErrBroadcastUnavailable,
			},
		}
		store := &fakeStore{}
		p := newTestPipeline(broadcaster, store, &fakeOptimizer{result: plannedResult()})

		err := p.Run(context.Background(), req)
		require.NoError(t, err)

		// Step 2's progress was dropped, everything else landed
		require.Len(t, broadcaster.events, len(GenerationSteps))
		final := broadcaster.events[len(broadcaster.events)-1]
		assert.Equal(t, schedule.EventComplete, final.event)
		require.Len(t, store.records, 1)
	})

	t.Run("store failure suppresses the completion event", func(t *testing.T) {
		broadcaster := &fakeBroadcaster{}
		store := &fakeStore{err: errors.New("connection refused")}
		p := newTestPipeline(broadcaster, store, &fakeOptimizer{result: plannedResult()})

		err := p.Run(context.Background(), req)
		require.Error(t, err)

		for _, ev := range broadcaster.events {
			assert.NotEqual(t, schedule.EventComplete, ev.event)
		}
	})

	t.Run("conflicting shifts fail the conflict step", func(t *testing.T) {
		conflicted := plannedResult()
		conflicted.Shifts = []schedule.Shift{
			{StaffID: "s1", Day: "Mon", StartAt: "08:00", EndAt: "16:00"},
			{StaffID: "s1", Day: "Mon", StartAt: "12:00", EndAt: "20:00"},
		}

		broadcaster := &fakeBroadcaster{}
		store := &fakeStore{}
		p := newTestPipeline(broadcaster, store, &fakeOptimizer{result: conflicted})

		err := p.Run(context.Background(), req)
		require.Error(t, err)
		assert.Contains(t, err.Error(), StepDetectConflicts)
		assert.Empty(t, store.records)
	})

	t.Run("canceled context stops the pipeline", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		broadcaster := &fakeBroadcaster{}
		p := newTestPipeline(broadcaster, &fakeStore{}, &fakeOptimizer{result: plannedResult()})

		err := p.Run(ctx, req)
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, broadcaster.events)
	})
}

func TestDetectConflicts(t *testing.T) {
	tests := []struct {
		name    string
		shifts  []schedule.Shift
		wantErr bool
	}{
		{
			name: "no overlap for same staff on different days",
			shifts: []schedule.Shift{
				{StaffID: "s1", Day: "Mon", StartAt: "08:00", EndAt: "16:00"},
				{StaffID: "s1", Day: "Tue", StartAt: "08:00", EndAt: "16:00"},
			},
		},
		{
			name: "different staff may overlap",
			shifts: []schedule.Shift{
				{StaffID: "s1", Day: "Mon", StartAt: "08:00", EndAt: "16:00"},
				{StaffID: "s2", Day: "Mon", StartAt: "15:00", EndAt: "23:00"},
			},
		},
		{
			name: "back-to-back shifts do not conflict",
			shifts: []schedule.Shift{
				{StaffID: "s1", Day: "Mon", StartAt: "08:00", EndAt: "16:00"},
				{StaffID: "s1", Day: "Mon", StartAt: "16:00", EndAt: "23:00"},
			},
		},
		{
			name: "overlapping shifts for the same staff conflict",
			shifts: []schedule.Shift{
				{StaffID: "s1", Day: "Mon", StartAt: "08:00", EndAt: "16:00"},
				{StaffID: "s1", Day: "Mon", StartAt: "15:00", EndAt: "23:00"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := detectConflicts(tt.shifts)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestShiftPlanner_Optimize(t *testing.T) {
	planner := NewShiftPlanner()

	result, err := planner.Optimize(context.Background(), schedule.GenerationRequest{
		TenantID:  "demo",
		WeekStart: "2024-03-04",
	})
	require.NoError(t, err)

	assert.Len(t, result.Shifts, 14)
	assert.Equal(t, 112.0, result.TotalHours)
	assert.InDelta(t, 112.0*planner.HourlyRate, result.TotalLaborCost, 0.01)
	assert.NoError(t, detectConflicts(result.Shifts))
}

func TestDecodeJob(t *testing.T) {
	t.Run("valid envelope", func(t *testing.T) {
		payload, err := json.Marshal(schedule.GenerationRequest{TenantID: "demo", WeekStart: "2024-03-04"})
		require.NoError(t, err)

		body, err := json.Marshal(schedule.Job{
			JobID:     "job-1",
			QueueName: schedule.QueueScheduling,
			JobName:   schedule.JobGenerate,
			Payload:   payload,
		})
		require.NoError(t, err)

		job, err := decodeJob(body)
		require.NoError(t, err)
		assert.Equal(t, "job-1", job.JobID)
		assert.Equal(t, schedule.JobGenerate, job.JobName)
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := decodeJob([]byte("{not json"))
		assert.Error(t, err)
	})

	t.Run("missing job id", func(t *testing.T) {
		_, err := decodeJob([]byte(`{"job_name":"generate"}`))
		assert.Error(t, err)
	})
}
