package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rosterly/rosterly-be/internal/schedule"
)

// Pipeline step names, in execution order. The list is fixed and
// non-branching: no conditional skipping, no mid-pipeline cancellation.
const (
	StepAnalyzeHistory  = "Analyzing historical sales patterns"
	StepWeatherImpact   = "Processing weather forecast impact"
	StepOptimizeCost    = "Optimizing for cost efficiency"
	StepDetectConflicts = "Detecting conflicts"
)

// GenerationSteps is the ordered step list for one schedule-generation job.
var GenerationSteps = []string{
	StepAnalyzeHistory,
	StepWeatherImpact,
	StepOptimizeCost,
	StepDetectConflicts,
}

// ScheduleStore persists the generated schedule after the last computation
// step.
type ScheduleStore interface {
	CreateSchedule(ctx context.Context, rec *schedule.Record) error
}

// Pipeline turns one claimed job into an ordered sequence of progress
// announcements followed by a single completion announcement.
type Pipeline struct {
	broadcaster schedule.Broadcaster
	store       ScheduleStore
	optimizer   schedule.Optimizer
	stepDelay   time.Duration
	logger      *slog.Logger
}

// NewPipeline wires the pipeline's collaborators. stepDelay is the pacing
// interval between steps; it is a policy knob, not a correctness
// requirement.
func NewPipeline(broadcaster schedule.Broadcaster, store ScheduleStore, optimizer schedule.Optimizer, stepDelay time.Duration, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		broadcaster: broadcaster,
		store:       store,
		optimizer:   optimizer,
		stepDelay:   stepDelay,
		logger:      logger,
	}
}

// Run executes the fixed step sequence for one generation request. Each
// step's completion is announced on the tenant/week channel before the next
// step starts, so progress percentages arrive strictly in step order. A step
// error aborts the remaining steps and no completion event is emitted.
func (p *Pipeline) Run(ctx context.Context, req schedule.GenerationRequest) error {
	channel := schedule.ChannelFor(req.TenantID, req.WeekStart)
	total := len(GenerationSteps)

	var result *schedule.OptimizationResult
	for i, step := range GenerationSteps {
		out, err := p.runStep(ctx, step, req, result)
		if err != nil {
			return fmt.Errorf("step %q failed: %w", step, err)
		}
		result = out

		// Integer rounding over the fixed step count keeps pct monotonically
		// non-decreasing and makes the last step land on exactly 100.
		pct := (100*(i+1) + total/2) / total
		p.announce(ctx, channel, schedule.EventProgress, schedule.ProgressEvent{Step: step, Pct: pct})

		if i < total-1 && p.stepDelay > 0 {
			select {
			case <-time.After(p.stepDelay):
			case <-ctx.Done():
				return fmt.Errorf("pipeline canceled: %w", ctx.Err())
			}
		}
	}

	rec := &schedule.Record{
		ScheduleID:     schedule.ScheduleID(req.TenantID, req.WeekStart),
		TenantID:       req.TenantID,
		WeekStart:      req.WeekStart,
		Shifts:         result.Shifts,
		TotalLaborCost: result.TotalLaborCost,
		TotalHours:     result.TotalHours,
		CreatedAt:      time.Now().UTC(),
	}

	if err := p.store.CreateSchedule(ctx, rec); err != nil {
		return fmt.Errorf("failed to persist schedule: %w", err)
	}

	p.announce(ctx, channel, schedule.EventComplete, schedule.CompletionEvent{ScheduleID: rec.ScheduleID})

	return nil
}

// runStep executes one named step and threads the optimization result
// through to later steps.
func (p *Pipeline) runStep(ctx context.Context, step string, req schedule.GenerationRequest, result *schedule.OptimizationResult) (*schedule.OptimizationResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch step {
	case StepAnalyzeHistory, StepWeatherImpact:
		// Inputs for these phases come from the sales-history and weather
		// collaborators; the planner consumes them opaquely.
		return result, nil

	case StepOptimizeCost:
		return p.optimizer.Optimize(ctx, req)

	case StepDetectConflicts:
		if result == nil {
			return nil, errors.New("no optimization result to check")
		}
		if err := detectConflicts(result.Shifts); err != nil {
			return nil, err
		}
		return result, nil
	}

	return nil, fmt.Errorf("unknown step %q", step)
}

// announce publishes one event on the channel. Broadcast failures are
// advisory: they are logged and swallowed so schedule generation is never
// blocked by a flaky event transport.
func (p *Pipeline) announce(ctx context.Context, channel, event string, payload any) {
	if err := p.broadcaster.Publish(ctx, channel, event, payload); err != nil {
		p.logger.Warn("Failed to broadcast event",
			slog.String("channel", channel),
			slog.String("event", event),
			slog.Any("error", err),
		)
	}
}

// detectConflicts rejects schedules that double-book a staff member on the
// same day. Shift times are zero-padded HH:MM strings, so lexicographic
// comparison matches chronological order.
func detectConflicts(shifts []schedule.Shift) error {
	byStaffDay := make(map[string][]schedule.Shift)
	for _, s := range shifts {
		key := s.StaffID + "|" + s.Day
		for _, other := range byStaffDay[key] {
			if s.StartAt < other.EndAt && other.StartAt < s.EndAt {
				return fmt.Errorf("staff %s double-booked on %s (%s-%s overlaps %s-%s)",
					s.StaffID, s.Day, s.StartAt, s.EndAt, other.StartAt, other.EndAt)
			}
		}
		byStaffDay[key] = append(byStaffDay[key], s)
	}
	return nil
}
