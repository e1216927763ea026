package worker

import (
	"context"
	"fmt"
	"strings"

	"github.com/rosterly/rosterly-be/internal/schedule"
)

var weekDays = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// ShiftPlanner is the default shift-planning collaborator: a deterministic
// opener/closer template per day. The LLM-backed planner replaces it behind
// the same interface.
type ShiftPlanner struct {
	HourlyRate float64
}

// NewShiftPlanner returns a planner with the default labor rate.
func NewShiftPlanner() *ShiftPlanner {
	return &ShiftPlanner{HourlyRate: 18.50}
}

// Optimize builds a week of opener/closer coverage for the tenant.
func (pl *ShiftPlanner) Optimize(ctx context.Context, req schedule.GenerationRequest) (*schedule.OptimizationResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	const shiftHours = 8.0

	shifts := make([]schedule.Shift, 0, len(weekDays)*2)
	for _, day := range weekDays {
		shifts = append(shifts,
			schedule.Shift{
				StaffID: "opener-" + strings.ToLower(day),
				Day:     day,
				StartAt: "08:00",
				EndAt:   "16:00",
				Role:    "front-of-house",
			},
			schedule.Shift{
				StaffID: "closer-" + strings.ToLower(day),
				Day:     day,
				StartAt: "15:00",
				EndAt:   "23:00",
				Role:    "front-of-house",
			},
		)
	}

	totalHours := float64(len(shifts)) * shiftHours

	return &schedule.OptimizationResult{
		Shifts:         shifts,
		TotalHours:     totalHours,
		TotalLaborCost: totalHours * pl.HourlyRate,
		Reasoning: fmt.Sprintf(
			"Opener/closer coverage with a one-hour handover for week %s",
			req.WeekStart,
		),
		Recommendations: []string{
			"Review weekend demand before adding a third shift",
		},
	}, nil
}
