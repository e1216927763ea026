package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/rosterly/rosterly-be/internal/schedule"
)

// Storage persists generated schedules for the worker
type Storage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStorage creates a new Storage instance
func NewStorage(db *sqlx.DB, logger *slog.Logger) *Storage {
	return &Storage{
		db:     db,
		logger: logger,
	}
}

// CreateSchedule writes the generated schedule row. The schedule ID is
// deterministic per tenant/week, so re-running generation for the same week
// overwrites the previous result.
func (s *Storage) CreateSchedule(ctx context.Context, rec *schedule.Record) error {
	shiftsJSON, err := json.Marshal(rec.Shifts)
	if err != nil {
		return fmt.Errorf("failed to marshal shifts: %w", err)
	}

	query := `
		INSERT INTO schedules (
			schedule_id, tenant_id, week_start,
			shifts, total_labor_cost, total_hours, created_at
		) VALUES (
			$1, $2, $3,
			$4, $5, $6, $7
		)
		ON CONFLICT (schedule_id) DO UPDATE
		SET shifts = EXCLUDED.shifts,
		    total_labor_cost = EXCLUDED.total_labor_cost,
		    total_hours = EXCLUDED.total_hours,
		    created_at = EXCLUDED.created_at
	`

	_, err = s.db.ExecContext(
		ctx,
		query,
		rec.ScheduleID,
		rec.TenantID,
		rec.WeekStart,
		shiftsJSON,
		rec.TotalLaborCost,
		rec.TotalHours,
		rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create schedule: %w", err)
	}

	s.logger.Info("Schedule persisted",
		slog.String("schedule_id", rec.ScheduleID),
		slog.Int("shifts", len(rec.Shifts)),
		slog.Float64("total_hours", rec.TotalHours),
	)

	return nil
}
