package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/rosterly/rosterly-be/internal/schedule"
	"github.com/rosterly/rosterly-be/shared/postgresql"
)

// Storage reads persisted schedules for dashboard clients
type Storage struct {
	db *sqlx.DB
}

func NewStorage(pg *postgresql.Client) *Storage {
	return &Storage{
		db: pg.GetDB(),
	}
}

// GetScheduleByID fetches one schedule row by its deterministic ID.
func (s *Storage) GetScheduleByID(ctx context.Context, scheduleID string) (*schedule.Record, error) {
	query := `
		SELECT
			schedule_id, tenant_id, week_start,
			shifts, total_labor_cost, total_hours, created_at
		FROM schedules
		WHERE schedule_id = $1
	`

	var (
		rec        schedule.Record
		shiftsJSON []byte
		createdAt  time.Time
	)

	err := s.db.QueryRowContext(ctx, query, scheduleID).Scan(
		&rec.ScheduleID,
		&rec.TenantID,
		&rec.WeekStart,
		&shiftsJSON,
		&rec.TotalLaborCost,
		&rec.TotalHours,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, schedule.ErrScheduleNotFound
		}
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}

	if err := json.Unmarshal(shiftsJSON, &rec.Shifts); err != nil {
		return nil, fmt.Errorf("failed to decode shifts: %w", err)
	}
	rec.CreatedAt = createdAt

	return &rec, nil
}
