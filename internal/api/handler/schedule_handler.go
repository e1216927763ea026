package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rosterly/rosterly-be/internal/api/dto"
	"github.com/rosterly/rosterly-be/internal/schedule"
)

// GenerateSchedule handles POST /api/v1/schedules/generate
// Enqueues a generation job and returns its handle without waiting for
// execution.
func (h *ScheduleHandler) GenerateSchedule(c *gin.Context) {
	var req dto.GenerateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", slog.Any("error", err))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	var opts *schedule.EnqueueOptions
	if req.DelayMs > 0 || req.Repeat != "" {
		opts = &schedule.EnqueueOptions{
			Delay:  time.Duration(req.DelayMs) * time.Millisecond,
			Repeat: req.Repeat,
		}
	}

	jobID, err := h.producer.Submit(c.Request.Context(), schedule.GenerationRequest{
		TenantID:  req.TenantID,
		WeekStart: req.WeekStart,
	}, opts)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrInvalidJob):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": err.Error(),
			})
		case errors.Is(err, schedule.ErrQueueUnavailable):
			h.logger.Error("Queue unavailable", slog.Any("error", err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error": "Scheduling queue is unavailable",
			})
		default:
			h.logger.Error("Failed to enqueue generation job", slog.Any("error", err))
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to enqueue generation job",
			})
		}
		return
	}

	c.JSON(http.StatusAccepted, dto.GenerateScheduleResponse{
		JobID: jobID,
	})
}

// GetSchedule handles GET /api/v1/schedules/:schedule_id
// Returns the persisted schedule for clients that stored a jobID and poll
// for the result.
func (h *ScheduleHandler) GetSchedule(c *gin.Context) {
	scheduleID := c.Param("schedule_id")
	if scheduleID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "schedule_id is required",
		})
		return
	}

	rec, err := h.storage.GetScheduleByID(c.Request.Context(), scheduleID)
	if err != nil {
		if errors.Is(err, schedule.ErrScheduleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Schedule not found",
			})
			return
		}
		h.logger.Error("Failed to get schedule", slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get schedule",
		})
		return
	}

	shifts := make([]dto.ShiftDTO, len(rec.Shifts))
	for i, s := range rec.Shifts {
		shifts[i] = dto.ShiftDTO{
			StaffID: s.StaffID,
			Day:     s.Day,
			StartAt: s.StartAt,
			EndAt:   s.EndAt,
			Role:    s.Role,
		}
	}

	c.JSON(http.StatusOK, dto.ScheduleDTO{
		ScheduleID:     rec.ScheduleID,
		TenantID:       rec.TenantID,
		WeekStart:      rec.WeekStart,
		Shifts:         shifts,
		TotalLaborCost: rec.TotalLaborCost,
		TotalHours:     rec.TotalHours,
		CreatedAt:      rec.CreatedAt.Format(time.RFC3339),
	})
}
