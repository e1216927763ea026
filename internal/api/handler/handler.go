package handler

import (
	"log/slog"
	"time"

	"github.com/rosterly/rosterly-be/internal/api/storage"
	"github.com/rosterly/rosterly-be/internal/producer"
	"github.com/rosterly/rosterly-be/internal/schedule"
	"github.com/rosterly/rosterly-be/shared/postgresql"
	"github.com/rosterly/rosterly-be/shared/rabbitmq"
)

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Logger           *slog.Logger
	Producer         *producer.Producer
	Subscriber       schedule.Subscriber
	Storage          *storage.Storage
	DBClient         *postgresql.Client
	RabbitClient     *rabbitmq.Client
	ProgressThrottle time.Duration
}

// ScheduleHandler handles schedule-related HTTP requests
type ScheduleHandler struct {
	logger   *slog.Logger
	producer *producer.Producer
	storage  *storage.Storage
}

// NewScheduleHandler creates a new ScheduleHandler instance
func NewScheduleHandler(deps *Dependencies) *ScheduleHandler {
	return &ScheduleHandler{
		logger:   deps.Logger,
		producer: deps.Producer,
		storage:  deps.Storage,
	}
}
