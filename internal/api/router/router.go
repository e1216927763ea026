package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rosterly/rosterly-be/internal/api/handler"
)

// SetupRouter configures and returns the Gin router with all routes
func SetupRouter(deps *handler.Dependencies) *gin.Engine {
	r := gin.New()

	// Middleware
	r.Use(gin.Recovery())
	r.Use(LoggerMiddleware(deps.Logger))
	r.Use(CORSMiddleware())

	// Health check reports transport connectivity
	r.GET("/health", func(c *gin.Context) {
		status := http.StatusOK
		queueOK := deps.RabbitClient != nil && deps.RabbitClient.IsConnected()
		dbOK := deps.DBClient == nil || deps.DBClient.HealthCheck(c.Request.Context()) == nil

		if !queueOK || !dbOK {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"service":  "rosterly-api-service",
			"queue":    queueOK,
			"database": dbOK,
		})
	})

	scheduleHandler := handler.NewScheduleHandler(deps)
	wsHandler := handler.NewWSHandler(deps)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		schedules := v1.Group("/schedules")
		{
			// POST /api/v1/schedules/generate - enqueue a generation job
			schedules.POST("/generate", scheduleHandler.GenerateSchedule)

			// GET /api/v1/schedules/:schedule_id - fetch a generated schedule
			schedules.GET("/:schedule_id", scheduleHandler.GetSchedule)
		}
	}

	// WebSocket relay for progress/completion events
	r.GET("/ws/tenants/:tenant_id/schedules/:week_start", wsHandler.StreamSchedule)

	return r
}
