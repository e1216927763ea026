package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/rosterly/rosterly-be/internal/schedule"
)

// WebSocket timeout constants following Gorilla best practices
const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Send pings to the peer with this period
	pingPeriod = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Dashboard origins are enforced by the CORS middleware upstream
		return true
	},
}

// WSHandler relays broadcast events for one tenant/week channel to a
// dashboard client over WebSocket.
type WSHandler struct {
	logger           *slog.Logger
	subscriber       schedule.Subscriber
	progressThrottle time.Duration
}

// NewWSHandler creates a new WSHandler instance
func NewWSHandler(deps *Dependencies) *WSHandler {
	return &WSHandler{
		logger:           deps.Logger,
		subscriber:       deps.Subscriber,
		progressThrottle: deps.ProgressThrottle,
	}
}

// StreamSchedule handles GET /ws/tenants/:tenant_id/schedules/:week_start
// The subscription starts when the socket opens; events published before
// that are never replayed. Progress frames are throttled per connection,
// completion frames never are. The socket closes after the completion
// frame; a client waiting on a failed job must apply its own timeout.
func (h *WSHandler) StreamSchedule(c *gin.Context) {
	tenantID := c.Param("tenant_id")
	weekStart := c.Param("week_start")
	if tenantID == "" || weekStart == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "tenant_id and week_start are required",
		})
		return
	}

	channel := schedule.ChannelFor(tenantID, weekStart)

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	sub, err := h.subscriber.Subscribe(ctx, channel)
	if err != nil {
		h.logger.Error("Failed to subscribe to channel",
			slog.String("channel", channel),
			slog.Any("error", err),
		)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Event stream is unavailable",
		})
		return
	}
	defer sub.Close()

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("WebSocket upgrade failed",
			slog.String("channel", channel),
			slog.Any("error", err),
		)
		return
	}
	defer conn.Close()

	h.logger.Info("Schedule stream opened",
		slog.String("channel", channel),
		slog.String("remote", conn.RemoteAddr().String()),
	)

	// Drain reads to detect client disconnects
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	var limiter *rate.Limiter
	if h.progressThrottle > 0 {
		limiter = rate.NewLimiter(rate.Every(h.progressThrottle), 1)
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case env, ok := <-sub.Events():
			if !ok {
				h.writeClose(conn, websocket.CloseGoingAway, "subscription closed")
				return
			}

			if env.Event == schedule.EventProgress && limiter != nil && !limiter.Allow() {
				continue
			}

			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(env); err != nil {
				h.logger.Warn("Failed to write event to client",
					slog.String("channel", channel),
					slog.Any("error", err),
				)
				return
			}

			if env.Event == schedule.EventComplete {
				h.writeClose(conn, websocket.CloseNormalClosure, "schedule complete")
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-ctx.Done():
			h.logger.Debug("Schedule stream closed",
				slog.String("channel", channel),
			)
			return
		}
	}
}

func (h *WSHandler) writeClose(conn *websocket.Conn, code int, reason string) {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason))
}
