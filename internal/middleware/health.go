package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	StatusOK       = "ok"
	StatusDegraded = "degraded"
)

type HealthStatus struct {
	Status      string    `json:"status"`
	LastChecked time.Time `json:"last_checked"`
	Uptime      string    `json:"uptime"`
	Version     string    `json:"version"`
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthChecker serves /health. Responses are cached for cacheDuration so health checks
// do not hammer the store.
type HealthChecker struct {
	pinger           Pinger
	logger           *zap.Logger
	mu               sync.Mutex
	status           HealthStatus
	startTime        time.Time
	lastResponse     []byte
	lastCode         int
	lastResponseTime time.Time
	cacheDuration    time.Duration
}

func NewHealthChecker(pinger Pinger, version string, logger *zap.Logger) *HealthChecker {
	return &HealthChecker{
		pinger:        pinger,
		logger:        logger,
		status:        HealthStatus{Status: StatusOK, Version: version},
		startTime:     time.Now(),
		cacheDuration: 5 * time.Second,
	}
}

func (h *HealthChecker) HealthCheckMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		h.mu.Lock()
		defer h.mu.Unlock()

		if time.Since(h.lastResponseTime) < h.cacheDuration && h.lastResponse != nil {
			c.Data(h.lastCode, "application/json", h.lastResponse)
			return
		}

		h.status.Status = StatusOK
		code := http.StatusOK
		if h.pinger != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			err := h.pinger.Ping(ctx)
			cancel()
			if err != nil {
				h.logger.Warn("Health check failed", zap.Error(err))
				h.status.Status = StatusDegraded
				code = http.StatusServiceUnavailable
			}
		}

		h.status.Uptime = time.Since(h.startTime).Round(time.Second).String()
		h.status.LastChecked = time.Now()

		response, _ := json.Marshal(h.status)
		h.lastResponse = response
		h.lastCode = code
		h.lastResponseTime = time.Now()

		c.Data(code, "application/json", response)
	}
}
