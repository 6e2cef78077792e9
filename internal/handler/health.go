package handler

import (
	"net/http"
	"time"

	"github.com/imperioia6-netizen/cafecafeconfeitaria-sub000/internal/infra"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// HealthHandler reports liveness of the service and its dependencies.
type HealthHandler struct {
	db      *gorm.DB
	rdb     *redis.Client
	cb      *infra.CircuitBreaker
	started time.Time
}

func NewHealthHandler(db *gorm.DB, rdb *redis.Client, cb *infra.CircuitBreaker) *HealthHandler {
	return &HealthHandler{db: db, rdb: rdb, cb: cb, started: time.Now()}
}

// Health godoc
// @Summary      Service health
// @Tags         health
// @Produce      json
// @Success      200 {object} map[string]interface{}
// @Failure      503 {object} map[string]interface{}
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx := c.Request.Context()
	status := http.StatusOK

	dbStatus := "ok"
	if sqlDB, err := h.db.DB(); err != nil {
		dbStatus = "error: " + err.Error()
		status = http.StatusServiceUnavailable
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "error: " + err.Error()
		status = http.StatusServiceUnavailable
	}

	redisStatus := "ok"
	if h.rdb == nil {
		redisStatus = "disabled"
	} else if err := h.rdb.Ping(ctx).Err(); err != nil {
		redisStatus = "error: " + err.Error()
		status = http.StatusServiceUnavailable
	}

	overall := "ok"
	if status != http.StatusOK {
		overall = "degraded"
	}

	c.JSON(status, gin.H{
		"status":          overall,
		"uptime":          time.Since(h.started).Round(time.Second).String(),
		"database":        dbStatus,
		"redis":           redisStatus,
		"webhook_circuit": h.cb.State().String(),
	})
}
