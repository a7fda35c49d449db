package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"topicbook/internal/metrics"
	"topicbook/internal/storage"
)

// OpsHandler 提供运维端点：健康检查与 Prometheus 指标。
type OpsHandler struct {
	db            *gorm.DB
	exposeMetrics bool
}

func NewOpsHandler(db *gorm.DB, exposeMetrics bool) *OpsHandler {
	return &OpsHandler{db: db, exposeMetrics: exposeMetrics}
}

func (h *OpsHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/healthz", h.healthz)
	if h.exposeMetrics {
		r.GET("/metrics", metrics.Exposer())
	}
}

// @Summary      健康检查
// @Tags         ops
// @Produce      json
// @Success      200 {object} map[string]string
// @Failure      503 {object} map[string]string
// @Router       /healthz [get]
func (h *OpsHandler) healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, 2*time.Second)
	defer cancel()
	if err := storage.Ping(ctx, h.db); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
