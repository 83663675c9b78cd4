package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"loan-predictor/internal/service"
)

// PingFunc verifica la conectividad con el almacenamiento.
type PingFunc func(ctx context.Context) error

type HealthHandler struct {
	logger *zap.Logger
	loans  *service.LoanService
	ping   PingFunc
}

func NewHealthHandler(logger *zap.Logger, loans *service.LoanService, ping PingFunc) *HealthHandler {
	return &HealthHandler{logger: logger, loans: loans, ping: ping}
}

// Health maneja GET /healthz. El proceso esta vivo aunque el modelo no haya cargado.
func (h *HealthHandler) Health(c *gin.Context) {
	modelStatus := "ready"
	if err := h.loans.ModelReady(); err != nil {
		modelStatus = "unavailable"
	}

	dbStatus := "ok"
	if h.ping != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.ping(ctx); err != nil {
			h.logger.Warn("database ping failed", zap.Error(err))
			dbStatus = "error"
		}
	}

	status := http.StatusOK
	if dbStatus != "ok" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{
		"status":   http.StatusText(status),
		"model":    modelStatus,
		"database": dbStatus,
	})
}
