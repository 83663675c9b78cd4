package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// RetentionWorker purga periodicamente el historial vencido.
type RetentionWorker struct {
	logger   *zap.Logger
	loans    *LoanService
	interval time.Duration
}

func NewRetentionWorker(logger *zap.Logger, loans *LoanService, interval time.Duration) *RetentionWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	return &RetentionWorker{logger: logger, loans: loans, interval: interval}
}

// Run bloquea hasta que ctx se cancela. Ejecuta una purga inmediata al arrancar.
func (w *RetentionWorker) Run(ctx context.Context) {
	w.runOnce(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.runOnce(ctx)
		case <-ctx.Done():
			w.logger.Info("retention worker stopped")
			return
		}
	}
}

func (w *RetentionWorker) runOnce(ctx context.Context) {
	deleted, err := w.loans.PurgeExpired(ctx, time.Now().UTC())
	if err != nil {
		w.logger.Error("retention purge failed", zap.Error(err))
		return
	}
	if deleted > 0 {
		w.logger.Info("retention purge completed", zap.Int64("deleted", deleted))
	}
}
