package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"loan-predictor/internal/service"
)

// PredictionHandler mantiene dependencias para scoring e historial.
type PredictionHandler struct {
	logger       *zap.Logger
	loans        *service.LoanService
	tokens       *service.SessionTokenService
	cookieSecure bool
}

// NewPredictionHandler crea una instancia de PredictionHandler con dependencias necesarias.
func NewPredictionHandler(logger *zap.Logger, loans *service.LoanService, tokens *service.SessionTokenService, cookieSecure bool) *PredictionHandler {
	return &PredictionHandler{
		logger:       logger,
		loans:        loans,
		tokens:       tokens,
		cookieSecure: cookieSecure,
	}
}

// Result maneja POST /result (y POST /predict).
func (h *PredictionHandler) Result(c *gin.Context) {
	if err := h.loans.ModelReady(); err != nil {
		h.logger.Error("scoring refused", zap.Error(err))
		h.renderError(c, http.StatusInternalServerError, "Model not loaded. Please contact administrator.")
		return
	}
	if err := c.Request.ParseForm(); err != nil {
		h.logger.Warn("invalid form body", zap.Error(err))
		h.renderError(c, http.StatusBadRequest, "Invalid input values. Please check your entries.")
		return
	}

	sid, err := ensureSession(c, h.tokens, h.cookieSecure)
	if err != nil {
		h.logger.Error("issue session failed", zap.Error(err))
		h.renderError(c, http.StatusInternalServerError, "Could not start a session.")
		return
	}

	result, err := h.loans.Score(c.Request.Context(), sid, c.ClientIP(), c.Request.PostForm)
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			h.renderError(c, http.StatusBadRequest, verr.Error())
		case errors.Is(err, service.ErrModelUnavailable):
			h.renderError(c, http.StatusInternalServerError, "Model not loaded. Please contact administrator.")
		case errors.Is(err, service.ErrRateLimited):
			h.renderError(c, http.StatusTooManyRequests, "Too many submissions. Please wait a moment and try again.")
		default:
			h.logger.Error("score failed", zap.Error(err))
			h.renderError(c, http.StatusInternalServerError, fmt.Sprintf("An error occurred: %v", err))
		}
		return
	}

	c.HTML(http.StatusOK, "result.html", gin.H{
		"title":  "Result",
		"result": result,
	})
}

// History maneja GET /history.
func (h *PredictionHandler) History(c *gin.Context) {
	sid, _ := GetSessionID(c)
	entries, err := h.loans.ListHistory(c.Request.Context(), sid)
	if err != nil {
		h.logger.Error("list history failed", zap.Error(err))
		h.renderError(c, http.StatusInternalServerError, "Could not load your history.")
		return
	}
	c.HTML(http.StatusOK, "history.html", gin.H{
		"title":       "History",
		"predictions": entries,
	})
}

// HistoryJSON maneja GET /api/history.
func (h *PredictionHandler) HistoryJSON(c *gin.Context) {
	sid, _ := GetSessionID(c)
	entries, err := h.loans.ListHistory(c.Request.Context(), sid)
	if err != nil {
		h.logger.Error("list history failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"predictions": entries})
}

// ClearHistory maneja POST /clear_history. Responde JSON salvo que el cliente
// prefiera HTML (envio directo del formulario), en cuyo caso vuelve a /history.
func (h *PredictionHandler) ClearHistory(c *gin.Context) {
	wantsHTML := c.NegotiateFormat(gin.MIMEJSON, gin.MIMEHTML) == gin.MIMEHTML

	sid, ok := GetSessionID(c)
	if !ok {
		if wantsHTML {
			c.Redirect(http.StatusSeeOther, "/history")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "No history to clear."})
		return
	}

	deleted, err := h.loans.ClearHistory(c.Request.Context(), sid)
	if err != nil {
		h.logger.Error("clear history failed", zap.Error(err))
		if wantsHTML {
			h.renderError(c, http.StatusInternalServerError, "Could not clear your history.")
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": fmt.Sprintf("Error clearing history: %v", err),
		})
		return
	}

	if wantsHTML {
		c.Redirect(http.StatusSeeOther, "/history")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"deleted": deleted,
		"message": fmt.Sprintf("Cleared %d predictions from your history.", deleted),
	})
}

// Stats maneja GET /api/stats.
func (h *PredictionHandler) Stats(c *gin.Context) {
	sid, _ := GetSessionID(c)
	stats, err := h.loans.Stats(c.Request.Context(), sid)
	if err != nil {
		h.logger.Error("stats failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *PredictionHandler) renderError(c *gin.Context, status int, message string) {
	c.HTML(status, "error.html", gin.H{
		"title":   "Error",
		"message": message,
	})
}
