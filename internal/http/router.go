package http

import (
	"html/template"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"loan-predictor/internal/metrics"
	"loan-predictor/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	tmpl *template.Template,
	tokens *service.SessionTokenService,
	recorder *metrics.Recorder,
	pageH *PageHandler,
	predictionH *PredictionHandler,
	healthH *HealthHandler,
) *gin.Engine {
	r := gin.New()
	r.SetHTMLTemplate(tmpl)

	// Middlewares basicos: logging, recovery y sesion.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), SessionMiddleware(tokens))

	r.GET("/", pageH.Home)
	r.GET("/about", pageH.About)
	r.GET("/contact", pageH.Contact)
	r.GET("/predict", pageH.PredictForm)

	r.POST("/predict", predictionH.Result)
	r.POST("/result", predictionH.Result)
	r.GET("/history", predictionH.History)
	r.POST("/clear_history", predictionH.ClearHistory)

	api := r.Group("/api", jsonContentTypeMiddleware())
	api.GET("/stats", predictionH.Stats)
	api.GET("/history", predictionH.HistoryJSON)

	r.GET("/healthz", healthH.Health)
	r.GET("/metrics", gin.WrapH(recorder.Handler()))

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
