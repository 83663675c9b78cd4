package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"loan-predictor/internal/config"
	"loan-predictor/internal/db"
	apihttp "loan-predictor/internal/http"
	"loan-predictor/internal/metrics"
	"loan-predictor/internal/model"
	"loan-predictor/internal/repository"
	"loan-predictor/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	predictions, ping, closeStore := openStore(ctx, cfg, logger)
	defer closeStore()

	var classifier model.Classifier
	pipeline, err := model.LoadLinearSVM(cfg.ModelPath)
	if err != nil {
		// El proceso arranca igual; /result responde 500 hasta que haya artefacto.
		logger.Warn("model not loaded", zap.String("path", cfg.ModelPath), zap.Error(err))
		classifier = model.NewUnavailableClassifier(err)
	} else {
		logger.Info("model loaded", zap.String("path", cfg.ModelPath), zap.String("version", pipeline.Version()))
		classifier = pipeline
	}

	var limiter service.SubmissionRateLimiter
	if cfg.SubmissionLimit > 0 {
		window := time.Duration(cfg.SubmissionWindowSeconds) * time.Second
		limiter = service.NewSubmissionRateLimiter(window, cfg.SubmissionLimit)
		if cfg.RedisAddr != "" {
			redisClient := redis.NewClient(&redis.Options{
				Addr:     cfg.RedisAddr,
				Password: cfg.RedisPassword,
				DB:       cfg.RedisDB,
			})
			defer redisClient.Close()
			ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
			if err := redisClient.Ping(ctxPing).Err(); err != nil {
				logger.Warn("redis ping failed, using in-memory limiter", zap.Error(err))
			} else {
				limiter = service.NewRedisSubmissionRateLimiter(redisClient, window, cfg.SubmissionLimit)
			}
			cancel()
		}
	}

	recorder := metrics.New()
	retention := time.Duration(cfg.HistoryRetentionDays) * 24 * time.Hour
	loanSvc := service.NewLoanService(logger, predictions, classifier, limiter, recorder, service.LoanServiceConfig{
		EMIAnnualRate:      cfg.EMIAnnualRate,
		FallbackConfidence: cfg.FallbackConfidence,
		Retention:          retention,
	})

	if retention > 0 {
		worker := service.NewRetentionWorker(logger, loanSvc, time.Duration(cfg.RetentionIntervalMinutes)*time.Minute)
		go worker.Run(ctx)
	}

	tokens := service.NewSessionTokenService(cfg.SessionSecret, time.Duration(cfg.SessionTTLHours)*time.Hour)
	tmpl, err := apihttp.LoadTemplates()
	if err != nil {
		logger.Fatal("load templates", zap.Error(err))
	}

	pageHandler := apihttp.NewPageHandler()
	predictionHandler := apihttp.NewPredictionHandler(logger, loanSvc, tokens, cfg.CookieSecure)
	healthHandler := apihttp.NewHealthHandler(logger, loanSvc, ping)
	router := apihttp.NewRouter(logger, tmpl, tokens, recorder, pageHandler, predictionHandler, healthHandler)
	// Sin proxies declarados, ClientIP ignora X-Forwarded-For y usa la direccion remota.
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		logger.Fatal("trusted proxies", zap.Error(err))
	}

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown", zap.Error(err))
		}
	}()

	logger.Info("starting server", zap.String("port", cfg.HTTPPort), zap.String("database", cfg.DatabaseDriver))

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server error", zap.Error(err))
	}
}

// openStore elige el backend de historial segun DATABASE_DRIVER y aplica el esquema.
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.PredictionRepository, apihttp.PingFunc, func()) {
	if cfg.UsesPostgres() {
		pool, err := db.NewPool(ctx, cfg)
		if err != nil {
			logger.Fatal("db connect", zap.Error(err))
		}
		if err := db.MigratePostgres(ctx, pool); err != nil {
			logger.Fatal("db migrate", zap.Error(err))
		}
		ping := func(ctx context.Context) error { return db.Ping(ctx, pool) }
		return repository.NewPgPredictionRepository(pool), ping, pool.Close
	}

	conn, err := db.OpenSQLite(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("db open", zap.Error(err))
	}
	if err := db.MigrateSQLite(ctx, conn); err != nil {
		logger.Fatal("db migrate", zap.Error(err))
	}
	return repository.NewSQLitePredictionRepository(conn), conn.PingContext, func() { _ = conn.Close() }
}
