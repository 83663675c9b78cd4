package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"loan-predictor/internal/config"
)

const defaultMaxConns = 10

// NewPool abre el pool de Postgres para el historial de predicciones.
func NewPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	poolCfg, err := poolConfig(cfg)
	if err != nil {
		return nil, err
	}
	return pgxpool.NewWithConfig(ctx, poolCfg)
}

// poolConfig traduce la configuracion del servicio a parametros del pool.
// El trafico es una insercion por scoring y lecturas cortas por sesion.
func poolConfig(cfg *config.Config) (*pgxpool.Config, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	maxConns := cfg.DatabaseMaxConns
	if maxConns <= 0 {
		maxConns = defaultMaxConns
	}
	poolCfg.MaxConns = int32(maxConns)
	poolCfg.MinConns = 1
	poolCfg.MaxConnIdleTime = 5 * time.Minute
	poolCfg.HealthCheckPeriod = 30 * time.Second
	poolCfg.ConnConfig.ConnectTimeout = 5 * time.Second
	if _, ok := poolCfg.ConnConfig.RuntimeParams["application_name"]; !ok {
		poolCfg.ConnConfig.RuntimeParams["application_name"] = "loan-predictor"
	}
	return poolCfg, nil
}

// Ping verifica que el historial en Postgres responda.
func Ping(ctx context.Context, pool *pgxpool.Pool) error {
	return pool.Ping(ctx)
}

const postgresSchema = `
CREATE TABLE IF NOT EXISTS predictions (
	id                   BIGSERIAL PRIMARY KEY,
	session_id           VARCHAR(100) NOT NULL,
	created_at           TIMESTAMPTZ NOT NULL DEFAULT now(),
	gender               INTEGER NOT NULL,
	married              INTEGER NOT NULL,
	dependents           INTEGER NOT NULL,
	education            INTEGER NOT NULL,
	self_employed        INTEGER NOT NULL,
	applicant_income     DOUBLE PRECISION NOT NULL,
	coapplicant_income   DOUBLE PRECISION NOT NULL,
	loan_amount          DOUBLE PRECISION NOT NULL,
	loan_amount_term     DOUBLE PRECISION NOT NULL,
	credit_history       DOUBLE PRECISION NOT NULL,
	property_area        INTEGER NOT NULL,
	prediction_result    INTEGER NOT NULL CHECK (prediction_result IN (0, 1)),
	confidence           DOUBLE PRECISION NOT NULL CHECK (confidence >= 0 AND confidence <= 100),
	total_income         DOUBLE PRECISION NOT NULL,
	loan_to_income_ratio DOUBLE PRECISION NOT NULL CHECK (loan_to_income_ratio >= 0)
);
CREATE INDEX IF NOT EXISTS idx_predictions_session_created ON predictions (session_id, created_at);
`

// MigratePostgres crea la tabla de predicciones si no existe.
func MigratePostgres(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, postgresSchema)
	return err
}
