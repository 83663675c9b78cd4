package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS predictions (
	id                   INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id           TEXT NOT NULL,
	created_at           INTEGER NOT NULL,
	gender               INTEGER NOT NULL,
	married              INTEGER NOT NULL,
	dependents           INTEGER NOT NULL,
	education            INTEGER NOT NULL,
	self_employed        INTEGER NOT NULL,
	applicant_income     REAL NOT NULL,
	coapplicant_income   REAL NOT NULL,
	loan_amount          REAL NOT NULL,
	loan_amount_term     REAL NOT NULL,
	credit_history       REAL NOT NULL,
	property_area        INTEGER NOT NULL,
	prediction_result    INTEGER NOT NULL CHECK (prediction_result IN (0, 1)),
	confidence           REAL NOT NULL CHECK (confidence >= 0 AND confidence <= 100),
	total_income         REAL NOT NULL,
	loan_to_income_ratio REAL NOT NULL CHECK (loan_to_income_ratio >= 0)
);
CREATE INDEX IF NOT EXISTS idx_predictions_session_created ON predictions (session_id, created_at);
`

// OpenSQLite abre (o crea) la base embebida en un solo archivo.
// created_at se guarda como unix nanos para ordenar sin ambiguedad de formato.
func OpenSQLite(ctx context.Context, dsn string) (*sql.DB, error) {
	conn, err := sql.Open("sqlite", withPragmas(dsn))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Un solo escritor: SQLite serializa las escrituras de todas formas.
	conn.SetMaxOpenConns(1)

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return conn, nil
}

// MigrateSQLite crea la tabla de predicciones si no existe.
func MigrateSQLite(ctx context.Context, conn *sql.DB) error {
	_, err := conn.ExecContext(ctx, sqliteSchema)
	return err
}

func withPragmas(dsn string) string {
	if dsn == "" {
		dsn = "file:predictions.db"
	}
	if strings.Contains(dsn, "_pragma=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
}
