package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"loan-predictor/internal/domain"
)

// PredictionRepository persiste los registros de prediccion por sesion.
type PredictionRepository interface {
	Create(ctx context.Context, record domain.PredictionRecord) (int64, error)
	// ListBySessionID devuelve los registros de la sesion, mas recientes primero.
	ListBySessionID(ctx context.Context, sessionID string) ([]domain.PredictionRecord, error)
	DeleteBySessionID(ctx context.Context, sessionID string) (int64, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

const predictionColumns = `id, session_id, created_at, gender, married, dependents, education,
		self_employed, applicant_income, coapplicant_income, loan_amount, loan_amount_term,
		credit_history, property_area, prediction_result, confidence, total_income,
		loan_to_income_ratio`

type PgPredictionRepository struct {
	pool *pgxpool.Pool
}

func NewPgPredictionRepository(pool *pgxpool.Pool) *PgPredictionRepository {
	return &PgPredictionRepository{pool: pool}
}

func (r *PgPredictionRepository) Create(ctx context.Context, record domain.PredictionRecord) (int64, error) {
	const query = `
		INSERT INTO predictions (session_id, created_at, gender, married, dependents, education,
			self_employed, applicant_income, coapplicant_income, loan_amount, loan_amount_term,
			credit_history, property_area, prediction_result, confidence, total_income,
			loan_to_income_ratio)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id
	`
	app := record.Application
	var id int64
	err := r.pool.QueryRow(ctx, query,
		record.SessionID,
		record.CreatedAt,
		app.Gender,
		app.Married,
		app.Dependents,
		app.Education,
		app.SelfEmployed,
		app.ApplicantIncome,
		app.CoapplicantIncome,
		app.LoanAmount,
		app.LoanAmountTerm,
		app.CreditHistory,
		app.PropertyArea,
		record.PredictionResult,
		record.Confidence,
		record.TotalIncome,
		record.LoanToIncomeRatio,
	).Scan(&id)
	return id, err
}

func (r *PgPredictionRepository) ListBySessionID(ctx context.Context, sessionID string) ([]domain.PredictionRecord, error) {
	query := `
		SELECT ` + predictionColumns + `
		FROM predictions
		WHERE session_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.PredictionRecord
	for rows.Next() {
		record, err := scanPgPrediction(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

func (r *PgPredictionRepository) DeleteBySessionID(ctx context.Context, sessionID string) (int64, error) {
	const query = `DELETE FROM predictions WHERE session_id = $1`
	tag, err := r.pool.Exec(ctx, query, sessionID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *PgPredictionRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	const query = `DELETE FROM predictions WHERE created_at < $1`
	tag, err := r.pool.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanPgPrediction(rows pgx.Rows) (domain.PredictionRecord, error) {
	var record domain.PredictionRecord
	app := &record.Application
	err := rows.Scan(
		&record.ID,
		&record.SessionID,
		&record.CreatedAt,
		&app.Gender,
		&app.Married,
		&app.Dependents,
		&app.Education,
		&app.SelfEmployed,
		&app.ApplicantIncome,
		&app.CoapplicantIncome,
		&app.LoanAmount,
		&app.LoanAmountTerm,
		&app.CreditHistory,
		&app.PropertyArea,
		&record.PredictionResult,
		&record.Confidence,
		&record.TotalIncome,
		&record.LoanToIncomeRatio,
	)
	record.CreatedAt = record.CreatedAt.UTC()
	return record, err
}
