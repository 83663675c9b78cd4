package repository

import (
	"context"
	"database/sql"
	"time"

	"loan-predictor/internal/domain"
)

// SQLitePredictionRepository guarda las predicciones en la base embebida.
type SQLitePredictionRepository struct {
	db *sql.DB
}

func NewSQLitePredictionRepository(db *sql.DB) *SQLitePredictionRepository {
	return &SQLitePredictionRepository{db: db}
}

func (r *SQLitePredictionRepository) Create(ctx context.Context, record domain.PredictionRecord) (int64, error) {
	const query = `
		INSERT INTO predictions (session_id, created_at, gender, married, dependents, education,
			self_employed, applicant_income, coapplicant_income, loan_amount, loan_amount_term,
			credit_history, property_area, prediction_result, confidence, total_income,
			loan_to_income_ratio)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	app := record.Application
	res, err := r.db.ExecContext(ctx, query,
		record.SessionID,
		record.CreatedAt.UTC().UnixNano(),
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
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *SQLitePredictionRepository) ListBySessionID(ctx context.Context, sessionID string) ([]domain.PredictionRecord, error) {
	query := `
		SELECT ` + predictionColumns + `
		FROM predictions
		WHERE session_id = ?
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.PredictionRecord
	for rows.Next() {
		var record domain.PredictionRecord
		var createdAt int64
		app := &record.Application

		err = rows.Scan(
			&record.ID,
			&record.SessionID,
			&createdAt,
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
		if err != nil {
			return nil, err
		}
		record.CreatedAt = time.Unix(0, createdAt).UTC()
		records = append(records, record)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

func (r *SQLitePredictionRepository) DeleteBySessionID(ctx context.Context, sessionID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM predictions WHERE session_id = ?`, sessionID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *SQLitePredictionRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM predictions WHERE created_at < ?`, cutoff.UTC().UnixNano())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
