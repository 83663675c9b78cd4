package domain

import "time"

const (
	PredictionRejected = 0
	PredictionApproved = 1
)

const (
	LabelApproved = "APPROVED"
	LabelRejected = "REJECTED"
)

// HistoryTimeLayout es el formato de fecha que se muestra en el historial.
const HistoryTimeLayout = "2006-01-02 15:04:05"

// PredictionRecord es una fila inmutable por cada solicitud evaluada.
type PredictionRecord struct {
	ID                int64           `json:"id"`
	SessionID         string          `json:"session_id"`
	CreatedAt         time.Time       `json:"created_at"`
	Application       LoanApplication `json:"application"`
	PredictionResult  int             `json:"prediction_result"`
	Confidence        float64         `json:"confidence"`
	TotalIncome       float64         `json:"total_income"`
	LoanToIncomeRatio float64         `json:"loan_to_income_ratio"`
}

func (r PredictionRecord) Approved() bool {
	return r.PredictionResult == PredictionApproved
}

// ResultLabel traduce el resultado binario a la etiqueta mostrada.
func ResultLabel(result int) string {
	if result == PredictionApproved {
		return LabelApproved
	}
	return LabelRejected
}

// ScoreResult es el payload que se renderiza tras evaluar una solicitud.
type ScoreResult struct {
	RecordID          int64     `json:"record_id,omitempty"`
	Saved             bool      `json:"saved"`
	Result            int       `json:"result"`
	Label             string    `json:"label"`
	Confidence        float64   `json:"confidence"`
	LoanAmount        float64   `json:"loan_amount"`
	TotalIncome       float64   `json:"total_income"`
	LoanToIncomeRatio float64   `json:"loan_to_income_ratio"`
	EMI               float64   `json:"emi"`
	Timestamp         time.Time `json:"timestamp"`
	ApplicantIncome   float64   `json:"applicant_income"`
	CoapplicantIncome float64   `json:"coapplicant_income"`
	LoanTerm          float64   `json:"loan_term"`
}

// HistoryEntry es una fila del historial de la sesion.
type HistoryEntry struct {
	ID                int64   `json:"id"`
	Timestamp         string  `json:"timestamp"`
	Result            string  `json:"result"`
	LoanAmount        float64 `json:"loan_amount"`
	ApplicantIncome   float64 `json:"applicant_income"`
	CoapplicantIncome float64 `json:"coapplicant_income"`
	TotalIncome       float64 `json:"total_income"`
	Confidence        float64 `json:"confidence"`
	Gender            string  `json:"gender"`
	Married           string  `json:"married"`
	Dependents        int     `json:"dependents"`
}

// NewHistoryEntry arma la fila de historial a partir de un registro persistido.
func NewHistoryEntry(r PredictionRecord) HistoryEntry {
	gender := "Female"
	if r.Application.Gender == GenderMale {
		gender = "Male"
	}
	married := "No"
	if r.Application.Married == MarriedYes {
		married = "Yes"
	}
	return HistoryEntry{
		ID:                r.ID,
		Timestamp:         r.CreatedAt.Format(HistoryTimeLayout),
		Result:            ResultLabel(r.PredictionResult),
		LoanAmount:        r.Application.LoanAmount,
		ApplicantIncome:   r.Application.ApplicantIncome,
		CoapplicantIncome: r.Application.CoapplicantIncome,
		TotalIncome:       r.TotalIncome,
		Confidence:        r.Confidence,
		Gender:            gender,
		Married:           married,
		Dependents:        r.Application.Dependents,
	}
}

type Stats struct {
	Total         int     `json:"total"`
	Approved      int     `json:"approved"`
	Rejected      int     `json:"rejected"`
	ApprovalRate  float64 `json:"approval_rate"`
	AvgConfidence float64 `json:"avg_confidence"`
}
