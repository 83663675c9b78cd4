package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"loan-predictor/internal/domain"
	"loan-predictor/internal/metrics"
	"loan-predictor/internal/model"
	"loan-predictor/internal/repository"
)

// DefaultFallbackConfidence se usa cuando el modelo no expone probabilidades.
const DefaultFallbackConfidence = 83

var (
	ErrNoSession        = errors.New("no session")
	ErrRateLimited      = errors.New("rate limited")
	ErrModelUnavailable = model.ErrModelUnavailable
)

// PersistenceError envuelve fallas de escritura o lectura del historial.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

type LoanServiceConfig struct {
	EMIAnnualRate      float64
	FallbackConfidence float64
	// Retention <= 0 desactiva la purga automatica.
	Retention time.Duration
}

// LoanService coordina validacion, scoring y persistencia del historial.
type LoanService struct {
	logger      *zap.Logger
	predictions repository.PredictionRepository
	classifier  model.Classifier
	limiter     SubmissionRateLimiter
	metrics     *metrics.Recorder
	cfg         LoanServiceConfig
	now         func() time.Time
}

func NewLoanService(
	logger *zap.Logger,
	predictions repository.PredictionRepository,
	classifier model.Classifier,
	limiter SubmissionRateLimiter,
	recorder *metrics.Recorder,
	cfg LoanServiceConfig,
) *LoanService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if classifier == nil {
		classifier = model.NewUnavailableClassifier(nil)
	}
	if cfg.EMIAnnualRate <= 0 {
		cfg.EMIAnnualRate = DefaultEMIAnnualRate
	}
	if cfg.FallbackConfidence <= 0 || cfg.FallbackConfidence > 100 {
		cfg.FallbackConfidence = DefaultFallbackConfidence
	}
	return &LoanService{
		logger:      logger,
		predictions: predictions,
		classifier:  classifier,
		limiter:     limiter,
		metrics:     recorder,
		cfg:         cfg,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// ModelReady informa si el clasificador esta cargado.
func (s *LoanService) ModelReady() error {
	return s.classifier.Ready()
}

// Score valida el formulario, evalua el modelo y guarda el resultado para la sesion.
// El limite de envios se aplica por IP de origen y por sesion.
// Si falla el guardado, el resultado igual se devuelve con Saved=false.
func (s *LoanService) Score(ctx context.Context, sessionID, clientIP string, form url.Values) (domain.ScoreResult, error) {
	start := time.Now()
	defer s.metrics.ObserveScoring(start)

	if err := s.classifier.Ready(); err != nil {
		s.metrics.ModelUnavailable()
		return domain.ScoreResult{}, err
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return domain.ScoreResult{}, ErrNoSession
	}
	if !s.allowSubmission(sessionID, clientIP) {
		s.metrics.RateLimited()
		s.logger.Info("submission rate limited", zap.String("session_id", sessionID), zap.String("client_ip", clientIP))
		return domain.ScoreResult{}, ErrRateLimited
	}

	app, err := ValidateApplication(form)
	if err != nil {
		s.metrics.ValidationFailed()
		s.logger.Info("application rejected by validation", zap.String("session_id", sessionID), zap.Error(err))
		return domain.ScoreResult{}, err
	}

	features := app.Features()
	label, err := s.classifier.Predict(features)
	if err != nil {
		return domain.ScoreResult{}, fmt.Errorf("predict: %w", err)
	}
	if label != domain.PredictionApproved && label != domain.PredictionRejected {
		return domain.ScoreResult{}, fmt.Errorf("predict: unexpected label %d", label)
	}

	confidence := s.cfg.FallbackConfidence
	prob, ok, err := s.classifier.Confidence(features)
	if err != nil {
		return domain.ScoreResult{}, fmt.Errorf("confidence: %w", err)
	}
	if ok {
		confidence = clamp(Round(prob*100, 1), 0, 100)
	}

	totalIncome := TotalIncome(app.ApplicantIncome, app.CoapplicantIncome)
	ratio := LoanToIncomeRatio(app.LoanAmount, totalIncome)
	emi := EMI(app.LoanAmount, app.LoanAmountTerm, s.cfg.EMIAnnualRate)
	now := s.now()

	record := domain.PredictionRecord{
		SessionID:         sessionID,
		CreatedAt:         now,
		Application:       app,
		PredictionResult:  label,
		Confidence:        confidence,
		TotalIncome:       totalIncome,
		LoanToIncomeRatio: ratio,
	}

	result := domain.ScoreResult{
		Result:            label,
		Label:             domain.ResultLabel(label),
		Confidence:        confidence,
		LoanAmount:        app.LoanAmount,
		TotalIncome:       totalIncome,
		LoanToIncomeRatio: Round(ratio, 2),
		EMI:               Round(emi, 2),
		Timestamp:         now,
		ApplicantIncome:   app.ApplicantIncome,
		CoapplicantIncome: app.CoapplicantIncome,
		LoanTerm:          app.LoanAmountTerm,
	}

	id, err := s.predictions.Create(ctx, record)
	if err != nil {
		s.metrics.PersistFailed()
		s.logger.Error("save prediction failed",
			zap.String("session_id", sessionID),
			zap.Error(&PersistenceError{Op: "save prediction", Err: err}),
		)
	} else {
		result.RecordID = id
		result.Saved = true
	}

	s.metrics.PredictionScored(result.Label)
	s.logger.Info("application scored",
		zap.String("session_id", sessionID),
		zap.String("result", result.Label),
		zap.Float64("confidence", confidence),
		zap.Float64("loan_to_income_ratio", result.LoanToIncomeRatio),
		zap.Bool("saved", result.Saved),
	)
	return result, nil
}

// ListHistory devuelve el historial de la sesion, mas reciente primero.
func (s *LoanService) ListHistory(ctx context.Context, sessionID string) ([]domain.HistoryEntry, error) {
	records, err := s.sessionRecords(ctx, sessionID, "list history")
	if err != nil {
		return nil, err
	}
	entries := make([]domain.HistoryEntry, 0, len(records))
	for _, r := range records {
		entries = append(entries, domain.NewHistoryEntry(r))
	}
	return entries, nil
}

// ClearHistory borra todos los registros de la sesion y devuelve cuantos elimino.
func (s *LoanService) ClearHistory(ctx context.Context, sessionID string) (int64, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return 0, ErrNoSession
	}
	deleted, err := s.predictions.DeleteBySessionID(ctx, sessionID)
	if err != nil {
		return 0, &PersistenceError{Op: "clear history", Err: err}
	}
	s.metrics.HistoryCleared(deleted)
	s.logger.Info("history cleared", zap.String("session_id", sessionID), zap.Int64("deleted", deleted))
	return deleted, nil
}

func (s *LoanService) Stats(ctx context.Context, sessionID string) (domain.Stats, error) {
	records, err := s.sessionRecords(ctx, sessionID, "stats")
	if err != nil {
		return domain.Stats{}, err
	}
	return computeStats(records), nil
}

// PurgeExpired aplica la politica de retencion.
func (s *LoanService) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	if s.cfg.Retention <= 0 {
		return 0, nil
	}
	deleted, err := s.predictions.DeleteOlderThan(ctx, now.Add(-s.cfg.Retention))
	if err != nil {
		return 0, &PersistenceError{Op: "purge expired", Err: err}
	}
	s.metrics.RetentionPurged(deleted)
	return deleted, nil
}

func (s *LoanService) sessionRecords(ctx context.Context, sessionID, op string) ([]domain.PredictionRecord, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, nil
	}
	records, err := s.predictions.ListBySessionID(ctx, sessionID)
	if err != nil {
		return nil, &PersistenceError{Op: op, Err: err}
	}
	return records, nil
}

// allowSubmission consume un envio de la IP y otro de la sesion. La IP acota a
// clientes que descartan la cookie y reciben una sesion nueva en cada request.
func (s *LoanService) allowSubmission(sessionID, clientIP string) bool {
	if s.limiter == nil {
		return true
	}
	if ip := strings.TrimSpace(clientIP); ip != "" && !s.limiter.Allow("ip:"+ip) {
		return false
	}
	return s.limiter.Allow("session:" + sessionID)
}

func computeStats(records []domain.PredictionRecord) domain.Stats {
	total := len(records)
	if total == 0 {
		return domain.Stats{}
	}
	approved := 0
	confidences := make([]float64, 0, total)
	for _, r := range records {
		if r.Approved() {
			approved++
		}
		confidences = append(confidences, r.Confidence)
	}
	return domain.Stats{
		Total:         total,
		Approved:      approved,
		Rejected:      total - approved,
		ApprovalRate:  Round(float64(approved)/float64(total)*100, 1),
		AvgConfidence: Round(stat.Mean(confidences, nil), 1),
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
