package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder agrupa las metricas del servicio. Un Recorder nil no registra nada.
type Recorder struct {
	gatherer prometheus.Gatherer

	predictionsScored  *prometheus.CounterVec
	validationFailures prometheus.Counter
	modelUnavailable   prometheus.Counter
	persistFailures    prometheus.Counter
	rateLimited        prometheus.Counter
	historyCleared     prometheus.Counter
	retentionPurged    prometheus.Counter
	scoringDuration    prometheus.Histogram
}

// New registra las metricas en un registry propio.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return NewWithRegistry(reg, reg)
}

func NewWithRegistry(reg prometheus.Registerer, gatherer prometheus.Gatherer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		gatherer: gatherer,
		predictionsScored: f.NewCounterVec(prometheus.CounterOpts{
			Name: "loan_predictor_predictions_scored_total",
			Help: "Total number of applications scored, by result.",
		}, []string{"result"}),
		validationFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "loan_predictor_validation_failures_total",
			Help: "Total number of submissions rejected by validation.",
		}),
		modelUnavailable: f.NewCounter(prometheus.CounterOpts{
			Name: "loan_predictor_model_unavailable_total",
			Help: "Total number of scoring requests refused because the model is not loaded.",
		}),
		persistFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "loan_predictor_persist_failures_total",
			Help: "Total number of scored predictions that could not be saved.",
		}),
		rateLimited: f.NewCounter(prometheus.CounterOpts{
			Name: "loan_predictor_rate_limited_total",
			Help: "Total number of submissions refused by the per-session limiter.",
		}),
		historyCleared: f.NewCounter(prometheus.CounterOpts{
			Name: "loan_predictor_history_cleared_records_total",
			Help: "Total number of records deleted through clear history.",
		}),
		retentionPurged: f.NewCounter(prometheus.CounterOpts{
			Name: "loan_predictor_retention_purged_records_total",
			Help: "Total number of records deleted by the retention policy.",
		}),
		scoringDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "loan_predictor_scoring_duration_seconds",
			Help:    "Duration of a full scoring request (validate, score, persist).",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
		}),
	}
}

// Handler expone las metricas en formato Prometheus.
func (r *Recorder) Handler() http.Handler {
	if r == nil || r.gatherer == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})
}

func (r *Recorder) PredictionScored(label string) {
	if r == nil {
		return
	}
	r.predictionsScored.WithLabelValues(label).Inc()
}

func (r *Recorder) ValidationFailed() {
	if r == nil {
		return
	}
	r.validationFailures.Inc()
}

func (r *Recorder) ModelUnavailable() {
	if r == nil {
		return
	}
	r.modelUnavailable.Inc()
}

func (r *Recorder) PersistFailed() {
	if r == nil {
		return
	}
	r.persistFailures.Inc()
}

func (r *Recorder) RateLimited() {
	if r == nil {
		return
	}
	r.rateLimited.Inc()
}

func (r *Recorder) HistoryCleared(n int64) {
	if r == nil || n <= 0 {
		return
	}
	r.historyCleared.Add(float64(n))
}

func (r *Recorder) RetentionPurged(n int64) {
	if r == nil || n <= 0 {
		return
	}
	r.retentionPurged.Add(float64(n))
}

func (r *Recorder) ObserveScoring(start time.Time) {
	if r == nil {
		return
	}
	r.scoringDuration.Observe(time.Since(start).Seconds())
}
