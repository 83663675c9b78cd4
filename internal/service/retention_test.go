package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"loan-predictor/internal/domain"
	"loan-predictor/internal/model"
)

func TestRetentionWorker_PurgesOnStartAndStops(t *testing.T) {
	repo := &mockPredictionRepo{}
	repo.records = append(repo.records, domain.PredictionRecord{
		ID:        1,
		SessionID: "s1",
		CreatedAt: time.Now().UTC().AddDate(0, 0, -365),
	})
	svc := NewLoanService(nil, repo, &model.MockClassifier{}, nil, nil, LoanServiceConfig{Retention: 24 * time.Hour})
	w := NewRetentionWorker(zap.NewNop(), svc, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for repo.count() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("expected expired record purged on start")
		}
		time.Sleep(10 * time.Millisecond)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("expected worker to stop on cancel")
	}
}
