package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"loan-predictor/internal/db"
	"loan-predictor/internal/domain"
)

func newTestSQLiteRepo(t *testing.T) *SQLitePredictionRepository {
	t.Helper()
	ctx := context.Background()
	conn, err := db.OpenSQLite(ctx, "file:"+filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if err := db.MigrateSQLite(ctx, conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewSQLitePredictionRepository(conn)
}

func sampleRecord(sessionID string, createdAt time.Time, result int) domain.PredictionRecord {
	return domain.PredictionRecord{
		SessionID: sessionID,
		CreatedAt: createdAt,
		Application: domain.LoanApplication{
			Gender:            domain.GenderMale,
			Married:           domain.MarriedYes,
			Dependents:        domain.DependentsThreePlus,
			Education:         domain.EducationGraduate,
			SelfEmployed:      domain.SelfEmployedNo,
			ApplicantIncome:   50000,
			CoapplicantIncome: 15000,
			LoanAmount:        150000,
			LoanAmountTerm:    360,
			CreditHistory:     1,
			PropertyArea:      domain.PropertyAreaUrban,
		},
		PredictionResult:  result,
		Confidence:        91.2,
		TotalIncome:       65000,
		LoanToIncomeRatio: 150000.0 / 65000.0,
	}
}

func TestSQLitePredictionRepository_CreateAndList(t *testing.T) {
	repo := newTestSQLiteRepo(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		id, err := repo.Create(ctx, sampleRecord("s1", base.Add(time.Duration(i)*time.Minute), i%2))
		if err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
		if id == 0 {
			t.Fatalf("expected generated id")
		}
	}

	records, err := repo.ListBySessionID(ctx, "s1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if !records[0].CreatedAt.Equal(base.Add(2 * time.Minute)) {
		t.Fatalf("expected newest first, got %v", records[0].CreatedAt)
	}
	got := records[2]
	if got.SessionID != "s1" || got.Application.Dependents != domain.DependentsThreePlus {
		t.Fatalf("unexpected record roundtrip: %+v", got)
	}
	if got.Application.PropertyArea != domain.PropertyAreaUrban || got.Confidence != 91.2 {
		t.Fatalf("unexpected record fields: %+v", got)
	}
}

func TestSQLitePredictionRepository_SessionIsolation(t *testing.T) {
	repo := newTestSQLiteRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	// Mismos valores, distinta sesion.
	if _, err := repo.Create(ctx, sampleRecord("s1", now, 1)); err != nil {
		t.Fatalf("create s1: %v", err)
	}
	if _, err := repo.Create(ctx, sampleRecord("s2", now, 1)); err != nil {
		t.Fatalf("create s2: %v", err)
	}

	records, err := repo.ListBySessionID(ctx, "s2")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 1 || records[0].SessionID != "s2" {
		t.Fatalf("expected only s2 records, got %+v", records)
	}

	none, err := repo.ListBySessionID(ctx, "unknown")
	if err != nil {
		t.Fatalf("list unknown: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected no records, got %d", len(none))
	}
}

func TestSQLitePredictionRepository_DeleteBySessionID(t *testing.T) {
	repo := newTestSQLiteRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	for i := 0; i < 4; i++ {
		if _, err := repo.Create(ctx, sampleRecord("s1", now, 1)); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	if _, err := repo.Create(ctx, sampleRecord("s2", now, 0)); err != nil {
		t.Fatalf("create s2: %v", err)
	}

	deleted, err := repo.DeleteBySessionID(ctx, "s1")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted != 4 {
		t.Fatalf("expected 4 deleted, got %d", deleted)
	}
	left, _ := repo.ListBySessionID(ctx, "s1")
	if len(left) != 0 {
		t.Fatalf("expected empty history after delete, got %d", len(left))
	}
	other, _ := repo.ListBySessionID(ctx, "s2")
	if len(other) != 1 {
		t.Fatalf("expected s2 untouched, got %d", len(other))
	}
}

func TestSQLitePredictionRepository_DeleteOlderThan(t *testing.T) {
	repo := newTestSQLiteRepo(t)
	ctx := context.Background()
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	if _, err := repo.Create(ctx, sampleRecord("s1", now.AddDate(0, 0, -100), 1)); err != nil {
		t.Fatalf("create old: %v", err)
	}
	if _, err := repo.Create(ctx, sampleRecord("s1", now.AddDate(0, 0, -1), 1)); err != nil {
		t.Fatalf("create recent: %v", err)
	}

	deleted, err := repo.DeleteOlderThan(ctx, now.AddDate(0, 0, -90))
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("expected 1 purged, got %d", deleted)
	}
	left, _ := repo.ListBySessionID(ctx, "s1")
	if len(left) != 1 {
		t.Fatalf("expected recent record kept, got %d", len(left))
	}
}
