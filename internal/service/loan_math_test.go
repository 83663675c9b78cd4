package service

import (
	"math"
	"testing"
)

func TestLoanToIncomeRatio(t *testing.T) {
	cases := []struct {
		loan, applicant, coapplicant float64
		want                         float64
	}{
		{150000, 50000, 15000, 2.31},
		{100000, 100000, 0, 1},
		{50000, 0, 0, 0},
		{12345, 10000, 333, 1.19},
	}
	for _, c := range cases {
		total := TotalIncome(c.applicant, c.coapplicant)
		got := Round(LoanToIncomeRatio(c.loan, total), 2)
		if got != c.want {
			t.Fatalf("ratio(%v, %v) = %v, want %v", c.loan, total, got, c.want)
		}
		if got < 0 {
			t.Fatalf("ratio must be non-negative")
		}
	}
}

func TestEMI_StandardAmortization(t *testing.T) {
	got := EMI(100000, 12, 8.5)
	r := 8.5 / 1200
	want := 100000 * r * math.Pow(1+r, 12) / (math.Pow(1+r, 12) - 1)
	if got != want {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if Round(got, 2) != 8721.98 {
		t.Fatalf("expected 8721.98, got %v", Round(got, 2))
	}
}

func TestEMI_EdgeCases(t *testing.T) {
	if got := EMI(100000, 0, 8.5); got != 0 {
		t.Fatalf("expected 0 for zero term, got %v", got)
	}
	if got := EMI(120000, 12, 0); got != 10000 {
		t.Fatalf("expected straight-line payment for zero rate, got %v", got)
	}
}

func TestRound(t *testing.T) {
	cases := []struct {
		in     float64
		places int
		want   float64
	}{
		{88.0797, 1, 88.1},
		{2.3077, 2, 2.31},
		{60, 1, 60},
		{-1.25, 1, -1.3},
	}
	for _, c := range cases {
		if got := Round(c.in, c.places); got != c.want {
			t.Fatalf("Round(%v, %d) = %v, want %v", c.in, c.places, got, c.want)
		}
	}
}
