package db

import (
	"context"
	"path/filepath"
	"testing"
)

func TestWithPragmas(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"file:test.db", "file:test.db?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"},
		{"file:test.db?cache=shared", "file:test.db?cache=shared&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"},
		{"file:test.db?_pragma=busy_timeout(100)", "file:test.db?_pragma=busy_timeout(100)"},
	}
	for _, c := range cases {
		if got := withPragmas(c.in); got != c.want {
			t.Fatalf("withPragmas(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestOpenSQLiteAndMigrate(t *testing.T) {
	ctx := context.Background()
	dsn := "file:" + filepath.Join(t.TempDir(), "predictions.db")

	conn, err := OpenSQLite(ctx, dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer conn.Close()

	if err := MigrateSQLite(ctx, conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	// Idempotente.
	if err := MigrateSQLite(ctx, conn); err != nil {
		t.Fatalf("second migrate: %v", err)
	}

	var n int
	if err := conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM predictions").Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected empty table, got %d rows", n)
	}
}
