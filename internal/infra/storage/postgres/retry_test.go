package postgres

import (
	"errors"
	"testing"
)

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"connection refused", errors.New("dial tcp 127.0.0.1:5432: connect: connection refused"), true},
		{"connection reset", errors.New("read tcp: connection reset by peer"), true},
		{"db starting up", errors.New("FATAL: the database system is starting up"), true},
		{"too many clients", errors.New("FATAL: sorry, too many clients already"), true},
		{"serialization failure", errors.New("ERROR: could not serialize access (SQLSTATE 40001)"), true},
		{"deadlock", errors.New("ERROR: deadlock detected (SQLSTATE 40P01)"), true},
		{"unique violation", errors.New("ERROR: duplicate key value violates unique constraint (SQLSTATE 23505)"), false},
		{"syntax error", errors.New("ERROR: syntax error at or near \"SELCT\" (SQLSTATE 42601)"), false},
		{"plain error", errors.New("something else broke"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isTransient(tt.err); got != tt.want {
				t.Errorf("isTransient(%q) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestWithBackoffPermanentError(t *testing.T) {
	calls := 0
	err := withBackoff(func() error {
		calls++
		return errors.New("ERROR: duplicate key value (SQLSTATE 23505)")
	})
	if err == nil {
		t.Fatal("Expected error")
	}
	if calls != 1 {
		t.Errorf("Expected 1 call for permanent error, got %d", calls)
	}
}

func TestWithBackoffRecovers(t *testing.T) {
	calls := 0
	err := withBackoff(func() error {
		calls++
		if calls < 3 {
			return errors.New("connection refused")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Expected success after retries, got %v", err)
	}
	if calls != 3 {
		t.Errorf("Expected 3 calls, got %d", calls)
	}
}
