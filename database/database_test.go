package database

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
)

func TestErr(t *testing.T) {
	other := errors.New("connection reset")

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"no rows", sql.ErrNoRows, ErrDBNotFound},
		{"wrapped no rows", fmt.Errorf("selecting: %w", sql.ErrNoRows), ErrDBNotFound},
		{"unique violation", &pq.Error{Code: "23505"}, ErrDBDuplicatedEntry},
		{"foreign key violation", &pq.Error{Code: "23503"}, ErrDBReferenced},
		{"other driver error", &pq.Error{Code: "22003"}, nil},
		{"unrelated", other, other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Err(tt.err)
			if tt.want == nil {
				if got != tt.err {
					t.Fatalf("expected error to pass through, got %v", got)
				}
				return
			}
			if !errors.Is(got, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
