package postgres

import (
	"errors"
	"filmorate/proj/internal/storage"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestTranslateErr(t *testing.T) {
	other := errors.New("connection reset")
	cases := []struct {
		name string
		err  error
		want error
	}{
		{"nil", nil, nil},
		{"no rows", pgx.ErrNoRows, storage.ErrNotFound},
		{"wrapped no rows", fmt.Errorf("select: %w", pgx.ErrNoRows), storage.ErrNotFound},
		{"unique violation", &pgconn.PgError{Code: ErrConflictCode}, storage.ErrConflict},
		{"check violation", &pgconn.PgError{Code: ErrCheckCode}, storage.ErrConflict},
		{"foreign key violation", &pgconn.PgError{Code: ErrForeignKeyCode}, storage.ErrNotFound},
		{"other pg error", &pgconn.PgError{Code: "42P01"}, nil},
		{"other", other, other},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := TranslateErr(tc.err)
			if tc.name == "other pg error" {
				var pgErr *pgconn.PgError
				assert.ErrorAs(t, got, &pgErr)
				return
			}
			assert.Equal(t, tc.want, got)
		})
	}
}
