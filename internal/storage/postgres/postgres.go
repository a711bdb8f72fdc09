package postgres

import (
	"context"
	"errors"
	"filmorate/proj/internal/storage"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Storage struct {
	Conn *pgxpool.Pool
}

const (
	ErrConflictCode   = "23505"
	ErrForeignKeyCode = "23503"
	ErrCheckCode      = "23514"
)

func New(ctx context.Context, dsn string, maxConns int, maxConnIdleTime, connectTimeout time.Duration) (*Storage, error) {
	const op = "postgres.New"
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	cfg.MaxConns = int32(maxConns)
	cfg.MaxConnIdleTime = maxConnIdleTime
	cfg.ConnConfig.ConnectTimeout = connectTimeout
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s: ping: %w", op, err)
	}
	return &Storage{Conn: pool}, nil
}

func (s *Storage) Close() {
	s.Conn.Close()
}

// TranslateErr maps driver errors onto the storage sentinels. Unknown errors
// are returned unchanged.
func TranslateErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case ErrConflictCode, ErrCheckCode:
			return storage.ErrConflict
		case ErrForeignKeyCode:
			return storage.ErrNotFound
		}
	}
	return err
}
