package models

import (
	"context"
	"filmorate/proj/internal/storage/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type LikeModel struct {
	DB *pgxpool.Pool
}

func (m *LikeModel) Add(ctx context.Context, filmID, userID int64) error {
	_, err := m.DB.Exec(ctx, "INSERT INTO likes (film_id, user_id) VALUES ($1, $2)", filmID, userID)
	return postgres.TranslateErr(err)
}

func (m *LikeModel) Remove(ctx context.Context, filmID, userID int64) error {
	_, err := m.DB.Exec(ctx, "DELETE FROM likes WHERE film_id = $1 AND user_id = $2", filmID, userID)
	return err
}

func (m *LikeModel) Contains(ctx context.Context, filmID, userID int64) (bool, error) {
	var exists bool
	err := m.DB.QueryRow(
		ctx,
		"SELECT EXISTS (SELECT 1 FROM likes WHERE film_id = $1 AND user_id = $2)",
		filmID,
		userID,
	).Scan(&exists)
	return exists, err
}

func (m *LikeModel) ListFor(ctx context.Context, filmID int64) ([]int64, error) {
	rows, _ := m.DB.Query(ctx, "SELECT user_id FROM likes WHERE film_id = $1 ORDER BY user_id", filmID)
	return pgx.CollectRows(rows, pgx.RowTo[int64])
}

func (m *LikeModel) Replace(ctx context.Context, filmID int64, userIDs []int64) error {
	err := inTx(ctx, m.DB, func(tx pgx.Tx) error {
		return replaceLinks(ctx, tx, "likes", "film_id", "user_id", filmID, userIDs)
	})
	return postgres.TranslateErr(err)
}

func (m *LikeModel) RemoveFilm(ctx context.Context, filmID int64) error {
	_, err := m.DB.Exec(ctx, "DELETE FROM likes WHERE film_id = $1", filmID)
	return err
}

func (m *LikeModel) RemoveUser(ctx context.Context, userID int64) error {
	_, err := m.DB.Exec(ctx, "DELETE FROM likes WHERE user_id = $1", userID)
	return err
}
