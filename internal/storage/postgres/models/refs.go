package models

import (
	"context"
	"filmorate/proj/internal/domain/models"
	"filmorate/proj/internal/storage/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RefModel reads the genres and rating_mpa tables seeded by the migrations.
type RefModel struct {
	DB *pgxpool.Pool
}

func (m *RefModel) ListGenres(ctx context.Context) ([]models.Genre, error) {
	rows, _ := m.DB.Query(ctx, "SELECT id, name FROM genres ORDER BY id")
	return pgx.CollectRows(rows, pgx.RowToStructByName[models.Genre])
}

func (m *RefModel) GetGenre(ctx context.Context, id int64) (*models.Genre, error) {
	rows, _ := m.DB.Query(ctx, "SELECT id, name FROM genres WHERE id = $1", id)
	genre, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Genre])
	if err != nil {
		return nil, postgres.TranslateErr(err)
	}
	return &genre, nil
}

func (m *RefModel) ListRatings(ctx context.Context) ([]models.RatingMpa, error) {
	rows, _ := m.DB.Query(ctx, "SELECT id, name FROM rating_mpa ORDER BY id")
	return pgx.CollectRows(rows, pgx.RowToStructByName[models.RatingMpa])
}

func (m *RefModel) GetRating(ctx context.Context, id int64) (*models.RatingMpa, error) {
	rows, _ := m.DB.Query(ctx, "SELECT id, name FROM rating_mpa WHERE id = $1", id)
	rating, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.RatingMpa])
	if err != nil {
		return nil, postgres.TranslateErr(err)
	}
	return &rating, nil
}
