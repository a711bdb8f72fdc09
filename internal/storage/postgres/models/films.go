package models

import (
	"context"
	"filmorate/proj/internal/domain/fields"
	"filmorate/proj/internal/domain/models"
	"filmorate/proj/internal/storage"
	"filmorate/proj/internal/storage/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FilmModel struct {
	DB *pgxpool.Pool
}

type filmRow struct {
	ID          int64       `db:"id"`
	Name        string      `db:"name"`
	Description string      `db:"description"`
	ReleaseDate fields.Date `db:"release_date"`
	Duration    int32       `db:"duration"`
	MpaID       *int64      `db:"mpa_id"`
	GenreIDs    []int64     `db:"genre_ids"`
}

func (r filmRow) toFilm() models.Film {
	film := models.Film{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		ReleaseDate: r.ReleaseDate,
		Duration:    r.Duration,
		Genres:      make([]models.Genre, 0, len(r.GenreIDs)),
	}
	if r.MpaID != nil {
		film.Mpa = &models.RatingMpa{ID: *r.MpaID}
	}
	for _, id := range r.GenreIDs {
		film.Genres = append(film.Genres, models.Genre{ID: id})
	}
	return film
}

const selectFilms = `
	SELECT f.id, f.name, f.description, f.release_date, f.duration, f.mpa_id,
		COALESCE(array_agg(fg.genre_id ORDER BY fg.genre_id) FILTER (WHERE fg.genre_id IS NOT NULL), '{}') AS genre_ids
	FROM films f
	LEFT JOIN film_genres fg ON fg.film_id = f.id`

func mpaID(film models.Film) *int64 {
	if film.Mpa == nil {
		return nil
	}
	return &film.Mpa.ID
}

func (m *FilmModel) Get(ctx context.Context, id int64) (*models.Film, error) {
	rows, _ := m.DB.Query(ctx, selectFilms+" WHERE f.id = $1 GROUP BY f.id", id)
	row, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[filmRow])
	if err != nil {
		return nil, postgres.TranslateErr(err)
	}
	film := row.toFilm()
	return &film, nil
}

func (m *FilmModel) List(ctx context.Context) ([]models.Film, error) {
	rows, _ := m.DB.Query(ctx, selectFilms+" GROUP BY f.id ORDER BY f.id")
	filmRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[filmRow])
	if err != nil {
		return nil, postgres.TranslateErr(err)
	}
	films := make([]models.Film, 0, len(filmRows))
	for _, row := range filmRows {
		films = append(films, row.toFilm())
	}
	return films, nil
}

// Create inserts the film and its genre links in one transaction.
func (m *FilmModel) Create(ctx context.Context, film models.Film) (*models.Film, error) {
	err := inTx(ctx, m.DB, func(tx pgx.Tx) error {
		if err := tx.QueryRow(
			ctx,
			`INSERT INTO films (name, description, release_date, duration, mpa_id)
			VALUES ($1, $2, $3, $4, $5) RETURNING id`,
			film.Name,
			film.Description,
			film.ReleaseDate,
			film.Duration,
			mpaID(film),
		).Scan(&film.ID); err != nil {
			return err
		}
		return replaceLinks(ctx, tx, "film_genres", "film_id", "genre_id", film.ID, film.GenreIDs())
	})
	if err != nil {
		return nil, postgres.TranslateErr(err)
	}
	return m.Get(ctx, film.ID)
}

func (m *FilmModel) Update(ctx context.Context, film models.Film) (*models.Film, error) {
	err := inTx(ctx, m.DB, func(tx pgx.Tx) error {
		status, err := tx.Exec(
			ctx,
			`UPDATE films SET name = $1, description = $2, release_date = $3, duration = $4, mpa_id = $5
			WHERE id = $6`,
			film.Name,
			film.Description,
			film.ReleaseDate,
			film.Duration,
			mpaID(film),
			film.ID,
		)
		if err != nil {
			return err
		}
		if status.RowsAffected() == 0 {
			return storage.ErrNotFound
		}
		return replaceLinks(ctx, tx, "film_genres", "film_id", "genre_id", film.ID, film.GenreIDs())
	})
	if err != nil {
		return nil, postgres.TranslateErr(err)
	}
	return m.Get(ctx, film.ID)
}

// Delete removes the film; genre links and likes go with it via ON DELETE CASCADE.
func (m *FilmModel) Delete(ctx context.Context, id int64) (*models.Film, error) {
	film, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	status, err := m.DB.Exec(ctx, "DELETE FROM films WHERE id = $1", id)
	if err != nil {
		return nil, err
	}
	if status.RowsAffected() == 0 {
		return nil, storage.ErrNotFound
	}
	return film, nil
}
