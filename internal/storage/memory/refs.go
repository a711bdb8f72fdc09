package memory

import (
	"context"
	"filmorate/proj/internal/domain/models"
	"filmorate/proj/internal/storage"
)

var (
	DefaultGenres = []models.Genre{
		{ID: 1, Name: "Comedy"},
		{ID: 2, Name: "Drama"},
		{ID: 3, Name: "Cartoon"},
		{ID: 4, Name: "Thriller"},
		{ID: 5, Name: "Documentary"},
		{ID: 6, Name: "Action"},
	}
	DefaultRatings = []models.RatingMpa{
		{ID: 1, Name: "G"},
		{ID: 2, Name: "PG"},
		{ID: 3, Name: "PG-13"},
		{ID: 4, Name: "R"},
		{ID: 5, Name: "NC-17"},
	}
)

// RefStorage serves the static genre and MPA rating tables. It is read-only
// after construction so it needs no lock.
type RefStorage struct {
	genres  []models.Genre
	ratings []models.RatingMpa
}

func NewRefStorage() *RefStorage {
	return &RefStorage{
		genres:  append([]models.Genre(nil), DefaultGenres...),
		ratings: append([]models.RatingMpa(nil), DefaultRatings...),
	}
}

func (s *RefStorage) ListGenres(_ context.Context) ([]models.Genre, error) {
	return append([]models.Genre(nil), s.genres...), nil
}

func (s *RefStorage) GetGenre(_ context.Context, id int64) (*models.Genre, error) {
	for _, g := range s.genres {
		if g.ID == id {
			genre := g
			return &genre, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *RefStorage) ListRatings(_ context.Context) ([]models.RatingMpa, error) {
	return append([]models.RatingMpa(nil), s.ratings...), nil
}

func (s *RefStorage) GetRating(_ context.Context, id int64) (*models.RatingMpa, error) {
	for _, r := range s.ratings {
		if r.ID == id {
			rating := r
			return &rating, nil
		}
	}
	return nil, storage.ErrNotFound
}
