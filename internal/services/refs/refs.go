package refs

import (
	"context"
	"errors"
	"filmorate/proj/internal/domain/errs"
	"filmorate/proj/internal/domain/models"
	"filmorate/proj/internal/storage"
	"fmt"
	"log/slog"
)

var (
	ErrGenreNotFound  = errs.NotFound("genre not found")
	ErrRatingNotFound = errs.NotFound("mpa rating not found")
)

type Storage interface {
	ListGenres(ctx context.Context) ([]models.Genre, error)
	GetGenre(ctx context.Context, id int64) (*models.Genre, error)
	ListRatings(ctx context.Context) ([]models.RatingMpa, error)
	GetRating(ctx context.Context, id int64) (*models.RatingMpa, error)
}

// RefService exposes the read-only genre and MPA rating tables.
type RefService struct {
	log     *slog.Logger
	storage Storage
}

func New(log *slog.Logger, storage Storage) *RefService {
	return &RefService{log: log, storage: storage}
}

func (s *RefService) ListGenres(ctx context.Context) ([]models.Genre, error) {
	const op = "refs.RefService.ListGenres"
	genres, err := s.storage.ListGenres(ctx)
	if err != nil {
		s.log.Error(err.Error(), "op", op)
		return nil, err
	}
	return genres, nil
}

func (s *RefService) GetGenre(ctx context.Context, id int64) (*models.Genre, error) {
	const op = "refs.RefService.GetGenre"
	log := s.log.With("op", op, "id", id)
	genre, err := s.storage.GetGenre(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("genre not found")
			return nil, fmt.Errorf("genre %d: %w", id, ErrGenreNotFound)
		}
		log.Error(err.Error())
		return nil, err
	}
	return genre, nil
}

func (s *RefService) ListRatings(ctx context.Context) ([]models.RatingMpa, error) {
	const op = "refs.RefService.ListRatings"
	ratings, err := s.storage.ListRatings(ctx)
	if err != nil {
		s.log.Error(err.Error(), "op", op)
		return nil, err
	}
	return ratings, nil
}

func (s *RefService) GetRating(ctx context.Context, id int64) (*models.RatingMpa, error) {
	const op = "refs.RefService.GetRating"
	log := s.log.With("op", op, "id", id)
	rating, err := s.storage.GetRating(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("mpa rating not found")
			return nil, fmt.Errorf("mpa %d: %w", id, ErrRatingNotFound)
		}
		log.Error(err.Error())
		return nil, err
	}
	return rating, nil
}
