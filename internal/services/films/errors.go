package films

import "filmorate/proj/internal/domain/errs"

var (
	ErrFilmNotFound        = errs.NotFound("film not found")
	ErrUserNotFound        = errs.NotFound("user not found")
	ErrGenreNotFound       = errs.NotFound("genre not found")
	ErrRatingNotFound      = errs.NotFound("mpa rating not found")
	ErrNoPopularFilms      = errs.NotFound("no popular films found")
	ErrIDRequired          = errs.Validation("film id must be provided")
	ErrReleaseDateTooEarly = errs.Validation("release date must not be earlier than 1895-12-28")
	ErrInvalidCount        = errs.Validation("count must be a positive number")
	ErrAlreadyLiked        = errs.Conflict("user has already liked this film")
	ErrLikeNotFound        = errs.Conflict("user has not liked this film")
)
