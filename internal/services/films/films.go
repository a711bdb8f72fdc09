package films

import (
	"context"
	"errors"
	"filmorate/proj/internal/domain/fields"
	"filmorate/proj/internal/domain/filters"
	"filmorate/proj/internal/domain/models"
	"filmorate/proj/internal/events"
	"filmorate/proj/internal/storage"
	"fmt"
	"log/slog"
	"sort"
	"time"
)

// MinReleaseDate is the day of the first public film screening.
var MinReleaseDate = fields.NewDate(1895, time.December, 28)

type FilmStorage interface {
	Create(ctx context.Context, film models.Film) (*models.Film, error)
	Get(ctx context.Context, id int64) (*models.Film, error)
	Update(ctx context.Context, film models.Film) (*models.Film, error)
	Delete(ctx context.Context, id int64) (*models.Film, error)
	List(ctx context.Context) ([]models.Film, error)
}

type LikeStorage interface {
	Add(ctx context.Context, filmID, userID int64) error
	Remove(ctx context.Context, filmID, userID int64) error
	Contains(ctx context.Context, filmID, userID int64) (bool, error)
	ListFor(ctx context.Context, filmID int64) ([]int64, error)
	Replace(ctx context.Context, filmID int64, userIDs []int64) error
	RemoveFilm(ctx context.Context, filmID int64) error
}

type UserLookup interface {
	Get(ctx context.Context, id int64) (*models.User, error)
}

type RefStorage interface {
	ListGenres(ctx context.Context) ([]models.Genre, error)
	GetGenre(ctx context.Context, id int64) (*models.Genre, error)
	ListRatings(ctx context.Context) ([]models.RatingMpa, error)
	GetRating(ctx context.Context, id int64) (*models.RatingMpa, error)
}

type EventDispatcher interface {
	Dispatch(e events.Event)
}

type Options struct {
	PopularDefaultCount   int
	PopularIncludeUnliked bool
}

type FilmService struct {
	log    *slog.Logger
	films  FilmStorage
	likes  LikeStorage
	users  UserLookup
	refs   RefStorage
	events EventDispatcher
	opts   Options
}

func New(
	log *slog.Logger,
	films FilmStorage,
	likes LikeStorage,
	users UserLookup,
	refs RefStorage,
	dispatcher EventDispatcher,
	opts Options,
) *FilmService {
	return &FilmService{
		log:    log,
		films:  films,
		likes:  likes,
		users:  users,
		refs:   refs,
		events: dispatcher,
		opts:   opts,
	}
}

func (s *FilmService) List(ctx context.Context) ([]models.Film, error) {
	const op = "films.FilmService.List"
	log := s.log.With("op", op)
	films, err := s.films.List(ctx)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	names, err := s.loadRefNames(ctx)
	if err != nil {
		log.Error("loading reference names: " + err.Error())
		return nil, err
	}
	for i := range films {
		if err := s.hydrate(ctx, &films[i], names); err != nil {
			log.Error("hydrating film: "+err.Error(), "id", films[i].ID)
			return nil, err
		}
	}
	return films, nil
}

func (s *FilmService) Get(ctx context.Context, id int64) (*models.Film, error) {
	const op = "films.FilmService.Get"
	log := s.log.With("op", op, "id", id)
	film, err := s.films.Get(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("film not found")
			return nil, ErrFilmNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	names, err := s.loadRefNames(ctx)
	if err != nil {
		log.Error("loading reference names: " + err.Error())
		return nil, err
	}
	if err := s.hydrate(ctx, film, names); err != nil {
		log.Error("hydrating film: " + err.Error())
		return nil, err
	}
	return film, nil
}

func (s *FilmService) Create(ctx context.Context, draft models.Film) (*models.Film, error) {
	const op = "films.FilmService.Create"
	log := s.log.With("op", op, "name", draft.Name)
	if err := validateReleaseDate(draft.ReleaseDate); err != nil {
		log.Info("invalid release date", "releaseDate", draft.ReleaseDate)
		return nil, err
	}
	if err := s.resolveRefs(ctx, &draft); err != nil {
		log.Info("unresolved reference", "reason", err.Error())
		return nil, err
	}
	likes, err := s.checkLikers(ctx, draft.Likes)
	if err != nil {
		log.Info("unknown liker", "reason", err.Error())
		return nil, err
	}
	draft.ID = 0
	film, err := s.films.Create(ctx, draft)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	if len(likes) > 0 {
		if err := s.likes.Replace(ctx, film.ID, likes); err != nil {
			log.Error("linking likes: "+err.Error(), "id", film.ID)
			return nil, err
		}
	}
	film.Genres, film.Mpa, film.Likes = draft.Genres, draft.Mpa, likes
	log.Info("film created", "id", film.ID)
	s.events.Dispatch(events.Film(events.FilmCreated, film.ID))
	return film, nil
}

// Update replaces every mutable field. Likes are replaced only when the draft
// carries them.
func (s *FilmService) Update(ctx context.Context, draft models.Film) (*models.Film, error) {
	const op = "films.FilmService.Update"
	log := s.log.With("op", op, "id", draft.ID)
	if draft.ID == 0 {
		log.Info("film id is missing")
		return nil, ErrIDRequired
	}
	if _, err := s.films.Get(ctx, draft.ID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("film not found")
			return nil, ErrFilmNotFound
		}
		log.Error("Error getting film: " + err.Error())
		return nil, err
	}
	if err := validateReleaseDate(draft.ReleaseDate); err != nil {
		log.Info("invalid release date", "releaseDate", draft.ReleaseDate)
		return nil, err
	}
	if err := s.resolveRefs(ctx, &draft); err != nil {
		log.Info("unresolved reference", "reason", err.Error())
		return nil, err
	}
	var likes []int64
	if draft.Likes != nil {
		var err error
		if likes, err = s.checkLikers(ctx, draft.Likes); err != nil {
			log.Info("unknown liker", "reason", err.Error())
			return nil, err
		}
	}
	film, err := s.films.Update(ctx, draft)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("film not found")
			return nil, ErrFilmNotFound
		}
		log.Error("Error updating film: " + err.Error())
		return nil, err
	}
	if draft.Likes != nil {
		if err := s.likes.Replace(ctx, film.ID, likes); err != nil {
			log.Error("replacing likes: " + err.Error())
			return nil, err
		}
	}
	if film.Likes, err = s.likes.ListFor(ctx, film.ID); err != nil {
		log.Error("listing likes: " + err.Error())
		return nil, err
	}
	film.Genres, film.Mpa = draft.Genres, draft.Mpa
	log.Info("film updated")
	return film, nil
}

// Delete removes the film together with its likes and returns the removed record.
func (s *FilmService) Delete(ctx context.Context, id int64) (*models.Film, error) {
	const op = "films.FilmService.Delete"
	log := s.log.With("op", op, "id", id)
	film, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.films.Delete(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("film not found")
			return nil, ErrFilmNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	if err := s.likes.RemoveFilm(ctx, id); err != nil {
		log.Error("removing likes: " + err.Error())
		return nil, err
	}
	log.Info("film deleted")
	s.events.Dispatch(events.Film(events.FilmDeleted, id))
	return film, nil
}

func (s *FilmService) AddLike(ctx context.Context, filmID, userID int64) error {
	const op = "films.FilmService.AddLike"
	log := s.log.With("op", op, "filmId", filmID, "userId", userID)
	if err := s.checkLikeParties(ctx, filmID, userID); err != nil {
		log.Info(err.Error())
		return err
	}
	liked, err := s.likes.Contains(ctx, filmID, userID)
	if err != nil {
		log.Error(err.Error())
		return err
	}
	if liked {
		log.Info("film already liked")
		return ErrAlreadyLiked
	}
	if err := s.likes.Add(ctx, filmID, userID); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			log.Info("film already liked")
			return ErrAlreadyLiked
		}
		log.Error(err.Error())
		return err
	}
	// a delete that ran between the check and the insert has already swept its likes
	if err := s.checkLikeParties(ctx, filmID, userID); err != nil {
		log.Info("like party removed concurrently", "reason", err.Error())
		if rmErr := s.likes.Remove(ctx, filmID, userID); rmErr != nil && !errors.Is(rmErr, storage.ErrNotFound) {
			log.Error("rolling back like: " + rmErr.Error())
		}
		return err
	}
	s.events.Dispatch(events.Like(events.FilmLiked, filmID, userID))
	return nil
}

func (s *FilmService) RemoveLike(ctx context.Context, filmID, userID int64) error {
	const op = "films.FilmService.RemoveLike"
	log := s.log.With("op", op, "filmId", filmID, "userId", userID)
	if err := s.checkLikeParties(ctx, filmID, userID); err != nil {
		log.Info(err.Error())
		return err
	}
	liked, err := s.likes.Contains(ctx, filmID, userID)
	if err != nil {
		log.Error(err.Error())
		return err
	}
	if !liked {
		log.Info("like not found")
		return ErrLikeNotFound
	}
	if err := s.likes.Remove(ctx, filmID, userID); err != nil {
		log.Error(err.Error())
		return err
	}
	s.events.Dispatch(events.Like(events.FilmUnliked, filmID, userID))
	return nil
}

// Popular ranks films by like count, most liked first. Films with equal
// counts keep id order.
func (s *FilmService) Popular(ctx context.Context, f filters.Popular) ([]models.Film, error) {
	const op = "films.FilmService.Popular"
	count := f.CountOr(s.opts.PopularDefaultCount)
	includeUnliked := f.IncludeUnlikedOr(s.opts.PopularIncludeUnliked)
	log := s.log.With("op", op, "count", count, "includeUnliked", includeUnliked)
	if count < 1 {
		log.Info("invalid count")
		return nil, ErrInvalidCount
	}
	films, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	ranked := rankPopular(films, count, includeUnliked)
	if len(ranked) == 0 {
		log.Info("no popular films")
		return nil, ErrNoPopularFilms
	}
	return ranked, nil
}

func rankPopular(films []models.Film, count int, includeUnliked bool) []models.Film {
	ranked := make([]models.Film, 0, len(films))
	for _, f := range films {
		if includeUnliked || f.LikesCount() > 0 {
			ranked = append(ranked, f)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].LikesCount() > ranked[j].LikesCount()
	})
	if len(ranked) > count {
		ranked = ranked[:count]
	}
	return ranked
}

func validateReleaseDate(d fields.Date) error {
	if d.Before(MinReleaseDate) {
		return ErrReleaseDateTooEarly
	}
	return nil
}

func (s *FilmService) checkLikeParties(ctx context.Context, filmID, userID int64) error {
	if _, err := s.films.Get(ctx, filmID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("film %d: %w", filmID, ErrFilmNotFound)
		}
		return err
	}
	if _, err := s.users.Get(ctx, userID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("user %d: %w", userID, ErrUserNotFound)
		}
		return err
	}
	return nil
}

// checkLikers returns the deduplicated ids, all of which refer to existing users.
func (s *FilmService) checkLikers(ctx context.Context, userIDs []int64) ([]int64, error) {
	seen := make(map[int64]struct{}, len(userIDs))
	ids := make([]int64, 0, len(userIDs))
	for _, id := range userIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		if _, err := s.users.Get(ctx, id); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return nil, fmt.Errorf("user %d: %w", id, ErrUserNotFound)
			}
			return nil, err
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// resolveRefs deduplicates the draft's genres and fills in genre and rating names.
func (s *FilmService) resolveRefs(ctx context.Context, draft *models.Film) error {
	seen := make(map[int64]struct{}, len(draft.Genres))
	genres := make([]models.Genre, 0, len(draft.Genres))
	for _, g := range draft.Genres {
		if _, ok := seen[g.ID]; ok {
			continue
		}
		seen[g.ID] = struct{}{}
		genre, err := s.refs.GetGenre(ctx, g.ID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("genre %d: %w", g.ID, ErrGenreNotFound)
			}
			return err
		}
		genres = append(genres, *genre)
	}
	sort.Slice(genres, func(i, j int) bool { return genres[i].ID < genres[j].ID })
	draft.Genres = genres

	if draft.Mpa != nil {
		mpa, err := s.refs.GetRating(ctx, draft.Mpa.ID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("mpa %d: %w", draft.Mpa.ID, ErrRatingNotFound)
			}
			return err
		}
		draft.Mpa = mpa
	}
	return nil
}

type refNames struct {
	genres  map[int64]string
	ratings map[int64]string
}

func (s *FilmService) loadRefNames(ctx context.Context) (refNames, error) {
	genres, err := s.refs.ListGenres(ctx)
	if err != nil {
		return refNames{}, err
	}
	ratings, err := s.refs.ListRatings(ctx)
	if err != nil {
		return refNames{}, err
	}
	names := refNames{
		genres:  make(map[int64]string, len(genres)),
		ratings: make(map[int64]string, len(ratings)),
	}
	for _, g := range genres {
		names.genres[g.ID] = g.Name
	}
	for _, r := range ratings {
		names.ratings[r.ID] = r.Name
	}
	return names, nil
}

func (s *FilmService) hydrate(ctx context.Context, film *models.Film, names refNames) error {
	for i := range film.Genres {
		film.Genres[i].Name = names.genres[film.Genres[i].ID]
	}
	if film.Genres == nil {
		film.Genres = []models.Genre{}
	}
	if film.Mpa != nil {
		film.Mpa.Name = names.ratings[film.Mpa.ID]
	}
	likes, err := s.likes.ListFor(ctx, film.ID)
	if err != nil {
		return err
	}
	if likes == nil {
		likes = []int64{}
	}
	film.Likes = likes
	return nil
}
