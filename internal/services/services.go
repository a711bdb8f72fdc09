package services

import (
	"filmorate/proj/internal/config"
	"filmorate/proj/internal/services/films"
	"filmorate/proj/internal/services/refs"
	"filmorate/proj/internal/services/users"
	"filmorate/proj/internal/storage/memory"
	pgmodels "filmorate/proj/internal/storage/postgres/models"
	"log/slog"
)

type LikeStorage interface {
	films.LikeStorage
	users.LikeCleaner
}

type RefStorage interface {
	films.RefStorage
	refs.Storage
}

// Storage is the set of stores a backend has to provide.
type Storage struct {
	Films   films.FilmStorage
	Users   users.UserStorage
	Likes   LikeStorage
	Friends users.FriendStorage
	Refs    RefStorage
}

func FromMemory(s *memory.Storage) Storage {
	return Storage{
		Films:   s.Films,
		Users:   s.Users,
		Likes:   s.Likes,
		Friends: s.Friends,
		Refs:    s.Refs,
	}
}

func FromPostgres(m *pgmodels.Models) Storage {
	return Storage{
		Films:   m.Film,
		Users:   m.User,
		Likes:   m.Like,
		Friends: m.Friend,
		Refs:    m.Ref,
	}
}

type EventDispatcher interface {
	films.EventDispatcher
	users.EventDispatcher
}

type Services struct {
	Films *films.FilmService
	Users *users.UserService
	Refs  *refs.RefService
}

func New(log *slog.Logger, cfg *config.Config, storage Storage, dispatcher EventDispatcher) *Services {
	return &Services{
		Films: films.New(log, storage.Films, storage.Likes, storage.Users, storage.Refs, dispatcher, films.Options{
			PopularDefaultCount:   cfg.Films.PopularDefaultCount,
			PopularIncludeUnliked: !cfg.Films.PopularExcludeUnliked,
		}),
		Users: users.New(log, storage.Users, storage.Friends, storage.Likes, dispatcher),
		Refs:  refs.New(log, storage.Refs),
	}
}
