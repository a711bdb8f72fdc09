package models

import (
	"context"
	"filmorate/proj/internal/domain/fields"
	"filmorate/proj/internal/domain/models"
	"filmorate/proj/internal/storage"
	"filmorate/proj/internal/storage/postgres"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs against a throwaway database named by FILMORATE_TEST_DSN.
func setupModels(t *testing.T) *Models {
	t.Helper()
	dsn := os.Getenv("FILMORATE_TEST_DSN")
	if dsn == "" {
		t.Skip("FILMORATE_TEST_DSN is not set")
	}
	ctx := context.Background()
	db, err := postgres.New(ctx, dsn, 4, time.Minute, 5*time.Second)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	schema, err := os.ReadFile(filepath.Join("..", "..", "..", "..", "migrations", "000001_init.up.sql"))
	require.NoError(t, err)
	_, err = db.Conn.Exec(ctx, string(schema))
	require.NoError(t, err)
	_, err = db.Conn.Exec(ctx, "TRUNCATE films, users, likes, friends, film_genres RESTART IDENTITY CASCADE")
	require.NoError(t, err)
	return New(db)
}

func TestFilmModel(t *testing.T) {
	m := setupModels(t)
	ctx := context.Background()

	created, err := m.Film.Create(ctx, models.Film{
		Name:        "Matrix",
		Description: "d",
		ReleaseDate: fields.NewDate(1999, time.March, 31),
		Duration:    136,
		Mpa:         &models.RatingMpa{ID: 4},
		Genres:      []models.Genre{{ID: 6}, {ID: 4}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, []models.Genre{{ID: 4}, {ID: 6}}, created.Genres)
	assert.Equal(t, "1999-03-31", created.ReleaseDate.String())

	created.Genres = nil
	created.Mpa = nil
	updated, err := m.Film.Update(ctx, *created)
	require.NoError(t, err)
	assert.Empty(t, updated.Genres)
	assert.Nil(t, updated.Mpa)

	_, err = m.Film.Update(ctx, models.Film{ID: 99, Name: "x", ReleaseDate: fields.NewDate(2000, 1, 1), Duration: 1})
	assert.ErrorIs(t, err, storage.ErrNotFound)

	films, err := m.Film.List(ctx)
	require.NoError(t, err)
	assert.Len(t, films, 1)

	_, err = m.Film.Delete(ctx, created.ID)
	require.NoError(t, err)
	_, err = m.Film.Get(ctx, created.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUserLikeFriendModels(t *testing.T) {
	m := setupModels(t)
	ctx := context.Background()

	newUser := func(login string) *models.User {
		u, err := m.User.Create(ctx, models.User{Email: login + "@example.com", Login: login, Name: login})
		require.NoError(t, err)
		return u
	}
	a, b, c := newUser("a"), newUser("b"), newUser("c")

	_, err := m.User.Create(ctx, models.User{Email: "A@EXAMPLE.COM", Login: "other", Name: "x"})
	assert.ErrorIs(t, err, storage.ErrConflict)
	found, err := m.User.FindByEmail(ctx, "B@example.com")
	require.NoError(t, err)
	assert.Equal(t, b.ID, found.ID)

	film, err := m.Film.Create(ctx, models.Film{Name: "f", Description: "d", ReleaseDate: fields.NewDate(2000, 1, 1), Duration: 1})
	require.NoError(t, err)
	require.NoError(t, m.Like.Add(ctx, film.ID, a.ID))
	assert.ErrorIs(t, m.Like.Add(ctx, film.ID, a.ID), storage.ErrConflict)
	assert.ErrorIs(t, m.Like.Add(ctx, film.ID, 999), storage.ErrNotFound)
	require.NoError(t, m.Like.Replace(ctx, film.ID, []int64{b.ID, c.ID}))
	likes, err := m.Like.ListFor(ctx, film.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{b.ID, c.ID}, likes)

	require.NoError(t, m.Friend.Add(ctx, a.ID, c.ID))
	require.NoError(t, m.Friend.Add(ctx, b.ID, c.ID))
	assert.ErrorIs(t, m.Friend.Add(ctx, a.ID, a.ID), storage.ErrConflict)
	common, err := m.Friend.CommonFriends(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{c.ID}, common)

	_, err = m.User.Delete(ctx, c.ID)
	require.NoError(t, err)
	friends, err := m.Friend.ListFriendsOf(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, friends)
	likes, err = m.Like.ListFor(ctx, film.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{b.ID}, likes)
}

func TestRefModel(t *testing.T) {
	m := setupModels(t)
	ctx := context.Background()

	genres, err := m.Ref.ListGenres(ctx)
	require.NoError(t, err)
	assert.Len(t, genres, 6)
	rating, err := m.Ref.GetRating(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "NC-17", rating.Name)
	_, err = m.Ref.GetGenre(ctx, 100)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
