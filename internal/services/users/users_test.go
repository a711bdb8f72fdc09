package users

import (
	"context"
	"filmorate/proj/internal/domain/errs"
	"filmorate/proj/internal/domain/fields"
	"filmorate/proj/internal/domain/models"
	"filmorate/proj/internal/events"
	"filmorate/proj/internal/lib/logger"
	"filmorate/proj/internal/storage/memory"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Dispatch(e events.Event) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, e)
}

func (d *recordingDispatcher) last() events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.events[len(d.events)-1]
}

func newService(t *testing.T) (*UserService, *memory.Storage, *recordingDispatcher) {
	t.Helper()
	store := memory.New()
	d := &recordingDispatcher{}
	return New(logger.Discard(), store.Users, store.Friends, store.Likes, d), store, d
}

func draft(login string) models.User {
	return models.User{
		Email:    login + "@example.com",
		Login:    login,
		Name:     "Name of " + login,
		Birthday: fields.NewDate(1990, time.May, 17),
	}
}

func mustCreate(t *testing.T, svc *UserService, login string) int64 {
	t.Helper()
	u, err := svc.Create(context.Background(), draft(login))
	require.NoError(t, err)
	return u.ID
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns ids and defaults the name", func(t *testing.T) {
		svc, _, d := newService(t)
		first, err := svc.Create(ctx, draft("neo"))
		require.NoError(t, err)
		noName := draft("trinity")
		noName.Name = "  "
		second, err := svc.Create(ctx, noName)
		require.NoError(t, err)

		assert.Greater(t, second.ID, first.ID)
		assert.Equal(t, "Name of neo", first.Name)
		assert.Equal(t, "trinity", second.Name)
		assert.Empty(t, second.Friends)
		assert.Equal(t, events.UserCreated, d.last().Type)
	})

	t.Run("duplicate email", func(t *testing.T) {
		svc, _, _ := newService(t)
		mustCreate(t, svc, "neo")
		dup := draft("other")
		dup.Email = "NEO@example.com"
		_, err := svc.Create(ctx, dup)
		assert.ErrorIs(t, err, ErrEmailTaken)
		assert.ErrorIs(t, err, errs.ErrValidation)
	})

	t.Run("duplicate login", func(t *testing.T) {
		svc, _, _ := newService(t)
		mustCreate(t, svc, "neo")
		dup := draft("neo")
		dup.Email = "another@example.com"
		_, err := svc.Create(ctx, dup)
		assert.ErrorIs(t, err, ErrLoginTaken)
	})

	t.Run("future birthday", func(t *testing.T) {
		svc, _, _ := newService(t)
		d := draft("future")
		d.Birthday = fields.Date{Time: fields.Today().AddDate(0, 0, 1)}
		_, err := svc.Create(ctx, d)
		assert.ErrorIs(t, err, ErrBirthdayInFuture)

		d.Birthday = fields.Today()
		_, err = svc.Create(ctx, d)
		assert.NoError(t, err)
	})

	t.Run("draft friends", func(t *testing.T) {
		svc, _, _ := newService(t)
		a := mustCreate(t, svc, "a")
		d := draft("b")
		d.Friends = []int64{a, a}
		b, err := svc.Create(ctx, d)
		require.NoError(t, err)
		assert.Equal(t, []int64{a}, b.Friends)

		d = draft("c")
		d.Friends = []int64{404}
		_, err = svc.Create(ctx, d)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)
	a := mustCreate(t, svc, "a")
	b := mustCreate(t, svc, "b")
	require.NoError(t, svc.AddFriend(ctx, a, b))

	t.Run("replaces fields and keeps friends", func(t *testing.T) {
		d := draft("a")
		d.ID = a
		d.Name = ""
		d.Email = "A@example.com"
		updated, err := svc.Update(ctx, d)
		require.NoError(t, err)
		assert.Equal(t, "a", updated.Name)
		assert.Equal(t, "A@example.com", updated.Email)
		assert.Equal(t, []int64{b}, updated.Friends)
	})

	t.Run("replaces friends when given", func(t *testing.T) {
		d := draft("a")
		d.ID = a
		d.Friends = []int64{}
		updated, err := svc.Update(ctx, d)
		require.NoError(t, err)
		assert.Empty(t, updated.Friends)

		d.Friends = []int64{a}
		_, err = svc.Update(ctx, d)
		assert.ErrorIs(t, err, ErrSelfFriendship)
	})

	t.Run("errors", func(t *testing.T) {
		_, err := svc.Update(ctx, draft("x"))
		assert.ErrorIs(t, err, ErrIDRequired)

		d := draft("x")
		d.ID = 999
		_, err = svc.Update(ctx, d)
		assert.ErrorIs(t, err, ErrUserNotFound)

		d = draft("a")
		d.ID = a
		d.Email = "b@example.com"
		_, err = svc.Update(ctx, d)
		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("duplicate login", func(t *testing.T) {
		d := draft("a")
		d.ID = a
		d.Login = "b"
		_, err := svc.Update(ctx, d)
		assert.ErrorIs(t, err, ErrLoginTaken)

		users, err := svc.List(ctx)
		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, "a", users[0].Login)
		assert.Equal(t, "b", users[1].Login)
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	svc, store, d := newService(t)
	a := mustCreate(t, svc, "a")
	b := mustCreate(t, svc, "b")
	require.NoError(t, svc.AddFriend(ctx, a, b))
	require.NoError(t, svc.AddFriend(ctx, b, a))
	require.NoError(t, store.Likes.Add(ctx, 1, b))

	deleted, err := svc.Delete(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, []int64{a}, deleted.Friends)
	assert.Equal(t, events.UserDeleted, d.last().Type)

	friends, err := svc.FriendsOf(ctx, a)
	require.NoError(t, err)
	assert.Empty(t, friends)
	liked, err := store.Likes.Contains(ctx, 1, b)
	require.NoError(t, err)
	assert.False(t, liked)

	_, err = svc.Get(ctx, b)
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = svc.Delete(ctx, b)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestFriends(t *testing.T) {
	ctx := context.Background()
	svc, _, d := newService(t)
	a := mustCreate(t, svc, "a")
	b := mustCreate(t, svc, "b")

	t.Run("self friendship is rejected before existence", func(t *testing.T) {
		assert.ErrorIs(t, svc.AddFriend(ctx, a, a), ErrSelfFriendship)
		assert.ErrorIs(t, svc.AddFriend(ctx, 999, 999), ErrSelfFriendship)
		assert.ErrorIs(t, svc.RemoveFriend(ctx, 999, 999), errs.ErrValidation)
	})

	t.Run("unknown users", func(t *testing.T) {
		assert.ErrorIs(t, svc.AddFriend(ctx, a, 999), ErrUserNotFound)
		assert.ErrorIs(t, svc.AddFriend(ctx, 999, a), ErrUserNotFound)
		_, err := svc.FriendsOf(ctx, 999)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("directed", func(t *testing.T) {
		require.NoError(t, svc.AddFriend(ctx, a, b))
		assert.Equal(t, events.Friend(events.UserFriendAdded, a, b).FriendID, d.last().FriendID)
		assert.ErrorIs(t, svc.AddFriend(ctx, a, b), ErrAlreadyFriends)

		friendsOfA, err := svc.FriendsOf(ctx, a)
		require.NoError(t, err)
		require.Len(t, friendsOfA, 1)
		assert.Equal(t, b, friendsOfA[0].ID)

		friendsOfB, err := svc.FriendsOf(ctx, b)
		require.NoError(t, err)
		assert.Empty(t, friendsOfB)
	})

	t.Run("remove", func(t *testing.T) {
		require.NoError(t, svc.RemoveFriend(ctx, a, b))
		assert.ErrorIs(t, svc.RemoveFriend(ctx, a, b), ErrFriendshipNotFound)
		assert.ErrorIs(t, svc.RemoveFriend(ctx, a, b), errs.ErrConflict)
		assert.Equal(t, events.UserFriendRemoved, d.last().Type)
	})
}

func TestCommonFriends(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)
	a := mustCreate(t, svc, "a")
	b := mustCreate(t, svc, "b")
	c := mustCreate(t, svc, "c")
	x := mustCreate(t, svc, "x")

	_, err := svc.CommonFriends(ctx, a, b)
	assert.ErrorIs(t, err, ErrNoCommonFriends)

	require.NoError(t, svc.AddFriend(ctx, a, c))
	require.NoError(t, svc.AddFriend(ctx, a, x))
	require.NoError(t, svc.AddFriend(ctx, b, c))

	common, err := svc.CommonFriends(ctx, a, b)
	require.NoError(t, err)
	require.Len(t, common, 1)
	assert.Equal(t, c, common[0].ID)

	reversed, err := svc.CommonFriends(ctx, b, a)
	require.NoError(t, err)
	assert.Equal(t, common, reversed)

	_, err = svc.CommonFriends(ctx, a, 999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestList(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)
	a := mustCreate(t, svc, "a")
	b := mustCreate(t, svc, "b")
	require.NoError(t, svc.AddFriend(ctx, b, a))

	users, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, a, users[0].ID)
	assert.Empty(t, users[0].Friends)
	assert.Equal(t, []int64{a}, users[1].Friends)
}

// deletingUsers removes the looked-up user right before the deleteOn-th Get.
type deletingUsers struct {
	*memory.UserStorage
	deleteOn int
	calls    int
}

func (u *deletingUsers) Get(ctx context.Context, id int64) (*models.User, error) {
	u.calls++
	if u.calls == u.deleteOn {
		_, _ = u.UserStorage.Delete(ctx, id)
	}
	return u.UserStorage.Get(ctx, id)
}

func TestAddFriendRollsBackWhenFriendDisappears(t *testing.T) {
	ctx := context.Background()
	_, store, _ := newService(t)
	a, err := store.Users.Create(ctx, draft("a"))
	require.NoError(t, err)
	b, err := store.Users.Create(ctx, draft("b"))
	require.NoError(t, err)
	d := &recordingDispatcher{}
	// gets 1 and 2 check both users, 3 and 4 re-check after the insert
	svc := New(logger.Discard(), &deletingUsers{UserStorage: store.Users, deleteOn: 4}, store.Friends, store.Likes, d)

	assert.ErrorIs(t, svc.AddFriend(ctx, a.ID, b.ID), ErrUserNotFound)

	exists, err := store.Friends.Contains(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Empty(t, d.events)
}
