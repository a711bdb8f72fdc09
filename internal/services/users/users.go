package users

import (
	"context"
	"errors"
	"filmorate/proj/internal/domain/fields"
	"filmorate/proj/internal/domain/models"
	"filmorate/proj/internal/events"
	"filmorate/proj/internal/storage"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
)

type UserStorage interface {
	Create(ctx context.Context, user models.User) (*models.User, error)
	Get(ctx context.Context, id int64) (*models.User, error)
	Update(ctx context.Context, user models.User) (*models.User, error)
	Delete(ctx context.Context, id int64) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByLogin(ctx context.Context, login string) (*models.User, error)
}

type FriendStorage interface {
	Add(ctx context.Context, userID, friendID int64) error
	Remove(ctx context.Context, userID, friendID int64) error
	Contains(ctx context.Context, userID, friendID int64) (bool, error)
	ListFriendsOf(ctx context.Context, userID int64) ([]int64, error)
	CommonFriends(ctx context.Context, userID, otherID int64) ([]int64, error)
	Replace(ctx context.Context, userID int64, friendIDs []int64) error
	RemoveUser(ctx context.Context, userID int64) error
}

// LikeCleaner drops every like a user has left.
type LikeCleaner interface {
	RemoveUser(ctx context.Context, userID int64) error
}

type EventDispatcher interface {
	Dispatch(e events.Event)
}

type UserService struct {
	log     *slog.Logger
	users   UserStorage
	friends FriendStorage
	likes   LikeCleaner
	events  EventDispatcher
	// serializes uniqueness checks with the writes that depend on them
	mu sync.Mutex
}

func New(log *slog.Logger, users UserStorage, friends FriendStorage, likes LikeCleaner, dispatcher EventDispatcher) *UserService {
	return &UserService{
		log:     log,
		users:   users,
		friends: friends,
		likes:   likes,
		events:  dispatcher,
	}
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	const op = "users.UserService.List"
	log := s.log.With("op", op)
	users, err := s.users.List(ctx)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	for i := range users {
		if err := s.hydrate(ctx, &users[i]); err != nil {
			log.Error("hydrating user: "+err.Error(), "id", users[i].ID)
			return nil, err
		}
	}
	return users, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	const op = "users.UserService.Get"
	log := s.log.With("op", op, "id", id)
	user, err := s.users.Get(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("user not found")
			return nil, fmt.Errorf("user %d: %w", id, ErrUserNotFound)
		}
		log.Error(err.Error())
		return nil, err
	}
	if err := s.hydrate(ctx, user); err != nil {
		log.Error("hydrating user: " + err.Error())
		return nil, err
	}
	return user, nil
}

func (s *UserService) Create(ctx context.Context, draft models.User) (*models.User, error) {
	const op = "users.UserService.Create"
	log := s.log.With("op", op, "login", draft.Login)
	if err := validateBirthday(draft.Birthday); err != nil {
		log.Info("invalid birthday", "birthday", draft.Birthday)
		return nil, err
	}
	friends, err := s.checkFriends(ctx, 0, draft.Friends)
	if err != nil {
		log.Info("invalid friends", "reason", err.Error())
		return nil, err
	}
	draft.ID = 0
	draft.Name = displayName(draft)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkEmailFree(ctx, draft.Email, 0); err != nil {
		log.Info(err.Error())
		return nil, err
	}
	if err := s.checkLoginFree(ctx, draft.Login, 0); err != nil {
		log.Info(err.Error())
		return nil, err
	}
	user, err := s.users.Create(ctx, draft)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			log.Info("user already exists")
			return nil, ErrUserExists
		}
		log.Error(err.Error())
		return nil, err
	}
	if len(friends) > 0 {
		if err := s.friends.Replace(ctx, user.ID, friends); err != nil {
			log.Error("linking friends: "+err.Error(), "id", user.ID)
			return nil, err
		}
	}
	user.Friends = friends
	log.Info("user created", "id", user.ID)
	s.events.Dispatch(events.User(events.UserCreated, user.ID))
	return user, nil
}

// Update replaces every mutable field. Friends are replaced only when the
// draft carries them.
func (s *UserService) Update(ctx context.Context, draft models.User) (*models.User, error) {
	const op = "users.UserService.Update"
	log := s.log.With("op", op, "id", draft.ID)
	if draft.ID == 0 {
		log.Info("user id is missing")
		return nil, ErrIDRequired
	}
	if _, err := s.users.Get(ctx, draft.ID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("user not found")
			return nil, fmt.Errorf("user %d: %w", draft.ID, ErrUserNotFound)
		}
		log.Error("Error getting user: " + err.Error())
		return nil, err
	}
	if err := validateBirthday(draft.Birthday); err != nil {
		log.Info("invalid birthday", "birthday", draft.Birthday)
		return nil, err
	}
	var friends []int64
	if draft.Friends != nil {
		var err error
		if friends, err = s.checkFriends(ctx, draft.ID, draft.Friends); err != nil {
			log.Info("invalid friends", "reason", err.Error())
			return nil, err
		}
	}
	draft.Name = displayName(draft)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkEmailFree(ctx, draft.Email, draft.ID); err != nil {
		log.Info(err.Error())
		return nil, err
	}
	if err := s.checkLoginFree(ctx, draft.Login, draft.ID); err != nil {
		log.Info(err.Error())
		return nil, err
	}
	user, err := s.users.Update(ctx, draft)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			log.Info("user not found")
			return nil, fmt.Errorf("user %d: %w", draft.ID, ErrUserNotFound)
		case errors.Is(err, storage.ErrConflict):
			log.Info("user already exists")
			return nil, ErrUserExists
		}
		log.Error("Error updating user: " + err.Error())
		return nil, err
	}
	if draft.Friends != nil {
		if err := s.friends.Replace(ctx, user.ID, friends); err != nil {
			log.Error("replacing friends: " + err.Error())
			return nil, err
		}
	}
	if err := s.hydrate(ctx, user); err != nil {
		log.Error("hydrating user: " + err.Error())
		return nil, err
	}
	log.Info("user updated")
	return user, nil
}

// Delete removes the user, every friendship touching them and their likes.
func (s *UserService) Delete(ctx context.Context, id int64) (*models.User, error) {
	const op = "users.UserService.Delete"
	log := s.log.With("op", op, "id", id)
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("user not found")
			return nil, fmt.Errorf("user %d: %w", id, ErrUserNotFound)
		}
		log.Error(err.Error())
		return nil, err
	}
	if err := s.friends.RemoveUser(ctx, id); err != nil {
		log.Error("removing friendships: " + err.Error())
		return nil, err
	}
	if err := s.likes.RemoveUser(ctx, id); err != nil {
		log.Error("removing likes: " + err.Error())
		return nil, err
	}
	log.Info("user deleted")
	s.events.Dispatch(events.User(events.UserDeleted, id))
	return user, nil
}

// AddFriend records that userID considers friendID a friend. The reverse
// direction is unaffected.
func (s *UserService) AddFriend(ctx context.Context, userID, friendID int64) error {
	const op = "users.UserService.AddFriend"
	log := s.log.With("op", op, "userId", userID, "friendId", friendID)
	if userID == friendID {
		log.Info("self friendship")
		return ErrSelfFriendship
	}
	if err := s.checkExist(ctx, userID, friendID); err != nil {
		log.Info(err.Error())
		return err
	}
	exists, err := s.friends.Contains(ctx, userID, friendID)
	if err != nil {
		log.Error(err.Error())
		return err
	}
	if exists {
		log.Info("already friends")
		return ErrAlreadyFriends
	}
	if err := s.friends.Add(ctx, userID, friendID); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			log.Info("already friends")
			return ErrAlreadyFriends
		}
		log.Error(err.Error())
		return err
	}
	// a delete that ran between the check and the insert has already swept its edges
	if err := s.checkExist(ctx, userID, friendID); err != nil {
		log.Info("friend removed concurrently", "reason", err.Error())
		if rmErr := s.friends.Remove(ctx, userID, friendID); rmErr != nil && !errors.Is(rmErr, storage.ErrNotFound) {
			log.Error("rolling back friendship: " + rmErr.Error())
		}
		return err
	}
	s.events.Dispatch(events.Friend(events.UserFriendAdded, userID, friendID))
	return nil
}

func (s *UserService) RemoveFriend(ctx context.Context, userID, friendID int64) error {
	const op = "users.UserService.RemoveFriend"
	log := s.log.With("op", op, "userId", userID, "friendId", friendID)
	if userID == friendID {
		log.Info("self friendship")
		return ErrSelfFriendship
	}
	if err := s.checkExist(ctx, userID, friendID); err != nil {
		log.Info(err.Error())
		return err
	}
	exists, err := s.friends.Contains(ctx, userID, friendID)
	if err != nil {
		log.Error(err.Error())
		return err
	}
	if !exists {
		log.Info("friendship not found")
		return ErrFriendshipNotFound
	}
	if err := s.friends.Remove(ctx, userID, friendID); err != nil {
		log.Error(err.Error())
		return err
	}
	s.events.Dispatch(events.Friend(events.UserFriendRemoved, userID, friendID))
	return nil
}

func (s *UserService) FriendsOf(ctx context.Context, userID int64) ([]models.User, error) {
	const op = "users.UserService.FriendsOf"
	log := s.log.With("op", op, "userId", userID)
	if err := s.checkExist(ctx, userID); err != nil {
		log.Info(err.Error())
		return nil, err
	}
	ids, err := s.friends.ListFriendsOf(ctx, userID)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	return s.collect(ctx, log, ids)
}

func (s *UserService) CommonFriends(ctx context.Context, userID, otherID int64) ([]models.User, error) {
	const op = "users.UserService.CommonFriends"
	log := s.log.With("op", op, "userId", userID, "otherId", otherID)
	if err := s.checkExist(ctx, userID, otherID); err != nil {
		log.Info(err.Error())
		return nil, err
	}
	ids, err := s.friends.CommonFriends(ctx, userID, otherID)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	if len(ids) == 0 {
		log.Info("no common friends")
		return nil, ErrNoCommonFriends
	}
	return s.collect(ctx, log, ids)
}

func (s *UserService) collect(ctx context.Context, log *slog.Logger, ids []int64) ([]models.User, error) {
	users := make([]models.User, 0, len(ids))
	for _, id := range ids {
		user, err := s.users.Get(ctx, id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				// edge outlived its user, skip it
				log.Warn("dangling friendship", "friendId", id)
				continue
			}
			log.Error(err.Error())
			return nil, err
		}
		if err := s.hydrate(ctx, user); err != nil {
			log.Error("hydrating user: "+err.Error(), "id", id)
			return nil, err
		}
		users = append(users, *user)
	}
	return users, nil
}

func (s *UserService) checkExist(ctx context.Context, ids ...int64) error {
	for _, id := range ids {
		if _, err := s.users.Get(ctx, id); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("user %d: %w", id, ErrUserNotFound)
			}
			return err
		}
	}
	return nil
}

// checkEmailFree fails when email belongs to a user other than selfID.
func (s *UserService) checkEmailFree(ctx context.Context, email string, selfID int64) error {
	other, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return err
	}
	if other.ID != selfID {
		return ErrEmailTaken
	}
	return nil
}

func (s *UserService) checkLoginFree(ctx context.Context, login string, selfID int64) error {
	other, err := s.users.FindByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return err
	}
	if other.ID != selfID {
		return ErrLoginTaken
	}
	return nil
}

// checkFriends returns the deduplicated, sorted ids, each referring to an
// existing user other than selfID.
func (s *UserService) checkFriends(ctx context.Context, selfID int64, friendIDs []int64) ([]int64, error) {
	seen := make(map[int64]struct{}, len(friendIDs))
	ids := make([]int64, 0, len(friendIDs))
	for _, id := range friendIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		if selfID != 0 && id == selfID {
			return nil, ErrSelfFriendship
		}
		if err := s.checkExist(ctx, id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (s *UserService) hydrate(ctx context.Context, user *models.User) error {
	friends, err := s.friends.ListFriendsOf(ctx, user.ID)
	if err != nil {
		return err
	}
	if friends == nil {
		friends = []int64{}
	}
	user.Friends = friends
	return nil
}

func validateBirthday(d fields.Date) error {
	if d.After(fields.Today()) {
		return ErrBirthdayInFuture
	}
	return nil
}

func displayName(u models.User) string {
	if strings.TrimSpace(u.Name) == "" {
		return u.Login
	}
	return u.Name
}
