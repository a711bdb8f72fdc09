package models

import (
	"context"
	"filmorate/proj/internal/storage/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// FriendModel stores directed edges: a row (user_id, friend_id) means
// user_id lists friend_id as a friend.
type FriendModel struct {
	DB *pgxpool.Pool
}

func (m *FriendModel) Add(ctx context.Context, userID, friendID int64) error {
	_, err := m.DB.Exec(ctx, "INSERT INTO friends (user_id, friend_id) VALUES ($1, $2)", userID, friendID)
	return postgres.TranslateErr(err)
}

func (m *FriendModel) Remove(ctx context.Context, userID, friendID int64) error {
	_, err := m.DB.Exec(ctx, "DELETE FROM friends WHERE user_id = $1 AND friend_id = $2", userID, friendID)
	return err
}

func (m *FriendModel) Contains(ctx context.Context, userID, friendID int64) (bool, error) {
	var exists bool
	err := m.DB.QueryRow(
		ctx,
		"SELECT EXISTS (SELECT 1 FROM friends WHERE user_id = $1 AND friend_id = $2)",
		userID,
		friendID,
	).Scan(&exists)
	return exists, err
}

func (m *FriendModel) ListFriendsOf(ctx context.Context, userID int64) ([]int64, error) {
	rows, _ := m.DB.Query(ctx, "SELECT friend_id FROM friends WHERE user_id = $1 ORDER BY friend_id", userID)
	return pgx.CollectRows(rows, pgx.RowTo[int64])
}

func (m *FriendModel) CommonFriends(ctx context.Context, userID, otherID int64) ([]int64, error) {
	rows, _ := m.DB.Query(
		ctx,
		`SELECT a.friend_id FROM friends a
		JOIN friends b ON b.friend_id = a.friend_id
		WHERE a.user_id = $1 AND b.user_id = $2
		ORDER BY a.friend_id`,
		userID,
		otherID,
	)
	return pgx.CollectRows(rows, pgx.RowTo[int64])
}

func (m *FriendModel) Replace(ctx context.Context, userID int64, friendIDs []int64) error {
	err := inTx(ctx, m.DB, func(tx pgx.Tx) error {
		return replaceLinks(ctx, tx, "friends", "user_id", "friend_id", userID, friendIDs)
	})
	return postgres.TranslateErr(err)
}

func (m *FriendModel) RemoveUser(ctx context.Context, userID int64) error {
	_, err := m.DB.Exec(ctx, "DELETE FROM friends WHERE user_id = $1 OR friend_id = $1", userID)
	return err
}
