package models

import (
	"context"
	"filmorate/proj/internal/storage/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Models struct {
	Film   *FilmModel
	User   *UserModel
	Like   *LikeModel
	Friend *FriendModel
	Ref    *RefModel
}

func New(db *postgres.Storage) *Models {
	return &Models{
		Film:   &FilmModel{db.Conn},
		User:   &UserModel{db.Conn},
		Like:   &LikeModel{db.Conn},
		Friend: &FriendModel{db.Conn},
		Ref:    &RefModel{db.Conn},
	}
}

// inTx runs fn in a transaction that is committed only when fn succeeds.
func inTx(ctx context.Context, db *pgxpool.Pool, fn func(tx pgx.Tx) error) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// replaceLinks rewrites every (owner, target) row of a link table for one owner.
func replaceLinks(ctx context.Context, tx pgx.Tx, table, ownerCol, targetCol string, owner int64, targets []int64) error {
	if _, err := tx.Exec(ctx, "DELETE FROM "+table+" WHERE "+ownerCol+" = $1", owner); err != nil {
		return err
	}
	if len(targets) == 0 {
		return nil
	}
	rows := make([][]any, 0, len(targets))
	for _, t := range targets {
		rows = append(rows, []any{owner, t})
	}
	_, err := tx.CopyFrom(ctx, pgx.Identifier{table}, []string{ownerCol, targetCol}, pgx.CopyFromRows(rows))
	return err
}
