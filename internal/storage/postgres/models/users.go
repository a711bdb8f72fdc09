package models

import (
	"context"
	"filmorate/proj/internal/domain/fields"
	"filmorate/proj/internal/domain/models"
	"filmorate/proj/internal/storage/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserModel struct {
	DB *pgxpool.Pool
}

type userRow struct {
	ID       int64       `db:"id"`
	Email    string      `db:"email"`
	Login    string      `db:"login"`
	Name     string      `db:"name"`
	Birthday fields.Date `db:"birthday"`
}

func (r userRow) toUser() *models.User {
	return &models.User{
		ID:       r.ID,
		Email:    r.Email,
		Login:    r.Login,
		Name:     r.Name,
		Birthday: r.Birthday,
	}
}

const selectUsers = "SELECT id, email, login, name, birthday FROM users"

func (m *UserModel) one(ctx context.Context, query string, args ...any) (*models.User, error) {
	rows, _ := m.DB.Query(ctx, query, args...)
	row, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[userRow])
	if err != nil {
		return nil, postgres.TranslateErr(err)
	}
	return row.toUser(), nil
}

func (m *UserModel) Get(ctx context.Context, id int64) (*models.User, error) {
	return m.one(ctx, selectUsers+" WHERE id = $1", id)
}

func (m *UserModel) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.one(ctx, selectUsers+" WHERE lower(email) = lower($1)", email)
}

func (m *UserModel) FindByLogin(ctx context.Context, login string) (*models.User, error) {
	return m.one(ctx, selectUsers+" WHERE login = $1", login)
}

func (m *UserModel) List(ctx context.Context) ([]models.User, error) {
	rows, _ := m.DB.Query(ctx, selectUsers+" ORDER BY id")
	userRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[userRow])
	if err != nil {
		return nil, postgres.TranslateErr(err)
	}
	users := make([]models.User, 0, len(userRows))
	for _, row := range userRows {
		users = append(users, *row.toUser())
	}
	return users, nil
}

func (m *UserModel) Create(ctx context.Context, user models.User) (*models.User, error) {
	return m.one(
		ctx,
		`INSERT INTO users (email, login, name, birthday) VALUES ($1, $2, $3, $4)
		RETURNING id, email, login, name, birthday`,
		user.Email,
		user.Login,
		user.Name,
		user.Birthday,
	)
}

func (m *UserModel) Update(ctx context.Context, user models.User) (*models.User, error) {
	return m.one(
		ctx,
		`UPDATE users SET email = $1, login = $2, name = $3, birthday = $4 WHERE id = $5
		RETURNING id, email, login, name, birthday`,
		user.Email,
		user.Login,
		user.Name,
		user.Birthday,
		user.ID,
	)
}

// Delete removes the user; friendships and likes go with it via ON DELETE CASCADE.
func (m *UserModel) Delete(ctx context.Context, id int64) (*models.User, error) {
	return m.one(ctx, "DELETE FROM users WHERE id = $1 RETURNING id, email, login, name, birthday", id)
}
