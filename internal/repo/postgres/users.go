package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hrportal/hradmin/internal/auth"
	"github.com/hrportal/hradmin/internal/domain/user"
	"github.com/hrportal/hradmin/internal/observability"
)

type UsersRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewUsersRepo(pool *pgxpool.Pool, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{pool: pool, prom: prom}
}

func (r *UsersRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (r *UsersRepo) GetByUsername(ctx context.Context, username string) (user.User, error) {
	var u user.User

	err := r.observe("users.get_by_username", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT id, username, email, password_hash, created_at
			 FROM users
			 WHERE username = $1`,
			username,
		).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, auth.ErrUserNotFound
		}
		return user.User{}, err
	}
	return u, nil
}

func (r *UsersRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "users.username_exists", `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, username)
}

func (r *UsersRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "users.email_exists", `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email)
}

func (r *UsersRepo) exists(ctx context.Context, op, q string, arg string) (bool, error) {
	var ok bool
	err := r.observe(op, func() error {
		return r.pool.QueryRow(ctx, q, arg).Scan(&ok)
	})
	return ok, err
}

func (r *UsersRepo) Create(ctx context.Context, username, email, passwordHash string) (user.User, error) {
	u := user.User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}

	err := r.observe("users.create", func() error {
		return r.pool.QueryRow(ctx,
			`INSERT INTO users (username, email, password_hash, created_at)
			 VALUES ($1, $2, $3, $4)
			 RETURNING id`,
			u.Username, u.Email, u.PasswordHash, u.CreatedAt,
		).Scan(&u.ID)
	})

	if err != nil {
		switch violatedConstraint(err) {
		case "users_username_key":
			return user.User{}, auth.ErrDuplicateUsername
		case "users_email_key":
			return user.User{}, auth.ErrDuplicateEmail
		}
		return user.User{}, err
	}
	return u, nil
}
