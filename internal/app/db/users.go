package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"sockethub/internal/app/user"
)

// Users provides access to the users table.
type Users struct {
	pool *pgxpool.Pool
}

// NewUsers wraps the given connection pool.
func NewUsers(pool *pgxpool.Pool) *Users {
	return &Users{pool: pool}
}

// Create inserts a new account and returns it with its generated ID and
// creation time. A unique violation surfaces unchanged so callers can map it
// to a signup conflict.
func (u *Users) Create(ctx context.Context, username, email, passwordHash string) (user.User, error) {
	const query = `
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, username, email, password_hash, created_at`

	var usr user.User
	err := u.pool.QueryRow(ctx, query, username, email, passwordHash).
		Scan(&usr.ID, &usr.Username, &usr.Email, &usr.PasswordHash, &usr.CreatedAt)
	if err != nil {
		return user.User{}, fmt.Errorf("create user: %w", err)
	}

	return usr, nil
}

// GetByUsername fetches an account by its unique username.
func (u *Users) GetByUsername(ctx context.Context, username string) (user.User, error) {
	const query = `
		SELECT id, username, email, password_hash, created_at
		FROM users
		WHERE username = $1`

	var usr user.User
	err := u.pool.QueryRow(ctx, query, username).
		Scan(&usr.ID, &usr.Username, &usr.Email, &usr.PasswordHash, &usr.CreatedAt)
	if err != nil {
		return user.User{}, err
	}

	return usr, nil
}

// GetByID fetches an account by its UUID.
func (u *Users) GetByID(ctx context.Context, id string) (user.User, error) {
	const query = `
		SELECT id, username, email, password_hash, created_at
		FROM users
		WHERE id = $1`

	var usr user.User
	err := u.pool.QueryRow(ctx, query, id).
		Scan(&usr.ID, &usr.Username, &usr.Email, &usr.PasswordHash, &usr.CreatedAt)
	if err != nil {
		return user.User{}, err
	}

	return usr, nil
}
