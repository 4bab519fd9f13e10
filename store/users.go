package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/Tanish431/CC-BackProj-3/models"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already taken")
)

// CreateUser registers a user with an already-hashed password.
func (s *Store) CreateUser(ctx context.Context, username, passwordHash, role string) (int, error) {
	var id int
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO users (username, password_hash, role) VALUES ($1, $2, $3) RETURNING user_id`,
		username, passwordHash, role,
	).Scan(&id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return 0, ErrUsernameTaken
		}
		return 0, persistence("create user", err)
	}
	return id, nil
}

func (s *Store) GetUserByID(ctx context.Context, id int) (*models.User, string, error) {
	var u models.User
	var hash string
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, username, role, password_hash FROM users WHERE user_id = $1`,
		id,
	).Scan(&u.ID, &u.Username, &u.Role, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", ErrUserNotFound
	}
	if err != nil {
		return nil, "", persistence("get user", err)
	}
	return &u, hash, nil
}

func (s *Store) UpdatePassword(ctx context.Context, id int, passwordHash string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET password_hash = $1 WHERE user_id = $2`,
		passwordHash, id)
	if err != nil {
		return persistence("update password", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return persistence("update password", err)
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, string, error) {
	var u models.User
	var hash string
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, username, role, password_hash FROM users WHERE username = $1`,
		username,
	).Scan(&u.ID, &u.Username, &u.Role, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", ErrUserNotFound
	}
	if err != nil {
		return nil, "", persistence("get user", err)
	}
	return &u, hash, nil
}
