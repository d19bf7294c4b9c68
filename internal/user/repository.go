package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Ensure(ctx context.Context, u User) error {
	query := `
		INSERT INTO users (id, name, email, role)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, u.ID, u.Name, u.Email, u.Role); err != nil {
		return fmt.Errorf("ensure user %s: %w", u.ID, err)
	}
	return nil
}

// FindByID returns (nil, nil) for an unknown id.
func (r *repository) FindByID(ctx context.Context, id string) (*User, error) {
	query := `
		SELECT id, name, email, profile_img, role, created_at
		FROM users
		WHERE id = $1
	`

	var u User
	err := r.db.GetContext(ctx, &u, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select user %s: %w", id, err)
	}
	return &u, nil
}
