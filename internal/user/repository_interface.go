package user

import "context"

type Repository interface {
	// Ensure inserts the user when the id is unknown and leaves existing rows untouched.
	Ensure(ctx context.Context, u User) error
	FindByID(ctx context.Context, id string) (*User, error)
}
