package user

import (
	"context"

	"github.com/pankajbaid567/Fittlr-Backend/internal/apperr"
	"github.com/pankajbaid567/Fittlr-Backend/internal/auth"
)

type Service interface {
	EnsureProfile(ctx context.Context, id auth.Identity) error
	GetByID(ctx context.Context, userID string) (*User, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{
		repo: repo,
	}
}

// EnsureProfile records a token holder the first time they call the API so
// bookings can reference them.
func (s *service) EnsureProfile(ctx context.Context, id auth.Identity) error {
	role := id.Role
	if role == "" {
		role = auth.RoleMember
	}
	name := id.Name
	if name == "" {
		name = id.Email
	}
	return s.repo.Ensure(ctx, User{ID: id.UserID, Name: name, Email: id.Email, Role: role})
}

func (s *service) GetByID(ctx context.Context, userID string) (*User, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperr.NotFound("User not found")
	}
	return u, nil
}
