package user

import (
	"context"

	"github.com/google/uuid"
)

// Repository - data access cho users
type Repository interface {
	Create(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
}
