package usecases

import (
	"context"
	"errors"

	"acs-console/internal/shared_kernel/domain"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrUserDuplicated = errors.New("username already taken")
	// ErrProtectedUser guards the bootstrap admin account against deletion.
	ErrProtectedUser = errors.New("user cannot be deleted")
)

type UserRepository interface {
	Create(context.Context, domain.User) error
	GetByID(context.Context, domain.ID) (domain.User, error)
	GetByUsername(ctx context.Context, username string) (domain.User, error)
	FindAll(context.Context) ([]domain.User, error)
	Update(context.Context, domain.User) error
	Delete(context.Context, domain.ID) error
}
