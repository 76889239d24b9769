package usecases

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"golang.org/x/crypto/bcrypt"

	"acs-console/internal/infra/utils"
	"acs-console/internal/shared_kernel/domain"
)

// _rootUsername is the bootstrap admin created on first start. It cannot be
// deleted so the deployment can never lock itself out.
const _rootUsername = "admin"

var ErrUnknownPermission = errors.New("unknown permission")

type CreateUserInput struct {
	Username    string
	Password    string
	IsAdmin     bool
	Permissions []string
}

type UserService interface {
	CreateUser(context.Context, CreateUserInput) (domain.User, error)
	GetUser(context.Context, domain.ID) (domain.User, error)
	ListUsers(context.Context) ([]domain.User, error)
	DeleteUser(context.Context, domain.ID) error
	UpdatePassword(ctx context.Context, id domain.ID, password string) error
	GrantPermission(ctx context.Context, id domain.ID, permission string) (domain.User, error)
	RevokePermission(ctx context.Context, id domain.ID, permission string) (domain.User, error)
}

type SimpleUserService struct {
	repository UserRepository
}

var _ UserService = (*SimpleUserService)(nil)

func NewUserService(repository UserRepository) *SimpleUserService {
	return &SimpleUserService{repository: repository}
}

// EnsureRootUser creates the bootstrap admin when no user holds the root
// username yet. Called once at startup.
func (s *SimpleUserService) EnsureRootUser(ctx context.Context, password string) error {
	_, err := s.repository.GetByUsername(ctx, _rootUsername)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return fmt.Errorf("looking up root user: %w", err)
	}

	_, err = s.CreateUser(ctx, CreateUserInput{
		Username: _rootUsername,
		Password: password,
		IsAdmin:  true,
	})
	if errors.Is(err, ErrUserDuplicated) {
		return nil
	}
	return err
}

func (s *SimpleUserService) CreateUser(ctx context.Context, input CreateUserInput) (domain.User, error) {
	if input.Username == "" {
		return domain.User{}, errors.New("username is required")
	}
	if input.Password == "" {
		return domain.User{}, errors.New("password is required")
	}
	for _, permission := range input.Permissions {
		if !slices.Contains(domain.KnownPermissions, permission) {
			return domain.User{}, fmt.Errorf("%w: %s", ErrUnknownPermission, permission)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("hashing password: %w", err)
	}

	user := domain.User{
		ID:           domain.ID(utils.GenerateUUID()),
		Username:     input.Username,
		PasswordHash: string(hash),
		IsAdmin:      input.IsAdmin,
		Permissions:  input.Permissions,
		CreatedAt:    utils.Time{Time: time.Now()},
	}

	if err := s.repository.Create(ctx, user); err != nil {
		return domain.User{}, err
	}

	return user, nil
}

func (s *SimpleUserService) GetUser(ctx context.Context, id domain.ID) (domain.User, error) {
	return s.repository.GetByID(ctx, id)
}

func (s *SimpleUserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.repository.FindAll(ctx)
}

func (s *SimpleUserService) DeleteUser(ctx context.Context, id domain.ID) error {
	user, err := s.repository.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user.Username == _rootUsername {
		return ErrProtectedUser
	}

	return s.repository.Delete(ctx, id)
}

func (s *SimpleUserService) UpdatePassword(ctx context.Context, id domain.ID, password string) error {
	if password == "" {
		return errors.New("password is required")
	}

	user, err := s.repository.GetByID(ctx, id)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	user.PasswordHash = string(hash)
	return s.repository.Update(ctx, user)
}

func (s *SimpleUserService) GrantPermission(ctx context.Context, id domain.ID, permission string) (domain.User, error) {
	if !slices.Contains(domain.KnownPermissions, permission) {
		return domain.User{}, fmt.Errorf("%w: %s", ErrUnknownPermission, permission)
	}

	user, err := s.repository.GetByID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}

	user.GrantPermission(permission)
	if err := s.repository.Update(ctx, user); err != nil {
		return domain.User{}, err
	}

	return user, nil
}

func (s *SimpleUserService) RevokePermission(ctx context.Context, id domain.ID, permission string) (domain.User, error) {
	user, err := s.repository.GetByID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}

	user.RevokePermission(permission)
	if err := s.repository.Update(ctx, user); err != nil {
		return domain.User{}, err
	}

	return user, nil
}
