package usecases_test

import (
	"context"
	"sync"

	"acs-console/internal/shared_kernel/domain"
	"acs-console/internal/shared_kernel/usecases"
)

type fakeUserRepository struct {
	mu    sync.Mutex
	users map[domain.ID]domain.User
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: make(map[domain.ID]domain.User)}
}

func (r *fakeUserRepository) Create(_ context.Context, user domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Username == user.Username {
			return usecases.ErrUserDuplicated
		}
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepository) GetByID(_ context.Context, id domain.ID) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return domain.User{}, usecases.ErrUserNotFound
	}
	return user, nil
}

func (r *fakeUserRepository) GetByUsername(_ context.Context, username string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Username == username {
			return user, nil
		}
	}
	return domain.User{}, usecases.ErrUserNotFound
}

func (r *fakeUserRepository) FindAll(_ context.Context) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]domain.User, 0, len(r.users))
	for _, user := range r.users {
		result = append(result, user)
	}
	return result, nil
}

func (r *fakeUserRepository) Update(_ context.Context, user domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return usecases.ErrUserNotFound
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepository) Delete(_ context.Context, id domain.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return usecases.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}
