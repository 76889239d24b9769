package persistence

import (
	"context"
	"errors"
	"fmt"

	"acs-console/internal/infra/sql"
	"acs-console/internal/shared_kernel/domain"
	"acs-console/internal/shared_kernel/persistence/internal"
	"acs-console/internal/shared_kernel/usecases"
)

func NewUserRepository(orm sql.ORM) (*SimpleUserRepository, error) {
	err := orm.AutoMigrate(&internal.User{})
	if err != nil {
		return nil, fmt.Errorf("auto migrating user: %w", err)
	}

	return &SimpleUserRepository{orm: orm}, nil
}

var _ usecases.UserRepository = (*SimpleUserRepository)(nil)

type SimpleUserRepository struct {
	orm sql.ORM
}

func (r *SimpleUserRepository) Create(ctx context.Context, user domain.User) error {
	entity := internal.FromUser(user)
	err := r.orm.WithContext(ctx).Create(&entity).Error()
	if errors.Is(err, sql.ErrDuplicatedKey) {
		return usecases.ErrUserDuplicated
	}
	if err != nil {
		return fmt.Errorf("database insert: %w", err)
	}

	return nil
}

func (r *SimpleUserRepository) GetByID(ctx context.Context, id domain.ID) (domain.User, error) {
	var entity internal.User
	err := r.orm.
		WithContext(ctx).
		First(&entity, "id = ?", id.String()).
		Error()
	if errors.Is(err, sql.ErrRecordNotFound) {
		return domain.User{}, usecases.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("database query: %w", err)
	}

	return entity.ToDomain(), nil
}

func (r *SimpleUserRepository) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	var entity internal.User
	err := r.orm.
		WithContext(ctx).
		First(&entity, "username = ?", username).
		Error()
	if errors.Is(err, sql.ErrRecordNotFound) {
		return domain.User{}, usecases.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("database query: %w", err)
	}

	return entity.ToDomain(), nil
}

func (r *SimpleUserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	var entities internal.UserSet
	err := r.orm.
		WithContext(ctx).
		Order("created_at ASC").
		Find(&entities).
		Error()
	if err != nil {
		return nil, fmt.Errorf("database query: %w", err)
	}

	return entities.ToDomain(), nil
}

func (r *SimpleUserRepository) Update(ctx context.Context, user domain.User) error {
	entity := internal.FromUser(user)
	tx := r.orm.WithContext(ctx).Save(&entity)
	if err := tx.Error(); err != nil {
		return fmt.Errorf("database update: %w", err)
	}

	return nil
}

func (r *SimpleUserRepository) Delete(ctx context.Context, id domain.ID) error {
	tx := r.orm.
		WithContext(ctx).
		Where("id = ?", id.String()).
		Delete(&internal.User{})
	if err := tx.Error(); err != nil {
		return fmt.Errorf("database delete: %w", err)
	}
	if tx.RowsAffected() == 0 {
		return usecases.ErrUserNotFound
	}

	return nil
}
