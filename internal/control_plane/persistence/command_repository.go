package persistence

import (
	"context"
	"errors"
	"fmt"

	"acs-console/internal/control_plane/domain"
	"acs-console/internal/control_plane/persistence/internal"
	"acs-console/internal/control_plane/usecases"
	"acs-console/internal/infra/sql"
)

func NewCommandRepository(orm sql.ORM) (*SimpleCommandRepository, error) {
	err := orm.AutoMigrate(&internal.Command{})
	if err != nil {
		return nil, fmt.Errorf("auto migrating command: %w", err)
	}

	return &SimpleCommandRepository{orm: orm}, nil
}

var _ usecases.CommandRepository = (*SimpleCommandRepository)(nil)

type SimpleCommandRepository struct {
	orm sql.ORM
}

func (r *SimpleCommandRepository) Create(ctx context.Context, cmd domain.Command) error {
	entity := internal.FromCommand(cmd)
	err := r.orm.WithContext(ctx).Create(&entity).Error()
	if errors.Is(err, sql.ErrDuplicatedKey) {
		return usecases.ErrCommandAlreadyPending
	}
	if err != nil {
		return fmt.Errorf("database insert: %w", err)
	}

	return nil
}

func (r *SimpleCommandRepository) GetByID(ctx context.Context, id domain.ID) (domain.Command, error) {
	var entity internal.Command
	err := r.orm.
		WithContext(ctx).
		First(&entity, "id = ?", id.String()).
		Error()
	if errors.Is(err, sql.ErrRecordNotFound) {
		return domain.Command{}, usecases.ErrCommandNotFound
	}
	if err != nil {
		return domain.Command{}, fmt.Errorf("database query: %w", err)
	}

	return entity.ToDomain(), nil
}

func (r *SimpleCommandRepository) FindPending(ctx context.Context, deviceID, kind string) (domain.Command, error) {
	var entity internal.Command
	err := r.orm.
		WithContext(ctx).
		Where("device_id = ? AND kind = ? AND status = ?", deviceID, kind, string(domain.CommandStatusPending)).
		Order("created_at DESC").
		First(&entity).
		Error()
	if errors.Is(err, sql.ErrRecordNotFound) {
		return domain.Command{}, usecases.ErrCommandNotFound
	}
	if err != nil {
		return domain.Command{}, fmt.Errorf("database query: %w", err)
	}

	return entity.ToDomain(), nil
}

func (r *SimpleCommandRepository) FindLatestPending(ctx context.Context, deviceID string) (domain.Command, error) {
	var entity internal.Command
	err := r.orm.
		WithContext(ctx).
		Where("device_id = ? AND status = ?", deviceID, string(domain.CommandStatusPending)).
		Order("created_at DESC").
		First(&entity).
		Error()
	if errors.Is(err, sql.ErrRecordNotFound) {
		return domain.Command{}, usecases.ErrCommandNotFound
	}
	if err != nil {
		return domain.Command{}, fmt.Errorf("database query: %w", err)
	}

	return entity.ToDomain(), nil
}

// MarkTerminal transitions the command with a conditional update so a
// concurrent settle or cancel cannot be overwritten.
func (r *SimpleCommandRepository) MarkTerminal(ctx context.Context, id domain.ID, status domain.CommandStatus, responsePayload map[string]any) error {
	values := map[string]any{"status": string(status)}
	if responsePayload != nil {
		values["response_payload"] = internal.JSONMap(responsePayload)
	}

	tx := r.orm.
		WithContext(ctx).
		Model(&internal.Command{}).
		Where("id = ? AND status = ?", id.String(), string(domain.CommandStatusPending)).
		Updates(values)
	if err := tx.Error(); err != nil {
		return fmt.Errorf("database update: %w", err)
	}
	if tx.RowsAffected() > 0 {
		return nil
	}

	_, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	return usecases.ErrInvalidTransition
}

// Delete removes a pending command. Terminal commands stay in history.
func (r *SimpleCommandRepository) Delete(ctx context.Context, id domain.ID) error {
	tx := r.orm.
		WithContext(ctx).
		Where("id = ? AND status = ?", id.String(), string(domain.CommandStatusPending)).
		Delete(&internal.Command{})
	if err := tx.Error(); err != nil {
		return fmt.Errorf("database delete: %w", err)
	}
	if tx.RowsAffected() > 0 {
		return nil
	}

	_, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	return usecases.ErrCommandNotPending
}

func (r *SimpleCommandRepository) FindRecentByDevice(ctx context.Context, deviceID string, limit int) ([]domain.Command, error) {
	var entities internal.CommandSet
	err := r.orm.
		WithContext(ctx).
		Where("device_id = ?", deviceID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entities).
		Error()
	if err != nil {
		return nil, fmt.Errorf("database query: %w", err)
	}

	return entities.ToDomain(), nil
}

func (r *SimpleCommandRepository) CountByStatus(ctx context.Context) (map[domain.CommandStatus]int64, error) {
	statuses := []domain.CommandStatus{
		domain.CommandStatusPending,
		domain.CommandStatusSucceeded,
		domain.CommandStatusFailed,
	}

	counts := make(map[domain.CommandStatus]int64, len(statuses))
	for _, status := range statuses {
		var total int64
		err := r.orm.
			WithContext(ctx).
			Model(&internal.Command{}).
			Where("status = ?", string(status)).
			Count(&total).
			Error()
		if err != nil {
			return nil, fmt.Errorf("database query: %w", err)
		}
		counts[status] = total
	}

	return counts, nil
}
