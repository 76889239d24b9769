package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"acs-console/internal/acs"
	"acs-console/internal/control_plane/domain"
)

type SimpleCommandService struct {
	repository CommandRepository
	acsClient  acs.Client
	hub        SubscriptionHub
}

var _ CommandService = (*SimpleCommandService)(nil)

func NewCommandService(
	repository CommandRepository,
	acsClient acs.Client,
	hub SubscriptionHub,
) *SimpleCommandService {
	return &SimpleCommandService{
		repository: repository,
		acsClient:  acsClient,
		hub:        hub,
	}
}

// Dispatch submits the command upstream and records the outcome. The lane
// gate is checked twice: a cheap read before touching the ACS, and the
// storage constraint afterwards. When the constraint fires after a successful
// submission the upstream task is cancelled best-effort so both sides
// converge.
func (s *SimpleCommandService) Dispatch(ctx context.Context, input DispatchInput) (domain.Command, error) {
	_, err := s.repository.FindPending(ctx, input.DeviceID, input.Kind)
	switch {
	case err == nil:
		return domain.Command{}, ErrCommandAlreadyPending
	case !errors.Is(err, ErrCommandNotFound):
		return domain.Command{}, fmt.Errorf("checking pending command: %w", err)
	}

	externalID, err := s.acsClient.SubmitTask(ctx, input.DeviceID, input.Kind, input.Parameters)
	if err != nil {
		if persistErr := s.persistFailedDispatch(ctx, input, err); persistErr != nil {
			slog.Error("persisting failed dispatch",
				slog.String("device_id", input.DeviceID),
				slog.String("error", persistErr.Error()))
		}
		return domain.Command{}, err
	}

	command, err := domain.NewCommandBuilder().
		WithDeviceID(input.DeviceID).
		WithKind(input.Kind).
		WithRequestPayload(input.Parameters).
		WithExternalID(externalID).
		WithCreatedBy(input.RequestedBy).
		Build()
	if err != nil {
		s.cancelUpstream(ctx, externalID)
		return domain.Command{}, fmt.Errorf("building command: %w", err)
	}

	if err := s.repository.Create(ctx, command); err != nil {
		s.cancelUpstream(ctx, externalID)
		if errors.Is(err, ErrCommandAlreadyPending) {
			return domain.Command{}, ErrCommandAlreadyPending
		}
		return domain.Command{}, fmt.Errorf("persisting command: %w", err)
	}

	return command, nil
}

// persistFailedDispatch records a command that never made it upstream, so the
// failure is visible in history. Failed records do not occupy the lane.
func (s *SimpleCommandService) persistFailedDispatch(ctx context.Context, input DispatchInput, cause error) error {
	command, err := domain.NewCommandBuilder().
		WithDeviceID(input.DeviceID).
		WithKind(input.Kind).
		WithRequestPayload(input.Parameters).
		WithCreatedBy(input.RequestedBy).
		WithStatus(domain.CommandStatusFailed).
		WithResponsePayload(map[string]any{"error": cause.Error()}).
		Build()
	if err != nil {
		return fmt.Errorf("building failed command: %w", err)
	}

	return s.repository.Create(ctx, command)
}

// cancelUpstream reverses a submission whose local persistence fell through.
// Best-effort: the ACS may have already picked the task up.
func (s *SimpleCommandService) cancelUpstream(ctx context.Context, externalID string) {
	if err := s.acsClient.CancelTask(ctx, externalID); err != nil {
		var upstreamErr *acs.UpstreamError
		if errors.As(err, &upstreamErr) && upstreamErr.StatusCode == 404 {
			return
		}
		slog.Warn("compensating task cancellation failed",
			slog.String("external_id", externalID),
			slog.String("error", err.Error()))
	}
}

func (s *SimpleCommandService) Cancel(ctx context.Context, id domain.ID) error {
	command, err := s.repository.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !command.IsPending() {
		return ErrCommandNotPending
	}

	if command.ExternalID != nil {
		if err := s.acsClient.CancelTask(ctx, *command.ExternalID); err != nil {
			var upstreamErr *acs.UpstreamError
			// 404 means the task is already gone upstream, which is the state
			// we want.
			if !errors.As(err, &upstreamErr) || upstreamErr.StatusCode != 404 {
				return err
			}
		}
	}

	if err := s.repository.Delete(ctx, id); err != nil {
		return err
	}

	s.hub.Publish(ctx, domain.CommandEvent{
		Type:      domain.CommandEventDelete,
		CommandID: command.ID,
		DeviceID:  command.DeviceID,
		Timestamp: time.Now(),
	})

	return nil
}

func (s *SimpleCommandService) RecentByDevice(ctx context.Context, deviceID string, limit int) ([]domain.Command, error) {
	return s.repository.FindRecentByDevice(ctx, deviceID, limit)
}

func (s *SimpleCommandService) StatusCounts(ctx context.Context) (map[domain.CommandStatus]int64, error) {
	return s.repository.CountByStatus(ctx)
}
