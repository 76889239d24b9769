package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"acs-console/internal/control_plane/domain"
)

type SimpleTaskResultService struct {
	repository CommandRepository
	hub        SubscriptionHub
}

var _ TaskResultService = (*SimpleTaskResultService)(nil)

func NewTaskResultService(repository CommandRepository, hub SubscriptionHub) *SimpleTaskResultService {
	return &SimpleTaskResultService{
		repository: repository,
		hub:        hub,
	}
}

// HandleTaskResult correlates a completion report with the newest pending
// command for the device. The ACS webhook carries no task or command id, so
// device identity is all there is to go on; with several pending commands on
// one device the match can settle the wrong one. Reports with no pending
// candidate are dropped silently, the webhook is fire-and-forget.
func (s *SimpleTaskResultService) HandleTaskResult(ctx context.Context, report TaskResultReport) error {
	command, err := s.repository.FindLatestPending(ctx, report.DeviceID)
	if err != nil {
		if errors.Is(err, ErrCommandNotFound) {
			slog.Debug("task result without pending command",
				slog.String("device_id", report.DeviceID))
			return nil
		}
		return fmt.Errorf("finding pending command: %w", err)
	}

	status := domain.CommandStatusSucceeded
	var responsePayload map[string]any
	if report.FaultCode() != "" {
		status = domain.CommandStatusFailed
		responsePayload = map[string]any{"fault": report.Fault}
	}

	if err := s.repository.MarkTerminal(ctx, command.ID, status, responsePayload); err != nil {
		// Someone else settled or cancelled the command between the lookup and
		// the write. The report has nothing left to apply to.
		if errors.Is(err, ErrCommandNotFound) || errors.Is(err, ErrInvalidTransition) {
			slog.Debug("command settled concurrently",
				slog.String("command_id", string(command.ID)))
			return nil
		}
		return fmt.Errorf("marking command terminal: %w", err)
	}

	s.hub.Publish(ctx, domain.CommandEvent{
		Type:      domain.CommandEventUpdate,
		CommandID: command.ID,
		DeviceID:  command.DeviceID,
		NewStatus: status,
		Timestamp: time.Now(),
	})

	return nil
}
