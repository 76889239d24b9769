package usecases

import (
	"context"
	"errors"

	"acs-console/internal/control_plane/domain"
)

var (
	ErrCommandNotFound = errors.New("command not found")
	// ErrCommandAlreadyPending signals the lane gate: one pending command per
	// (device, kind) pair.
	ErrCommandAlreadyPending = errors.New("a pending command already exists for this device and kind")
	ErrCommandNotPending     = errors.New("command is not pending")
	ErrInvalidTransition     = errors.New("command already reached a terminal state")
)

type CommandRepository interface {
	// Create persists a new command. Inserting a second pending command for
	// an occupied lane fails with ErrCommandAlreadyPending, enforced by a
	// storage-level constraint rather than the caller's pre-check.
	Create(context.Context, domain.Command) error
	GetByID(context.Context, domain.ID) (domain.Command, error)
	// FindPending returns the newest pending command for the lane.
	FindPending(ctx context.Context, deviceID, kind string) (domain.Command, error)
	// FindLatestPending returns the most recently created pending command for
	// the device, regardless of kind.
	FindLatestPending(ctx context.Context, deviceID string) (domain.Command, error)
	// MarkTerminal transitions a pending command; ErrCommandNotFound when the
	// id is unknown, ErrInvalidTransition when it is already terminal.
	MarkTerminal(ctx context.Context, id domain.ID, status domain.CommandStatus, responsePayload map[string]any) error
	// Delete removes a pending command; ErrCommandNotPending otherwise.
	Delete(context.Context, domain.ID) error
	FindRecentByDevice(ctx context.Context, deviceID string, limit int) ([]domain.Command, error)
	CountByStatus(context.Context) (map[domain.CommandStatus]int64, error)
}
