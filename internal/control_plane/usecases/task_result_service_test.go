package usecases_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acs-console/internal/control_plane/domain"
	"acs-console/internal/control_plane/usecases"
	"acs-console/internal/infra/utils"
)

func pendingCommand(t *testing.T, repository *fakeCommandRepository, deviceID, kind string, createdAt time.Time) domain.Command {
	t.Helper()

	command, err := domain.NewCommandBuilder().
		WithDeviceID(deviceID).
		WithKind(kind).
		Build()
	require.NoError(t, err)
	command.CreatedAt = utils.Time{Time: createdAt}

	require.NoError(t, repository.Create(context.Background(), command))
	return command
}

func TestTaskResultMarksSucceeded(t *testing.T) {
	repository := newFakeCommandRepository()
	hub := &fakeHub{}
	service := usecases.NewTaskResultService(repository, hub)

	command := pendingCommand(t, repository, "device-1", "reboot", time.Now())

	err := service.HandleTaskResult(context.Background(), usecases.TaskResultReport{
		DeviceID: "device-1",
	})
	require.NoError(t, err)

	stored, err := repository.GetByID(context.Background(), command.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CommandStatusSucceeded, stored.Status)
	assert.Nil(t, stored.ResponsePayload)

	events := hub.published()
	require.Len(t, events, 1)
	assert.Equal(t, domain.CommandEventUpdate, events[0].Type)
	assert.Equal(t, domain.CommandStatusSucceeded, events[0].NewStatus)
}

func TestTaskResultMarksFailedOnFault(t *testing.T) {
	repository := newFakeCommandRepository()
	hub := &fakeHub{}
	service := usecases.NewTaskResultService(repository, hub)

	command := pendingCommand(t, repository, "device-1", "reboot", time.Now())

	fault := map[string]any{"FaultCode": "9002", "FaultString": "Internal error"}
	err := service.HandleTaskResult(context.Background(), usecases.TaskResultReport{
		DeviceID: "device-1",
		Fault:    fault,
	})
	require.NoError(t, err)

	stored, err := repository.GetByID(context.Background(), command.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CommandStatusFailed, stored.Status)
	assert.Equal(t, map[string]any{"fault": fault}, stored.ResponsePayload)
}

func TestTaskResultCorrelatesNewestPending(t *testing.T) {
	repository := newFakeCommandRepository()
	service := usecases.NewTaskResultService(repository, &fakeHub{})

	older := pendingCommand(t, repository, "device-1", "reboot", time.Now().Add(-time.Minute))
	newer := pendingCommand(t, repository, "device-1", "setParameterValues", time.Now())

	err := service.HandleTaskResult(context.Background(), usecases.TaskResultReport{
		DeviceID: "device-1",
	})
	require.NoError(t, err)

	storedNewer, err := repository.GetByID(context.Background(), newer.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CommandStatusSucceeded, storedNewer.Status)

	storedOlder, err := repository.GetByID(context.Background(), older.ID)
	require.NoError(t, err)
	assert.True(t, storedOlder.IsPending())
}

func TestTaskResultWithoutPendingCommandIsDiscarded(t *testing.T) {
	repository := newFakeCommandRepository()
	hub := &fakeHub{}
	service := usecases.NewTaskResultService(repository, hub)

	err := service.HandleTaskResult(context.Background(), usecases.TaskResultReport{
		DeviceID: "device-unknown",
	})

	assert.NoError(t, err)
	assert.Empty(t, hub.published())
}

func TestTaskResultIgnoresLostRace(t *testing.T) {
	repository := newFakeCommandRepository()
	hub := &fakeHub{}
	service := usecases.NewTaskResultService(repository, hub)

	pendingCommand(t, repository, "device-1", "reboot", time.Now())

	// Another writer settles the command between lookup and update.
	repository.markTerminalErr = usecases.ErrInvalidTransition

	err := service.HandleTaskResult(context.Background(), usecases.TaskResultReport{
		DeviceID: "device-1",
	})
	assert.NoError(t, err)
	assert.Empty(t, hub.published())
}
