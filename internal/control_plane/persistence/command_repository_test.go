package persistence_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acs-console/internal/control_plane/domain"
	"acs-console/internal/control_plane/persistence"
	"acs-console/internal/control_plane/usecases"
	"acs-console/internal/infra/sql"
	"acs-console/internal/infra/utils"
)

func newRepository(t *testing.T, name string) *persistence.SimpleCommandRepository {
	t.Helper()

	orm, err := sql.NewMemoryORM(name)
	require.NoError(t, err)

	repository, err := persistence.NewCommandRepository(orm)
	require.NoError(t, err)
	return repository
}

func buildCommand(t *testing.T, deviceID, kind string) domain.Command {
	t.Helper()

	command, err := domain.NewCommandBuilder().
		WithDeviceID(deviceID).
		WithKind(kind).
		WithRequestPayload(map[string]any{"reason": "test"}).
		WithExternalID("task-1").
		WithCreatedBy("user-1").
		Build()
	require.NoError(t, err)
	return command
}

func TestCreateAndGet(t *testing.T) {
	repository := newRepository(t, "repo_create_get")

	command := buildCommand(t, "device-1", "reboot")
	require.NoError(t, repository.Create(context.Background(), command))

	stored, err := repository.GetByID(context.Background(), command.ID)
	require.NoError(t, err)
	assert.Equal(t, command.ID, stored.ID)
	assert.Equal(t, "device-1", stored.DeviceID)
	assert.Equal(t, "reboot", stored.Kind)
	assert.Equal(t, domain.CommandStatusPending, stored.Status)
	assert.Equal(t, map[string]any{"reason": "test"}, stored.RequestPayload)
	require.NotNil(t, stored.ExternalID)
	assert.Equal(t, "task-1", *stored.ExternalID)
}

func TestGetMissingCommand(t *testing.T) {
	repository := newRepository(t, "repo_get_missing")

	_, err := repository.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, usecases.ErrCommandNotFound)
}

func TestLaneConstraintRejectsSecondPending(t *testing.T) {
	repository := newRepository(t, "repo_lane_constraint")

	require.NoError(t, repository.Create(context.Background(), buildCommand(t, "device-1", "reboot")))

	err := repository.Create(context.Background(), buildCommand(t, "device-1", "reboot"))
	assert.ErrorIs(t, err, usecases.ErrCommandAlreadyPending)
}

func TestLaneConstraintUnderConcurrentCreates(t *testing.T) {
	orm, err := sql.NewMemoryORM("repo_lane_concurrent")
	require.NoError(t, err)

	// sqlite allows a single writer at a time; funnel the pool through one
	// connection so concurrent creates contend on the index instead of the
	// database lock.
	pool, err := orm.DB.DB()
	require.NoError(t, err)
	pool.SetMaxOpenConns(1)

	repository, err := persistence.NewCommandRepository(orm)
	require.NoError(t, err)

	const writers = 8
	commands := make([]domain.Command, writers)
	for i := range commands {
		commands[i] = buildCommand(t, "device-1", "reboot")
	}

	results := make(chan error, writers)
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(command domain.Command) {
			defer wg.Done()
			<-start
			results <- repository.Create(context.Background(), command)
		}(commands[i])
	}
	close(start)
	wg.Wait()
	close(results)

	var created, rejected int
	for err := range results {
		switch {
		case err == nil:
			created++
		case errors.Is(err, usecases.ErrCommandAlreadyPending):
			rejected++
		default:
			t.Fatalf("unexpected create error: %v", err)
		}
	}
	assert.Equal(t, 1, created)
	assert.Equal(t, writers-1, rejected)
}

func TestLaneConstraintAllowsOtherLanes(t *testing.T) {
	repository := newRepository(t, "repo_lane_open")

	require.NoError(t, repository.Create(context.Background(), buildCommand(t, "device-1", "reboot")))
	assert.NoError(t, repository.Create(context.Background(), buildCommand(t, "device-1", "setParameterValues")))
	assert.NoError(t, repository.Create(context.Background(), buildCommand(t, "device-2", "reboot")))
}

func TestLaneReopensAfterTerminalTransition(t *testing.T) {
	repository := newRepository(t, "repo_lane_reopen")

	first := buildCommand(t, "device-1", "reboot")
	require.NoError(t, repository.Create(context.Background(), first))
	require.NoError(t, repository.MarkTerminal(context.Background(), first.ID, domain.CommandStatusSucceeded, nil))

	assert.NoError(t, repository.Create(context.Background(), buildCommand(t, "device-1", "reboot")))
}

func TestMarkTerminalStoresResponsePayload(t *testing.T) {
	repository := newRepository(t, "repo_mark_terminal")

	command := buildCommand(t, "device-1", "reboot")
	require.NoError(t, repository.Create(context.Background(), command))

	fault := map[string]any{"fault": map[string]any{"FaultCode": "9002"}}
	require.NoError(t, repository.MarkTerminal(context.Background(), command.ID, domain.CommandStatusFailed, fault))

	stored, err := repository.GetByID(context.Background(), command.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CommandStatusFailed, stored.Status)
	assert.Equal(t, fault, stored.ResponsePayload)
}

func TestMarkTerminalTwiceFails(t *testing.T) {
	repository := newRepository(t, "repo_mark_twice")

	command := buildCommand(t, "device-1", "reboot")
	require.NoError(t, repository.Create(context.Background(), command))
	require.NoError(t, repository.MarkTerminal(context.Background(), command.ID, domain.CommandStatusSucceeded, nil))

	err := repository.MarkTerminal(context.Background(), command.ID, domain.CommandStatusFailed, nil)
	assert.ErrorIs(t, err, usecases.ErrInvalidTransition)

	stored, err := repository.GetByID(context.Background(), command.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CommandStatusSucceeded, stored.Status)
}

func TestMarkTerminalUnknownCommand(t *testing.T) {
	repository := newRepository(t, "repo_mark_unknown")

	err := repository.MarkTerminal(context.Background(), "missing", domain.CommandStatusSucceeded, nil)
	assert.ErrorIs(t, err, usecases.ErrCommandNotFound)
}

func TestDeleteRemovesPendingOnly(t *testing.T) {
	repository := newRepository(t, "repo_delete")

	command := buildCommand(t, "device-1", "reboot")
	require.NoError(t, repository.Create(context.Background(), command))
	require.NoError(t, repository.Delete(context.Background(), command.ID))

	_, err := repository.GetByID(context.Background(), command.ID)
	assert.ErrorIs(t, err, usecases.ErrCommandNotFound)

	terminal := buildCommand(t, "device-1", "reboot")
	require.NoError(t, repository.Create(context.Background(), terminal))
	require.NoError(t, repository.MarkTerminal(context.Background(), terminal.ID, domain.CommandStatusFailed, nil))

	err = repository.Delete(context.Background(), terminal.ID)
	assert.ErrorIs(t, err, usecases.ErrCommandNotPending)
}

func TestFindPendingMatchesLane(t *testing.T) {
	repository := newRepository(t, "repo_find_pending")

	command := buildCommand(t, "device-1", "reboot")
	require.NoError(t, repository.Create(context.Background(), command))

	found, err := repository.FindPending(context.Background(), "device-1", "reboot")
	require.NoError(t, err)
	assert.Equal(t, command.ID, found.ID)

	_, err = repository.FindPending(context.Background(), "device-1", "setParameterValues")
	assert.ErrorIs(t, err, usecases.ErrCommandNotFound)
}

func TestFindLatestPendingPrefersNewest(t *testing.T) {
	repository := newRepository(t, "repo_find_latest")

	older := buildCommand(t, "device-1", "reboot")
	older.CreatedAt = utils.Time{Time: time.Now().Add(-time.Minute)}
	require.NoError(t, repository.Create(context.Background(), older))

	newer := buildCommand(t, "device-1", "setParameterValues")
	newer.CreatedAt = utils.Time{Time: time.Now()}
	require.NoError(t, repository.Create(context.Background(), newer))

	found, err := repository.FindLatestPending(context.Background(), "device-1")
	require.NoError(t, err)
	assert.Equal(t, newer.ID, found.ID)
}

func TestFindRecentByDeviceOrdersNewestFirst(t *testing.T) {
	repository := newRepository(t, "repo_recent")

	for i := 0; i < 3; i++ {
		command := buildCommand(t, "device-1", "reboot")
		command.CreatedAt = utils.Time{Time: time.Now().Add(time.Duration(i) * time.Second)}
		require.NoError(t, repository.Create(context.Background(), command))
		require.NoError(t, repository.MarkTerminal(context.Background(), command.ID, domain.CommandStatusSucceeded, nil))
	}

	commands, err := repository.FindRecentByDevice(context.Background(), "device-1", 2)
	require.NoError(t, err)
	require.Len(t, commands, 2)
	assert.True(t, commands[0].CreatedAt.After(commands[1].CreatedAt.Time))
}

func TestCountByStatus(t *testing.T) {
	repository := newRepository(t, "repo_counts")

	pending := buildCommand(t, "device-1", "reboot")
	require.NoError(t, repository.Create(context.Background(), pending))

	failed := buildCommand(t, "device-2", "reboot")
	require.NoError(t, repository.Create(context.Background(), failed))
	require.NoError(t, repository.MarkTerminal(context.Background(), failed.ID, domain.CommandStatusFailed, nil))

	counts, err := repository.CountByStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[domain.CommandStatusPending])
	assert.Equal(t, int64(1), counts[domain.CommandStatusFailed])
	assert.Equal(t, int64(0), counts[domain.CommandStatusSucceeded])
}
