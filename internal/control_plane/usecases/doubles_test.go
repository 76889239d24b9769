package usecases_test

import (
	"context"
	"sort"
	"sync"

	"acs-console/internal/acs"
	"acs-console/internal/control_plane/domain"
	"acs-console/internal/control_plane/usecases"
)

// fakeCommandRepository is an in-memory CommandRepository mirroring the
// storage semantics the real implementation gets from the database.
type fakeCommandRepository struct {
	mu              sync.Mutex
	commands        map[domain.ID]domain.Command
	createErr       error
	markTerminalErr error
}

func newFakeCommandRepository() *fakeCommandRepository {
	return &fakeCommandRepository{commands: make(map[domain.ID]domain.Command)}
}

func (r *fakeCommandRepository) Create(_ context.Context, cmd domain.Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.createErr != nil {
		return r.createErr
	}

	if cmd.IsPending() {
		for _, existing := range r.commands {
			if existing.IsPending() && existing.DeviceID == cmd.DeviceID && existing.Kind == cmd.Kind {
				return usecases.ErrCommandAlreadyPending
			}
		}
	}

	r.commands[cmd.ID] = cmd
	return nil
}

func (r *fakeCommandRepository) GetByID(_ context.Context, id domain.ID) (domain.Command, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cmd, ok := r.commands[id]
	if !ok {
		return domain.Command{}, usecases.ErrCommandNotFound
	}
	return cmd, nil
}

func (r *fakeCommandRepository) FindPending(_ context.Context, deviceID, kind string) (domain.Command, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, cmd := range r.commands {
		if cmd.IsPending() && cmd.DeviceID == deviceID && cmd.Kind == kind {
			return cmd, nil
		}
	}
	return domain.Command{}, usecases.ErrCommandNotFound
}

func (r *fakeCommandRepository) FindLatestPending(_ context.Context, deviceID string) (domain.Command, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var latest domain.Command
	found := false
	for _, cmd := range r.commands {
		if !cmd.IsPending() || cmd.DeviceID != deviceID {
			continue
		}
		if !found || cmd.CreatedAt.After(latest.CreatedAt.Time) {
			latest = cmd
			found = true
		}
	}
	if !found {
		return domain.Command{}, usecases.ErrCommandNotFound
	}
	return latest, nil
}

func (r *fakeCommandRepository) MarkTerminal(_ context.Context, id domain.ID, status domain.CommandStatus, responsePayload map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.markTerminalErr != nil {
		return r.markTerminalErr
	}

	cmd, ok := r.commands[id]
	if !ok {
		return usecases.ErrCommandNotFound
	}
	if !cmd.IsPending() {
		return usecases.ErrInvalidTransition
	}

	cmd.Status = status
	if responsePayload != nil {
		cmd.ResponsePayload = responsePayload
	}
	r.commands[id] = cmd
	return nil
}

func (r *fakeCommandRepository) Delete(_ context.Context, id domain.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cmd, ok := r.commands[id]
	if !ok {
		return usecases.ErrCommandNotFound
	}
	if !cmd.IsPending() {
		return usecases.ErrCommandNotPending
	}

	delete(r.commands, id)
	return nil
}

func (r *fakeCommandRepository) FindRecentByDevice(_ context.Context, deviceID string, limit int) ([]domain.Command, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []domain.Command
	for _, cmd := range r.commands {
		if cmd.DeviceID == deviceID {
			result = append(result, cmd)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt.Time)
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *fakeCommandRepository) CountByStatus(_ context.Context) (map[domain.CommandStatus]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	counts := make(map[domain.CommandStatus]int64)
	for _, cmd := range r.commands {
		counts[cmd.Status]++
	}
	return counts, nil
}

type fakeACSClient struct {
	mu             sync.Mutex
	submitResult   string
	submitErr      error
	cancelErr      error
	submittedTasks []string
	cancelledTasks []string
	devices        []map[string]any
	listCalls      int
}

func (c *fakeACSClient) SubmitTask(_ context.Context, deviceID, kind string, _ map[string]any) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.submitErr != nil {
		return "", c.submitErr
	}
	c.submittedTasks = append(c.submittedTasks, deviceID+"/"+kind)
	return c.submitResult, nil
}

func (c *fakeACSClient) CancelTask(_ context.Context, externalID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancelledTasks = append(c.cancelledTasks, externalID)
	return c.cancelErr
}

func (c *fakeACSClient) ListDevices(_ context.Context) ([]map[string]any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.listCalls++
	return c.devices, nil
}

func (c *fakeACSClient) GetDevice(_ context.Context, deviceID string) (map[string]any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, device := range c.devices {
		if device["_id"] == deviceID {
			return device, nil
		}
	}
	return nil, acs.ErrDeviceNotFound
}

type fakeHub struct {
	mu     sync.Mutex
	events []domain.CommandEvent
}

func (h *fakeHub) Subscribe(_ string) usecases.Subscription {
	return usecases.Subscription{}
}

func (h *fakeHub) Unsubscribe(_ string, _ usecases.Subscription) {}

func (h *fakeHub) Publish(_ context.Context, event domain.CommandEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
}

func (h *fakeHub) Stop() {}

func (h *fakeHub) published() []domain.CommandEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]domain.CommandEvent(nil), h.events...)
}
