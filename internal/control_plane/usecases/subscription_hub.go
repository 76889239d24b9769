package usecases

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"acs-console/internal/control_plane/domain"
	"acs-console/internal/infra/utils"
)

// _subscriberBufferSize bounds the per-subscriber queue. When a subscriber
// falls this far behind, newer events for it are dropped instead of blocking
// delivery to the rest.
const _subscriberBufferSize = 16

type Subscription struct {
	ID       string
	Receiver <-chan domain.CommandEvent
}

type subscriber struct {
	id       string
	events   chan domain.CommandEvent
	once     sync.Once
	dropped  atomic.Uint64
	deviceID string
}

func (s *subscriber) safeClose() {
	s.once.Do(func() {
		close(s.events)
	})
}

// DeviceSubscriptionHub is the process-wide registry of live per-device
// channels. It is constructed at startup and torn down at shutdown; nothing
// survives a restart.
type DeviceSubscriptionHub struct {
	mu       sync.RWMutex
	registry map[string][]*subscriber
	stopped  bool
}

var _ SubscriptionHub = (*DeviceSubscriptionHub)(nil)

func NewDeviceSubscriptionHub() *DeviceSubscriptionHub {
	return &DeviceSubscriptionHub{
		registry: make(map[string][]*subscriber),
	}
}

func (h *DeviceSubscriptionHub) Subscribe(deviceID string) Subscription {
	sub := &subscriber{
		id:       utils.GenerateUUID(),
		events:   make(chan domain.CommandEvent, _subscriberBufferSize),
		deviceID: deviceID,
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		sub.safeClose()
	} else {
		h.registry[deviceID] = append(h.registry[deviceID], sub)
	}

	return Subscription{ID: sub.id, Receiver: sub.events}
}

func (h *DeviceSubscriptionHub) Unsubscribe(deviceID string, subscription Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs := h.registry[deviceID]
	for i, sub := range subs {
		if sub.id == subscription.ID {
			h.registry[deviceID] = append(subs[:i], subs[i+1:]...)
			sub.safeClose()
			break
		}
	}

	if len(h.registry[deviceID]) == 0 {
		delete(h.registry, deviceID)
	}
}

// Publish delivers the event to every subscriber of the event's device, in
// registration order. Sends never block: slow subscribers lose events.
func (h *DeviceSubscriptionHub) Publish(_ context.Context, event domain.CommandEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.stopped {
		return
	}

	for _, sub := range h.registry[event.DeviceID] {
		select {
		case sub.events <- event:
		default:
			slog.Warn("dropping event for slow subscriber",
				slog.String("device_id", event.DeviceID),
				slog.String("subscription_id", sub.id),
				slog.Uint64("dropped_total", sub.dropped.Add(1)))
		}
	}
}

func (h *DeviceSubscriptionHub) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.stopped = true
	for deviceID, subs := range h.registry {
		for _, sub := range subs {
			sub.safeClose()
		}
		delete(h.registry, deviceID)
	}
}
