package usecases

import (
	"context"

	"acs-console/internal/control_plane/domain"
)

type DispatchInput struct {
	DeviceID    string
	Kind        string
	Parameters  map[string]any
	RequestedBy domain.ID
}

type CommandService interface {
	Dispatch(context.Context, DispatchInput) (domain.Command, error)
	Cancel(context.Context, domain.ID) error
	RecentByDevice(ctx context.Context, deviceID string, limit int) ([]domain.Command, error)
	StatusCounts(context.Context) (map[domain.CommandStatus]int64, error)
}

// TaskResultReport is the payload of the ACS completion webhook. The ACS does
// not echo our command id nor its own task id, only the device and an
// optional fault.
type TaskResultReport struct {
	DeviceID string
	Fault    map[string]any
}

// FaultCode returns the fault code carried by the report, or "" when the
// report carries none.
func (r TaskResultReport) FaultCode() string {
	if len(r.Fault) == 0 {
		return ""
	}
	code, _ := r.Fault["FaultCode"].(string)
	return code
}

type TaskResultService interface {
	HandleTaskResult(context.Context, TaskResultReport) error
}

type DeviceService interface {
	AllDevices(context.Context) ([]map[string]any, error)
	GetDevice(ctx context.Context, deviceID string) (map[string]any, error)
}

// SubscriptionHub fans command events out to everyone currently watching a
// device. Best-effort only: nothing is retained for late or disconnected
// subscribers.
type SubscriptionHub interface {
	Subscribe(deviceID string) Subscription
	Unsubscribe(deviceID string, subscription Subscription)
	Publish(ctx context.Context, event domain.CommandEvent)
	Stop()
}
