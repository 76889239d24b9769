// Package acs wraps the task and device operations of the external
// auto-configuration server (ACS) that actually talks to the CPE fleet.
package acs

import (
	"context"
	"errors"
	"fmt"
)

// Client is the outbound port to the ACS. Calls carry bounded timeouts and
// are never retried here; retry policy belongs to callers.
type Client interface {
	// SubmitTask queues a task for a device and returns the identifier the
	// ACS assigned to it.
	SubmitTask(ctx context.Context, deviceID, kind string, parameters map[string]any) (string, error)
	// CancelTask removes a queued task. Cancelling an already-drained task
	// surfaces the upstream 404 unchanged; callers decide whether that is
	// acceptable.
	CancelTask(ctx context.Context, externalID string) error
	ListDevices(ctx context.Context) ([]map[string]any, error)
	GetDevice(ctx context.Context, deviceID string) (map[string]any, error)
}

var (
	ErrUpstreamUnreachable = errors.New("acs unreachable")
	ErrMalformedResponse   = errors.New("malformed acs response")
	ErrDeviceNotFound      = errors.New("device not found in acs")
)

// UpstreamError carries the status and body of a non-2xx ACS response.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("acs rejected request: status=%d body=%s", e.StatusCode, e.Body)
}
